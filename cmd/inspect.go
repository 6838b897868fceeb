package cmd

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spf13/cobra"
	"github.com/wegman-software/vec2globe-go/feature"
	"github.com/wegman-software/vec2globe-go/geom"
	"github.com/wegman-software/vec2globe-go/internal/logger"
	"github.com/wegman-software/vec2globe-go/source/geojsonsrc"
	"github.com/wegman-software/vec2globe-go/source/osmsrc"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <input file>",
	Short: "Summarize the features of an input file",
	Long: `Read an input file and report a census of its features: counts per
geometry kind, 3D coordinate usage and the combined bounding extent.`,
	Args: cobra.ExactArgs(1),
	Run:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) {
	log := logger.Get()
	path := args[0]

	start := time.Now()
	src, err := loadInput(path)
	if err != nil {
		exitWithError("failed to read input", err)
	}

	kinds := make(map[string]int)
	bbox := geom.InitialBBox()
	var threeD, noGeometry int

	for _, feat := range src.Features() {
		if feat.Geometry == nil {
			noGeometry++
			continue
		}
		kinds[feat.Geometry.Kind().String()]++
		if feat.Geometry.Is3D() {
			threeD++
		}
		bbox = bbox.Union(feat.Geometry.Bound())
	}

	fields := []zap.Field{
		zap.String("input", path),
		zap.Int("features", src.Len()),
		zap.Int("with_elevation", threeD),
		zap.Duration("duration", time.Since(start).Round(time.Millisecond)),
	}
	if noGeometry > 0 {
		fields = append(fields, zap.Int("no_geometry", noGeometry))
	}
	if !bbox.IsEmpty() {
		fields = append(fields,
			zap.Float64("min_x", bbox.MinX), zap.Float64("min_y", bbox.MinY),
			zap.Float64("max_x", bbox.MaxX), zap.Float64("max_y", bbox.MaxY))
	}
	log.Info("Input summary", fields...)

	for kind, count := range kinds {
		log.Info("Geometry census", zap.String("kind", kind), zap.Int("count", count))
	}
}

func loadInput(path string) (*feature.Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".pbf") {
		return osmsrc.LoadFile(context.Background(), path, osmsrc.Options{Procs: cfg.Workers, Logger: logger.Get()})
	}
	return geojsonsrc.LoadFile(path)
}
