package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/spf13/cobra"
	"github.com/wegman-software/vec2globe-go/internal/config"
	"github.com/wegman-software/vec2globe-go/internal/logger"
	"github.com/wegman-software/vec2globe-go/internal/pipeline"
	"github.com/wegman-software/vec2globe-go/scene"
)

var bboxString string

var convertCmd = &cobra.Command{
	Use:   "convert [input files...]",
	Short: "Convert vector features into a scene graph",
	Long: `Convert vector map features into a renderer-neutral 3D globe scene
graph and write it as JSON.

Each input file (or database table) becomes one layer. Features are styled
through a Lua script, a YAML style file or the built-in defaults, then
translated into solids, outlines, billboards and labels positioned on the
WGS84 ellipsoid.`,
	Run: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().IntVar(&cfg.SourceSRID, "srid", cfg.SourceSRID, "SRID of input coordinates (4326 or 3857)")
	convertCmd.Flags().Float64VarP(&cfg.Resolution, "resolution", "r", cfg.Resolution, "View resolution in map units per pixel")
	convertCmd.Flags().Float64Var(&cfg.MaxLineWidth, "max-line-width", cfg.MaxLineWidth, "Renderer line width ceiling")
	convertCmd.Flags().StringVar(&cfg.StyleScript, "style-script", "", "Lua style script")
	convertCmd.Flags().StringVar(&cfg.StyleFile, "style", "", "Static style YAML file")
	convertCmd.Flags().StringVar(&cfg.IconDir, "icon-dir", "", "Directory icon sources resolve against")
	convertCmd.Flags().Float64Var(&cfg.IconDensity, "icon-density", cfg.IconDensity, "Display density for icon images")
	convertCmd.Flags().StringVar(&cfg.AltitudeMode, "altitude-mode", "", "Layer height reference (clampToGround, relativeToGround)")
	convertCmd.Flags().StringVarP(&cfg.OutputFile, "output", "o", cfg.OutputFile, "Output file (- = stdout)")
	convertCmd.Flags().StringVar(&bboxString, "bbox", "", "Bounding box filter: minlon,minlat,maxlon,maxlat")
	convertCmd.Flags().StringSliceVar(&cfg.DBTables, "db-table", nil, "PostGIS tables to read features from")
}

// layerDocument is the JSON shape of one converted layer.
type layerDocument struct {
	Name       string             `json:"name"`
	Features   int                `json:"features"`
	Stats      scene.Stats        `json:"stats"`
	Scene      *scene.Collection  `json:"scene"`
	Billboards []*scene.Billboard `json:"billboards"`
}

type sceneDocument struct {
	Generated time.Time       `json:"generated"`
	SRID      int             `json:"source_srid"`
	Layers    []layerDocument `json:"layers"`
}

func runConvert(cmd *cobra.Command, args []string) {
	log := logger.Get()

	cfg.InputFiles = args
	bbox, err := config.ParseBBox(bboxString)
	if err != nil {
		exitWithError("invalid bounding box", err)
	}
	cfg.BBox = bbox

	if err := cfg.Validate(); err != nil {
		exitWithError("invalid configuration", err)
	}

	log.Info("Starting conversion",
		zap.Strings("inputs", cfg.InputFiles),
		zap.Strings("tables", cfg.DBTables),
		zap.Int("srid", cfg.SourceSRID),
		zap.Float64("resolution", cfg.Resolution),
		zap.Int("workers", cfg.Workers),
	)

	start := time.Now()

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		exitWithError("failed to create pipeline", err)
	}
	defer p.Close()

	results, stats, err := p.Run(context.Background())
	if err != nil {
		exitWithError("conversion failed", err)
	}

	doc := sceneDocument{
		Generated: time.Now().UTC(),
		SRID:      cfg.SourceSRID,
		Layers:    make([]layerDocument, 0, len(results)),
	}
	for _, r := range results {
		doc.Layers = append(doc.Layers, layerDocument{
			Name:       r.Name,
			Features:   r.Features,
			Stats:      r.Stats,
			Scene:      r.Scene,
			Billboards: r.Billboards.Billboards(),
		})
	}

	written, err := writeDocument(&doc, cfg.OutputFile)
	if err != nil {
		exitWithError("failed to write scene", err)
	}

	log.Info("Conversion complete",
		zap.Duration("duration", time.Since(start).Round(time.Millisecond)),
		zap.Int("layers", stats.Layers),
		zap.Int("features", stats.Features),
		zap.Int("primitives", stats.Primitives),
		zap.Int("billboards", stats.Billboards),
		zap.String("output_size", humanize.IBytes(uint64(written))),
	)
}

func writeDocument(doc *sceneDocument, path string) (int, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to marshal scene: %w", err)
	}
	data = append(data, '\n')

	if path == "" || path == "-" {
		n, err := os.Stdout.Write(data)
		return n, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return len(data), nil
}
