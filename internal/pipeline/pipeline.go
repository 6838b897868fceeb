// Package pipeline orchestrates the end-to-end conversion: feature sources
// in, styled scene graph out.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wegman-software/vec2globe-go/convert"
	"github.com/wegman-software/vec2globe-go/feature"
	"github.com/wegman-software/vec2globe-go/geom"
	"github.com/wegman-software/vec2globe-go/icon"
	"github.com/wegman-software/vec2globe-go/internal/config"
	"github.com/wegman-software/vec2globe-go/internal/logger"
	"github.com/wegman-software/vec2globe-go/internal/metrics"
	"github.com/wegman-software/vec2globe-go/luastyle"
	"github.com/wegman-software/vec2globe-go/scene"
	"github.com/wegman-software/vec2globe-go/source/geojsonsrc"
	"github.com/wegman-software/vec2globe-go/source/osmsrc"
	"github.com/wegman-software/vec2globe-go/source/pgsrc"
	"github.com/wegman-software/vec2globe-go/style"
)

// Stats holds conversion statistics
type Stats struct {
	Layers     int
	Features   int
	Primitives int
	Billboards int
}

// LayerResult pairs a converted layer with its scene output.
type LayerResult struct {
	Name       string
	Features   int
	Scene      *scene.Collection
	Billboards *scene.BillboardCollection
	Stats      scene.Stats
}

// Pipeline drives source loading, style resolution and conversion.
type Pipeline struct {
	cfg   *config.Config
	conv  *convert.Converter
	icons *icon.Registry

	// styleFn is the layer style; scripted styles win over static ones
	styleFn feature.StyleFunc
	luaRT   *luastyle.Runtime
	pg      *pgsrc.Provider
}

// NewPipeline builds a pipeline from validated configuration.
func NewPipeline(cfg *config.Config) (*Pipeline, error) {
	log := logger.Get()

	var loader icon.Loader
	if cfg.IconDir != "" {
		loader = icon.FileLoader{Dir: cfg.IconDir}
	}
	icons := icon.NewRegistry(loader, cfg.IconDensity)

	p := &Pipeline{
		cfg:   cfg,
		icons: icons,
		conv: convert.New(convert.Options{
			MaxLineWidth: cfg.MaxLineWidth,
			IconDensity:  cfg.IconDensity,
			Icons:        icons,
			Logger:       log,
		}),
	}

	switch {
	case cfg.StyleScript != "":
		rt := luastyle.New(log)
		if err := rt.LoadFile(cfg.StyleScript); err != nil {
			rt.Close()
			return nil, err
		}
		p.luaRT = rt
		p.styleFn = rt.Func()
	case cfg.StyleFile != "":
		styleCfg, err := style.LoadConfig(cfg.StyleFile)
		if err != nil {
			return nil, err
		}
		fn, err := StaticStyleFunc(styleCfg)
		if err != nil {
			return nil, err
		}
		p.styleFn = fn
	default:
		def := style.Default()
		p.styleFn = func(*feature.Feature, float64) []style.Style { return []style.Style{def} }
	}

	return p, nil
}

// Close releases the Lua runtime and database pool.
func (p *Pipeline) Close() {
	if p.luaRT != nil {
		p.luaRT.Close()
	}
	if p.pg != nil {
		p.pg.Close()
	}
}

// Run loads all configured inputs and converts them in parallel. Results
// keep input order.
func (p *Pipeline) Run(ctx context.Context) ([]LayerResult, *Stats, error) {
	log := logger.Get()

	if p.cfg.MetricsInterval > 0 {
		metricsCtx, cancelMetrics := context.WithCancel(ctx)
		defer cancelMetrics()

		collector := metrics.NewCollector(p.cfg.MetricsInterval, log)
		go collector.Start(metricsCtx)
	}

	layers, err := p.loadLayers(ctx)
	if err != nil {
		return nil, nil, err
	}

	view := feature.View{Resolution: p.cfg.Resolution, SRID: p.cfg.SourceSRID}
	results := make([]LayerResult, len(layers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	for i, layer := range layers {
		i, layer := i, layer
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			coll, cctx := p.conv.ConvertLayer(layer, view, nil)
			results[i] = LayerResult{
				Name:       layer.Name,
				Features:   layer.Source.Len(),
				Scene:      coll,
				Billboards: cctx.Billboards,
				Stats:      scene.CollectStats(coll, cctx.Billboards),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	stats := &Stats{Layers: len(results)}
	for _, r := range results {
		stats.Features += r.Features
		stats.Primitives += r.Stats.Total()
		stats.Billboards += r.Stats.Billboards
	}
	return results, stats, nil
}

// loadLayers reads every configured input into a layer, file inputs first,
// database tables after.
func (p *Pipeline) loadLayers(ctx context.Context) ([]*feature.Layer, error) {
	log := logger.Get()
	var layers []*feature.Layer

	for _, path := range p.cfg.InputFiles {
		src, err := p.loadFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", path, err)
		}
		src = p.filterBBox(src)
		layers = append(layers, p.newLayer(layerName(path), src))
		log.Info("Input loaded", zap.String("input", path), zap.Int("features", src.Len()))
	}

	if len(p.cfg.DBTables) > 0 {
		provider, err := pgsrc.New(ctx, p.cfg.ConnectionString(), p.cfg.Workers, log)
		if err != nil {
			return nil, err
		}
		p.pg = provider

		for _, table := range p.cfg.DBTables {
			src, srid, err := provider.Load(ctx, pgsrc.Query{Table: p.cfg.DBSchema + "." + table})
			if err != nil {
				return nil, fmt.Errorf("table %s: %w", table, err)
			}
			if srid != 0 && srid != p.cfg.SourceSRID {
				return nil, fmt.Errorf("table %s has SRID %d, configured source SRID is %d", table, srid, p.cfg.SourceSRID)
			}
			src = p.filterBBox(src)
			layers = append(layers, p.newLayer(table, src))
			log.Info("Table loaded", zap.String("table", table), zap.Int("features", src.Len()))
		}
	}

	return layers, nil
}

func (p *Pipeline) newLayer(name string, src *feature.Source) *feature.Layer {
	return &feature.Layer{
		Name:         name,
		Source:       src,
		Style:        p.styleFn,
		AltitudeMode: p.cfg.AltitudeMode,
	}
}

// loadFile picks the reader from the file extension.
func (p *Pipeline) loadFile(ctx context.Context, path string) (*feature.Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return geojsonsrc.LoadFile(path)
	case ".pbf":
		return osmsrc.LoadFile(ctx, path, osmsrc.Options{Procs: p.cfg.Workers, Logger: logger.Get()})
	default:
		return nil, fmt.Errorf("unsupported input format: %s", path)
	}
}

// filterBBox drops features whose first coordinate falls outside the
// configured box. Only geographic inputs are filtered.
func (p *Pipeline) filterBBox(src *feature.Source) *feature.Source {
	if p.cfg.BBox == nil || !p.cfg.BBox.IsSet || p.cfg.SourceSRID != 4326 {
		return src
	}
	filtered := feature.NewSource()
	for _, feat := range src.Features() {
		if feat.Geometry == nil {
			continue
		}
		c, ok := geom.FirstCoordinate(feat.Geometry)
		if !ok || p.cfg.BBox.Contains(c.Y, c.X) {
			filtered.Add(feat)
		}
	}
	return filtered
}

// layerName derives a layer name from an input path.
func layerName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
