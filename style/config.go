package style

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML form of layer default styles, keyed by geometry class.
// It backs the layer-level style fallback when no scripted style function is
// configured.
type Config struct {
	// Point style for point-like geometries
	Point *ComponentConfig `yaml:"point,omitempty"`
	// Line style for linear geometries
	Line *ComponentConfig `yaml:"line,omitempty"`
	// Polygon style for areal geometries (polygons, circles)
	Polygon *ComponentConfig `yaml:"polygon,omitempty"`
}

// ComponentConfig is the YAML form of a single Style record.
type ComponentConfig struct {
	Fill   *FillConfig   `yaml:"fill,omitempty"`
	Stroke *StrokeConfig `yaml:"stroke,omitempty"`
	Icon   *IconConfig   `yaml:"icon,omitempty"`
	Text   *TextConfig   `yaml:"text,omitempty"`
}

// FillConfig holds a hex fill color.
type FillConfig struct {
	Color string `yaml:"color"`
}

// StrokeConfig holds a hex stroke color, width and optional dash pattern.
type StrokeConfig struct {
	Color    string    `yaml:"color"`
	Width    float64   `yaml:"width,omitempty"`
	LineDash []float64 `yaml:"line_dash,omitempty"`
}

// IconConfig names a marker image.
type IconConfig struct {
	Src   string  `yaml:"src"`
	Scale float64 `yaml:"scale,omitempty"`
}

// TextConfig holds label defaults. The content is usually supplied per
// feature through the `label` attribute placeholder.
type TextConfig struct {
	Attribute string  `yaml:"attribute,omitempty"`
	Font      string  `yaml:"font,omitempty"`
	OffsetX   float64 `yaml:"offset_x,omitempty"`
	OffsetY   float64 `yaml:"offset_y,omitempty"`
	Align     string  `yaml:"align,omitempty"`
	Baseline  string  `yaml:"baseline,omitempty"`
	Fill      *FillConfig   `yaml:"fill,omitempty"`
	Stroke    *StrokeConfig `yaml:"stroke,omitempty"`
}

// LoadConfig loads a style configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read style file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse style YAML: %w", err)
	}

	return &cfg, nil
}

// Build converts a component config into a resolved Style. The text content
// is left empty; callers substitute the labeled attribute per feature.
func (cc *ComponentConfig) Build() (Style, error) {
	var st Style

	if cc.Fill != nil {
		c, err := ParseHex(cc.Fill.Color)
		if err != nil {
			return Style{}, fmt.Errorf("fill: %w", err)
		}
		st.Fill = &Fill{Color: &c}
	}

	if cc.Stroke != nil {
		stroke, err := cc.Stroke.build()
		if err != nil {
			return Style{}, fmt.Errorf("stroke: %w", err)
		}
		st.Stroke = stroke
	}

	if cc.Icon != nil {
		st.Icon = &Icon{Src: cc.Icon.Src, Scale: cc.Icon.Scale}
	}

	if cc.Text != nil {
		text := &Text{
			Font:     cc.Text.Font,
			OffsetX:  cc.Text.OffsetX,
			OffsetY:  cc.Text.OffsetY,
			Align:    cc.Text.Align,
			Baseline: cc.Text.Baseline,
		}
		if cc.Text.Fill != nil {
			c, err := ParseHex(cc.Text.Fill.Color)
			if err != nil {
				return Style{}, fmt.Errorf("text fill: %w", err)
			}
			text.Fill = &Fill{Color: &c}
		}
		if cc.Text.Stroke != nil {
			stroke, err := cc.Text.Stroke.build()
			if err != nil {
				return Style{}, fmt.Errorf("text stroke: %w", err)
			}
			text.Stroke = stroke
		}
		st.Text = text
	}

	return st, nil
}

func (sc *StrokeConfig) build() (*Stroke, error) {
	c, err := ParseHex(sc.Color)
	if err != nil {
		return nil, err
	}
	dash := make([]float64, len(sc.LineDash))
	copy(dash, sc.LineDash)
	return &Stroke{Color: &c, Width: sc.Width, LineDash: dash}, nil
}

// ForClass returns the component config for a geometry class name
// ("point", "line", "polygon"), or nil when unset.
func (c *Config) ForClass(class string) *ComponentConfig {
	switch class {
	case "point":
		return c.Point
	case "line":
		return c.Line
	case "polygon":
		return c.Polygon
	default:
		return nil
	}
}
