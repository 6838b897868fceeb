// Package feature models the source side of the conversion: map features
// with geometry, free-form attributes and optional style functions, grouped
// into layers. The converter treats everything here as read-only.
package feature

import (
	"github.com/wegman-software/vec2globe-go/geom"
	"github.com/wegman-software/vec2globe-go/style"
)

// StyleFunc resolves the styles to render a feature with at a given view
// resolution. Returning nothing means "do not render". When multiple styles
// are returned only the first is used.
type StyleFunc func(f *Feature, resolution float64) []style.Style

// Feature is a single mappable entity. It is owned by its source; the
// converter never mutates it.
type Feature struct {
	ID         string
	Geometry   geom.Geometry
	Attributes map[string]any
	Style      StyleFunc
}

// Attr returns a feature attribute, or nil when absent.
func (f *Feature) Attr(key string) any {
	if f.Attributes == nil {
		return nil
	}
	return f.Attributes[key]
}

// StringAttr returns a string attribute, or "" when absent or non-string.
func (f *Feature) StringAttr(key string) string {
	s, _ := f.Attr(key).(string)
	return s
}

// Source is an ordered container of features.
type Source struct {
	features []*Feature
}

// NewSource returns an empty source.
func NewSource() *Source {
	return &Source{}
}

// Add appends a feature, preserving insertion order.
func (s *Source) Add(f *Feature) {
	s.features = append(s.features, f)
}

// Features returns the features in insertion order. The returned slice is
// owned by the source.
func (s *Source) Features() []*Feature {
	return s.features
}

// Len returns the number of features.
func (s *Source) Len() int {
	return len(s.features)
}

// Layer groups a feature source with its layer-level styling. AltitudeMode
// optionally supplies the layer-level height reference hint.
type Layer struct {
	Name         string
	Source       *Source
	Style        StyleFunc
	AltitudeMode string
}

// View is the subset of viewer state conversion depends on: the current
// resolution (map units per pixel) and the SRID of the coordinates held by
// the layer's geometries.
type View struct {
	Resolution float64
	SRID       int
}
