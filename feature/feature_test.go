package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wegman-software/vec2globe-go/geom"
)

func TestAttr(t *testing.T) {
	f := &Feature{Attributes: map[string]any{"name": "Park", "levels": 3}}
	assert.Equal(t, "Park", f.Attr("name"))
	assert.Equal(t, 3, f.Attr("levels"))
	assert.Nil(t, f.Attr("missing"))

	var empty Feature
	assert.Nil(t, empty.Attr("name"))
}

func TestStringAttr(t *testing.T) {
	f := &Feature{Attributes: map[string]any{"name": "Park", "levels": 3}}
	assert.Equal(t, "Park", f.StringAttr("name"))
	assert.Equal(t, "", f.StringAttr("levels"))
	assert.Equal(t, "", f.StringAttr("missing"))
}

func TestSourceOrder(t *testing.T) {
	src := NewSource()
	a := &Feature{ID: "a", Geometry: &geom.Point{}}
	b := &Feature{ID: "b", Geometry: &geom.Point{}}
	src.Add(a)
	src.Add(b)

	assert.Equal(t, 2, src.Len())
	feats := src.Features()
	assert.Same(t, a, feats[0])
	assert.Same(t, b, feats[1])
}
