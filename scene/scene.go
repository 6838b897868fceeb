// Package scene is the renderer-side output model: a retained,
// renderer-neutral scene graph of solids, outlines, billboards and labels.
// The host engine walks the graph and instantiates its own primitives; this
// package performs no rendering.
package scene

import (
	"github.com/golang/geo/r3"

	"github.com/wegman-software/vec2globe-go/style"
)

// Primitive is the closed set of renderables the converter produces:
// Solid, Outline, Billboard, Label or Collection — never anything else.
type Primitive interface {
	primitive()
}

// Solid is a filled area: either a polygon with optional holes or a disc.
// When Extruded is set the area is extruded to Height in the Cartesian
// frame's up direction.
type Solid struct {
	// polygon form
	Boundary []r3.Vector   `json:"boundary,omitempty"`
	Holes    [][]r3.Vector `json:"holes,omitempty"`

	// disc form
	Disc   bool      `json:"disc,omitempty"`
	Center r3.Vector `json:"center,omitempty"`
	Radius float64   `json:"radius,omitempty"`

	Material *Material `json:"material"`
	Extruded bool      `json:"extruded,omitempty"`
	Height   float64   `json:"height,omitempty"`
}

// Outline is one or more line paths sharing a width and material. A
// polygon outline carries one path per ring; a ring outline of a disc uses
// the disc form.
type Outline struct {
	Paths [][]r3.Vector `json:"paths,omitempty"`

	Disc   bool      `json:"disc,omitempty"`
	Center r3.Vector `json:"center,omitempty"`
	Radius float64   `json:"radius,omitempty"`

	Width    float64   `json:"width"`
	Material *Material `json:"material"`
}

// Billboard is a camera-facing icon anchored to a 3D position.
type Billboard struct {
	Position        r3.Vector       `json:"position"`
	Image           string          `json:"image"`
	Scale           float64         `json:"scale"`
	HeightReference HeightReference `json:"heightReference"`
}

// Label is a text renderable anchored to a 3D position.
type Label struct {
	Position         r3.Vector        `json:"position"`
	Text             string           `json:"text"`
	Font             string           `json:"font,omitempty"`
	FillColor        style.Color      `json:"fillColor"`
	OutlineColor     style.Color      `json:"outlineColor"`
	OutlineWidth     float64          `json:"outlineWidth,omitempty"`
	Style            LabelStyle       `json:"style"`
	HorizontalOrigin HorizontalOrigin `json:"horizontalOrigin"`
	VerticalOrigin   VerticalOrigin   `json:"verticalOrigin"`
	PixelOffsetX     float64          `json:"pixelOffsetX,omitempty"`
	PixelOffsetY     float64          `json:"pixelOffsetY,omitempty"`
	HeightReference  HeightReference  `json:"heightReference"`
}

// Collection is an ordered aggregate of primitives.
type Collection struct {
	Children []Primitive
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Add appends a primitive, preserving order. Nil primitives are ignored.
func (c *Collection) Add(p Primitive) {
	if p == nil {
		return
	}
	c.Children = append(c.Children, p)
}

// Len returns the number of direct children.
func (c *Collection) Len() int {
	return len(c.Children)
}

func (s *Solid) primitive()      {}
func (o *Outline) primitive()    {}
func (b *Billboard) primitive()  {}
func (l *Label) primitive()      {}
func (c *Collection) primitive() {}

// BillboardCollection is the container billboards are created into. It is
// owned by a conversion context; billboards may be appended after the
// conversion call returns when an icon asset finishes loading.
type BillboardCollection struct {
	billboards []*Billboard
}

// NewBillboardCollection returns an empty billboard container.
func NewBillboardCollection() *BillboardCollection {
	return &BillboardCollection{}
}

// Add stores the billboard and returns it as the creation handle.
func (bc *BillboardCollection) Add(b *Billboard) *Billboard {
	bc.billboards = append(bc.billboards, b)
	return b
}

// Billboards returns the billboards in creation order.
func (bc *BillboardCollection) Billboards() []*Billboard {
	return bc.billboards
}

// Len returns the number of billboards created so far.
func (bc *BillboardCollection) Len() int {
	return len(bc.billboards)
}
