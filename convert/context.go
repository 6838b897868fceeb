// Package convert turns styled vector features into renderer-neutral scene
// primitives. One conversion call owns one Context; contexts must not be
// shared across concurrent layer conversions.
package convert

import (
	"fmt"

	"github.com/wegman-software/vec2globe-go/feature"
	"github.com/wegman-software/vec2globe-go/scene"
)

// Ref is the non-owning back-reference attached to every renderable so the
// host can resolve picks to source features. It must never be used to
// mutate the feature.
type Ref struct {
	Layer   *feature.Layer
	Feature *feature.Feature
}

// Context carries per-conversion state: the source projection, the
// billboard container, the feature-to-renderable map and the picking side
// table. It is created per orchestrator invocation and shared by reference
// through nested geometry conversions within that call.
type Context struct {
	// SourceSRID is the projection the layer's geometries are expressed in.
	SourceSRID int

	// Billboards receives every point marker created during (or, for
	// deferred icon loads, after) the conversion.
	Billboards *scene.BillboardCollection

	// FeatureMap records the primary renderable produced for each feature.
	// Mutated only by the converter; read-only for callers afterwards.
	FeatureMap map[*feature.Feature]scene.Primitive

	// OnBillboardAdded, when set, is invoked with every billboard created
	// for this context. Deferred icon loads invoke it asynchronously, with
	// the value the hook had at conversion time.
	OnBillboardAdded func(*scene.Billboard)

	refs map[scene.Primitive]Ref
}

// NewContext creates a context for one layer conversion.
func NewContext(sourceSRID int) *Context {
	return &Context{
		SourceSRID: sourceSRID,
		Billboards: scene.NewBillboardCollection(),
		FeatureMap: make(map[*feature.Feature]scene.Primitive),
		refs:       make(map[scene.Primitive]Ref),
	}
}

// Bind attaches the picking back-reference to a renderable. Binding nil is
// a no-op.
func (c *Context) Bind(p scene.Primitive, layer *feature.Layer, feat *feature.Feature) {
	if p == nil {
		return
	}
	c.refs[p] = Ref{Layer: layer, Feature: feat}
}

// PickRef resolves a renderable back to its originating layer and feature.
func (c *Context) PickRef(p scene.Primitive) (Ref, bool) {
	ref, ok := c.refs[p]
	return ref, ok
}

// contractViolation reports a caller contract breach. These are programmer
// errors, never recoverable runtime states.
func contractViolation(format string, args ...any) {
	panic("vec2globe: " + fmt.Sprintf(format, args...))
}
