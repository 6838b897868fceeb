package scene

import (
	"encoding/json"
	"fmt"
)

// Primitives are serialized with a type discriminator so a scene dump can
// be read back or inspected without knowledge of the Go types.

type envelope struct {
	Type string          `json:"type"`
	Node json.RawMessage `json:"node"`
}

func primitiveTypeName(p Primitive) string {
	switch p.(type) {
	case *Solid:
		return "solid"
	case *Outline:
		return "outline"
	case *Billboard:
		return "billboard"
	case *Label:
		return "label"
	case *Collection:
		return "collection"
	default:
		return "unknown"
	}
}

// MarshalPrimitive serializes any primitive with its type discriminator.
func MarshalPrimitive(p Primitive) ([]byte, error) {
	node, err := marshalNode(p)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: primitiveTypeName(p), Node: node})
}

func marshalNode(p Primitive) ([]byte, error) {
	if c, ok := p.(*Collection); ok {
		children := make([]json.RawMessage, 0, len(c.Children))
		for _, child := range c.Children {
			raw, err := MarshalPrimitive(child)
			if err != nil {
				return nil, err
			}
			children = append(children, raw)
		}
		return json.Marshal(struct {
			Children []json.RawMessage `json:"children"`
		}{children})
	}
	return json.Marshal(p)
}

// MarshalJSON implements json.Marshaler for collections so nested
// heterogeneous children keep their discriminators.
func (c *Collection) MarshalJSON() ([]byte, error) {
	return MarshalPrimitive(c)
}

// Stats counts primitives by kind in a (possibly nested) renderable.
type Stats struct {
	Solids     int `json:"solids"`
	Outlines   int `json:"outlines"`
	Billboards int `json:"billboards"`
	Labels     int `json:"labels"`
}

// Count tallies the primitive and its descendants into s.
func (s *Stats) Count(p Primitive) {
	switch p := p.(type) {
	case *Solid:
		s.Solids++
	case *Outline:
		s.Outlines++
	case *Billboard:
		s.Billboards++
	case *Label:
		s.Labels++
	case *Collection:
		for _, child := range p.Children {
			s.Count(child)
		}
	case nil:
	default:
		panic(fmt.Sprintf("vec2globe: unknown primitive %T", p))
	}
}

// Total returns the number of counted leaf primitives.
func (s *Stats) Total() int {
	return s.Solids + s.Outlines + s.Billboards + s.Labels
}

// CollectStats tallies a scene graph plus its billboard container. The
// billboards live outside the graph, so both must be counted.
func CollectStats(root Primitive, billboards *BillboardCollection) Stats {
	var s Stats
	s.Count(root)
	if billboards != nil {
		s.Billboards += billboards.Len()
	}
	return s
}
