package liftoff

import "fmt"

// PlaneType mirrors the kernel's "type" plane property
type PlaneType int

const (
	PlaneOverlay PlaneType = iota
	PlanePrimary
	PlaneCursor
)

func (t PlaneType) String() string {
	switch t {
	case PlaneOverlay:
		return "overlay"
	case PlanePrimary:
		return "primary"
	case PlaneCursor:
		return "cursor"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Plane is a hardware scanout resource. The plane allocator assigns layers
// to planes; the layer and the plane always point at each other.
type Plane struct {
	device *Device
	id     uint32
	typ    PlaneType
	zpos   int // greater values mean closer to the eye

	layer *Layer
}

// ID returns the kernel object id
func (p *Plane) ID() uint32 {
	return p.id
}

// Type returns the plane type
func (p *Plane) Type() PlaneType {
	return p.typ
}

// Zpos returns the stacking position
func (p *Plane) Zpos() int {
	return p.zpos
}

// Layer returns the layer currently assigned to the plane, or nil
func (p *Plane) Layer() *Layer {
	return p.layer
}

// SetLayer assigns layer to the plane, detaching whatever the plane and the
// layer were bound to before. A nil layer frees the plane.
func (p *Plane) SetLayer(layer *Layer) error {
	if layer != nil {
		if layer.output == nil {
			return ErrLayerDestroyed
		}
		if layer.output.device != p.device {
			return fmt.Errorf("plane %d: %w", p.id, ErrForeignLayer)
		}
	}

	if p.layer == layer {
		return nil
	}

	if p.layer != nil {
		p.layer.plane = nil
	}
	if layer != nil {
		if layer.plane != nil {
			layer.plane.layer = nil
		}
		layer.plane = p
	}
	p.layer = layer
	return nil
}
