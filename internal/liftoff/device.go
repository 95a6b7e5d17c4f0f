// Package liftoff holds the layer data model used to hand image layers to
// hardware planes: per-layer properties with change tracking, visibility and
// occlusion tests, reassignment priorities, cached framebuffer metadata and
// per-layer candidate plane sets.
//
// The package is not safe for concurrent use. All calls for one Device must
// come from a single goroutine, and one allocation cycle must finish before
// the next one starts.
package liftoff

import (
	"fmt"

	"github.com/bnema/liftoff/internal/drm"
)

// DefaultPriorityPeriod is the number of page flips in one priority window.
const DefaultPriorityPeriod = 60

// Kernel is the part of the DRM interface the layer model calls into.
// *drm.Card implements it.
type Kernel interface {
	// GetFramebuffer returns framebuffer metadata. Every call creates new
	// GEM handles that the caller must close.
	GetFramebuffer(fbID uint32) (*drm.Framebuffer, error)
	CloseBufferHandle(handle uint32) error
}

// Device owns the planes and outputs of one DRM card.
type Device struct {
	kernel    Kernel
	planesCap int

	planes  []*Plane
	outputs []*Output

	priorityPeriod  int
	pageFlipCounter int
}

// NewDevice creates a device whose layers can each cache up to planesCap
// candidate planes. The capacity never changes afterwards.
func NewDevice(kernel Kernel, planesCap int) (*Device, error) {
	if kernel == nil {
		return nil, fmt.Errorf("kernel interface is required")
	}
	if planesCap < 0 {
		return nil, fmt.Errorf("invalid plane capacity %d", planesCap)
	}

	return &Device{
		kernel:         kernel,
		planesCap:      planesCap,
		priorityPeriod: DefaultPriorityPeriod,
	}, nil
}

// PlanesCap returns the maximum number of planes and of candidate slots per layer
func (d *Device) PlanesCap() int {
	return d.planesCap
}

// PriorityPeriod returns the number of page flips per priority window
func (d *Device) PriorityPeriod() int {
	return d.priorityPeriod
}

// SetPriorityPeriod changes the priority window length
func (d *Device) SetPriorityPeriod(flips int) error {
	if flips < 1 {
		return fmt.Errorf("priority period must be at least 1, got %d", flips)
	}
	d.priorityPeriod = flips
	if d.pageFlipCounter >= flips {
		d.pageFlipCounter = 0
	}
	return nil
}

// RegisterPlane adds a hardware plane to the device.
func (d *Device) RegisterPlane(id uint32, typ PlaneType, zpos int) (*Plane, error) {
	if id == 0 {
		return nil, ErrInvalidPlaneID
	}
	if d.Plane(id) != nil {
		return nil, fmt.Errorf("plane %d already registered", id)
	}
	if len(d.planes) >= d.planesCap {
		return nil, fmt.Errorf("plane %d: %w (%d)", id, ErrPlanesCapExceeded, d.planesCap)
	}

	p := &Plane{
		device: d,
		id:     id,
		typ:    typ,
		zpos:   zpos,
	}
	d.planes = append(d.planes, p)
	return p, nil
}

// Plane looks up a registered plane by id
func (d *Device) Plane(id uint32) *Plane {
	for _, p := range d.planes {
		if p.id == id {
			return p
		}
	}
	return nil
}

// Planes returns the registered planes in registration order
func (d *Device) Planes() []*Plane {
	return append([]*Plane(nil), d.planes...)
}

// NewOutput creates an output driving the given CRTC
func (d *Device) NewOutput(crtcID uint32) *Output {
	o := &Output{
		device: d,
		crtcID: crtcID,
	}
	d.outputs = append(d.outputs, o)
	return o
}

// Outputs returns the live outputs in creation order
func (d *Device) Outputs() []*Output {
	return append([]*Output(nil), d.outputs...)
}

func (d *Device) removeOutput(o *Output) {
	for i, out := range d.outputs {
		if out == o {
			d.outputs = append(d.outputs[:i], d.outputs[i+1:]...)
			return
		}
	}
}
