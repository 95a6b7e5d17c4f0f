package liftoff

import (
	"fmt"
	"sort"

	"github.com/bnema/liftoff/internal/logger"
)

// Output is one CRTC with the layers a client wants to show on it.
type Output struct {
	device *Device
	crtcID uint32

	layers []*Layer // append order

	// Target for everything that does not get a plane
	compositionLayer *Layer

	// Layer added or removed, or composition layer changed
	layersChanged bool

	destroyed bool
}

// Device returns the owning device
func (o *Output) Device() *Device {
	return o.device
}

// CRTCID returns the CRTC object id driven by this output
func (o *Output) CRTCID() uint32 {
	return o.crtcID
}

// NewLayer creates a layer at the end of the output's layer list.
func (o *Output) NewLayer() (*Layer, error) {
	if o.destroyed {
		return nil, ErrOutputDestroyed
	}

	l := &Layer{
		output:     o,
		candidates: newCandidatePlanes(o.device.planesCap),
	}
	o.layers = append(o.layers, l)
	o.layersChanged = true
	return l, nil
}

// Layers returns the output's layers in creation order
func (o *Output) Layers() []*Layer {
	return append([]*Layer(nil), o.layers...)
}

// LayersChanged reports whether a layer was added or removed, or the
// composition layer changed, since the last EndCycle
func (o *Output) LayersChanged() bool {
	return o.layersChanged
}

// CompositionLayer returns the layer composited content is drawn into, or nil
func (o *Output) CompositionLayer() *Layer {
	return o.compositionLayer
}

// SetCompositionLayer designates the layer that receives everything not
// scanned out by a plane. nil clears the designation.
func (o *Output) SetCompositionLayer(layer *Layer) error {
	if layer != nil && layer.output != o {
		return fmt.Errorf("composition layer: %w", ErrForeignLayer)
	}
	if layer != o.compositionLayer {
		o.layersChanged = true
	}
	o.compositionLayer = layer
	return nil
}

// Destroy destroys every remaining layer and detaches the output from its device.
func (o *Output) Destroy() {
	if o == nil || o.destroyed {
		return
	}

	for len(o.layers) > 0 {
		o.layers[len(o.layers)-1].Destroy()
	}
	o.device.removeOutput(o)
	o.destroyed = true
}

func (o *Output) removeLayer(l *Layer) {
	for i, layer := range o.layers {
		if layer == l {
			o.layers = append(o.layers[:i], o.layers[i+1:]...)
			return
		}
	}
}

// LogLayers dumps the layer state at debug level.
func (o *Output) LogLayers() {
	if !logger.DebugEnabled() {
		return
	}

	logger.Debugf("Layers on CRTC %d (%d total):", o.crtcID, len(o.layers))
	for _, l := range o.layers {
		switch {
		case l.forceComposition:
			logger.Debugf("  Layer %p (forced composition):", l)
		case !l.HasFB():
			continue
		default:
			logger.Debugf("  Layer %p%s:", l, compositionSuffix(o, l))
		}

		props := l.Properties()
		sort.Slice(props, func(i, j int) bool { return props[i].Name < props[j].Name })
		for _, p := range props {
			logger.Debugf("    %s = %d", p.Name, p.Value)
		}

		planeID := "none"
		if l.plane != nil {
			planeID = fmt.Sprintf("%d", l.plane.id)
		}
		logger.Debugf("    priority = %d (pending %d), plane = %s, visible = %v",
			l.currentPriority, l.pendingPriority, planeID, l.IsVisible())
	}
}

func compositionSuffix(o *Output, l *Layer) string {
	if o.compositionLayer == l {
		return " (composition layer)"
	}
	return ""
}
