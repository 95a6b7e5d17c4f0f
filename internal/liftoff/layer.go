package liftoff

// Layer is a client surface that either gets a hardware plane or is
// composited into the output's composition layer.
type Layer struct {
	output *Output

	props propertyStore

	// FB needs to be composited
	forceComposition bool

	plane      *Plane
	candidates *CandidatePlanes

	currentPriority int
	pendingPriority int

	// Property added or removed, or forceComposition toggled
	changed bool

	fbInfo     FramebufferInfo
	prevFBInfo FramebufferInfo
}

// Output returns the owning output, nil once the layer is destroyed
func (l *Layer) Output() *Output {
	return l.output
}

// Destroy detaches the layer from its plane and output.
func (l *Layer) Destroy() {
	if l == nil || l.output == nil {
		return
	}

	o := l.output
	o.layersChanged = true
	if l.plane != nil {
		l.plane.layer = nil
		l.plane = nil
	}
	if o.compositionLayer == l {
		o.compositionLayer = nil
	}
	o.removeLayer(l)

	l.props = propertyStore{}
	l.candidates = nil
	l.output = nil
}

// Plane returns the plane the layer is assigned to, or nil
func (l *Layer) Plane() *Plane {
	return l.plane
}

// Changed reports whether properties were added or removed, or forced
// composition toggled, since the last MarkClean
func (l *Layer) Changed() bool {
	return l.changed
}

// ForceComposition reports whether the layer must be composited
func (l *Layer) ForceComposition() bool {
	return l.forceComposition
}

// SetFBComposited forces the layer to be composited: FB_ID becomes 0 and
// the layer stays visible without a framebuffer. Setting FB_ID to a real
// framebuffer undoes it.
func (l *Layer) SetFBComposited() {
	if l.forceComposition {
		return
	}

	l.props.set(PropFBID, 0)
	l.forceComposition = true
	l.changed = true
}

// MarkClean records the current values as the previous cycle's state.
// Call once per cycle, after plane assignments are final.
func (l *Layer) MarkClean() {
	l.changed = false
	l.prevFBInfo = l.fbInfo
	l.props.markClean()
}
