package liftoff

// Rect is a destination rectangle in CRTC coordinates
type Rect struct {
	X, Y          int32
	Width, Height int32
}

// Intersects reports whether the half-open rectangles overlap
func (r Rect) Intersects(o Rect) bool {
	rx, ry, rw, rh := int64(r.X), int64(r.Y), int64(r.Width), int64(r.Height)
	ox, oy, ow, oh := int64(o.X), int64(o.Y), int64(o.Width), int64(o.Height)

	return rx < ox+ow && ry < oy+oh && rx+rw > ox && ry+rh > oy
}

// Rect returns the layer's CRTC_X/Y/W/H, missing properties count as 0
func (l *Layer) Rect() Rect {
	x, _ := l.props.value(PropCRTCX)
	y, _ := l.props.value(PropCRTCY)
	w, _ := l.props.value(PropCRTCW)
	h, _ := l.props.value(PropCRTCH)

	// Values are raw 64-bit; the kernel stores CRTC_X/Y as signed 32-bit
	return Rect{
		X:      int32(x),
		Y:      int32(y),
		Width:  int32(w),
		Height: int32(h),
	}
}

// HasFB reports whether a non-zero FB_ID is bound
func (l *Layer) HasFB() bool {
	fbID, ok := l.props.value(PropFBID)
	return ok && fbID != 0
}

// IsVisible reports whether the layer contributes pixels to the output.
func (l *Layer) IsVisible() bool {
	if alpha, ok := l.props.value(PropAlpha); ok && alpha == 0 {
		return false // fully transparent
	}

	if l.forceComposition {
		return true
	}
	return l.HasFB()
}

// NeedsComposition reports whether the layer is visible but has no plane,
// so it has to be drawn into the composition layer
func (l *Layer) NeedsComposition() bool {
	if !l.IsVisible() {
		return false
	}
	return l.plane == nil
}

// Intersects reports whether two visible layers overlap on screen. A nil
// layer overlaps nothing.
func (l *Layer) Intersects(other *Layer) bool {
	if other == nil || !l.IsVisible() || !other.IsVisible() {
		return false
	}
	return l.Rect().Intersects(other.Rect())
}
