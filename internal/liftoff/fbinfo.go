package liftoff

import (
	"errors"
	"fmt"
	"math"

	"github.com/bnema/liftoff/internal/drm"
	"github.com/bnema/liftoff/internal/logger"
)

// FramebufferInfo is the cached metadata of a layer's framebuffer. The zero
// value means no framebuffer.
type FramebufferInfo struct {
	fbID     uint32
	width    uint32
	height   uint32
	format   uint32
	modifier uint64
	flags    uint32
}

func framebufferInfoFrom(fb *drm.Framebuffer) FramebufferInfo {
	return FramebufferInfo{
		fbID:     fb.ID,
		width:    fb.Width,
		height:   fb.Height,
		format:   fb.PixelFormat,
		modifier: fb.Modifier,
		flags:    fb.Flags,
	}
}

func (i FramebufferInfo) FBID() uint32     { return i.fbID }
func (i FramebufferInfo) Width() uint32    { return i.width }
func (i FramebufferInfo) Height() uint32   { return i.height }
func (i FramebufferInfo) Format() uint32   { return i.format }
func (i FramebufferInfo) Modifier() uint64 { return i.modifier }
func (i FramebufferInfo) Flags() uint32    { return i.flags }

// IsZero reports whether no metadata is cached
func (i FramebufferInfo) IsZero() bool {
	return i == FramebufferInfo{}
}

// FBInfo returns the metadata cached for the current FB_ID
func (l *Layer) FBInfo() FramebufferInfo {
	return l.fbInfo
}

// PrevFBInfo returns the metadata as of the last MarkClean
func (l *Layer) PrevFBInfo() FramebufferInfo {
	return l.prevFBInfo
}

// FramebufferLayoutChanged reports whether the framebuffer's size, format
// or modifier differ from the previous cycle. A new FB id with the same
// layout is not a change.
func (l *Layer) FramebufferLayoutChanged() bool {
	a, b := l.prevFBInfo, l.fbInfo
	return a.width != b.width || a.height != b.height ||
		a.format != b.format || a.modifier != b.modifier
}

// RefreshFBInfo brings the cached framebuffer metadata in line with FB_ID.
// The kernel is only asked when FB_ID differs from the cached id. Kernels
// without GETFB2 leave the cache untouched and are not an error.
func (l *Layer) RefreshFBInfo() error {
	prop := l.props.lookup(PropFBID)
	if prop == nil || prop.Value == 0 {
		l.fbInfo = FramebufferInfo{}
		return nil
	}

	if uint64(l.fbInfo.fbID) == prop.Value {
		return nil
	}
	if l.output == nil {
		return ErrLayerDestroyed
	}
	if prop.Value > math.MaxUint32 {
		return fmt.Errorf("FB_ID %d is not a valid object id", prop.Value)
	}

	kernel := l.output.device.kernel
	fb, err := kernel.GetFramebuffer(uint32(prop.Value))
	if err != nil {
		if errors.Is(err, drm.ErrNotSupported) {
			logger.Debug("GETFB2 not supported, keeping cached framebuffer info", "fb_id", prop.Value)
			return nil
		}
		return fmt.Errorf("failed to get framebuffer %d: %w", prop.Value, err)
	}

	closeBufferHandles(kernel, fb)

	l.fbInfo = framebufferInfoFrom(fb)
	return nil
}

// closeBufferHandles releases the GEM handles GETFB2 created. Planes of one
// framebuffer may share a handle, each distinct handle is closed once.
// Failures are logged and the remaining handles are still closed.
func closeBufferHandles(kernel Kernel, fb *drm.Framebuffer) {
	for i := range fb.Handles {
		handle := fb.Handles[i]
		if handle == 0 {
			continue
		}

		if err := kernel.CloseBufferHandle(handle); err != nil {
			logger.Error("Failed to close GEM handle", "handle", handle, "fb_id", fb.ID, "err", err)
			continue
		}

		for j := i + 1; j < len(fb.Handles); j++ {
			if fb.Handles[j] == handle {
				fb.Handles[j] = 0
			}
		}
		fb.Handles[i] = 0
	}
}
