package drm

import (
	"errors"
	"fmt"
)

// ErrNotSupported is returned when the kernel does not implement an ioctl
// (GETFB2 answers EINVAL on kernels older than 5.7).
var ErrNotSupported = errors.New("drm: not supported by this kernel")

// Framebuffer flags, see DRM_MODE_FB_* in drm_mode.h
const (
	FBInterlaced = 1 << 0
	FBModifiers  = 1 << 1
)

// FormatModInvalid is DRM_FORMAT_MOD_INVALID, reported when the framebuffer
// was created without an explicit modifier.
const FormatModInvalid uint64 = 0x00ffffffffffffff

// Framebuffer is the metadata returned by GETFB2.
type Framebuffer struct {
	ID          uint32
	Width       uint32
	Height      uint32
	PixelFormat uint32
	Flags       uint32
	Handles     [4]uint32
	Pitches     [4]uint32
	Offsets     [4]uint32
	Modifier    uint64
}

func framebufferFromCmd(cmd *modeFBCmd2) *Framebuffer {
	fb := &Framebuffer{
		ID:          cmd.FBID,
		Width:       cmd.Width,
		Height:      cmd.Height,
		PixelFormat: cmd.PixelFormat,
		Flags:       cmd.Flags,
		Handles:     cmd.Handles,
		Pitches:     cmd.Pitches,
		Offsets:     cmd.Offsets,
		Modifier:    FormatModInvalid,
	}
	if cmd.Flags&FBModifiers != 0 {
		fb.Modifier = cmd.Modifier[0]
	}
	return fb
}

// FourCC renders a DRM pixel format code such as "XR24" or "NV12".
// Codes with non-printable bytes are shown in hex.
func FourCC(format uint32) string {
	b := []byte{
		byte(format),
		byte(format >> 8),
		byte(format >> 16),
		byte(format >> 24),
	}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("0x%08x", format)
		}
	}
	return string(b)
}
