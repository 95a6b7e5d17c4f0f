// Package drm talks to the kernel's DRM/KMS interface through raw ioctls.
// Only the calls the plane allocator needs are implemented.
package drm

import "unsafe"

// ioctl request encoding, see include/uapi/asm-generic/ioctl.h
const (
	iocNone  = 0
	iocWrite = 1
	iocRead  = 2

	iocNrBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNrShift   = 0
	iocTypeShift = iocNrShift + iocNrBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	drmIoctlBase = 'd'
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return (dir << iocDirShift) | (typ << iocTypeShift) | (nr << iocNrShift) | (size << iocSizeShift)
}

func iow(nr, size uintptr) uintptr {
	return ioc(iocWrite, drmIoctlBase, nr, size)
}

func iowr(nr, size uintptr) uintptr {
	return ioc(iocRead|iocWrite, drmIoctlBase, nr, size)
}

// struct drm_gem_close
type gemClose struct {
	Handle uint32
	_      uint32
}

// struct drm_set_client_cap
type setClientCap struct {
	Capability uint64
	Value      uint64
}

// struct drm_mode_get_plane_res
type modeGetPlaneRes struct {
	PlaneIDPtr  uint64
	CountPlanes uint32
	_           uint32
}

// struct drm_mode_fb_cmd2
type modeFBCmd2 struct {
	FBID        uint32
	Width       uint32
	Height      uint32
	PixelFormat uint32
	Flags       uint32
	Handles     [4]uint32
	Pitches     [4]uint32
	Offsets     [4]uint32
	_           uint32
	Modifier    [4]uint64
}

var (
	ioctlGemClose              = iow(0x09, unsafe.Sizeof(gemClose{}))
	ioctlSetClientCap          = iow(0x0d, unsafe.Sizeof(setClientCap{}))
	ioctlModeGetPlaneResources = iowr(0xb5, unsafe.Sizeof(modeGetPlaneRes{}))
	ioctlModeGetFB2            = iowr(0xce, unsafe.Sizeof(modeFBCmd2{}))
)
