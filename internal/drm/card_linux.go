//go:build linux

package drm

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Client capabilities, see DRM_CLIENT_CAP_* in drm.h
const (
	ClientCapStereo3D        = 1
	ClientCapUniversalPlanes = 2
	ClientCapAtomic          = 3
)

// Card is an open DRM card node.
type Card struct {
	fd   int
	path string
}

// Open opens a DRM card node such as /dev/dri/card0.
func Open(path string) (*Card, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &Card{fd: fd, path: path}, nil
}

// Path returns the node the card was opened from
func (c *Card) Path() string {
	return c.path
}

// Close releases the file descriptor
func (c *Card) Close() error {
	if c.fd < 0 {
		return nil
	}
	err := unix.Close(c.fd)
	c.fd = -1
	return err
}

// ioctl issues a request and restarts it when interrupted, like drmIoctl.
func (c *Card) ioctl(req uintptr, arg unsafe.Pointer) error {
	for {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(c.fd), req, uintptr(arg))
		if errno == unix.EINTR || errno == unix.EAGAIN {
			continue
		}
		if errno != 0 {
			return errno
		}
		return nil
	}
}

// SetClientCap enables a client capability on this file descriptor
func (c *Card) SetClientCap(capability, value uint64) error {
	args := setClientCap{Capability: capability, Value: value}
	if err := c.ioctl(ioctlSetClientCap, unsafe.Pointer(&args)); err != nil {
		return fmt.Errorf("DRM_IOCTL_SET_CLIENT_CAP %d: %w", capability, err)
	}
	return nil
}

// EnableUniversalPlanes exposes primary and cursor planes in addition to overlays
func (c *Card) EnableUniversalPlanes() error {
	return c.SetClientCap(ClientCapUniversalPlanes, 1)
}

// PlaneIDs lists every plane the kernel exposes to this client.
func (c *Card) PlaneIDs() ([]uint32, error) {
	for {
		var res modeGetPlaneRes
		if err := c.ioctl(ioctlModeGetPlaneResources, unsafe.Pointer(&res)); err != nil {
			return nil, fmt.Errorf("DRM_IOCTL_MODE_GETPLANERESOURCES: %w", err)
		}
		if res.CountPlanes == 0 {
			return []uint32{}, nil
		}

		count := res.CountPlanes
		ids := make([]uint32, count)
		res.PlaneIDPtr = uint64(uintptr(unsafe.Pointer(&ids[0])))
		err := c.ioctl(ioctlModeGetPlaneResources, unsafe.Pointer(&res))
		runtime.KeepAlive(ids)
		if err != nil {
			return nil, fmt.Errorf("DRM_IOCTL_MODE_GETPLANERESOURCES: %w", err)
		}

		// Planes were hotplugged between the two calls, retry with the new count
		if res.CountPlanes > count {
			continue
		}
		return ids[:res.CountPlanes], nil
	}
}

// GetFramebuffer fetches framebuffer metadata with GETFB2.
//
// The kernel allocates fresh GEM handles for every call. The caller owns
// them and must release each distinct handle with CloseBufferHandle.
func (c *Card) GetFramebuffer(fbID uint32) (*Framebuffer, error) {
	cmd := modeFBCmd2{FBID: fbID}
	if err := c.ioctl(ioctlModeGetFB2, unsafe.Pointer(&cmd)); err != nil {
		if errors.Is(err, unix.EINVAL) {
			return nil, fmt.Errorf("DRM_IOCTL_MODE_GETFB2 %d: %w", fbID, ErrNotSupported)
		}
		return nil, fmt.Errorf("DRM_IOCTL_MODE_GETFB2 %d: %w", fbID, err)
	}
	return framebufferFromCmd(&cmd), nil
}

// CloseBufferHandle releases a GEM handle
func (c *Card) CloseBufferHandle(handle uint32) error {
	args := gemClose{Handle: handle}
	if err := c.ioctl(ioctlGemClose, unsafe.Pointer(&args)); err != nil {
		return fmt.Errorf("DRM_IOCTL_GEM_CLOSE %d: %w", handle, err)
	}
	return nil
}
