//go:build !linux

package drm

import "fmt"

// Client capabilities, see DRM_CLIENT_CAP_* in drm.h
const (
	ClientCapStereo3D        = 1
	ClientCapUniversalPlanes = 2
	ClientCapAtomic          = 3
)

var errNotLinux = fmt.Errorf("drm: kernel modesetting requires linux: %w", ErrNotSupported)

// Card is an open DRM card node. Only available on Linux.
type Card struct {
	path string
}

func Open(path string) (*Card, error) {
	return nil, errNotLinux
}

func (c *Card) Path() string {
	return c.path
}

func (c *Card) Close() error {
	return nil
}

func (c *Card) SetClientCap(capability, value uint64) error {
	return errNotLinux
}

func (c *Card) EnableUniversalPlanes() error {
	return errNotLinux
}

func (c *Card) PlaneIDs() ([]uint32, error) {
	return nil, errNotLinux
}

func (c *Card) GetFramebuffer(fbID uint32) (*Framebuffer, error) {
	return nil, errNotLinux
}

func (c *Card) CloseBufferHandle(handle uint32) error {
	return errNotLinux
}
