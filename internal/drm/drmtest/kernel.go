// Package drmtest provides an in-memory stand-in for the DRM framebuffer
// ioctls, with counters for fetches and GEM handle closes.
package drmtest

import (
	"fmt"
	"sort"

	"github.com/bnema/liftoff/internal/drm"
	"golang.org/x/sys/unix"
)

// Kernel fakes GETFB2 and GEM_CLOSE.
//
// Every fetch hands out the framebuffer's handles again and records them as
// open; closing a handle that is not open fails with EINVAL, the way a
// double close fails on a real device.
type Kernel struct {
	framebuffers map[uint32]drm.Framebuffer
	fetches      map[uint32]int
	open         map[uint32]bool
	closeErrs    map[uint32]error
	fetchErr     error
	closed       []uint32
}

// New returns an empty fake kernel
func New() *Kernel {
	return &Kernel{
		framebuffers: make(map[uint32]drm.Framebuffer),
		fetches:      make(map[uint32]int),
		open:         make(map[uint32]bool),
		closeErrs:    make(map[uint32]error),
	}
}

// AddFramebuffer registers a framebuffer that GetFramebuffer will report
func (k *Kernel) AddFramebuffer(fb drm.Framebuffer) {
	k.framebuffers[fb.ID] = fb
}

// RemoveFramebuffer forgets a framebuffer, later fetches fail with ENOENT
func (k *Kernel) RemoveFramebuffer(fbID uint32) {
	delete(k.framebuffers, fbID)
}

// SetFetchError makes every GetFramebuffer call fail with err. nil restores normal behavior.
func (k *Kernel) SetFetchError(err error) {
	k.fetchErr = err
}

// SetCloseError makes closing handle fail with err. nil restores normal behavior.
func (k *Kernel) SetCloseError(handle uint32, err error) {
	if err == nil {
		delete(k.closeErrs, handle)
		return
	}
	k.closeErrs[handle] = err
}

// GetFramebuffer implements the GETFB2 side of the kernel boundary
func (k *Kernel) GetFramebuffer(fbID uint32) (*drm.Framebuffer, error) {
	k.fetches[fbID]++

	if k.fetchErr != nil {
		return nil, fmt.Errorf("DRM_IOCTL_MODE_GETFB2 %d: %w", fbID, k.fetchErr)
	}

	fb, ok := k.framebuffers[fbID]
	if !ok {
		return nil, fmt.Errorf("DRM_IOCTL_MODE_GETFB2 %d: %w", fbID, unix.ENOENT)
	}

	for _, h := range fb.Handles {
		if h != 0 {
			k.open[h] = true
		}
	}

	out := fb
	return &out, nil
}

// CloseBufferHandle implements GEM_CLOSE
func (k *Kernel) CloseBufferHandle(handle uint32) error {
	k.closed = append(k.closed, handle)

	if err, ok := k.closeErrs[handle]; ok {
		return fmt.Errorf("DRM_IOCTL_GEM_CLOSE %d: %w", handle, err)
	}
	if !k.open[handle] {
		return fmt.Errorf("DRM_IOCTL_GEM_CLOSE %d: %w", handle, unix.EINVAL)
	}

	delete(k.open, handle)
	return nil
}

// Fetches returns how many times fbID was fetched
func (k *Kernel) Fetches(fbID uint32) int {
	return k.fetches[fbID]
}

// TotalFetches returns the number of GetFramebuffer calls
func (k *Kernel) TotalFetches() int {
	total := 0
	for _, n := range k.fetches {
		total += n
	}
	return total
}

// Closed returns every handle passed to CloseBufferHandle, in call order
func (k *Kernel) Closed() []uint32 {
	return append([]uint32(nil), k.closed...)
}

// CloseCalls returns how many times handle was passed to CloseBufferHandle
func (k *Kernel) CloseCalls(handle uint32) int {
	n := 0
	for _, h := range k.closed {
		if h == handle {
			n++
		}
	}
	return n
}

// OpenHandles returns the handles handed out and not closed yet, sorted
func (k *Kernel) OpenHandles() []uint32 {
	handles := make([]uint32, 0, len(k.open))
	for h := range k.open {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	return handles
}
