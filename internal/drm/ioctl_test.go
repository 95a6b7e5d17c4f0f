package drm

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestIoctlNumbers(t *testing.T) {
	// Values from libdrm's generated headers on x86_64
	tests := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"DRM_IOCTL_GEM_CLOSE", ioctlGemClose, 0x40086409},
		{"DRM_IOCTL_SET_CLIENT_CAP", ioctlSetClientCap, 0x4010640d},
		{"DRM_IOCTL_MODE_GETPLANERESOURCES", ioctlModeGetPlaneResources, 0xc01064b5},
		{"DRM_IOCTL_MODE_GETFB2", ioctlModeGetFB2, 0xc06864ce},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got, "got 0x%x", tt.got)
		})
	}
}

func TestStructLayout(t *testing.T) {
	assert.Equal(t, uintptr(8), unsafe.Sizeof(gemClose{}))
	assert.Equal(t, uintptr(16), unsafe.Sizeof(setClientCap{}))
	assert.Equal(t, uintptr(16), unsafe.Sizeof(modeGetPlaneRes{}))
	assert.Equal(t, uintptr(104), unsafe.Sizeof(modeFBCmd2{}))
	assert.Equal(t, uintptr(72), unsafe.Offsetof(modeFBCmd2{}.Modifier))
}
