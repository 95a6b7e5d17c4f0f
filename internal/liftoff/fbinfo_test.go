package liftoff

import (
	"math"
	"testing"

	"github.com/bnema/liftoff/internal/drm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

const (
	fourccXRGB8888 = 0x34325258
	fourccNV12     = 0x3231564e
)

func TestRefreshFBInfoWithoutFramebuffer(t *testing.T) {
	kernel, o := newTestOutput(t, 4)
	kernel.AddFramebuffer(drm.Framebuffer{ID: 3, Width: 64, Height: 64, Handles: [4]uint32{1}})
	l := newTestLayer(t, o)

	require.NoError(t, l.RefreshFBInfo())
	assert.True(t, l.FBInfo().IsZero())
	assert.Equal(t, 0, kernel.TotalFetches())

	require.NoError(t, l.SetProperty(PropFBID, 3))
	require.NoError(t, l.RefreshFBInfo())
	assert.Equal(t, uint32(3), l.FBInfo().FBID())

	require.NoError(t, l.SetProperty(PropFBID, 0))
	require.NoError(t, l.RefreshFBInfo())
	assert.True(t, l.FBInfo().IsZero(), "FB_ID 0 clears the cache")
	assert.Equal(t, 1, kernel.TotalFetches())
}

func TestRefreshFBInfoCachesByID(t *testing.T) {
	kernel, o := newTestOutput(t, 4)
	kernel.AddFramebuffer(drm.Framebuffer{
		ID:          7,
		Width:       1920,
		Height:      1080,
		PixelFormat: fourccXRGB8888,
		Modifier:    drm.FormatModInvalid,
		Handles:     [4]uint32{11},
	})
	l := newTestLayer(t, o)
	require.NoError(t, l.SetProperty(PropFBID, 7))

	require.NoError(t, l.RefreshFBInfo())
	require.NoError(t, l.RefreshFBInfo())

	assert.Equal(t, 1, kernel.Fetches(7), "unchanged FB_ID must hit the cache")

	info := l.FBInfo()
	assert.Equal(t, uint32(7), info.FBID())
	assert.Equal(t, uint32(1920), info.Width())
	assert.Equal(t, uint32(1080), info.Height())
	assert.Equal(t, uint32(fourccXRGB8888), info.Format())
	assert.Equal(t, drm.FormatModInvalid, info.Modifier())
}

func TestRefreshFBInfoClosesHandles(t *testing.T) {
	tests := []struct {
		name    string
		handles [4]uint32
		want    map[uint32]int
	}{
		{
			name:    "single plane",
			handles: [4]uint32{5},
			want:    map[uint32]int{5: 1},
		},
		{
			name:    "luma and chroma share a handle",
			handles: [4]uint32{5, 5},
			want:    map[uint32]int{5: 1},
		},
		{
			name:    "mixed shared and distinct handles",
			handles: [4]uint32{5, 6, 5, 6},
			want:    map[uint32]int{5: 1, 6: 1},
		},
		{
			name:    "distinct handles",
			handles: [4]uint32{1, 2, 3, 4},
			want:    map[uint32]int{1: 1, 2: 1, 3: 1, 4: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kernel, o := newTestOutput(t, 4)
			kernel.AddFramebuffer(drm.Framebuffer{ID: 9, PixelFormat: fourccNV12, Handles: tt.handles})
			l := newTestLayer(t, o)
			require.NoError(t, l.SetProperty(PropFBID, 9))

			require.NoError(t, l.RefreshFBInfo())

			for handle, calls := range tt.want {
				assert.Equal(t, calls, kernel.CloseCalls(handle), "close calls for handle %d", handle)
			}
			assert.Len(t, kernel.Closed(), len(tt.want))
			assert.Empty(t, kernel.OpenHandles(), "no GEM handle may leak")
		})
	}
}

func TestRefreshFBInfoCloseFailureIsNotFatal(t *testing.T) {
	kernel, o := newTestOutput(t, 4)
	kernel.AddFramebuffer(drm.Framebuffer{ID: 9, Width: 32, Handles: [4]uint32{5, 6}})
	kernel.SetCloseError(5, unix.EIO)
	l := newTestLayer(t, o)
	require.NoError(t, l.SetProperty(PropFBID, 9))

	require.NoError(t, l.RefreshFBInfo())

	assert.Equal(t, 1, kernel.CloseCalls(6), "remaining handles are still closed")
	assert.Equal(t, []uint32{5}, kernel.OpenHandles())
	assert.Equal(t, uint32(9), l.FBInfo().FBID())
}

func TestRefreshFBInfoNotSupported(t *testing.T) {
	kernel, o := newTestOutput(t, 4)
	kernel.AddFramebuffer(drm.Framebuffer{ID: 1, Width: 100, Handles: [4]uint32{1}})
	kernel.AddFramebuffer(drm.Framebuffer{ID: 2, Width: 200, Handles: [4]uint32{2}})
	l := newTestLayer(t, o)

	require.NoError(t, l.SetProperty(PropFBID, 1))
	require.NoError(t, l.RefreshFBInfo())

	kernel.SetFetchError(drm.ErrNotSupported)
	require.NoError(t, l.SetProperty(PropFBID, 2))
	require.NoError(t, l.RefreshFBInfo(), "old kernels are not an error")

	assert.Equal(t, uint32(1), l.FBInfo().FBID(), "cache is left as it was")
	assert.Equal(t, uint32(100), l.FBInfo().Width())
}

func TestRefreshFBInfoErrors(t *testing.T) {
	t.Run("kernel error is propagated without touching the cache", func(t *testing.T) {
		kernel, o := newTestOutput(t, 4)
		kernel.AddFramebuffer(drm.Framebuffer{ID: 1, Width: 100})
		l := newTestLayer(t, o)
		require.NoError(t, l.SetProperty(PropFBID, 1))
		require.NoError(t, l.RefreshFBInfo())

		kernel.SetFetchError(unix.EACCES)
		require.NoError(t, l.SetProperty(PropFBID, 2))
		err := l.RefreshFBInfo()
		assert.ErrorIs(t, err, unix.EACCES)
		assert.Equal(t, uint32(1), l.FBInfo().FBID())
	})

	t.Run("unknown framebuffer", func(t *testing.T) {
		_, o := newTestOutput(t, 4)
		l := newTestLayer(t, o)
		require.NoError(t, l.SetProperty(PropFBID, 77))

		assert.ErrorIs(t, l.RefreshFBInfo(), unix.ENOENT)
		assert.True(t, l.FBInfo().IsZero())
	})

	t.Run("id out of range", func(t *testing.T) {
		kernel, o := newTestOutput(t, 4)
		l := newTestLayer(t, o)
		require.NoError(t, l.SetProperty(PropFBID, math.MaxUint32+1))

		assert.Error(t, l.RefreshFBInfo())
		assert.Equal(t, 0, kernel.TotalFetches())
	})

	t.Run("failed fetch is retried on the next refresh", func(t *testing.T) {
		kernel, o := newTestOutput(t, 4)
		kernel.AddFramebuffer(drm.Framebuffer{ID: 4, Handles: [4]uint32{2}})
		kernel.SetFetchError(unix.EBUSY)
		l := newTestLayer(t, o)
		require.NoError(t, l.SetProperty(PropFBID, 4))

		require.Error(t, l.RefreshFBInfo())
		kernel.SetFetchError(nil)
		require.NoError(t, l.RefreshFBInfo())

		assert.Equal(t, 2, kernel.Fetches(4))
		assert.Equal(t, uint32(4), l.FBInfo().FBID())
	})
}

func TestMarkCleanSnapshotsFBInfo(t *testing.T) {
	kernel, o := newTestOutput(t, 4)
	kernel.AddFramebuffer(drm.Framebuffer{ID: 1, Width: 1920, Height: 1080, PixelFormat: fourccXRGB8888})
	kernel.AddFramebuffer(drm.Framebuffer{ID: 2, Width: 1920, Height: 1080, PixelFormat: fourccXRGB8888})
	kernel.AddFramebuffer(drm.Framebuffer{ID: 3, Width: 1280, Height: 720, PixelFormat: fourccXRGB8888})
	kernel.AddFramebuffer(drm.Framebuffer{ID: 4, Width: 1280, Height: 720, PixelFormat: fourccNV12})
	l := newTestLayer(t, o)

	require.NoError(t, l.SetProperty(PropFBID, 1))
	require.NoError(t, l.RefreshFBInfo())
	assert.True(t, l.FramebufferLayoutChanged(), "first framebuffer differs from nothing")

	l.MarkClean()
	assert.Equal(t, uint32(1), l.PrevFBInfo().FBID())
	assert.False(t, l.FramebufferLayoutChanged())

	require.NoError(t, l.SetProperty(PropFBID, 2))
	require.NoError(t, l.RefreshFBInfo())
	assert.False(t, l.FramebufferLayoutChanged(), "same layout under a new id")
	l.MarkClean()

	require.NoError(t, l.SetProperty(PropFBID, 3))
	require.NoError(t, l.RefreshFBInfo())
	assert.True(t, l.FramebufferLayoutChanged(), "size changed")
	l.MarkClean()

	require.NoError(t, l.SetProperty(PropFBID, 4))
	require.NoError(t, l.RefreshFBInfo())
	assert.True(t, l.FramebufferLayoutChanged(), "format changed")
	assert.Equal(t, uint32(3), l.PrevFBInfo().FBID())
}
