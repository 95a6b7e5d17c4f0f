package liftoff

import (
	"testing"

	"github.com/bnema/liftoff/internal/drm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestCycleCommitsPriorityAtWindowBoundary(t *testing.T) {
	kernel, o := newTestOutput(t, 2)
	require.NoError(t, o.Device().SetPriorityPeriod(3))

	video := newTestLayer(t, o)
	static := newTestLayer(t, o)
	for id := uint32(1); id <= 10; id++ {
		kernel.AddFramebuffer(drm.Framebuffer{ID: id, Width: 1280, Height: 720, Handles: [4]uint32{id}})
	}
	require.NoError(t, static.SetProperty(PropFBID, 10))

	for cycle := 1; cycle <= 3; cycle++ {
		require.NoError(t, video.SetProperty(PropFBID, uint64(cycle)))
		require.NoError(t, o.BeginCycle())
		if cycle < 3 {
			assert.Equal(t, 0, video.CurrentPriority(), "cycle %d", cycle)
		}
		o.EndCycle()
	}

	assert.Equal(t, 3, video.CurrentPriority())
	assert.Equal(t, 0, video.PendingPriority())
	assert.Equal(t, 1, static.CurrentPriority(), "only the first bind counted")

	// Next window: the static layer never changes
	for cycle := 4; cycle <= 6; cycle++ {
		require.NoError(t, video.SetProperty(PropFBID, uint64(cycle)))
		require.NoError(t, o.BeginCycle())
		o.EndCycle()
	}
	assert.Equal(t, 3, video.CurrentPriority())
	assert.Equal(t, 0, static.CurrentPriority())
	assert.Greater(t, video.CurrentPriority(), static.CurrentPriority())
}

func TestBeginCycleRefreshesFBInfo(t *testing.T) {
	kernel, o := newTestOutput(t, 2)
	kernel.AddFramebuffer(drm.Framebuffer{ID: 5, Width: 640, Height: 480, Handles: [4]uint32{1, 1}})

	l := newTestLayer(t, o)
	require.NoError(t, l.SetProperty(PropFBID, 5))

	require.NoError(t, o.BeginCycle())
	assert.Equal(t, uint32(640), l.FBInfo().Width())
	assert.Empty(t, kernel.OpenHandles())
	o.EndCycle()

	require.NoError(t, o.BeginCycle())
	assert.Equal(t, 1, kernel.Fetches(5))
}

func TestBeginCycleReturnsRefreshError(t *testing.T) {
	kernel, o := newTestOutput(t, 2)
	kernel.AddFramebuffer(drm.Framebuffer{ID: 1})

	ok := newTestLayer(t, o)
	require.NoError(t, ok.SetProperty(PropFBID, 1))
	broken := newTestLayer(t, o)
	require.NoError(t, broken.SetProperty(PropFBID, 2))
	later := newTestLayer(t, o)
	require.NoError(t, later.SetProperty(PropFBID, 3))

	err := o.BeginCycle()
	require.Error(t, err)
	assert.ErrorIs(t, err, unix.ENOENT)
	assert.Contains(t, err.Error(), "layer 1")

	// Priorities were still updated for every layer
	assert.Equal(t, 1, later.PendingPriority())
}

func TestEndCycleMarksEverythingClean(t *testing.T) {
	_, o := newTestOutput(t, 2)
	a := newTestLayer(t, o)
	b := newTestLayer(t, o)
	require.NoError(t, a.SetProperty(PropCRTCX, 1))
	b.SetFBComposited()

	o.EndCycle()

	assert.False(t, o.LayersChanged())
	assert.False(t, a.Changed())
	assert.False(t, b.Changed())
	prop, _ := a.Property(PropCRTCX)
	assert.False(t, prop.Changed())
}
