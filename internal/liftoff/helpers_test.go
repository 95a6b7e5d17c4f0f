package liftoff

import (
	"testing"

	"github.com/bnema/liftoff/internal/drm/drmtest"
	"github.com/stretchr/testify/require"
)

func newTestOutput(t *testing.T, planesCap int) (*drmtest.Kernel, *Output) {
	t.Helper()

	kernel := drmtest.New()
	device, err := NewDevice(kernel, planesCap)
	require.NoError(t, err)

	return kernel, device.NewOutput(42)
}

func newTestDevice(t *testing.T, planesCap int) *Device {
	t.Helper()

	device, err := NewDevice(drmtest.New(), planesCap)
	require.NoError(t, err)
	return device
}

func newTestLayer(t *testing.T, o *Output) *Layer {
	t.Helper()

	l, err := o.NewLayer()
	require.NoError(t, err)
	return l
}

func setProps(t *testing.T, l *Layer, props map[string]uint64) {
	t.Helper()

	for name, value := range props {
		require.NoError(t, l.SetProperty(name, value))
	}
}
