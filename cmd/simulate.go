package cmd

import (
	"fmt"
	"sort"

	"github.com/bnema/liftoff/internal/config"
	"github.com/bnema/liftoff/internal/drm"
	"github.com/bnema/liftoff/internal/drm/drmtest"
	"github.com/bnema/liftoff/internal/liftoff"
	"github.com/bnema/liftoff/internal/ui"
	"github.com/spf13/cobra"
)

var (
	simulateCycles int
	simulatePeriod int
	simulateLayers int
	simulatePlanes int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run priority windows against an in-memory kernel",
	Long: `Drive the layer model for a number of page flips without touching real
hardware. Layer N swaps its framebuffer every 2^N flips and the last layer is
static. Planes go to the layers with the highest priority, the rest need
composition. A report is printed at every priority window boundary.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simulateCycles, "cycles", 180, "Number of page flips to simulate")
	simulateCmd.Flags().IntVar(&simulatePeriod, "period", 0, "Page flips per priority window (default from config)")
	simulateCmd.Flags().IntVar(&simulateLayers, "layers", 4, "Number of layers")
	simulateCmd.Flags().IntVar(&simulatePlanes, "planes", 2, "Number of hardware planes")
}

// simLayer is one simulated client surface
type simLayer struct {
	layer    *liftoff.Layer
	interval int // flips between framebuffer swaps, 0 for static
}

func swapInterval(index, count int) int {
	if count > 1 && index == count-1 {
		return 0
	}
	return 1 << index
}

// rankLayers orders layers by current priority, highest first. Ties keep creation order.
func rankLayers(layers []*liftoff.Layer) []*liftoff.Layer {
	ranked := append([]*liftoff.Layer(nil), layers...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CurrentPriority() > ranked[j].CurrentPriority()
	})
	return ranked
}

// assignPlanes hands planes to visible layers in rank order, skipping
// layers that overlap one already placed higher up in the ranking.
func assignPlanes(planes []*liftoff.Plane, layers []*liftoff.Layer) error {
	for _, p := range planes {
		if err := p.SetLayer(nil); err != nil {
			return err
		}
	}

	var placed []*liftoff.Layer
	next := 0
	for _, l := range rankLayers(layers) {
		if next >= len(planes) {
			break
		}
		if !l.IsVisible() {
			continue
		}

		occluded := false
		for _, other := range placed {
			if l.Intersects(other) {
				occluded = true
				break
			}
		}
		if occluded {
			continue
		}

		if err := planes[next].SetLayer(l); err != nil {
			return err
		}
		if err := l.AddCandidatePlane(planes[next]); err != nil {
			return err
		}
		placed = append(placed, l)
		next++
	}
	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	period := simulatePeriod
	if period == 0 {
		period = config.Get().Allocator.PriorityPeriod
	}
	if simulateLayers < 1 || simulatePlanes < 0 || simulateCycles < 1 {
		return fmt.Errorf("need at least one layer and one cycle")
	}

	kernel := drmtest.New()
	device, err := liftoff.NewDevice(kernel, simulatePlanes)
	if err != nil {
		return err
	}
	if err := device.SetPriorityPeriod(period); err != nil {
		return err
	}

	planes := make([]*liftoff.Plane, 0, simulatePlanes)
	for i := 0; i < simulatePlanes; i++ {
		typ := liftoff.PlaneOverlay
		if i == 0 {
			typ = liftoff.PlanePrimary
		}
		p, err := device.RegisterPlane(uint32(100+i), typ, i)
		if err != nil {
			return err
		}
		planes = append(planes, p)
	}

	output := device.NewOutput(1)
	defer output.Destroy()

	var nextFB uint32
	newFramebuffer := func(width, height uint32) uint32 {
		nextFB++
		// Two-plane NV12 buffer sharing one GEM handle
		kernel.AddFramebuffer(drm.Framebuffer{
			ID:          nextFB,
			Width:       width,
			Height:      height,
			PixelFormat: 0x3231564e,
			Modifier:    drm.FormatModInvalid,
			Handles:     [4]uint32{nextFB, nextFB},
		})
		return nextFB
	}

	sims := make([]simLayer, simulateLayers)
	for i := range sims {
		l, err := output.NewLayer()
		if err != nil {
			return err
		}
		// Layers are laid out side by side so they never overlap
		x := uint64(i * 640)
		for name, value := range map[string]uint64{
			liftoff.PropCRTCX: x,
			liftoff.PropCRTCY: 0,
			liftoff.PropCRTCW: 640,
			liftoff.PropCRTCH: 480,
			liftoff.PropZpos:  uint64(i),
			liftoff.PropFBID:  uint64(newFramebuffer(640, 480)),
		} {
			if err := l.SetProperty(name, value); err != nil {
				return err
			}
		}
		sims[i] = simLayer{layer: l, interval: swapInterval(i, simulateLayers)}
	}

	fmt.Println(ui.FormatReportHeader(fmt.Sprintf("Simulating %d flips, window of %d", simulateCycles, period)))

	for flip := 1; flip <= simulateCycles; flip++ {
		for _, s := range sims {
			if s.interval > 0 && flip%s.interval == 0 {
				fb := newFramebuffer(640, 480)
				if err := s.layer.SetProperty(liftoff.PropFBID, uint64(fb)); err != nil {
					return err
				}
			}
		}

		if err := output.BeginCycle(); err != nil {
			return err
		}
		for _, s := range sims {
			if s.layer.Changed() || s.layer.FramebufferLayoutChanged() {
				s.layer.ResetCandidatePlanes()
			}
		}
		if err := assignPlanes(planes, output.Layers()); err != nil {
			return err
		}
		output.LogLayers()
		output.EndCycle()

		if flip%period == 0 {
			printWindow(flip, period, sims)
		}
	}

	leaked := kernel.OpenHandles()
	fmt.Println()
	fmt.Println(ui.FormatResult(len(leaked) == 0, "GEM handles",
		fmt.Sprintf("%d fetches, %d leaked", kernel.TotalFetches(), len(leaked))))
	return nil
}

func printWindow(flip, period int, sims []simLayer) {
	fmt.Println()
	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("flip %d", flip)))
	for i, s := range sims {
		placement := "composited"
		if p := s.layer.Plane(); p != nil {
			placement = fmt.Sprintf("plane %d (%s)", p.ID(), p.Type())
		} else if !s.layer.NeedsComposition() {
			placement = "hidden"
		}

		rate := "static"
		if s.interval > 0 {
			rate = fmt.Sprintf("every %d", s.interval)
		}
		fmt.Println(ui.FormatField(fmt.Sprintf("layer %d", i),
			fmt.Sprintf("%s  %-8s %s", ui.FormatPriorityBar(s.layer.CurrentPriority(), period, 20), rate, placement)))
	}
}
