package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/liftoff/internal/config"
	"github.com/bnema/liftoff/internal/drm"
	"github.com/bnema/liftoff/internal/liftoff"
	"github.com/bnema/liftoff/internal/logger"
	"github.com/bnema/liftoff/internal/ui"
	"github.com/spf13/cobra"
)

var inspectDevicePath string

var inspectCmd = &cobra.Command{
	Use:   "inspect FB_ID...",
	Short: "Show kernel metadata for framebuffers",
	Long: `Open the DRM card, bind each framebuffer to a layer and fetch its metadata
with GETFB2, closing the GEM handles the kernel hands out. Requires access to
the card node and framebuffers owned by this process or DRM master rights.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectDevicePath, "device", "d", "", "DRM card node (default from config)")
}

func parseFBIDs(args []string) ([]uint32, error) {
	ids := make([]uint32, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseUint(arg, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid framebuffer id %q: %w", arg, err)
		}
		if id == 0 {
			return nil, fmt.Errorf("framebuffer id 0 means no framebuffer")
		}
		ids = append(ids, uint32(id))
	}
	return ids, nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	fbIDs, err := parseFBIDs(args)
	if err != nil {
		return err
	}

	path := cfg.Device.Path
	if inspectDevicePath != "" {
		path = inspectDevicePath
	}

	card, err := drm.Open(path)
	if err != nil {
		return err
	}
	defer card.Close()

	if err := card.EnableUniversalPlanes(); err != nil {
		logger.Warn("Universal planes unavailable, only overlay planes are listed", "err", err)
	}

	planeIDs, err := card.PlaneIDs()
	if err != nil {
		return err
	}

	planesCap := cfg.Device.PlanesCap
	if planesCap == 0 {
		planesCap = len(planeIDs)
	}

	device, err := liftoff.NewDevice(card, planesCap)
	if err != nil {
		return err
	}
	output := device.NewOutput(0)
	defer output.Destroy()

	fmt.Println(ui.FormatReportHeader("Framebuffers on " + path))
	fmt.Println(ui.FormatField("Planes", formatIDs(planeIDs)))
	fmt.Println(ui.FormatField("Planes cap", planesCap))
	fmt.Println()

	for _, id := range fbIDs {
		layer, err := output.NewLayer()
		if err != nil {
			return err
		}
		if err := layer.SetProperty(liftoff.PropFBID, uint64(id)); err != nil {
			return err
		}

		item := fmt.Sprintf("FB %d", id)
		if err := layer.RefreshFBInfo(); err != nil {
			fmt.Println(ui.FormatResult(false, item, err.Error()))
			continue
		}

		info := layer.FBInfo()
		if info.IsZero() {
			fmt.Println(ui.FormatWarning(item + ": GETFB2 not supported by this kernel"))
			continue
		}

		fmt.Println(ui.FormatResult(true, item, ""))
		fmt.Println(ui.FormatField("Size", fmt.Sprintf("%dx%d", info.Width(), info.Height())))
		fmt.Println(ui.FormatField("Format", drm.FourCC(info.Format())))
		fmt.Println(ui.FormatField("Modifier", formatModifier(info.Modifier())))
	}

	output.LogLayers()
	return nil
}

func formatIDs(ids []uint32) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ", ")
}

func formatModifier(modifier uint64) string {
	switch modifier {
	case drm.FormatModInvalid:
		return "implicit"
	case 0:
		return "linear"
	default:
		return fmt.Sprintf("0x%016x", modifier)
	}
}
