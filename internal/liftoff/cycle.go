package liftoff

import "fmt"

// BeginCycle prepares the output's layers for an allocation cycle: it
// advances the device's page-flip counter, updates every layer's priority
// (committing it at the end of a priority window) and refreshes cached
// framebuffer metadata. The first refresh error is returned.
func (o *Output) BeginCycle() error {
	if o.destroyed {
		return ErrOutputDestroyed
	}

	d := o.device
	d.pageFlipCounter++
	makeCurrent := d.pageFlipCounter >= d.priorityPeriod
	if makeCurrent {
		d.pageFlipCounter = 0
	}

	for _, l := range o.layers {
		l.UpdatePriority(makeCurrent)
	}

	for i, l := range o.layers {
		if err := l.RefreshFBInfo(); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}

	return nil
}

// EndCycle marks every layer clean once plane assignments are final.
func (o *Output) EndCycle() {
	for _, l := range o.layers {
		l.MarkClean()
	}
	o.layersChanged = false
}
