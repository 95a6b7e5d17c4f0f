package liftoff

import "fmt"

// CandidatePlanes remembers which planes a layer was already found to work
// on. It has one slot per device plane; id 0 marks a free slot.
type CandidatePlanes struct {
	ids []uint32
}

func newCandidatePlanes(capacity int) *CandidatePlanes {
	return &CandidatePlanes{ids: make([]uint32, capacity)}
}

// Contains reports whether id is in the set
func (c *CandidatePlanes) Contains(id uint32) bool {
	if c == nil || id == 0 {
		return false
	}
	for _, candidate := range c.ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// Add stores id in the first free slot. Adding an id twice is a no-op.
func (c *CandidatePlanes) Add(id uint32) error {
	if id == 0 {
		return ErrInvalidPlaneID
	}
	if c == nil {
		return ErrLayerDestroyed
	}

	empty := -1
	for i, candidate := range c.ids {
		if candidate == id {
			return nil
		}
		if empty < 0 && candidate == 0 {
			empty = i
		}
	}

	if empty < 0 {
		return fmt.Errorf("plane %d: %w (capacity %d)", id, ErrCandidatesFull, len(c.ids))
	}
	c.ids[empty] = id
	return nil
}

// Reset empties every slot
func (c *CandidatePlanes) Reset() {
	if c == nil {
		return
	}
	clear(c.ids)
}

// Len returns the number of occupied slots
func (c *CandidatePlanes) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, id := range c.ids {
		if id != 0 {
			n++
		}
	}
	return n
}

// Cap returns the number of slots
func (c *CandidatePlanes) Cap() int {
	if c == nil {
		return 0
	}
	return len(c.ids)
}

// IsCandidatePlane reports whether plane was recorded as usable for the layer
func (l *Layer) IsCandidatePlane(plane *Plane) bool {
	if plane == nil {
		return false
	}
	return l.candidates.Contains(plane.id)
}

// AddCandidatePlane records plane as usable for the layer
func (l *Layer) AddCandidatePlane(plane *Plane) error {
	if plane == nil {
		return ErrInvalidPlaneID
	}
	return l.candidates.Add(plane.id)
}

// ResetCandidatePlanes forgets every candidate, for when the layer changed
// enough that earlier test commits no longer apply
func (l *Layer) ResetCandidatePlanes() {
	l.candidates.Reset()
}

// CandidatePlanes exposes the layer's candidate set
func (l *Layer) CandidatePlanes() *CandidatePlanes {
	return l.candidates
}
