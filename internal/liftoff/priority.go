package liftoff

import "github.com/bnema/liftoff/internal/logger"

// UpdatePriority counts one FB_ID change for this cycle. When makeCurrent is
// true the count accumulated over the window becomes the current priority
// and a new window starts.
func (l *Layer) UpdatePriority(makeCurrent bool) {
	// TODO: also bump priority when other properties are updated
	if prop := l.props.lookup(PropFBID); prop != nil && prop.Changed() {
		l.pendingPriority++
	}

	if makeCurrent {
		if l.currentPriority != l.pendingPriority {
			logger.Debugf("Layer %p priority change: %d -> %d",
				l, l.currentPriority, l.pendingPriority)
		}
		l.currentPriority = l.pendingPriority
		l.pendingPriority = 0
	}
}

// CurrentPriority is the priority the allocator ranks layers by
func (l *Layer) CurrentPriority() int {
	return l.currentPriority
}

// PendingPriority is the count accumulated in the current window
func (l *Layer) PendingPriority() int {
	return l.pendingPriority
}
