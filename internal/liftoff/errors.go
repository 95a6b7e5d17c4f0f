package liftoff

import "errors"

var (
	// ErrReservedProperty is returned when a client writes CRTC_ID, which the allocator owns.
	ErrReservedProperty = errors.New("property is reserved for the plane allocator")

	// ErrCandidatesFull is returned when a layer has no free candidate plane slot.
	ErrCandidatesFull = errors.New("candidate plane set is full")

	// ErrInvalidPlaneID is returned for plane id 0, which marks an empty slot.
	ErrInvalidPlaneID = errors.New("invalid plane id")

	// ErrForeignLayer is returned when a layer is used with an output or plane it does not belong to.
	ErrForeignLayer = errors.New("layer belongs to another output or device")

	// ErrLayerDestroyed is returned when a destroyed layer is handed back to the allocator.
	ErrLayerDestroyed = errors.New("layer has been destroyed")

	// ErrOutputDestroyed is returned when creating a layer on a destroyed output.
	ErrOutputDestroyed = errors.New("output has been destroyed")

	// ErrPlanesCapExceeded is returned when registering more planes than the device capacity.
	ErrPlanesCapExceeded = errors.New("device plane capacity exceeded")
)
