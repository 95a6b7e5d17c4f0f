package liftoff

import "github.com/bnema/liftoff/internal/logger"

// Property names interpreted by the layer model. They match the kernel's
// atomic modesetting plane properties.
const (
	PropCRTCID = "CRTC_ID"
	PropFBID   = "FB_ID"
	PropCRTCX  = "CRTC_X"
	PropCRTCY  = "CRTC_Y"
	PropCRTCW  = "CRTC_W"
	PropCRTCH  = "CRTC_H"
	PropAlpha  = "alpha"
	PropZpos   = "zpos"
)

// PropNameLen is the kernel's DRM_PROP_NAME_LEN. Names are kept to
// PropNameLen-1 bytes, longer ones are truncated.
const PropNameLen = 32

// Property is one layer property with its value as of the last MarkClean.
type Property struct {
	Name      string
	Value     uint64
	PrevValue uint64
}

// Changed reports whether the value differs from the last cycle
func (p Property) Changed() bool {
	return p.Value != p.PrevValue
}

// propertyStore keeps properties in a slice. Removal swaps the last entry
// into the freed slot, so iteration order is not stable.
type propertyStore struct {
	props []Property
}

func propName(name string) string {
	if len(name) >= PropNameLen {
		return name[:PropNameLen-1]
	}
	return name
}

func (s *propertyStore) lookup(name string) *Property {
	name = propName(name)
	for i := range s.props {
		if s.props[i].Name == name {
			return &s.props[i]
		}
	}
	return nil
}

// set writes value and reports whether a new entry was created
func (s *propertyStore) set(name string, value uint64) bool {
	if prop := s.lookup(name); prop != nil {
		prop.Value = value
		return false
	}
	s.props = append(s.props, Property{Name: propName(name), Value: value})
	return true
}

// unset removes name and reports whether it was present
func (s *propertyStore) unset(name string) bool {
	prop := s.lookup(name)
	if prop == nil {
		return false
	}

	last := len(s.props) - 1
	*prop = s.props[last]
	s.props[last] = Property{}
	s.props = s.props[:last]
	return true
}

func (s *propertyStore) markClean() {
	for i := range s.props {
		s.props[i].PrevValue = s.props[i].Value
	}
}

func (s *propertyStore) value(name string) (uint64, bool) {
	if prop := s.lookup(name); prop != nil {
		return prop.Value, true
	}
	return 0, false
}

// SetProperty sets a property, creating it if needed. CRTC_ID is rejected
// with ErrReservedProperty. Setting FB_ID cancels a forced composition.
func (l *Layer) SetProperty(name string, value uint64) error {
	if propName(name) == PropCRTCID {
		logger.Error("Refusing to set a layer's CRTC_ID")
		return ErrReservedProperty
	}

	if l.props.set(name, value) {
		l.changed = true
	}

	if propName(name) == PropFBID && l.forceComposition {
		l.forceComposition = false
		l.changed = true
	}

	return nil
}

// UnsetProperty removes a property. Other properties may change position
// in Properties afterwards.
func (l *Layer) UnsetProperty(name string) {
	if l.props.unset(name) {
		l.changed = true
	}
}

// Property returns the named property
func (l *Layer) Property(name string) (Property, bool) {
	if prop := l.props.lookup(name); prop != nil {
		return *prop, true
	}
	return Property{}, false
}

// Properties returns a copy of every property, in no particular order
func (l *Layer) Properties() []Property {
	return append([]Property(nil), l.props.props...)
}
