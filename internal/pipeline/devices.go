package pipeline

import "github.com/vietddude/outagesync/internal/core/domain"

// DeviceSet indexes a site's devices by id. It is built once per pipeline
// call and never shared.
type DeviceSet struct {
	names map[string]string
}

// NewDeviceSet indexes devices. A duplicate id keeps the first device seen.
func NewDeviceSet(devices []domain.Device) *DeviceSet {
	s := &DeviceSet{names: make(map[string]string, len(devices))}
	for _, d := range devices {
		if _, exists := s.names[d.ID]; !exists {
			s.names[d.ID] = d.Name
		}
	}
	return s
}

// Contains checks if a device id is known.
func (s *DeviceSet) Contains(id string) bool {
	_, exists := s.names[id]
	return exists
}

// Name returns the display name for a device id.
func (s *DeviceSet) Name(id string) (string, bool) {
	name, exists := s.names[id]
	return name, exists
}

// Size returns the number of indexed devices.
func (s *DeviceSet) Size() int {
	return len(s.names)
}
