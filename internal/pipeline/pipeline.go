// Package pipeline filters raw outages and annotates them with device names.
//
// The stages are pure: they never mutate their inputs and always return a new
// slice. FilterRelevantDevices must run before WithDeviceNames.
package pipeline

import (
	"fmt"
	"time"

	"github.com/vietddude/outagesync/internal/core/domain"
)

// FilterStartBefore drops outages that begin strictly before cutoff.
// Order is preserved.
func FilterStartBefore(outages []domain.Outage, cutoff time.Time) ([]domain.Outage, error) {
	result := make([]domain.Outage, 0, len(outages))
	for _, o := range outages {
		begin, err := ParseTimestamp(o.Begin)
		if err != nil {
			return nil, fmt.Errorf("outage %s begin: %w", o.ID, err)
		}
		if begin.Before(cutoff) {
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

// FilterRelevantDevices keeps outages whose id belongs to one of devices.
// Order is preserved.
func FilterRelevantDevices(outages []domain.Outage, devices []domain.Device) []domain.Outage {
	set := NewDeviceSet(devices)
	result := make([]domain.Outage, 0, len(outages))
	for _, o := range outages {
		if set.Contains(o.ID) {
			result = append(result, o)
		}
	}
	return result
}

// WithDeviceNames annotates every outage with its device's name.
// It fails with domain.ErrDeviceNotFound on the first outage without a device
// and returns no partial result.
func WithDeviceNames(outages []domain.Outage, devices []domain.Device) ([]domain.OutageDetailed, error) {
	set := NewDeviceSet(devices)
	result := make([]domain.OutageDetailed, 0, len(outages))
	for _, o := range outages {
		name, ok := set.Name(o.ID)
		if !ok {
			return nil, fmt.Errorf("outage for device %s: %w", o.ID, domain.ErrDeviceNotFound)
		}
		o.Extra = o.Extra.Clone()
		result = append(result, domain.OutageDetailed{Outage: o, Name: name})
	}
	return result, nil
}
