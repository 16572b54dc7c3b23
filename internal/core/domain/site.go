package domain

import "encoding/json"

// Device is an addressable unit at a site.
type Device struct {
	ID    string
	Name  string
	Extra Fields
}

// SiteInformation is the authoritative device list for one site.
type SiteInformation struct {
	ID      string
	Name    string
	Devices []Device
	Extra   Fields
}

func (d *Device) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out Device
	if err := takeString(raw, "id", &out.ID); err != nil {
		return err
	}
	if err := takeString(raw, "name", &out.Name); err != nil {
		return err
	}
	out.Extra = remaining(raw)
	*d = out
	return nil
}

func (d Device) MarshalJSON() ([]byte, error) {
	return encodeObject(d.Extra, map[string]any{
		"id":   d.ID,
		"name": d.Name,
	})
}

func (s *SiteInformation) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out SiteInformation
	if err := takeString(raw, "id", &out.ID); err != nil {
		return err
	}
	if err := takeString(raw, "name", &out.Name); err != nil {
		return err
	}
	if v, ok := raw["devices"]; ok {
		delete(raw, "devices")
		if err := json.Unmarshal(v, &out.Devices); err != nil {
			return err
		}
	}
	out.Extra = remaining(raw)
	*s = out
	return nil
}

func (s SiteInformation) MarshalJSON() ([]byte, error) {
	devices := s.Devices
	if devices == nil {
		devices = []Device{}
	}
	return encodeObject(s.Extra, map[string]any{
		"id":      s.ID,
		"name":    s.Name,
		"devices": devices,
	})
}
