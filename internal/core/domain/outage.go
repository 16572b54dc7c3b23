package domain

import "encoding/json"

// Outage is a recorded unavailability window for a device.
// ID is the device id, not a unique outage id.
type Outage struct {
	ID    string
	Begin string // ISO-8601, kept verbatim
	End   string // ISO-8601, kept verbatim
	Extra Fields
}

// OutageDetailed is an Outage annotated with the owning device's name.
type OutageDetailed struct {
	Outage
	Name string
}

func (o *Outage) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out Outage
	if err := takeString(raw, "id", &out.ID); err != nil {
		return err
	}
	if err := takeString(raw, "begin", &out.Begin); err != nil {
		return err
	}
	if err := takeString(raw, "end", &out.End); err != nil {
		return err
	}
	out.Extra = remaining(raw)
	*o = out
	return nil
}

func (o Outage) MarshalJSON() ([]byte, error) {
	return encodeObject(o.Extra, o.named())
}

func (o Outage) named() map[string]any {
	return map[string]any{
		"id":    o.ID,
		"begin": o.Begin,
		"end":   o.End,
	}
}

func (o *OutageDetailed) UnmarshalJSON(data []byte) error {
	var base Outage
	if err := base.UnmarshalJSON(data); err != nil {
		return err
	}
	var name string
	raw := map[string]json.RawMessage(base.Extra)
	if err := takeString(raw, "name", &name); err != nil {
		return err
	}
	base.Extra = remaining(raw)
	*o = OutageDetailed{Outage: base, Name: name}
	return nil
}

// MarshalJSON emits every outage field plus name. Name overrides any extra
// field with the same key.
func (o OutageDetailed) MarshalJSON() ([]byte, error) {
	named := o.Outage.named()
	named["name"] = o.Name
	return encodeObject(o.Outage.Extra, named)
}
