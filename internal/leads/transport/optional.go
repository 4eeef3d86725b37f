package transport

import (
	"encoding/json"

	"github.com/google/uuid"
)

// OptionalString distinguishes an absent JSON field from one set to "" or a
// value. Absent fields are left out of the update patch entirely, which is
// what gives concurrent disjoint patches union semantics.
type OptionalString struct {
	Value string
	Set   bool
}

func (o OptionalString) IsZero() bool {
	return !o.Set
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = ""
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Ptr returns the value as a pointer, nil when the field was absent.
func (o OptionalString) Ptr() *string {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

// OptionalFloat64 is the numeric counterpart of OptionalString.
type OptionalFloat64 struct {
	Value float64
	Set   bool
}

func (o OptionalFloat64) IsZero() bool {
	return !o.Set
}

func (o *OptionalFloat64) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = 0
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Ptr returns the value as a pointer, nil when the field was absent.
func (o OptionalFloat64) Ptr() *float64 {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

// OptionalUUID accepts a UUID string, "" or null.
type OptionalUUID struct {
	Value *uuid.UUID
	Set   bool
}

func (o OptionalUUID) IsZero() bool {
	return !o.Set
}

func (o *OptionalUUID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		if raw == "" {
			o.Value = nil
			return nil
		}

		parsed, err := uuid.Parse(raw)
		if err != nil {
			return err
		}

		o.Value = &parsed
		return nil
	}

	var parsed uuid.UUID
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}

	o.Value = &parsed
	return nil
}
