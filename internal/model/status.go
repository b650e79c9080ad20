package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// Status tells whether a contact is in the active list or waiting in the recoverable list.
// It is stored as the 0/1 column "deleted" and serialized as the JSON boolean "deleted".
type Status int8

const (
	StatusActive Status = iota
	StatusDeleted
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusDeleted:
		return "deleted"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}

// Deleted reports whether the contact was soft-deleted.
func (s Status) Deleted() bool {
	return s == StatusDeleted
}

// Value implements driver.Valuer.
func (s Status) Value() (driver.Value, error) {
	switch s {
	case StatusActive:
		return int64(0), nil
	case StatusDeleted:
		return int64(1), nil
	default:
		return nil, fmt.Errorf("invalid contact status %d", s)
	}
}

// Scan implements sql.Scanner. MySQL and SQLite both hand back the flag as an integer, some
// drivers use a boolean or the textual form.
func (s *Status) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = StatusActive
		return nil
	case bool:
		return s.fromBool(v)
	case int64:
		return s.fromInt(v)
	case []byte:
		return s.fromText(string(v))
	case string:
		return s.fromText(v)
	default:
		return fmt.Errorf("cannot scan %T into contact status", src)
	}
}

func (s *Status) fromBool(deleted bool) error {
	if deleted {
		*s = StatusDeleted
	} else {
		*s = StatusActive
	}
	return nil
}

func (s *Status) fromInt(v int64) error {
	switch v {
	case 0:
		*s = StatusActive
	case 1:
		*s = StatusDeleted
	default:
		return fmt.Errorf("invalid contact status %d", v)
	}
	return nil
}

func (s *Status) fromText(v string) error {
	deleted, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid contact status %q", v)
	}
	return s.fromBool(deleted)
}

// MarshalJSON implements json.Marshaler.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Deleted())
}

// UnmarshalJSON accepts a boolean or the numbers 0 and 1.
func (s *Status) UnmarshalJSON(data []byte) error {
	var deleted bool
	if err := json.Unmarshal(data, &deleted); err == nil {
		return s.fromBool(deleted)
	}
	var number int64
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("invalid contact status %s", data)
	}
	return s.fromInt(number)
}
