package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Timestamp is a time.Time that serializes as ISO-8601 with millisecond
// fractional seconds, the form the mobile client's date decoder expects.
// Decoding also accepts the plain non-fractional form.
type Timestamp struct {
	time.Time
}

const (
	marshalLayout = "2006-01-02T15:04:05.000Z07:00"
)

var unmarshalLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05Z07:00",
}

// NewTimestamp truncates to millisecond precision so a value survives a
// serialize/deserialize round trip unchanged.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.Truncate(time.Millisecond)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(marshalLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid timestamp %s", s)
	}
	s = s[1 : len(s)-1]

	for _, layout := range unmarshalLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

// Value implements driver.Valuer so gorm stores the underlying time.
func (t Timestamp) Value() (driver.Value, error) {
	return t.Time, nil
}

// Scan implements sql.Scanner.
func (t *Timestamp) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		t.Time = v
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", value)
	}
}

func (t *Timestamp) scanString(s string) error {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05.999999999"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("cannot scan %q into Timestamp", s)
}
