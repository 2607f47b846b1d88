package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// neverPlayed is how a zero LastPlayed is written, matching files produced by older launchers
const neverPlayed = "0001-01-01T00:00:00"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
}

// Timestamp is a LastPlayed time. It reads RFC 3339 and zone-less local timestamps;
// the zero value means never played.
type Timestamp struct {
	time.Time
}

// Now returns the current time as a Timestamp
func Now() Timestamp {
	return Timestamp{time.Now()}
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return json.Marshal(neverPlayed)
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid timestamp: %w", err)
	}
	if s == "" || s == neverPlayed {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		var parsed time.Time
		var err error
		if layout == time.RFC3339Nano {
			parsed, err = time.Parse(layout, s)
		} else {
			parsed, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

// Later returns whichever of a and b is more recent
func Later(a, b Timestamp) Timestamp {
	if b.After(a.Time) {
		return b
	}
	return a
}

// String renders the timestamp for listings
func (t Timestamp) String() string {
	if t.IsZero() {
		return "Never"
	}
	return t.Local().Format("2006-01-02 15:04")
}
