package timex

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// Kind tells which wire shape a Timestamp was decoded from.
type Kind int

const (
	// KindWall is an RFC 3339 string.
	KindWall Kind = iota
	// KindUnixMillis is a JSON number of milliseconds since the epoch.
	KindUnixMillis
	// KindNative is a provider object {"seconds": n, "nanoseconds": n}.
	KindNative
)

// ErrInvalidTimestamp is returned for payloads that match none of the shapes.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Timestamp is a creation time as it appears on the wire. Whatever shape it
// arrived in, Time holds the resolved UTC instant.
type Timestamp struct {
	Kind Kind
	Time time.Time
}

type nativeTimestamp struct {
	Seconds     *int64 `json:"seconds"`
	Nanoseconds int64  `json:"nanoseconds"`
}

// NewTimestamp wraps t as a wall-clock timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Kind: KindWall, Time: t.UTC()}
}

// UnmarshalJSON resolves any supported shape to a canonical time.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return ErrInvalidTimestamp
		}
		*ts = Timestamp{Kind: KindWall, Time: t.UTC()}
	case '{':
		var n nativeTimestamp
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		if n.Seconds == nil {
			return ErrInvalidTimestamp
		}
		*ts = Timestamp{Kind: KindNative, Time: time.Unix(*n.Seconds, n.Nanoseconds).UTC()}
	default:
		var ms int64
		if err := json.Unmarshal(b, &ms); err != nil {
			return ErrInvalidTimestamp
		}
		*ts = Timestamp{Kind: KindUnixMillis, Time: time.UnixMilli(ms).UTC()}
	}
	return nil
}

// MarshalJSON always emits RFC 3339.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Time.UTC().Format(time.RFC3339Nano))
}
