package audit

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"time"
)

// KeySeparator joins the components of a composite primary key. Key values
// containing it produce ambiguous row ids.
const KeySeparator = "|"

// Entity is a persisted row that can be snapshotted into the audit log.
type Entity interface {
	TableName() string
	PrimaryKey() []string
	Columns() map[string]any
}

// Snapshot is the attribute map of an entity at one point in time.
// Absent values are present with a nil value, never omitted.
type Snapshot map[string]any

// Capture renders e into a Snapshot. Times become RFC 3339 strings in UTC,
// pointers are dereferenced and nil pointers become nil. A nil entity yields
// a nil snapshot.
func Capture(e Entity) Snapshot {
	if isNil(e) {
		return nil
	}
	cols := e.Columns()
	snap := make(Snapshot, len(cols))
	for name, value := range cols {
		snap[name] = normalize(value)
	}
	return snap
}

// RowID returns the audit row identifier of e.
func RowID(e Entity) string {
	return strings.Join(e.PrimaryKey(), KeySeparator)
}

// Equal reports whether both snapshots serialize identically.
func (s Snapshot) Equal(other Snapshot) bool {
	if s == nil || other == nil {
		return s == nil && other == nil
	}
	a, errA := json.Marshal(s)
	b, errB := json.Marshal(other)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// MarshalIndent renders the snapshot with sorted keys.
func (s Snapshot) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func normalize(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		return formatTime(v)
	case *time.Time:
		if v == nil {
			return nil
		}
		return formatTime(*v)
	case string, bool, int64, float64:
		return v
	case int:
		return int64(v)
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	}
	return value
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func isNil(e Entity) bool {
	if e == nil {
		return true
	}
	rv := reflect.ValueOf(e)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
