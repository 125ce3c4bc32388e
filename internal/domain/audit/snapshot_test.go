package audit_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/ganot/project-registry/internal/domain/audit"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

type widget struct {
	id        int64
	name      string
	note      *string
	createdAt time.Time
	active    bool
}

func (w *widget) TableName() string { return "widgets" }

func (w *widget) PrimaryKey() []string { return []string{strconv.FormatInt(w.id, 10)} }

func (w *widget) Columns() map[string]any {
	return map[string]any{
		"id":         w.id,
		"name":       w.name,
		"note":       w.note,
		"created_at": w.createdAt,
		"is_active":  w.active,
	}
}

type membership struct {
	group string
	user  string
}

func (m *membership) TableName() string    { return "memberships" }
func (m *membership) PrimaryKey() []string { return []string{m.group, m.user} }
func (m *membership) Columns() map[string]any {
	return map[string]any{"group": m.group, "user": m.user}
}

func kickoff() *widget {
	return &widget{
		id:        7,
		name:      "Kickoff",
		createdAt: time.Date(2024, 1, 2, 3, 4, 5, 500_000_000, time.UTC),
		active:    true,
	}
}

func TestCapture_Golden(t *testing.T) {
	data, err := audit.Capture(kickoff()).MarshalIndent()
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "widget_snapshot", data)
}

func TestCapture_NilEntity(t *testing.T) {
	require.Nil(t, audit.Capture(nil))

	var w *widget
	require.Nil(t, audit.Capture(w))
}

func TestCapture_NullsArePresent(t *testing.T) {
	snap := audit.Capture(kickoff())
	value, ok := snap["note"]
	require.True(t, ok, "nil attribute must be present")
	require.Nil(t, value)

	note := "hello"
	w := kickoff()
	w.note = &note
	require.Equal(t, "hello", audit.Capture(w)["note"])
}

func TestCapture_TimesRenderInUTC(t *testing.T) {
	w := kickoff()
	w.createdAt = w.createdAt.In(time.FixedZone("EST", -5*60*60))
	require.Equal(t, "2024-01-02T03:04:05.5Z", audit.Capture(w)["created_at"])
}

func TestCapture_Deterministic(t *testing.T) {
	first := audit.Capture(kickoff())
	second := audit.Capture(kickoff())
	require.Equal(t, first, second)
	require.True(t, first.Equal(second))

	changed := kickoff()
	changed.name = "Launch"
	require.False(t, first.Equal(audit.Capture(changed)))
}

func TestSnapshotEqual_NumericRoundTrip(t *testing.T) {
	a := audit.Snapshot{"id": int64(7)}
	b := audit.Snapshot{"id": float64(7)}
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(nil))
	require.True(t, audit.Snapshot(nil).Equal(nil))
}

func TestRowID(t *testing.T) {
	require.Equal(t, "7", audit.RowID(kickoff()))
	require.Equal(t, "admins|alice", audit.RowID(&membership{group: "admins", user: "alice"}))
}
