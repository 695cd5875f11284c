package tracker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/engitrack/engitrack/internal/stats"
	"github.com/engitrack/engitrack/internal/storage"
)

const testSecret = "crdcwutan"

func newTestTracker(t *testing.T) (*Tracker, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	tr := New(mem, testSecret)
	require.NoError(t, tr.Load())
	return tr, mem
}

func TestTracker_LoadDefaults(t *testing.T) {
	tr, _ := newTestTracker(t)

	require.False(t, tr.Session().IsLoggedIn)
	require.Len(t, tr.Columns(), 15)
	require.Empty(t, tr.Records())
}

func TestTracker_Login(t *testing.T) {
	tr, _ := newTestTracker(t)

	require.NoError(t, tr.Login("  吴工  ", testSecret))
	require.True(t, tr.Session().IsLoggedIn)
	require.Equal(t, "吴工", tr.Session().Username)
}

func TestTracker_LoginRejectsBadPassword(t *testing.T) {
	tr, _ := newTestTracker(t)

	err := tr.Login("user", "wrong")
	require.ErrorIs(t, err, ErrBadPassword)
	require.False(t, tr.Session().IsLoggedIn)

	// Near-miss passwords fail the full compare too
	require.ErrorIs(t, tr.Login("user", testSecret+" "), ErrBadPassword)
	require.ErrorIs(t, tr.Login("user", "Crdcwutan"), ErrBadPassword)
}

func TestTracker_LoginRejectsBlankUsername(t *testing.T) {
	tr, _ := newTestTracker(t)

	require.ErrorIs(t, tr.Login("   ", testSecret), ErrEmptyUsername)
}

func TestTracker_SessionSurvivesRestart(t *testing.T) {
	tr, mem := newTestTracker(t)
	require.NoError(t, tr.Login("alice", testSecret))

	tr2 := New(mem, testSecret)
	require.NoError(t, tr2.Load())
	require.True(t, tr2.Session().IsLoggedIn)
	require.Equal(t, "alice", tr2.Session().Username)
}

func TestTracker_LogoutClearsPersistedSession(t *testing.T) {
	tr, mem := newTestTracker(t)
	require.NoError(t, tr.Login("alice", testSecret))

	tr.Logout()
	require.False(t, tr.Session().IsLoggedIn)

	_, found, err := mem.Get(storage.KeySession)
	require.NoError(t, err)
	require.False(t, found)
}

func TestTracker_RecordLifecyclePersists(t *testing.T) {
	tr, mem := newTestTracker(t)
	require.NoError(t, tr.Login("alice", testSecret))

	r := tr.CreateRecord(map[string]any{"projectName": "隧道A"})
	require.Equal(t, "alice", r.CreatedBy)

	tr2 := New(mem, testSecret)
	require.NoError(t, tr2.Load())
	records := tr2.Records()
	require.Len(t, records, 1)
	require.Equal(t, r.ID, records[0].ID)
	require.Equal(t, "隧道A", records[0].Fields["projectName"])
}

func TestTracker_ColumnChangesPersist(t *testing.T) {
	tr, mem := newTestTracker(t)

	col, added := tr.AddColumn("供电单位")
	require.True(t, added)
	require.True(t, tr.RemoveColumn("remark2"))

	tr2 := New(mem, testSecret)
	require.NoError(t, tr2.Load())
	cols := tr2.Columns()
	require.Len(t, cols, 15) // 15 initial + 1 added - 1 removed
	require.Equal(t, col.Key, cols[len(cols)-1].Key)
	for _, c := range cols {
		require.NotEqual(t, "remark2", c.Key)
	}
}

func TestTracker_SingleRecordDashboard(t *testing.T) {
	tr, _ := newTestTracker(t)
	require.NoError(t, tr.Login("wutan", testSecret))

	tr.CreateRecord(map[string]any{"method": "seismic", "outlineQty": 12.5})

	s := tr.Stats(stats.Options{})
	require.Equal(t, 1, s.TotalProjects)
	require.Equal(t, 12.5, s.Total)
	require.Equal(t, []stats.Bucket{{Name: "seismic", Count: 1}}, s.Categories)
	require.Equal(t, []stats.Bucket{{Name: "wutan", Count: 1}}, s.Creators)
}

func TestTracker_MixedNumericValues(t *testing.T) {
	tr, _ := newTestTracker(t)
	require.NoError(t, tr.Login("u", testSecret))

	tr.CreateRecord(map[string]any{"outlineQty": "abc"})
	tr.CreateRecord(map[string]any{"outlineQty": "7"})

	s := tr.Stats(stats.Options{})
	require.Equal(t, 2, s.TotalProjects)
	require.Equal(t, 7.0, s.Total)
}

func TestTracker_UpdateAndDeleteUnknownAreNoOps(t *testing.T) {
	tr, _ := newTestTracker(t)
	require.NoError(t, tr.Login("u", testSecret))
	tr.CreateRecord(map[string]any{"projectName": "p"})

	_, ok := tr.UpdateRecord("missing", map[string]any{})
	require.False(t, ok)
	require.False(t, tr.DeleteRecord("missing"))
	require.Len(t, tr.Records(), 1)
}

func TestTracker_RemovedColumnKeepsRecordData(t *testing.T) {
	tr, _ := newTestTracker(t)
	require.NoError(t, tr.Login("u", testSecret))

	r := tr.CreateRecord(map[string]any{"projectName": "p", "remark1": "note"})
	require.True(t, tr.RemoveColumn("remark1"))

	got, found := tr.GetRecord(r.ID)
	require.True(t, found)
	require.Equal(t, "note", got.Fields["remark1"], "payload survives column removal")
}

func TestTracker_Reload(t *testing.T) {
	tr, mem := newTestTracker(t)
	require.NoError(t, tr.Login("u", testSecret))

	// A second tracker over the same adapter plays the external writer
	other := New(mem, testSecret)
	require.NoError(t, other.Load())
	require.NoError(t, other.Login("v", testSecret))
	other.CreateRecord(map[string]any{"projectName": "external"})

	require.NoError(t, tr.Reload())
	require.Len(t, tr.Records(), 1)
	require.Equal(t, "external", tr.Records()[0].Fields["projectName"])
	require.Equal(t, "u", tr.Session().Username, "reload keeps the local session")
}
