package grouping

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ord(id, number, parentID string, amendment, repeal bool, created time.Time) OrdinanceRecord {
	return OrdinanceRecord{
		ID:          id,
		Number:      number,
		ParentID:    parentID,
		StatusRaw:   "active",
		IsAmendment: amendment,
		IsRepeal:    repeal,
		CreatedAt:   created,
	}
}

func TestGroupOrdinancesRootWithAmendment(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []OrdinanceRecord{
		ord("ORD-1", "ORD-1", "", false, false, base),
		ord("ORD-1-A", "ORD-1-A", "ORD-1", true, false, base.AddDate(0, 1, 0)),
	}

	folders, dropped := GroupOrdinances(records)
	require.Len(t, folders, 1)
	assert.Empty(t, dropped)

	f := folders[0]
	assert.Equal(t, "ORD-1", f.Root.ID)
	assert.Equal(t, 2, f.MemberCount())
	require.Len(t, f.Members, 1)
	assert.Equal(t, "ORD-1-A", f.Members[0].ID)
}

func TestGroupOrdinancesStandaloneSingleton(t *testing.T) {
	records := []OrdinanceRecord{
		ord("ORD-2", "ORD-2", "", false, false, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	folders, dropped := GroupOrdinances(records)
	require.Len(t, folders, 1)
	assert.Empty(t, dropped)
	assert.Equal(t, 1, folders[0].MemberCount())
	assert.Empty(t, folders[0].Members)
}

func TestGroupOrdinancesDanglingParentDropped(t *testing.T) {
	records := []OrdinanceRecord{
		ord("ORD-3-A", "ORD-3-A", "ORD-3", true, false, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)),
	}
	folders, dropped := GroupOrdinances(records)
	assert.Empty(t, folders)
	assert.Equal(t, []string{"ORD-3-A"}, dropped)
}

func TestGroupOrdinancesMemberOrdering(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	records := []OrdinanceRecord{
		ord("ORD-4", "ORD-4", "", false, false, base),
		ord("ORD-4-R", "ORD-4-R", "ORD-4", false, true, base.AddDate(0, 5, 0)),
		ord("ORD-4-A1", "ORD-4-A1", "ORD-4", true, false, base.AddDate(0, 1, 0)),
		ord("ORD-4-A2", "ORD-4-A2", "ORD-4", true, false, base.AddDate(0, 3, 0)),
	}

	folders, dropped := GroupOrdinances(records)
	require.Len(t, folders, 1)
	assert.Empty(t, dropped)

	got := make([]string, 0, len(folders[0].Members))
	for _, m := range folders[0].Members {
		got = append(got, m.ID)
	}
	// Amendments first (newest leading), then the repeal despite it
	// being the newest record overall.
	assert.Equal(t, []string{"ORD-4-A2", "ORD-4-A1", "ORD-4-R"}, got)
	assert.Equal(t, "ORD-4-A2", folders[0].LatestID())
}

func TestGroupOrdinancesFolderOrderingNumericAware(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []OrdinanceRecord{
		ord("b", "ORD-10", "", false, false, created),
		ord("a", "ORD-2", "", false, false, created),
		ord("c", "ORD-1", "", false, false, created),
	}
	folders, _ := GroupOrdinances(records)
	require.Len(t, folders, 3)
	assert.Equal(t, "ORD-1", folders[0].Root.Number)
	assert.Equal(t, "ORD-2", folders[1].Root.Number)
	assert.Equal(t, "ORD-10", folders[2].Root.Number)
}

func TestGroupOrdinancesPartition(t *testing.T) {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []OrdinanceRecord{
		ord("ORD-1", "ORD-1", "", false, false, base),
		ord("ORD-1-A", "ORD-1-A", "ORD-1", true, false, base.AddDate(0, 2, 0)),
		ord("ORD-1-R", "ORD-1-R", "ORD-1", false, true, base.AddDate(0, 4, 0)),
		ord("ORD-2", "ORD-2", "", false, false, base.AddDate(0, 1, 0)),
		ord("ORD-9-A", "ORD-9-A", "ORD-9", true, false, base.AddDate(0, 3, 0)),
	}

	folders, dropped := GroupOrdinances(records)

	seen := map[string]int{}
	for _, f := range folders {
		seen[f.Root.ID]++
		for _, m := range f.Members {
			seen[m.ID]++
		}
	}
	for _, id := range dropped {
		seen[id]++
	}
	require.Len(t, seen, len(records))
	for id, count := range seen {
		assert.Equal(t, 1, count, "record %s appears %d times", id, count)
	}
	assert.Equal(t, []string{"ORD-9-A"}, dropped)
}

func TestGroupOrdinancesInputOrderIndependent(t *testing.T) {
	base := time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)
	records := []OrdinanceRecord{
		ord("ORD-1", "ORD-1", "", false, false, base),
		ord("ORD-1-A", "ORD-1-A", "ORD-1", true, false, base.AddDate(0, 1, 0)),
		ord("ORD-2", "ORD-2", "", false, false, base.AddDate(0, 2, 0)),
		ord("ORD-2-R", "ORD-2-R", "ORD-2", false, true, base.AddDate(0, 3, 0)),
		ord("ORD-10", "ORD-10", "", false, false, base.AddDate(0, 4, 0)),
	}

	want, wantDropped := GroupOrdinances(records)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]OrdinanceRecord, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, gotDropped := GroupOrdinances(shuffled)
		assert.Equal(t, want, got)
		assert.Equal(t, wantDropped, gotDropped)
	}
}

func TestGroupOrdinancesIdempotent(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []OrdinanceRecord{
		ord("ORD-1", "ORD-1", "", false, false, base),
		ord("ORD-1-A", "ORD-1-A", "ORD-1", true, false, base.AddDate(0, 1, 0)),
	}
	first, firstDropped := GroupOrdinances(records)
	second, secondDropped := GroupOrdinances(records)
	assert.Equal(t, first, second)
	assert.Equal(t, firstDropped, secondDropped)
}

func TestGroupOrdinancesAmendmentChainAttachesToRoot(t *testing.T) {
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	records := []OrdinanceRecord{
		ord("ORD-1", "ORD-1", "", false, false, base),
		ord("ORD-1-A", "ORD-1-A", "ORD-1", true, false, base.AddDate(0, 1, 0)),
		ord("ORD-1-A-A", "ORD-1-A-A", "ORD-1-A", true, false, base.AddDate(0, 2, 0)),
	}

	folders, dropped := GroupOrdinances(records)
	require.Len(t, folders, 1)
	assert.Empty(t, dropped)

	f := folders[0]
	assert.Equal(t, "ORD-1", f.Root.ID)
	assert.Equal(t, 3, f.MemberCount())
	got := make([]string, 0, len(f.Members))
	for _, m := range f.Members {
		got = append(got, m.ID)
	}
	assert.Equal(t, []string{"ORD-1-A-A", "ORD-1-A"}, got)
}

func TestGroupOrdinancesChainToMissingAncestorDropped(t *testing.T) {
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	records := []OrdinanceRecord{
		ord("ORD-5-A", "ORD-5-A", "ORD-5", true, false, base),
		ord("ORD-5-A-A", "ORD-5-A-A", "ORD-5-A", true, false, base.AddDate(0, 1, 0)),
	}

	folders, dropped := GroupOrdinances(records)
	assert.Empty(t, folders)
	assert.Equal(t, []string{"ORD-5-A", "ORD-5-A-A"}, dropped)
}

func TestGroupOrdinancesParentCycleDropped(t *testing.T) {
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	records := []OrdinanceRecord{
		ord("ORD-6-A", "ORD-6-A", "ORD-6-B", true, false, base),
		ord("ORD-6-B", "ORD-6-B", "ORD-6-A", true, false, base.AddDate(0, 1, 0)),
	}

	folders, dropped := GroupOrdinances(records)
	assert.Empty(t, folders)
	assert.Equal(t, []string{"ORD-6-A", "ORD-6-B"}, dropped)
}

func TestGroupOrdinancesSelfParentIsNoParent(t *testing.T) {
	records := []OrdinanceRecord{
		ord("ORD-7", "ORD-7", "ORD-7", false, false, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	folders, dropped := GroupOrdinances(records)
	require.Len(t, folders, 1)
	assert.Empty(t, dropped)
	assert.Empty(t, folders[0].Members)
}

func TestOrdinanceFolderHasRepeal(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("repealed_root_status", func(t *testing.T) {
		root := ord("ORD-1", "ORD-1", "", false, false, base)
		root.StatusRaw = "Repealed"
		f := OrdinanceFolder{GroupKey: root.ID, Root: root}
		assert.True(t, f.HasRepeal())
		assert.Equal(t, StatusLoss, f.DerivedStatus())
	})

	t.Run("repeal_member", func(t *testing.T) {
		f := OrdinanceFolder{
			GroupKey: "ORD-2",
			Root:     ord("ORD-2", "ORD-2", "", false, false, base),
			Members: []OrdinanceRecord{
				ord("ORD-2-R", "ORD-2-R", "ORD-2", false, true, base.AddDate(0, 1, 0)),
			},
		}
		assert.True(t, f.HasRepeal())
	})

	t.Run("amendment_flagged_repeal_does_not_count", func(t *testing.T) {
		f := OrdinanceFolder{
			GroupKey: "ORD-3",
			Root:     ord("ORD-3", "ORD-3", "", false, false, base),
			Members: []OrdinanceRecord{
				ord("ORD-3-A", "ORD-3-A", "ORD-3", true, true, base.AddDate(0, 1, 0)),
			},
		}
		assert.False(t, f.HasRepeal())
		assert.Equal(t, StatusActive, f.DerivedStatus())
	})
}

func TestGroupOrdinancesEmptyInput(t *testing.T) {
	folders, dropped := GroupOrdinances(nil)
	assert.Empty(t, folders)
	assert.Empty(t, dropped)
}
