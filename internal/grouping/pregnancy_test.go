package grouping

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func maternal(id, pregnancyID string, rt RecordType, created time.Time) MaternalRecord {
	return MaternalRecord{
		ID:          id,
		PregnancyID: pregnancyID,
		RecordType:  rt,
		CreatedAt:   created,
	}
}

func TestGroupPregnanciesPostpartumSortsFirst(t *testing.T) {
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	pregnancies := []PregnancySummary{
		{ID: "preg-1", ResidentID: "res-1", StatusRaw: "Active", RegisteredAt: base},
	}
	// The prenatal record is newer than the postpartum record; the
	// postpartum record still leads.
	records := []MaternalRecord{
		maternal("pre-1", "preg-1", RecordTypePrenatal, base.AddDate(0, 2, 0)),
		maternal("post-1", "preg-1", RecordTypePostpartum, base.AddDate(0, 1, 0)),
	}

	groups, dropped := GroupPregnancies(pregnancies, records)
	require.Len(t, groups, 1)
	assert.Empty(t, dropped)

	g := groups[0]
	assert.Equal(t, StatusActive, g.DerivedStatus)
	require.Len(t, g.Records, 2)
	assert.Equal(t, "post-1", g.Records[0].ID)
	assert.Equal(t, "pre-1", g.Records[1].ID)
	assert.True(t, g.IsLatest("post-1"))
	assert.False(t, g.IsLatest("pre-1"))
}

func TestGroupPregnanciesStatusFromBackendNotMembers(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	pregnancies := []PregnancySummary{
		{ID: "preg-1", StatusRaw: "Completed", RegisteredAt: base},
	}
	records := []MaternalRecord{
		maternal("pre-1", "preg-1", RecordTypePrenatal, base),
	}
	groups, _ := GroupPregnancies(pregnancies, records)
	require.Len(t, groups, 1)
	// The summary's own status wins even though no postpartum record
	// exists yet.
	assert.Equal(t, StatusCompleted, groups[0].DerivedStatus)
}

func TestGroupPregnanciesHeaderSynthesis(t *testing.T) {
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	due := base.AddDate(0, 7, 0)
	delivered := base.AddDate(0, 8, 0)

	pregnancies := []PregnancySummary{
		{ID: "preg-1", StatusRaw: "Completed", RegisteredAt: base.AddDate(0, -1, 0)},
	}
	records := []MaternalRecord{
		{ID: "pre-1", PregnancyID: "preg-1", RecordType: RecordTypePrenatal, CreatedAt: base, ExpectedDueDate: &due},
		{ID: "pre-2", PregnancyID: "preg-1", RecordType: RecordTypePrenatal, CreatedAt: base.AddDate(0, 1, 0)},
		{ID: "post-1", PregnancyID: "preg-1", RecordType: RecordTypePostpartum, CreatedAt: delivered, DeliveryDate: &delivered},
	}

	groups, _ := GroupPregnancies(pregnancies, records)
	require.Len(t, groups, 1)
	g := groups[0]
	assert.Equal(t, base, g.StartDate, "start date is the earliest record, not the registration time")
	require.NotNil(t, g.ExpectedDueDate)
	assert.Equal(t, due, *g.ExpectedDueDate)
	require.NotNil(t, g.DeliveryDate)
	assert.Equal(t, delivered, *g.DeliveryDate)
	assert.Equal(t, 3, g.MemberCount())
}

func TestGroupPregnanciesGroupOrdering(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	pregnancies := []PregnancySummary{
		{ID: "preg-early", StatusRaw: "Completed", RegisteredAt: early},
		{ID: "preg-late", StatusRaw: "Active", RegisteredAt: late},
	}
	records := []MaternalRecord{
		maternal("a", "preg-early", RecordTypePrenatal, early),
		maternal("b", "preg-late", RecordTypePrenatal, late),
	}

	groups, _ := GroupPregnancies(pregnancies, records)
	require.Len(t, groups, 2)
	assert.Equal(t, "preg-late", groups[0].GroupKey, "most recently started pregnancy first")
	assert.Equal(t, "preg-early", groups[1].GroupKey)
}

func TestGroupPregnanciesUnknownPregnancyDropped(t *testing.T) {
	pregnancies := []PregnancySummary{
		{ID: "preg-1", StatusRaw: "Active", RegisteredAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	records := []MaternalRecord{
		maternal("orphan", "preg-ghost", RecordTypePrenatal, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)),
	}
	groups, dropped := GroupPregnancies(pregnancies, records)
	require.Len(t, groups, 1)
	assert.Empty(t, groups[0].Records)
	assert.Equal(t, []string{"orphan"}, dropped)
}

func TestGroupPregnanciesEmptyRegisteredGroup(t *testing.T) {
	registered := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	pregnancies := []PregnancySummary{
		{ID: "preg-1", StatusRaw: "Active", RegisteredAt: registered},
	}
	groups, dropped := GroupPregnancies(pregnancies, nil)
	require.Len(t, groups, 1)
	assert.Empty(t, dropped)
	assert.Equal(t, registered, groups[0].StartDate)
	assert.Equal(t, 0, groups[0].MemberCount())
	assert.False(t, groups[0].IsLatest("anything"))
}

func TestGroupPregnanciesPartitionAndOrderIndependence(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	pregnancies := []PregnancySummary{
		{ID: "preg-1", StatusRaw: "Active", RegisteredAt: base},
		{ID: "preg-2", StatusRaw: "Loss", RegisteredAt: base.AddDate(0, 1, 0)},
	}
	records := []MaternalRecord{
		maternal("r1", "preg-1", RecordTypePrenatal, base),
		maternal("r2", "preg-1", RecordTypePrenatal, base.AddDate(0, 1, 0)),
		maternal("r3", "preg-2", RecordTypePostpartum, base.AddDate(0, 2, 0)),
		maternal("r4", "preg-gone", RecordTypePrenatal, base.AddDate(0, 3, 0)),
	}

	want, wantDropped := GroupPregnancies(pregnancies, records)

	seen := map[string]int{}
	for _, g := range want {
		for _, r := range g.Records {
			seen[r.ID]++
		}
	}
	for _, id := range wantDropped {
		seen[id]++
	}
	require.Len(t, seen, len(records))
	for id, count := range seen {
		assert.Equal(t, 1, count, "record %s appears %d times", id, count)
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffledRecords := make([]MaternalRecord, len(records))
		copy(shuffledRecords, records)
		rng.Shuffle(len(shuffledRecords), func(a, b int) {
			shuffledRecords[a], shuffledRecords[b] = shuffledRecords[b], shuffledRecords[a]
		})
		shuffledPregnancies := make([]PregnancySummary, len(pregnancies))
		copy(shuffledPregnancies, pregnancies)
		rng.Shuffle(len(shuffledPregnancies), func(a, b int) {
			shuffledPregnancies[a], shuffledPregnancies[b] = shuffledPregnancies[b], shuffledPregnancies[a]
		})

		got, gotDropped := GroupPregnancies(shuffledPregnancies, shuffledRecords)
		assert.Equal(t, want, got)
		assert.Equal(t, wantDropped, gotDropped)
	}
}

func TestGroupPregnanciesZeroCreatedAtSortsLast(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	pregnancies := []PregnancySummary{
		{ID: "preg-1", StatusRaw: "Active", RegisteredAt: base},
	}
	records := []MaternalRecord{
		maternal("dated", "preg-1", RecordTypePrenatal, base),
		maternal("undated", "preg-1", RecordTypePrenatal, time.Time{}),
	}
	groups, _ := GroupPregnancies(pregnancies, records)
	require.Len(t, groups, 1)
	assert.Equal(t, "dated", groups[0].Records[0].ID)
	assert.Equal(t, "undated", groups[0].Records[1].ID)
	// Unknown dates never become the group start date.
	assert.Equal(t, base, groups[0].StartDate)
}
