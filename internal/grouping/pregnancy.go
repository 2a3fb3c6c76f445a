package grouping

import (
	"sort"
	"time"
)

type RecordType string

const (
	RecordTypePrenatal   RecordType = "Prenatal"
	RecordTypePostpartum RecordType = "Postpartum"
)

// MaternalRecord is one prenatal or postpartum visit record, flattened
// for grouping.
type MaternalRecord struct {
	ID              string
	PregnancyID     string
	RecordType      RecordType
	CreatedAt       time.Time
	ExpectedDueDate *time.Time
	DeliveryDate    *time.Time
}

// PregnancySummary is the backend's own row for a pregnancy. Its status
// field is authoritative; the grouper only re-projects it.
type PregnancySummary struct {
	ID           string
	ResidentID   string
	StatusRaw    string
	RegisteredAt time.Time
}

// PregnancyGroup has no true root member: the header fields are
// synthesized from the member records.
type PregnancyGroup struct {
	GroupKey        string
	ResidentID      string
	StartDate       time.Time
	ExpectedDueDate *time.Time
	DeliveryDate    *time.Time
	DerivedStatus   Status
	Records         []MaternalRecord
}

func (g PregnancyGroup) MemberCount() int { return len(g.Records) }

// IsLatest reports whether recordID names the first record in the
// group's sorted sequence. Only that record may carry a complete/loss
// transition while the group is active.
func (g PregnancyGroup) IsLatest(recordID string) bool {
	return len(g.Records) > 0 && g.Records[0].ID == recordID
}

// GroupPregnancies assembles one group per pregnancy summary. Records
// referencing a pregnancy id with no summary are dropped and their ids
// returned, mirroring the dangling-parent policy of the ordinance
// grouper.
//
// Record order inside a group: postpartum before prenatal, then newest
// CreatedAt first. Groups order by StartDate descending.
func GroupPregnancies(pregnancies []PregnancySummary, records []MaternalRecord) ([]PregnancyGroup, []string) {
	known := make(map[string]bool, len(pregnancies))
	for _, p := range pregnancies {
		known[p.ID] = true
	}

	byPregnancy := make(map[string][]MaternalRecord)
	var dropped []string
	for _, r := range records {
		if !known[r.PregnancyID] {
			dropped = append(dropped, r.ID)
			continue
		}
		byPregnancy[r.PregnancyID] = append(byPregnancy[r.PregnancyID], r)
	}

	groups := make([]PregnancyGroup, 0, len(pregnancies))
	for _, p := range pregnancies {
		members := byPregnancy[p.ID]
		sortMaternalRecords(members)
		g := PregnancyGroup{
			GroupKey:      p.ID,
			ResidentID:    p.ResidentID,
			StartDate:     startDate(p, members),
			DerivedStatus: NormalizeStatus(p.StatusRaw),
			Records:       members,
		}
		for _, m := range members {
			if g.ExpectedDueDate == nil && m.RecordType == RecordTypePrenatal && m.ExpectedDueDate != nil {
				g.ExpectedDueDate = m.ExpectedDueDate
			}
			if g.DeliveryDate == nil && m.RecordType == RecordTypePostpartum && m.DeliveryDate != nil {
				g.DeliveryDate = m.DeliveryDate
			}
		}
		groups = append(groups, g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if !groups[i].StartDate.Equal(groups[j].StartDate) {
			return groups[i].StartDate.After(groups[j].StartDate)
		}
		return groups[i].GroupKey < groups[j].GroupKey
	})
	sort.Strings(dropped)
	return groups, dropped
}

func sortMaternalRecords(records []MaternalRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		ca, cb := recordClass(a), recordClass(b)
		if ca != cb {
			return ca < cb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func recordClass(r MaternalRecord) int {
	if r.RecordType == RecordTypePostpartum {
		return 0
	}
	return 1
}

// startDate is the earliest record CreatedAt, falling back to the
// registration time for a pregnancy with no visit records yet. Zero
// timestamps on records are ignored so unknown dates sort last, not
// first.
func startDate(p PregnancySummary, records []MaternalRecord) time.Time {
	start := time.Time{}
	for _, r := range records {
		if r.CreatedAt.IsZero() {
			continue
		}
		if start.IsZero() || r.CreatedAt.Before(start) {
			start = r.CreatedAt
		}
	}
	if start.IsZero() {
		return p.RegisteredAt
	}
	return start
}
