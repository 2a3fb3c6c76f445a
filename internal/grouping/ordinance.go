package grouping

import (
	"sort"
	"strings"
	"time"
)

// OrdinanceRecord is the flat projection the folder grouper consumes.
// ParentID empty means the record stands on its own; a ParentID equal to
// the record's own ID is treated the same way.
type OrdinanceRecord struct {
	ID          string
	Number      string
	Title       string
	ParentID    string
	StatusRaw   string
	IsAmendment bool
	IsRepeal    bool
	CreatedAt   time.Time
}

// OrdinanceFolder is one display group: a root ordinance plus the
// amendments and repeals attached to it.
type OrdinanceFolder struct {
	GroupKey string
	Root     OrdinanceRecord
	Members  []OrdinanceRecord
}

func (f OrdinanceFolder) MemberCount() int { return len(f.Members) + 1 }

// HasRepeal reports whether the folder's effect has been nullified:
// either the root itself carries a repealed status, or a member is a
// pure repeal (flagged repeal and not amendment).
func (f OrdinanceFolder) HasRepeal() bool {
	if strings.EqualFold(strings.TrimSpace(f.Root.StatusRaw), "repealed") {
		return true
	}
	for _, m := range f.Members {
		if m.IsRepeal && !m.IsAmendment {
			return true
		}
	}
	return false
}

// DerivedStatus re-projects the root's status, forced to Loss when the
// folder has been repealed.
func (f OrdinanceFolder) DerivedStatus() Status {
	if f.HasRepeal() {
		return StatusLoss
	}
	return NormalizeStatus(f.Root.StatusRaw)
}

// LatestID returns the id of the newest record in the folder's sorted
// sequence, the one eligible for follow-up actions.
func (f OrdinanceFolder) LatestID() string {
	if len(f.Members) > 0 {
		return f.Members[0].ID
	}
	return f.Root.ID
}

// GroupOrdinances partitions a flat ordinance list into folders.
// A child record is attached to the folder of the root its ParentID
// chain resolves to, so an amendment of an amendment still lands in the
// original ordinance's folder. Records whose chain hits a missing
// record or loops are dropped from the folder output; their ids are
// returned so the caller can report them instead of silently losing
// them.
//
// The result does not depend on input order: members sort amendments
// before repeals with newest first inside each class, and folders sort
// by natural comparison on the root ordinance number.
func GroupOrdinances(records []OrdinanceRecord) ([]OrdinanceFolder, []string) {
	byID := make(map[string]OrdinanceRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	children := make(map[string][]OrdinanceRecord)
	var dropped []string
	isChild := make(map[string]bool)
	for _, r := range records {
		if r.ParentID == "" || r.ParentID == r.ID {
			continue
		}
		isChild[r.ID] = true
		root, ok := resolveRoot(r, byID)
		if !ok {
			dropped = append(dropped, r.ID)
			continue
		}
		children[root.ID] = append(children[root.ID], r)
	}

	folders := make([]OrdinanceFolder, 0, len(records))
	for _, r := range records {
		if isChild[r.ID] {
			continue
		}
		members := children[r.ID]
		sortMembers(members)
		folders = append(folders, OrdinanceFolder{
			GroupKey: r.ID,
			Root:     r,
			Members:  members,
		})
	}

	sort.SliceStable(folders, func(i, j int) bool {
		return CompareNatural(folders[i].Root.Number, folders[j].Root.Number) < 0
	})
	sort.Strings(dropped)
	return folders, dropped
}

// resolveRoot walks the parent chain up to the record that owns the
// folder. The walk fails when a link is absent from the input or the
// chain loops back on itself.
func resolveRoot(r OrdinanceRecord, byID map[string]OrdinanceRecord) (OrdinanceRecord, bool) {
	cur := r
	seen := map[string]bool{cur.ID: true}
	for cur.ParentID != "" && cur.ParentID != cur.ID {
		parent, ok := byID[cur.ParentID]
		if !ok || seen[parent.ID] {
			return OrdinanceRecord{}, false
		}
		seen[parent.ID] = true
		cur = parent
	}
	return cur, true
}

// sortMembers orders amendments ahead of repeals; within each class the
// newest record comes first. A record flagged both ways counts as an
// amendment for ordering.
func sortMembers(members []OrdinanceRecord) {
	sort.SliceStable(members, func(i, j int) bool {
		a, b := members[i], members[j]
		ca, cb := memberClass(a), memberClass(b)
		if ca != cb {
			return ca < cb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return CompareNatural(a.Number, b.Number) < 0
	})
}

func memberClass(r OrdinanceRecord) int {
	if r.IsAmendment {
		return 0
	}
	if r.IsRepeal {
		return 1
	}
	return 2
}
