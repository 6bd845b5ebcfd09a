package household

import (
	"sort"
	"sync"
)

// Household groups the profile repositories and the running time-saved counter.
type Household struct {
	Parents  Repository[Parent]
	Children Repository[Child]
	Sessions Repository[Session]

	mu           sync.Mutex
	orgs         map[string]Org
	minutesSaved int
}

// New returns a Household backed by in-memory repositories.
func New() *Household {
	return &Household{
		Parents:  NewMemoryRepository[Parent](),
		Children: NewMemoryRepository[Child](),
		Sessions: NewMemoryRepository[Session](),
		orgs:     map[string]Org{},
	}
}

// RecordSession stores s and adds its duration to the minutes saved.
func (h *Household) RecordSession(s Session) {
	h.Sessions.Append(s)
	h.mu.Lock()
	h.minutesSaved += s.Duration
	h.mu.Unlock()
}

// MinutesSaved returns the total duration of recorded sessions since the last wipe.
func (h *Household) MinutesSaved() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.minutesSaved
}

// RemoveChild deletes every child profile with the given name.
func (h *Household) RemoveChild(name string) int {
	return h.Children.RemoveFunc(func(c Child) bool { return c.Name == name })
}

// PutOrg creates or replaces an org and returns all orgs sorted by id.
func (h *Household) PutOrg(o Org) []Org {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.orgs[o.OrgID] = o
	return h.sortedOrgs()
}

// Orgs returns all orgs sorted by id.
func (h *Household) Orgs() []Org {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sortedOrgs()
}

func (h *Household) sortedOrgs() []Org {
	out := make([]Org, 0, len(h.orgs))
	for _, o := range h.orgs {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrgID < out[j].OrgID })
	return out
}

// Wipe clears parents, children, sessions and the time-saved counter. Orgs are kept.
func (h *Household) Wipe() {
	h.Parents.Clear()
	h.Children.Clear()
	h.Sessions.Clear()
	h.mu.Lock()
	h.minutesSaved = 0
	h.mu.Unlock()
}

// Export is a snapshot of everything stored about families.
type Export struct {
	Parents  []Parent  `json:"parents"`
	Children []Child   `json:"children"`
	Sessions []Session `json:"sessions"`
}

// Export returns the current profiles and sessions.
func (h *Household) Export() Export {
	return Export{
		Parents:  nonNil(h.Parents.List()),
		Children: nonNil(h.Children.List()),
		Sessions: nonNil(h.Sessions.List()),
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
