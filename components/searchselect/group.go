package searchselect

import "sync"

// Group keeps at most one member select open. Opening a member closes the
// others, the way a pointer press outside a dropdown dismisses it.
type Group struct {
	mu      sync.Mutex
	members []*Select
}

// NewGroup returns an empty group.
func NewGroup() *Group {
	return &Group{}
}

// Add enrols selects in the group, removing them from any previous one.
func (g *Group) Add(selects ...*Select) {
	for _, s := range selects {
		if s == nil {
			continue
		}
		s.mu.Lock()
		prev := s.group
		s.group = g
		s.mu.Unlock()
		if prev != nil && prev != g {
			prev.remove(s)
		}

		g.mu.Lock()
		if !g.contains(s) {
			g.members = append(g.members, s)
		}
		g.mu.Unlock()
	}
}

// Remove takes s out of the group.
func (g *Group) Remove(s *Select) {
	s.mu.Lock()
	if s.group == g {
		s.group = nil
	}
	s.mu.Unlock()
	g.remove(s)
}

// Open returns the open member, if any.
func (g *Group) Open() *Select {
	for _, s := range g.snapshot() {
		if s.IsOpen() {
			return s
		}
	}
	return nil
}

// ClickOutside closes every member except target. A nil target closes all.
func (g *Group) ClickOutside(target *Select) {
	for _, s := range g.snapshot() {
		if s != target {
			s.ClickOutside()
		}
	}
}

func (g *Group) opened(s *Select) {
	g.ClickOutside(s)
}

func (g *Group) snapshot() []*Select {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Select, len(g.members))
	copy(out, g.members)
	return out
}

func (g *Group) contains(s *Select) bool {
	for _, m := range g.members {
		if m == s {
			return true
		}
	}
	return false
}

func (g *Group) remove(s *Select) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, m := range g.members {
		if m == s {
			g.members = append(g.members[:i], g.members[i+1:]...)
			return
		}
	}
}
