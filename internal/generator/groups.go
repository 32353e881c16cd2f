package generator

import (
	"git.home.luguber.info/inful/sitegen/internal/discovery"
	"git.home.luguber.info/inful/sitegen/internal/router"
)

// DefaultGroup is the key of the group holding files no pattern matched.
const DefaultGroup = router.DefaultKey

// Group is the set of files routed to one key.
type Group struct {
	Key   string
	Files []discovery.SourceFile
}

// GroupSet keeps groups in order of first creation. The default group is
// always present and always first.
type GroupSet struct {
	groups []*Group
	index  map[string]*Group
}

func newGroupSet() *GroupSet {
	def := &Group{Key: DefaultGroup}
	return &GroupSet{
		groups: []*Group{def},
		index:  map[string]*Group{DefaultGroup: def},
	}
}

func (s *GroupSet) add(key string, f discovery.SourceFile) {
	g, ok := s.index[key]
	if !ok {
		g = &Group{Key: key}
		s.index[key] = g
		s.groups = append(s.groups, g)
	}
	g.Files = append(g.Files, f)
}

// Groups returns the groups in iteration order.
func (s *GroupSet) Groups() []Group {
	out := make([]Group, len(s.groups))
	for i, g := range s.groups {
		out[i] = *g
	}
	return out
}

// Get returns the group stored under key.
func (s *GroupSet) Get(key string) (Group, bool) {
	g, ok := s.index[key]
	if !ok {
		return Group{}, false
	}
	return *g, true
}

// Keys returns the group keys in iteration order.
func (s *GroupSet) Keys() []string {
	out := make([]string, len(s.groups))
	for i, g := range s.groups {
		out[i] = g.Key
	}
	return out
}

// Len returns the number of groups, the default group included.
func (s *GroupSet) Len() int { return len(s.groups) }

// TotalFiles counts files across all groups.
func (s *GroupSet) TotalFiles() int {
	n := 0
	for _, g := range s.groups {
		n += len(g.Files)
	}
	return n
}

// Resolver maps a relative path onto a routing key.
type Resolver interface {
	Resolve(relPath string) (string, bool)
}

// Assemble partitions files by their first matching pattern. Unmatched
// files go to the default group. Each file lands in exactly one group.
func Assemble(files []discovery.SourceFile, r Resolver) *GroupSet {
	set := newGroupSet()
	for _, f := range files {
		key, ok := r.Resolve(f.RelativePath)
		if !ok {
			key = DefaultGroup
		}
		set.add(key, f)
	}
	return set
}
