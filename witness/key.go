package witness

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/netrixframework/cexsimplify/util"
)

// Key is the decoded form of a time-indexed variable name. Names follow the
// convention "family_step" for aggregates and "family_entity,step" for per
// entity quantities, e.g. "tot_inp_3" or "cwnd_0,3".
type Key struct {
	Family string
	// Entity is -1 for aggregates
	Entity int
	Step   int
}

var keyPattern = regexp.MustCompile(`^(.+)_(\d+)(?:,(\d+))?$`)

// ParseKey decodes name. ok is false when name carries no time index.
func ParseKey(name string) (Key, bool) {
	m := keyPattern.FindStringSubmatch(name)
	if m == nil {
		return Key{}, false
	}
	first, err := strconv.Atoi(m[2])
	if err != nil {
		return Key{}, false
	}
	if m[3] == "" {
		return Key{Family: m[1], Entity: -1, Step: first}, true
	}
	step, err := strconv.Atoi(m[3])
	if err != nil {
		return Key{}, false
	}
	return Key{Family: m[1], Entity: first, Step: step}, true
}

func (k Key) String() string {
	if k.Entity < 0 {
		return fmt.Sprintf("%s_%d", k.Family, k.Step)
	}
	return fmt.Sprintf("%s_%d,%d", k.Family, k.Entity, k.Step)
}

// Series is the ordered list of names holding one quantity across steps
type Series struct {
	Family string
	Entity int
	Names  []string
}

// Label names the series as a report column, e.g. "cwnd_0"
func (s Series) Label() string {
	if s.Entity < 0 {
		return s.Family
	}
	return fmt.Sprintf("%s_%d", s.Family, s.Entity)
}

// FindSeries returns the numeric series of family found in m, one per
// entity, ordered by entity and then by step.
func FindSeries(m *Model, family string) []Series {
	type entry struct {
		step int
		name string
	}
	byEntity := make(map[int][]entry)
	for name, v := range m.values {
		if !v.IsNumeric() {
			continue
		}
		k, ok := ParseKey(name)
		if !ok || k.Family != family {
			continue
		}
		byEntity[k.Entity] = append(byEntity[k.Entity], entry{step: k.Step, name: name})
	}
	entities := make([]int, 0, len(byEntity))
	for e := range byEntity {
		entities = append(entities, e)
	}
	sort.Ints(entities)

	res := make([]Series, 0, len(entities))
	for _, e := range entities {
		entries := byEntity[e]
		sort.Slice(entries, func(i, j int) bool { return entries[i].step < entries[j].step })
		names := make([]string, len(entries))
		for i, en := range entries {
			names[i] = en.name
		}
		res = append(res, Series{Family: family, Entity: e, Names: names})
	}
	return res
}

// Families returns the sorted set of families of the time-indexed names in m
func Families(m *Model) []string {
	seen := make(map[string]struct{})
	for name := range m.values {
		if k, ok := ParseKey(name); ok {
			seen[k.Family] = struct{}{}
		}
	}
	return util.SortedKeys(seen)
}
