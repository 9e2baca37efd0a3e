package rules

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"binscope/internal/analysis"
)

var (
	registry = make(map[string]analysis.Rule)
	mu       sync.RWMutex
)

// Register adds a rule to the compiled-in registry. Checks register
// themselves from init() and are pulled in by a blank import in cmd.
func Register(r analysis.Rule) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[r.ID()]; exists {
		panic(fmt.Sprintf("rule %s already registered", r.ID()))
	}
	registry[r.ID()] = r
}

func List() []analysis.Rule {
	mu.RLock()
	defer mu.RUnlock()
	var rs []analysis.Rule
	for _, r := range registry {
		rs = append(rs, r)
	}
	sort.Slice(rs, func(i, j int) bool {
		return rs[i].ID() < rs[j].ID()
	})
	return rs
}

// Resolve returns the rules selected by a comma-separated id list. An empty
// selector selects every registered rule.
func Resolve(selector string) ([]analysis.Rule, error) {
	mu.RLock()
	defer mu.RUnlock()

	if selector == "" {
		return List(), nil
	}

	ids := strings.Split(selector, ",")
	var selected []analysis.Rule
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if r, ok := registry[id]; ok {
			selected = append(selected, r)
		} else {
			return nil, fmt.Errorf("rule not found: %s", id)
		}
	}
	return selected, nil
}
