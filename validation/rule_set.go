package validation

import (
	"sync"

	"github.com/graph-gophers/graphql-guard/ast"
	"github.com/graph-gophers/graphql-guard/errors"
)

// RuleSet is the validator configuration handed to the request pipeline. Rules are keyed
// by name: adding a rule whose name is already present replaces it in place, so repeated
// registration never duplicates a rule. A RuleSet is safe for concurrent use.
type RuleSet struct {
	mu    sync.RWMutex
	rules []Rule
}

func NewRuleSet(rules ...Rule) *RuleSet {
	s := &RuleSet{}
	for _, r := range rules {
		s.Add(r)
	}
	return s
}

// Add registers rule, replacing a rule with the same name.
func (s *RuleSet) Add(rule Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.rules {
		if r.Name() == rule.Name() {
			s.rules[i] = rule
			return
		}
	}
	s.rules = append(s.rules, rule)
}

// Remove unregisters the named rule and reports whether it was present.
func (s *RuleSet) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.rules {
		if r.Name() == name {
			s.rules = append(s.rules[:i:i], s.rules[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the named rule, nil if it is not registered.
func (s *RuleSet) Get(name string) Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.rules {
		if r.Name() == name {
			return r
		}
	}
	return nil
}

// Rules returns the registered rules in registration order.
func (s *RuleSet) Rules() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Rule(nil), s.rules...)
}

func (s *RuleSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rules)
}

// Validate runs every registered rule against doc and returns all reported errors.
func (s *RuleSet) Validate(doc *ast.ExecutableDefinition, variables map[string]interface{}) []*errors.QueryError {
	c := newContext(doc, variables)
	for _, r := range s.Rules() {
		r.Validate(c)
	}
	return c.Errors()
}
