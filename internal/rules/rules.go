package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pennywise-dev/pennywise/internal/model"
)

// Rule maps a description pattern to a Label.
type Rule struct {
	Pattern string      `yaml:"pattern"`
	Label   model.Label `yaml:"label"`
}

// Group is a named topical collection of rules. Declaration order is priority order.
type Group struct {
	Name  string `yaml:"name"`
	Rules []Rule `yaml:"rules"`
}

// PatternError reports a rule that cannot be compiled.
type PatternError struct {
	Group   string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("group %s: pattern %q: %v", e.Group, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

var (
	errEmptyPattern = errors.New("empty pattern")
	errEmptyLabel   = errors.New("empty label")
)

// Match describes the rule that labelled a description.
type Match struct {
	Group   string
	Pattern string
	Label   model.Label
}

// Duplicate records a pattern declared more than once. The rule keeps the
// priority position of its first declaration and the label of its last.
type Duplicate struct {
	Pattern    string
	FirstGroup string
	LastGroup  string
	Replaced   model.Label
	Label      model.Label
}

type entry struct {
	Match
	re *regexp.Regexp
}

// Table is a compiled, priority-ordered rule table. It is never mutated
// after Compile returns.
type Table struct {
	entries    []entry
	duplicates []Duplicate
}

// Compile flattens groups into one table. Groups are tried in the order given
// and rules in declaration order within a group. Patterns are matched case
// insensitively anywhere in the description.
func Compile(groups []Group) (*Table, error) {
	t := &Table{}
	index := make(map[string]int)

	for _, g := range groups {
		for _, r := range g.Rules {
			if strings.TrimSpace(r.Pattern) == "" {
				return nil, &PatternError{Group: g.Name, Pattern: r.Pattern, Err: errEmptyPattern}
			}
			if strings.TrimSpace(string(r.Label)) == "" {
				return nil, &PatternError{Group: g.Name, Pattern: r.Pattern, Err: errEmptyLabel}
			}

			if i, ok := index[r.Pattern]; ok {
				prev := t.entries[i]
				t.duplicates = append(t.duplicates, Duplicate{
					Pattern:    r.Pattern,
					FirstGroup: prev.Group,
					LastGroup:  g.Name,
					Replaced:   prev.Label,
					Label:      r.Label,
				})
				t.entries[i].Label = r.Label
				continue
			}

			re, err := regexp.Compile(caseInsensitive(r.Pattern))
			if err != nil {
				return nil, &PatternError{Group: g.Name, Pattern: r.Pattern, Err: err}
			}
			index[r.Pattern] = len(t.entries)
			t.entries = append(t.entries, entry{
				Match: Match{Group: g.Name, Pattern: r.Pattern, Label: r.Label},
				re:    re,
			})
		}
	}
	return t, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(groups []Group) *Table {
	t, err := Compile(groups)
	if err != nil {
		panic(err)
	}
	return t
}

func caseInsensitive(pattern string) string {
	return "(?i)" + strings.TrimPrefix(pattern, "(?i)")
}

// Classify returns the label of the first rule matching description, or ""
// when no rule matches.
func (t *Table) Classify(description string) model.Label {
	m, ok := t.Match(description)
	if !ok {
		return ""
	}
	return m.Label
}

// Match returns the first rule matching description.
func (t *Table) Match(description string) (Match, bool) {
	if description == "" {
		return Match{}, false
	}
	for _, e := range t.entries {
		if e.re.MatchString(description) {
			return e.Match, true
		}
	}
	return Match{}, false
}

// Len returns the number of distinct patterns.
func (t *Table) Len() int { return len(t.entries) }

// Duplicates returns patterns that were declared more than once.
func (t *Table) Duplicates() []Duplicate { return t.duplicates }

// Labels returns every distinct label in priority order.
func (t *Table) Labels() []model.Label {
	seen := make(map[model.Label]bool, len(t.entries))
	var labels []model.Label
	for _, e := range t.entries {
		if !seen[e.Label] {
			seen[e.Label] = true
			labels = append(labels, e.Label)
		}
	}
	return labels
}
