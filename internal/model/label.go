package model

import "strings"

// LabelSeparator separates the levels of a Label.
const LabelSeparator = ":"

// Label is a hierarchical category "Primary[: Secondary[: Tertiary]]".
// The empty Label means no rule matched.
type Label string

// LabelParts holds the components of a Label. Missing components are "".
type LabelParts struct {
	Primary   string
	Secondary string
	Tertiary  string
}

// Split breaks the label into at most three components. Anything past the
// second separator stays in Tertiary. Components are not trimmed.
func (l Label) Split() LabelParts {
	var p LabelParts
	if l == "" {
		return p
	}
	parts := strings.SplitN(string(l), LabelSeparator, 3)
	p.Primary = parts[0]
	if len(parts) > 1 {
		p.Secondary = parts[1]
	}
	if len(parts) > 2 {
		p.Tertiary = parts[2]
	}
	return p
}

// Trim returns a copy with surrounding whitespace removed from each component.
func (p LabelParts) Trim() LabelParts {
	return LabelParts{
		Primary:   strings.TrimSpace(p.Primary),
		Secondary: strings.TrimSpace(p.Secondary),
		Tertiary:  strings.TrimSpace(p.Tertiary),
	}
}

// Join reassembles the components, dropping trailing empty levels.
func (p LabelParts) Join() Label {
	parts := []string{p.Primary, p.Secondary, p.Tertiary}
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return Label(strings.Join(parts, LabelSeparator))
}
