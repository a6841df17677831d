// Package labels persists per-image label codes to a flat CSV file and
// defines the label sets a deployment can choose from.
package labels

import "fmt"

// DefaultCode is the code recorded for an image nobody has labeled yet.
const DefaultCode = "0"

// Label pairs a stored code with its human-readable name.
type Label struct {
	Code string
	Name string
}

// Set is the ordered label enumeration in force for a deployment. Code "0"
// is always the default (Live); the rest varies by variant.
type Set struct {
	Name   string
	Labels []Label
}

// Extended is the six-value label set.
var Extended = Set{
	Name: "extended",
	Labels: []Label{
		{Code: "0", Name: "Live"},
		{Code: "1", Name: "Fake"},
		{Code: "2", Name: "Soft"},
		{Code: "3", Name: "Hard"},
		{Code: "4", Name: "Uncertain"},
		{Code: "5", Name: "Other"},
	},
}

// Reduced is the four-value label set.
var Reduced = Set{
	Name: "reduced",
	Labels: []Label{
		{Code: "0", Name: "Live"},
		{Code: "1", Name: "Fake"},
		{Code: "2", Name: "Uncertain"},
		{Code: "3", Name: "Other"},
	},
}

// SetByName looks up a built-in label set.
func SetByName(name string) (Set, error) {
	switch name {
	case Extended.Name:
		return Extended, nil
	case Reduced.Name:
		return Reduced, nil
	default:
		return Set{}, fmt.Errorf("unknown label set %q", name)
	}
}

// Contains reports whether code belongs to the set.
func (s Set) Contains(code string) bool {
	for _, l := range s.Labels {
		if l.Code == code {
			return true
		}
	}
	return false
}

// NameFor returns the name for a code, or the code itself when unknown, so
// labels from a different deployment variant still render.
func (s Set) NameFor(code string) string {
	for _, l := range s.Labels {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}

// CodeFor returns the code for a label name, or "" when unknown.
func (s Set) CodeFor(name string) string {
	for _, l := range s.Labels {
		if l.Name == name {
			return l.Code
		}
	}
	return ""
}

// Names returns the label names in order.
func (s Set) Names() []string {
	names := make([]string, len(s.Labels))
	for i, l := range s.Labels {
		names[i] = l.Name
	}
	return names
}
