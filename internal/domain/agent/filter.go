package agent

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FilterState is the user's current catalog selection.
type FilterState struct {
	Query    string
	Category *string
	Tags     []string
}

// Matches reports whether a passes every active criterion.
func (f FilterState) Matches(a *Agent) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(a.Name), q) &&
			!strings.Contains(strings.ToLower(a.Description), q) {
			return false
		}
	}
	if f.Category != nil && a.Category != *f.Category {
		return false
	}
	if len(f.Tags) > 0 && !a.HasAllTags(f.Tags) {
		return false
	}
	return true
}

// Active reports whether any criterion is set.
func (f FilterState) Active() bool {
	return f.Query != "" || f.Category != nil || len(f.Tags) > 0
}

func (f FilterState) HasTag(tag string) bool {
	return slices.Contains(f.Tags, tag)
}

// ToggleTag returns a copy of f with tag removed if selected, appended otherwise.
func (f FilterState) ToggleTag(tag string) FilterState {
	out := f
	if f.HasTag(tag) {
		out.Tags = slices.DeleteFunc(slices.Clone(f.Tags), func(t string) bool { return t == tag })
	} else {
		out.Tags = append(slices.Clone(f.Tags), tag)
	}
	return out
}

// ToggleCategory selects category, or clears it when it is already selected.
func (f FilterState) ToggleCategory(category string) FilterState {
	out := f
	if f.Category != nil && *f.Category == category {
		out.Category = nil
	} else {
		out.Category = &category
	}
	return out
}

func (f FilterState) WithoutCategory() FilterState {
	f.Category = nil
	return f
}

func (f FilterState) WithoutQuery() FilterState {
	f.Query = ""
	return f
}

// Clear returns the empty filter state.
func (f FilterState) Clear() FilterState {
	return FilterState{}
}

// Filter returns the agents matching f in their original order. The input
// slice is never modified.
func Filter(agents []Agent, f FilterState) []Agent {
	out := make([]Agent, 0, len(agents))
	for i := range agents {
		if f.Matches(&agents[i]) {
			out = append(out, agents[i])
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func Categories(agents []Agent) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range agents {
		if !seen[a.Category] {
			seen[a.Category] = true
			out = append(out, a.Category)
		}
	}
	return out
}

// Tags returns the distinct tags across all agents in first-seen order.
func Tags(agents []Agent) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range agents {
		for _, t := range a.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

// Featured returns the n most popular agents. Ties keep catalog order.
func Featured(agents []Agent, n int) []Agent {
	sorted := slices.Clone(agents)
	slices.SortStableFunc(sorted, func(a, b Agent) int {
		return cmp.Compare(b.PopularityScore, a.PopularityScore)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// NormalizeCategoryParam upper-cases the first letter of a category taken from
// a URL, so ?category=writing selects "Writing". Empty input means unset.
func NormalizeCategoryParam(s string) *string {
	if s == "" {
		return nil
	}
	r, size := utf8.DecodeRuneInString(s)
	out := string(unicode.ToUpper(r)) + s[size:]
	return &out
}
