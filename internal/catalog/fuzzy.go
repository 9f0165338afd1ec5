package catalog

import "strings"

// FuzzyMatch returns true if query fuzzy-matches target.
// Matching is case-insensitive and succeeds on substring match or if
// the query characters appear as a subsequence in the target.
func FuzzyMatch(target, query string) bool {
	if query == "" {
		return true
	}
	t := strings.ToLower(target)
	q := strings.ToLower(query)
	if strings.Contains(t, q) {
		return true
	}
	// subsequence match (rune-aware)
	qr := []rune(q)
	i := 0
	for _, ch := range t {
		if i < len(qr) && qr[i] == ch {
			i++
			if i >= len(qr) {
				return true
			}
		}
	}
	return false
}

// matchesTemplate checks name and description first, then the command text.
func matchesTemplate(a *ActionTemplate, query string) bool {
	if FuzzyMatch(a.Name, query) || FuzzyMatch(a.Description, query) {
		return true
	}
	return strings.Contains(strings.ToLower(a.Command), strings.ToLower(query))
}

// Search filters templates by a fuzzy query over name and description and
// a substring query over the command.
func Search(actions []ActionTemplate, query string) []ActionTemplate {
	query = strings.TrimSpace(query)
	if query == "" {
		return actions
	}
	out := []ActionTemplate{}
	for i := range actions {
		if matchesTemplate(&actions[i], query) {
			out = append(out, actions[i])
		}
	}
	return out
}

// Search runs the fuzzy query over the whole catalog.
func (c *Catalog) Search(query string) []ActionTemplate {
	return Search(c.All(), query)
}
