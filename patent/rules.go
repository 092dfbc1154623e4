package patent

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Category tags, taken from the first two characters of a file name.
const (
	CategoryUtility = "02"
	CategoryDesign  = "D0"
	CategoryPlant   = "PP"
	CategoryReissue = "RE"
	// CategoryGeneric is never matched by prefix; it is selected explicitly.
	CategoryGeneric = "generic"
)

// PrefixLen is the number of leading file-name characters that encode the
// category.
const PrefixLen = 2

// Rule extracts one field. Patterns are tried in order and the first match
// wins; Group selects the capture group (0 is the whole match).
type Rule struct {
	Field    string
	Patterns []*regexp.Regexp
	Group    int
}

// Apply returns the trimmed captured value and true, or NotFound and false.
func (r Rule) Apply(text string) (string, bool) {
	for _, re := range r.Patterns {
		m := re.FindStringSubmatch(text)
		if m == nil || r.Group < 0 || r.Group >= len(m) {
			continue
		}
		if v := strings.TrimSpace(m[r.Group]); v != "" {
			return v, true
		}
	}
	return NotFound, false
}

// RuleSet is the ordered extraction table for one category.
type RuleSet struct {
	Category    string
	Description string
	Rules       []Rule
}

// Registry maps category tags to rule sets.
type Registry struct {
	sets map[string]RuleSet
}

// NewRegistry builds a registry from sets. Later sets replace earlier ones
// with the same category.
func NewRegistry(sets ...RuleSet) *Registry {
	r := &Registry{sets: make(map[string]RuleSet, len(sets))}
	for _, s := range sets {
		r.Register(s)
	}
	return r
}

// Register adds or replaces the rule set for s.Category.
func (r *Registry) Register(s RuleSet) {
	r.sets[s.Category] = s
}

// Lookup returns the rule set for category.
func (r *Registry) Lookup(category string) (RuleSet, bool) {
	s, ok := r.sets[category]
	return s, ok
}

// Categories returns every registered category, sorted.
func (r *Registry) Categories() []string {
	out := make([]string, 0, len(r.sets))
	for c := range r.sets {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Prefixes returns the categories that can be selected by file-name prefix.
func (r *Registry) Prefixes() []string {
	var out []string
	for _, c := range r.Categories() {
		if len(c) == PrefixLen {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns an independent copy that can be extended without touching r.
func (r *Registry) Clone() *Registry {
	c := &Registry{sets: make(map[string]RuleSet, len(r.sets))}
	for k, v := range r.sets {
		c.sets[k] = v
	}
	return c
}

// CategoryOf returns the category tag encoded in path's base name, or "" if
// the name is shorter than PrefixLen.
func CategoryOf(path string) string {
	base := filepath.Base(path)
	if len(base) < PrefixLen {
		return ""
	}
	return base[:PrefixLen]
}

// Shared patterns. Dates are OCR'd as "Jan. 5, 1912" on grant lines and
// "January 5, 1911" on application lines.
const (
	officeHeaderTitle = `UNITED STATES PATENT OFFICE\s*\n+\s*\d+[,\d]*\s*\n+\s*([A-Z0-9 ,.\-]+)`
	patentedDate      = `Patented\s([A-Z][a-z]+\.\s\d{1,2},\s\d{4})`
	applicationDate   = `Application\s+([A-Za-z]+\s+\d{1,2},\s+\d{4})`
)

func rule(field string, group int, patterns ...string) Rule {
	r := Rule{Field: field, Group: group}
	for _, p := range patterns {
		r.Patterns = append(r.Patterns, regexp.MustCompile(p))
	}
	return r
}

// Builtin returns the default rule table.
func Builtin() *Registry {
	return NewRegistry(
		RuleSet{
			Category:    CategoryUtility,
			Description: "utility patent",
			Rules: []Rule{
				rule(FieldPatentNumber, 1, `UNITED\sSTATES\sPATENT\sOFFICE\s+(\d{1,3}(?:,\d{3})*)`),
				rule(FieldTitle, 1, officeHeaderTitle),
				rule(FieldPatentDate, 1, patentedDate),
				rule(FieldApplicationDate, 1, applicationDate),
			},
		},
		RuleSet{
			Category:    CategoryDesign,
			Description: "design patent",
			Rules: []Rule{
				rule(FieldPatentNumber, 1, `(Des\.?\s?\d{1,3}(?:,\d{3})*)`),
				rule(FieldTitle, 1, officeHeaderTitle),
				rule(FieldPatentDate, 1, patentedDate),
				rule(FieldApplicant, 1, `(\b[A-Z][A-Z. ]+)`),
				rule(FieldApplicationDate, 1, applicationDate),
			},
		},
		RuleSet{
			Category:    CategoryPlant,
			Description: "plant patent",
			Rules: []Rule{
				rule(FieldPatentNumber, 1, `(Plant Pat\.\s\d+)`),
				rule(FieldPatentDate, 1, patentedDate),
				rule(FieldTitle, 1, `UNITED STATES PATENT OFFICE\s*\n\s*\d+[,\d]*\s*\n\s*([A-Z0-9 ,.\-]+)`),
				rule(FieldApplicationDate, 1, applicationDate),
			},
		},
		RuleSet{
			Category:    CategoryReissue,
			Description: "reissued patent",
			Rules: []Rule{
				rule(FieldPatentNumber, 1, `(Re\.?\s?\d{1,3}(?:,\d{3})*)`),
				rule(FieldTitle, 1, officeHeaderTitle),
				rule(FieldPatentDate, 1, `Reissued\s([A-Z][a-z]+[.,]\s\d{1,2},\s\d{4})`),
				rule(FieldApplicationDate, 1, `(?i)Application for re[-\s]?issue\s+([A-Za-z]+\s+\d{1,2},\s+\d{4})`),
			},
		},
		RuleSet{
			Category:    CategoryGeneric,
			Description: "any category; loose patterns for single-file inspection",
			Rules: []Rule{
				rule(FieldPatentNumber, 1, `(?:Plant Pat\.|Des\.|Patent(?:ed)?|Patent Number)\s*(\d{1,3}[,.]?\d{3})`),
				rule(FieldTitle, 2,
					`(?i)(\d{1,6}\s)([A-Z][A-Z0-9 ,.\-]+)\s(?:Filed|Patented|Application)`,
					`(?i)(COMBINATION\s)(.*?)\sFiled`,
				),
				rule(FieldApplicant, 1, `(?i)Be it known that I, (.*?)(?:, a citizen| of the)`),
				rule(FieldApplicationDate, 1, `(?i)Filed (.*?),`),
				rule(FieldPatentDate, 1, `(?i)Patented (.*?)(?:\sUNITED|\sDes|\n)`),
			},
		},
	)
}

// Describe renders the rule table as rows of category, field, pattern.
func (r *Registry) Describe() [][]string {
	rows := [][]string{{"Category", "Field", "Pattern"}}
	for _, c := range r.Categories() {
		s := r.sets[c]
		for _, ru := range s.Rules {
			for _, p := range ru.Patterns {
				rows = append(rows, []string{c, ru.Field, fmt.Sprintf("%s (group %d)", p.String(), ru.Group)})
			}
		}
	}
	return rows
}
