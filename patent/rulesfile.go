package patent

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// rulesFile is the YAML shape of a rule override file:
//
//	categories:
//	  - category: D0
//	    description: design patent
//	    rules:
//	      - field: Title
//	        group: 1
//	        patterns:
//	          - 'UNITED STATES PATENT OFFICE (?:Des\. )?[\d,]+ ([A-Z ,.\-]+?) (?:Filed|Application)'
type rulesFile struct {
	Categories []struct {
		Category    string `yaml:"category"`
		Description string `yaml:"description"`
		Rules       []struct {
			Field    string   `yaml:"field"`
			Group    *int     `yaml:"group"`
			Patterns []string `yaml:"patterns"`
		} `yaml:"rules"`
	} `yaml:"categories"`
}

// ParseRules decodes a YAML rule file into rule sets.
func ParseRules(data []byte) ([]RuleSet, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	sets := make([]RuleSet, 0, len(f.Categories))
	for _, c := range f.Categories {
		if c.Category == "" {
			return nil, fmt.Errorf("rule set without category")
		}
		set := RuleSet{Category: c.Category, Description: c.Description}
		for _, r := range c.Rules {
			if !IsKnownField(r.Field) {
				return nil, fmt.Errorf("category %s: unknown field %q", c.Category, r.Field)
			}
			if len(r.Patterns) == 0 {
				return nil, fmt.Errorf("category %s field %s: no patterns", c.Category, r.Field)
			}
			group := 1
			if r.Group != nil {
				group = *r.Group
			}
			if group < 0 {
				return nil, fmt.Errorf("category %s field %s: negative group %d", c.Category, r.Field, group)
			}
			ru := Rule{Field: r.Field, Group: group}
			for _, p := range r.Patterns {
				re, err := regexp.Compile(p)
				if err != nil {
					return nil, fmt.Errorf("category %s field %s: %w", c.Category, r.Field, err)
				}
				if group > re.NumSubexp() {
					return nil, fmt.Errorf("category %s field %s: pattern %q has no group %d", c.Category, r.Field, p, group)
				}
				ru.Patterns = append(ru.Patterns, re)
			}
			set.Rules = append(set.Rules, ru)
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// LoadRules reads a YAML rule file and returns base extended with its rule
// sets. A category in the file replaces the base set wholesale.
func LoadRules(base *Registry, path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	sets, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	out := base.Clone()
	for _, s := range sets {
		out.Register(s)
	}
	return out, nil
}
