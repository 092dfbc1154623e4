package patent

// Extractor applies a Registry to normalized text.
type Extractor struct {
	rules *Registry
}

// NewExtractor returns an Extractor over rules; nil means Builtin().
func NewExtractor(rules *Registry) *Extractor {
	if rules == nil {
		rules = Builtin()
	}
	return &Extractor{rules: rules}
}

// Rules returns the registry in use.
func (e *Extractor) Rules() *Registry {
	return e.rules
}

// Extract fills a record for path from text using the rule set registered for
// category. An unknown category yields an all-NotFound record. Fields are
// extracted independently; a field without a rule stays NotFound.
func (e *Extractor) Extract(path, text, category string) Record {
	rec := NewRecord(path)
	set, ok := e.rules.Lookup(category)
	if !ok {
		return rec
	}
	for _, r := range set.Rules {
		if v, ok := r.Apply(text); ok {
			rec.Set(r.Field, v)
		}
	}
	return rec
}

// ExtractByPrefix is Extract with the category taken from path's file name.
func (e *Extractor) ExtractByPrefix(path, text string) Record {
	return e.Extract(path, text, CategoryOf(path))
}
