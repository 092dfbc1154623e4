// Package patent turns normalized OCR text from a scanned patent into a
// fixed-shape bibliographic record.
package patent

// Sentinel field values.
const (
	NotFound = "Not Found"
	Error    = "Error"
)

// Field names, in CSV column order after File Path.
const (
	FieldPatentNumber    = "Patent Number"
	FieldTitle           = "Title"
	FieldApplicant       = "Applicant"
	FieldApplicationDate = "Application Date"
	FieldPatentDate      = "Patent Date"
)

// FieldFilePath is the leading CSV column.
const FieldFilePath = "File Path"

// Fields lists the extracted fields in output order.
var Fields = []string{
	FieldPatentNumber,
	FieldTitle,
	FieldApplicant,
	FieldApplicationDate,
	FieldPatentDate,
}

// Header is the fixed CSV header.
var Header = append([]string{FieldFilePath}, Fields...)

// Record is the structured result for one document. Every field always holds
// either an extracted value or a sentinel.
type Record struct {
	FilePath        string `json:"file_path" yaml:"file_path"`
	PatentNumber    string `json:"patent_number" yaml:"patent_number"`
	Title           string `json:"title" yaml:"title"`
	Applicant       string `json:"applicant" yaml:"applicant"`
	ApplicationDate string `json:"application_date" yaml:"application_date"`
	PatentDate      string `json:"patent_date" yaml:"patent_date"`
}

// NewRecord returns a record for path with every field set to NotFound.
func NewRecord(path string) Record {
	return filled(path, NotFound)
}

// ErrorRecord returns a record for path with every field set to Error.
func ErrorRecord(path string) Record {
	return filled(path, Error)
}

func filled(path, v string) Record {
	return Record{
		FilePath:        path,
		PatentNumber:    v,
		Title:           v,
		Applicant:       v,
		ApplicationDate: v,
		PatentDate:      v,
	}
}

// Get returns the value of the named field, or "" for an unknown name.
func (r Record) Get(field string) string {
	if p := r.ptr(field); p != nil {
		return *p
	}
	if field == FieldFilePath {
		return r.FilePath
	}
	return ""
}

// Set assigns the named field. It reports false for unknown names.
func (r *Record) Set(field, value string) bool {
	p := r.ptr(field)
	if p == nil {
		return false
	}
	*p = value
	return true
}

func (r *Record) ptr(field string) *string {
	switch field {
	case FieldPatentNumber:
		return &r.PatentNumber
	case FieldTitle:
		return &r.Title
	case FieldApplicant:
		return &r.Applicant
	case FieldApplicationDate:
		return &r.ApplicationDate
	case FieldPatentDate:
		return &r.PatentDate
	}
	return nil
}

// Row returns the record as a CSV row matching Header.
func (r Record) Row() []string {
	return []string{
		r.FilePath,
		r.PatentNumber,
		r.Title,
		r.Applicant,
		r.ApplicationDate,
		r.PatentDate,
	}
}

// IsKnownField reports whether name is one of Fields.
func IsKnownField(name string) bool {
	var r Record
	return r.ptr(name) != nil
}
