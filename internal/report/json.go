package report

import (
	"encoding/json"
	"io"
)

// Document is the top-level JSON object written by WriteJSON.
type Document struct {
	Files  []*File     `json:"files"`
	Errors []FileError `json:"errors,omitempty"`
}

// FileError records an input that produced no report.
type FileError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// NewDocument splits results into reports and errors, keeping input order
// within each.
func NewDocument(results []Result) Document {
	doc := Document{Files: []*File{}}
	for _, r := range results {
		if r.Err != nil {
			doc.Errors = append(doc.Errors, FileError{Path: r.Path, Error: r.Err.Error()})
			continue
		}
		doc.Files = append(doc.Files, r.File)
	}
	return doc
}

// WriteJSON writes the results as one indented JSON document.
func WriteJSON(w io.Writer, results []Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(results))
}
