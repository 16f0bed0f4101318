package report

import (
	"errors"

	"github.com/samcharles93/ecoff/pkg/ecoff"
)

// ErrorDoc is the machine-readable form of a failed decode.
type ErrorDoc struct {
	Type      string `json:"type"`
	Stage     string `json:"stage,omitempty"`
	Message   string `json:"message"`
	Requested int64  `json:"requested,omitempty"`
	Available int64  `json:"available,omitempty"`
}

// DescribeError classifies err by kind and the stage it happened at.
func DescribeError(err error) ErrorDoc {
	doc := ErrorDoc{Type: ecoff.Kind(err), Message: err.Error()}
	if doc.Type == "" {
		doc.Type = "error"
	}
	var de *ecoff.DecodeError
	if errors.As(err, &de) {
		doc.Stage = de.Where()
		doc.Message = de.Err.Error()
	}
	var te *ecoff.TruncatedError
	if errors.As(err, &te) {
		doc.Requested = te.Requested
		doc.Available = te.Available
	}
	return doc
}

// Describe renders err for a terminal, e.g.
// "truncated_input while decoding section header 3 of 7: truncated input: need 4 bytes, have 2".
func Describe(err error) string {
	d := DescribeError(err)
	if d.Stage == "" {
		return d.Type + ": " + d.Message
	}
	return d.Type + " while decoding " + d.Stage + ": " + d.Message
}
