package sheet

import "errors"

var (
	// ErrMissingPriceColumn means a row lacks the requested price table.
	// The column set is uniform across rows by construction, so hitting
	// this points at a hand-edited data file; it aborts the generation
	// instead of silently pricing the row at zero.
	ErrMissingPriceColumn = errors.New("price table missing on row")

	// ErrDocumentGeneration wraps a renderer backend failure. No partial
	// output is ever returned alongside it.
	ErrDocumentGeneration = errors.New("document generation failed")
)
