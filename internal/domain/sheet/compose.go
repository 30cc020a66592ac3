package sheet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column ratios of the printable width, in table order. Description is
// the dominant column; price is rendered right-aligned.
const (
	ColImage = 0.12
	ColCode  = 0.18
	ColName  = 0.50
	ColPrice = 0.20
)

// Header carries the document metadata shown above the table and the
// note below it. Client and Note are free text taken verbatim; escaping
// is the markup renderer's concern.
type Header struct {
	Logo     *Thumb
	OrgName  string
	Table    string
	Date     time.Time
	Client   string
	Note     string
	Currency string
}

// Line is one product as it appears on the sheet. Code and Barcode are
// already display values: generated codes and missing barcodes arrive
// here as empty strings.
type Line struct {
	Code    string
	Name    string
	Barcode string
	Thumb   *Thumb
	Price   decimal.Decimal
}

// PriceText is the fixed two-decimal price cell text, without currency.
func (l Line) PriceText() string {
	return l.Price.StringFixed(2)
}

// Document is the abstract price sheet both renderers consume.
type Document struct {
	Header Header
	Lines  []Line
}

// Compose assembles the document. Line order is kept exactly as given;
// an empty selection yields a valid document with an empty body.
func Compose(lines []Line, h Header) Document {
	if h.Date.IsZero() {
		h.Date = time.Now()
	}
	return Document{Header: h, Lines: lines}
}
