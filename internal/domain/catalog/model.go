package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// AutoCodePrefix marks codes the system generated because the user
	// left the field blank. They are never shown to the end user.
	AutoCodePrefix = "AUTO-"

	// NoImage is the image sentinel for products without a photo.
	NoImage = "sem_foto.png"

	// LogoFile is the well-known filename of the organization logo
	// inside the image directory.
	LogoFile = "logo.png"

	// barcodeMissing is how the flat file spells an absent barcode.
	barcodeMissing = "nan"
)

// Product is one catalog row. Prices holds one entry per price table;
// the set of table names is identical across all rows by construction.
type Product struct {
	Code         string
	Barcode      string
	Name         string
	Manufacturer string
	Image        string
	Prices       map[string]decimal.Decimal
}

func NewAutoCode(now time.Time) string {
	return AutoCodePrefix + strconv.FormatInt(now.Unix(), 10)
}

func IsAutoCode(code string) bool {
	return strings.HasPrefix(code, AutoCodePrefix)
}

// DisplayCode is the code as shown to end users: blank for generated ones.
func (p Product) DisplayCode() string {
	if IsAutoCode(p.Code) {
		return ""
	}
	return p.Code
}

// DisplayBarcode filters out the flat file's missing-value spelling.
func (p Product) DisplayBarcode() string {
	b := strings.TrimSpace(p.Barcode)
	if b == "" || strings.EqualFold(b, barcodeMissing) {
		return ""
	}
	return b
}

func (p Product) HasImage() bool {
	return p.Image != "" && p.Image != NoImage
}
