package sheet

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantini/pricebook/internal/domain/catalog"
)

func testProjector(t *testing.T) *Projector {
	t.Helper()
	return NewProjector(NewResolver(96, 82), t.TempDir())
}

func retail(price string) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{"Retail": decimal.RequireFromString(price)}
}

func TestProjectSelection(t *testing.T) {
	rows := []catalog.Product{
		{Code: "001", Name: "Widget A", Barcode: "789", Prices: retail("10.00")},
		{Code: "AUTO-1700000000", Name: "Widget B", Barcode: "", Prices: retail("25.50")},
		{Code: "003", Name: "Widget C", Barcode: "nan", Prices: retail("5.00")},
	}

	lines, err := testProjector(t).ProjectAll(rows, "Retail")
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, "001", lines[0].Code)
	assert.Equal(t, "789", lines[0].Barcode)
	assert.Equal(t, "10.00", lines[0].PriceText())

	// generated code and empty barcode are suppressed
	assert.Equal(t, "", lines[1].Code)
	assert.Equal(t, "", lines[1].Barcode)
	assert.Equal(t, "25.50", lines[1].PriceText())

	// the missing-value sentinel is suppressed too
	assert.Equal(t, "", lines[2].Barcode)
	assert.Equal(t, "5.00", lines[2].PriceText())
}

func TestProjectMissingPriceColumn(t *testing.T) {
	pj := testProjector(t)

	_, err := pj.Project(catalog.Product{Code: "001", Name: "A", Prices: retail("10.00")}, "Atacado")
	assert.ErrorIs(t, err, ErrMissingPriceColumn)

	// one bad row aborts the whole projection, no partial result
	rows := []catalog.Product{
		{Code: "001", Name: "A", Prices: retail("10.00")},
		{Code: "002", Name: "B", Prices: map[string]decimal.Decimal{}},
	}
	lines, err := pj.ProjectAll(rows, "Retail")
	assert.ErrorIs(t, err, ErrMissingPriceColumn)
	assert.Nil(t, lines)
}

func TestProjectMissingImageFileYieldsNilThumb(t *testing.T) {
	pj := testProjector(t)
	l, err := pj.Project(catalog.Product{
		Code:   "001",
		Name:   "A",
		Image:  "001_deleted.jpg",
		Prices: retail("10.00"),
	}, "Retail")
	require.NoError(t, err)
	assert.Nil(t, l.Thumb)
}

func TestProjectResolvesExistingImage(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "001_foto.png", 300, 200)
	pj := NewProjector(NewResolver(96, 82), dir)

	l, err := pj.Project(catalog.Product{
		Code:   "001",
		Name:   "A",
		Image:  "001_foto.png",
		Prices: retail("10.00"),
	}, "Retail")
	require.NoError(t, err)
	require.NotNil(t, l.Thumb)
	assert.LessOrEqual(t, l.Thumb.Width, 96)
}

func TestProjectNoImageSentinel(t *testing.T) {
	l, err := testProjector(t).Project(catalog.Product{
		Code:   "001",
		Name:   "A",
		Image:  catalog.NoImage,
		Prices: retail("10.00"),
	}, "Retail")
	require.NoError(t, err)
	assert.Nil(t, l.Thumb)
}
