package sheet

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportPDFSmallDocument(t *testing.T) {
	out, err := NewPDFExporter().Export(testDoc(t))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Greater(t, len(out), 1000)
}

func TestExportPDFEmptyDocument(t *testing.T) {
	out, err := NewPDFExporter().Export(Compose(nil, Header{OrgName: "Fantini", Table: "Varejo", Currency: "R$"}))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportPDFWithThumbnailsAndLogo(t *testing.T) {
	dir := t.TempDir()
	thumb := NewResolver(96, 82).Resolve(writePNG(t, dir, "img.png", 300, 200))
	require.NotNil(t, thumb)
	logo := NewResolver(96, 82).Resolve(writePNG(t, dir, "logo.png", 200, 80))
	require.NotNil(t, logo)

	doc := testDoc(t)
	doc.Header.Logo = logo
	doc.Lines[0].Thumb = thumb

	out, err := NewPDFExporter().Export(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportPDFMultiPage(t *testing.T) {
	var lines []Line
	for i := 0; i < 60; i++ {
		lines = append(lines, Line{
			Code:    fmt.Sprintf("%03d", i),
			Name:    fmt.Sprintf("Produto %d", i),
			Barcode: "7891234567890",
			Price:   decimal.NewFromInt(int64(i)),
		})
	}
	doc := Compose(lines, Header{OrgName: "Fantini", Table: "Varejo", Currency: "R$", Note: "Preços válidos por 30 dias."})

	out, err := NewPDFExporter().Export(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	// 60 rows at 18mm cannot fit one A4 page
	pages := bytes.Count(out, []byte("/Type /Page")) - bytes.Count(out, []byte("/Type /Pages"))
	assert.GreaterOrEqual(t, pages, 2)
}
