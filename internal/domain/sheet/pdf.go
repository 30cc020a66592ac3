package sheet

import (
	"bytes"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
)

// Page geometry in millimeters, A4 portrait.
const (
	pageLeft   = 10.0
	pageTop    = 10.0
	pageRight  = 10.0
	pageBottom = 18.0

	headRowH  = 8.0
	rowHeight = 18.0 // tall enough for a thumbnail without distortion
	logoH     = 12.0
)

// PDFExporter renders the document into downloadable PDF bytes. The
// header (logo, organization, title) and the dark column-header row
// repeat on every page; the footer carries "Página X de Y", with Y
// substituted by the library after the full layout.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter { return &PDFExporter{} }

func (e *PDFExporter) Export(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Tabela "+doc.Header.Table), false)
	pdf.AliasNbPages("")
	pdf.SetMargins(pageLeft, pageTop, pageRight)
	pdf.SetAutoPageBreak(false, pageBottom)

	pageW, pageH := pdf.GetPageSize()
	printable := pageW - pageLeft - pageRight
	widths := [4]float64{
		printable * ColImage,
		printable * ColCode,
		printable * ColName,
		printable * ColPrice,
	}

	if doc.Header.Logo != nil {
		pdf.RegisterImageOptionsReader("logo", jpegOpts(), bytes.NewReader(doc.Header.Logo.Data))
	}
	for i, l := range doc.Lines {
		if l.Thumb != nil {
			pdf.RegisterImageOptionsReader(thumbName(i), jpegOpts(), bytes.NewReader(l.Thumb.Data))
		}
	}

	pdf.SetHeaderFunc(func() {
		x := pageLeft
		if doc.Header.Logo != nil {
			// fixed height, width follows aspect; text starts past it
			pdf.ImageOptions("logo", pageLeft, pageTop, 0, logoH, false, jpegOpts(), 0, "")
			x += logoW(doc.Header.Logo) + 4
		}
		pdf.SetXY(x, pageTop)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 7, tr(doc.Header.OrgName), "", 1, "L", false, 0, "")
		pdf.SetX(x)
		pdf.SetFont("Helvetica", "", 10)
		title := fmt.Sprintf("Tabela %s  -  %s", doc.Header.Table, doc.Header.Date.Format("02/01/2006"))
		if doc.Header.Client != "" {
			title += "  -  Cliente: " + doc.Header.Client
		}
		pdf.CellFormat(0, 6, tr(title), "", 1, "L", false, 0, "")

		y := pageTop + logoH + 3
		if pdf.GetY()+2 > y {
			y = pdf.GetY() + 2
		}
		pdf.SetXY(pageLeft, y)
		pdf.SetFillColor(44, 62, 80)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 9)
		heads := [4]string{"Foto", "Código", "Descrição", "Preço (" + doc.Header.Currency + ")"}
		aligns := [4]string{"C", "C", "L", "R"}
		for i := range heads {
			pdf.CellFormat(widths[i], headRowH, tr(heads[i]), "1", 0, aligns[i], true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.SetFooterFunc(func() {
		pdf.SetY(-14)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(127, 140, 141)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Página %d de {nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()

	maxY := pageH - pageBottom
	for i, l := range doc.Lines {
		if pdf.GetY()+rowHeight > maxY {
			pdf.AddPage()
		}
		drawRow(pdf, tr, widths, i, l, doc.Header.Currency)
	}

	if doc.Header.Note != "" {
		pdf.Ln(4)
		if pdf.GetY()+12 > maxY {
			pdf.AddPage()
		}
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(printable, 5, tr("Obs: "+doc.Header.Note), "", "L", false)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentGeneration, err)
	}
	return buf.Bytes(), nil
}

func drawRow(pdf *fpdf.Fpdf, tr func(string) string, widths [4]float64, idx int, l Line, currency string) {
	y := pdf.GetY()

	x := pageLeft
	for i := range widths {
		pdf.Rect(x, y, widths[i], rowHeight, "D")
		x += widths[i]
	}

	// image cell: fit inside with padding, never stretch
	if l.Thumb != nil {
		maxW, maxH := widths[0]-4, rowHeight-4
		w, h := float64(l.Thumb.Width), float64(l.Thumb.Height)
		scale := math.Min(maxW/w, maxH/h)
		dw, dh := w*scale, h*scale
		pdf.ImageOptions(thumbName(idx), pageLeft+(widths[0]-dw)/2, y+(rowHeight-dh)/2, dw, dh, false, jpegOpts(), 0, "")
	} else {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(pageLeft, y)
		pdf.CellFormat(widths[0], rowHeight, "-", "", 0, "C", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(pageLeft+widths[0], y)
	pdf.CellFormat(widths[1], rowHeight, tr(l.Code), "", 0, "C", false, 0, "")

	nx := pageLeft + widths[0] + widths[1]
	pdf.SetXY(nx+1, y+4)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(widths[2]-2, 5, tr(l.Name), "", 2, "L", false, 0, "")
	if l.Barcode != "" {
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(127, 140, 141)
		pdf.CellFormat(widths[2]-2, 4, tr("EAN: "+l.Barcode), "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetXY(nx+widths[2], y)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(widths[3]-2, rowHeight, tr(currency+" "+l.PriceText()), "", 0, "R", false, 0, "")

	pdf.SetXY(pageLeft, y+rowHeight)
}

func thumbName(i int) string {
	return fmt.Sprintf("thumb-%d", i)
}

func jpegOpts() fpdf.ImageOptions {
	return fpdf.ImageOptions{ImageType: "JPEG"}
}

// logoW is the drawn logo width at the fixed header height.
func logoW(t *Thumb) float64 {
	if t.Height == 0 {
		return logoH
	}
	return logoH * float64(t.Width) / float64(t.Height)
}
