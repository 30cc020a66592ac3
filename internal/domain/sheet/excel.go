package sheet

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportExcel writes the document lines to an .xlsx with one row per
// product and the selected price table as the price column, for clients
// who want the sheet as a spreadsheet instead of a PDF.
func ExportExcel(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"codigo",
		"barras",
		"nome",
		"preco_" + doc.Header.Table,
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentGeneration, err)
	}

	row := 2
	for _, l := range doc.Lines {
		excelRow := []interface{}{
			l.Code,
			l.Barcode,
			l.Name,
			l.Price.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDocumentGeneration, err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDocumentGeneration, err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentGeneration, err)
	}
	return buf.Bytes(), nil
}
