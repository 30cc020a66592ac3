package sheet

import (
	"fmt"
	"path/filepath"

	"github.com/fantini/pricebook/internal/domain/catalog"
)

// Projector flattens catalog rows into document lines for one price
// table. Pure apart from the image reads it delegates to the resolver.
type Projector struct {
	Images   *Resolver
	ImageDir string
}

func NewProjector(images *Resolver, imageDir string) *Projector {
	return &Projector{Images: images, ImageDir: imageDir}
}

func (pj *Projector) Project(p catalog.Product, table string) (Line, error) {
	price, ok := p.Prices[table]
	if !ok {
		return Line{}, fmt.Errorf("%w: %q on product %q", ErrMissingPriceColumn, table, p.Code)
	}
	l := Line{
		Code:    p.DisplayCode(),
		Name:    p.Name,
		Barcode: p.DisplayBarcode(),
		Price:   price,
	}
	if p.HasImage() {
		l.Thumb = pj.Images.Resolve(filepath.Join(pj.ImageDir, p.Image))
	}
	return l, nil
}

// ProjectAll keeps the input order. The first missing price column
// aborts the whole projection.
func (pj *Projector) ProjectAll(rows []catalog.Product, table string) ([]Line, error) {
	lines := make([]Line, 0, len(rows))
	for _, p := range rows {
		l, err := pj.Project(p, table)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, nil
}
