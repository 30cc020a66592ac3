package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// The flat file starts with these columns, in this order; every further
// column is a price table.
var fixedColumns = []string{"codigo", "barras", "nome", "imagem", "fabricante"}

var (
	ErrNotFound    = errors.New("product not found")
	ErrCodeExists  = errors.New("product code already exists")
	ErrTableExists = errors.New("price table already exists")
	ErrNoSuchTable = errors.New("price table does not exist")
	ErrNameEmpty   = errors.New("name must not be empty")
)

// Store keeps the whole catalog in memory and rewrites the CSV file on
// every mutation, the same way the flat file was maintained before.
type Store struct {
	mu       sync.Mutex
	path     string
	products []Product // insertion order
	tables   []string  // price table column order
}

// Open loads the catalog from path. A missing file is an empty catalog;
// the file is created on the first save.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	rec, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	if len(rec) == 0 {
		return s, nil
	}

	header := rec[0]
	if len(header) < len(fixedColumns) {
		return nil, fmt.Errorf("catalog %s: header too short", path)
	}
	s.tables = append(s.tables, header[len(fixedColumns):]...)

	for _, row := range rec[1:] {
		p := Product{Prices: make(map[string]decimal.Decimal, len(s.tables))}
		for i, col := range fixedColumns {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			switch col {
			case "codigo":
				p.Code = v
			case "barras":
				p.Barcode = v
			case "nome":
				p.Name = v
			case "imagem":
				p.Image = v
			case "fabricante":
				p.Manufacturer = v
			}
		}
		for i, table := range s.tables {
			idx := len(fixedColumns) + i
			if idx >= len(row) {
				p.Prices[table] = decimal.Zero
				continue
			}
			// hand-edited files may hold garbage; treat it as zero
			d, err := decimal.NewFromString(row[idx])
			if err != nil {
				d = decimal.Zero
			}
			p.Prices[table] = d
		}
		s.products = append(s.products, p)
	}
	return s, nil
}

// flush writes to a temp file and renames it over the catalog, so a
// failed write never leaves a truncated file behind.
func (s *Store) flush() error {
	f, err := os.CreateTemp(filepath.Dir(s.path), ".catalog-*.csv")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := s.writeCSV(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (s *Store) writeCSV(f *os.File) error {
	w := csv.NewWriter(f)
	header := append(append([]string{}, fixedColumns...), s.tables...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, p := range s.products {
		row := []string{p.Code, p.Barcode, p.Name, p.Image, p.Manufacturer}
		for _, table := range s.tables {
			row = append(row, p.Prices[table].StringFixed(2))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func clone(p Product) Product {
	c := p
	c.Prices = make(map[string]decimal.Decimal, len(p.Prices))
	for k, v := range p.Prices {
		c.Prices[k] = v
	}
	return c
}

// List returns all products in insertion order. The result is a copy;
// callers may mutate it freely.
func (s *Store) List() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, clone(p))
	}
	return out
}

// ListByManufacturer filters List; an empty manufacturer means no filter.
func (s *Store) ListByManufacturer(manufacturer string) []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Product
	for _, p := range s.products {
		if manufacturer != "" && p.Manufacturer != manufacturer {
			continue
		}
		out = append(out, clone(p))
	}
	return out
}

func (s *Store) Get(code string) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.Code == code {
			c := clone(p)
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// PriceTables returns the price table names in column order.
func (s *Store) PriceTables() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.tables...)
}

// Save inserts a product, or replaces the row with the same code when
// replace is set. A blank code on insert gets a generated AUTO- code.
// Prices are clipped to the known table set; missing tables become zero,
// keeping every row on the same columns. Returns the final code.
func (s *Store) Save(p Product, replace bool) (string, error) {
	if p.Name == "" {
		return "", ErrNameEmpty
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Code == "" {
		if replace {
			return "", ErrNotFound
		}
		p.Code = NewAutoCode(time.Now())
	}

	idx := -1
	for i, ex := range s.products {
		if ex.Code == p.Code {
			idx = i
			break
		}
	}
	if !replace && idx >= 0 {
		return "", ErrCodeExists
	}
	if replace && idx < 0 {
		return "", ErrNotFound
	}

	prices := make(map[string]decimal.Decimal, len(s.tables))
	for _, table := range s.tables {
		prices[table] = p.Prices[table] // zero value is decimal.Zero
	}
	p.Prices = prices
	if p.Image == "" {
		p.Image = NoImage
	}

	if idx >= 0 {
		s.products = append(s.products[:idx], s.products[idx+1:]...)
	}
	s.products = append(s.products, clone(p))

	if err := s.flush(); err != nil {
		return "", err
	}
	return p.Code, nil
}

func (s *Store) Delete(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.Code == code {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return s.flush()
		}
	}
	return ErrNotFound
}

// AddPriceTable creates a new price column with zero price on every row.
func (s *Store) AddPriceTable(name string) error {
	if name == "" {
		return ErrNameEmpty
	}
	for _, col := range fixedColumns {
		if name == col {
			return ErrTableExists
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tables {
		if t == name {
			return ErrTableExists
		}
	}
	s.tables = append(s.tables, name)
	for i := range s.products {
		s.products[i].Prices[name] = decimal.Zero
	}
	return s.flush()
}

// RemovePriceTable drops the column everywhere; the price data is gone.
func (s *Store) RemovePriceTable(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, t := range s.tables {
		if t == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNoSuchTable
	}
	s.tables = append(s.tables[:idx], s.tables[idx+1:]...)
	for i := range s.products {
		delete(s.products[i].Prices, name)
	}
	return s.flush()
}
