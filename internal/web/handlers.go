package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/fantini/pricebook/internal/domain/catalog"
	"github.com/fantini/pricebook/internal/domain/sheet"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"vitrine.html", "products.html", "product_form.html", "product_detail.html", "tables.html"}

// Handler is the browser surface: storefront, product management, price
// table config and the sheet generation endpoints.
type Handler struct {
	log           *slog.Logger
	store         *catalog.Store
	images        *catalog.ImageStore
	sheets        *sheet.Service
	manufacturers []string
	currency      string
	pages         map[string]*template.Template
}

func NewHandler(log *slog.Logger, store *catalog.Store, images *catalog.ImageStore, sheets *sheet.Service, manufacturers []string, currency string) (*Handler, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tpl, err := template.New("base.html").ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, err
		}
		pages[name] = tpl
	}
	return &Handler{
		log:           log,
		store:         store,
		images:        images,
		sheets:        sheets,
		manufacturers: manufacturers,
		currency:      currency,
		pages:         pages,
	}, nil
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/", h.vitrine).Methods(http.MethodGet)
	r.HandleFunc("/products", h.products).Methods(http.MethodGet)
	r.HandleFunc("/products/new", h.productForm).Methods(http.MethodGet)
	r.HandleFunc("/products/{code}", h.productDetail).Methods(http.MethodGet)
	r.HandleFunc("/products/{code}/edit", h.productForm).Methods(http.MethodGet)
	r.HandleFunc("/products", h.saveProduct).Methods(http.MethodPost)
	r.HandleFunc("/products/{code}/delete", h.deleteProduct).Methods(http.MethodPost)
	r.HandleFunc("/tables", h.tables).Methods(http.MethodGet)
	r.HandleFunc("/tables", h.createTable).Methods(http.MethodPost)
	r.HandleFunc("/tables/{name}/delete", h.deleteTable).Methods(http.MethodPost)
	r.HandleFunc("/sheet/preview", h.sheetPreview).Methods(http.MethodPost)
	r.HandleFunc("/sheet/pdf", h.sheetPDF).Methods(http.MethodPost)
	r.HandleFunc("/sheet/xlsx", h.sheetXLSX).Methods(http.MethodPost)
	r.HandleFunc("/images/{name}", h.image).Methods(http.MethodGet)
}

func (h *Handler) render(w http.ResponseWriter, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.pages[page].ExecuteTemplate(w, "base.html", data); err != nil {
		h.log.Error("render page", "page", page, "err", err)
	}
}

type productCard struct {
	Code         string
	DisplayCode  string
	Name         string
	Manufacturer string
	Barcode      string
	ImageURL     string
	Price        string
}

func (h *Handler) card(p catalog.Product, table string) productCard {
	c := productCard{
		Code:         p.Code,
		DisplayCode:  p.DisplayCode(),
		Name:         p.Name,
		Manufacturer: p.Manufacturer,
		Barcode:      p.DisplayBarcode(),
	}
	if p.HasImage() {
		c.ImageURL = "/images/" + p.Image
	}
	if table != "" {
		c.Price = h.currency + " " + p.Prices[table].StringFixed(2)
	}
	return c
}

func (h *Handler) vitrine(w http.ResponseWriter, r *http.Request) {
	manufacturer := r.URL.Query().Get("fabricante")
	tables := h.store.PriceTables()

	// an unknown table name must not price everything at zero
	table := r.URL.Query().Get("tabela")
	if !slices.Contains(tables, table) {
		table = ""
		if len(tables) > 0 {
			table = tables[0]
		}
	}

	rows := h.store.ListByManufacturer(manufacturer)
	cards := make([]productCard, 0, len(rows))
	for _, p := range rows {
		cards = append(cards, h.card(p, table))
	}

	h.render(w, "vitrine.html", map[string]any{
		"Title":         "Vitrine",
		"Manufacturers": h.manufacturers,
		"Manufacturer":  manufacturer,
		"Tables":        tables,
		"Table":         table,
		"Cards":         cards,
	})
}

func (h *Handler) products(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	rows := h.store.List()
	cards := make([]productCard, 0, len(rows))
	table := ""
	if t := h.store.PriceTables(); len(t) > 0 {
		table = t[0]
	}
	for _, p := range rows {
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		cards = append(cards, h.card(p, table))
	}
	h.render(w, "products.html", map[string]any{
		"Title": "Gerenciar Produtos",
		"Query": query,
		"Cards": cards,
	})
}

// matchesQuery is the search box filter: code or name, case-insensitive.
func matchesQuery(p catalog.Product, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Code), q) ||
		strings.Contains(strings.ToLower(p.Name), q)
}

type tablePrice struct {
	Table string
	Price string
}

// productDetail is the per-product card: photo, EAN and every price
// table at once.
func (h *Handler) productDetail(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Get(mux.Vars(r)["code"])
	if err != nil {
		http.NotFound(w, r)
		return
	}
	prices := make([]tablePrice, 0)
	for _, t := range h.store.PriceTables() {
		prices = append(prices, tablePrice{Table: t, Price: h.currency + " " + p.Prices[t].StringFixed(2)})
	}
	h.render(w, "product_detail.html", map[string]any{
		"Title":  "Ficha: " + p.Name,
		"Card":   h.card(*p, ""),
		"Prices": prices,
	})
}

func (h *Handler) productForm(w http.ResponseWriter, r *http.Request) {
	tables := h.store.PriceTables()
	data := map[string]any{
		"Title":         "Novo Produto",
		"Manufacturers": h.manufacturers,
		"Tables":        tables,
		"Prices":        map[string]string{},
		"DisplayCode":   "",
	}

	if code, ok := mux.Vars(r)["code"]; ok {
		p, err := h.store.Get(code)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		prices := make(map[string]string, len(tables))
		for _, t := range tables {
			prices[t] = p.Prices[t].StringFixed(2)
		}
		data["Title"] = "Editando: " + p.Name
		data["Product"] = p
		data["DisplayCode"] = p.DisplayCode()
		data["Prices"] = prices
	}
	h.render(w, "product_form.html", data)
}

func (h *Handler) saveProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "formulário inválido", http.StatusBadRequest)
		return
	}

	original := r.FormValue("original_code")
	replace := original != ""

	code := strings.TrimSpace(r.FormValue("codigo"))
	if replace {
		code = original
	} else if code == "" {
		code = catalog.NewAutoCode(time.Now())
	}

	p := catalog.Product{
		Code:         code,
		Barcode:      strings.TrimSpace(r.FormValue("barras")),
		Name:         strings.TrimSpace(r.FormValue("nome")),
		Manufacturer: r.FormValue("fabricante"),
		Prices:       map[string]decimal.Decimal{},
	}

	var old *catalog.Product
	if replace {
		old, _ = h.store.Get(code)
	}

	for _, table := range h.store.PriceTables() {
		raw := strings.ReplaceAll(r.FormValue("price_"+table), ",", ".")
		if d, err := decimal.NewFromString(raw); err == nil && !d.IsNegative() {
			p.Prices[table] = d
		} else if old != nil {
			// a typo in one field must not wipe the stored price
			p.Prices[table] = old.Prices[table]
		}
	}

	// keep the current photo unless a new one was uploaded
	if old != nil {
		p.Image = old.Image
	}
	if file, fh, err := r.FormFile("imagem"); err == nil {
		defer func() { _ = file.Close() }()
		name, err := h.images.Save(code, fh.Filename, file)
		if err != nil {
			h.log.Error("store image", "code", code, "err", err)
			http.Error(w, "falha ao salvar imagem", http.StatusInternalServerError)
			return
		}
		p.Image = name
	}

	if _, err := h.store.Save(p, replace); err != nil {
		switch {
		case errors.Is(err, catalog.ErrCodeExists):
			http.Error(w, "código já existe", http.StatusConflict)
		case errors.Is(err, catalog.ErrNameEmpty):
			http.Error(w, "nome é obrigatório", http.StatusBadRequest)
		default:
			h.log.Error("save product", "code", code, "err", err)
			http.Error(w, "falha ao salvar", http.StatusInternalServerError)
		}
		return
	}
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if err := h.store.Delete(code); err != nil {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (h *Handler) tables(w http.ResponseWriter, r *http.Request) {
	h.render(w, "tables.html", map[string]any{
		"Title":  "Configurações",
		"Tables": h.store.PriceTables(),
	})
}

func (h *Handler) createTable(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	if err := h.store.AddPriceTable(name); err != nil {
		switch {
		case errors.Is(err, catalog.ErrTableExists):
			http.Error(w, "tabela já existe", http.StatusConflict)
		case errors.Is(err, catalog.ErrNameEmpty):
			http.Error(w, "informe o nome da tabela", http.StatusBadRequest)
		default:
			h.log.Error("create table", "name", name, "err", err)
			http.Error(w, "falha ao criar tabela", http.StatusInternalServerError)
		}
		return
	}
	http.Redirect(w, r, "/tables", http.StatusSeeOther)
}

func (h *Handler) deleteTable(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := h.store.RemovePriceTable(name); err != nil {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/tables", http.StatusSeeOther)
}

// buildDocument resolves the submitted selection into a composed
// document. Codes deleted since the page was rendered are dropped from
// the selection rather than failing the request.
func (h *Handler) buildDocument(r *http.Request) (sheet.Document, error) {
	if err := r.ParseForm(); err != nil {
		return sheet.Document{}, err
	}
	table := r.FormValue("tabela")
	if table == "" {
		return sheet.Document{}, errors.New("selecione uma tabela de preço")
	}

	var rows []catalog.Product
	for _, code := range r.Form["codes"] {
		p, err := h.store.Get(code)
		if err != nil {
			h.log.Warn("selected product vanished", "code", code)
			continue
		}
		rows = append(rows, *p)
	}
	return h.sheets.Build(rows, table, r.FormValue("cliente"), r.FormValue("observacao"))
}

func (h *Handler) sheetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sheet.ErrMissingPriceColumn):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, sheet.ErrDocumentGeneration):
		http.Error(w, "falha ao gerar o documento", http.StatusInternalServerError)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func (h *Handler) sheetPreview(w http.ResponseWriter, r *http.Request) {
	doc, err := h.buildDocument(r)
	if err != nil {
		h.sheetError(w, err)
		return
	}
	out, err := h.sheets.RenderHTML(doc)
	if err != nil {
		h.sheetError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

func (h *Handler) sheetPDF(w http.ResponseWriter, r *http.Request) {
	doc, err := h.buildDocument(r)
	if err != nil {
		h.sheetError(w, err)
		return
	}
	out, name, err := h.sheets.ExportPDF(doc)
	if err != nil {
		h.sheetError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(out)
}

func (h *Handler) sheetXLSX(w http.ResponseWriter, r *http.Request) {
	doc, err := h.buildDocument(r)
	if err != nil {
		h.sheetError(w, err)
		return
	}
	out, name, err := h.sheets.ExportXLSX(doc)
	if err != nil {
		h.sheetError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(out)
}

func (h *Handler) image(w http.ResponseWriter, r *http.Request) {
	path := h.images.Path(mux.Vars(r)["name"])
	if path == "" {
		http.NotFound(w, r)
		return
	}
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}
