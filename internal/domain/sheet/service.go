package sheet

import (
	"log/slog"
	"strings"
	"time"

	"github.com/fantini/pricebook/internal/domain/catalog"
	"github.com/fantini/pricebook/internal/infra/metrics"
)

// Service ties the pipeline together: project the selected rows, compose
// the document, hand it to one of the renderers. One call is one fully
// computed document; nothing is cached between requests and the catalog
// is never written.
type Service struct {
	log      *slog.Logger
	met      *metrics.Metrics
	proj     *Projector
	html     *HTMLRenderer
	pdf      *PDFExporter
	orgName  string
	currency string
	logoPath func() string
}

func NewService(log *slog.Logger, met *metrics.Metrics, proj *Projector, orgName, currency string, logoPath func() string) (*Service, error) {
	html, err := NewHTMLRenderer()
	if err != nil {
		return nil, err
	}
	return &Service{
		log:      log,
		met:      met,
		proj:     proj,
		html:     html,
		pdf:      NewPDFExporter(),
		orgName:  orgName,
		currency: currency,
		logoPath: logoPath,
	}, nil
}

// Build projects the rows for one price table and composes the document.
// The rows arrive already filtered and ordered by the caller; that order
// is final.
func (s *Service) Build(rows []catalog.Product, table, client, note string) (Document, error) {
	lines, err := s.proj.ProjectAll(rows, table)
	if err != nil {
		s.met.GenerateFailures.Inc()
		return Document{}, err
	}
	h := Header{
		OrgName:  s.orgName,
		Table:    table,
		Date:     time.Now(),
		Client:   client,
		Note:     note,
		Currency: s.currency,
	}
	if p := s.logoPath(); p != "" {
		h.Logo = s.proj.Images.Resolve(p)
	}
	return Compose(lines, h), nil
}

func (s *Service) RenderHTML(doc Document) (string, error) {
	start := time.Now()
	out, err := s.html.Render(doc)
	if err != nil {
		s.met.GenerateFailures.Inc()
		return "", err
	}
	s.observe("html", start, doc)
	return out, nil
}

// ExportPDF returns the PDF bytes and a suggested download filename.
func (s *Service) ExportPDF(doc Document) ([]byte, string, error) {
	start := time.Now()
	out, err := s.pdf.Export(doc)
	if err != nil {
		s.met.GenerateFailures.Inc()
		return nil, "", err
	}
	s.observe("pdf", start, doc)
	return out, FileName(doc, "pdf"), nil
}

// ExportXLSX returns the spreadsheet bytes and a suggested filename.
func (s *Service) ExportXLSX(doc Document) ([]byte, string, error) {
	start := time.Now()
	out, err := ExportExcel(doc)
	if err != nil {
		s.met.GenerateFailures.Inc()
		return nil, "", err
	}
	s.observe("xlsx", start, doc)
	return out, FileName(doc, "xlsx"), nil
}

func (s *Service) observe(format string, start time.Time, doc Document) {
	s.met.DocumentsGenerated.WithLabelValues(format).Inc()
	s.met.GenerateDuration.Observe(time.Since(start).Seconds())
	s.log.Info("document generated", "format", format, "table", doc.Header.Table, "lines", len(doc.Lines))
}

// FileName builds the suggested download name from the price table, the
// client when present, and the generation date.
func FileName(doc Document, ext string) string {
	parts := []string{"tabela", slug(doc.Header.Table)}
	if c := slug(doc.Header.Client); c != "" {
		parts = append(parts, c)
	}
	parts = append(parts, doc.Header.Date.Format("20060102"))
	return strings.Join(parts, "_") + "." + ext
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
