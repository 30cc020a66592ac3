package sheet

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"
)

// HTMLRenderer produces the self-contained A4 preview page. Thumbnails
// are inlined as data URIs so the output needs no asset server; the
// browser's print path turns it into a PDF with the same layout.
type HTMLRenderer struct {
	tpl *template.Template
}

func NewHTMLRenderer() (*HTMLRenderer, error) {
	funcMap := template.FuncMap{
		"thumbSrc": func(t *Thumb) template.URL {
			if t == nil {
				return ""
			}
			return template.URL("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(t.Data))
		},
		"formatDate": func(t time.Time) string {
			return t.Format("02/01/2006")
		},
	}
	tpl, err := template.New("sheet").Funcs(funcMap).Parse(sheetTemplate)
	if err != nil {
		return nil, err
	}
	return &HTMLRenderer{tpl: tpl}, nil
}

func (r *HTMLRenderer) Render(doc Document) (string, error) {
	buf := &bytes.Buffer{}
	if err := r.tpl.Execute(buf, doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentGeneration, err)
	}
	return buf.String(), nil
}

const sheetTemplate = `<!doctype html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Tabela {{.Header.Table}}</title>
<style>
  body { margin: 0; background: #e0e0e0; font-family: 'Segoe UI', Arial, sans-serif; color: #2c3e50; }
  .page { width: 210mm; min-height: 297mm; margin: 0 auto; padding: 12mm; box-sizing: border-box; background: #ffffff; }
  .sheet-header { display: flex; align-items: center; gap: 8mm; border-bottom: 2px solid #2c3e50; padding-bottom: 4mm; }
  .sheet-header img { max-height: 18mm; }
  .sheet-header h1 { font-size: 18pt; margin: 0; }
  .sheet-meta { font-size: 10pt; color: #7f8c8d; margin-top: 1mm; }
  table { width: 100%; border-collapse: collapse; margin-top: 5mm; font-size: 10pt; }
  col.c-img  { width: 12%; }
  col.c-code { width: 18%; }
  col.c-name { width: 50%; }
  col.c-price{ width: 20%; }
  thead { display: table-header-group; }
  thead th { background: #2c3e50; color: #ffffff; padding: 2mm; text-align: left; }
  thead th.num { text-align: right; }
  tbody td { border: 1px solid #ddd; padding: 2mm; vertical-align: middle; }
  tbody tr { page-break-inside: avoid; }
  td.img { text-align: center; }
  td.img img { max-width: 100%; max-height: 22mm; }
  .placeholder { color: #bbb; }
  .ean { font-size: 8pt; color: #7f8c8d; }
  td.price { text-align: right; font-weight: 700; color: #27ae60; white-space: nowrap; }
  .note { margin-top: 5mm; font-size: 9pt; font-style: italic; }
  @media print {
    body { background: #ffffff; -webkit-print-color-adjust: exact; print-color-adjust: exact; }
    .page { width: auto; min-height: 0; margin: 0; padding: 0; }
    .no-print { display: none !important; }
  }
</style>
</head>
<body>
<div class="page">
  <div class="sheet-header">
    {{if .Header.Logo}}<img src="{{thumbSrc .Header.Logo}}" alt="logo">{{end}}
    <div>
      <h1>{{.Header.OrgName}}</h1>
      <div class="sheet-meta">
        Tabela {{.Header.Table}} &mdash; {{formatDate .Header.Date}}{{if .Header.Client}} &mdash; Cliente: {{.Header.Client}}{{end}}
      </div>
    </div>
  </div>
  <table>
    <colgroup>
      <col class="c-img"><col class="c-code"><col class="c-name"><col class="c-price">
    </colgroup>
    <thead>
      <tr><th>Foto</th><th>C&oacute;digo</th><th>Descri&ccedil;&atilde;o</th><th class="num">Pre&ccedil;o ({{.Header.Currency}})</th></tr>
    </thead>
    <tbody>
      {{range .Lines}}
      <tr>
        <td class="img">{{if .Thumb}}<img src="{{thumbSrc .Thumb}}" alt="">{{else}}<span class="placeholder">&ndash;</span>{{end}}</td>
        <td>{{.Code}}</td>
        <td>{{.Name}}{{if .Barcode}}<br><span class="ean">EAN: {{.Barcode}}</span>{{end}}</td>
        <td class="price">{{$.Header.Currency}} {{.PriceText}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>
  {{if .Header.Note}}<p class="note">Obs: {{.Header.Note}}</p>{{end}}
</div>
</body>
</html>
`
