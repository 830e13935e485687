package view

import (
	"fmt"
	"html/template"
	"strings"
)

const parallelTmpl = `{{range .}}<div class="verse-row" data-row="{{.Index}}">
<div class="verse-col verse-main">{{if .Main.Number}}<span class="vnum">{{.Main.Number}}</span> {{end}}{{.Main.Text}}</div>
<div class="verse-col verse-second">{{if .Second.Number}}<span class="vnum">{{.Second.Number}}</span> {{end}}{{.Second.Text}}</div>
</div>
{{end}}`

const singleTmpl = `{{range .}}<div class="verse-item" data-row="{{.Index}}" role="button" tabindex="0" aria-expanded="{{if .Expanded}}true{{else}}false{{end}}">
<div class="verse-main">{{if .Main.Number}}<span class="vnum">{{.Main.Number}}</span> {{end}}{{.Main.Text}}</div>
<div class="verse-second"{{if not .Expanded}} hidden{{end}}>{{if .Second.Number}}<span class="vnum">{{.Second.Number}}</span> {{end}}{{.Second.Text}}</div>
</div>
{{end}}`

// HTMLRenderer renders rows with html/template. It is the only place
// verse markup is produced; the controller treats the output as opaque.
type HTMLRenderer struct {
	parallel *template.Template
	single   *template.Template
}

// NewHTMLRenderer builds the default renderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		parallel: template.Must(template.New("parallel").Parse(parallelTmpl)),
		single:   template.Must(template.New("single").Parse(singleTmpl)),
	}
}

// Parallel renders the two-column layout.
func (r *HTMLRenderer) Parallel(rows []Row) (string, error) {
	var b strings.Builder
	if err := r.parallel.Execute(&b, rows); err != nil {
		return "", fmt.Errorf("parallel template: %w", err)
	}
	return b.String(), nil
}

// Single renders the stacked expandable layout.
func (r *HTMLRenderer) Single(items []Item) (string, error) {
	var b strings.Builder
	if err := r.single.Execute(&b, items); err != nil {
		return "", fmt.Errorf("single template: %w", err)
	}
	return b.String(), nil
}

// ErrorMarkup is the single error row shown when a required verse fetch
// fails; it replaces all verse content for the chapter.
func ErrorMarkup(msg string) string {
	var b strings.Builder
	template.Must(template.New("err").Parse(`<div class="verse-row verse-error">{{.}}</div>`)).Execute(&b, msg)
	return b.String()
}
