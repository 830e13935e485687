// Package web serves the reader pages (book navigator, chapter view,
// about) and the JSON API backing them.
package web

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vscarantav/parallelscriptures/internal/config"
	"github.com/vscarantav/parallelscriptures/internal/scripture"
	"github.com/vscarantav/parallelscriptures/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

//go:embed about.md
var aboutMarkdown []byte

// Fetcher is the slice of the scripture client the pages need.
// *scripture.Client satisfies it; tests substitute a fake.
type Fetcher interface {
	Chapter(ctx context.Context, book string, chapter int, lang string) ([]scripture.Verse, error)
	Intro(ctx context.Context, book string, chapter int, lang string) (scripture.IntroText, error)
}

// Handler serves the HTML pages and the JSON API.
type Handler struct {
	fetcher   Fetcher
	names     *scripture.Names
	cfg       *config.Config
	renderer  *view.HTMLRenderer
	tmpl      *template.Template
	aboutHTML template.HTML
}

// New wires the web handler.
func New(fetcher Fetcher, names *scripture.Names, cfg *config.Config) *Handler {
	funcs := template.FuncMap{
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
	}
	return &Handler{
		fetcher:   fetcher,
		names:     names,
		cfg:       cfg,
		renderer:  view.NewHTMLRenderer(),
		tmpl:      template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")),
		aboutHTML: renderAbout(aboutMarkdown),
	}
}

// RegisterRoutes mounts the pages, static assets, and API.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.booksPage)
	r.Get("/chapter", h.chapterPage)
	r.Get("/about", h.aboutPage)

	staticRoot, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The static directory is compiled in; failing to subtree it is
		// a build defect.
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))))

	r.Get("/booksnames.json", h.booksNames)
	r.Get("/api/books", h.apiBooks)
	r.Get("/api/chapter", h.apiChapter)
	r.Get("/api/intro", h.apiIntro)
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("web: rendering %s: %v", name, err)
	}
}

// langParams resolves the main/second query parameters against the
// given defaults. The books page and the chapter page historically use
// different defaults (por/fra vs spa/eng); both are preserved.
func langParams(r *http.Request, defaults config.LangPair) (main, second string) {
	main = r.URL.Query().Get("main")
	if main == "" {
		main = defaults.Main
	}
	second = r.URL.Query().Get("second")
	if second == "" {
		second = defaults.Second
	}
	return main, second
}
