package web

import (
	"bytes"
	"html/template"
	"log"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/vscarantav/parallelscriptures/internal/auth"
)

// renderAbout converts the embedded about.md once at startup.
func renderAbout(src []byte) template.HTML {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		log.Printf("web: rendering about page: %v", err)
		return ""
	}
	return template.HTML(buf.String())
}

type aboutPageData struct {
	Content template.HTML
	User    *auth.User
}

func (h *Handler) aboutPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "about.html", aboutPageData{
		Content: h.aboutHTML,
		User:    auth.FromContext(r.Context()),
	})
}
