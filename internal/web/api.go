package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/vscarantav/parallelscriptures/internal/canon"
	"github.com/vscarantav/parallelscriptures/internal/scripture"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: encoding response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// booksNames serves the raw localized-name map, the same file the
// crawler writes.
func (h *Handler) booksNames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.names.Raw())
}

// apiBooks returns the localized book list for one language.
func (h *Handler) apiBooks(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = h.cfg.BooksLangs.Main
	}

	books, err := h.names.Books(r.Context(), lang)
	if err != nil {
		log.Printf("web: /api/books (%s): %v", lang, err)
		writeJSONError(w, http.StatusInternalServerError, "could not load book list")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lang":          lang,
		"chapter_label": h.names.ChapterLabel(lang),
		"books":         books,
	})
}

// chapterParams validates the book/chapter query parameters shared by
// /api/chapter and /api/intro.
func chapterParams(r *http.Request) (book string, chapter int, err error) {
	book = r.URL.Query().Get("book")
	if _, ok := canon.Lookup(book); !ok {
		return "", 0, errors.New("unknown or missing book")
	}
	chapter, convErr := strconv.Atoi(r.URL.Query().Get("chapter"))
	if convErr != nil || chapter < 1 || chapter > canon.Chapters(book) {
		return "", 0, errors.New("chapter out of range")
	}
	return book, chapter, nil
}

// apiChapter returns one chapter's verses in one language.
func (h *Handler) apiChapter(w http.ResponseWriter, r *http.Request) {
	book, chapter, err := chapterParams(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = h.cfg.ChapterLangs.Main
	}

	verses, err := h.fetcher.Chapter(r.Context(), book, chapter, lang)
	if err != nil {
		if errors.Is(err, scripture.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "chapter not found upstream")
			return
		}
		log.Printf("web: /api/chapter %s %d (%s): %v", book, chapter, lang, err)
		writeJSONError(w, http.StatusBadGateway, "could not load chapter")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"book":    book,
		"chapter": chapter,
		"lang":    lang,
		"verses":  verses,
	})
}

// apiIntro returns the subtitle/introduction block for a chapter. It
// never fails: missing intro text is an empty object, so the page can
// request it unconditionally.
func (h *Handler) apiIntro(w http.ResponseWriter, r *http.Request) {
	book, chapter, err := chapterParams(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = h.cfg.ChapterLangs.Main
	}

	intro, err := h.fetcher.Intro(r.Context(), book, chapter, lang)
	if err != nil {
		log.Printf("web: /api/intro %s %d (%s): %v", book, chapter, lang, err)
		intro = scripture.IntroText{}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"subtitle":     intro.Subtitle,
		"introduction": intro.Introduction,
	})
}
