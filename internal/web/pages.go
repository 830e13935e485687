package web

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/vscarantav/parallelscriptures/internal/auth"
	"github.com/vscarantav/parallelscriptures/internal/canon"
	"github.com/vscarantav/parallelscriptures/internal/scripture"
	"github.com/vscarantav/parallelscriptures/internal/view"
)

// booksPageData feeds templates/books.html.
type booksPageData struct {
	MainLang   string
	SecondLang string
	Books      []scripture.BookInfo
	LoadError  bool
	User       *auth.User
}

func (h *Handler) booksPage(w http.ResponseWriter, r *http.Request) {
	mainLang, secondLang := langParams(r, h.cfg.BooksLangs)

	data := booksPageData{
		MainLang:   mainLang,
		SecondLang: secondLang,
		User:       auth.FromContext(r.Context()),
	}
	books, err := h.names.Books(r.Context(), mainLang)
	if err != nil {
		log.Printf("web: books page (%s): %v", mainLang, err)
		data.LoadError = true
	}
	data.Books = books
	h.render(w, "books.html", data)
}

// chapterPageData feeds templates/chapter.html.
type chapterPageData struct {
	BookAbbr     string
	BookName     string
	Chapter      int
	ChapterLabel string
	MainLang     string
	SecondLang   string
	Subtitle     string
	Introduction string
	VerseHTML    template.HTML
	ViewState    view.State
	PrevURL      string
	NextURL      string
	ParallelURL  string
	SingleURL    string
	User         *auth.User
}

// chapterURL rebuilds a chapter link preserving the language pair and
// the active layout.
func chapterURL(p canon.Position, mainLang, secondLang string, state view.State) string {
	q := url.Values{}
	q.Set("book", p.Book)
	q.Set("chapter", strconv.Itoa(p.Chapter))
	q.Set("main", mainLang)
	q.Set("second", secondLang)
	if state == view.StateParallel {
		q.Set("view", string(state))
	}
	return "/chapter?" + q.Encode()
}

// chapterContent is what the page needs from upstream: both verse lists
// (required) and the intro text (best effort).
type chapterContent struct {
	main   []scripture.Verse
	second []scripture.Verse
	intro  scripture.IntroText
}

// fetchChapter pulls both languages concurrently. The verse fetches are
// all-or-nothing: if either fails, the whole load fails and the page
// shows a single error row instead of one populated column. The intro
// fetch failing never fails the load.
func (h *Handler) fetchChapter(ctx context.Context, book string, chapter int, mainLang, secondLang string) (chapterContent, error) {
	var (
		wg        sync.WaitGroup
		content   chapterContent
		mainErr   error
		secondErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		content.main, mainErr = h.fetcher.Chapter(ctx, book, chapter, mainLang)
	}()
	go func() {
		defer wg.Done()
		content.second, secondErr = h.fetcher.Chapter(ctx, book, chapter, secondLang)
	}()
	go func() {
		defer wg.Done()
		intro, err := h.fetcher.Intro(ctx, book, chapter, mainLang)
		if err != nil {
			log.Printf("web: intro %s %d (%s): %v", book, chapter, mainLang, err)
			return
		}
		content.intro = intro
	}()
	wg.Wait()

	if mainErr != nil {
		return chapterContent{}, fmt.Errorf("loading %s chapter %d in %s: %w", book, chapter, mainLang, mainErr)
	}
	if secondErr != nil {
		return chapterContent{}, fmt.Errorf("loading %s chapter %d in %s: %w", book, chapter, secondLang, secondErr)
	}
	return content, nil
}

func (h *Handler) chapterPage(w http.ResponseWriter, r *http.Request) {
	book := r.URL.Query().Get("book")
	if _, ok := canon.Lookup(book); !ok {
		http.Error(w, "unknown book", http.StatusNotFound)
		return
	}
	chapter, err := strconv.Atoi(r.URL.Query().Get("chapter"))
	if err != nil || chapter < 1 {
		chapter = 1
	}
	if n := canon.Chapters(book); chapter > n {
		chapter = n
	}

	mainLang, secondLang := langParams(r, h.cfg.ChapterLangs)
	state := view.ParseState(r.URL.Query().Get("view"))

	data := chapterPageData{
		BookAbbr:     book,
		BookName:     h.names.BookName(mainLang, book),
		Chapter:      chapter,
		ChapterLabel: h.names.ChapterLabel(mainLang),
		MainLang:     mainLang,
		SecondLang:   secondLang,
		ViewState:    state,
		User:         auth.FromContext(r.Context()),
	}

	pos := canon.Position{Book: book, Chapter: chapter}
	data.ParallelURL = chapterURL(pos, mainLang, secondLang, view.StateParallel)
	data.SingleURL = chapterURL(pos, mainLang, secondLang, view.StateSingle)
	if prev, ok := canon.Previous(pos); ok {
		data.PrevURL = chapterURL(prev, mainLang, secondLang, state)
	}
	if next, ok := canon.Next(pos); ok {
		data.NextURL = chapterURL(next, mainLang, secondLang, state)
	}

	content, err := h.fetchChapter(r.Context(), book, chapter, mainLang, secondLang)
	if err != nil {
		log.Printf("web: chapter page: %v", err)
		data.VerseHTML = template.HTML(view.ErrorMarkup("Could not load this chapter. Please try again."))
		h.render(w, "chapter.html", data)
		return
	}
	data.Subtitle = content.intro.Subtitle
	data.Introduction = content.intro.Introduction

	rows := view.BuildRows(content.main, content.second)
	ctrl, err := view.NewController(rows, h.renderer)
	if err != nil {
		log.Printf("web: chapter page: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if state == view.StateSingle {
		if err := ctrl.EnterSingle(); err != nil {
			log.Printf("web: chapter page: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}
	data.VerseHTML = template.HTML(ctrl.Markup())

	h.render(w, "chapter.html", data)
}
