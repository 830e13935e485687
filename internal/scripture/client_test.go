package scripture

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return NewClient(url, "test-agent", 5*time.Second, 3)
}

func TestClientChapter(t *testing.T) {
	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(chapterHTML))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	verses, err := c.Chapter(context.Background(), "1-ne", 1, "spa")
	if err != nil {
		t.Fatalf("Chapter: %v", err)
	}
	if gotPath != "/1-ne/1" {
		t.Errorf("path = %q", gotPath)
	}
	if gotUA != "test-agent" {
		t.Errorf("user agent = %q", gotUA)
	}
	if len(verses) != 3 || verses[0].Number != "1" {
		t.Errorf("verses = %+v", verses)
	}
}

func TestClientRetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(chapterHTML))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.Chapter(context.Background(), "alma", 5, "eng"); err != nil {
		t.Fatalf("Chapter after retries: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestClientGivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.Chapter(context.Background(), "alma", 5, "eng"); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestClientNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.BookTitle(context.Background(), "alma", "tlh")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClientIntroOnlyFirstNephiOne(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(chapterHTML))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	// Anything but 1-ne 1 short-circuits without an upstream call.
	it, err := c.Intro(context.Background(), "alma", 30, "eng")
	if err != nil || it.Subtitle != "" || it.Introduction != "" {
		t.Errorf("Intro(alma 30) = %+v, %v", it, err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("unexpected upstream call for non-intro chapter")
	}

	it, err = c.Intro(context.Background(), "1-ne", 1, "eng")
	if err != nil {
		t.Fatalf("Intro: %v", err)
	}
	if it.Subtitle != "HIS REIGN AND MINISTRY" {
		t.Errorf("subtitle = %q", it.Subtitle)
	}
}

func TestClientIntroFollowsIframe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/1-ne/1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><iframe src="/study/scriptures/frame?lang=spa"></iframe></body></html>`))
	})
	mux.HandleFunc("/study/scriptures/frame", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p class="subtitle">framed subtitle</p><p class="intro">framed intro</p></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv.URL)
	it, err := c.Intro(context.Background(), "1-ne", 1, "spa")
	if err != nil {
		t.Fatalf("Intro: %v", err)
	}
	if it.Subtitle != "framed subtitle" || it.Introduction != "framed intro" {
		t.Errorf("got %+v", it)
	}
}

func TestClientBookTitleCleanup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1><span class="dominant">Capítulo 1 2 Néfi 1</span></h1></body></html>`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	title, err := c.BookTitle(context.Background(), "2-ne", "spa")
	if err != nil {
		t.Fatalf("BookTitle: %v", err)
	}
	if title != "2 Néfi" {
		t.Errorf("title = %q", title)
	}
}

func TestClientChapterLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/1-ne/1") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`<html><body><p class="title-number">Chapitre 1</p></body></html>`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	label, err := c.ChapterLabel(context.Background(), "fra")
	if err != nil {
		t.Fatalf("ChapterLabel: %v", err)
	}
	if label != "Chapitre" {
		t.Errorf("label = %q", label)
	}
}
