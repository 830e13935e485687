package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vscarantav/parallelscriptures/internal/config"
	"github.com/vscarantav/parallelscriptures/internal/db"
)

func newTestHandler(t *testing.T) (*Handler, chi.Router) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := NewStore(database)
	h := NewHandler(
		store,
		NewSigner("test-secret", time.Hour),
		NewMailer(config.SMTPConfig{}), // unconfigured: logs instead of sending
		true,                           // dev links on, so tests can harvest tokens
	)

	r := chi.NewRouter()
	r.Use(Middleware(store))
	RegisterRoutes(r, h)
	return h, r
}

func postForm(r chi.Router, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var devLinkRe = regexp.MustCompile(`(?:verify|reset)\?token=([^"&\s]+)`)

func harvestToken(t *testing.T, body string) string {
	t.Helper()
	m := devLinkRe.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("no dev link in body:\n%s", body)
	}
	token, err := url.QueryUnescape(m[1])
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestSignupFlow(t *testing.T) {
	_, r := newTestHandler(t)

	w := postForm(r, "/signup", url.Values{
		"email":    {"reader@example.com"},
		"password": {"longenough"},
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("signup status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "reader@example.com") {
		t.Error("verify notice should mention the email")
	}
	// Unconfigured SMTP + dev links on means the token is shown.
	harvestToken(t, w.Body.String())

	// Session cookie is set right away.
	found := false
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("signup should set a session cookie")
	}
}

func TestSignupRejectsShortPassword(t *testing.T) {
	_, r := newTestHandler(t)
	w := postForm(r, "/signup", url.Values{
		"email":    {"reader@example.com"},
		"password": {"short"},
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestSignupRejectsDuplicate(t *testing.T) {
	_, r := newTestHandler(t)
	form := url.Values{"email": {"a@b.c"}, "password": {"longenough"}}
	postForm(r, "/signup", form, nil)
	w := postForm(r, "/signup", form, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "already registered") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	_, r := newTestHandler(t)
	postForm(r, "/signup", url.Values{"email": {"a@b.c"}, "password": {"longenough"}}, nil)

	w := postForm(r, "/login", url.Values{"email": {"a@b.c"}, "password": {"longenough"}}, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("unverified login status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not verified") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestVerifyThenLogin(t *testing.T) {
	_, r := newTestHandler(t)
	w := postForm(r, "/signup", url.Values{"email": {"a@b.c"}, "password": {"longenough"}}, nil)
	token := harvestToken(t, w.Body.String())

	req := httptest.NewRequest("GET", "/verify?token="+url.QueryEscape(token), nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK || !strings.Contains(w2.Body.String(), "Email verified") {
		t.Fatalf("verify: %d %s", w2.Code, w2.Body.String())
	}

	w3 := postForm(r, "/login", url.Values{"email": {"a@b.c"}, "password": {"longenough"}}, nil)
	if w3.Code != http.StatusSeeOther {
		t.Errorf("login status = %d", w3.Code)
	}
	if loc := w3.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect = %q", loc)
	}
}

func TestVerifyRejectsBadToken(t *testing.T) {
	_, r := newTestHandler(t)
	req := httptest.NewRequest("GET", "/verify?token=bogus", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	_, r := newTestHandler(t)
	postForm(r, "/signup", url.Values{"email": {"a@b.c"}, "password": {"longenough"}}, nil)

	w := postForm(r, "/login", url.Values{"email": {"a@b.c"}, "password": {"wrongwrong"}}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", w.Code)
	}
}

func TestForgotIsGeneric(t *testing.T) {
	_, r := newTestHandler(t)

	// Same message whether or not the account exists.
	w1 := postForm(r, "/password/forgot", url.Values{"email": {"nobody@example.com"}}, nil)
	w2 := postForm(r, "/password/forgot", url.Values{"email": {""}}, nil)
	for _, w := range []*httptest.ResponseRecorder{w1, w2} {
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "If that email exists") {
			t.Errorf("forgot: %d %s", w.Code, w.Body.String())
		}
	}
}

func TestPasswordResetFlow(t *testing.T) {
	_, r := newTestHandler(t)
	w := postForm(r, "/signup", url.Values{"email": {"a@b.c"}, "password": {"oldpassword"}}, nil)
	verifyToken := harvestToken(t, w.Body.String())

	req := httptest.NewRequest("GET", "/verify?token="+url.QueryEscape(verifyToken), nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	w2 := postForm(r, "/password/forgot", url.Values{"email": {"a@b.c"}}, nil)
	resetToken := harvestToken(t, w2.Body.String())

	w3 := postForm(r, "/password/reset", url.Values{
		"token":    {resetToken},
		"password": {"newpassword"},
	}, nil)
	if w3.Code != http.StatusSeeOther {
		t.Fatalf("reset status = %d, body %s", w3.Code, w3.Body.String())
	}

	w4 := postForm(r, "/login", url.Values{"email": {"a@b.c"}, "password": {"newpassword"}}, nil)
	if w4.Code != http.StatusSeeOther {
		t.Errorf("login with new password: %d", w4.Code)
	}
	w5 := postForm(r, "/login", url.Values{"email": {"a@b.c"}, "password": {"oldpassword"}}, nil)
	if w5.Code != http.StatusUnauthorized {
		t.Errorf("login with old password: %d", w5.Code)
	}
}

func TestAPIMe(t *testing.T) {
	_, r := newTestHandler(t)

	// Anonymous.
	req := httptest.NewRequest("GET", "/api/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var anon struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &anon); err != nil {
		t.Fatal(err)
	}
	if anon.Authenticated {
		t.Error("anonymous /api/me should be unauthenticated")
	}

	// Logged in (signup sets the session cookie).
	w2 := postForm(r, "/signup", url.Values{"email": {"a@b.c"}, "password": {"longenough"}}, nil)
	req2 := httptest.NewRequest("GET", "/api/me", nil)
	for _, c := range w2.Result().Cookies() {
		req2.AddCookie(c)
	}
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, req2)

	var me struct {
		Authenticated bool   `json:"authenticated"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := json.Unmarshal(w3.Body.Bytes(), &me); err != nil {
		t.Fatal(err)
	}
	if !me.Authenticated || me.Email != "a@b.c" || me.EmailVerified {
		t.Errorf("me = %+v", me)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	_, r := newTestHandler(t)
	w := postForm(r, "/signup", url.Values{"email": {"a@b.c"}, "password": {"longenough"}}, nil)
	cookies := w.Result().Cookies()

	req := httptest.NewRequest("GET", "/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusSeeOther {
		t.Fatalf("logout status = %d", w2.Code)
	}

	// The old cookie no longer authenticates.
	req3 := httptest.NewRequest("GET", "/api/me", nil)
	for _, c := range cookies {
		req3.AddCookie(c)
	}
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, req3)
	if !strings.Contains(w3.Body.String(), `"authenticated":false`) {
		t.Errorf("me after logout = %s", w3.Body.String())
	}
}
