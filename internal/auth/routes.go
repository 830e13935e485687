package auth

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler serves the account pages and the /api/me endpoint.
type Handler struct {
	store        *Store
	signer       *Signer
	mailer       *Mailer
	showDevLinks bool
	tmpl         *template.Template
}

// NewHandler wires the auth handler.
func NewHandler(store *Store, signer *Signer, mailer *Mailer, showDevLinks bool) *Handler {
	return &Handler{
		store:        store,
		signer:       signer,
		mailer:       mailer,
		showDevLinks: showDevLinks,
		tmpl:         template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// RegisterRoutes mounts the account routes.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/signup", h.signupForm)
	r.Post("/signup", h.signup)
	r.Get("/login", h.loginForm)
	r.Post("/login", h.login)
	r.Get("/logout", h.logout)
	r.Get("/verify", h.verify)
	r.Get("/verify/resend", h.resendVerification)
	r.Get("/password/forgot", h.forgotForm)
	r.Post("/password/forgot", h.forgot)
	r.Get("/password/reset", h.resetForm)
	r.Post("/password/reset", h.reset)
	r.Get("/api/me", h.me)
}

// pageData feeds every account template.
type pageData struct {
	Error   string
	Info    string
	Success string
	Email   string
	Token   string
	Next    string
	DevLink string
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("auth: rendering %s: %v", name, err)
	}
}

// absURL builds an absolute link for emails, honoring proxy headers.
func absURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}

func (h *Handler) verifyLink(r *http.Request, userID string) string {
	token := h.signer.Sign(PurposeVerify, userID)
	return absURL(r, "/verify?token="+url.QueryEscape(token))
}

func (h *Handler) sendVerification(r *http.Request, u *User) (link string, sent bool) {
	link = h.verifyLink(r, u.ID)
	minutes := int(h.signer.MaxAge() / time.Minute)
	body := fmt.Sprintf("Welcome!\n\nConfirm your email by visiting:\n%s\n\nThis link expires in %d minutes.", link, minutes)
	sent, err := h.mailer.Send(u.Email, "Verify your email", body)
	if err != nil {
		log.Printf("auth: verification mail: %v", err)
	}
	return link, sent
}

func (h *Handler) devLink(link string, sent bool) string {
	if !sent && h.showDevLinks {
		return link
	}
	return ""
}

func (h *Handler) signupForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "signup.html", pageData{})
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	email := NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || len(password) < 8 {
		h.render(w, http.StatusBadRequest, "signup.html", pageData{
			Error: "Please provide a valid email and a password (min 8 chars).",
			Email: email,
		})
		return
	}

	existing, err := h.store.UserByEmail(r.Context(), email)
	if err != nil {
		h.internalError(w, "signup", err)
		return
	}
	if existing != nil {
		h.render(w, http.StatusBadRequest, "signup.html", pageData{
			Error: "Email is already registered.",
			Email: email,
		})
		return
	}

	u, err := h.store.CreateUser(r.Context(), email, password)
	if err != nil {
		h.internalError(w, "signup", err)
		return
	}
	h.startSession(w, r, u.ID)

	link, sent := h.sendVerification(r, u)
	h.render(w, http.StatusOK, "verify_notice.html", pageData{
		Email:   u.Email,
		DevLink: h.devLink(link, sent),
	})
}

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "login.html", pageData{Next: r.URL.Query().Get("next")})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	email := NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")

	u, err := h.store.UserByEmail(r.Context(), email)
	if err != nil {
		h.internalError(w, "login", err)
		return
	}
	if u == nil || !h.store.CheckPassword(u, password) {
		h.render(w, http.StatusUnauthorized, "login.html", pageData{
			Error: "Invalid email or password.",
			Email: email,
		})
		return
	}
	if !u.Verified() {
		h.render(w, http.StatusForbidden, "login.html", pageData{
			Error: "Email not verified. Check your inbox, or visit /verify/resend?email=" + url.QueryEscape(email),
			Email: email,
		})
		return
	}

	h.startSession(w, r, u.ID)

	next := r.URL.Query().Get("next")
	if next == "" || next[0] != '/' {
		next = "/"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if err := h.store.DeleteSession(r.Context(), c.Value); err != nil {
			log.Printf("auth: logout: %v", err)
		}
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	uid, err := h.signer.Verify(r.URL.Query().Get("token"), PurposeVerify)
	if err != nil {
		h.render(w, http.StatusBadRequest, "verify_notice.html", pageData{
			Error: "Invalid or expired verification link.",
		})
		return
	}

	u, err := h.store.UserByID(r.Context(), uid)
	if err != nil {
		h.internalError(w, "verify", err)
		return
	}
	if u == nil {
		h.render(w, http.StatusNotFound, "verify_notice.html", pageData{Error: "Account not found."})
		return
	}
	if err := h.store.MarkVerified(r.Context(), u.ID); err != nil {
		h.internalError(w, "verify", err)
		return
	}

	h.startSession(w, r, u.ID)
	h.render(w, http.StatusOK, "verify_notice.html", pageData{Success: "Email verified!"})
}

func (h *Handler) resendVerification(w http.ResponseWriter, r *http.Request) {
	email := NormalizeEmail(r.URL.Query().Get("email"))
	if email == "" {
		if u := FromContext(r.Context()); u != nil {
			email = u.Email
		}
	}
	if email == "" {
		h.render(w, http.StatusBadRequest, "verify_notice.html", pageData{Error: "No email provided."})
		return
	}

	u, err := h.store.UserByEmail(r.Context(), email)
	if err != nil {
		h.internalError(w, "resend", err)
		return
	}
	if u == nil {
		h.render(w, http.StatusNotFound, "verify_notice.html", pageData{Error: "Account not found."})
		return
	}
	if u.Verified() {
		h.render(w, http.StatusOK, "verify_notice.html", pageData{Success: "Email already verified."})
		return
	}

	link, sent := h.sendVerification(r, u)
	h.render(w, http.StatusOK, "verify_notice.html", pageData{
		Success: "Verification link sent to " + u.Email + ".",
		DevLink: h.devLink(link, sent),
	})
}

func (h *Handler) forgotForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "forgot.html", pageData{})
}

func (h *Handler) forgot(w http.ResponseWriter, r *http.Request) {
	// One generic response regardless of whether the account exists,
	// to avoid account enumeration.
	const info = "If that email exists, we sent a reset link."

	email := NormalizeEmail(r.FormValue("email"))
	if email == "" {
		h.render(w, http.StatusOK, "forgot.html", pageData{Info: info})
		return
	}

	u, err := h.store.UserByEmail(r.Context(), email)
	if err != nil {
		h.internalError(w, "forgot", err)
		return
	}
	dev := ""
	if u != nil {
		token := h.signer.Sign(PurposeReset, u.ID)
		link := absURL(r, "/password/reset?token="+url.QueryEscape(token))
		minutes := int(h.signer.MaxAge() / time.Minute)
		body := fmt.Sprintf("Reset your password using this link:\n%s\n\nThis link expires in %d minutes.", link, minutes)
		sent, err := h.mailer.Send(u.Email, "Reset your password", body)
		if err != nil {
			log.Printf("auth: reset mail: %v", err)
		}
		dev = h.devLink(link, sent)
	}
	h.render(w, http.StatusOK, "forgot.html", pageData{Info: info, DevLink: dev})
}

func (h *Handler) resetForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "reset.html", pageData{Token: r.URL.Query().Get("token")})
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")
	password := r.FormValue("password")
	if len(password) < 8 {
		h.render(w, http.StatusBadRequest, "reset.html", pageData{
			Token: token,
			Error: "Password must be at least 8 characters.",
		})
		return
	}

	uid, err := h.signer.Verify(token, PurposeReset)
	if err != nil {
		h.render(w, http.StatusBadRequest, "reset.html", pageData{Error: "Invalid or expired reset link."})
		return
	}

	u, err := h.store.UserByID(r.Context(), uid)
	if err != nil {
		h.internalError(w, "reset", err)
		return
	}
	if u == nil {
		h.render(w, http.StatusNotFound, "reset.html", pageData{Error: "Account not found."})
		return
	}
	if err := h.store.SetPassword(r.Context(), u.ID, password); err != nil {
		h.internalError(w, "reset", err)
		return
	}

	h.startSession(w, r, u.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// me tells the frontend its auth state; never an error, just
// authenticated=false when logged out.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	u := FromContext(r.Context())
	if u == nil {
		json.NewEncoder(w).Encode(map[string]any{"authenticated": false})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"authenticated":  true,
		"email":          u.Email,
		"created_at":     u.CreatedAt.Format(time.RFC3339),
		"email_verified": u.Verified(),
	})
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, userID string) {
	token, err := h.store.CreateSession(r.Context(), userID)
	if err != nil {
		log.Printf("auth: creating session: %v", err)
		return
	}
	setSessionCookie(w, token)
}

func (h *Handler) internalError(w http.ResponseWriter, op string, err error) {
	log.Printf("auth: %s: %v", op, err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
