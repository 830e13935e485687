package auth

import (
	"context"
	"testing"
	"time"

	"github.com/vscarantav/parallelscriptures/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestCreateAndFetchUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "  Reader@Example.COM ", "hunter2secret")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Email != "reader@example.com" {
		t.Errorf("email not normalized: %q", u.Email)
	}
	if u.Verified() {
		t.Error("new user should be unverified")
	}

	got, err := s.UserByEmail(ctx, "reader@example.com")
	if err != nil {
		t.Fatalf("UserByEmail: %v", err)
	}
	if got == nil || got.ID != u.ID {
		t.Fatalf("UserByEmail = %+v", got)
	}

	if !s.CheckPassword(got, "hunter2secret") {
		t.Error("correct password rejected")
	}
	if s.CheckPassword(got, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestUserByEmailMissing(t *testing.T) {
	s := newTestStore(t)
	u, err := s.UserByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("UserByEmail: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil user, got %+v", u)
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.CreateUser(ctx, "a@b.c", "password1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateUser(ctx, "a@b.c", "password2"); err == nil {
		t.Error("duplicate email should fail the unique constraint")
	}
}

func TestMarkVerifiedIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u, err := s.CreateUser(ctx, "a@b.c", "password1")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.MarkVerified(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	first, err := s.UserByID(ctx, u.ID)
	if err != nil || first == nil || !first.Verified() {
		t.Fatalf("user not verified: %+v, %v", first, err)
	}

	if err := s.MarkVerified(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	second, err := s.UserByID(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !second.EmailVerifiedAt.Equal(*first.EmailVerifiedAt) {
		t.Error("second MarkVerified must not move the timestamp")
	}
}

func TestSetPassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u, err := s.CreateUser(ctx, "a@b.c", "oldpassword")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetPassword(ctx, u.ID, "newpassword"); err != nil {
		t.Fatal(err)
	}

	got, err := s.UserByID(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if s.CheckPassword(got, "oldpassword") {
		t.Error("old password still accepted")
	}
	if !s.CheckPassword(got, "newpassword") {
		t.Error("new password rejected")
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u, err := s.CreateUser(ctx, "a@b.c", "password1")
	if err != nil {
		t.Fatal(err)
	}

	token, err := s.CreateSession(ctx, u.ID)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.UserBySession(ctx, token)
	if err != nil {
		t.Fatalf("UserBySession: %v", err)
	}
	if got == nil || got.ID != u.ID {
		t.Fatalf("UserBySession = %+v", got)
	}

	if err := s.DeleteSession(ctx, token); err != nil {
		t.Fatal(err)
	}
	got, err = s.UserBySession(ctx, token)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("deleted session still resolves")
	}

	// Empty and unknown tokens resolve to no user without error.
	if got, err := s.UserBySession(ctx, ""); err != nil || got != nil {
		t.Errorf("empty token: %+v, %v", got, err)
	}
}

func TestExpiredSessionRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u, err := s.CreateUser(ctx, "a@b.c", "password1")
	if err != nil {
		t.Fatal(err)
	}

	token, err := s.CreateSession(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	// Force the expiry into the past.
	if _, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET expires_at = ? WHERE token = ?`,
		time.Now().UTC().Add(-time.Minute), token,
	); err != nil {
		t.Fatal(err)
	}

	got, err := s.UserBySession(ctx, token)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("expired session still resolves")
	}
}
