package accounts

import (
	"context"
	"errors"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"resume-builder/internal/shared/auth"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	return NewService(NewMemoryRepo(), &auth.PasswordConfig{BcryptCost: bcrypt.MinCost})
}

func TestCreateAccountAndSignIn(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateAccount(ctx, " Ada@Example.com ", "correct horse", "Ada Lovelace")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if user.Email != "ada@example.com" || user.Provider != ProviderPassword {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.PasswordHash == "correct horse" {
		t.Fatalf("password stored in clear")
	}

	session, err := svc.SignIn(ctx, "ada@example.com", "correct horse")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if session.Token == "" || session.User.ID != user.ID {
		t.Fatalf("unexpected session: %+v", session)
	}

	current, err := svc.CurrentUser(ctx, session.Token)
	if err != nil || current == nil || current.ID != user.ID {
		t.Fatalf("CurrentUser = %v, %v", current, err)
	}
}

func TestCreateAccountRejectsDuplicatesAndWeakInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateAccount(ctx, "ada@example.com", "correct horse", ""); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if _, err := svc.CreateAccount(ctx, "ADA@example.com", "another pass", ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := svc.CreateAccount(ctx, "not-an-email", "correct horse", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.CreateAccount(ctx, "bob@example.com", "short", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.CreateAccount(ctx, "ada@example.com", "correct horse", ""); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if _, err := svc.SignIn(ctx, "ada@example.com", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.SignIn(ctx, "nobody@example.com", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignOutRevokesToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.CreateAccount(ctx, "ada@example.com", "correct horse", ""); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	session, err := svc.SignIn(ctx, "ada@example.com", "correct horse")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := svc.SignOut(ctx, session.Token); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	current, err := svc.CurrentUser(ctx, session.Token)
	if err != nil || current != nil {
		t.Fatalf("expected nil user after sign-out, got %v, %v", current, err)
	}
	if err := svc.SignOut(ctx, "garbage"); err != nil {
		t.Fatalf("SignOut with invalid token should be a no-op, got %v", err)
	}
}

func TestCurrentUserWithoutToken(t *testing.T) {
	svc := newTestService(t)
	for _, token := range []string{"", "abc.def.ghi"} {
		user, err := svc.CurrentUser(context.Background(), token)
		if err != nil || user != nil {
			t.Fatalf("CurrentUser(%q) = %v, %v", token, user, err)
		}
	}
}

func TestSubscribeDeliversEventsUntilUnsubscribed(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var mu sync.Mutex
	var got []EventType
	unsubscribe := svc.Subscribe(func(ev AuthEvent) {
		mu.Lock()
		got = append(got, ev.Type)
		mu.Unlock()
	})

	if _, err := svc.CreateAccount(ctx, "ada@example.com", "correct horse", ""); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	session, err := svc.SignIn(ctx, "ada@example.com", "correct horse")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := svc.SignOut(ctx, session.Token); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	unsubscribe()
	unsubscribe()
	if _, err := svc.SignIn(ctx, "ada@example.com", "correct horse"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []EventType{EventSignedUp, EventSignedIn, EventSignedOut}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func TestUpsertFromAuthKeepsPasswordHash(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user, err := svc.CreateAccount(ctx, "ada@example.com", "correct horse", "")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	updated, err := svc.UpsertFromAuth(ctx, User{ID: user.ID, Email: user.Email, FullName: "Ada L"})
	if err != nil {
		t.Fatalf("UpsertFromAuth: %v", err)
	}
	if updated.PasswordHash == "" || updated.FullName != "Ada L" {
		t.Fatalf("unexpected user: %+v", updated)
	}
	if _, err := svc.UpsertFromAuth(ctx, User{ID: "x"}); err == nil {
		t.Fatalf("expected error without email")
	}
}
