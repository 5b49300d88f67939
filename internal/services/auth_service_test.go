package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRegisterValidatesInput(t *testing.T) {
	cases := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{name: "short username", input: RegisterInput{Username: "ab", Email: "a@example.com", Password: "secret1"}, field: "username"},
		{name: "long username", input: RegisterInput{Username: strings.Repeat("u", 51), Email: "a@example.com", Password: "secret1"}, field: "username"},
		{name: "bad email", input: RegisterInput{Username: "alice", Email: "not-an-email", Password: "secret1"}, field: "email"},
		{name: "short password", input: RegisterInput{Username: "alice", Email: "a@example.com", Password: "12345"}, field: "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := NewAuthService(&stubUsers{})
			_, err := service.Register(context.Background(), tc.input)

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if validationErr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, validationErr.Field)
			}
		})
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	users := &stubUsers{}
	service := NewAuthService(users)
	ctx := context.Background()

	if _, err := service.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("register alice: %v", err)
	}

	_, err := service.Register(ctx, RegisterInput{Username: "alice2", Email: "ALICE@example.com ", Password: "secret1"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate email, got %v", err)
	}

	_, err = service.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret1"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate username, got %v", err)
	}
}

func TestRegisterHashesPasswordAndAuthenticate(t *testing.T) {
	users := &stubUsers{}
	service := NewAuthService(users)
	ctx := context.Background()

	user, err := service.Register(ctx, RegisterInput{Username: " alice ", Email: "Alice@Example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Username != "alice" || user.Email != "alice@example.com" {
		t.Fatalf("expected normalized username and email, got %q %q", user.Username, user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret1" {
		t.Fatal("expected bcrypt hash to be stored")
	}

	if _, err := service.Authenticate(ctx, "alice@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := service.Authenticate(ctx, "nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	authenticated, err := service.Authenticate(ctx, "ALICE@example.com", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authenticated.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, authenticated.ID)
	}
}

func TestRegisterWrapsStorageFailure(t *testing.T) {
	service := NewAuthService(&stubUsers{createErr: errStubStorage})
	_, err := service.Register(context.Background(), RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})

	var storageErr *StorageError
	if !errors.As(err, &storageErr) || !errors.Is(err, errStubStorage) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
}

func TestFindByIDReturnsNotFound(t *testing.T) {
	service := NewAuthService(&stubUsers{})
	if _, err := service.FindByID(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
