package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/xcelerate-fit/xcelerate-backend/pkg/config"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/security"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}

	hash, err := security.HashPassword("very-secure-password", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty string")
	}

	ok, err := security.VerifyPassword("very-secure-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if _, err := security.VerifyPassword("irrelevant", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestValidateNewPassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		confirm  string
		min      int
		want     error
	}{
		{name: "ok", password: "secret1", confirm: "secret1", min: 6},
		{name: "exact minimum", password: "abcdef", confirm: "abcdef", min: 6},
		{name: "too short", password: "abc", confirm: "abc", min: 6, want: security.ErrPasswordTooShort},
		{name: "short wins over mismatch", password: "abc", confirm: "abd", min: 6, want: security.ErrPasswordTooShort},
		{name: "mismatch", password: "secret1", confirm: "secret2", min: 6, want: security.ErrPasswordMismatch},
		{name: "multibyte counted as characters", password: "ééééé", confirm: "ééééé", min: 6, want: security.ErrPasswordTooShort},
		{name: "zero min falls back to default", password: "12345", confirm: "12345", min: 0, want: security.ErrPasswordTooShort},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := security.ValidateNewPassword(tc.password, tc.confirm, tc.min)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v got %v", tc.want, err)
			}
		})
	}
}

func TestNeedsRehashTracksConfiguredCosts(t *testing.T) {
	cheap := config.PasswordConfig{ArgonMemoryKB: 64, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}
	hash, err := security.HashPassword("tempo-run", cheap)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if security.NeedsRehash(hash, cheap) {
		t.Fatal("hash made with current costs should not need a rehash")
	}

	stronger := cheap
	stronger.ArgonTime = 2
	if !security.NeedsRehash(hash, stronger) {
		t.Fatal("expected rehash after raising the time cost")
	}
	if ok, err := security.VerifyPassword("tempo-run", hash); err != nil || !ok {
		t.Fatalf("old hash must still verify: %v %v", ok, err)
	}

	if security.NeedsRehash("not-a-hash", stronger) {
		t.Fatal("malformed hashes are never rehashed")
	}
}

func TestVerifyPasswordRejectsForeignVersion(t *testing.T) {
	hash, err := security.HashPassword("tempo-run", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	tampered := strings.Replace(hash, "$v=19$", "$v=16$", 1)
	if _, err := security.VerifyPassword("tempo-run", tampered); !errors.Is(err, security.ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}
