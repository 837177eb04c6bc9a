package security

import (
	"strings"
	"testing"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/config"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	encoded, err := HashPassword("correct horse battery", config.PasswordConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("unexpected hash format %q", encoded)
	}

	ok, err := VerifyPassword("correct horse battery", encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("correct password rejected")
	}

	ok, err = VerifyPassword("wrong password", encoded)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("wrong password accepted")
	}
}

func TestHashPasswordSaltsEveryCall(t *testing.T) {
	first, err := HashPassword("repeat-me", config.PasswordConfig{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := HashPassword("repeat-me", config.PasswordConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("anything", "not-an-argon2-hash"); err == nil {
		t.Fatal("malformed hash accepted")
	}
}

func TestGenerateTempPasswordLengthAndCharset(t *testing.T) {
	pw, err := GenerateTempPassword(16)
	if err != nil {
		t.Fatal(err)
	}
	if len(pw) != 16 {
		t.Fatalf("length %d, want 16", len(pw))
	}

	other, err := GenerateTempPassword(16)
	if err != nil {
		t.Fatal(err)
	}
	if pw == other {
		t.Fatal("two generated passwords are identical")
	}
}
