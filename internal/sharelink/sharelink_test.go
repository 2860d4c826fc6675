package sharelink

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"spellstory/internal/models"
)

func TestRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret", 0)

	token, err := codec.Encode(models.WordList{Name: "Animals", Words: []string{"cat", "dog"}})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, ok := codec.Decode(token)
	if !ok {
		t.Fatal("Decode() ok = false")
	}
	if got.Name != "Animals" {
		t.Errorf("Name = %q, want Animals", got.Name)
	}
	if len(got.Words) != 2 || got.Words[0] != "cat" || got.Words[1] != "dog" {
		t.Errorf("Words = %v, want [cat dog]", got.Words)
	}
}

func TestEncodeRejectsIncompleteList(t *testing.T) {
	codec := NewCodec("test-secret", 0)

	tests := []struct {
		name string
		list models.WordList
	}{
		{name: "no name", list: models.WordList{Name: "  ", Words: []string{"cat"}}},
		{name: "no words", list: models.WordList{Name: "Animals"}},
		{name: "blank word", list: models.WordList{Name: "Animals", Words: []string{"cat", " "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := codec.Encode(tt.list); err == nil {
				t.Error("Encode() error = nil, want error")
			}
		})
	}
}

func signRaw(t *testing.T, secret string, claims shareClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}
	return token
}

func TestDecodeRejects(t *testing.T) {
	codec := NewCodec("test-secret", 0)
	valid, err := codec.Encode(models.WordList{Name: "Animals", Words: []string{"cat"}})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	parts := strings.Split(valid, ".")

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "truncated", token: parts[0] + "." + parts[1]},
		{name: "tampered payload", token: parts[0] + "." + parts[1] + "x." + parts[2]},
		{name: "other secret", token: signRaw(t, "other-secret", shareClaims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer},
			List:             SharedList{Name: "Animals", Words: []string{"cat"}},
		})},
		{name: "missing name", token: signRaw(t, "test-secret", shareClaims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer},
			List:             SharedList{Words: []string{"cat"}},
		})},
		{name: "empty words", token: signRaw(t, "test-secret", shareClaims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer},
			List:             SharedList{Name: "Animals", Words: []string{}},
		})},
		{name: "wrong issuer", token: signRaw(t, "test-secret", shareClaims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"},
			List:             SharedList{Name: "Animals", Words: []string{"cat"}},
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := codec.Decode(tt.token); ok {
				t.Errorf("Decode() = %+v, true; want false", got)
			}
		})
	}
}

func TestDecodeExpired(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)
	issued := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	codec.now = func() time.Time { return issued }

	token, err := codec.Encode(models.WordList{Name: "Animals", Words: []string{"cat"}})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if _, ok := codec.Decode(token); !ok {
		t.Fatal("Decode() before expiry ok = false")
	}

	codec.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, ok := codec.Decode(token); ok {
		t.Error("Decode() after expiry ok = true")
	}
}
