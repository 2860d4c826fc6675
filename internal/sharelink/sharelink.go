// Package sharelink encodes word lists into signed tokens that can be pasted
// into a URL and imported elsewhere.
package sharelink

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"spellstory/internal/models"
)

const issuer = "spellstory"

// SharedList is the portable part of a word list
type SharedList struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Words       []string `json:"words"`
}

type shareClaims struct {
	jwt.RegisteredClaims
	List SharedList `json:"list"`
}

// Codec signs and verifies share tokens with an HMAC secret
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec creates a codec. A zero ttl produces tokens that never expire.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Encode produces a share token for list
func (c *Codec) Encode(list models.WordList) (string, error) {
	shared := SharedList{
		Name:        strings.TrimSpace(list.Name),
		Description: list.Description,
		Words:       list.Words,
	}
	if !shared.valid() {
		return "", errors.New("a shared list needs a name and at least one word")
	}

	now := c.now()
	claims := shareClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
		List: shared,
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies token and returns the list it carries. ok is false for a
// malformed, tampered or expired token and for a list without a name or words.
func (c *Codec) Decode(token string) (SharedList, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return SharedList{}, false
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(c.now),
	)
	claims := &shareClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return SharedList{}, false
	}

	if !claims.List.valid() {
		return SharedList{}, false
	}
	return claims.List, true
}

func (l SharedList) valid() bool {
	if strings.TrimSpace(l.Name) == "" || len(l.Words) == 0 {
		return false
	}
	for _, w := range l.Words {
		if strings.TrimSpace(w) == "" {
			return false
		}
	}
	return true
}
