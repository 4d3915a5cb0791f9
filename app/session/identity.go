package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// Identity is what the token says about its holder. It is read without
// verifying the signature and is for display only.
type Identity struct {
	Subject string
	Email   string
}

type identityClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Identity decodes the claims of a JWT token. Opaque tokens report ok=false.
func (s *Store) Identity() (Identity, bool) {
	return ParseIdentity(s.Token())
}

// ParseIdentity extracts subject and email from an unverified JWT.
func ParseIdentity(token string) (Identity, bool) {
	if token == "" {
		return Identity{}, false
	}
	var claims identityClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Identity{}, false
	}
	id := Identity{Subject: claims.Subject, Email: claims.Email}
	if id.Subject == "" && id.Email == "" {
		return Identity{}, false
	}
	return id, true
}

// Label is a short human name for the identity.
func (i Identity) Label() string {
	if i.Email != "" {
		return i.Email
	}
	return i.Subject
}
