package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/dgrijalva/jwt-go"
)

// ErrInvalidToken covers every token failure mode: undecodable, bad
// signature, or missing claims. Callers must not distinguish between them.
var ErrInvalidToken = errors.New("invalid token")

// HashPassword returns the hex sha-256 digest of a plaintext password.
// The digest must be deterministic: login looks users up by exact
// (username, digest) equality and the capability token embeds the digest so
// it can be revalidated statelessly against the current stored one.
func HashPassword(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// GenerateToken signs a capability token binding a username to its current
// password digest. There is no expiry claim: the token stays valid exactly
// as long as the digest matches the stored one, so a password change
// implicitly revokes every previously issued token.
func GenerateToken(username, passwordDigest, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"pwh": passwordDigest,
	})
	return token.SignedString([]byte(secret))
}

// ParseToken verifies the signature and returns the embedded username and
// password digest. The digest still has to be compared against the
// credential store by the caller.
func ParseToken(tokenString, secret string) (username, passwordDigest string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}
	username, ok = claims["sub"].(string)
	if !ok || username == "" {
		return "", "", ErrInvalidToken
	}
	passwordDigest, ok = claims["pwh"].(string)
	if !ok || passwordDigest == "" {
		return "", "", ErrInvalidToken
	}
	return username, passwordDigest, nil
}
