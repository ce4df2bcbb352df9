// Package auth issues and verifies HMAC-signed access tokens.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Identity is the authenticated principal carried by an access token.
type Identity struct {
	UserID   string
	UserName string
	Role     string
}

type claims struct {
	Sub  string `json:"sub"`
	Name string `json:"name"`
	Role string `json:"role"`
	JTI  string `json:"jti"`
	IAT  int64  `json:"iat"`
	Exp  int64  `json:"exp"`
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// Issue signs an access token for the identity, valid for ttl. The returned
// JTI identifies this token for revocation.
func Issue(secret []byte, id Identity, jti string, ttl time.Duration) (string, error) {
	now := time.Now()
	payloadBytes, err := json.Marshal(claims{
		Sub:  id.UserID,
		Name: id.UserName,
		Role: id.Role,
		JTI:  jti,
		IAT:  now.Unix(),
		Exp:  now.Add(ttl).Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}
	payload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	return payload + "." + sign(secret, payload), nil
}

// Verify checks the signature and expiry and returns the identity plus JTI.
func Verify(secret []byte, token string) (Identity, string, error) {
	payload, signature, ok := strings.Cut(token, ".")
	if !ok {
		return Identity{}, "", ErrInvalidToken
	}
	if !hmac.Equal([]byte(signature), []byte(sign(secret, payload))) {
		return Identity{}, "", ErrInvalidToken
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return Identity{}, "", ErrInvalidToken
	}
	var c claims
	if err := json.Unmarshal(decoded, &c); err != nil {
		return Identity{}, "", ErrInvalidToken
	}
	if c.Sub == "" || c.JTI == "" || c.Role == "" || c.Exp == 0 {
		return Identity{}, "", ErrInvalidToken
	}
	if time.Now().Unix() >= c.Exp {
		return Identity{}, "", ErrExpiredToken
	}
	return Identity{UserID: c.Sub, UserName: c.Name, Role: c.Role}, c.JTI, nil
}

func sign(secret []byte, payload string) string {
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// HashToken produces the storage key for a refresh token. Raw refresh tokens
// are never persisted.
func HashToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return fmt.Sprintf("%x", sum)
}
