// Package auth issues and checks the HS256 bearer tokens of signed-in
// editors. Guests are identified by the server middleware instead.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const defaultTTL = 24 * time.Hour

// Claims identifies a signed-in editor.
type Claims struct {
	Sub   string `json:"sub"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Exp   int64  `json:"exp,omitempty"`
	Iat   int64  `json:"iat,omitempty"`
}

type header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ,omitempty"`
}

var (
	errMissingSecret = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = fmt.Errorf("%w: expired", ErrInvalidToken)
)

var encoding = base64.RawURLEncoding

// SignJWT signs claims with the configured secret. Iat and Exp default to
// now and now plus one day.
func SignJWT(claims Claims) (string, error) {
	secret, err := secretKey()
	if err != nil {
		return "", err
	}
	if claims.Sub == "" {
		return "", errors.New("sub is required")
	}
	now := time.Now().UTC()
	if claims.Iat == 0 {
		claims.Iat = now.Unix()
	}
	if claims.Exp == 0 {
		claims.Exp = now.Add(defaultTTL).Unix()
	}

	h, err := json.Marshal(header{Alg: "HS256", Typ: "JWT"})
	if err != nil {
		return "", err
	}
	p, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	unsigned := encoding.EncodeToString(h) + "." + encoding.EncodeToString(p)
	return unsigned + "." + encoding.EncodeToString(mac(unsigned, secret)), nil
}

// VerifyJWT checks the signature, algorithm and expiry of token.
func VerifyJWT(token string) (Claims, error) {
	secret, err := secretKey()
	if err != nil {
		return Claims{}, err
	}
	unsigned, sig, ok := cutLast(token)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	rawSig, err := encoding.DecodeString(sig)
	if err != nil || !hmac.Equal(rawSig, mac(unsigned, secret)) {
		return Claims{}, ErrInvalidToken
	}

	rawHeader, rawPayload, ok := strings.Cut(unsigned, ".")
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	var h header
	if err := decodeSegment(rawHeader, &h); err != nil || h.Alg != "HS256" {
		return Claims{}, ErrInvalidToken
	}
	var claims Claims
	if err := decodeSegment(rawPayload, &claims); err != nil || claims.Sub == "" {
		return Claims{}, ErrInvalidToken
	}
	if claims.Exp > 0 && time.Now().UTC().Unix() > claims.Exp {
		return Claims{}, ErrExpiredToken
	}
	return claims, nil
}

func cutLast(token string) (string, string, bool) {
	if strings.Count(token, ".") != 2 {
		return "", "", false
	}
	i := strings.LastIndexByte(token, '.')
	return token[:i], token[i+1:], true
}

func decodeSegment(seg string, v any) error {
	raw, err := encoding.DecodeString(seg)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func mac(input string, secret []byte) []byte {
	m := hmac.New(sha256.New, secret)
	m.Write([]byte(input))
	return m.Sum(nil)
}

// secretKey reads JWT_SECRET. Production refuses to fall back to the
// development secret.
func secretKey() ([]byte, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret != "" {
		return []byte(secret), nil
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ENV"))) {
	case "production", "prod":
		return nil, fmt.Errorf("%w: JWT_SECRET required in production", errMissingSecret)
	}
	return []byte("dev-secret"), nil
}
