package signature

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Scheme is the Authorization scheme used by the Walley Checkout API.
const Scheme = "SharedKey"

// SharedKeySigner produces Walley SharedKey authorization values.
//
// The token is base64(username + ":" + hex(sha256(body + path + accessKey))).
// The body must be the exact bytes sent on the wire.
type SharedKeySigner struct {
	Username  string
	AccessKey string
}

// Sign returns the base64 token without the scheme prefix.
func (s *SharedKeySigner) Sign(body []byte, path string) (string, error) {
	if s == nil {
		return "", errors.New("signature: signer is nil")
	}
	if s.Username == "" || s.AccessKey == "" {
		return "", errors.New("signature: username and access key are required")
	}
	return token(s.Username, s.AccessKey, body, path), nil
}

// Header returns the complete Authorization header value.
func (s *SharedKeySigner) Header(body []byte, path string) (string, error) {
	tok, err := s.Sign(body, path)
	if err != nil {
		return "", err
	}
	return Scheme + " " + tok, nil
}

// Verify checks an Authorization header value against body and path.
func (s *SharedKeySigner) Verify(authorization string, body []byte, path string) error {
	if s == nil || s.Username == "" || s.AccessKey == "" {
		return errors.New("signature: username and access key are required")
	}
	username, digest, err := ParseHeader(authorization)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.Username)) != 1 {
		return errors.New("signature: unknown username")
	}
	want := Digest(body, path, s.AccessKey)
	if subtle.ConstantTimeCompare([]byte(digest), []byte(want)) != 1 {
		return errors.New("signature: verify failed")
	}
	return nil
}

// Digest is the lowercase hex SHA-256 of body + path + accessKey.
func Digest(body []byte, path string, accessKey string) string {
	h := sha256.New()
	h.Write(body)
	h.Write([]byte(path))
	h.Write([]byte(accessKey))
	return hex.EncodeToString(h.Sum(nil))
}

// ParseHeader splits "SharedKey <base64>" into username and hex digest.
func ParseHeader(value string) (username string, digest string, err error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", "", errors.New("signature: empty authorization")
	}
	scheme, tok, ok := strings.Cut(value, " ")
	if !ok || !strings.EqualFold(scheme, Scheme) {
		return "", "", fmt.Errorf("signature: unsupported scheme in %q", value)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(tok))
	if err != nil {
		return "", "", fmt.Errorf("signature: invalid base64 token: %w", err)
	}
	username, digest, ok = strings.Cut(string(raw), ":")
	if !ok || username == "" || digest == "" {
		return "", "", errors.New("signature: token must be username:digest")
	}
	return username, digest, nil
}

func token(username, accessKey string, body []byte, path string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + Digest(body, path, accessKey)))
}
