// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Sentinel errors the API layer (C9) maps to HTTP status codes per the
// error taxonomy in spec.md #7.
var (
	// ErrUnauthorized covers both an unknown app and a mismatched key.
	// It is deliberately opaque: the caller cannot distinguish "app
	// unknown" from "key wrong" (no oracle).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidUserID reports a malformed or over-length uid.
	ErrInvalidUserID = errors.New("invalid user id")
	// ErrInvalidGroupID reports a malformed or over-length gid.
	ErrInvalidGroupID = errors.New("invalid group id")
)

// maxTotalLen is the hard ceiling spec.md #4.5 places on uid/gid:
// len(id) + 1 + len(app) must not exceed 63, so the composed sub/gid
// claim can later serve as a label value.
const maxTotalLen = 63

// AppKeys maps a configured app id to its expected API key.
type AppKeys map[string]string

// Issuer validates app/key/uid/gid and issues signed JWTs (C7).
type Issuer struct {
	secret []byte
	apps   AppKeys
}

// NewIssuer constructs an Issuer. secret must be non-empty; this is
// checked at startup (a fatal config error otherwise), not here.
func NewIssuer(secret []byte, apps AppKeys) *Issuer {
	return &Issuer{secret: secret, apps: apps}
}

// Request is the body of POST /auth.
type Request struct {
	App string `json:"app"`
	Key string `json:"key"`
	UID string `json:"uid"`
	GID string `json:"gid,omitempty"`
}

// isValidID reports whether id is a non-empty ASCII-alphanumeric string
// that, combined with app, fits within the 63-byte label-value ceiling.
func isValidID(id, app string) bool {
	if id == "" {
		return false
	}
	if len(id)+1+len(app) > maxTotalLen {
		return false
	}
	for _, r := range id {
		if !isASCIIAlphanumeric(r) {
			return false
		}
	}
	return true
}

func isASCIIAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// Issue validates the request and, on success, returns a signed JWT with
// sub="<uid>.<app>", gid="<gid>.<app>" (if gid was supplied), and a
// 5-minute expiry.
func (iss *Issuer) Issue(req Request) (string, error) {
	key, ok := iss.apps[req.App]
	if !ok || key != req.Key {
		return "", ErrUnauthorized
	}

	if !isValidID(req.UID, req.App) {
		return "", ErrInvalidUserID
	}
	if req.GID != "" && !isValidID(req.GID, req.App) {
		return "", ErrInvalidGroupID
	}

	now := time.Now()
	claims := &Claims{
		Sub: fmt.Sprintf("%s.%s", req.UID, req.App),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if req.GID != "" {
		claims.Gid = fmt.Sprintf("%s.%s", req.GID, req.App)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(iss.secret)
	if err != nil {
		return "", errors.Wrap(err, "CreateToken")
	}
	return signed, nil
}

// Verify parses and validates a signed token, returning its claims.
func Verify(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "verify token")
	}
	return claims, nil
}
