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

// Package auth implements the token issuer (C7) and the bearer-token
// auth filter (C8).
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenLifetime is the fixed lifetime of every issued token.
const TokenLifetime = 5 * time.Minute

// Claims is the JWT payload this system issues and verifies: sub
// ("<uid>.<app>"), an optional gid ("<gid>.<app>"), and the standard
// expiry.
type Claims struct {
	Sub string `json:"sub"`
	Gid string `json:"gid,omitempty"`
	jwt.RegisteredClaims
}

// GetSub returns the sub claim identifying the token's creator, used by
// C9's ownership check against an Ephemeron's created-by annotation.
func (c *Claims) GetSub() string { return c.Sub }

// HasGid reports whether the token carries a group claim.
func (c *Claims) HasGid() bool { return c.Gid != "" }
