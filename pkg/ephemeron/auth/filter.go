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
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

type claimsContextKey struct{}

// Filter extracts and verifies the bearer token on a protected route
// (C8), yielding the decoded Claims to the handler via the request
// context. On any failure it rejects with 401 and does not call next.
func Filter(secret []byte, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		header := req.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			writeUnauthorized(w)
			return
		}

		claims, err := Verify(secret, strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(req.Context(), claimsContextKey{}, claims)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// writeUnauthorized renders the same {"message": ...} envelope every other
// rejection path in the API tier uses (spec.md #4.7/#4.8), rather than
// http.Error's plain-text body.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "unauthorized"})
}

// ClaimsFromContext retrieves the Claims a successful Filter call placed
// on the request context. ok is false if none is present (i.e. the route
// is not behind Filter).
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*Claims)
	return claims, ok
}
