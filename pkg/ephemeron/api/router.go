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

package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/qualified/ephemeron/pkg/ephemeron/auth"
)

// MaxBodyBytes is the fixed request-body ceiling (spec.md #9 notes this
// as a literal default a future implementation may want to make
// configurable; retained as a literal here).
const MaxBodyBytes = 1 << 20 // 1 MiB

// corsAllowedMethods and corsAllowedHeaders mirror spec.md #6's Network
// surface section verbatim.
const (
	corsAllowedMethods = "GET, POST, PATCH, DELETE, OPTIONS"
	corsAllowedHeaders = "Authorization, Content-Type"
)

// NewRouter builds the HTTP router (C10): method+exact-path dispatch via
// httprouter, wrapped with a body-size limit, CORS headers, and
// rejection-to-JSON-error mapping for 404/405. Grounded on
// openshift-ci-tools' vault-secret-collection-manager middleware.go,
// which embeds *httprouter.Router and wraps each verb's registration.
func NewRouter(h *Handlers, jwtSecret []byte) http.Handler {
	r := httprouter.New()
	r.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, errNotFound("not found"))
	})
	r.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, &apiError{Status: http.StatusMethodNotAllowed, Message: "method not allowed"})
	})

	r.POST("/auth", h.Auth)
	r.GET("/", h.Liveness)

	authed := func(handle httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
			auth.Filter(jwtSecret, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				handle(w, req, ps)
			})).ServeHTTP(w, req)
		}
	}

	r.POST("/", authed(h.Create))
	r.GET("/:id", authed(h.Get))
	r.PATCH("/:id", authed(h.Patch))
	r.DELETE("/:id", authed(h.Delete))

	return cors(limitBody(r))
}

// limitBody caps every request body at MaxBodyBytes.
func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		req.Body = http.MaxBytesReader(w, req.Body, MaxBodyBytes)
		next.ServeHTTP(w, req)
	})
}

// cors applies the static CORS policy from spec.md #6: any origin, the
// listed methods and headers. No third-party CORS middleware is used
// since none appears anywhere in the retrieved example corpus (see
// DESIGN.md) — this is three response headers, not worth an unfounded
// new dependency.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", corsAllowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", corsAllowedHeaders)
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, req)
	})
}
