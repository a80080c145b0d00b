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
	"encoding/json"
	"net/http"
)

// apiError is the taxonomy from spec.md #7: a status code plus an
// opaque-or-specific message, always rendered as JSON {"message": ...}
// except for DELETE's empty-body success path.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string { return e.Message }

func errPresetLookup(name string) *apiError {
	return &apiError{Status: http.StatusNotFound, Message: "preset " + name + " not found"}
}

func errInvalidLifetime() *apiError {
	return &apiError{Status: http.StatusBadRequest, Message: "invalid lifetimeMinutes"}
}

func errForbidden() *apiError {
	return &apiError{Status: http.StatusForbidden, Message: "forbidden"}
}

func errUnauthorized() *apiError {
	return &apiError{Status: http.StatusUnauthorized, Message: "unauthorized"}
}

func errBadRequest(msg string) *apiError {
	return &apiError{Status: http.StatusBadRequest, Message: msg}
}

func errNotFound(msg string) *apiError {
	return &apiError{Status: http.StatusNotFound, Message: msg}
}

func errInternal(msg string) *apiError {
	return &apiError{Status: http.StatusInternalServerError, Message: msg}
}

// writeError renders an apiError (or a generic error, mapped to 500) as
// {"message": ...} with the appropriate status code.
func writeError(w http.ResponseWriter, err error) {
	ae, ok := err.(*apiError)
	if !ok {
		ae = errInternal(err.Error())
	}
	writeJSON(w, ae.Status, map[string]string{"message": ae.Message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}
