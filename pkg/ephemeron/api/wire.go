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

// All wire types use camelCase JSON field names per spec.md #4.7.

// createRequest is the body of POST /.
type createRequest struct {
	Preset          string `json:"preset"`
	LifetimeMinutes int64  `json:"lifetimeMinutes"`
}

// createResponse is the 202 body of POST /.
type createResponse struct {
	ID             string `json:"id"`
	ExpirationTime string `json:"expirationTime"`
}

// getResponse is the 200 body of GET /{id}.
type getResponse struct {
	Host           string `json:"host"`
	ExpirationTime string `json:"expirationTime"`
	TLS            bool   `json:"tls"`
}

// patchRequest is the body of PATCH /{id}.
type patchRequest struct {
	LifetimeMinutes int64 `json:"lifetimeMinutes"`
}

// patchResponse is the 200 body of PATCH /{id}.
type patchResponse struct {
	ExpirationTime string `json:"expirationTime"`
}

// authResponse is the 200 body of POST /auth.
type authResponse struct {
	Token string `json:"token"`
}
