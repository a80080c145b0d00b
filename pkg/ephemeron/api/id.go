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

// Package api implements the token issuer's HTTP surface, the REST
// handlers (C9), and the HTTP router (C10).
package api

import (
	"strings"

	"github.com/google/uuid"
)

// newID generates an opaque, unique, URL- and DNS-label-safe id: a
// lowercase hex string with no separators, so it is valid both as a
// Kubernetes object name and as the leftmost label of an ingress host
// ("<id>.<domain>").
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
