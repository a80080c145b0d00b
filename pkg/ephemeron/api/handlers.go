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
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	ephemeronv1alpha1 "github.com/qualified/ephemeron/pkg/apis/ephemeron/v1alpha1"
	"github.com/qualified/ephemeron/pkg/ephemeron/auth"
	"github.com/qualified/ephemeron/pkg/ephemeron/config"
	"github.com/qualified/ephemeron/pkg/ephemeron/resources"
)

// Handlers implements C9: the four REST operations plus liveness and
// token issuance, translating HTTP requests into C2 operations and
// enforcing the ownership rule from C8's claims.
type Handlers struct {
	resources *resources.Client
	config    *config.Config
	issuer    *auth.Issuer
	domain    string
	now       func() time.Time
}

// NewHandlers constructs a Handlers.
func NewHandlers(r *resources.Client, cfg *config.Config, issuer *auth.Issuer, domain string) *Handlers {
	return &Handlers{resources: r, config: cfg, issuer: issuer, domain: domain, now: time.Now}
}

const secondsPerMinute = int64(60)

// maxLifetimeMinutes is the largest lifetimeMinutes whose conversion to a
// time.Duration (nanoseconds, int64) does not overflow.
const maxLifetimeMinutes = math.MaxInt64 / int64(time.Minute)

// computeExpiration converts lifetimeMinutes to a time.Duration with an
// explicit overflow check (spec.md #9's resolved Open Question: POST /
// must reject overflow, not just pass it through). The check is against
// the final nanosecond value time.Duration uses internally, not just the
// intermediate seconds value — a lifetimeMinutes that survives a
// seconds-only check can still overflow once multiplied by time.Second.
func computeExpiration(now time.Time, lifetimeMinutes int64) (time.Time, *apiError) {
	if lifetimeMinutes < 0 {
		return time.Time{}, errInvalidLifetime()
	}
	if lifetimeMinutes > maxLifetimeMinutes {
		return time.Time{}, errInvalidLifetime()
	}
	return now.Add(time.Duration(lifetimeMinutes) * time.Minute), nil
}

// Auth handles POST /auth: validates app/key/uid/gid and issues a
// 5-minute bearer token.
func (h *Handlers) Auth(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	var body auth.Request
	if err := decodeJSON(req, &body); err != nil {
		writeError(w, err)
		return
	}

	token, err := h.issuer.Issue(body)
	if err != nil {
		switch err {
		case auth.ErrUnauthorized:
			writeError(w, errUnauthorized())
		case auth.ErrInvalidUserID:
			writeError(w, errBadRequest("invalid uid"))
		case auth.ErrInvalidGroupID:
			writeError(w, errBadRequest("invalid gid"))
		default:
			writeError(w, errInternal(err.Error()))
		}
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token})
}

// Create handles POST /: looks up the named preset, computes the
// expiration time, generates an id, and creates the Ephemeron with
// created-by set to the caller's sub.
func (h *Handlers) Create(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	claims, ok := auth.ClaimsFromContext(req.Context())
	if !ok {
		writeError(w, errUnauthorized())
		return
	}

	var body createRequest
	if err := decodeJSON(req, &body); err != nil {
		writeError(w, err)
		return
	}

	preset, ok := h.config.Preset(body.Preset)
	if !ok {
		writeError(w, errPresetLookup(body.Preset))
		return
	}

	expiration, aerr := computeExpiration(h.now(), body.LifetimeMinutes)
	if aerr != nil {
		writeError(w, aerr)
		return
	}

	if claims.HasGid() {
		// Copy the labels so the shared, read-only preset is not mutated.
		labels := make(map[string]string, len(preset.PodLabels)+1)
		for k, v := range preset.PodLabels {
			labels[k] = v
		}
		labels["group"] = claims.Gid
		preset.PodLabels = labels
	}

	id := newID()
	eph := &ephemeronv1alpha1.Ephemeron{
		ObjectMeta: metav1.ObjectMeta{
			Name: id,
			Annotations: map[string]string{
				resources.AnnotationCreatedBy: claims.GetSub(),
			},
		},
		Spec: ephemeronv1alpha1.EphemeronSpec{
			ExpirationTime: metav1.NewTime(expiration),
			Service:        preset,
		},
	}

	if err := h.resources.CreateEphemeron(req.Context(), eph); err != nil {
		writeError(w, fromK8sError(err))
		return
	}

	writeJSON(w, http.StatusAccepted, createResponse{
		ID:             id,
		ExpirationTime: expiration.UTC().Format(time.RFC3339),
	})
}

// fetchOwned fetches an Ephemeron by id and enforces the ownership rule:
// claims.sub must equal the created-by annotation.
func (h *Handlers) fetchOwned(req *http.Request, id string) (*ephemeronv1alpha1.Ephemeron, *apiError) {
	claims, ok := auth.ClaimsFromContext(req.Context())
	if !ok {
		return nil, errUnauthorized()
	}

	eph, err := h.resources.GetEphemeron(req.Context(), id)
	if err != nil {
		return nil, fromK8sError(err)
	}

	if eph.Annotations[resources.AnnotationCreatedBy] != claims.GetSub() {
		return nil, errForbidden()
	}
	return eph, nil
}

// Get handles GET /{id}.
func (h *Handlers) Get(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	eph, aerr := h.fetchOwned(req, ps.ByName("id"))
	if aerr != nil {
		writeError(w, aerr)
		return
	}

	writeJSON(w, http.StatusOK, getResponse{
		Host:           eph.Annotations[resources.AnnotationHost],
		ExpirationTime: eph.Spec.ExpirationTime.Time.UTC().Format(time.RFC3339),
		TLS:            eph.Spec.Service.TLSSecretName != nil,
	})
}

// Patch handles PATCH /{id}: the only mutable spec field, expirationTime,
// is recomputed from lifetimeMinutes relative to now.
func (h *Handlers) Patch(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	eph, aerr := h.fetchOwned(req, ps.ByName("id"))
	if aerr != nil {
		writeError(w, aerr)
		return
	}

	var body patchRequest
	if err := decodeJSON(req, &body); err != nil {
		writeError(w, err)
		return
	}

	expiration, cerr := computeExpiration(h.now(), body.LifetimeMinutes)
	if cerr != nil {
		writeError(w, cerr)
		return
	}

	if err := h.resources.PatchExpirationTime(req.Context(), eph, metav1.NewTime(expiration)); err != nil {
		writeError(w, fromK8sError(err))
		return
	}

	writeJSON(w, http.StatusOK, patchResponse{
		ExpirationTime: expiration.UTC().Format(time.RFC3339),
	})
}

// Delete handles DELETE /{id}: background-propagation delete so children
// cascade asynchronously.
func (h *Handlers) Delete(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	eph, aerr := h.fetchOwned(req, ps.ByName("id"))
	if aerr != nil {
		writeError(w, aerr)
		return
	}

	if err := h.resources.DeleteEphemeron(req.Context(), eph); err != nil {
		writeError(w, fromK8sError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Liveness handles GET /: an unauthenticated health check.
func (h *Handlers) Liveness(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// decodeJSON decodes the request body into v, mapping a malformed body to
// 400 and an oversized body (see router.go's MaxBytesReader wrapping) to
// 413.
func decodeJSON(req *http.Request, v interface{}) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &apiError{Status: http.StatusRequestEntityTooLarge, Message: "request body too large"}
		}
		return errBadRequest("malformed request body")
	}
	return nil
}
