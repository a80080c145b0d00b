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
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	ephemeronv1alpha1 "github.com/qualified/ephemeron/pkg/apis/ephemeron/v1alpha1"
	"github.com/qualified/ephemeron/pkg/ephemeron/auth"
	"github.com/qualified/ephemeron/pkg/ephemeron/config"
	"github.com/qualified/ephemeron/pkg/ephemeron/resources"
)

func newTestHandlers(t *testing.T, now time.Time) *Handlers {
	t.Helper()
	s := runtime.NewScheme()
	require.NoError(t, corev1.AddToScheme(s))
	require.NoError(t, ephemeronv1alpha1.AddToScheme(s))

	c := fake.NewClientBuilder().
		WithScheme(s).
		WithStatusSubresource(&ephemeronv1alpha1.Ephemeron{}).
		Build()

	cfg := &config.Config{
		Presets: map[string]ephemeronv1alpha1.EphemeronServiceSpec{
			"small": {Image: "example.com/small:latest", Port: 8080},
		},
		Apps: map[string]string{"ci": "key"},
	}
	issuer := auth.NewIssuer([]byte("secret"), cfg.Apps)

	h := NewHandlers(resources.New(c), cfg, issuer, "apps.example.com")
	h.now = func() time.Time { return now }
	return h
}

func doAuthed(h http.Handler, method, path string, body []byte, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func issueTestToken(t *testing.T, h *Handlers, uid string) string {
	t.Helper()
	token, err := h.issuer.Issue(auth.Request{App: "ci", Key: "key", UID: uid})
	require.NoError(t, err)
	return token
}

func TestComputeExpirationRejectsNegative(t *testing.T) {
	_, aerr := computeExpiration(time.Now(), -1)
	require.NotNil(t, aerr)
	require.Equal(t, http.StatusBadRequest, aerr.Status)
}

func TestComputeExpirationZeroLifetimeIsNow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	exp, aerr := computeExpiration(now, 0)
	require.Nil(t, aerr)
	require.Equal(t, now, exp)
}

func TestComputeExpirationOverflowRejected(t *testing.T) {
	_, aerr := computeExpiration(time.Now(), maxLifetimeMinutes+1)
	require.NotNil(t, aerr)
	require.Equal(t, http.StatusBadRequest, aerr.Status)
}

func TestComputeExpirationNanosecondOverflowRejected(t *testing.T) {
	// Passes a naive lifetimeMinutes*secondsPerMinute overflow check
	// (well under math.MaxInt64/60) but overflows once converted to
	// nanoseconds via time.Duration.
	_, aerr := computeExpiration(time.Now(), 200000000)
	require.NotNil(t, aerr)
	require.Equal(t, http.StatusBadRequest, aerr.Status)
}

func TestComputeExpirationOrdinary(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	exp, aerr := computeExpiration(now, 30)
	require.Nil(t, aerr)
	require.Equal(t, now.Add(30*time.Minute), exp)
}

func TestAuthHandlerIssuesToken(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := newTestHandlers(t, now)
	router := NewRouter(h, []byte("secret"))

	body, _ := json.Marshal(auth.Request{App: "ci", Key: "key", UID: "u1"})
	rec := doAuthed(router, http.MethodPost, "/auth", body, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
}

func TestAuthHandlerRejectsUnknownApp(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := newTestHandlers(t, now)
	router := NewRouter(h, []byte("secret"))

	body, _ := json.Marshal(auth.Request{App: "nope", Key: "key", UID: "u1"})
	rec := doAuthed(router, http.MethodPost, "/auth", body, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateHandlerRejectsUnknownPreset(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := newTestHandlers(t, now)
	router := NewRouter(h, []byte("secret"))
	token := issueTestToken(t, h, "u1")

	body, _ := json.Marshal(createRequest{Preset: "missing", LifetimeMinutes: 10})
	rec := doAuthed(router, http.MethodPost, "/", body, token)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateHandlerSucceeds(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := newTestHandlers(t, now)
	router := NewRouter(h, []byte("secret"))
	token := issueTestToken(t, h, "u1")

	body, _ := json.Marshal(createRequest{Preset: "small", LifetimeMinutes: 10})
	rec := doAuthed(router, http.MethodPost, "/", body, token)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp createResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)

	eph, err := h.resources.GetEphemeron(context.Background(), resp.ID)
	require.NoError(t, err)
	require.Equal(t, "u1.ci", eph.Annotations[resources.AnnotationCreatedBy])
}

func TestCreateHandlerWithoutAuthIsUnauthorized(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := newTestHandlers(t, now)
	router := NewRouter(h, []byte("secret"))

	body, _ := json.Marshal(createRequest{Preset: "small", LifetimeMinutes: 10})
	rec := doAuthed(router, http.MethodPost, "/", body, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetHandlerForbiddenForNonOwner(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := newTestHandlers(t, now)
	router := NewRouter(h, []byte("secret"))
	ownerToken := issueTestToken(t, h, "owner")
	otherToken := issueTestToken(t, h, "other")

	body, _ := json.Marshal(createRequest{Preset: "small", LifetimeMinutes: 10})
	createRec := doAuthed(router, http.MethodPost, "/", body, ownerToken)
	require.Equal(t, http.StatusAccepted, createRec.Code)
	var created createResponse
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))

	rec := doAuthed(router, http.MethodGet, "/"+created.ID, nil, otherToken)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetHandlerReturnsOwnedEphemeron(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := newTestHandlers(t, now)
	router := NewRouter(h, []byte("secret"))
	token := issueTestToken(t, h, "u1")

	body, _ := json.Marshal(createRequest{Preset: "small", LifetimeMinutes: 10})
	createRec := doAuthed(router, http.MethodPost, "/", body, token)
	var created createResponse
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))

	rec := doAuthed(router, http.MethodGet, "/"+created.ID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp getResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, created.ExpirationTime, resp.ExpirationTime)
}

func TestDeleteHandlerRemovesEphemeron(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := newTestHandlers(t, now)
	router := NewRouter(h, []byte("secret"))
	token := issueTestToken(t, h, "u1")

	body, _ := json.Marshal(createRequest{Preset: "small", LifetimeMinutes: 10})
	createRec := doAuthed(router, http.MethodPost, "/", body, token)
	var created createResponse
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))

	rec := doAuthed(router, http.MethodDelete, "/"+created.ID, nil, token)
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, err := h.resources.GetEphemeron(context.Background(), created.ID)
	require.True(t, resources.IsNotFound(err))
}

func TestGetHandlerNotFound(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := newTestHandlers(t, now)
	router := NewRouter(h, []byte("secret"))
	token := issueTestToken(t, h, "u1")

	rec := doAuthed(router, http.MethodGet, "/missing", nil, token)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLivenessIsUnauthenticated(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := newTestHandlers(t, now)
	router := NewRouter(h, []byte("secret"))

	rec := doAuthed(router, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
}

func TestDecodeJSONRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
	var v createRequest
	err := decodeJSON(req, &v)
	require.Error(t, err)
	aerr, ok := err.(*apiError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, aerr.Status)
}

func TestDecodeJSONRejectsOversizedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"preset":"x"}`)))
	rec := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rec, req.Body, 2)

	var v createRequest
	err := decodeJSON(req, &v)
	require.Error(t, err)
	aerr, ok := err.(*apiError)
	require.True(t, ok)
	require.Equal(t, http.StatusRequestEntityTooLarge, aerr.Status)
}
