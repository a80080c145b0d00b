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

package controller

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/require"

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	ephemeronv1alpha1 "github.com/qualified/ephemeron/pkg/apis/ephemeron/v1alpha1"
)

func testScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	s := runtime.NewScheme()
	require.NoError(t, corev1.AddToScheme(s))
	require.NoError(t, networkingv1.AddToScheme(s))
	require.NoError(t, ephemeronv1alpha1.AddToScheme(s))
	return s
}

func newTestReconciler(t *testing.T, fixedNow time.Time, objs ...client.Object) (*Reconciler, client.Client) {
	t.Helper()
	c := fake.NewClientBuilder().
		WithScheme(testScheme(t)).
		WithStatusSubresource(&ephemeronv1alpha1.Ephemeron{}).
		WithObjects(objs...).
		Build()

	r := New(c, log.NewNopLogger(), Options{Domain: "apps.example.com"})
	r.now = func() time.Time { return fixedNow }
	return r, c
}

func newTestEphemeron(name string, expiration time.Time) *ephemeronv1alpha1.Ephemeron {
	return &ephemeronv1alpha1.Ephemeron{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Spec: ephemeronv1alpha1.EphemeronSpec{
			ExpirationTime: metav1.NewTime(expiration),
			Service: ephemeronv1alpha1.EphemeronServiceSpec{
				Image: "example.com/app:latest",
				Port:  8080,
			},
		},
	}
}

// roundTripFunc lets a test stand up an http.Client with a canned transport
// instead of a real listening server.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func setProbeTransport(r *Reconciler, fn roundTripFunc) {
	r.probeClient = &http.Client{Transport: fn}
}
