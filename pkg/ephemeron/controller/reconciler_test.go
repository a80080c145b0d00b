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
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"
)

func key(name string) types.NamespacedName {
	return types.NamespacedName{Name: name}
}

func TestReconcileNotFoundIsNoOp(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r, _ := newTestReconciler(t, now)

	res, err := r.Reconcile(context.Background(), reconcile.Request{NamespacedName: key("missing")})
	require.NoError(t, err)
	require.Equal(t, reconcile.Result{}, res)
}

func TestReconcileInitializesStatusOnFirstSight(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	eph := newTestEphemeron("abc", now.Add(time.Hour))
	r, c := newTestReconciler(t, now, eph)

	res, err := r.Reconcile(context.Background(), reconcile.Request{NamespacedName: key("abc")})
	require.NoError(t, err)
	require.Equal(t, reconcile.Result{}, res)

	got := refetch(t, c, "abc")
	require.True(t, got.Status.HasStatus())
	require.Equal(t, corev1.ConditionUnknown, got.Status.Condition("PodReady").Status)
}

func TestReconcileStopsEarlyWhenChildResourceMissing(t *testing.T) {
	// After status is initialized, the expiry step is satisfied but the
	// pod does not exist yet: the loop must create it and stop there
	// rather than proceeding to service/ingress in the same pass.
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	eph := newTestEphemeron("abc", now.Add(time.Hour))
	r, c := newTestReconciler(t, now, eph)

	_, err := r.Reconcile(context.Background(), reconcile.Request{NamespacedName: key("abc")})
	require.NoError(t, err)

	res, err := r.Reconcile(context.Background(), reconcile.Request{NamespacedName: key("abc")})
	require.NoError(t, err)
	require.Equal(t, reconcile.Result{}, res)

	var pod corev1.Pod
	require.NoError(t, c.Get(context.Background(), types.NamespacedName{Namespace: "default", Name: "abc"}, &pod))

	var svc corev1.Service
	err = c.Get(context.Background(), types.NamespacedName{Namespace: "default", Name: "abc"}, &svc)
	require.Error(t, err)
}
