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

package resources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	ephemeronv1alpha1 "github.com/qualified/ephemeron/pkg/apis/ephemeron/v1alpha1"
)

func TestFieldManagerForKnownTypes(t *testing.T) {
	require.Equal(t, FieldManagerPodReady, fieldManagerFor(ephemeronv1alpha1.ConditionPodReady))
	require.Equal(t, FieldManagerAvailable, fieldManagerFor(ephemeronv1alpha1.ConditionAvailable))
	require.Empty(t, fieldManagerFor(ephemeronv1alpha1.ConditionType("bogus")))
}

func TestSetConditionAppliesViaServerSideApply(t *testing.T) {
	r := newFakeClient(t)
	eph := &ephemeronv1alpha1.Ephemeron{ObjectMeta: metav1.ObjectMeta{Name: "abc"}}
	require.NoError(t, r.CreateEphemeron(context.Background(), eph))

	require.NoError(t, r.SetCondition(context.Background(), eph, ephemeronv1alpha1.ConditionPodReady, True))

	got, err := r.GetEphemeron(context.Background(), "abc")
	require.NoError(t, err)
	cond := got.Status.Condition(ephemeronv1alpha1.ConditionPodReady)
	require.NotNil(t, cond)
	require.Equal(t, corev1.ConditionTrue, cond.Status)
}

func TestSetConditionLeavesOtherConditionUntouched(t *testing.T) {
	r := newFakeClient(t)
	eph := &ephemeronv1alpha1.Ephemeron{ObjectMeta: metav1.ObjectMeta{Name: "abc"}}
	require.NoError(t, r.CreateEphemeron(context.Background(), eph))

	require.NoError(t, r.SetCondition(context.Background(), eph, ephemeronv1alpha1.ConditionPodReady, True))
	require.NoError(t, r.SetCondition(context.Background(), eph, ephemeronv1alpha1.ConditionAvailable, False))

	got, err := r.GetEphemeron(context.Background(), "abc")
	require.NoError(t, err)
	require.Equal(t, corev1.ConditionTrue, got.Status.Condition(ephemeronv1alpha1.ConditionPodReady).Status)
	require.Equal(t, corev1.ConditionFalse, got.Status.Condition(ephemeronv1alpha1.ConditionAvailable).Status)
}

func TestSetConditionUnknown(t *testing.T) {
	r := newFakeClient(t)
	eph := &ephemeronv1alpha1.Ephemeron{ObjectMeta: metav1.ObjectMeta{Name: "abc"}}
	require.NoError(t, r.CreateEphemeron(context.Background(), eph))

	require.NoError(t, r.SetCondition(context.Background(), eph, ephemeronv1alpha1.ConditionAvailable, Unknown))

	got, err := r.GetEphemeron(context.Background(), "abc")
	require.NoError(t, err)
	require.Equal(t, corev1.ConditionUnknown, got.Status.Condition(ephemeronv1alpha1.ConditionAvailable).Status)
}
