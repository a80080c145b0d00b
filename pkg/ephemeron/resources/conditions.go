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

	"github.com/pkg/errors"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	ephemeronv1alpha1 "github.com/qualified/ephemeron/pkg/apis/ephemeron/v1alpha1"
)

// fieldManagerFor returns the condition-specific field-manager identity
// each condition type is exclusively owned by, so that distinct
// reconcilers can write their condition without a read-modify-write race
// against siblings.
func fieldManagerFor(t ephemeronv1alpha1.ConditionType) string {
	switch t {
	case ephemeronv1alpha1.ConditionPodReady:
		return FieldManagerPodReady
	case ephemeronv1alpha1.ConditionAvailable:
		return FieldManagerAvailable
	default:
		return ""
	}
}

// SetCondition applies a single condition to an Ephemeron's status via
// server-side apply (C3), with the condition's dedicated field manager and
// force=true so that the latest write always wins for that manager's
// field. The patch body carries apiVersion, kind, status.conditions with
// exactly this one condition, and observedGeneration. Other conditions,
// owned by other field managers, are left untouched.
func (r *Client) SetCondition(ctx context.Context, eph *ephemeronv1alpha1.Ephemeron, t ephemeronv1alpha1.ConditionType, value *bool) error {
	manager := fieldManagerFor(t)
	if manager == "" {
		return errors.Errorf("no field manager registered for condition type %q", t)
	}

	cond := ephemeronv1alpha1.Condition{
		Type:               t,
		Status:             ephemeronv1alpha1.BoolToConditionStatus(value),
		LastTransitionTime: metav1.Now(),
	}

	patch := &ephemeronv1alpha1.Ephemeron{
		TypeMeta: metav1.TypeMeta{
			APIVersion: ephemeronv1alpha1.SchemeGroupVersion.String(),
			Kind:       "Ephemeron",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: eph.Name,
		},
		Status: ephemeronv1alpha1.EphemeronStatus{
			ObservedGeneration: eph.Generation,
			Conditions:         []ephemeronv1alpha1.Condition{cond},
		},
	}

	if err := r.c.Status().Patch(ctx, patch, client.Apply, client.ForceOwnership, client.FieldOwner(manager)); err != nil {
		return errors.Wrap(err, "UpdateStatus")
	}
	return nil
}

// boolPtr is a small convenience used by callers constructing tri-state
// condition values: True/False/Unknown ↔ *bool.
func boolPtr(b bool) *bool { return &b }

// True, False and Unknown are the three condition values SetCondition
// accepts, spelled out for readability at call sites.
var (
	True    = boolPtr(true)
	False   = boolPtr(false)
	Unknown *bool
)
