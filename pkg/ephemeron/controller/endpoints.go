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
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	corev1 "k8s.io/api/core/v1"

	ephemeronv1alpha1 "github.com/qualified/ephemeron/pkg/apis/ephemeron/v1alpha1"
	"github.com/qualified/ephemeron/pkg/ephemeron/resources"
)

const (
	requeueEndpointsMissing = 2 * time.Second
	requeueNotYetReady      = 1 * time.Second
	requeueProbePending     = 1 * time.Second
)

// reconcileEndpointsAndProbe is C4.5: it determines the Available
// condition. In-cluster endpoint readiness is necessary but not
// sufficient — an out-of-cluster HTTP liveness probe must also succeed
// before the externally reachable host is published.
func (r *Reconciler) reconcileEndpointsAndProbe(ctx context.Context, eph *ephemeronv1alpha1.Ephemeron) Result {
	ep, found, err := r.resources.GetEndpoints(ctx, eph.Name)
	if err != nil {
		return errResult(errors.Wrap(err, "GetResource"))
	}
	if !found {
		return requeueAfter(requeueEndpointsMissing)
	}

	hasReady := hasNonEmptyAddresses(ep)
	available := eph.Status.IsAvailable()

	switch {
	case available && hasReady:
		return done()
	case !available && !hasReady:
		return requeueAfter(requeueNotYetReady)
	}

	return r.fixAvailability(ctx, eph, available, hasReady)
}

// hasNonEmptyAddresses reports whether any subset of the Endpoints object
// carries at least one ready address.
func hasNonEmptyAddresses(ep *corev1.Endpoints) bool {
	for _, subset := range ep.Subsets {
		if len(subset.Addresses) > 0 {
			return true
		}
	}
	return false
}

// fixAvailability handles the two mismatched cases between the recorded
// Available condition and the freshly observed endpoint readiness.
func (r *Reconciler) fixAvailability(ctx context.Context, eph *ephemeronv1alpha1.Ephemeron, wasAvailable, hasReady bool) Result {
	if hasReady && !wasAvailable {
		// The orchestrator reports the workload ready but we have not yet
		// confirmed external reachability: perform the out-of-cluster probe.
		return r.probeAndUpdate(ctx, eph)
	}

	// hasReady == false and we were previously available: the workload
	// regressed. Clear the host annotation and flip Available to false.
	if err := r.resources.PatchHostAnnotation(ctx, eph, ""); err != nil {
		return errResult(err)
	}
	if err := r.resources.SetCondition(ctx, eph, ephemeronv1alpha1.ConditionAvailable, resources.False); err != nil {
		return errResult(err)
	}
	return awaitChange()
}

// probeAndUpdate issues the out-of-cluster HTTP liveness probe against
// "http://<id>.<domain><probe.path>" and updates host/Available
// accordingly. On 200, host is published and Available flips True. On any
// other HTTP status, nothing is changed yet and the caller requeues
// shortly. On a transport error, the system degrades: host is cleared and
// Available is set False. When the service has no readinessProbe
// configured, no external probe is issued at all: the workload is
// considered reachable as soon as the orchestrator reports it ready.
func (r *Reconciler) probeAndUpdate(ctx context.Context, eph *ephemeronv1alpha1.Ephemeron) Result {
	probe := eph.Spec.Service.ReadinessProbe
	if probe == nil {
		if err := r.resources.PatchHostAnnotation(ctx, eph, r.Host(eph)); err != nil {
			return errResult(err)
		}
		if err := r.resources.SetCondition(ctx, eph, ephemeronv1alpha1.ConditionAvailable, resources.True); err != nil {
			return errResult(err)
		}
		return awaitChange()
	}
	url := fmt.Sprintf("http://%s%s", r.Host(eph), probe.Path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errResult(errors.Wrap(err, "build probe request"))
	}

	resp, err := r.probeClient.Do(req)
	if err != nil {
		if patchErr := r.resources.PatchHostAnnotation(ctx, eph, ""); patchErr != nil {
			return errResult(patchErr)
		}
		if condErr := r.resources.SetCondition(ctx, eph, ephemeronv1alpha1.ConditionAvailable, resources.False); condErr != nil {
			return errResult(condErr)
		}
		return awaitChange()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return requeueAfter(requeueProbePending)
	}

	if err := r.resources.PatchHostAnnotation(ctx, eph, r.Host(eph)); err != nil {
		return errResult(err)
	}
	if err := r.resources.SetCondition(ctx, eph, ephemeronv1alpha1.ConditionAvailable, resources.True); err != nil {
		return errResult(err)
	}
	return awaitChange()
}
