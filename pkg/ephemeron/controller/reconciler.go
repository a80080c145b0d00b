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
	"net/http"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	ephemeronv1alpha1 "github.com/qualified/ephemeron/pkg/apis/ephemeron/v1alpha1"
	"github.com/qualified/ephemeron/pkg/ephemeron/resources"
)

// Reconciler is the per-Ephemeron dispatcher (C5) wired into
// controller-runtime (C6). It initializes status on first sight, then
// sequences the five sub-reconcilers (C4) in a fixed order, short-
// circuiting on the first one that does not return done.
type Reconciler struct {
	client    client.Client
	resources *resources.Client
	logger    log.Logger
	domain    string

	probeClient *http.Client
	now         func() time.Time
}

// Options configures a Reconciler.
type Options struct {
	// Domain composes ingress hosts as "<id>.<Domain>".
	Domain string
	// ProbeTimeout bounds the out-of-cluster liveness probe (C4.5).
	ProbeTimeout time.Duration
}

// New constructs a Reconciler bound to the given controller-runtime
// client.
func New(c client.Client, logger log.Logger, opts Options) *Reconciler {
	timeout := opts.ProbeTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Reconciler{
		client:      c,
		resources:   resources.New(c),
		logger:      logger,
		domain:      opts.Domain,
		probeClient: &http.Client{Timeout: timeout},
		now:         time.Now,
	}
}

// SetupWithManager registers this reconciler with the manager (C6): it
// watches Ephemerons cluster-wide and owns Pods, Services, and Ingresses
// so that child events enqueue the owning Ephemeron. Per-key
// serialization is enforced by controller-runtime itself; distinct keys
// reconcile concurrently, bounded by the manager's worker pool.
func (r *Reconciler) SetupWithManager(mgr manager.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&ephemeronv1alpha1.Ephemeron{}).
		Owns(&corev1.Pod{}).
		Owns(&corev1.Service{}).
		Owns(&networkingv1.Ingress{}).
		Complete(r)
}

// Reconcile implements reconcile.Reconciler. It is C5: the per-Ephemeron
// dispatcher.
func (r *Reconciler) Reconcile(ctx context.Context, req reconcile.Request) (reconcile.Result, error) {
	eph, err := r.resources.GetEphemeron(ctx, req.Name)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return reconcile.Result{}, nil
		}
		return reconcile.Result{}, err
	}

	if !eph.Status.HasStatus() {
		if err := r.resources.SetCondition(ctx, eph, ephemeronv1alpha1.ConditionPodReady, resources.Unknown); err != nil {
			return reconcile.Result{}, err
		}
		if err := r.resources.SetCondition(ctx, eph, ephemeronv1alpha1.ConditionAvailable, resources.Unknown); err != nil {
			return reconcile.Result{}, err
		}
		return reconcile.Result{}, nil
	}

	for _, step := range []func(context.Context, *ephemeronv1alpha1.Ephemeron) Result{
		r.reconcileExpiry,
		r.reconcilePod,
		r.reconcileService,
		r.reconcileIngress,
		r.reconcileEndpointsAndProbe,
	} {
		res := step(ctx, eph)
		switch res.Outcome {
		case outcomeDone:
			continue
		case outcomeRequeueAfter:
			return reconcile.Result{RequeueAfter: res.After}, nil
		case outcomeAwaitChange:
			return reconcile.Result{}, nil
		case outcomeError:
			level.Warn(r.logger).Log("msg", "sub-reconciler failed", "ephemeron", eph.Name, "err", res.Err)
			return reconcile.Result{}, nil
		}
	}

	// All sub-reconcilers are done: schedule the requeue that guarantees
	// expiry fires even with no further watch events.
	delay := eph.Spec.ExpirationTime.Time.Sub(r.now())
	if delay < 0 {
		delay = 0
	}
	return reconcile.Result{RequeueAfter: delay}, nil
}
