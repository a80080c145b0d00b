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

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	ephemeronv1alpha1 "github.com/qualified/ephemeron/pkg/apis/ephemeron/v1alpha1"
)

// Client is the typed orchestrator adapter (C2). It wraps a
// controller-runtime client with get/create/patch/delete operations for
// Ephemerons and their children, surfacing 404/409 distinctly so callers
// can implement the idempotent, level-triggered semantics C4 requires.
type Client struct {
	c client.Client
}

// New returns a Client backed by the given controller-runtime client.
func New(c client.Client) *Client {
	return &Client{c: c}
}

// IsNotFound reports whether err represents a missing resource.
func IsNotFound(err error) bool {
	return apierrors.IsNotFound(err)
}

// IsAlreadyExists reports whether err represents a resource that already
// exists (a 409 on create) — treated as success throughout C4.
func IsAlreadyExists(err error) bool {
	return apierrors.IsAlreadyExists(err)
}

// GetEphemeron fetches an Ephemeron by name. Returns a not-found error
// (checkable with IsNotFound) if it does not exist.
func (r *Client) GetEphemeron(ctx context.Context, name string) (*ephemeronv1alpha1.Ephemeron, error) {
	eph := &ephemeronv1alpha1.Ephemeron{}
	if err := r.c.Get(ctx, client.ObjectKey{Name: name}, eph); err != nil {
		return nil, err
	}
	return eph, nil
}

// CreateEphemeron creates the given Ephemeron.
func (r *Client) CreateEphemeron(ctx context.Context, eph *ephemeronv1alpha1.Ephemeron) error {
	return r.c.Create(ctx, eph)
}

// DeleteEphemeron deletes an Ephemeron with background propagation, so
// owned children cascade asynchronously rather than blocking on foreground
// deletion.
func (r *Client) DeleteEphemeron(ctx context.Context, eph *ephemeronv1alpha1.Ephemeron) error {
	policy := metav1.DeletePropagationBackground
	return r.c.Delete(ctx, eph, &client.DeleteOptions{PropagationPolicy: &policy})
}

// PatchExpirationTime merge-patches spec.expirationTime to the given value.
// This is the only spec field PATCH /{id} is permitted to mutate.
func (r *Client) PatchExpirationTime(ctx context.Context, eph *ephemeronv1alpha1.Ephemeron, t metav1.Time) error {
	patch := client.MergeFrom(eph.DeepCopy())
	eph.Spec.ExpirationTime = t
	if err := r.c.Patch(ctx, eph, patch); err != nil {
		return errors.Wrap(err, "patch expirationTime")
	}
	return nil
}

// PatchHostAnnotation merge-patches metadata.annotations["host"], either
// setting it to the given host or clearing it when host is empty.
func (r *Client) PatchHostAnnotation(ctx context.Context, eph *ephemeronv1alpha1.Ephemeron, host string) error {
	patch := client.MergeFrom(eph.DeepCopy())
	if eph.Annotations == nil {
		eph.Annotations = map[string]string{}
	}
	if host == "" {
		delete(eph.Annotations, AnnotationHost)
	} else {
		eph.Annotations[AnnotationHost] = host
	}
	if err := r.c.Patch(ctx, eph, patch); err != nil {
		return errors.Wrap(err, "patch host annotation")
	}
	return nil
}

// GetPod fetches the workload pod for the given Ephemeron id. found is
// false (err nil) when it does not exist.
func (r *Client) GetPod(ctx context.Context, id string) (pod *corev1.Pod, found bool, err error) {
	pod = &corev1.Pod{}
	if err = r.c.Get(ctx, client.ObjectKey{Namespace: Namespace, Name: id}, pod); err != nil {
		if IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return pod, true, nil
}

// CreatePod creates the given pod, treating AlreadyExists as success.
func (r *Client) CreatePod(ctx context.Context, pod *corev1.Pod) error {
	if err := r.c.Create(ctx, pod); err != nil && !IsAlreadyExists(err) {
		return err
	}
	return nil
}

// GetService fetches the ClusterIP service for the given Ephemeron id.
func (r *Client) GetService(ctx context.Context, id string) (svc *corev1.Service, found bool, err error) {
	svc = &corev1.Service{}
	if err = r.c.Get(ctx, client.ObjectKey{Namespace: Namespace, Name: id}, svc); err != nil {
		if IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return svc, true, nil
}

// CreateService creates the given service, treating AlreadyExists as
// success.
func (r *Client) CreateService(ctx context.Context, svc *corev1.Service) error {
	if err := r.c.Create(ctx, svc); err != nil && !IsAlreadyExists(err) {
		return err
	}
	return nil
}

// GetIngress fetches the ingress route for the given Ephemeron id.
func (r *Client) GetIngress(ctx context.Context, id string) (ing *networkingv1.Ingress, found bool, err error) {
	ing = &networkingv1.Ingress{}
	if err = r.c.Get(ctx, client.ObjectKey{Namespace: Namespace, Name: id}, ing); err != nil {
		if IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return ing, true, nil
}

// CreateIngress creates the given ingress, treating AlreadyExists as
// success.
func (r *Client) CreateIngress(ctx context.Context, ing *networkingv1.Ingress) error {
	if err := r.c.Create(ctx, ing); err != nil && !IsAlreadyExists(err) {
		return err
	}
	return nil
}

// GetEndpoints fetches the Endpoints object named after the Ephemeron id.
// found is false (err nil) on 404.
func (r *Client) GetEndpoints(ctx context.Context, id string) (ep *corev1.Endpoints, found bool, err error) {
	ep = &corev1.Endpoints{}
	if err = r.c.Get(ctx, client.ObjectKey{Namespace: Namespace, Name: id}, ep); err != nil {
		if IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return ep, true, nil
}

// ObjectKeyFor builds the namespaced name every Ephemeron child lives at:
// its id in the fixed Namespace.
func ObjectKeyFor(id string) types.NamespacedName {
	return types.NamespacedName{Namespace: Namespace, Name: id}
}
