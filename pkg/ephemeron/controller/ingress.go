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

	"github.com/pkg/errors"

	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	ephemeronv1alpha1 "github.com/qualified/ephemeron/pkg/apis/ephemeron/v1alpha1"
	"github.com/qualified/ephemeron/pkg/ephemeron/resources"
)

// reconcileIngress is C4.4: ensure an ingress route exists for
// "<id>.<domain>" at path "/", forwarding to the cluster-internal
// service. If the caller supplied a TLS secret name, a TLS block
// referencing it is attached with no explicit hosts, delegating SNI
// matching to the secret's own SAN list.
func (r *Reconciler) reconcileIngress(ctx context.Context, eph *ephemeronv1alpha1.Ephemeron) Result {
	_, found, err := r.resources.GetIngress(ctx, eph.Name)
	if err != nil {
		return errResult(errors.Wrap(err, "GetResource"))
	}
	if found {
		return done()
	}

	ing := r.buildIngress(eph)
	if err := r.resources.CreateIngress(ctx, ing); err != nil {
		return errResult(errors.Wrap(err, "CreateResource"))
	}
	return awaitChange()
}

// Host returns the externally resolvable hostname this Ephemeron's
// ingress routes, given the controller's configured domain.
func (r *Reconciler) Host(eph *ephemeronv1alpha1.Ephemeron) string {
	return fmt.Sprintf("%s.%s", eph.Name, r.domain)
}

func (r *Reconciler) buildIngress(eph *ephemeronv1alpha1.Ephemeron) *networkingv1.Ingress {
	svc := eph.Spec.Service
	pathType := networkingv1.PathTypePrefix

	ing := &networkingv1.Ingress{
		ObjectMeta: metav1.ObjectMeta{
			Name:            eph.Name,
			Namespace:       resources.Namespace,
			Labels:          resources.CommonLabels(eph.Name),
			Annotations:     svc.IngressAnnotations,
			OwnerReferences: []metav1.OwnerReference{ownerRef(eph)},
		},
		Spec: networkingv1.IngressSpec{
			Rules: []networkingv1.IngressRule{
				{
					Host: r.Host(eph),
					IngressRuleValue: networkingv1.IngressRuleValue{
						HTTP: &networkingv1.HTTPIngressRuleValue{
							Paths: []networkingv1.HTTPIngressPath{
								{
									Path:     "/",
									PathType: &pathType,
									Backend: networkingv1.IngressBackend{
										Service: &networkingv1.IngressServiceBackend{
											Name: eph.Name,
											Port: networkingv1.ServiceBackendPort{
												Number: svc.Port,
											},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	if svc.TLSSecretName != nil {
		ing.Spec.TLS = []networkingv1.IngressTLS{
			{SecretName: *svc.TLSSecretName},
		}
	}

	return ing
}
