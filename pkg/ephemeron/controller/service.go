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

	"github.com/pkg/errors"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	ephemeronv1alpha1 "github.com/qualified/ephemeron/pkg/apis/ephemeron/v1alpha1"
	"github.com/qualified/ephemeron/pkg/ephemeron/resources"
)

// reconcileService is C4.3: ensure the cluster-internal ClusterIP service
// exists, routing spec.service.port to the pod carrying the same port.
func (r *Reconciler) reconcileService(ctx context.Context, eph *ephemeronv1alpha1.Ephemeron) Result {
	_, found, err := r.resources.GetService(ctx, eph.Name)
	if err != nil {
		return errResult(errors.Wrap(err, "GetService"))
	}
	if found {
		return done()
	}

	svc := r.buildService(eph)
	if err := r.resources.CreateService(ctx, svc); err != nil {
		return errResult(errors.Wrap(err, "CreateService"))
	}
	return awaitChange()
}

func (r *Reconciler) buildService(eph *ephemeronv1alpha1.Ephemeron) *corev1.Service {
	port := eph.Spec.Service.Port
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:            eph.Name,
			Namespace:       resources.Namespace,
			Labels:          resources.CommonLabels(eph.Name),
			OwnerReferences: []metav1.OwnerReference{ownerRef(eph)},
		},
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeClusterIP,
			Selector: map[string]string{resources.LabelName: eph.Name},
			Ports: []corev1.ServicePort{
				{
					Port:       port,
					TargetPort: intstr.FromInt32(port),
				},
			},
		},
	}
}
