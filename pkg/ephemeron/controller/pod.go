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

// containerName is the sole container every Ephemeron pod carries.
const containerName = "container"

// podReadyFromConditions reports whether the pod's own Ready condition is
// exactly True, mirroring EphemeronStatus.IsPodReady's tri-state reading
// of the orchestrator's own condition list.
func podReadyFromConditions(pod *corev1.Pod) bool {
	for _, c := range pod.Status.Conditions {
		if c.Type == corev1.PodReady {
			return c.Status == corev1.ConditionTrue
		}
	}
	return false
}

// reconcilePod is C4.2. It ensures the workload pod exists and keeps the
// PodReady condition synchronized with the orchestrator's observed pod
// readiness.
func (r *Reconciler) reconcilePod(ctx context.Context, eph *ephemeronv1alpha1.Ephemeron) Result {
	pod, found, err := r.resources.GetPod(ctx, eph.Name)
	if err != nil {
		return errResult(errors.Wrap(err, "GetResource"))
	}

	if found {
		observed := podReadyFromConditions(pod)
		if observed != eph.Status.IsPodReady() {
			if err := r.resources.SetCondition(ctx, eph, ephemeronv1alpha1.ConditionPodReady, &observed); err != nil {
				return errResult(err)
			}
			return awaitChange()
		}
		return done()
	}

	if err := r.resources.SetCondition(ctx, eph, ephemeronv1alpha1.ConditionPodReady, resources.False); err != nil {
		return errResult(err)
	}
	if err := r.resources.SetCondition(ctx, eph, ephemeronv1alpha1.ConditionAvailable, resources.False); err != nil {
		return errResult(err)
	}

	pod = r.buildPod(eph)
	if err := r.resources.CreatePod(ctx, pod); err != nil {
		return errResult(errors.Wrap(err, "CreateResource"))
	}
	return awaitChange()
}

// buildPod constructs the workload pod spec for an Ephemeron: a single
// container with the caller's image, command, env, working directory,
// one container port, a readiness probe, and the caller's resources.
func (r *Reconciler) buildPod(eph *ephemeronv1alpha1.Ephemeron) *corev1.Pod {
	svc := eph.Spec.Service

	var env []corev1.EnvVar
	for _, e := range svc.Env {
		env = append(env, corev1.EnvVar{Name: e.Name, Value: e.Value})
	}

	var readinessProbe *corev1.Probe
	if svc.ReadinessProbe != nil {
		readinessProbe = &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				HTTPGet: &corev1.HTTPGetAction{
					Path: svc.ReadinessProbe.Path,
					Port: intstr.FromInt32(svc.Port),
				},
			},
			InitialDelaySeconds: svc.ReadinessProbe.InitialDelaySeconds,
			PeriodSeconds:       svc.ReadinessProbe.PeriodSeconds,
			TimeoutSeconds:      svc.ReadinessProbe.TimeoutSeconds,
		}
	}

	labels := resources.CommonLabels(eph.Name)
	for k, v := range svc.PodLabels {
		labels[k] = v
	}

	falseVal := false
	container := corev1.Container{
		Name:            containerName,
		Image:           svc.Image,
		WorkingDir:      svc.WorkingDir,
		Env:             env,
		ImagePullPolicy: svc.ImagePullPolicy,
		Ports: []corev1.ContainerPort{
			{ContainerPort: svc.Port},
		},
		ReadinessProbe: readinessProbe,
		Resources:      svc.Resources,
	}
	if len(svc.Command) > 0 {
		container.Command = svc.Command
	}

	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:            eph.Name,
			Namespace:       resources.Namespace,
			Labels:          labels,
			OwnerReferences: []metav1.OwnerReference{ownerRef(eph)},
		},
		Spec: corev1.PodSpec{
			Containers:         []corev1.Container{container},
			RestartPolicy:      corev1.RestartPolicyAlways,
			EnableServiceLinks: &falseVal,
		},
	}
}
