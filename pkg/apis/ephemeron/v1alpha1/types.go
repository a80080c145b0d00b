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

// Package v1alpha1 holds the Ephemeron custom resource definition: a
// cluster-scoped resource describing a single short-lived, per-user web
// service and the status the operator has observed for it.
package v1alpha1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// +genclient
// +genclient:nonNamespaced
// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// Ephemeron describes a single ephemeral web service: a workload pod, a
// cluster-internal service, and an externally reachable ingress route, all
// torn down when spec.expirationTime passes.
//
// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Cluster,path=ephemerons,singular=ephemeron
// +kubebuilder:subresource:status
type Ephemeron struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   EphemeronSpec   `json:"spec"`
	Status EphemeronStatus `json:"status,omitempty"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// EphemeronList is a list of Ephemeron resources.
type EphemeronList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []Ephemeron `json:"items"`
}

// EphemeronSpec is immutable except for ExpirationTime.
type EphemeronSpec struct {
	// ExpirationTime is the absolute UTC instant after which the Ephemeron
	// and its children must be deleted.
	ExpirationTime metav1.Time `json:"expirationTime"`

	// Service is the workload descriptor this Ephemeron materializes.
	Service EphemeronServiceSpec `json:"service"`
}

// EphemeronServiceSpec is a caller- or preset-supplied description of the
// workload an Ephemeron runs and how it is exposed.
type EphemeronServiceSpec struct {
	Image string `yaml:"image" json:"image"`
	// +optional
	Command []string `yaml:"command,omitempty" json:"command,omitempty"`
	// +optional
	WorkingDir string `yaml:"workingDir,omitempty" json:"workingDir,omitempty"`
	// +optional
	Env []EnvVar `yaml:"env,omitempty" json:"env,omitempty"`

	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Maximum=65535
	Port int32 `yaml:"port" json:"port"`

	// +optional
	TLSSecretName *string `yaml:"tlsSecretName,omitempty" json:"tlsSecretName,omitempty"`
	// +optional
	IngressAnnotations map[string]string `yaml:"ingressAnnotations,omitempty" json:"ingressAnnotations,omitempty"`
	// +optional
	ReadinessProbe *HTTPGetProbe `yaml:"readinessProbe,omitempty" json:"readinessProbe,omitempty"`
	// +optional
	ImagePullPolicy corev1.PullPolicy `yaml:"imagePullPolicy,omitempty" json:"imagePullPolicy,omitempty"`
	// +optional
	Resources corev1.ResourceRequirements `yaml:"resources,omitempty" json:"resources,omitempty"`
	// +optional
	PodLabels map[string]string `yaml:"podLabels,omitempty" json:"podLabels,omitempty"`
}

// EnvVar is a plain name/value pair. valueFrom is deliberately not
// supported: Ephemeron workloads never reference Secrets/ConfigMaps from
// the caller.
type EnvVar struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// HTTPGetProbe describes an HTTP GET readiness check, both for the pod's
// own readinessProbe and for the out-of-cluster liveness probe C4 performs
// against the ingress host.
type HTTPGetProbe struct {
	Path string `yaml:"path" json:"path"`
	// +optional
	InitialDelaySeconds int32 `yaml:"initialDelaySeconds,omitempty" json:"initialDelaySeconds,omitempty"`
	// +optional
	PeriodSeconds int32 `yaml:"periodSeconds,omitempty" json:"periodSeconds,omitempty"`
	// +optional
	TimeoutSeconds int32 `yaml:"timeoutSeconds,omitempty" json:"timeoutSeconds,omitempty"`
}

// ConditionType identifies one of the two condition kinds this controller
// writes: PodReady and Available.
type ConditionType string

const (
	// ConditionPodReady tracks the workload pod's own Ready condition.
	ConditionPodReady ConditionType = "PodReady"
	// ConditionAvailable is True only once in-cluster endpoints are ready
	// and the out-of-cluster liveness probe has returned 200.
	ConditionAvailable ConditionType = "Available"
)

// Condition is a single typed, tri-state status entry.
type Condition struct {
	Type   ConditionType          `json:"type"`
	Status corev1.ConditionStatus `json:"status"`
	// +optional
	LastTransitionTime metav1.Time `json:"lastTransitionTime,omitempty"`
}

// EphemeronStatus holds the conditions the operator has observed, keyed
// uniquely by Type.
type EphemeronStatus struct {
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`
	// +optional
	Conditions []Condition `json:"conditions,omitempty"`
}

// Condition returns the condition of the given type, if present.
func (s *EphemeronStatus) Condition(t ConditionType) *Condition {
	for i := range s.Conditions {
		if s.Conditions[i].Type == t {
			return &s.Conditions[i]
		}
	}
	return nil
}

// conditionBool maps the tri-state wire status to the internal optional
// boolean representation the spec describes: None ⇒ Unknown.
func conditionBool(status corev1.ConditionStatus) *bool {
	switch status {
	case corev1.ConditionTrue:
		v := true
		return &v
	case corev1.ConditionFalse:
		v := false
		return &v
	default:
		return nil
	}
}

// BoolToConditionStatus is the inverse of conditionBool: nil ⇒ Unknown.
func BoolToConditionStatus(b *bool) corev1.ConditionStatus {
	if b == nil {
		return corev1.ConditionUnknown
	}
	if *b {
		return corev1.ConditionTrue
	}
	return corev1.ConditionFalse
}

// IsPodReady reports whether the PodReady condition is exactly True.
func (s *EphemeronStatus) IsPodReady() bool {
	c := s.Condition(ConditionPodReady)
	if c == nil {
		return false
	}
	b := conditionBool(c.Status)
	return b != nil && *b
}

// IsAvailable reports whether the Available condition is exactly True.
func (s *EphemeronStatus) IsAvailable() bool {
	c := s.Condition(ConditionAvailable)
	if c == nil {
		return false
	}
	b := conditionBool(c.Status)
	return b != nil && *b
}

// HasStatus reports whether any condition has ever been recorded — used by
// the reconcile loop (C5) to detect "first sight" of a newly created
// Ephemeron.
func (s *EphemeronStatus) HasStatus() bool {
	return len(s.Conditions) > 0
}

var _ runtime.Object = &Ephemeron{}
var _ runtime.Object = &EphemeronList{}
