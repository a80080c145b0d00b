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

// Package resources implements the orchestrator client adapter (C2) and
// the server-side-apply condition writer (C3) for Ephemerons and their
// children.
package resources

const (
	// Namespace is the fixed namespace every Ephemeron child lives in.
	Namespace = "default"

	// LabelName selects the Ephemeron a child resource belongs to.
	LabelName = "app.kubernetes.io/name"
	// LabelManagedBy marks every child as owned by this controller.
	LabelManagedBy = "app.kubernetes.io/managed-by"
	// ManagedByValue is the fixed value of LabelManagedBy.
	ManagedByValue = "ephemeron"

	// AnnotationHost carries the externally resolvable hostname once the
	// Ephemeron's Available condition is True; absent otherwise.
	AnnotationHost = "host"
	// AnnotationCreatedBy carries the JWT subject that created the
	// Ephemeron, for ownership checks. Immutable after creation.
	AnnotationCreatedBy = "ephemerons.qualified.io/created-by"

	// FieldManagerPodReady is the SSA field-manager identity for the
	// PodReady condition.
	FieldManagerPodReady = "ephemeron-podready"
	// FieldManagerAvailable is the SSA field-manager identity for the
	// Available condition.
	FieldManagerAvailable = "ephemeron-available"
)

// CommonLabels returns the label set every child resource of the named
// Ephemeron carries.
func CommonLabels(id string) map[string]string {
	return map[string]string{
		LabelName:      id,
		LabelManagedBy: ManagedByValue,
	}
}
