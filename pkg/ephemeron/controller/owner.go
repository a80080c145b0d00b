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
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	ephemeronv1alpha1 "github.com/qualified/ephemeron/pkg/apis/ephemeron/v1alpha1"
)

// ownerRef builds the controller owner reference every child resource of
// an Ephemeron carries, so that deleting the Ephemeron garbage-collects
// its pod, service, and ingress.
func ownerRef(eph *ephemeronv1alpha1.Ephemeron) metav1.OwnerReference {
	isController := true
	blockDeletion := true
	return metav1.OwnerReference{
		APIVersion:         ephemeronv1alpha1.SchemeGroupVersion.String(),
		Kind:               "Ephemeron",
		Name:               eph.Name,
		UID:                eph.UID,
		Controller:         &isController,
		BlockOwnerDeletion: &blockDeletion,
	}
}
