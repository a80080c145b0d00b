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

	ephemeronv1alpha1 "github.com/qualified/ephemeron/pkg/apis/ephemeron/v1alpha1"
)

// reconcileExpiry is C4.1: if the Ephemeron has passed its expiration
// time, delete it (background propagation cascades the children) and
// await the resulting watch event. Otherwise this concern is satisfied.
func (r *Reconciler) reconcileExpiry(ctx context.Context, eph *ephemeronv1alpha1.Ephemeron) Result {
	if eph.Spec.ExpirationTime.Time.After(r.now()) {
		return done()
	}
	if err := r.resources.DeleteEphemeron(ctx, eph); err != nil {
		return errResult(errors.Wrap(err, "Delete"))
	}
	return awaitChange()
}
