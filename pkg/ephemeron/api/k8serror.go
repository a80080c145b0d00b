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

package api

import (
	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// fromK8sError maps an orchestrator error to the API taxonomy: if it
// carries a structured API status, its code and message are forwarded
// verbatim; otherwise it becomes a 500.
func fromK8sError(err error) *apiError {
	if status, ok := err.(apierrors.APIStatus); ok {
		s := status.Status()
		return &apiError{Status: int(s.Code), Message: s.Message}
	}
	return errInternal(err.Error())
}
