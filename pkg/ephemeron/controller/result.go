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

// Package controller implements the sub-reconcilers (C4), the reconcile
// loop (C5), and the controller-runtime binding (C6) for Ephemerons.
package controller

import "time"

// outcome is the shape every sub-reconciler returns: done, requeue at a
// fixed delay, await the next watch event, or error.
type outcome int

const (
	outcomeDone outcome = iota
	outcomeRequeueAfter
	outcomeAwaitChange
	outcomeError
)

// Result is returned by every sub-reconciler in C4. Exactly one of the
// outcome-specific fields is meaningful, selected by Outcome.
type Result struct {
	Outcome outcome
	After   time.Duration
	Err     error
}

// IsDone reports whether the sub-reconciler considers its concern
// satisfied and the parent loop may proceed to the next one.
func (r Result) IsDone() bool { return r.Outcome == outcomeDone }

// done indicates the sub-reconciler's concern is currently satisfied.
func done() Result { return Result{Outcome: outcomeDone} }

// requeueAfter schedules another reconciliation at a fixed delay.
func requeueAfter(d time.Duration) Result { return Result{Outcome: outcomeRequeueAfter, After: d} }

// awaitChange defers to the next watch event rather than a timer.
func awaitChange() Result { return Result{Outcome: outcomeAwaitChange} }

// errResult surfaces a sub-reconciler failure; the parent loop logs it at
// warn and treats it like awaitChange (see spec's error policy).
func errResult(err error) Result { return Result{Outcome: outcomeError, Err: err} }
