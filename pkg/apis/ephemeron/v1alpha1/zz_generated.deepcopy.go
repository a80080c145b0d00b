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

package v1alpha1

import (
	runtime "k8s.io/apimachinery/pkg/runtime"
)

// DeepCopyInto is a deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *Ephemeron) DeepCopyInto(out *Ephemeron) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy is a deepcopy function, copying the receiver, creating a new Ephemeron.
func (in *Ephemeron) DeepCopy() *Ephemeron {
	if in == nil {
		return nil
	}
	out := new(Ephemeron)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject is a deepcopy function, copying the receiver, creating a new runtime.Object.
func (in *Ephemeron) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto is a deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *EphemeronList) DeepCopyInto(out *EphemeronList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		l := make([]Ephemeron, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&l[i])
		}
		out.Items = l
	}
}

// DeepCopy is a deepcopy function, copying the receiver, creating a new EphemeronList.
func (in *EphemeronList) DeepCopy() *EphemeronList {
	if in == nil {
		return nil
	}
	out := new(EphemeronList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject is a deepcopy function, copying the receiver, creating a new runtime.Object.
func (in *EphemeronList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto is a deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *EphemeronSpec) DeepCopyInto(out *EphemeronSpec) {
	*out = *in
	in.ExpirationTime.DeepCopyInto(&out.ExpirationTime)
	in.Service.DeepCopyInto(&out.Service)
}

// DeepCopy is a deepcopy function, copying the receiver, creating a new EphemeronSpec.
func (in *EphemeronSpec) DeepCopy() *EphemeronSpec {
	if in == nil {
		return nil
	}
	out := new(EphemeronSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is a deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *EphemeronServiceSpec) DeepCopyInto(out *EphemeronServiceSpec) {
	*out = *in
	if in.Command != nil {
		c := make([]string, len(in.Command))
		copy(c, in.Command)
		out.Command = c
	}
	if in.Env != nil {
		e := make([]EnvVar, len(in.Env))
		copy(e, in.Env)
		out.Env = e
	}
	if in.TLSSecretName != nil {
		v := *in.TLSSecretName
		out.TLSSecretName = &v
	}
	if in.IngressAnnotations != nil {
		m := make(map[string]string, len(in.IngressAnnotations))
		for k, v := range in.IngressAnnotations {
			m[k] = v
		}
		out.IngressAnnotations = m
	}
	if in.ReadinessProbe != nil {
		p := *in.ReadinessProbe
		out.ReadinessProbe = &p
	}
	in.Resources.DeepCopyInto(&out.Resources)
	if in.PodLabels != nil {
		m := make(map[string]string, len(in.PodLabels))
		for k, v := range in.PodLabels {
			m[k] = v
		}
		out.PodLabels = m
	}
}

// DeepCopy is a deepcopy function, copying the receiver, creating a new EphemeronServiceSpec.
func (in *EphemeronServiceSpec) DeepCopy() *EphemeronServiceSpec {
	if in == nil {
		return nil
	}
	out := new(EphemeronServiceSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is a deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *EphemeronStatus) DeepCopyInto(out *EphemeronStatus) {
	*out = *in
	if in.Conditions != nil {
		c := make([]Condition, len(in.Conditions))
		for i := range in.Conditions {
			in.Conditions[i].DeepCopyInto(&c[i])
		}
		out.Conditions = c
	}
}

// DeepCopy is a deepcopy function, copying the receiver, creating a new EphemeronStatus.
func (in *EphemeronStatus) DeepCopy() *EphemeronStatus {
	if in == nil {
		return nil
	}
	out := new(EphemeronStatus)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is a deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *Condition) DeepCopyInto(out *Condition) {
	*out = *in
	in.LastTransitionTime.DeepCopyInto(&out.LastTransitionTime)
}

// DeepCopy is a deepcopy function, copying the receiver, creating a new Condition.
func (in *Condition) DeepCopy() *Condition {
	if in == nil {
		return nil
	}
	out := new(Condition)
	in.DeepCopyInto(out)
	return out
}
