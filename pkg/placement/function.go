// Copyright Tessera Systems Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package placement

import (
	"fmt"

	"github.com/tesseralang/go-tessera/pkg/device"
	"github.com/tesseralang/go-tessera/pkg/ir"
)

// Attach returns a new function value carrying a given placement record:
// one scope per parameter, plus a scope for the result.  The input function
// is left untouched, and any existing record is replaced whole.  Attach
// panics if the number of parameter scopes disagrees with the function's
// arity, as enforcing the invariant here moves failure earlier than the
// accessors.
func Attach(fn *ir.Function, paramScopes []*device.Scope, resultScope *device.Scope) *ir.Function {
	if uint(len(paramScopes)) != fn.Arity() {
		panic(fmt.Sprintf("%d parameter scope(s) attached to function of arity %d",
			len(paramScopes), fn.Arity()))
	}
	//
	return fn.WithPlacement(&ir.FuncPlacement{Params: paramScopes, Result: resultScope})
}

// MaybeAttach is as Attach, except that the function is returned unchanged
// when every scope is fully unconstrained (absence of a record means
// exactly that, so attaching one would be churn).
func MaybeAttach(fn *ir.Function, paramScopes []*device.Scope, resultScope *device.Scope) *ir.Function {
	if resultScope.IsFullyUnconstrained() && allUnconstrained(paramScopes) {
		// Nothing to attach.
		return fn
	}
	//
	return Attach(fn, paramScopes, resultScope)
}

// ResultScope returns the placement of a function's result, or the
// unconstrained scope when the function carries no placement record.
func ResultScope(fn *ir.Function) *device.Scope {
	if fn.Placement == nil {
		return device.Unconstrained()
	}
	//
	return fn.Placement.Result
}

// ParamScope returns the placement of a function's ith parameter, or the
// unconstrained scope when the function carries no placement record.  It
// panics if the index is out of range or if an attached record disagrees
// with the function's arity (the latter indicates corrupt compiler state,
// not a user error).
func ParamScope(fn *ir.Function, index uint) *device.Scope {
	if index >= fn.Arity() {
		panic(fmt.Sprintf("parameter index %d out of range for function of arity %d",
			index, fn.Arity()))
	}
	//
	if fn.Placement == nil {
		// No record attached.
		return device.Unconstrained()
	}
	//
	if uint(len(fn.Placement.Params)) != fn.Arity() {
		panic(fmt.Sprintf("%d parameter scope(s) recorded for function of arity %d",
			len(fn.Placement.Params), fn.Arity()))
	}
	//
	return fn.Placement.Params[index]
}

func allUnconstrained(scopes []*device.Scope) bool {
	for _, scope := range scopes {
		if !scope.IsFullyUnconstrained() {
			return false
		}
	}
	//
	return true
}
