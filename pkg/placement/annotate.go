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

// Package placement implements the device placement algebra of the tensor
// IR: requesting annotations over expressions (with merging of nested
// requests), probing expressions for annotations, and recording the
// placement of function parameters and results.  Downstream passes consume
// placement exclusively through this package; they never construct
// ir.Annotation nodes directly.
package placement

import (
	"fmt"

	"github.com/tesseralang/go-tessera/pkg/device"
	"github.com/tesseralang/go-tessera/pkg/ir"
)

// ContradictionError signals that two independent constraint sources name
// different concrete scopes for the same position of a nested annotation.
// This indicates an inconsistent compiler invocation; the enclosing pass is
// expected to abort.
type ContradictionError struct {
	// Position which the two sources both constrain.
	Position string
	// Scope requested by the outer annotation.
	Outer *device.Scope
	// Scope carried by the inner annotation.
	Inner *device.Scope
}

// Error implementation for error interface.
func (p *ContradictionError) Error() string {
	return fmt.Sprintf("cannot constrain %s of nested annotations to different scopes (%s vs %s)",
		p.Position, p.Outer, p.Inner)
}

// MaybeAnnotate produces the expression to use in place of body when the
// caller wishes to constrain it to a given scope: body unchanged where
// annotation would assert nothing (or be redundant), a fresh annotation
// otherwise, or a merge when body is already annotated.  The merge never
// loses or duplicates a constraint, and never lets two conflicting concrete
// scopes coexist silently.
//
// When annotations nest, three positions are distinguishable:
//
//	(on_device (on_device body inner) outer)
//	^          ^          ^
//	outer      middle     innermost
//
// The outer result is constrained by constrainResult using scope; the
// innermost body by the inner annotation's ConstrainBody using its scope.
// The middle value may be constrained from two independent sources (the
// outer constrainBody and the inner ConstrainResult); when both are active
// the two scopes must agree.  Likewise, when both the outer result and the
// innermost body are constrained, the collapsed annotation carries a single
// scope for both, so those two scopes must also agree.
func MaybeAnnotate(body ir.Expr, scope *device.Scope, constrainResult bool, constrainBody bool) (ir.Expr, error) {
	if scope.IsFullyUnconstrained() {
		// Nothing to annotate with.
		return body, nil
	}
	//
	switch e := body.(type) {
	case *ir.Op:
		// Most operators are device polymorphic, so no annotation is
		// required.  Operators which name devices explicitly fall through
		// and get wrapped like anything else.
		if e.DevicePolymorphic {
			return body, nil
		}
	case *ir.Constructor:
		// Constructors are device polymorphic.
		return body, nil
	case *ir.Var, *ir.GlobalVar:
		// The device can be recovered from the binding site of the global
		// or local variable.
		return body, nil
	case *ir.Function:
		// A function's own device is carried by its placement record, not
		// by wrapping the function value.
		return body, nil
	}
	//
	inner, ok := Decompose(body)
	if !ok {
		return ir.NewAnnotation(body, scope, constrainResult, constrainBody), nil
	}
	// Recover the implied constraints (if any) for the outer result and the
	// innermost body, and check they don't contradict.
	constrainOuter := constrainResult
	constrainInner := inner.ConstrainBody
	//
	if constrainOuter && constrainInner && !scope.Equals(inner.Scope) {
		return nil, &ContradictionError{"result and body", scope, inner.Scope}
	}
	// There are two possible ways the middle value may be constrained;
	// check they don't contradict either.
	constrainMiddleViaOuter := constrainBody
	constrainMiddleViaInner := inner.ConstrainResult
	//
	if constrainMiddleViaOuter && constrainMiddleViaInner && !scope.Equals(inner.Scope) {
		return nil, &ContradictionError{"intermediate result", scope, inner.Scope}
	}
	// The intermediate constraints can now be ignored; collapse to a single
	// annotation over the innermost body.  Re-entering ensures deeper
	// nestings normalize by induction.
	effective := inner.Scope
	if constrainInner || constrainOuter {
		effective = scope
	}
	//
	return MaybeAnnotate(inner.Body, effective, constrainOuter, constrainInner)
}
