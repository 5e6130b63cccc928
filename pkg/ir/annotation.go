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
package ir

import (
	"github.com/tesseralang/go-tessera/pkg/device"
	"github.com/tesseralang/go-tessera/pkg/util/source/sexp"
)

// Annotation wraps a body expression with a placement constraint.  The two
// flags are independent: ConstrainResult asserts that the value this node
// itself produces obeys Scope, whilst ConstrainBody asserts that the body's
// placement obeys Scope.  An annotation is transparent to typing (its type
// is exactly its body's type).
//
// Invariant: an annotation with neither flag set asserts nothing and, hence,
// must carry the unconstrained scope.  This is enforced by NewAnnotation;
// construct annotations through placement.MaybeAnnotate rather than
// directly.
type Annotation struct {
	Body  Expr
	Scope *device.Scope
	// Does the value this node produces obey Scope?
	ConstrainResult bool
	// Does the body's placement obey Scope?
	ConstrainBody bool
}

var _ Expr = &Annotation{}

// NewAnnotation constructs a placement annotation, enforcing the invariant
// above: with neither flag set, the stored scope is forced to the
// unconstrained sentinel regardless of what was passed in; with either flag
// set, a concrete scope is required.
func NewAnnotation(body Expr, scope *device.Scope, constrainResult bool, constrainBody bool) *Annotation {
	if !constrainResult && !constrainBody {
		scope = device.Unconstrained()
	} else if scope.IsFullyUnconstrained() {
		panic("placement annotation constrains against the unconstrained scope")
	}
	//
	return &Annotation{body, scope, constrainResult, constrainBody}
}

// Lisp implementation for Expr interface.
func (p *Annotation) Lisp() sexp.SExp {
	elements := []sexp.SExp{
		sexp.NewSymbol("on_device"),
		p.Body.Lisp(),
		sexp.NewSymbol(p.Scope.String()),
	}
	//
	if p.ConstrainResult {
		elements = append(elements, sexp.NewSymbol("result"))
	}
	//
	if p.ConstrainBody {
		elements = append(elements, sexp.NewSymbol("body"))
	}
	//
	return sexp.NewList(elements)
}

func (p *Annotation) isExpr() {}
