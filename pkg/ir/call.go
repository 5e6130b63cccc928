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
	"github.com/tesseralang/go-tessera/pkg/util/source/sexp"
)

// Call represents the application of a callee (an operator, a function
// value, or a variable bound to one) to zero or more arguments, possibly
// with operator attributes.
type Call struct {
	Callee Expr
	Args   []Expr
	// Attributes of the call (nil if none).
	Attrs Attributes
}

var _ Expr = &Call{}

// NewCall constructs a call of a given callee with given arguments (and no
// attributes).
func NewCall(callee Expr, args ...Expr) *Call {
	return &Call{callee, args, nil}
}

// NewCallWithAttrs constructs a call of a given callee with given arguments
// and attributes.
func NewCallWithAttrs(callee Expr, attrs Attributes, args ...Expr) *Call {
	return &Call{callee, args, attrs}
}

// Lisp implementation for Expr interface.
func (p *Call) Lisp() sexp.SExp {
	var elements []sexp.SExp
	// Operator calls print as (op args...); anything else as (call f args...).
	if _, ok := p.Callee.(*Op); !ok {
		elements = append(elements, sexp.NewSymbol("call"))
	}
	//
	elements = append(elements, p.Callee.Lisp())
	//
	for _, arg := range p.Args {
		elements = append(elements, arg.Lisp())
	}
	//
	if p.Attrs != nil {
		elements = append(elements, p.Attrs.Lisp())
	}
	//
	return sexp.NewList(elements)
}

func (p *Call) isExpr() {}
