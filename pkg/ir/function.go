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

// Param declares a function parameter: a variable name together with its
// declared type.
type Param struct {
	Name string
	Type Type
}

// Function represents a function value: an ordered list of typed parameters
// and a body expression, with an optional declared return type.  A
// function's own device is carried by its (optional) placement record, not
// by wrapping the function value itself; hence bare function values are
// never wrapped with placement annotations.
type Function struct {
	Params []Param
	Body   Expr
	// Declared return type (nil if inferred).
	Return Type
	// Placement record for this function (nil if unconstrained).  This is
	// side metadata: it is attached whole by a placement-recording pass and
	// never partially updated.
	Placement *FuncPlacement
}

var _ Expr = &Function{}

// NewFunction constructs a function value with given parameters and body,
// and no declared return type or placement.
func NewFunction(params []Param, body Expr) *Function {
	return &Function{params, body, nil, nil}
}

// Arity returns the number of parameters this function declares.
func (p *Function) Arity() uint {
	return uint(len(p.Params))
}

// WithPlacement returns a copy of this function carrying a given placement
// record in place of any existing one.  The receiver is left untouched.
func (p *Function) WithPlacement(placement *FuncPlacement) *Function {
	return &Function{p.Params, p.Body, p.Return, placement}
}

// Lisp implementation for Expr interface.
func (p *Function) Lisp() sexp.SExp {
	params := make([]sexp.SExp, len(p.Params))
	//
	for i, param := range p.Params {
		params[i] = paramLisp(param)
	}
	//
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("fn"),
		sexp.NewList(params),
		p.Body.Lisp(),
	})
}

func (p *Function) isExpr() {}

// FuncPlacement records the placement of a function's parameters and result.
// Absence of a record is semantically identical to every scope being
// unconstrained.  The length of Params must equal the function's arity; this
// is enforced when the record is attached.
type FuncPlacement struct {
	// Placement of each parameter, in declaration order.
	Params []*device.Scope
	// Placement of the result.
	Result *device.Scope
}

func paramLisp(param Param) sexp.SExp {
	var elements = []sexp.SExp{sexp.NewSymbol("%" + param.Name)}
	//
	if tensor, ok := param.Type.(*TensorType); ok {
		elements = append(elements, sexp.NewSymbol(tensor.Elem.String()))
		//
		if !tensor.IsScalar() {
			dims := make([]sexp.SExp, len(tensor.Shape))
			//
			for i, dim := range tensor.Shape {
				dims[i] = sexp.NewSymbol(dimString(dim))
			}
			//
			elements = append(elements, sexp.NewArray(dims))
		}
	}
	//
	return sexp.NewList(elements)
}
