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

// Constant represents a splat tensor literal: a tensor type together with a
// single scalar value (as a decimal string) replicated across every element.
// Full tensor payloads live with the runtime, not the IR.
type Constant struct {
	Type  *TensorType
	Value string
}

var _ Expr = &Constant{}

// NewConstant constructs a splat constant of a given tensor type.
func NewConstant(typ *TensorType, value string) *Constant {
	return &Constant{typ, value}
}

// Lisp implementation for Expr interface.
func (p *Constant) Lisp() sexp.SExp {
	elements := []sexp.SExp{
		sexp.NewSymbol("const"),
		sexp.NewSymbol(p.Type.Elem.String()),
	}
	// Include shape (unless scalar)
	if !p.Type.IsScalar() {
		dims := make([]sexp.SExp, len(p.Type.Shape))
		//
		for i, dim := range p.Type.Shape {
			dims[i] = sexp.NewSymbol(dimString(dim))
		}
		//
		elements = append(elements, sexp.NewArray(dims))
	}
	//
	elements = append(elements, sexp.NewSymbol(p.Value))
	//
	return sexp.NewList(elements)
}

func (p *Constant) isExpr() {}
