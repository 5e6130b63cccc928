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
	"strconv"

	"github.com/tesseralang/go-tessera/pkg/util/source/sexp"
)

// Tuple represents the construction of a tuple from zero or more field
// expressions.
type Tuple struct {
	Fields []Expr
}

var _ Expr = &Tuple{}

// NewTuple constructs a tuple over given fields.
func NewTuple(fields ...Expr) *Tuple {
	return &Tuple{fields}
}

// Lisp implementation for Expr interface.
func (p *Tuple) Lisp() sexp.SExp {
	elements := []sexp.SExp{sexp.NewSymbol("tuple")}
	//
	for _, field := range p.Fields {
		elements = append(elements, field.Lisp())
	}
	//
	return sexp.NewList(elements)
}

func (p *Tuple) isExpr() {}

// TupleGet represents the projection of a given field out of a tuple.
type TupleGet struct {
	Tuple Expr
	Index uint
}

var _ Expr = &TupleGet{}

// NewTupleGet constructs a projection of the ith field of a tuple.
func NewTupleGet(tuple Expr, index uint) *TupleGet {
	return &TupleGet{tuple, index}
}

// Lisp implementation for Expr interface.
func (p *TupleGet) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("get"),
		p.Tuple.Lisp(),
		sexp.NewSymbol(strconv.FormatUint(uint64(p.Index), 10)),
	})
}

func (p *TupleGet) isExpr() {}
