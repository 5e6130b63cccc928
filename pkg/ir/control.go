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

// Let represents the binding of a value to a local variable within a body
// expression.
type Let struct {
	Var   *Var
	Value Expr
	Body  Expr
}

var _ Expr = &Let{}

// NewLet constructs a let binding.
func NewLet(variable *Var, value Expr, body Expr) *Let {
	return &Let{variable, value, body}
}

// Lisp implementation for Expr interface.
func (p *Let) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("let"),
		p.Var.Lisp(),
		p.Value.Lisp(),
		p.Body.Lisp(),
	})
}

func (p *Let) isExpr() {}

// If represents a conditional expression over a scalar boolean condition.
type If struct {
	Condition   Expr
	TrueBranch  Expr
	FalseBranch Expr
}

var _ Expr = &If{}

// NewIf constructs a conditional expression.
func NewIf(condition Expr, trueBranch Expr, falseBranch Expr) *If {
	return &If{condition, trueBranch, falseBranch}
}

// Lisp implementation for Expr interface.
func (p *If) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("if"),
		p.Condition.Lisp(),
		p.TrueBranch.Lisp(),
		p.FalseBranch.Lisp(),
	})
}

func (p *If) isExpr() {}
