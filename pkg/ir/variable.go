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

// Var is a reference to a locally bound variable (a function parameter or a
// let binding).  Its placement is always recoverable from its binding site,
// hence bare variable references are never themselves wrapped with placement
// annotations.
type Var struct {
	Name string
}

var _ Expr = &Var{}

// NewVar constructs a reference to a given local variable.
func NewVar(name string) *Var {
	return &Var{name}
}

// Lisp implementation for Expr interface.
func (p *Var) Lisp() sexp.SExp {
	return sexp.NewSymbol("%" + p.Name)
}

func (p *Var) isExpr() {}

// GlobalVar is a reference to a module-level definition.  Like local
// variables, bare global references are never wrapped with placement
// annotations.
type GlobalVar struct {
	Name string
}

var _ Expr = &GlobalVar{}

// NewGlobalVar constructs a reference to a given global definition.
func NewGlobalVar(name string) *GlobalVar {
	return &GlobalVar{name}
}

// Lisp implementation for Expr interface.
func (p *GlobalVar) Lisp() sexp.SExp {
	return sexp.NewSymbol("@" + p.Name)
}

func (p *GlobalVar) isExpr() {}
