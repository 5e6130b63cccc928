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

// Constructor is a bare reference to an algebraic datatype constructor.  The
// datatype machinery itself lives outside this IR; constructors appear here
// only so far as placement is concerned, where (like operators) they are
// polymorphic over call sites and never wrapped with annotations.
type Constructor struct {
	Name string
}

var _ Expr = &Constructor{}

// NewConstructor constructs a reference to a given datatype constructor.
func NewConstructor(name string) *Constructor {
	return &Constructor{name}
}

// Lisp implementation for Expr interface.
func (p *Constructor) Lisp() sexp.SExp {
	return sexp.NewSymbol("#" + p.Name)
}

func (p *Constructor) isExpr() {}
