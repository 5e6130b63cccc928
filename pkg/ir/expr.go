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

// Package ir defines the expression grammar of the tensor IR.  The grammar
// is a closed set of node kinds, each an immutable value: nodes, once built,
// are never mutated in place, and all rewrites construct fresh nodes which
// may share unmodified substructure with their originals.  Concurrent reads
// of the same IR from multiple compilation passes are therefore safe without
// locking.
package ir

import (
	"github.com/tesseralang/go-tessera/pkg/util/source/sexp"
)

// Expr represents an arbitrary expression within the IR.  The set of
// implementations is closed: Var, GlobalVar, Constant, Tuple, TupleGet,
// Call, Let, If, Function, Op, Constructor and Annotation.
type Expr interface {
	// Lisp converts this expression into its S-expression form, suitable
	// for printing.
	Lisp() sexp.SExp
	// Seals the node set.
	isExpr()
}
