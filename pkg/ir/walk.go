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

import "fmt"

// Walk traverses an expression in preorder, applying a given visitor to
// every node encountered.  Returning false from the visitor skips the
// children of the node in question.
func Walk(expr Expr, visitor func(Expr) bool) {
	if !visitor(expr) {
		return
	}
	//
	switch e := expr.(type) {
	case *Var, *GlobalVar, *Constant, *Op, *Constructor:
		// terminals
	case *Tuple:
		for _, field := range e.Fields {
			Walk(field, visitor)
		}
	case *TupleGet:
		Walk(e.Tuple, visitor)
	case *Call:
		Walk(e.Callee, visitor)
		//
		for _, arg := range e.Args {
			Walk(arg, visitor)
		}
	case *Let:
		Walk(e.Var, visitor)
		Walk(e.Value, visitor)
		Walk(e.Body, visitor)
	case *If:
		Walk(e.Condition, visitor)
		Walk(e.TrueBranch, visitor)
		Walk(e.FalseBranch, visitor)
	case *Function:
		Walk(e.Body, visitor)
	case *Annotation:
		Walk(e.Body, visitor)
	default:
		panic(fmt.Sprintf("unknown expression (%T)", expr))
	}
}
