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
package placement

import (
	"github.com/tesseralang/go-tessera/pkg/device"
	"github.com/tesseralang/go-tessera/pkg/ir"
)

// Props are the four fields of a placement annotation, as recovered by
// Decompose.
type Props struct {
	Body            ir.Expr
	Scope           *device.Scope
	ConstrainResult bool
	ConstrainBody   bool
}

// Decompose probes an arbitrary expression for annotation-hood.  It returns
// the annotation's fields and true when the expression is a placement
// annotation, and false otherwise; probing never fails, since asking this
// question of arbitrary IR nodes is a routine query.
func Decompose(expr ir.Expr) (Props, bool) {
	if annotation, ok := expr.(*ir.Annotation); ok {
		return Props{
			Body:            annotation.Body,
			Scope:           annotation.Scope,
			ConstrainResult: annotation.ConstrainResult,
			ConstrainBody:   annotation.ConstrainBody,
		}, true
	}
	//
	return Props{}, false
}

// Strip removes every placement annotation within an expression, yielding
// the underlying computation.  Device planning uses this once placement
// decisions have been baked out of annotations.  Unannotated substructure is
// shared with the original, not copied.
func Strip(expr ir.Expr) ir.Expr {
	switch e := expr.(type) {
	case *ir.Annotation:
		return Strip(e.Body)
	case *ir.Tuple:
		fields := make([]ir.Expr, len(e.Fields))
		//
		for i, field := range e.Fields {
			fields[i] = Strip(field)
		}
		//
		return &ir.Tuple{Fields: fields}
	case *ir.TupleGet:
		return &ir.TupleGet{Tuple: Strip(e.Tuple), Index: e.Index}
	case *ir.Call:
		args := make([]ir.Expr, len(e.Args))
		//
		for i, arg := range e.Args {
			args[i] = Strip(arg)
		}
		//
		return &ir.Call{Callee: Strip(e.Callee), Args: args, Attrs: e.Attrs}
	case *ir.Let:
		return &ir.Let{Var: e.Var, Value: Strip(e.Value), Body: Strip(e.Body)}
	case *ir.If:
		return &ir.If{
			Condition:   Strip(e.Condition),
			TrueBranch:  Strip(e.TrueBranch),
			FalseBranch: Strip(e.FalseBranch),
		}
	case *ir.Function:
		return &ir.Function{
			Params:    e.Params,
			Body:      Strip(e.Body),
			Return:    e.Return,
			Placement: e.Placement,
		}
	default:
		// Terminals carry no annotations.
		return expr
	}
}
