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

// InternOps rewrites an expression such that every operator node is the
// instance owned by the registry.  Gob decoding allocates a fresh copy per
// operator node (a GobDecoder cannot substitute a shared pointer), so
// modules read back from a bundle must pass through here to restore the
// ownership invariant documented on Op.  Subtrees without operators are
// shared, not copied.
func InternOps(expr Expr) Expr {
	switch e := expr.(type) {
	case *Op:
		return MustOp(e.Name)
	case *Var, *GlobalVar, *Constant, *Constructor:
		return expr
	case *Tuple:
		fields := make([]Expr, len(e.Fields))
		//
		for i, field := range e.Fields {
			fields[i] = InternOps(field)
		}
		//
		return &Tuple{fields}
	case *TupleGet:
		return &TupleGet{InternOps(e.Tuple), e.Index}
	case *Call:
		args := make([]Expr, len(e.Args))
		//
		for i, arg := range e.Args {
			args[i] = InternOps(arg)
		}
		//
		return &Call{InternOps(e.Callee), args, e.Attrs}
	case *Let:
		return &Let{e.Var, InternOps(e.Value), InternOps(e.Body)}
	case *If:
		return &If{InternOps(e.Condition), InternOps(e.TrueBranch), InternOps(e.FalseBranch)}
	case *Function:
		return &Function{e.Params, InternOps(e.Body), e.Return, e.Placement}
	case *Annotation:
		return &Annotation{InternOps(e.Body), e.Scope, e.ConstrainResult, e.ConstrainBody}
	default:
		panic(fmt.Sprintf("unknown expression (%T)", expr))
	}
}

// InternModuleOps applies InternOps to every definition of a module,
// returning a fresh module.  The receiver is left untouched.
func InternModuleOps(module *Module) *Module {
	defs := make([]Def, len(module.Defs))
	//
	for i, def := range module.Defs {
		fn := def.Function
		defs[i] = Def{def.Name, &Function{fn.Params, InternOps(fn.Body), fn.Return, fn.Placement}}
	}
	//
	return &Module{defs}
}
