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
	"fmt"
)

// TypeError signals that an expression is ill-typed, carrying the offending
// expression for error reporting.
type TypeError struct {
	// Offending expression.
	Expr Expr
	// Explanation of the failure.
	Msg string
}

// Error implementation for error interface.
func (p *TypeError) Error() string {
	return fmt.Sprintf("%s (in %s)", p.Msg, p.Expr.Lisp().String(true))
}

func typeErrorf(expr Expr, format string, args ...any) *TypeError {
	return &TypeError{expr, fmt.Sprintf(format, args...)}
}

// CheckModule type checks every definition of a module, resolving operator
// calls through their registered type relations.  Placement annotations are
// transparent here: they never influence typing.
func CheckModule(module *Module) error {
	checker := &checker{module, make(map[string]Type), make(map[string]bool)}
	//
	for _, def := range module.Defs {
		if _, err := checker.global(def.Name); err != nil {
			return err
		}
	}
	//
	return nil
}

// InferType determines the type of a standalone expression in the context of
// a given module (which may be nil for closed expressions).
func InferType(module *Module, expr Expr) (Type, error) {
	if module == nil {
		module = NewModule()
	}
	//
	checker := &checker{module, make(map[string]Type), make(map[string]bool)}
	//
	return checker.infer(make(map[string]Type), expr)
}

type checker struct {
	module *Module
	// Memoized types of global definitions.
	globals map[string]Type
	// Definitions currently being checked (for cycle detection).
	inProgress map[string]bool
}

func (p *checker) global(name string) (Type, error) {
	if typ, ok := p.globals[name]; ok {
		return typ, nil
	}
	//
	fn, ok := p.module.Function(name)
	if !ok {
		return nil, fmt.Errorf("global \"@%s\" not defined", name)
	}
	//
	if p.inProgress[name] {
		return nil, fmt.Errorf("global \"@%s\" is recursively defined", name)
	}
	//
	p.inProgress[name] = true
	defer delete(p.inProgress, name)
	//
	typ, err := p.infer(make(map[string]Type), fn)
	if err != nil {
		return nil, err
	}
	//
	p.globals[name] = typ
	//
	return typ, nil
}

//nolint:gocyclo
func (p *checker) infer(env map[string]Type, expr Expr) (Type, error) {
	switch e := expr.(type) {
	case *Var:
		if typ, ok := env[e.Name]; ok {
			return typ, nil
		}
		//
		return nil, typeErrorf(e, "variable %%%s unbound", e.Name)
	case *GlobalVar:
		return p.global(e.Name)
	case *Constant:
		return e.Type, nil
	case *Tuple:
		return p.inferTuple(env, e)
	case *TupleGet:
		return p.inferTupleGet(env, e)
	case *Call:
		return p.inferCall(env, e)
	case *Let:
		value, err := p.infer(env, e.Value)
		if err != nil {
			return nil, err
		}
		// Bind variable in a fresh environment.
		env = shadow(env, e.Var.Name, value)
		//
		return p.infer(env, e.Body)
	case *If:
		return p.inferIf(env, e)
	case *Function:
		return p.inferFunction(env, e)
	case *Annotation:
		// Annotations are the identity over their body.
		return p.infer(env, e.Body)
	case *Op:
		return nil, typeErrorf(e, "bare operator \"%s\" must be applied", e.Name)
	case *Constructor:
		return nil, typeErrorf(e, "bare constructor #%s must be applied", e.Name)
	default:
		panic(fmt.Sprintf("unknown expression (%T)", expr))
	}
}

func (p *checker) inferTuple(env map[string]Type, e *Tuple) (Type, error) {
	fields := make([]Type, len(e.Fields))
	//
	for i, field := range e.Fields {
		typ, err := p.infer(env, field)
		if err != nil {
			return nil, err
		}
		//
		fields[i] = typ
	}
	//
	return &TupleType{fields}, nil
}

func (p *checker) inferTupleGet(env map[string]Type, e *TupleGet) (Type, error) {
	typ, err := p.infer(env, e.Tuple)
	if err != nil {
		return nil, err
	}
	//
	tuple, ok := typ.(*TupleType)
	if !ok {
		return nil, typeErrorf(e, "projection of non-tuple type %s", typ)
	} else if e.Index >= uint(len(tuple.Fields)) {
		return nil, typeErrorf(e, "projection index %d out of range (tuple has %d fields)", e.Index, len(tuple.Fields))
	}
	//
	return tuple.Fields[e.Index], nil
}

func (p *checker) inferCall(env map[string]Type, e *Call) (Type, error) {
	args := make([]Type, len(e.Args))
	//
	for i, arg := range e.Args {
		typ, err := p.infer(env, arg)
		if err != nil {
			return nil, err
		}
		//
		args[i] = typ
	}
	// Operator calls resolve through the operator's type relation.
	if op, ok := e.Callee.(*Op); ok {
		if uint(len(args)) != op.Arity {
			return nil, typeErrorf(e, "operator \"%s\" expects %d input(s), given %d", op.Name, op.Arity, len(args))
		}
		//
		typ, err := op.Relation(args, e.Attrs, op.Arity)
		if err != nil {
			return nil, &TypeError{e, err.Error()}
		}
		//
		return typ, nil
	}
	// Otherwise, the callee must evaluate to a function.
	typ, err := p.infer(env, e.Callee)
	if err != nil {
		return nil, err
	}
	//
	fn, ok := typ.(*FuncType)
	if !ok {
		return nil, typeErrorf(e, "call of non-function type %s", typ)
	} else if len(fn.Params) != len(args) {
		return nil, typeErrorf(e, "function expects %d argument(s), given %d", len(fn.Params), len(args))
	}
	//
	for i, arg := range args {
		if !arg.Equals(fn.Params[i]) {
			return nil, typeErrorf(e, "argument %d has type %s, expected %s", i, arg, fn.Params[i])
		}
	}
	//
	return fn.Return, nil
}

func (p *checker) inferIf(env map[string]Type, e *If) (Type, error) {
	condition, err := p.infer(env, e.Condition)
	if err != nil {
		return nil, err
	}
	//
	if tensor, ok := condition.(*TensorType); !ok || !tensor.IsScalar() || tensor.Elem.Code != BOOL_TYPE {
		return nil, typeErrorf(e, "condition has type %s, expected scalar bool", condition)
	}
	//
	trueBranch, err := p.infer(env, e.TrueBranch)
	if err != nil {
		return nil, err
	}
	//
	falseBranch, err := p.infer(env, e.FalseBranch)
	if err != nil {
		return nil, err
	}
	//
	if !trueBranch.Equals(falseBranch) {
		return nil, typeErrorf(e, "branches have differing types %s and %s", trueBranch, falseBranch)
	}
	//
	return trueBranch, nil
}

func (p *checker) inferFunction(env map[string]Type, e *Function) (Type, error) {
	var params = make([]Type, len(e.Params))
	// Bind parameters in a fresh environment.
	env = shadow(env, "", nil)
	//
	for i, param := range e.Params {
		if param.Type == nil {
			return nil, typeErrorf(e, "parameter %%%s lacks a declared type", param.Name)
		}
		//
		params[i] = param.Type
		env[param.Name] = param.Type
	}
	//
	body, err := p.infer(env, e.Body)
	if err != nil {
		return nil, err
	}
	//
	if e.Return != nil && !e.Return.Equals(body) {
		return nil, typeErrorf(e, "body has type %s, declared return type %s", body, e.Return)
	}
	//
	return &FuncType{params, body}, nil
}

// Construct a fresh environment extending an existing one with a given
// binding (the empty name binds nothing, and merely copies).
func shadow(env map[string]Type, name string, typ Type) map[string]Type {
	fresh := make(map[string]Type, len(env)+1)
	//
	for k, v := range env {
		fresh[k] = v
	}
	//
	if name != "" {
		fresh[name] = typ
	}
	//
	return fresh
}
