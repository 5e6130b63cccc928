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

	"github.com/tesseralang/go-tessera/pkg/util/source/sexp"
)

// Def is a module-level function definition.
type Def struct {
	Name     string
	Function *Function
}

// Module is an ordered collection of global function definitions.
type Module struct {
	Defs []Def
}

// NewModule constructs an empty module.
func NewModule() *Module {
	return &Module{}
}

// Add appends a new definition to this module, or returns an error if a
// definition of the same name already exists.
func (p *Module) Add(name string, function *Function) error {
	if _, ok := p.Function(name); ok {
		return fmt.Errorf("global \"@%s\" defined twice", name)
	}
	//
	p.Defs = append(p.Defs, Def{name, function})
	//
	return nil
}

// Function looks up a definition in this module by name.
func (p *Module) Function(name string) (*Function, bool) {
	for _, def := range p.Defs {
		if def.Name == name {
			return def.Function, true
		}
	}
	//
	return nil, false
}

// Replace the definition of a given name with a new function, panicking if
// no such definition exists.  Observe that this constructs a fresh module;
// the receiver is left untouched.
func (p *Module) Replace(name string, function *Function) *Module {
	var (
		defs  = make([]Def, len(p.Defs))
		found bool
	)
	//
	for i, def := range p.Defs {
		if def.Name == name {
			def.Function = function
			found = true
		}
		//
		defs[i] = def
	}
	//
	if !found {
		panic(fmt.Sprintf("global \"@%s\" not defined", name))
	}
	//
	return &Module{defs}
}

// Lisp converts this module into its S-expression declarations: a "def" form
// per definition, followed by a "placement" form for any definition carrying
// a placement record.
func (p *Module) Lisp() []sexp.SExp {
	var decls []sexp.SExp
	//
	for _, def := range p.Defs {
		fn := def.Function
		params := make([]sexp.SExp, len(fn.Params))
		//
		for i, param := range fn.Params {
			params[i] = paramLisp(param)
		}
		//
		decls = append(decls, sexp.NewList([]sexp.SExp{
			sexp.NewSymbol("def"),
			sexp.NewSymbol("@" + def.Name),
			sexp.NewList(params),
			fn.Body.Lisp(),
		}))
		//
		if fn.Placement != nil {
			decls = append(decls, placementLisp(def.Name, fn.Placement))
		}
	}
	//
	return decls
}

func placementLisp(name string, placement *FuncPlacement) sexp.SExp {
	params := make([]sexp.SExp, len(placement.Params))
	//
	for i, scope := range placement.Params {
		params[i] = sexp.NewSymbol(scope.String())
	}
	//
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("placement"),
		sexp.NewSymbol("@" + name),
		sexp.NewList(params),
		sexp.NewSymbol(placement.Result.String()),
	})
}
