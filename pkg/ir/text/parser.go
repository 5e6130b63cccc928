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

// Package text implements the textual format of the tensor IR: a reader
// from S-expressions into IR (routing placement forms through the placement
// package, as any frontend must) and a width-aware printer back out.
package text

import (
	"strconv"
	"strings"

	"github.com/tesseralang/go-tessera/pkg/device"
	"github.com/tesseralang/go-tessera/pkg/ir"
	"github.com/tesseralang/go-tessera/pkg/placement"
	"github.com/tesseralang/go-tessera/pkg/util/source"
	"github.com/tesseralang/go-tessera/pkg/util/source/sexp"
)

// ParseModule parses a source file into a module: a sequence of "def"
// declarations, optionally followed by "placement" declarations recording
// the placement of a definition's parameters and result.
func ParseModule(srcfile *source.File) (*ir.Module, *source.SyntaxError) {
	terms, srcmap, err := sexp.ParseAll(srcfile)
	if err != nil {
		return nil, err
	}
	//
	t := &translator{srcmap}
	module := ir.NewModule()
	// First pass: definitions.
	for _, term := range terms {
		list := term.AsList()
		//
		switch {
		case list == nil:
			return nil, t.errorf(term, "expected a declaration")
		case list.MatchSymbols(1, "def"):
			if err := t.translateDef(module, list); err != nil {
				return nil, err
			}
		case list.MatchSymbols(1, "placement"):
			// second pass
		default:
			return nil, t.errorf(term, "unknown declaration")
		}
	}
	// Second pass: placement records (which may refer to any definition).
	for _, term := range terms {
		if list := term.AsList(); list.MatchSymbols(1, "placement") {
			if err := t.translatePlacement(module, list); err != nil {
				return nil, err
			}
		}
	}
	//
	return module, nil
}

// ParseExpr parses a source file holding a single standalone expression.
func ParseExpr(srcfile *source.File) (ir.Expr, *source.SyntaxError) {
	term, srcmap, err := sexp.Parse(srcfile)
	if err != nil {
		return nil, err
	}
	//
	t := &translator{srcmap}
	//
	return t.translate(term)
}

// Translator from S-expressions into IR, reporting errors against the
// original text via the parser's source map.
type translator struct {
	srcmap *source.Map[sexp.SExp]
}

func (p *translator) errorf(term sexp.SExp, msg string) *source.SyntaxError {
	return p.srcmap.SyntaxError(term, msg)
}

// ============================================================================
// Declarations
// ============================================================================

func (p *translator) translateDef(module *ir.Module, list *sexp.List) *source.SyntaxError {
	if list.Len() != 4 {
		return p.errorf(list, "malformed def (expected name, parameters, body)")
	}
	//
	name, ok := globalName(list.Get(1))
	if !ok {
		return p.errorf(list.Get(1), "expected global name \"@name\"")
	}
	//
	params, err := p.translateParams(list.Get(2))
	if err != nil {
		return err
	}
	//
	body, err := p.translate(list.Get(3))
	if err != nil {
		return err
	}
	//
	if e := module.Add(name, ir.NewFunction(params, body)); e != nil {
		return p.errorf(list, e.Error())
	}
	//
	return nil
}

func (p *translator) translatePlacement(module *ir.Module, list *sexp.List) *source.SyntaxError {
	if list.Len() != 4 {
		return p.errorf(list, "malformed placement (expected name, parameter scopes, result scope)")
	}
	//
	name, ok := globalName(list.Get(1))
	if !ok {
		return p.errorf(list.Get(1), "expected global name \"@name\"")
	}
	//
	fn, ok := module.Function(name)
	if !ok {
		return p.errorf(list.Get(1), "global \"@"+name+"\" not defined")
	}
	//
	scopesList := list.Get(2).AsList()
	if scopesList == nil {
		return p.errorf(list.Get(2), "expected a list of parameter scopes")
	}
	// Enforce the arity invariant here, where a span is available.
	if uint(scopesList.Len()) != fn.Arity() {
		return p.errorf(list.Get(2), "placement declares "+strconv.Itoa(scopesList.Len())+
			" parameter scope(s) for function of arity "+strconv.FormatUint(uint64(fn.Arity()), 10))
	}
	//
	paramScopes := make([]*device.Scope, scopesList.Len())
	//
	for i := 0; i < scopesList.Len(); i++ {
		scope, err := p.translateScope(scopesList.Get(i))
		if err != nil {
			return err
		}
		//
		paramScopes[i] = scope
	}
	//
	resultScope, err := p.translateScope(list.Get(3))
	if err != nil {
		return err
	}
	// NOTE: must replace (not mutate) since functions are immutable values.
	attached := placement.MaybeAttach(fn, paramScopes, resultScope)
	*module = *module.Replace(name, attached)
	//
	return nil
}

func (p *translator) translateParams(term sexp.SExp) ([]ir.Param, *source.SyntaxError) {
	list := term.AsList()
	if list == nil {
		return nil, p.errorf(term, "expected a parameter list")
	}
	//
	params := make([]ir.Param, list.Len())
	//
	for i := 0; i < list.Len(); i++ {
		param := list.Get(i).AsList()
		if param == nil || param.Len() < 2 || param.Len() > 3 {
			return nil, p.errorf(list.Get(i), "malformed parameter (expected \"(%name type shape?)\")")
		}
		//
		name, ok := localName(param.Get(0))
		if !ok {
			return nil, p.errorf(param.Get(0), "expected parameter name \"%name\"")
		}
		//
		typ, err := p.translateTensorType(param, 1)
		if err != nil {
			return nil, err
		}
		//
		params[i] = ir.Param{Name: name, Type: typ}
	}
	//
	return params, nil
}

// ============================================================================
// Expressions
// ============================================================================

func (p *translator) translate(term sexp.SExp) (ir.Expr, *source.SyntaxError) {
	if symbol := term.AsSymbol(); symbol != nil {
		return p.translateSymbol(symbol)
	} else if list := term.AsList(); list != nil {
		return p.translateList(list)
	}
	//
	return nil, p.errorf(term, "expected an expression")
}

func (p *translator) translateSymbol(symbol *sexp.Symbol) (ir.Expr, *source.SyntaxError) {
	name := symbol.Value
	//
	switch {
	case strings.HasPrefix(name, "%") && len(name) > 1:
		return ir.NewVar(name[1:]), nil
	case strings.HasPrefix(name, "@") && len(name) > 1:
		return ir.NewGlobalVar(name[1:]), nil
	case strings.HasPrefix(name, "#") && len(name) > 1:
		return ir.NewConstructor(name[1:]), nil
	}
	// Bare operator reference.
	if op, ok := ir.LookupOp(name); ok {
		return op, nil
	}
	//
	return nil, p.errorf(symbol, "unknown operator \""+name+"\"")
}

//nolint:gocyclo
func (p *translator) translateList(list *sexp.List) (ir.Expr, *source.SyntaxError) {
	if list.Len() == 0 {
		return nil, p.errorf(list, "empty expression")
	}
	//
	head := list.Get(0).AsSymbol()
	if head == nil {
		return nil, p.errorf(list.Get(0), "expected an operator or form name")
	}
	//
	switch head.Value {
	case "call":
		return p.translateCall(list)
	case "let":
		return p.translateLet(list)
	case "if":
		return p.translateIf(list)
	case "tuple":
		return p.translateTuple(list)
	case "get":
		return p.translateGet(list)
	case "fn":
		return p.translateFn(list)
	case "const":
		return p.translateConst(list)
	case "ctor":
		if list.Len() != 2 || list.Get(1).AsSymbol() == nil {
			return nil, p.errorf(list, "malformed constructor reference")
		}
		//
		return ir.NewConstructor(list.Get(1).AsSymbol().Value), nil
	case "on_device":
		return p.translateOnDevice(list)
	default:
		return p.translateOpCall(list, head)
	}
}

func (p *translator) translateCall(list *sexp.List) (ir.Expr, *source.SyntaxError) {
	if list.Len() < 2 {
		return nil, p.errorf(list, "malformed call (expected callee)")
	}
	//
	callee, err := p.translate(list.Get(1))
	if err != nil {
		return nil, err
	}
	//
	args, _, err := p.translateArgs(list, 2, nil)
	if err != nil {
		return nil, err
	}
	//
	return ir.NewCall(callee, args...), nil
}

func (p *translator) translateOpCall(list *sexp.List, head *sexp.Symbol) (ir.Expr, *source.SyntaxError) {
	op, ok := ir.LookupOp(head.Value)
	if !ok {
		return nil, p.errorf(head, "unknown operator \""+head.Value+"\"")
	}
	//
	args, attrs, err := p.translateArgs(list, 1, op)
	if err != nil {
		return nil, err
	}
	//
	return ir.NewCallWithAttrs(op, attrs, args...), nil
}

// Translate call arguments, allowing a trailing attribute dictionary when an
// operator is given.
func (p *translator) translateArgs(list *sexp.List, start int, op *ir.Op) ([]ir.Expr, ir.Attributes, *source.SyntaxError) {
	var (
		args  []ir.Expr
		attrs ir.Attributes
	)
	//
	for i := start; i < list.Len(); i++ {
		if set := list.Get(i).AsSet(); set != nil {
			if op == nil {
				return nil, nil, p.errorf(set, "unexpected attribute dictionary")
			} else if i+1 != list.Len() {
				return nil, nil, p.errorf(set, "attribute dictionary must come last")
			}
			//
			parsed, err := p.translateAttrs(set, op)
			if err != nil {
				return nil, nil, err
			}
			//
			attrs = parsed
			//
			break
		}
		//
		arg, err := p.translate(list.Get(i))
		if err != nil {
			return nil, nil, err
		}
		//
		args = append(args, arg)
	}
	//
	return args, attrs, nil
}

func (p *translator) translateAttrs(set *sexp.Set, op *ir.Op) (ir.Attributes, *source.SyntaxError) {
	if op.ParseAttributes == nil {
		return nil, p.errorf(set, "operator \""+op.Name+"\" takes no attributes")
	} else if set.Len()%2 != 0 {
		return nil, p.errorf(set, "malformed attribute dictionary (expected key-value pairs)")
	}
	//
	fields := make(map[string]string, set.Len()/2)
	//
	for i := 0; i < set.Len(); i += 2 {
		key := set.Get(i).AsSymbol()
		if key == nil {
			return nil, p.errorf(set.Get(i), "expected an attribute key")
		}
		//
		fields[key.Value] = set.Get(i + 1).String(false)
	}
	//
	attrs, err := op.ParseAttributes(fields)
	if err != nil {
		return nil, p.errorf(set, err.Error())
	}
	//
	return attrs, nil
}

func (p *translator) translateLet(list *sexp.List) (ir.Expr, *source.SyntaxError) {
	if list.Len() != 4 {
		return nil, p.errorf(list, "malformed let (expected variable, value, body)")
	}
	//
	name, ok := localName(list.Get(1))
	if !ok {
		return nil, p.errorf(list.Get(1), "expected variable name \"%name\"")
	}
	//
	value, err := p.translate(list.Get(2))
	if err != nil {
		return nil, err
	}
	//
	body, err := p.translate(list.Get(3))
	if err != nil {
		return nil, err
	}
	//
	return ir.NewLet(ir.NewVar(name), value, body), nil
}

func (p *translator) translateIf(list *sexp.List) (ir.Expr, *source.SyntaxError) {
	if list.Len() != 4 {
		return nil, p.errorf(list, "malformed if (expected condition and two branches)")
	}
	//
	condition, err := p.translate(list.Get(1))
	if err != nil {
		return nil, err
	}
	//
	trueBranch, err := p.translate(list.Get(2))
	if err != nil {
		return nil, err
	}
	//
	falseBranch, err := p.translate(list.Get(3))
	if err != nil {
		return nil, err
	}
	//
	return ir.NewIf(condition, trueBranch, falseBranch), nil
}

func (p *translator) translateTuple(list *sexp.List) (ir.Expr, *source.SyntaxError) {
	fields := make([]ir.Expr, list.Len()-1)
	//
	for i := 1; i < list.Len(); i++ {
		field, err := p.translate(list.Get(i))
		if err != nil {
			return nil, err
		}
		//
		fields[i-1] = field
	}
	//
	return ir.NewTuple(fields...), nil
}

func (p *translator) translateGet(list *sexp.List) (ir.Expr, *source.SyntaxError) {
	if list.Len() != 3 {
		return nil, p.errorf(list, "malformed get (expected tuple and index)")
	}
	//
	tuple, err := p.translate(list.Get(1))
	if err != nil {
		return nil, err
	}
	//
	symbol := list.Get(2).AsSymbol()
	if symbol == nil {
		return nil, p.errorf(list.Get(2), "expected a field index")
	}
	//
	index, e := strconv.ParseUint(symbol.Value, 10, 32)
	if e != nil {
		return nil, p.errorf(symbol, "invalid field index \""+symbol.Value+"\"")
	}
	//
	return ir.NewTupleGet(tuple, uint(index)), nil
}

func (p *translator) translateFn(list *sexp.List) (ir.Expr, *source.SyntaxError) {
	if list.Len() != 3 {
		return nil, p.errorf(list, "malformed fn (expected parameters and body)")
	}
	//
	params, err := p.translateParams(list.Get(1))
	if err != nil {
		return nil, err
	}
	//
	body, err := p.translate(list.Get(2))
	if err != nil {
		return nil, err
	}
	//
	return ir.NewFunction(params, body), nil
}

func (p *translator) translateConst(list *sexp.List) (ir.Expr, *source.SyntaxError) {
	if list.Len() < 3 || list.Len() > 4 {
		return nil, p.errorf(list, "malformed const (expected type, shape?, value)")
	}
	//
	typ, err := p.translateTensorType(list, 1)
	if err != nil {
		return nil, err
	}
	//
	value := list.Get(list.Len() - 1).AsSymbol()
	if value == nil {
		return nil, p.errorf(list.Get(list.Len()-1), "expected a scalar value")
	}
	//
	return ir.NewConstant(typ, value.Value), nil
}

// Translate an "on_device" form: body, scope, and optional constraint flags
// ("result" and/or "body").  With no flags given, only the body is
// constrained (the common frontend request).
func (p *translator) translateOnDevice(list *sexp.List) (ir.Expr, *source.SyntaxError) {
	if list.Len() < 3 {
		return nil, p.errorf(list, "malformed on_device (expected body and scope)")
	}
	//
	body, err := p.translate(list.Get(1))
	if err != nil {
		return nil, err
	}
	//
	scope, err := p.translateScope(list.Get(2))
	if err != nil {
		return nil, err
	}
	//
	var constrainResult, constrainBody bool
	//
	for i := 3; i < list.Len(); i++ {
		flag := list.Get(i).AsSymbol()
		//
		switch {
		case flag != nil && flag.Value == "result":
			constrainResult = true
		case flag != nil && flag.Value == "body":
			constrainBody = true
		default:
			return nil, p.errorf(list.Get(i), "expected constraint flag \"result\" or \"body\"")
		}
	}
	//
	if list.Len() == 3 {
		constrainBody = true
	}
	// Route through the merge algorithm, as every frontend must.
	expr, e := placement.MaybeAnnotate(body, scope, constrainResult, constrainBody)
	if e != nil {
		return nil, p.errorf(list, e.Error())
	}
	//
	return expr, nil
}

// ============================================================================
// Helpers
// ============================================================================

// Translate a tensor type given as a dtype symbol at a given position,
// optionally followed by a shape array.
func (p *translator) translateTensorType(list *sexp.List, at int) (*ir.TensorType, *source.SyntaxError) {
	symbol := list.Get(at).AsSymbol()
	if symbol == nil {
		return nil, p.errorf(list.Get(at), "expected an element type")
	}
	//
	dtype, err := ir.ParseDType(symbol.Value)
	if err != nil {
		return nil, p.errorf(symbol, err.Error())
	}
	//
	var shape []int64
	//
	if array := p.shapeArray(list, at+1); array != nil {
		shape = make([]int64, array.Len())
		//
		for i := 0; i < array.Len(); i++ {
			dim, err := p.translateDim(array.Get(i))
			if err != nil {
				return nil, err
			}
			//
			shape[i] = dim
		}
	}
	//
	return &ir.TensorType{Elem: dtype, Shape: shape}, nil
}

// Return the shape array following a dtype symbol, if one is present and is
// not the final element of a const form (which is the scalar value).
func (p *translator) shapeArray(list *sexp.List, at int) *sexp.Array {
	if at < list.Len() {
		return list.Get(at).AsArray()
	}
	//
	return nil
}

func (p *translator) translateDim(term sexp.SExp) (int64, *source.SyntaxError) {
	symbol := term.AsSymbol()
	if symbol == nil {
		return 0, p.errorf(term, "expected a dimension")
	} else if symbol.Value == "?" {
		return ir.DYNAMIC_DIM, nil
	}
	//
	dim, err := strconv.ParseInt(symbol.Value, 10, 64)
	if err != nil || dim < 0 {
		return 0, p.errorf(symbol, "invalid dimension \""+symbol.Value+"\"")
	}
	//
	return dim, nil
}

func (p *translator) translateScope(term sexp.SExp) (*device.Scope, *source.SyntaxError) {
	symbol := term.AsSymbol()
	if symbol == nil {
		return nil, p.errorf(term, "expected a device scope")
	}
	//
	scope, err := device.ParseScope(symbol.Value)
	if err != nil {
		return nil, p.errorf(symbol, err.Error())
	}
	//
	return scope, nil
}

func globalName(term sexp.SExp) (string, bool) {
	if symbol := term.AsSymbol(); symbol != nil && strings.HasPrefix(symbol.Value, "@") && len(symbol.Value) > 1 {
		return symbol.Value[1:], true
	}
	//
	return "", false
}

func localName(term sexp.SExp) (string, bool) {
	if symbol := term.AsSymbol(); symbol != nil && strings.HasPrefix(symbol.Value, "%") && len(symbol.Value) > 1 {
		return symbol.Value[1:], true
	}
	//
	return "", false
}
