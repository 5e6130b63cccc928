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
	"sync"

	"github.com/tesseralang/go-tessera/pkg/util/source/sexp"
)

// TypeRelation is the generic contract every operator implements: given the
// types of its inputs (and any attributes), determine the type of its
// output, or fail.  Type relations are entirely independent of placement.
type TypeRelation func(inputs []Type, attrs Attributes, arity uint) (Type, error)

// AttrParser parses the key-value attribute dictionary given at a call site
// into the operator's typed attribute structure.
type AttrParser func(fields map[string]string) (Attributes, error)

// Attributes represents the typed attribute structure of an operator call.
// Concrete implementations live alongside their operator definitions.
type Attributes interface {
	// AttributesName returns the name of this attribute structure.
	AttributesName() string
	// Lisp converts these attributes into their S-expression form.
	Lisp() sexp.SExp
}

// Op is a reference to a registered operator.  Operators are owned by the
// registry and shared by every call site; a bare operator reference has no
// device of its own (operators are device polymorphic over call sites,
// unless registered otherwise) and is never wrapped with a placement
// annotation.
type Op struct {
	// Name of this operator (e.g. "add", "npu.identity").
	Name string
	// Number of inputs this operator takes.
	Arity uint
	// DevicePolymorphic indicates whether this operator can execute on any
	// device the planner chooses.  Operators which name devices explicitly
	// (e.g. device_copy) register with this flag cleared.
	DevicePolymorphic bool
	// One line description of this operator.
	Description string
	// Support level of this operator (lower is more stable).
	SupportLevel uint
	// Relation determines the output type of a call to this operator.
	Relation TypeRelation
	// ParseAttributes parses call-site attributes (nil for operators which
	// take none).
	ParseAttributes AttrParser
}

var _ Expr = &Op{}

// Lisp implementation for Expr interface.
func (p *Op) Lisp() sexp.SExp {
	return sexp.NewSymbol(p.Name)
}

func (p *Op) isExpr() {}

// GobEncode implements the gob.GobEncoder interface.  Operators are owned by
// the registry, so only the name is serialized.
func (p *Op) GobEncode() ([]byte, error) {
	return []byte(p.Name), nil
}

// GobDecode implements the gob.GobDecoder interface, resolving the decoded
// name against the registry.  The receiver is a fresh allocation made by gob
// (a GobDecoder cannot substitute the registry's pointer), so decoders must
// apply InternOps afterwards to restore sharing.
func (p *Op) GobDecode(data []byte) error {
	op, ok := LookupOp(string(data))
	if !ok {
		return fmt.Errorf("unregistered operator \"%s\"", string(data))
	}
	//
	*p = *op
	//
	return nil
}

// ============================================================================
// Registry
// ============================================================================

// The operator registry is process-wide state: populated during startup (via
// init functions of operator packages) and read-only afterwards, making
// concurrent lookups by parallel compilations safe.
var opRegistry struct {
	sync.RWMutex
	ops map[string]*Op
}

// RegisterOp registers a new operator, panicking if an operator of the same
// name is already registered (this indicates a corrupt build, not a user
// error).
func RegisterOp(op *Op) *Op {
	opRegistry.Lock()
	defer opRegistry.Unlock()
	//
	if opRegistry.ops == nil {
		opRegistry.ops = make(map[string]*Op)
	}
	//
	if _, ok := opRegistry.ops[op.Name]; ok {
		panic(fmt.Sprintf("operator \"%s\" registered twice", op.Name))
	}
	//
	opRegistry.ops[op.Name] = op
	//
	return op
}

// LookupOp looks up a registered operator by name.
func LookupOp(name string) (*Op, bool) {
	opRegistry.RLock()
	defer opRegistry.RUnlock()
	//
	op, ok := opRegistry.ops[name]
	//
	return op, ok
}

// MustOp looks up a registered operator by name, panicking if no such
// operator exists.
func MustOp(name string) *Op {
	op, ok := LookupOp(name)
	//
	if !ok {
		panic(fmt.Sprintf("unregistered operator \"%s\"", name))
	}
	//
	return op
}
