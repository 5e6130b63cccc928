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
	"strconv"
	"strings"
)

// DYNAMIC_DIM indicates a tensor dimension whose extent is not known at
// compile time.
const DYNAMIC_DIM int64 = -1

// Type represents the type of an expression within the IR.  Placement never
// influences typing; annotations are transparent to this hierarchy.
type Type interface {
	// Equals performs a structural equality check against another type.
	Equals(Type) bool
	// String returns the textual form of this type.
	String() string
}

// ============================================================================
// TensorType
// ============================================================================

// TensorType is the type of a (possibly scalar) tensor: an element type and
// a shape.  A nil shape indicates a scalar.
type TensorType struct {
	// Element type.
	Elem DType
	// Extent of each dimension (DYNAMIC_DIM where unknown).
	Shape []int64
}

var _ Type = &TensorType{}

// NewTensorType constructs a tensor type with a given element type and shape.
func NewTensorType(elem DType, shape ...int64) *TensorType {
	return &TensorType{elem, shape}
}

// Rank returns the number of dimensions of this tensor type.
func (p *TensorType) Rank() uint {
	return uint(len(p.Shape))
}

// IsScalar checks whether this type describes a rank-zero tensor.
func (p *TensorType) IsScalar() bool {
	return len(p.Shape) == 0
}

// Equals implementation for Type interface.
func (p *TensorType) Equals(other Type) bool {
	o, ok := other.(*TensorType)
	//
	if !ok || p.Elem != o.Elem || len(p.Shape) != len(o.Shape) {
		return false
	}
	//
	for i, dim := range p.Shape {
		if dim != o.Shape[i] {
			return false
		}
	}
	//
	return true
}

// String implementation for Type interface.
func (p *TensorType) String() string {
	if p.IsScalar() {
		return p.Elem.String()
	}
	//
	dims := make([]string, len(p.Shape))
	//
	for i, dim := range p.Shape {
		dims[i] = dimString(dim)
	}
	//
	return fmt.Sprintf("%s[%s]", p.Elem, strings.Join(dims, " "))
}

func dimString(dim int64) string {
	if dim == DYNAMIC_DIM {
		return "?"
	}
	//
	return strconv.FormatInt(dim, 10)
}

// ============================================================================
// TupleType
// ============================================================================

// TupleType is the type of a tuple expression.
type TupleType struct {
	Fields []Type
}

var _ Type = &TupleType{}

// NewTupleType constructs a tuple type over given field types.
func NewTupleType(fields ...Type) *TupleType {
	return &TupleType{fields}
}

// Equals implementation for Type interface.
func (p *TupleType) Equals(other Type) bool {
	o, ok := other.(*TupleType)
	//
	if !ok || len(p.Fields) != len(o.Fields) {
		return false
	}
	//
	for i, field := range p.Fields {
		if !field.Equals(o.Fields[i]) {
			return false
		}
	}
	//
	return true
}

// String implementation for Type interface.
func (p *TupleType) String() string {
	fields := make([]string, len(p.Fields))
	//
	for i, field := range p.Fields {
		fields[i] = field.String()
	}
	//
	return fmt.Sprintf("(%s)", strings.Join(fields, " "))
}

// ============================================================================
// FuncType
// ============================================================================

// FuncType is the type of a function value.
type FuncType struct {
	Params []Type
	Return Type
}

var _ Type = &FuncType{}

// NewFuncType constructs a function type with given parameter and return
// types.
func NewFuncType(params []Type, ret Type) *FuncType {
	return &FuncType{params, ret}
}

// Equals implementation for Type interface.
func (p *FuncType) Equals(other Type) bool {
	o, ok := other.(*FuncType)
	//
	if !ok || len(p.Params) != len(o.Params) || !p.Return.Equals(o.Return) {
		return false
	}
	//
	for i, param := range p.Params {
		if !param.Equals(o.Params[i]) {
			return false
		}
	}
	//
	return true
}

// String implementation for Type interface.
func (p *FuncType) String() string {
	params := make([]string, len(p.Params))
	//
	for i, param := range p.Params {
		params[i] = param.String()
	}
	//
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, " "), p.Return)
}
