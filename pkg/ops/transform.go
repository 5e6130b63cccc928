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
package ops

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tesseralang/go-tessera/pkg/ir"
	"github.com/tesseralang/go-tessera/pkg/util/source/sexp"
)

// Concatenate joins the tensors of a tuple along a given axis.
var Concatenate = ir.RegisterOp(&ir.Op{
	Name:              "concatenate",
	Arity:             1,
	DevicePolymorphic: true,
	Description:       "Concatenate the tensors of a tuple along an axis.",
	SupportLevel:      1,
	Relation:          concatenateRelation,
	ParseAttributes:   parseConcatenateAttrs,
})

// ConcatenateAttrs are the attributes of a concatenate call.
type ConcatenateAttrs struct {
	// Axis along which tensors are joined.
	Axis uint
}

var _ ir.Attributes = &ConcatenateAttrs{}

// AttributesName implementation for Attributes interface.
func (p *ConcatenateAttrs) AttributesName() string {
	return "concatenate.attrs"
}

// Lisp implementation for Attributes interface.
func (p *ConcatenateAttrs) Lisp() sexp.SExp {
	return sexp.NewSet([]sexp.SExp{
		sexp.NewSymbol("axis"),
		sexp.NewSymbol(strconv.FormatUint(uint64(p.Axis), 10)),
	})
}

func parseConcatenateAttrs(fields map[string]string) (ir.Attributes, error) {
	var attrs ConcatenateAttrs
	//
	for key, value := range fields {
		switch key {
		case "axis":
			axis, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid axis \"%s\"", value)
			}
			//
			attrs.Axis = uint(axis)
		default:
			return nil, fmt.Errorf("unknown concatenate attribute \"%s\"", key)
		}
	}
	//
	return &attrs, nil
}

func concatenateRelation(inputs []ir.Type, attrs ir.Attributes, arity uint) (ir.Type, error) {
	tuple, ok := inputs[0].(*ir.TupleType)
	if !ok {
		return nil, fmt.Errorf("input has type %s, expected a tuple of tensors", inputs[0])
	} else if len(tuple.Fields) == 0 {
		return nil, fmt.Errorf("cannot concatenate an empty tuple")
	}
	//
	var axis uint
	if cattrs, ok := attrs.(*ConcatenateAttrs); ok {
		axis = cattrs.Axis
	} else if attrs != nil {
		return nil, fmt.Errorf("unexpected attributes %s", attrs.AttributesName())
	}
	//
	first, ok := tuple.Fields[0].(*ir.TensorType)
	if !ok {
		return nil, fmt.Errorf("field 0 has type %s, expected a tensor", tuple.Fields[0])
	} else if axis >= first.Rank() {
		return nil, fmt.Errorf("axis %d out of range for rank %d", axis, first.Rank())
	}
	//
	shape := append([]int64(nil), first.Shape...)
	// Accumulate extent along the concatenation axis.
	for i := 1; i < len(tuple.Fields); i++ {
		tensor, ok := tuple.Fields[i].(*ir.TensorType)
		//
		switch {
		case !ok:
			return nil, fmt.Errorf("field %d has type %s, expected a tensor", i, tuple.Fields[i])
		case tensor.Elem != first.Elem:
			return nil, fmt.Errorf("mismatched element types %s and %s", first.Elem, tensor.Elem)
		case tensor.Rank() != first.Rank():
			return nil, fmt.Errorf("mismatched ranks %d and %d", first.Rank(), tensor.Rank())
		}
		//
		for d, dim := range tensor.Shape {
			if uint(d) == axis {
				shape[d] = addDims(shape[d], dim)
			} else if dim != shape[d] && dim != ir.DYNAMIC_DIM && shape[d] != ir.DYNAMIC_DIM {
				return nil, fmt.Errorf("mismatched extents %d and %d in dimension %d", shape[d], dim, d)
			}
		}
	}
	//
	return &ir.TensorType{Elem: first.Elem, Shape: shape}, nil
}

func addDims(l int64, r int64) int64 {
	if l == ir.DYNAMIC_DIM || r == ir.DYNAMIC_DIM {
		return ir.DYNAMIC_DIM
	}
	//
	return l + r
}

// Reshape reinterprets a tensor with a new shape of the same element count.
var Reshape = ir.RegisterOp(&ir.Op{
	Name:              "reshape",
	Arity:             1,
	DevicePolymorphic: true,
	Description:       "Reinterpret a tensor with a new shape.",
	SupportLevel:      1,
	Relation:          reshapeRelation,
	ParseAttributes:   parseReshapeAttrs,
})

// ReshapeAttrs are the attributes of a reshape call.
type ReshapeAttrs struct {
	// Target shape.
	Shape []int64
}

var _ ir.Attributes = &ReshapeAttrs{}

// AttributesName implementation for Attributes interface.
func (p *ReshapeAttrs) AttributesName() string {
	return "reshape.attrs"
}

// Lisp implementation for Attributes interface.
func (p *ReshapeAttrs) Lisp() sexp.SExp {
	dims := make([]sexp.SExp, len(p.Shape))
	//
	for i, dim := range p.Shape {
		if dim == ir.DYNAMIC_DIM {
			dims[i] = sexp.NewSymbol("?")
		} else {
			dims[i] = sexp.NewSymbol(strconv.FormatInt(dim, 10))
		}
	}
	//
	return sexp.NewSet([]sexp.SExp{sexp.NewSymbol("shape"), sexp.NewArray(dims)})
}

func parseReshapeAttrs(fields map[string]string) (ir.Attributes, error) {
	var attrs ReshapeAttrs
	//
	for key, value := range fields {
		switch key {
		case "shape":
			shape, err := parseShape(value)
			if err != nil {
				return nil, err
			}
			//
			attrs.Shape = shape
		default:
			return nil, fmt.Errorf("unknown reshape attribute \"%s\"", key)
		}
	}
	//
	if attrs.Shape == nil {
		return nil, fmt.Errorf("reshape requires a shape attribute")
	}
	//
	return &attrs, nil
}

func reshapeRelation(inputs []ir.Type, attrs ir.Attributes, arity uint) (ir.Type, error) {
	tensor, err := tensorInput(inputs, 0)
	if err != nil {
		return nil, err
	}
	//
	rattrs, ok := attrs.(*ReshapeAttrs)
	if !ok {
		return nil, fmt.Errorf("reshape requires a shape attribute")
	}
	// Where both shapes are fully static, element counts must agree.
	before, beforeStatic := elementCount(tensor.Shape)
	after, afterStatic := elementCount(rattrs.Shape)
	//
	if beforeStatic && afterStatic && before != after {
		return nil, fmt.Errorf("cannot reshape %d element(s) into %d", before, after)
	}
	//
	return &ir.TensorType{Elem: tensor.Elem, Shape: rattrs.Shape}, nil
}

func elementCount(shape []int64) (int64, bool) {
	count := int64(1)
	//
	for _, dim := range shape {
		if dim == ir.DYNAMIC_DIM {
			return 0, false
		}
		//
		count *= dim
	}
	//
	return count, true
}

// Parse a shape written as "[d1 d2 ...]" (with "?" for dynamic dimensions).
func parseShape(text string) ([]int64, error) {
	if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") {
		return nil, fmt.Errorf("malformed shape \"%s\"", text)
	}
	//
	var shape = []int64{}
	//
	for _, field := range strings.Fields(text[1 : len(text)-1]) {
		if field == "?" {
			shape = append(shape, ir.DYNAMIC_DIM)
			continue
		}
		//
		dim, err := strconv.ParseInt(field, 10, 64)
		if err != nil || dim < 0 {
			return nil, fmt.Errorf("malformed dimension \"%s\"", field)
		}
		//
		shape = append(shape, dim)
	}
	//
	return shape, nil
}
