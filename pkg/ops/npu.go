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

	"github.com/tesseralang/go-tessera/pkg/ir"
	"github.com/tesseralang/go-tessera/pkg/util/source/sexp"
)

// NpuIdentity is the quantized identity operator of the neural accelerator.
// It requantizes an 8bit integer feature map of rank at most 4, leaving the
// shape untouched.  Like every operator, it satisfies the generic type
// relation contract; nothing about it is placement specific.
var NpuIdentity = ir.RegisterOp(&ir.Op{
	Name:              "npu.identity",
	Arity:             1,
	DevicePolymorphic: true,
	Description:       "Quantized identity (requantization) on the NPU.",
	SupportLevel:      11,
	Relation:          npuIdentityRelation,
	ParseAttributes:   parseQuantizeAttrs,
})

// QuantizeAttrs are the quantization parameters of an NPU feature-map
// operator: a scale and zero point for the input feature map (ifm) and the
// output feature map (ofm), plus an optional fused activation.
type QuantizeAttrs struct {
	IfmScale     float64
	IfmZeroPoint int
	OfmScale     float64
	OfmZeroPoint int
	// Fused activation function ("" for none).
	Activation string
}

var _ ir.Attributes = &QuantizeAttrs{}

// AttributesName implementation for Attributes interface.
func (p *QuantizeAttrs) AttributesName() string {
	return "npu.quantize.attrs"
}

// Lisp implementation for Attributes interface.
func (p *QuantizeAttrs) Lisp() sexp.SExp {
	elements := []sexp.SExp{
		sexp.NewSymbol("ifm_scale"),
		sexp.NewSymbol(strconv.FormatFloat(p.IfmScale, 'g', -1, 64)),
		sexp.NewSymbol("ifm_zero_point"),
		sexp.NewSymbol(strconv.Itoa(p.IfmZeroPoint)),
		sexp.NewSymbol("ofm_scale"),
		sexp.NewSymbol(strconv.FormatFloat(p.OfmScale, 'g', -1, 64)),
		sexp.NewSymbol("ofm_zero_point"),
		sexp.NewSymbol(strconv.Itoa(p.OfmZeroPoint)),
	}
	//
	if p.Activation != "" {
		elements = append(elements, sexp.NewSymbol("activation"), sexp.NewSymbol(p.Activation))
	}
	//
	return sexp.NewSet(elements)
}

func parseQuantizeAttrs(fields map[string]string) (ir.Attributes, error) {
	var (
		attrs = QuantizeAttrs{IfmScale: 1.0, OfmScale: 1.0}
		err   error
	)
	//
	for key, value := range fields {
		switch key {
		case "ifm_scale":
			attrs.IfmScale, err = strconv.ParseFloat(value, 64)
		case "ifm_zero_point":
			attrs.IfmZeroPoint, err = strconv.Atoi(value)
		case "ofm_scale":
			attrs.OfmScale, err = strconv.ParseFloat(value, 64)
		case "ofm_zero_point":
			attrs.OfmZeroPoint, err = strconv.Atoi(value)
		case "activation":
			attrs.Activation = value
		default:
			err = fmt.Errorf("unknown npu.identity attribute \"%s\"", key)
		}
		//
		if err != nil {
			return nil, err
		}
	}
	//
	return &attrs, nil
}

func npuIdentityRelation(inputs []ir.Type, attrs ir.Attributes, arity uint) (ir.Type, error) {
	tensor, err := tensorInput(inputs, 0)
	if err != nil {
		return nil, err
	}
	//
	if !isQuantizedElem(tensor.Elem) {
		return nil, fmt.Errorf("input has element type %s, expected i8 or u8", tensor.Elem)
	} else if tensor.Rank() > 4 {
		return nil, fmt.Errorf("input has rank %d, at most 4 supported", tensor.Rank())
	}
	// Identity over the shape.
	return tensor, nil
}

func isQuantizedElem(elem ir.DType) bool {
	return (elem.Code == ir.INT_TYPE || elem.Code == ir.UINT_TYPE) && elem.Bits == 8 && elem.Lanes == 1
}
