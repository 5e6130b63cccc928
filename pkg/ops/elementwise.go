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

	"github.com/tesseralang/go-tessera/pkg/ir"
)

// Add is the elementwise (broadcasting) addition operator.
var Add = ir.RegisterOp(&ir.Op{
	Name:              "add",
	Arity:             2,
	DevicePolymorphic: true,
	Description:       "Elementwise addition with broadcasting.",
	SupportLevel:      1,
	Relation:          BroadcastRelation,
})

// Multiply is the elementwise (broadcasting) multiplication operator.
var Multiply = ir.RegisterOp(&ir.Op{
	Name:              "multiply",
	Arity:             2,
	DevicePolymorphic: true,
	Description:       "Elementwise multiplication with broadcasting.",
	SupportLevel:      1,
	Relation:          BroadcastRelation,
})

// BroadcastRelation types a binary elementwise operator: both inputs must be
// tensors of the same element type, and their shapes must broadcast against
// one another under the usual trailing-alignment rule (dimensions agree, or
// one of them is 1, or either is dynamic).
func BroadcastRelation(inputs []ir.Type, attrs ir.Attributes, arity uint) (ir.Type, error) {
	lhs, err := tensorInput(inputs, 0)
	if err != nil {
		return nil, err
	}
	//
	rhs, err := tensorInput(inputs, 1)
	if err != nil {
		return nil, err
	}
	//
	if lhs.Elem != rhs.Elem {
		return nil, fmt.Errorf("mismatched element types %s and %s", lhs.Elem, rhs.Elem)
	}
	//
	shape, err := broadcastShapes(lhs.Shape, rhs.Shape)
	if err != nil {
		return nil, err
	}
	//
	return &ir.TensorType{Elem: lhs.Elem, Shape: shape}, nil
}

func broadcastShapes(lhs []int64, rhs []int64) ([]int64, error) {
	rank := max(len(lhs), len(rhs))
	shape := make([]int64, rank)
	// Align dimensions from the right.
	for i := 1; i <= rank; i++ {
		var l, r int64 = 1, 1
		//
		if i <= len(lhs) {
			l = lhs[len(lhs)-i]
		}
		//
		if i <= len(rhs) {
			r = rhs[len(rhs)-i]
		}
		//
		dim, err := broadcastDim(l, r)
		if err != nil {
			return nil, err
		}
		//
		shape[rank-i] = dim
	}
	//
	return shape, nil
}

func broadcastDim(l int64, r int64) (int64, error) {
	switch {
	case l == r:
		return l, nil
	case l == 1:
		return r, nil
	case r == 1:
		return l, nil
	// A dynamic dimension refines to whatever the other side demands.
	case l == ir.DYNAMIC_DIM:
		return r, nil
	case r == ir.DYNAMIC_DIM:
		return l, nil
	default:
		return 0, fmt.Errorf("cannot broadcast dimensions %d and %d", l, r)
	}
}
