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

// Package ops registers the built-in operators of the tensor IR.  The
// registry is populated here during startup and read-only afterwards;
// importing this package (for side effects) makes the built-ins available.
package ops

import (
	"encoding/gob"
	"fmt"

	"github.com/tesseralang/go-tessera/pkg/ir"
)

// Attribute values travel through the bundle format behind the Attributes
// interface, hence every concrete implementation must be registered with gob.
func init() {
	gob.Register(&ConcatenateAttrs{})
	gob.Register(&ReshapeAttrs{})
	gob.Register(&DeviceCopyAttrs{})
	gob.Register(&QuantizeAttrs{})
}

// IdentityRelation types any single-input operator whose output is exactly
// its input.
func IdentityRelation(inputs []ir.Type, attrs ir.Attributes, arity uint) (ir.Type, error) {
	return inputs[0], nil
}

// Recover the tensor type of a given operator input.
func tensorInput(inputs []ir.Type, i int) (*ir.TensorType, error) {
	if tensor, ok := inputs[i].(*ir.TensorType); ok {
		return tensor, nil
	}
	//
	return nil, fmt.Errorf("input %d has type %s, expected a tensor", i, inputs[i])
}
