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

	"github.com/tesseralang/go-tessera/pkg/device"
	"github.com/tesseralang/go-tessera/pkg/ir"
	"github.com/tesseralang/go-tessera/pkg/util/source/sexp"
)

// DeviceCopy moves a tensor between two devices.  Unlike almost every other
// operator it names devices explicitly and, hence, is not device
// polymorphic: placement requests against a device_copy call site wrap it
// like any other call result.
var DeviceCopy = ir.RegisterOp(&ir.Op{
	Name:              "device_copy",
	Arity:             1,
	DevicePolymorphic: false,
	Description:       "Copy a tensor from one device to another.",
	SupportLevel:      10,
	Relation:          IdentityRelation,
	ParseAttributes:   parseDeviceCopyAttrs,
})

// DeviceCopyAttrs are the attributes of a device_copy call.
type DeviceCopyAttrs struct {
	// Scope the tensor is copied from.
	SrcScope *device.Scope
	// Scope the tensor is copied to.
	DstScope *device.Scope
}

var _ ir.Attributes = &DeviceCopyAttrs{}

// AttributesName implementation for Attributes interface.
func (p *DeviceCopyAttrs) AttributesName() string {
	return "device_copy.attrs"
}

// Lisp implementation for Attributes interface.
func (p *DeviceCopyAttrs) Lisp() sexp.SExp {
	return sexp.NewSet([]sexp.SExp{
		sexp.NewSymbol("src"),
		sexp.NewSymbol(p.SrcScope.String()),
		sexp.NewSymbol("dst"),
		sexp.NewSymbol(p.DstScope.String()),
	})
}

func parseDeviceCopyAttrs(fields map[string]string) (ir.Attributes, error) {
	var (
		attrs DeviceCopyAttrs
		err   error
	)
	//
	for key, value := range fields {
		switch key {
		case "src":
			attrs.SrcScope, err = device.ParseScope(value)
		case "dst":
			attrs.DstScope, err = device.ParseScope(value)
		default:
			err = fmt.Errorf("unknown device_copy attribute \"%s\"", key)
		}
		//
		if err != nil {
			return nil, err
		}
	}
	//
	if attrs.SrcScope == nil || attrs.DstScope == nil {
		return nil, fmt.Errorf("device_copy requires src and dst attributes")
	}
	//
	return &attrs, nil
}
