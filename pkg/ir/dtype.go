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

// TypeCode distinguishes the scalar families a DType can belong to.
type TypeCode uint8

// INT_TYPE represents signed integers.
const INT_TYPE TypeCode = 0

// UINT_TYPE represents unsigned integers.
const UINT_TYPE TypeCode = 1

// FLOAT_TYPE represents IEEE floating point numbers.
const FLOAT_TYPE TypeCode = 2

// BFLOAT_TYPE represents brain floating point numbers.
const BFLOAT_TYPE TypeCode = 3

// BOOL_TYPE represents booleans.
const BOOL_TYPE TypeCode = 4

// DType describes the scalar element type of a tensor: a scalar family, a
// bit width and a vector lane count (1 for scalar elements).
type DType struct {
	Code  TypeCode
	Bits  uint
	Lanes uint
}

// Bool is the canonical boolean element type.
var Bool = DType{BOOL_TYPE, 1, 1}

// Int32 is the canonical 32bit signed integer element type.
var Int32 = DType{INT_TYPE, 32, 1}

// Float32 is the canonical 32bit floating point element type.
var Float32 = DType{FLOAT_TYPE, 32, 1}

// String returns the textual name of this element type (e.g. "f32", "i8",
// "u8x4", "bf16", "bool").
func (p DType) String() string {
	var name string
	//
	switch p.Code {
	case INT_TYPE:
		name = fmt.Sprintf("i%d", p.Bits)
	case UINT_TYPE:
		name = fmt.Sprintf("u%d", p.Bits)
	case FLOAT_TYPE:
		name = fmt.Sprintf("f%d", p.Bits)
	case BFLOAT_TYPE:
		name = fmt.Sprintf("bf%d", p.Bits)
	case BOOL_TYPE:
		name = "bool"
	default:
		panic(fmt.Sprintf("unknown type code (%d)", p.Code))
	}
	//
	if p.Lanes > 1 {
		name = fmt.Sprintf("%sx%d", name, p.Lanes)
	}
	//
	return name
}

// ParseDType parses the textual name of an element type, returning an error
// for names which do not identify any valid type.
func ParseDType(name string) (DType, error) {
	var (
		dtype = DType{Lanes: 1}
		rest  string
	)
	// Split off lane count (if any)
	if i := strings.IndexByte(name, 'x'); i >= 0 {
		lanes, err := strconv.ParseUint(name[i+1:], 10, 16)
		if err != nil || lanes == 0 {
			return DType{}, fmt.Errorf("invalid element type \"%s\"", name)
		}
		//
		dtype.Lanes = uint(lanes)
		name = name[:i]
	}
	//
	switch {
	case name == "bool":
		dtype.Code, dtype.Bits = BOOL_TYPE, 1
		return dtype, nil
	case strings.HasPrefix(name, "bf"):
		dtype.Code, rest = BFLOAT_TYPE, name[2:]
	case strings.HasPrefix(name, "i"):
		dtype.Code, rest = INT_TYPE, name[1:]
	case strings.HasPrefix(name, "u"):
		dtype.Code, rest = UINT_TYPE, name[1:]
	case strings.HasPrefix(name, "f"):
		dtype.Code, rest = FLOAT_TYPE, name[1:]
	default:
		return DType{}, fmt.Errorf("invalid element type \"%s\"", name)
	}
	// Parse bit width
	bits, err := strconv.ParseUint(rest, 10, 16)
	if err != nil || bits == 0 {
		return DType{}, fmt.Errorf("invalid element type \"%s\"", name)
	}
	//
	dtype.Bits = uint(bits)
	//
	return dtype, nil
}
