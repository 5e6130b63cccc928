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
package device

import "fmt"

// Kind identifies a class of execution device which a compilation may place
// tensor computation onto.
type Kind uint8

// UNKNOWN_DEVICE signals an unconstrained (or otherwise undetermined) device
// kind.
const UNKNOWN_DEVICE Kind = 0

// CPU_DEVICE is a general-purpose processor.
const CPU_DEVICE Kind = 1

// GPU_DEVICE is a graphics processor.
const GPU_DEVICE Kind = 2

// NPU_DEVICE is a neural accelerator.
const NPU_DEVICE Kind = 3

// String returns the textual name of this device kind, as used in the
// textual IR format and in device tables.
func (k Kind) String() string {
	switch k {
	case UNKNOWN_DEVICE:
		return "unknown"
	case CPU_DEVICE:
		return "cpu"
	case GPU_DEVICE:
		return "gpu"
	case NPU_DEVICE:
		return "npu"
	default:
		panic(fmt.Sprintf("unknown device kind (%d)", uint8(k)))
	}
}

// ParseKind parses the textual name of a device kind, returning an error for
// names which do not identify any known kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "cpu":
		return CPU_DEVICE, nil
	case "gpu":
		return GPU_DEVICE, nil
	case "npu":
		return NPU_DEVICE, nil
	default:
		return UNKNOWN_DEVICE, fmt.Errorf("unknown device kind \"%s\"", name)
	}
}
