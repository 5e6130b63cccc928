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

import (
	"fmt"
	"strconv"
	"strings"
)

// Scope describes a device/target binding for a piece of tensor computation:
// a device kind, the ordinal of a particular device of that kind, and
// (optionally) a memory scope on that device.  Each field may individually be
// left unconstrained, and the fully unconstrained scope acts as a sentinel
// meaning "no placement constraint at all".
//
// Scopes are immutable after construction and, hence, can be freely shared
// across IR nodes (and across threads).  They never own IR nodes.
type Scope struct {
	// Device kind (UNKNOWN_DEVICE if unconstrained).
	kind Kind
	// Ordinal of the device amongst those of its kind (negative if
	// unconstrained).
	ordinal int
	// Memory scope on the device (empty if unconstrained).
	memory string
}

// The canonical fully unconstrained scope.
var unconstrained = &Scope{UNKNOWN_DEVICE, -1, ""}

// Unconstrained returns the canonical fully unconstrained scope.
func Unconstrained() *Scope {
	return unconstrained
}

// NewScope constructs a scope constraining computation onto a given device.
func NewScope(kind Kind, ordinal int) *Scope {
	return &Scope{kind, ordinal, ""}
}

// NewMemScope constructs a scope constraining computation onto a given
// device, and data onto a given memory scope of that device.
func NewMemScope(kind Kind, ordinal int, memory string) *Scope {
	return &Scope{kind, ordinal, memory}
}

// Kind returns the device kind this scope constrains to, or UNKNOWN_DEVICE.
func (p *Scope) Kind() Kind {
	return p.kind
}

// Ordinal returns the device ordinal this scope constrains to, or a negative
// value if unconstrained.
func (p *Scope) Ordinal() int {
	return p.ordinal
}

// Memory returns the memory scope this scope constrains to, or the empty
// string if unconstrained.
func (p *Scope) Memory() string {
	return p.memory
}

// IsFullyUnconstrained checks whether every field of this scope is
// unconstrained, in which case the scope asserts nothing.
func (p *Scope) IsFullyUnconstrained() bool {
	return p.kind == UNKNOWN_DEVICE && p.ordinal < 0 && p.memory == ""
}

// Equals performs a structural equality check.  Two scopes are equal iff all
// of their fields match; in particular, the unconstrained sentinel equals
// only (copies of) itself.
func (p *Scope) Equals(other *Scope) bool {
	return p.kind == other.kind && p.ordinal == other.ordinal && p.memory == other.memory
}

// String returns the textual form "kind:ordinal" (with ":memory" appended
// when a memory scope is given), or "?" for the fully unconstrained scope.
func (p *Scope) String() string {
	if p.IsFullyUnconstrained() {
		return "?"
	} else if p.memory != "" {
		return fmt.Sprintf("%s:%d:%s", p.kind, p.ordinal, p.memory)
	}
	//
	return fmt.Sprintf("%s:%d", p.kind, p.ordinal)
}

// ParseScope parses the textual form produced by String, returning an error
// for anything else.
func ParseScope(text string) (*Scope, error) {
	if text == "?" {
		return Unconstrained(), nil
	}
	//
	split := strings.Split(text, ":")
	if len(split) < 2 || len(split) > 3 {
		return nil, fmt.Errorf("malformed device scope \"%s\"", text)
	}
	// Parse device kind
	kind, err := ParseKind(split[0])
	if err != nil {
		return nil, err
	}
	// Parse device ordinal
	ordinal, err := strconv.Atoi(split[1])
	if err != nil || ordinal < 0 {
		return nil, fmt.Errorf("malformed device ordinal \"%s\"", split[1])
	}
	// Parse memory scope (if given)
	if len(split) == 3 {
		if split[2] == "" {
			return nil, fmt.Errorf("malformed device scope \"%s\"", text)
		}
		//
		return NewMemScope(kind, ordinal, split[2]), nil
	}
	//
	return NewScope(kind, ordinal), nil
}

// GobEncode implements the gob.GobEncoder interface, allowing scopes to be
// embedded in binary bundles despite their unexported fields.
func (p *Scope) GobEncode() ([]byte, error) {
	return []byte(p.String()), nil
}

// GobDecode implements the gob.GobDecoder interface.
func (p *Scope) GobDecode(data []byte) error {
	scope, err := ParseScope(string(data))
	if err != nil {
		return err
	}
	//
	*p = *scope
	//
	return nil
}
