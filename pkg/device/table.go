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
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Entry declares the devices of a given kind available to a compilation,
// along with the memory scopes those devices expose.
type Entry struct {
	// Device kind (e.g. "cpu", "npu").
	Kind string `yaml:"kind"`
	// Number of devices of this kind.
	Count int `yaml:"count"`
	// Named memory scopes on devices of this kind (if any).
	Memory []string `yaml:"memory,omitempty"`
}

// Table declares the full set of devices a compilation may place computation
// onto.  Concrete scopes arising in a module are validated against it.
type Table struct {
	Targets []Entry `yaml:"targets"`
}

// LoadTable reads a device table from a YAML file, validating its internal
// consistency (known kinds, positive counts, no duplicate kinds).
func LoadTable(filename string) (*Table, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	return ParseTable(bytes)
}

// ParseTable parses a device table from raw YAML.
func ParseTable(bytes []byte) (*Table, error) {
	var table Table
	//
	if err := yaml.Unmarshal(bytes, &table); err != nil {
		return nil, err
	}
	//
	seen := make(map[string]bool)
	//
	for _, entry := range table.Targets {
		if _, err := ParseKind(entry.Kind); err != nil {
			return nil, err
		} else if entry.Count <= 0 {
			return nil, fmt.Errorf("target \"%s\" declares invalid count %d", entry.Kind, entry.Count)
		} else if seen[entry.Kind] {
			return nil, fmt.Errorf("target \"%s\" declared twice", entry.Kind)
		}
		//
		seen[entry.Kind] = true
	}
	//
	return &table, nil
}

// Check that a given scope names only devices (and memory scopes) declared
// in this table.  The fully unconstrained scope always passes, as do scopes
// with an unconstrained ordinal.
func (p *Table) Check(scope *Scope) error {
	if scope.IsFullyUnconstrained() {
		return nil
	}
	//
	for _, entry := range p.Targets {
		if entry.Kind != scope.Kind().String() {
			continue
		}
		//
		if scope.Ordinal() >= entry.Count {
			return fmt.Errorf("scope %s names device %d but only %d %s device(s) declared",
				scope, scope.Ordinal(), entry.Count, entry.Kind)
		}
		//
		if mem := scope.Memory(); mem != "" && !slices.Contains(entry.Memory, mem) {
			return fmt.Errorf("scope %s names undeclared memory scope \"%s\"", scope, mem)
		}
		//
		return nil
	}
	//
	return fmt.Errorf("scope %s names undeclared device kind \"%s\"", scope, scope.Kind())
}
