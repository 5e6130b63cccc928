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
package sexp

import (
	"strings"
	"unicode"
)

// SExp is an S-Expression: either a terminating symbol, or a sequence of zero
// or more S-Expressions delimited by parentheses (a list), braces (a set) or
// square brackets (an array).
type SExp interface {
	// AsList checks whether this S-Expression is a list and, if so, returns
	// it.  Otherwise, it returns nil.
	AsList() *List
	// AsSet checks whether this S-Expression is a set and, if so, returns it.
	// Otherwise, it returns nil.
	AsSet() *Set
	// AsArray checks whether this S-Expression is an array and, if so,
	// returns it.  Otherwise, it returns nil.
	AsArray() *Array
	// AsSymbol checks whether this S-Expression is a symbol and, if so,
	// returns it.  Otherwise, it returns nil.
	AsSymbol() *Symbol
	// String generates a string representation.  Quoting is used to manage
	// symbol names containing whitespace, braces, etc.
	String(quote bool) string
}

// ===================================================================
// List
// ===================================================================

// List represents a sequence of zero or more S-Expressions.
type List struct {
	Elements []SExp
}

var _ SExp = (*List)(nil)

// EmptyList creates an empty list.
func EmptyList() *List {
	return &List{}
}

// NewList creates a new list from a given array of S-Expressions.
func NewList(elements []SExp) *List {
	return &List{elements}
}

// AsList returns the given list.
func (l *List) AsList() *List { return l }

// AsSet returns nil for a list.
func (l *List) AsSet() *Set { return nil }

// AsArray returns nil for a list.
func (l *List) AsArray() *Array { return nil }

// AsSymbol returns nil for a list.
func (l *List) AsSymbol() *Symbol { return nil }

// Len gets the number of elements in this list.
func (l *List) Len() int { return len(l.Elements) }

// Get the ith element of this list.
func (l *List) Get(i int) SExp { return l.Elements[i] }

// Append a new element onto this list.
func (l *List) Append(element SExp) {
	l.Elements = append(l.Elements, element)
}

func (l *List) String(quote bool) string {
	return sequenceString(l.Elements, "(", ")", quote)
}

// MatchSymbols matches a list which starts with at least n symbols, of which
// the first m match the given strings.
func (l *List) MatchSymbols(n int, symbols ...string) bool {
	if len(l.Elements) < n || len(symbols) > n {
		return false
	}
	//
	for i := 0; i < len(symbols); i++ {
		switch ith := l.Elements[i].(type) {
		case *Symbol:
			if ith.Value != symbols[i] {
				return false
			}
		default:
			return false
		}
	}
	//
	return true
}

// ===================================================================
// Set
// ===================================================================

// Set represents a brace-delimited sequence of zero or more S-Expressions.
type Set struct {
	Elements []SExp
}

var _ SExp = (*Set)(nil)

// NewSet creates a new set from a given array of S-Expressions.
func NewSet(elements []SExp) *Set {
	return &Set{elements}
}

// AsList returns nil for a set.
func (s *Set) AsList() *List { return nil }

// AsSet returns the given set.
func (s *Set) AsSet() *Set { return s }

// AsArray returns nil for a set.
func (s *Set) AsArray() *Array { return nil }

// AsSymbol returns nil for a set.
func (s *Set) AsSymbol() *Symbol { return nil }

// Len gets the number of elements in this set.
func (s *Set) Len() int { return len(s.Elements) }

// Get the ith element of this set.
func (s *Set) Get(i int) SExp { return s.Elements[i] }

func (s *Set) String(quote bool) string {
	return sequenceString(s.Elements, "{", "}", quote)
}

// ===================================================================
// Array
// ===================================================================

// Array represents a bracket-delimited sequence of zero or more
// S-Expressions.
type Array struct {
	Elements []SExp
}

var _ SExp = (*Array)(nil)

// NewArray creates a new array from a given array of S-Expressions.
func NewArray(elements []SExp) *Array {
	return &Array{elements}
}

// AsList returns nil for an array.
func (a *Array) AsList() *List { return nil }

// AsSet returns nil for an array.
func (a *Array) AsSet() *Set { return nil }

// AsArray returns the given array.
func (a *Array) AsArray() *Array { return a }

// AsSymbol returns nil for an array.
func (a *Array) AsSymbol() *Symbol { return nil }

// Len gets the number of elements in this array.
func (a *Array) Len() int { return len(a.Elements) }

// Get the ith element of this array.
func (a *Array) Get(i int) SExp { return a.Elements[i] }

func (a *Array) String(quote bool) string {
	return sequenceString(a.Elements, "[", "]", quote)
}

// ===================================================================
// Symbol
// ===================================================================

// Symbol represents a terminating symbol.
type Symbol struct {
	Value string
}

var _ SExp = (*Symbol)(nil)

// NewSymbol creates a new symbol from a given string.
func NewSymbol(value string) *Symbol {
	return &Symbol{value}
}

// AsList returns nil for a symbol.
func (s *Symbol) AsList() *List { return nil }

// AsSet returns nil for a symbol.
func (s *Symbol) AsSet() *Set { return nil }

// AsArray returns nil for a symbol.
func (s *Symbol) AsArray() *Array { return nil }

// AsSymbol returns the given symbol.
func (s *Symbol) AsSymbol() *Symbol { return s }

func (s *Symbol) String(quote bool) string {
	if quote {
		for _, r := range s.Value {
			if !isSymbolLetter(r) {
				return "\"" + s.Value + "\""
			}
		}
	}
	// No quote required
	return s.Value
}

func isSymbolLetter(r rune) bool {
	return r != '(' && r != ')' && r != '{' && r != '}' && r != '[' && r != ']' && !unicode.IsSpace(r)
}

func sequenceString(elements []SExp, open string, close string, quote bool) string {
	var builder strings.Builder
	//
	builder.WriteString(open)
	//
	for i, e := range elements {
		if i != 0 {
			builder.WriteString(" ")
		}
		//
		builder.WriteString(e.String(quote))
	}
	//
	builder.WriteString(close)
	//
	return builder.String()
}
