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
	"unicode"

	"github.com/tesseralang/go-tessera/pkg/util/source"
)

// Parse a given source file into a single S-expression, or return a syntax
// error if the file is malformed.  A source map is also returned, which
// records where in the original text each S-expression arose.
func Parse(srcfile *source.File) (SExp, *source.Map[SExp], *source.SyntaxError) {
	p := NewParser(srcfile)
	// Parse the input
	sExp, err := p.Parse()
	// Sanity check everything was parsed
	if err == nil && p.index != len(p.text) {
		return nil, nil, p.error("unexpected remainder")
	}
	//
	return sExp, p.SourceMap(), err
}

// ParseAll converts a given source file into zero or more S-expressions, or
// returns a syntax error if the file is malformed.  The key distinction from
// Parse is that this function continues parsing after the first S-expression
// is encountered.
func ParseAll(srcfile *source.File) ([]SExp, *source.Map[SExp], *source.SyntaxError) {
	var (
		p     = NewParser(srcfile)
		terms []SExp
	)
	//
	for {
		term, err := p.Parse()
		//
		if err != nil {
			return terms, p.srcmap, err
		} else if term == nil {
			// EOF reached
			return terms, p.srcmap, nil
		}
		//
		terms = append(terms, term)
	}
}

// Parser represents a parser in the process of parsing a given string into
// one or more S-expressions.
type Parser struct {
	// Source file being parsed.
	srcfile *source.File
	// Cache (for simplicity).
	text []rune
	// Current position within the text.
	index int
	// Mapping from constructed S-Expressions to their spans in the original
	// text.
	srcmap *source.Map[SExp]
}

// NewParser constructs a new instance of Parser.
func NewParser(srcfile *source.File) *Parser {
	return &Parser{
		srcfile: srcfile,
		text:    srcfile.Contents(),
		index:   0,
		srcmap:  source.NewMap[SExp](srcfile),
	}
}

// SourceMap returns the source map constructed during parsing.  Using this,
// one can determine where in the original text each S-expression originated,
// which is helpful when reporting errors against terms extracted from it.
func (p *Parser) SourceMap() *source.Map[SExp] {
	return p.srcmap
}

// Parse the next S-Expression in the stream, or produce an error.  A nil term
// (with nil error) indicates the end of the stream was reached.
func (p *Parser) Parse() (SExp, *source.SyntaxError) {
	var term SExp
	// Skip whitespace to find the true starting point for this term.
	p.skipWhiteSpace()
	//
	start := p.index
	token := p.next()
	//
	switch {
	case token == nil:
		return nil, nil
	case len(token) == 1 && token[0] == ')':
		p.index-- // backup
		return nil, p.error("unexpected end-of-list")
	case len(token) == 1 && token[0] == '}':
		p.index-- // backup
		return nil, p.error("unexpected end-of-set")
	case len(token) == 1 && token[0] == ']':
		p.index-- // backup
		return nil, p.error("unexpected end-of-array")
	case len(token) == 1 && token[0] == '(':
		elements, err := p.parseSequence(')')
		if err != nil {
			return nil, err
		}
		//
		term = &List{elements}
	case len(token) == 1 && token[0] == '{':
		elements, err := p.parseSequence('}')
		if err != nil {
			return nil, err
		}
		//
		term = &Set{elements}
	case len(token) == 1 && token[0] == '[':
		elements, err := p.parseSequence(']')
		if err != nil {
			return nil, err
		}
		//
		term = &Array{elements}
	default:
		term = &Symbol{string(token)}
	}
	// Register term in source map
	p.srcmap.Put(term, source.NewSpan(start, p.index))
	//
	return term, nil
}

// Extract the next token from the stream, or nil at end-of-file.
func (p *Parser) next() []rune {
	p.skipWhiteSpace()
	// Catch end-of-file
	if p.index == len(p.text) {
		return nil
	}
	//
	switch p.text[p.index] {
	case '(', ')', '{', '}', '[', ']':
		p.index++
		return p.text[p.index-1 : p.index]
	}
	// Symbol
	return p.parseSymbol()
}

// Skip over any whitespace, including comments (which run from a semicolon to
// the end of the enclosing line).
func (p *Parser) skipWhiteSpace() {
	for p.index < len(p.text) && (unicode.IsSpace(p.text[p.index]) || p.text[p.index] == ';') {
		if p.text[p.index] == ';' {
			for p.index < len(p.text) && p.text[p.index] != '\n' {
				p.index++
			}
		} else {
			p.index++
		}
	}
}

// Lookahead (past any whitespace) and see what punctuation is next.
func (p *Parser) lookahead(i int) *rune {
	pos := i + p.index
	//
	if len(p.text) > pos {
		r := p.text[pos]
		if r == '(' || r == ')' || r == '{' || r == '}' || r == '[' || r == ']' || r == ';' {
			return &r
		} else if unicode.IsSpace(r) {
			return p.lookahead(i + 1)
		}
	}
	//
	return nil
}

func (p *Parser) parseSymbol() []rune {
	i := len(p.text)
	//
	for j := p.index; j < i; j++ {
		if !isSymbolLetter(p.text[j]) {
			i = j
			break
		}
	}
	// Reached end of token
	token := p.text[p.index:i]
	p.index = i
	//
	return token
}

func (p *Parser) parseSequence(terminator rune) ([]SExp, *source.SyntaxError) {
	var elements []SExp
	//
	for c := p.lookahead(0); c == nil || *c != terminator; c = p.lookahead(0) {
		element, err := p.Parse()
		if err != nil {
			return nil, err
		} else if element == nil {
			p.index-- // backup
			return nil, p.error("unexpected end-of-file")
		}
		//
		elements = append(elements, element)
		//
		p.skipWhiteSpace()
	}
	// Consume terminator
	p.next()
	//
	return elements, nil
}

// Construct a parser error at the current position in the input stream.
func (p *Parser) error(msg string) *source.SyntaxError {
	span := source.NewSpan(p.index, p.index+1)
	return p.srcfile.SyntaxError(span, msg)
}
