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
	"math"
)

// FormattingChunk represents a chunk of an S-expression which is to be
// indented at a given priority level.
type FormattingChunk struct {
	Priority uint
	Indent   uint
	Contents SExp
}

// FormattingRule provides a generic mechanism for writing custom formatting
// rules.  Whenever a list is encountered during formatting, each rule is
// given the opportunity to direct how that list is laid out.  A rule returns
// nil chunks when it does not handle the given list.
type FormattingRule interface {
	Split(*List) ([]FormattingChunk, uint)
}

// Formatter encapsulates and applies a given set of formatting rules.
type Formatter struct {
	// Maximum desired width.
	maxWidth uint
	// Rules to be used for formatting.
	rules []FormattingRule
}

// NewFormatter constructs a new formatter which aims to fit its output within
// a given width.
func NewFormatter(width uint) *Formatter {
	return &Formatter{width, nil}
}

// Add a new formatting rule to this formatter.
func (p *Formatter) Add(rule FormattingRule) {
	p.rules = append(p.rules, rule)
}

// Format a given S-Expression using the rules embedded within this formatter.
// Rules are applied at increasing priority levels until the output fits the
// desired width (or no further splitting is possible).
func (p *Formatter) Format(sexp SExp) string {
	var (
		priority uint = 0
		changed       = true
		text     FormattedText
	)
	// Keep going whilst things are still changing.
	for changed {
		changed = false
		text = FormattedText{}
		p.formatInner(priority, false, sexp, &text)
		//
		if w := text.MaxWidth(); w > p.maxWidth && priority < 10 {
			changed = true
			priority++
		}
	}
	//
	return text.String()
}

func (p *Formatter) formatInner(priority uint, newline bool, sexp SExp, text *FormattedText) {
	switch sexp := sexp.(type) {
	case *Symbol:
		text.WriteString(sexp.String(true))
	case *Array, *Set:
		text.WriteString(sexp.String(true))
	case *List:
		for _, rule := range p.rules {
			// Override priority where things already fit.
			if text.LineWidth()+uint(len(sexp.String(true))) <= p.maxWidth {
				priority = 0
			}
			//
			if chunks, indent := rule.Split(sexp); chunks != nil {
				p.formatWith(priority, newline, chunks, indent, text)
				return
			}
		}
		// default rule
		p.formatDefault(priority, sexp, text)
	default:
		panic("unreachable")
	}
}

func (p *Formatter) formatWith(priority uint, newline bool, chunks []FormattingChunk, indent uint,
	text *FormattedText) {
	//
	if indent != math.MaxUint && !newline {
		text.Indent(int(indent))
		text.NewLine()
	}
	//
	text.WriteString("(")
	//
	for i, chunk := range chunks {
		var nl bool
		//
		if chunk.Priority <= priority {
			text.Indent(int(chunk.Indent))
			text.NewLine()
			// Request newline
			nl = true
		} else if i != 0 {
			text.WriteString(" ")
		}
		//
		p.formatInner(priority, nl, chunk.Contents, text)
		//
		if chunk.Priority <= priority {
			text.Indent(-int(chunk.Indent))
		}
	}
	//
	text.WriteString(")")
	//
	if indent != math.MaxUint && !newline {
		text.Indent(-int(indent))
	}
}

func (p *Formatter) formatDefault(priority uint, sexp *List, text *FormattedText) {
	text.WriteString("(")
	//
	for i := 0; i < sexp.Len(); i++ {
		if i != 0 {
			text.WriteString(" ")
		}
		//
		p.formatInner(priority, false, sexp.Get(i), text)
	}
	//
	text.WriteString(")")
}

// LFormatter is a simple formatting rule which indents a matching list like
// so:
//
//	(head
//	  child1
//	  ...
//	  childn)
//
// That is, each child is indented one position beyond the head.
type LFormatter struct {
	// Head symbol to match.
	Head string
	// Priority to give for matching.
	Priority uint
}

// Split a list using the LFormatter where the list matches.
func (p *LFormatter) Split(list *List) ([]FormattingChunk, uint) {
	return splitAfter(list, p.Head, p.Priority, 0)
}

// SFormatter is a variation on the LFormatter which keeps the first child on
// the same line as the head, thusly:
//
//	(head child1
//	  child2
//	  ...
//	  childn)
type SFormatter struct {
	// Head symbol to match.
	Head string
	// Priority to give for matching.
	Priority uint
}

// Split a list using the SFormatter where the list matches.
func (p *SFormatter) Split(list *List) ([]FormattingChunk, uint) {
	return splitAfter(list, p.Head, p.Priority, 1)
}

// Split a matching list into chunks, where children up to (and including) the
// pivot stay on the head's line and the remainder are split at the given
// priority.
func splitAfter(list *List, head string, priority uint, pivot int) ([]FormattingChunk, uint) {
	if list.Len() == 0 {
		return nil, 0
	} else if sym, ok := list.Get(0).(*Symbol); !ok || sym.Value != head {
		return nil, 0
	}
	//
	var chunks []FormattingChunk
	//
	for i := 0; i < list.Len(); i++ {
		var chunk FormattingChunk
		//
		chunk.Contents = list.Get(i)
		//
		if i <= pivot {
			chunk.Priority = math.MaxUint
		} else {
			chunk.Priority = priority
			chunk.Indent = 1
		}
		//
		chunks = append(chunks, chunk)
	}
	//
	return chunks, 1
}
