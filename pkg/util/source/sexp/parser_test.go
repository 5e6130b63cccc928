package sexp

import (
	"testing"

	"github.com/tesseralang/go-tessera/pkg/util/source"
)

func parseString(t *testing.T, input string) (SExp, *source.Map[SExp]) {
	t.Helper()
	//
	srcfile := source.NewFile("test.tir", []byte(input))
	//
	term, srcmap, err := Parse(srcfile)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	//
	return term, srcmap
}

func TestParseSymbol(t *testing.T) {
	term, _ := parseString(t, "hello")
	//
	if sym := term.AsSymbol(); sym == nil || sym.Value != "hello" {
		t.Errorf("expected symbol \"hello\", got %s", term.String(false))
	}
}

func TestParseList(t *testing.T) {
	term, _ := parseString(t, "(add %x %y)")
	//
	list := term.AsList()
	if list == nil || list.Len() != 3 {
		t.Fatalf("expected 3-element list, got %s", term.String(false))
	}
	//
	if !list.MatchSymbols(3, "add") {
		t.Errorf("expected list headed by \"add\"")
	}
}

func TestParseNested(t *testing.T) {
	term, _ := parseString(t, "(let %x (add %a %b) {scale 0.5} [1 2])")
	//
	list := term.AsList()
	if list == nil || list.Len() != 5 {
		t.Fatalf("expected 5-element list, got %s", term.String(false))
	}
	//
	if list.Get(2).AsList() == nil {
		t.Errorf("expected nested list")
	}
	//
	if list.Get(3).AsSet() == nil {
		t.Errorf("expected set")
	}
	//
	if list.Get(4).AsArray() == nil {
		t.Errorf("expected array")
	}
}

func TestParseComment(t *testing.T) {
	term, _ := parseString(t, "; placement\n(on_device %x)")
	//
	if list := term.AsList(); list == nil || list.Len() != 2 {
		t.Fatalf("expected 2-element list, got %s", term.String(false))
	}
}

func TestParseAllTerms(t *testing.T) {
	srcfile := source.NewFile("test.tir", []byte("(def @f) (def @g)"))
	//
	terms, _, err := ParseAll(srcfile)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	//
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(terms))
	}
}

func TestParseError(t *testing.T) {
	srcfile := source.NewFile("test.tir", []byte("(add %x"))
	//
	_, _, err := Parse(srcfile)
	if err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestSourceMapSpans(t *testing.T) {
	term, srcmap := parseString(t, "  (add %x %y)")
	//
	span := srcmap.Get(term)
	if span.Start() != 2 || span.End() != 13 {
		t.Errorf("unexpected span [%d,%d)", span.Start(), span.End())
	}
}
