package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Mimics what gob decoding produces: an equal but distinct operator copy.
func detachedOp(op *Op) *Op {
	clone := *op
	return &clone
}

func TestInternOpsRestoresSharing(t *testing.T) {
	var (
		x    = NewVar("x")
		call = NewCall(detachedOp(testAdd), x, x)
		expr = NewLet(x, call, x)
	)
	//
	interned := InternOps(expr).(*Let)
	//
	assert.Same(t, testAdd, interned.Value.(*Call).Callee)
	// Operator-free subtrees are shared, not copied.
	assert.Same(t, x, interned.Body)
}

func TestInternOpsSharesOpFreeExpr(t *testing.T) {
	expr := NewVar("x")
	//
	assert.Same(t, expr, InternOps(expr))
}

func TestInternModuleOps(t *testing.T) {
	var (
		x      = NewVar("x")
		fn     = NewFunction([]Param{{"x", f32(2)}}, NewCall(detachedOp(testAdd), x, x))
		module = NewModule()
	)
	//
	assert.NoError(t, module.Add("main", fn))
	//
	interned := InternModuleOps(module)
	body := interned.Defs[0].Function.Body.(*Call)
	//
	assert.Same(t, testAdd, body.Callee)
}
