package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tesseralang/go-tessera/pkg/device"
	"github.com/tesseralang/go-tessera/pkg/ir"
)

// Operators registered for these tests only.
var (
	testOp = ir.RegisterOp(&ir.Op{
		Name:              "test.relu",
		Arity:             1,
		DevicePolymorphic: true,
		Relation:          identityRelation,
	})
	testPinnedOp = ir.RegisterOp(&ir.Op{
		Name:              "test.pinned",
		Arity:             1,
		DevicePolymorphic: false,
		Relation:          identityRelation,
	})
)

func identityRelation(inputs []ir.Type, attrs ir.Attributes, arity uint) (ir.Type, error) {
	return inputs[0], nil
}

// A call expression to use as an annotatable body.
func callExpr() ir.Expr {
	return ir.NewCall(testOp, ir.NewVar("x"))
}

func mustAnnotate(t *testing.T, body ir.Expr, scope *device.Scope, result bool, bodyFlag bool) ir.Expr {
	t.Helper()
	//
	expr, err := MaybeAnnotate(body, scope, result, bodyFlag)
	require.NoError(t, err)
	//
	return expr
}

func TestAnnotateUnconstrainedIsNoOp(t *testing.T) {
	x := callExpr()
	//
	expr := mustAnnotate(t, x, device.Unconstrained(), false, false)
	assert.Same(t, x, expr)
}

func TestAnnotatePolymorphicKindsUnchanged(t *testing.T) {
	scope := device.NewScope(device.NPU_DEVICE, 0)
	fn := ir.NewFunction([]ir.Param{{Name: "x", Type: ir.NewTensorType(ir.Float32)}}, ir.NewVar("x"))
	//
	bodies := []ir.Expr{
		testOp,
		ir.NewConstructor("Cons"),
		ir.NewVar("x"),
		ir.NewGlobalVar("main"),
		fn,
	}
	//
	for _, body := range bodies {
		expr := mustAnnotate(t, body, scope, true, true)
		assert.Same(t, body, expr, "%s should not be wrapped", body.Lisp().String(false))
	}
}

func TestAnnotateNonPolymorphicOpWrapped(t *testing.T) {
	scope := device.NewScope(device.CPU_DEVICE, 0)
	//
	expr := mustAnnotate(t, testPinnedOp, scope, true, false)
	//
	props, ok := Decompose(expr)
	require.True(t, ok)
	assert.Same(t, testPinnedOp, props.Body)
}

func TestAnnotateFreshWrap(t *testing.T) {
	var (
		x     = callExpr()
		scope = device.NewScope(device.NPU_DEVICE, 0)
	)
	//
	expr := mustAnnotate(t, x, scope, true, false)
	//
	props, ok := Decompose(expr)
	require.True(t, ok)
	assert.Same(t, x, props.Body)
	assert.True(t, scope.Equals(props.Scope))
	assert.True(t, props.ConstrainResult)
	assert.False(t, props.ConstrainBody)
}

func TestAnnotateFlaglessWrapForcesUnconstrained(t *testing.T) {
	scope := device.NewScope(device.GPU_DEVICE, 1)
	// A flagless annotation asserts nothing, and must not smuggle a
	// concrete scope.
	expr := mustAnnotate(t, callExpr(), scope, false, false)
	//
	props, ok := Decompose(expr)
	require.True(t, ok)
	assert.True(t, props.Scope.IsFullyUnconstrained())
}

func TestAnnotateIdempotent(t *testing.T) {
	var (
		x     = callExpr()
		scope = device.NewScope(device.NPU_DEVICE, 0)
	)
	//
	once := mustAnnotate(t, x, scope, true, false)
	twice := mustAnnotate(t, once, scope, true, false)
	// Never a double wrapping.
	props, ok := Decompose(twice)
	require.True(t, ok)
	assert.Same(t, x, props.Body)
	assert.True(t, scope.Equals(props.Scope))
	assert.True(t, props.ConstrainResult)
	assert.False(t, props.ConstrainBody)
}

func TestAnnotateContradiction(t *testing.T) {
	var (
		x = callExpr()
		a = device.NewScope(device.NPU_DEVICE, 0)
		b = device.NewScope(device.CPU_DEVICE, 0)
	)
	// Both sources constrain to different scopes.
	inner := mustAnnotate(t, x, a, false, true)
	//
	_, err := MaybeAnnotate(inner, b, true, false)
	require.Error(t, err)
	//
	contradiction, ok := err.(*ContradictionError)
	require.True(t, ok)
	assert.True(t, contradiction.Outer.Equals(b))
	assert.True(t, contradiction.Inner.Equals(a))
}

func TestAnnotateMiddleContradiction(t *testing.T) {
	var (
		x = callExpr()
		a = device.NewScope(device.NPU_DEVICE, 0)
		b = device.NewScope(device.CPU_DEVICE, 0)
	)
	// Outer body flag and inner result flag both constrain the middle
	// value.
	inner := mustAnnotate(t, x, a, true, false)
	//
	_, err := MaybeAnnotate(inner, b, false, true)
	require.Error(t, err)
	assert.IsType(t, &ContradictionError{}, err)
}

func TestAnnotateAgreeingMerge(t *testing.T) {
	var (
		x = callExpr()
		a = device.NewScope(device.NPU_DEVICE, 0)
	)
	//
	inner := mustAnnotate(t, x, a, false, true)
	merged := mustAnnotate(t, inner, a, true, false)
	//
	props, ok := Decompose(merged)
	require.True(t, ok)
	assert.Same(t, x, props.Body)
	assert.True(t, a.Equals(props.Scope))
	assert.True(t, props.ConstrainResult)
	assert.True(t, props.ConstrainBody)
}

func TestAnnotateMergeScenario(t *testing.T) {
	var (
		x = callExpr()
		s = device.NewScope(device.NPU_DEVICE, 0)
	)
	//
	n := mustAnnotate(t, x, s, true, false)
	//
	props, ok := Decompose(n)
	require.True(t, ok)
	assert.Same(t, x, props.Body)
	assert.True(t, s.Equals(props.Scope))
	assert.True(t, props.ConstrainResult)
	assert.False(t, props.ConstrainBody)
	// Both sources agree on the middle value; the merge collapses to a
	// single annotation over x, not a double wrap.
	merged := mustAnnotate(t, n, s, false, true)
	//
	props, ok = Decompose(merged)
	require.True(t, ok)
	assert.Same(t, x, props.Body)
}

func TestAnnotateTripleNesting(t *testing.T) {
	var (
		x = callExpr()
		a = device.NewScope(device.NPU_DEVICE, 0)
	)
	// Repeated agreeing wraps normalize to a single annotation by
	// induction.
	expr := mustAnnotate(t, x, a, false, true)
	expr = mustAnnotate(t, expr, a, true, true)
	expr = mustAnnotate(t, expr, a, true, true)
	//
	props, ok := Decompose(expr)
	require.True(t, ok)
	assert.Same(t, x, props.Body)
	//
	_, ok = Decompose(props.Body)
	assert.False(t, ok, "double wrapping survived merge")
}

func TestDecomposeNonAnnotation(t *testing.T) {
	_, ok := Decompose(callExpr())
	assert.False(t, ok)
}

func TestStrip(t *testing.T) {
	var (
		x     = callExpr()
		scope = device.NewScope(device.NPU_DEVICE, 0)
	)
	//
	wrapped := mustAnnotate(t, x, scope, true, false)
	tuple := ir.NewTuple(wrapped, ir.NewVar("y"))
	//
	stripped := Strip(tuple)
	//
	ir.Walk(stripped, func(e ir.Expr) bool {
		_, ok := e.(*ir.Annotation)
		assert.False(t, ok, "annotation survived strip")
		return true
	})
}
