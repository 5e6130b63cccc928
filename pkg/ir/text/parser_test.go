package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tesseralang/go-tessera/pkg/device"
	"github.com/tesseralang/go-tessera/pkg/ir"
	_ "github.com/tesseralang/go-tessera/pkg/ops"
	"github.com/tesseralang/go-tessera/pkg/placement"
	"github.com/tesseralang/go-tessera/pkg/util/source"
)

func src(text string) *source.File {
	return source.NewFile("test.tir", []byte(text))
}

func TestParseDef(t *testing.T) {
	module, err := ParseModule(src("(def @main ((%x f32 [2 2]) (%y f32 [2 2])) (add %x %y))"))
	require.Nil(t, err)
	//
	fn, ok := module.Function("main")
	require.True(t, ok)
	assert.Equal(t, uint(2), fn.Arity())
	assert.Equal(t, "x", fn.Params[0].Name)
	assert.True(t, ir.NewTensorType(ir.Float32, 2, 2).Equals(fn.Params[0].Type))
	//
	call, ok := fn.Body.(*ir.Call)
	require.True(t, ok)
	assert.Len(t, call.Args, 2)
}

func TestParseScalarParam(t *testing.T) {
	module, err := ParseModule(src("(def @id ((%x bool)) %x)"))
	require.Nil(t, err)
	//
	fn, _ := module.Function("id")
	assert.True(t, ir.NewTensorType(ir.Bool).Equals(fn.Params[0].Type))
}

func TestParseLetIfTuple(t *testing.T) {
	expr, err := ParseExpr(src("(let %t (tuple %a %b) (if %c (get %t 0) (get %t 1)))"))
	require.Nil(t, err)
	//
	let, ok := expr.(*ir.Let)
	require.True(t, ok)
	assert.Equal(t, "t", let.Var.Name)
	//
	_, ok = let.Value.(*ir.Tuple)
	assert.True(t, ok)
	//
	branch, ok := let.Body.(*ir.If)
	require.True(t, ok)
	//
	get, ok := branch.TrueBranch.(*ir.TupleGet)
	require.True(t, ok)
	assert.Equal(t, uint(0), get.Index)
}

func TestParseConst(t *testing.T) {
	expr, err := ParseExpr(src("(const f32 [2 2] 1.0)"))
	require.Nil(t, err)
	//
	constant, ok := expr.(*ir.Constant)
	require.True(t, ok)
	assert.Equal(t, "1.0", constant.Value)
	assert.True(t, ir.NewTensorType(ir.Float32, 2, 2).Equals(constant.Type))
	// Scalar constant (no shape)
	expr, err = ParseExpr(src("(const i32 42)"))
	require.Nil(t, err)
	assert.True(t, ir.NewTensorType(ir.Int32).Equals(expr.(*ir.Constant).Type))
}

func TestParseOpAttrs(t *testing.T) {
	expr, err := ParseExpr(src("(reshape %x {shape [6]})"))
	require.Nil(t, err)
	//
	call := expr.(*ir.Call)
	require.NotNil(t, call.Attrs)
	assert.Equal(t, "reshape.attrs", call.Attrs.AttributesName())
}

func TestParseOnDeviceDefaultsToBody(t *testing.T) {
	expr, err := ParseExpr(src("(on_device (add %x %y) gpu:0)"))
	require.Nil(t, err)
	//
	annotation, ok := expr.(*ir.Annotation)
	require.True(t, ok)
	assert.False(t, annotation.ConstrainResult)
	assert.True(t, annotation.ConstrainBody)
	assert.True(t, annotation.Scope.Equals(device.NewScope(device.GPU_DEVICE, 0)))
}

func TestParseOnDeviceFlags(t *testing.T) {
	expr, err := ParseExpr(src("(on_device (add %x %y) gpu:0 result body)"))
	require.Nil(t, err)
	//
	annotation := expr.(*ir.Annotation)
	assert.True(t, annotation.ConstrainResult)
	assert.True(t, annotation.ConstrainBody)
}

func TestParseOnDeviceSkipsVariables(t *testing.T) {
	// Annotating a variable is a no-op, so no annotation survives parsing.
	expr, err := ParseExpr(src("(on_device %x gpu:0)"))
	require.Nil(t, err)
	//
	_, ok := expr.(*ir.Var)
	assert.True(t, ok)
}

func TestParseNestedOnDeviceMerges(t *testing.T) {
	expr, err := ParseExpr(src("(on_device (on_device (add %x %y) gpu:0 body) gpu:0 result)"))
	require.Nil(t, err)
	// One annotation survives, carrying the merged constraints.
	annotation := expr.(*ir.Annotation)
	assert.True(t, annotation.ConstrainResult)
	assert.True(t, annotation.ConstrainBody)
	//
	_, ok := annotation.Body.(*ir.Annotation)
	assert.False(t, ok)
}

func TestParseContradictingOnDevice(t *testing.T) {
	_, err := ParseExpr(src("(on_device (on_device (add %x %y) gpu:0 result body) cpu:0 result body)"))
	require.NotNil(t, err)
	assert.Contains(t, err.Message(), "cannot constrain")
}

func TestParsePlacementDecl(t *testing.T) {
	module, err := ParseModule(src(`
		(def @main ((%x f32 [2]) (%y f32 [2])) (add %x %y))
		(placement @main (cpu:0 gpu:0) gpu:0)`))
	require.Nil(t, err)
	//
	fn, _ := module.Function("main")
	require.NotNil(t, fn.Placement)
	assert.True(t, placement.ParamScope(fn, 0).Equals(device.NewScope(device.CPU_DEVICE, 0)))
	assert.True(t, placement.ParamScope(fn, 1).Equals(device.NewScope(device.GPU_DEVICE, 0)))
	assert.True(t, placement.ResultScope(fn).Equals(device.NewScope(device.GPU_DEVICE, 0)))
}

func TestParseUnconstrainedPlacementDecl(t *testing.T) {
	module, err := ParseModule(src(`
		(def @main ((%x f32 [2])) %x)
		(placement @main (?) ?)`))
	require.Nil(t, err)
	// Fully unconstrained records are not attached.
	fn, _ := module.Function("main")
	assert.Nil(t, fn.Placement)
}

func TestParsePlacementArityMismatch(t *testing.T) {
	_, err := ParseModule(src(`
		(def @main ((%x f32 [2]) (%y f32 [2])) (add %x %y))
		(placement @main (cpu:0) gpu:0)`))
	require.NotNil(t, err)
	assert.Contains(t, err.Message(), "arity")
}

func TestParsePlacementBeforeDef(t *testing.T) {
	// Placement declarations may precede the definition they refer to.
	module, err := ParseModule(src(`
		(placement @main (cpu:0) cpu:0)
		(def @main ((%x f32 [2])) %x)`))
	require.Nil(t, err)
	//
	fn, _ := module.Function("main")
	assert.NotNil(t, fn.Placement)
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"(def @main)",
		"(def main ((%x f32)) %x)",
		"(frobnicate %x)",
		"(let x %y %z)",
		"(on_device %x not-a-scope)",
		"(on_device (add %x %y) gpu:0 sideways)",
		"(get %t x)",
		"(reshape %x {shape})",
		"(placement @missing () cpu:0)",
	}
	//
	for _, test := range tests {
		var err *source.SyntaxError
		//
		if strings.HasPrefix(test, "(def") || strings.HasPrefix(test, "(placement") {
			_, err = ParseModule(src(test))
		} else {
			_, err = ParseExpr(src(test))
		}
		//
		assert.NotNil(t, err, "expected error parsing %s", test)
	}
}

func TestParseDuplicateDef(t *testing.T) {
	_, err := ParseModule(src("(def @f ((%x f32)) %x) (def @f ((%x f32)) %x)"))
	require.NotNil(t, err)
	assert.Contains(t, err.Message(), "defined twice")
}

func TestFormatRoundTrip(t *testing.T) {
	text := `
		(def @main ((%x f32 [2 2]) (%y f32 [2 2]))
			(let %s (on_device (add %x %y) gpu:0 result body)
				(multiply %s (const f32 [2 2] 2.0))))
		(placement @main (cpu:0 gpu:0) gpu:0)`
	//
	module, err := ParseModule(src(text))
	require.Nil(t, err)
	//
	formatted := FormatModule(module, 80)
	//
	reparsed, err := ParseModule(src(formatted))
	require.Nil(t, err, "reparsing %s", formatted)
	// Structural equality via the canonical S-expression rendering.
	assert.Equal(t, moduleString(module), moduleString(reparsed))
}

func TestFormatNarrowWidth(t *testing.T) {
	module, err := ParseModule(src(
		"(def @main ((%x f32 [2 2]) (%y f32 [2 2])) (let %s (add %x %y) (multiply %s %s)))"))
	require.Nil(t, err)
	//
	formatted := FormatModule(module, 30)
	assert.True(t, strings.Contains(formatted, "\n"))
	//
	reparsed, err := ParseModule(src(formatted))
	require.Nil(t, err)
	assert.Equal(t, moduleString(module), moduleString(reparsed))
}

func moduleString(module *ir.Module) string {
	var builder strings.Builder
	//
	for _, decl := range module.Lisp() {
		builder.WriteString(decl.String(false))
		builder.WriteString("\n")
	}
	//
	return builder.String()
}
