package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tesseralang/go-tessera/pkg/device"
	"github.com/tesseralang/go-tessera/pkg/ir"
)

func twoParamFunction() *ir.Function {
	f32 := ir.NewTensorType(ir.Float32, 2, 2)
	//
	return ir.NewFunction([]ir.Param{
		{Name: "x", Type: f32},
		{Name: "y", Type: f32},
	}, ir.NewCall(testOp, ir.NewVar("x")))
}

func TestAttachAndAccess(t *testing.T) {
	var (
		fn = twoParamFunction()
		a  = device.NewScope(device.NPU_DEVICE, 0)
		b  = device.NewScope(device.NPU_DEVICE, 1)
		c  = device.NewScope(device.CPU_DEVICE, 0)
	)
	//
	attached := Attach(fn, []*device.Scope{a, b}, c)
	// Input untouched.
	assert.Nil(t, fn.Placement)
	require.NotNil(t, attached.Placement)
	//
	assert.True(t, a.Equals(ParamScope(attached, 0)))
	assert.True(t, b.Equals(ParamScope(attached, 1)))
	assert.True(t, c.Equals(ResultScope(attached)))
}

func TestAttachNullary(t *testing.T) {
	fn := ir.NewFunction(nil, ir.NewConstant(ir.NewTensorType(ir.Float32), "1.0"))
	//
	attached := Attach(fn, nil, device.Unconstrained())
	assert.True(t, ResultScope(attached).IsFullyUnconstrained())
}

func TestAttachArityMismatchPanics(t *testing.T) {
	var (
		fn = twoParamFunction()
		a  = device.NewScope(device.NPU_DEVICE, 0)
	)
	//
	assert.Panics(t, func() {
		Attach(fn, []*device.Scope{a}, device.Unconstrained())
	})
}

func TestAttachReplacesWholeRecord(t *testing.T) {
	var (
		fn = twoParamFunction()
		a  = device.NewScope(device.NPU_DEVICE, 0)
		u  = device.Unconstrained()
	)
	//
	first := Attach(fn, []*device.Scope{a, a}, a)
	second := Attach(first, []*device.Scope{u, u}, u)
	//
	assert.True(t, ParamScope(second, 0).IsFullyUnconstrained())
	assert.True(t, ResultScope(second).IsFullyUnconstrained())
}

func TestMaybeAttachAllUnconstrained(t *testing.T) {
	var (
		fn = twoParamFunction()
		u  = device.Unconstrained()
	)
	//
	attached := MaybeAttach(fn, []*device.Scope{u, u}, u)
	assert.Same(t, fn, attached)
	assert.Nil(t, attached.Placement)
}

func TestMaybeAttachConstrained(t *testing.T) {
	var (
		fn = twoParamFunction()
		a  = device.NewScope(device.NPU_DEVICE, 0)
		u  = device.Unconstrained()
	)
	//
	attached := MaybeAttach(fn, []*device.Scope{u, a}, u)
	require.NotNil(t, attached.Placement)
	assert.True(t, a.Equals(ParamScope(attached, 1)))
}

func TestAccessorsWithoutRecord(t *testing.T) {
	fn := twoParamFunction()
	//
	assert.True(t, ResultScope(fn).IsFullyUnconstrained())
	assert.True(t, ParamScope(fn, 0).IsFullyUnconstrained())
	assert.True(t, ParamScope(fn, 1).IsFullyUnconstrained())
}

func TestParamScopeOutOfRangePanics(t *testing.T) {
	var (
		fn = twoParamFunction()
		a  = device.NewScope(device.NPU_DEVICE, 0)
	)
	//
	attached := Attach(fn, []*device.Scope{a, a}, a)
	//
	assert.Panics(t, func() { ParamScope(attached, 2) })
	assert.Panics(t, func() { ParamScope(fn, 2) })
}

func TestParamScopeCorruptRecordPanics(t *testing.T) {
	var (
		fn = twoParamFunction()
		a  = device.NewScope(device.NPU_DEVICE, 0)
	)
	// Bypass Attach to simulate a corrupt record.
	corrupt := fn.WithPlacement(&ir.FuncPlacement{
		Params: []*device.Scope{a},
		Result: a,
	})
	//
	assert.Panics(t, func() { ParamScope(corrupt, 0) })
}
