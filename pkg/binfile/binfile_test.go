package binfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tesseralang/go-tessera/pkg/device"
	"github.com/tesseralang/go-tessera/pkg/ir"
	"github.com/tesseralang/go-tessera/pkg/ops"
	"github.com/tesseralang/go-tessera/pkg/placement"
)

func testModule(t *testing.T) *ir.Module {
	var (
		module = ir.NewModule()
		x      = ir.NewVar("x")
		y      = ir.NewVar("y")
		gpu    = device.NewScope(device.GPU_DEVICE, 0)
	)
	//
	sum, err := placement.MaybeAnnotate(ir.NewCall(ops.Add, x, y), gpu, true, true)
	require.NoError(t, err)
	//
	params := []ir.Param{
		{Name: "x", Type: ir.NewTensorType(ir.Float32, 2, 2)},
		{Name: "y", Type: ir.NewTensorType(ir.Float32, 2, 2)},
	}
	//
	fn := placement.Attach(ir.NewFunction(params, sum),
		[]*device.Scope{device.NewScope(device.CPU_DEVICE, 0), gpu}, gpu)
	//
	require.NoError(t, module.Add("main", fn))
	//
	reshaped := ir.NewCallWithAttrs(ops.Reshape, &ops.ReshapeAttrs{Shape: []int64{4}}, x)
	require.NoError(t, module.Add("flatten",
		ir.NewFunction(params[:1], reshaped)))
	//
	return module
}

func testTable() *device.Table {
	return &device.Table{Targets: []device.Entry{
		{Kind: "cpu", Count: 1},
		{Kind: "gpu", Count: 2, Memory: []string{"global"}},
	}}
}

func TestBundleRoundTrip(t *testing.T) {
	bundle := NewBundle(nil, testModule(t), testTable())
	//
	data, err := bundle.MarshalBinary()
	require.NoError(t, err)
	assert.True(t, IsBundleFile(data))
	//
	var decoded Bundle
	require.NoError(t, decoded.UnmarshalBinary(data))
	//
	fn, ok := decoded.Module.Function("main")
	require.True(t, ok)
	// Placement record survives
	require.NotNil(t, fn.Placement)
	assert.True(t, placement.ParamScope(fn, 1).Equals(device.NewScope(device.GPU_DEVICE, 0)))
	// Annotation survives, with its operator resolved through the registry
	annotation, ok := fn.Body.(*ir.Annotation)
	require.True(t, ok)
	assert.True(t, annotation.ConstrainResult)
	//
	call := annotation.Body.(*ir.Call)
	assert.Same(t, ops.Add, call.Callee)
	// Attributes survive
	flatten, _ := decoded.Module.Function("flatten")
	attrs := flatten.Body.(*ir.Call).Attrs.(*ops.ReshapeAttrs)
	assert.Equal(t, []int64{4}, attrs.Shape)
	// Device table survives
	assert.Len(t, decoded.Table.Targets, 2)
	assert.NoError(t, decoded.Table.Check(device.NewScope(device.GPU_DEVICE, 1)))
}

func TestBundleHeaderMetadata(t *testing.T) {
	bundle := NewBundle([]byte("commit=abc123"), ir.NewModule(), &device.Table{})
	//
	data, err := bundle.MarshalBinary()
	require.NoError(t, err)
	//
	var decoded Bundle
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, []byte("commit=abc123"), decoded.Header.MetaData)
}

func TestBundleRejectsCorruptFile(t *testing.T) {
	var decoded Bundle
	assert.Error(t, decoded.UnmarshalBinary([]byte("not a bundle at all")))
	assert.False(t, IsBundleFile([]byte("nope")))
}

func TestBundleRejectsIncompatibleVersion(t *testing.T) {
	bundle := NewBundle(nil, ir.NewModule(), &device.Table{})
	bundle.Header.MajorVersion = BUNDLE_MAJOR_VERSION + 1
	//
	data, err := bundle.MarshalBinary()
	require.NoError(t, err)
	//
	var decoded Bundle
	err = decoded.UnmarshalBinary(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incompatible")
}
