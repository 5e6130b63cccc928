package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tesseralang/go-tessera/pkg/device"
	"github.com/tesseralang/go-tessera/pkg/ir"
)

func tensor(elem ir.DType, shape ...int64) *ir.TensorType {
	return ir.NewTensorType(elem, shape...)
}

func TestRegistryLookup(t *testing.T) {
	op, ok := ir.LookupOp("add")
	require.True(t, ok)
	assert.Same(t, Add, op)
	assert.True(t, op.DevicePolymorphic)
	//
	_, ok = ir.LookupOp("no.such.op")
	assert.False(t, ok)
}

func TestBroadcastRelation(t *testing.T) {
	tests := []struct {
		lhs      *ir.TensorType
		rhs      *ir.TensorType
		expected *ir.TensorType
	}{
		{tensor(ir.Float32, 2, 3), tensor(ir.Float32, 2, 3), tensor(ir.Float32, 2, 3)},
		{tensor(ir.Float32, 2, 3), tensor(ir.Float32, 3), tensor(ir.Float32, 2, 3)},
		{tensor(ir.Float32, 2, 1), tensor(ir.Float32, 2, 4), tensor(ir.Float32, 2, 4)},
		{tensor(ir.Float32), tensor(ir.Float32, 5), tensor(ir.Float32, 5)},
		{tensor(ir.Float32, ir.DYNAMIC_DIM), tensor(ir.Float32, 4), tensor(ir.Float32, 4)},
	}
	//
	for _, test := range tests {
		typ, err := BroadcastRelation([]ir.Type{test.lhs, test.rhs}, nil, 2)
		require.NoError(t, err)
		assert.True(t, test.expected.Equals(typ), "expected %s, got %s", test.expected, typ)
	}
}

func TestBroadcastRelationRejects(t *testing.T) {
	// Mismatched extents
	_, err := BroadcastRelation([]ir.Type{tensor(ir.Float32, 2), tensor(ir.Float32, 3)}, nil, 2)
	assert.Error(t, err)
	// Mismatched element types
	_, err = BroadcastRelation([]ir.Type{tensor(ir.Float32, 2), tensor(ir.Int32, 2)}, nil, 2)
	assert.Error(t, err)
	// Non-tensor input
	_, err = BroadcastRelation([]ir.Type{ir.NewTupleType(), tensor(ir.Int32, 2)}, nil, 2)
	assert.Error(t, err)
}

func TestConcatenateRelation(t *testing.T) {
	var (
		fields = ir.NewTupleType(tensor(ir.Float32, 2, 3), tensor(ir.Float32, 4, 3))
		attrs  = &ConcatenateAttrs{Axis: 0}
	)
	//
	typ, err := Concatenate.Relation([]ir.Type{fields}, attrs, 1)
	require.NoError(t, err)
	assert.True(t, tensor(ir.Float32, 6, 3).Equals(typ))
	// Mismatch off the concatenation axis
	_, err = Concatenate.Relation([]ir.Type{
		ir.NewTupleType(tensor(ir.Float32, 2, 3), tensor(ir.Float32, 2, 4)),
	}, attrs, 1)
	assert.Error(t, err)
	// Axis out of range
	_, err = Concatenate.Relation([]ir.Type{fields}, &ConcatenateAttrs{Axis: 2}, 1)
	assert.Error(t, err)
}

func TestReshapeRelation(t *testing.T) {
	attrs := &ReshapeAttrs{Shape: []int64{6}}
	//
	typ, err := Reshape.Relation([]ir.Type{tensor(ir.Float32, 2, 3)}, attrs, 1)
	require.NoError(t, err)
	assert.True(t, tensor(ir.Float32, 6).Equals(typ))
	// Element count mismatch
	_, err = Reshape.Relation([]ir.Type{tensor(ir.Float32, 2, 3)}, &ReshapeAttrs{Shape: []int64{4}}, 1)
	assert.Error(t, err)
	// Dynamic dimensions suppress the count check
	_, err = Reshape.Relation([]ir.Type{tensor(ir.Float32, ir.DYNAMIC_DIM, 3)}, &ReshapeAttrs{Shape: []int64{4}}, 1)
	assert.NoError(t, err)
}

func TestDeviceCopyAttrs(t *testing.T) {
	assert.False(t, DeviceCopy.DevicePolymorphic)
	//
	attrs, err := DeviceCopy.ParseAttributes(map[string]string{"src": "cpu:0", "dst": "npu:0"})
	require.NoError(t, err)
	//
	copyAttrs := attrs.(*DeviceCopyAttrs)
	assert.True(t, copyAttrs.SrcScope.Equals(device.NewScope(device.CPU_DEVICE, 0)))
	assert.True(t, copyAttrs.DstScope.Equals(device.NewScope(device.NPU_DEVICE, 0)))
	// Missing dst
	_, err = DeviceCopy.ParseAttributes(map[string]string{"src": "cpu:0"})
	assert.Error(t, err)
}

func TestNpuIdentityRelation(t *testing.T) {
	u8 := ir.DType{Code: ir.UINT_TYPE, Bits: 8, Lanes: 1}
	//
	typ, err := NpuIdentity.Relation([]ir.Type{tensor(u8, 1, 8, 8, 3)}, nil, 1)
	require.NoError(t, err)
	assert.True(t, tensor(u8, 1, 8, 8, 3).Equals(typ))
	// Unquantized element type
	_, err = NpuIdentity.Relation([]ir.Type{tensor(ir.Float32, 8)}, nil, 1)
	assert.Error(t, err)
	// Rank too large
	_, err = NpuIdentity.Relation([]ir.Type{tensor(u8, 1, 1, 8, 8, 3)}, nil, 1)
	assert.Error(t, err)
}

func TestQuantizeAttrsParsing(t *testing.T) {
	attrs, err := NpuIdentity.ParseAttributes(map[string]string{
		"ifm_scale":      "0.5",
		"ifm_zero_point": "128",
		"ofm_scale":      "0.25",
		"ofm_zero_point": "64",
		"activation":     "relu",
	})
	require.NoError(t, err)
	//
	qattrs := attrs.(*QuantizeAttrs)
	assert.Equal(t, 0.5, qattrs.IfmScale)
	assert.Equal(t, 128, qattrs.IfmZeroPoint)
	assert.Equal(t, 0.25, qattrs.OfmScale)
	assert.Equal(t, 64, qattrs.OfmZeroPoint)
	assert.Equal(t, "relu", qattrs.Activation)
	//
	_, err = NpuIdentity.ParseAttributes(map[string]string{"ifm_scale": "lots"})
	assert.Error(t, err)
}
