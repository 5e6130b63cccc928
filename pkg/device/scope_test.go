package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnconstrainedSentinel(t *testing.T) {
	u := Unconstrained()
	//
	assert.True(t, u.IsFullyUnconstrained())
	assert.True(t, u.Equals(Unconstrained()))
	// Sentinel equals only (copies of) itself.
	assert.False(t, u.Equals(NewScope(CPU_DEVICE, 0)))
	assert.False(t, NewScope(CPU_DEVICE, 0).Equals(u))
}

func TestScopeEquality(t *testing.T) {
	a := NewScope(NPU_DEVICE, 0)
	b := NewScope(NPU_DEVICE, 0)
	c := NewScope(NPU_DEVICE, 1)
	d := NewMemScope(NPU_DEVICE, 0, "sram")
	//
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(d))
	assert.True(t, d.Equals(NewMemScope(NPU_DEVICE, 0, "sram")))
}

func TestScopeString(t *testing.T) {
	assert.Equal(t, "?", Unconstrained().String())
	assert.Equal(t, "gpu:1", NewScope(GPU_DEVICE, 1).String())
	assert.Equal(t, "npu:0:sram", NewMemScope(NPU_DEVICE, 0, "sram").String())
}

func TestParseScope(t *testing.T) {
	tests := []string{"?", "cpu:0", "gpu:3", "npu:0:sram"}
	//
	for _, test := range tests {
		scope, err := ParseScope(test)
		//
		assert.NoError(t, err)
		assert.Equal(t, test, scope.String())
	}
}

func TestParseScopeInvalid(t *testing.T) {
	tests := []string{"", "cpu", "cpu:", "cpu:-1", "tpu:0", "cpu:0:", "cpu:0:vtcm:x"}
	//
	for _, test := range tests {
		_, err := ParseScope(test)
		assert.Error(t, err, "expected error parsing %q", test)
	}
}

func TestScopeGobRoundTrip(t *testing.T) {
	var decoded Scope
	//
	scope := NewMemScope(NPU_DEVICE, 2, "sram")
	//
	bytes, err := scope.GobEncode()
	assert.NoError(t, err)
	assert.NoError(t, decoded.GobDecode(bytes))
	assert.True(t, scope.Equals(&decoded))
}
