package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTable = []byte(`
targets:
  - kind: cpu
    count: 1
  - kind: npu
    count: 2
    memory: [sram]
`)

func TestParseTable(t *testing.T) {
	table, err := ParseTable(testTable)
	require.NoError(t, err)
	require.Len(t, table.Targets, 2)
	//
	assert.Equal(t, "cpu", table.Targets[0].Kind)
	assert.Equal(t, 2, table.Targets[1].Count)
	assert.Equal(t, []string{"sram"}, table.Targets[1].Memory)
}

func TestParseTableInvalid(t *testing.T) {
	tests := map[string][]byte{
		"unknown kind":   []byte("targets:\n  - kind: tpu\n    count: 1\n"),
		"zero count":     []byte("targets:\n  - kind: cpu\n    count: 0\n"),
		"duplicate kind": []byte("targets:\n  - kind: cpu\n    count: 1\n  - kind: cpu\n    count: 2\n"),
		"malformed yaml": []byte("targets: [\n"),
	}
	//
	for name, bytes := range tests {
		_, err := ParseTable(bytes)
		assert.Error(t, err, name)
	}
}

func TestTableCheck(t *testing.T) {
	table, err := ParseTable(testTable)
	require.NoError(t, err)
	//
	assert.NoError(t, table.Check(Unconstrained()))
	assert.NoError(t, table.Check(NewScope(CPU_DEVICE, 0)))
	assert.NoError(t, table.Check(NewScope(NPU_DEVICE, 1)))
	assert.NoError(t, table.Check(NewMemScope(NPU_DEVICE, 0, "sram")))
	// Undeclared kind
	assert.Error(t, table.Check(NewScope(GPU_DEVICE, 0)))
	// Out-of-range ordinal
	assert.Error(t, table.Check(NewScope(CPU_DEVICE, 1)))
	// Undeclared memory scope
	assert.Error(t, table.Check(NewMemScope(NPU_DEVICE, 0, "dram")))
}
