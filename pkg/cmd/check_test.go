package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tesseralang/go-tessera/pkg/device"
	"github.com/tesseralang/go-tessera/pkg/ir"
	"github.com/tesseralang/go-tessera/pkg/ir/text"
	_ "github.com/tesseralang/go-tessera/pkg/ops"
	"github.com/tesseralang/go-tessera/pkg/util/source"
)

func parseTestModule(t *testing.T, filename string) *ir.Module {
	srcfile, err := source.ReadFile(filename)
	require.NoError(t, err)
	//
	module, serr := text.ParseModule(srcfile)
	require.Nil(t, serr)
	//
	return module
}

func TestCheckExampleModule(t *testing.T) {
	module := parseTestModule(t, "../../testdata/example.tir")
	//
	table, err := device.LoadTable("../../testdata/targets.yaml")
	require.NoError(t, err)
	//
	require.NoError(t, ir.CheckModule(module))
	assert.Empty(t, checkModulePlacements(module, table))
}

func TestCheckRejectsUndeclaredDevice(t *testing.T) {
	module := parseTestModule(t, "../../testdata/example.tir")
	// A table without any GPUs rejects the example's annotations.
	table := &device.Table{Targets: []device.Entry{{Kind: "cpu", Count: 1}}}
	//
	errors := checkModulePlacements(module, table)
	require.NotEmpty(t, errors)
	assert.Contains(t, errors[0].Error(), "undeclared device kind")
}

func TestCheckSkipsWithoutTable(t *testing.T) {
	module := parseTestModule(t, "../../testdata/example.tir")
	//
	assert.Empty(t, checkModulePlacements(module, nil))
}
