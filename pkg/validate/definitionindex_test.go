package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cifkit/cif/pkg/dict"
	"github.com/cifkit/cif/pkg/validate"
)

func TestDefinitionIndexCoversLoopCells(t *testing.T) {
	d := dict.New()
	d.Items["_atom.id"] = &dict.Item{Name: "_atom.id", Category: "atom"}
	d.Items["_atom.type"] = &dict.Item{Name: "_atom.type", Category: "atom"}

	result := parseDoc(t, "data_t\nloop_\n_atom.id\n_atom.type\n1 C\n2 N\n")

	engine := validate.New(d, validate.Strict)
	engine.Validate(result.Document)

	require.Equal(t, 4, engine.Index().Len(), "one entry per loop cell")

	block, ok := result.Document.FirstBlock()
	require.True(t, ok)
	idLoop, ok := block.FindLoop("_atom.id")
	require.True(t, ok)
	value, ok := idLoop.Get(1, idLoop.ColumnIndex("_atom.type"))
	require.True(t, ok)

	name, found := engine.Index().DefinitionAt(value.Span.StartLine, value.Span.StartCol)
	require.True(t, found)
	assert.Equal(t, "_atom.type", name)
}

func TestDefinitionIndexMissesUnresolvedPositions(t *testing.T) {
	idx := validate.New(dict.New(), validate.Strict).Index()
	_, ok := idx.DefinitionAt(1, 1)
	assert.False(t, ok)
}
