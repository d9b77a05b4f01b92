package cifast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cifkit/cif/pkg/cifast"
	"github.com/cifkit/cif/pkg/span"
)

func TestItemMapPreservesOrderAndExactTagLookup(t *testing.T) {
	m := cifast.NewItemMap()
	m.Append(cifast.Item{Tag: "_tag1", Value: cifast.NewText("a", span.Zero)})
	m.Append(cifast.Item{Tag: "_Tag2", Value: cifast.NewText("b", span.Zero)})

	assert.Equal(t, []string{"_tag1", "_Tag2"}, m.Tags())

	_, ok := m.Get("_tag2")
	assert.False(t, ok, "lookup must be exact-case, not case-insensitive")

	v, ok := m.Get("_Tag2")
	require.True(t, ok)
	assert.Equal(t, "b", v.Text)
}

func TestItemMapReplaceKeepsPosition(t *testing.T) {
	m := cifast.NewItemMap()
	m.Append(cifast.Item{Tag: "_a", Value: cifast.NewNumeric(1, span.Zero)})
	m.Append(cifast.Item{Tag: "_b", Value: cifast.NewNumeric(2, span.Zero)})
	m.Append(cifast.Item{Tag: "_a", Value: cifast.NewNumeric(99, span.Zero)})

	assert.Equal(t, []string{"_a", "_b"}, m.Tags())
	v, _ := m.Get("_a")
	assert.Equal(t, 99.0, v.Number)
}

func TestLoopAccessors(t *testing.T) {
	l := cifast.Loop{
		Tags: []string{"_atom.id", "_atom.type", "_atom.x"},
		Values: [][]cifast.Value{
			{cifast.NewNumeric(1, span.Zero), cifast.NewText("C", span.Zero), cifast.NewNumeric(1.0, span.Zero)},
			{cifast.NewNumeric(2, span.Zero), cifast.NewText("N", span.Zero), cifast.NewNumeric(2.0, span.Zero)},
			{cifast.NewNumeric(3, span.Zero), cifast.NewText("O", span.Zero), cifast.NewNumeric(3.0, span.Zero)},
		},
	}

	require.Equal(t, 3, l.Len())
	v, ok := l.GetByTag(0, "_atom.type")
	require.True(t, ok)
	assert.Equal(t, "C", v.Text)

	v, ok = l.Get(1, 2)
	require.True(t, ok)
	assert.Equal(t, 2.0, v.Number)

	col, ok := l.GetColumn("_atom.id")
	require.True(t, ok)
	assert.Len(t, col, 3)

	_, ok = l.Get(10, 0)
	assert.False(t, ok)
}

func TestDocumentBlockLookup(t *testing.T) {
	doc := cifast.Document{
		Blocks: []cifast.Block{
			{Name: "first"},
			{Name: "second"},
		},
	}

	b, ok := doc.GetBlock("second")
	require.True(t, ok)
	assert.Equal(t, "second", b.Name)

	first, ok := doc.FirstBlock()
	require.True(t, ok)
	assert.Equal(t, "first", first.Name)

	_, ok = doc.GetBlock("missing")
	assert.False(t, ok)
}

func TestValueIsSpecial(t *testing.T) {
	assert.True(t, cifast.NewUnknown(span.Zero).IsSpecial())
	assert.True(t, cifast.NewNotApplicable(span.Zero).IsSpecial())
	assert.False(t, cifast.NewText("x", span.Zero).IsSpecial())
}
