package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cifkit/cif/pkg/cifraw"
)

func TestParseSimpleBlockWithItems(t *testing.T) {
	doc, _, err := Parse("data_test\n_cell.length_a 5.64\n_cell.length_b '5.64(2)'\n")
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)

	b := doc.Blocks[0]
	assert.Equal(t, "test", b.Name)
	require.Len(t, b.Items, 2)
	assert.Equal(t, "_cell.length_a", b.Items[0].Tag)
	assert.Equal(t, cifraw.KindUnquoted, b.Items[0].Value.Kind)
	assert.Equal(t, "5.64", b.Items[0].Value.Text)

	assert.Equal(t, "_cell.length_b", b.Items[1].Tag)
	assert.Equal(t, cifraw.KindQuoted, b.Items[1].Value.Kind)
	assert.Equal(t, "5.64(2)", b.Items[1].Value.Raw)
}

func TestParseDoubledQuotesPassThrough(t *testing.T) {
	doc, _, err := Parse(`data_t
_name 'O''Brien'
`)
	require.NoError(t, err)
	v := doc.Blocks[0].Items[0].Value
	assert.Equal(t, "O''Brien", v.Raw)
	assert.True(t, v.HasDoubledQuotes)
}

func TestParseTripleQuotedAndList(t *testing.T) {
	doc, _, err := Parse("data_t\n_x '''multi\nline'''\n_y [1 2 3]\n")
	require.NoError(t, err)
	items := doc.Blocks[0].Items
	require.Len(t, items, 2)
	assert.Equal(t, cifraw.KindTripleQuoted, items[0].Value.Kind)
	assert.Equal(t, "multi\nline", items[0].Value.Raw)

	assert.Equal(t, cifraw.KindList, items[1].Value.Kind)
	require.Len(t, items[1].Value.Elements, 3)
	assert.Equal(t, "1", items[1].Value.Elements[0].Text)
}

func TestParseTable(t *testing.T) {
	doc, _, err := Parse("data_t\n_x {'a':1 'b':2}\n")
	require.NoError(t, err)
	v := doc.Blocks[0].Items[0].Value
	require.Equal(t, cifraw.KindTable, v.Kind)
	require.Len(t, v.Entries, 2)
	assert.Equal(t, "a", v.Entries[0].Key.Raw)
	assert.Equal(t, "1", v.Entries[0].Value.Text)
}

func TestParseTextField(t *testing.T) {
	doc, _, err := Parse("data_t\n_desc\n;\nfirst line\nsecond line\n;\n")
	require.NoError(t, err)
	v := doc.Blocks[0].Items[0].Value
	require.Equal(t, cifraw.KindTextField, v.Kind)
	assert.Equal(t, "first line\nsecond line\n", v.Content)
}

func TestParseLoop(t *testing.T) {
	doc, _, err := Parse("data_t\nloop_\n_atom.id\n_atom.type\n1 C\n2 N\n")
	require.NoError(t, err)
	require.Len(t, doc.Blocks[0].Loops, 1)
	loop := doc.Blocks[0].Loops[0]
	assert.Equal(t, []string{"_atom.id", "_atom.type"}, loop.Tags)
	require.Len(t, loop.Values, 4)
	assert.Equal(t, "1", loop.Values[0].Text)
	assert.Equal(t, "N", loop.Values[3].Text)
}

func TestParseSaveFrame(t *testing.T) {
	doc, _, err := Parse("data_t\nsave_frame1\n_x 1\nsave_\n_y 2\n")
	require.NoError(t, err)
	b := doc.Blocks[0]
	require.Len(t, b.Frames, 1)
	assert.Equal(t, "frame1", b.Frames[0].Name)
	assert.Equal(t, "_x", b.Frames[0].Items[0].Tag)
	require.Len(t, b.Items, 1)
	assert.Equal(t, "_y", b.Items[0].Tag)
}

func TestParseUnterminatedSaveFrameErrors(t *testing.T) {
	_, _, err := Parse("data_t\nsave_frame1\n_x 1\n")
	assert.Error(t, err)
}

func TestParseUnterminatedQuoteErrors(t *testing.T) {
	_, _, err := Parse("data_t\n_x 'unterminated\n")
	assert.Error(t, err)
}

func TestParseGlobalBlock(t *testing.T) {
	doc, _, err := Parse("global_\n_x 1\ndata_t\n_y 2\n")
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)
	assert.True(t, doc.Blocks[0].IsGlobal)
	assert.Equal(t, "", doc.Blocks[0].Name)
	assert.False(t, doc.Blocks[1].IsGlobal)
}

func TestHasMagicHeader(t *testing.T) {
	assert.True(t, hasMagicHeader("#\\#CIF_2.0\ndata_t\n"))
	assert.False(t, hasMagicHeader("data_t\n_x 1\n"))
	assert.True(t, hasMagicHeader("\n  #\\#CIF_2.0\ndata_t\n"))
}

func TestStripBOM(t *testing.T) {
	withBOM := "\xef\xbb\xbfdata_t\n"
	assert.Equal(t, "data_t\n", stripBOM(withBOM))
}
