package cifraw_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cifkit/cif/pkg/cifraw"
	"github.com/cifkit/cif/pkg/span"
)

func TestNewQuotedTracksDoubledQuotes(t *testing.T) {
	v := cifraw.NewQuoted("O''Brien", '\'', true, span.Zero)
	assert.Equal(t, cifraw.KindQuoted, v.Kind)
	assert.True(t, v.HasDoubledQuotes)
	assert.Equal(t, "O''Brien", v.Raw)
}

func TestNewListPreservesRawAndElements(t *testing.T) {
	elems := []cifraw.Value{
		cifraw.NewUnquoted("1", span.Zero),
		cifraw.NewUnquoted("2", span.Zero),
	}
	v := cifraw.NewList("[1 2]", elems, span.Zero)
	assert.Equal(t, "[1 2]", v.Raw)
	assert.Len(t, v.Elements, 2)
}

func TestNewTableEntriesRequireQuotedKeys(t *testing.T) {
	entry := cifraw.TableEntry{
		Key:   cifraw.NewQuoted("k", '\'', false, span.Zero),
		Value: cifraw.NewUnquoted("v", span.Zero),
	}
	tbl := cifraw.NewTable("{'k':v}", []cifraw.TableEntry{entry}, span.Zero)
	assert.Len(t, tbl.Entries, 1)
	assert.Equal(t, cifraw.KindQuoted, tbl.Entries[0].Key.Kind)
}
