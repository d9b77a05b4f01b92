package dict_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cifkit/cif/internal/metrics"
	"github.com/cifkit/cif/pkg/cif"
	"github.com/cifkit/cif/pkg/dict"
)

const sampleDictionary = `#\#CIF_2.0
data_TEST_DICT
_dictionary.title TEST_DICT
_dictionary.version 1.0.0

save_TEST_CATEGORY
_definition.id TEST_CATEGORY
_definition.scope Category
_definition.class Set
_name.category_id TEST_DICT
_name.object_id TEST_CATEGORY
save_

save_test_category.item_a
_definition.id '_test_category.item_a'
_name.category_id test_category
_name.object_id item_a
_type.purpose Describe
_type.container Single
_type.contents Text
save_

save_test_category.item_b
_definition.id '_test_category.item_b'
_alias.definition_id '_test_category_item_b'
_name.category_id test_category
_name.object_id item_b
_type.purpose Number
_type.container Single
_type.contents Real
_enumeration.range 0.0:100.0
_definition.mandatory_code yes
save_
`

func loadSample(t *testing.T) *dict.Dictionary {
	t.Helper()
	result, err := cif.ParseWithOptions(sampleDictionary, cif.Options{Dialect: cif.DialectForce20})
	require.NoError(t, err)
	d, errs := dict.Load(result.Document)
	require.Empty(t, errs)
	return d
}

func TestLoadMetadata(t *testing.T) {
	d := loadSample(t)
	assert.Equal(t, "TEST_DICT", d.Metadata.Title)
	assert.Equal(t, "1.0.0", d.Metadata.Version)
}

func TestLoadCategory(t *testing.T) {
	d := loadSample(t)
	cat, ok := d.GetCategory("test_category")
	require.True(t, ok)
	assert.Equal(t, dict.ClassSet, cat.Class)
	assert.ElementsMatch(t, []string{"_test_category.item_a", "_test_category.item_b"}, cat.ItemNames)
}

func TestLoadItems(t *testing.T) {
	d := loadSample(t)

	itemA, ok := d.GetItem("_test_category.item_a")
	require.True(t, ok)
	assert.Equal(t, dict.ContentText, itemA.Type.Contents)

	itemB, ok := d.GetItem("_test_category.item_b")
	require.True(t, ok)
	assert.Equal(t, dict.ContentReal, itemB.Type.Contents)
	require.NotNil(t, itemB.Constraints.Range)
	assert.InDelta(t, 0.0, *itemB.Constraints.Range.Min, 1e-9)
	assert.InDelta(t, 100.0, *itemB.Constraints.Range.Max, 1e-9)
	assert.True(t, itemB.IsMandatory())
}

func TestLoadAlias(t *testing.T) {
	d := loadSample(t)
	assert.True(t, d.HasItem("_test_category_item_b"))
	assert.Equal(t, "_test_category.item_b", d.ResolveName("_TEST_CATEGORY_ITEM_B"))
}

func TestParseDataNameModernAndLegacy(t *testing.T) {
	cat, obj, ok := dict.ParseDataName("_atom_site.label")
	require.True(t, ok)
	assert.Equal(t, "atom_site", cat)
	assert.Equal(t, "label", obj)

	cat, obj, ok = dict.ParseDataName("_cell_length_a")
	require.True(t, ok)
	assert.Equal(t, "cell", cat)
	assert.Equal(t, "length_a", obj)
}

func TestRangeConstraintParseAndContains(t *testing.T) {
	rc, ok := dict.ParseRangeConstraint("0.0:")
	require.True(t, ok)
	assert.True(t, rc.Contains(0))
	assert.True(t, rc.Contains(1000))
	assert.False(t, rc.Contains(-1))

	rc, ok = dict.ParseRangeConstraint(":100")
	require.True(t, ok)
	assert.Nil(t, rc.Min)
	require.NotNil(t, rc.Max)

	_, ok = dict.ParseRangeConstraint("")
	assert.False(t, ok)
}

func TestEnumerationConstraintContainsCaseInsensitiveByDefault(t *testing.T) {
	c := dict.EnumerationConstraint{Values: []string{"yes", "no"}}
	assert.True(t, c.Contains("YES"))
	assert.False(t, c.Contains("maybe"))
}

func TestDictionaryMergeNewerVersionWins(t *testing.T) {
	a := dict.New()
	a.Metadata.Version = "1.0.0"
	a.Items["_x.y"] = &dict.Item{Name: "_x.y"}

	b := dict.New()
	b.Metadata.Version = "0.9.0"
	b.Items["_x.z"] = &dict.Item{Name: "_x.z"}

	a.Merge(b)
	assert.Equal(t, "1.0.0", a.Metadata.Version, "older incoming version must not overwrite newer current")
	assert.True(t, a.HasItem("_x.y"))
	assert.True(t, a.HasItem("_x.z"))
}

func TestDictionaryMergeOlderBecomesNewer(t *testing.T) {
	a := dict.New()
	a.Metadata.Version = "1.0.0"

	b := dict.New()
	b.Metadata.Version = "2.0.0"

	a.Merge(b)
	assert.Equal(t, "2.0.0", a.Metadata.Version)
}

func TestNewAssignsDistinctID(t *testing.T) {
	a := dict.New()
	b := dict.New()
	assert.NotEqual(t, a.ID, b.ID)

	merged := dict.New()
	before := merged.ID
	merged.Merge(a)
	assert.Equal(t, before, merged.ID, "merge keeps the receiver's own correlation id")
}

func TestLoadWithMetricsRecordsOutcomeAndErrorKinds(t *testing.T) {
	result, err := cif.ParseWithOptions(sampleDictionary, cif.Options{Dialect: cif.DialectForce20})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	_, errs := dict.Load(result.Document, dict.WithMetrics(m))
	require.Empty(t, errs)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DictionariesLoadedTotal.WithLabelValues("ok")))

	broken, err := cif.ParseWithOptions("#\\#CIF_2.0\ndata_d\nsave_broken\n_type.contents Text\nsave_\n", cif.Options{Dialect: cif.DialectForce20})
	require.NoError(t, err)
	_, errs = dict.Load(broken.Document, dict.WithMetrics(m))
	require.NotEmpty(t, errs)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DictionariesLoadedTotal.WithLabelValues("partial")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LoadErrorsTotal.WithLabelValues(dict.KindMissingField.String())))
}
