package drel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cifkit/cif/pkg/drel"
)

func TestParseSimpleAssignment(t *testing.T) {
	stmts, err := drel.Parse(`_cell.area_ab = _cell.length_a * _cell.length_b`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, drel.StmtAssignment, stmts[0].Kind)
	assert.Equal(t, "=", stmts[0].AssignOp)
	assert.Equal(t, drel.ExprDataName, stmts[0].AssignTarget.Kind)
	assert.Equal(t, "cell", stmts[0].AssignTarget.Category)
	assert.Equal(t, "area_ab", stmts[0].AssignTarget.Object)

	mul := stmts[0].AssignValue
	require.Equal(t, drel.ExprBinaryOp, mul.Kind)
	assert.Equal(t, "*", mul.Op)
}

func TestParsePrecedenceAdditiveBeforeMultiplicative(t *testing.T) {
	stmts, err := drel.Parse(`x = 1 + 2 * 3`)
	require.NoError(t, err)
	top := stmts[0].AssignValue
	require.Equal(t, drel.ExprBinaryOp, top.Kind)
	assert.Equal(t, "+", top.Op)
	assert.Equal(t, drel.ExprBinaryOp, top.Right.Kind)
	assert.Equal(t, "*", top.Right.Op)
}

func TestParsePowerIsRightAssociative(t *testing.T) {
	stmts, err := drel.Parse(`x = 2 ** 3 ** 2`)
	require.NoError(t, err)
	top := stmts[0].AssignValue
	require.Equal(t, drel.ExprBinaryOp, top.Kind)
	assert.Equal(t, "**", top.Op)
	assert.EqualValues(t, 2, top.Left.Integer)
	require.Equal(t, drel.ExprBinaryOp, top.Right.Kind)
}

func TestParseIfElseIfElse(t *testing.T) {
	stmts, err := drel.Parse(`
If x > 0 {
  y = 1
} ElseIf x < 0 {
  y = -1
} Else {
  y = 0
}
`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	ifStmt := stmts[0]
	require.Equal(t, drel.StmtIf, ifStmt.Kind)
	require.Len(t, ifStmt.ElseIfs, 1)
	require.Len(t, ifStmt.Else, 1)
}

func TestParseLoopWithWhereAndIndex(t *testing.T) {
	stmts, err := drel.Parse(`
Loop a as atom_site : i Where a.occupancy > 0 {
  n = n + 1
}
`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	loop := stmts[0]
	require.Equal(t, drel.StmtLoop, loop.Kind)
	assert.Equal(t, "atom_site", loop.LoopCategory)
	assert.Equal(t, "i", loop.LoopIndexVar)
	require.NotNil(t, loop.LoopWhere)
}

func TestParseDoWithStep(t *testing.T) {
	stmts, err := drel.Parse(`
Do i = 1, 10, 2 {
  Next
}
`)
	require.NoError(t, err)
	doStmt := stmts[0]
	require.Equal(t, drel.StmtDo, doStmt.Kind)
	require.NotNil(t, doStmt.DoStep)
}

func TestParseWithWithoutBodyPersistsLexically(t *testing.T) {
	stmts, err := drel.Parse(`
With c as cell
x = c.length_a
`)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	with := stmts[0]
	require.Equal(t, drel.StmtWith, with.Kind)
	assert.Nil(t, with.WithBody)
}

func TestParseSubscriptionForms(t *testing.T) {
	stmts, err := drel.Parse(`
x = a[1]
y = a[1:2]
z = a[name = 1]
`)
	require.NoError(t, err)
	require.Len(t, stmts, 3)
	assert.Equal(t, drel.SubIndex, stmts[0].AssignValue.Subscript.Kind)
	assert.Equal(t, drel.SubSlice, stmts[1].AssignValue.Subscript.Kind)
	assert.Equal(t, drel.SubKeyMatch, stmts[2].AssignValue.Subscript.Kind)
}

func TestParseInvalidSyntaxReturnsParseError(t *testing.T) {
	_, err := drel.Parse(`x = = =`)
	assert.Error(t, err)
}

func TestExtractReferencesExcludesLocalBinders(t *testing.T) {
	stmts, err := drel.Parse(`
Loop a as atom_site {
  n = a.occupancy
}
x = _cell.length_a
`)
	require.NoError(t, err)
	refs := drel.ExtractReferences(stmts)

	var sawDataName, sawCategory bool
	for _, r := range refs {
		switch r.Kind {
		case drel.RefDataName:
			sawDataName = true
			assert.Equal(t, "cell", r.Category)
			assert.Equal(t, "length_a", r.Object)
		case drel.RefCategory:
			sawCategory = true
			assert.Equal(t, "atom_site", r.Category)
		case drel.RefIdentifier:
			assert.NotEqual(t, "a", r.Category, "loop binder 'a' must not appear as a free identifier")
		}
	}
	assert.True(t, sawDataName)
	assert.True(t, sawCategory)
}

func TestExtractReferencesFunctionParamsAreLocal(t *testing.T) {
	stmts, err := drel.Parse(`
Function f(p) {
  q = p
}
`)
	require.NoError(t, err)
	refs := drel.ExtractReferences(stmts)
	for _, r := range refs {
		assert.NotEqual(t, drel.RefIdentifier, r.Kind, "function parameter 'p' leaked as a free reference")
	}
}

func TestGraphDetectsNoCycleForAcyclicDependencies(t *testing.T) {
	g := drel.NewGraph()
	areaStmts, err := drel.Parse(`_cell.area_ab = _cell.length_a * _cell.length_b`)
	require.NoError(t, err)
	g.AddTarget("_cell.area_ab", areaStmts)

	_, found := g.DetectCycle()
	assert.False(t, found)

	order, err := g.TopologicalSort()
	require.NoError(t, err)
	assert.Contains(t, order, "_cell.area_ab")
	assert.Contains(t, order, "_cell.length_a")
}

func TestGraphDetectsCycle(t *testing.T) {
	g := drel.NewGraph()
	aStmts, err := drel.Parse(`_x.a = _x.b`)
	require.NoError(t, err)
	bStmts, err := drel.Parse(`_x.b = _x.c`)
	require.NoError(t, err)
	cStmts, err := drel.Parse(`_x.c = _x.a`)
	require.NoError(t, err)

	g.AddTarget("_x.a", aStmts)
	g.AddTarget("_x.b", bStmts)
	g.AddTarget("_x.c", cStmts)

	cycle, found := g.DetectCycle()
	require.True(t, found)
	assert.Len(t, cycle, 3)

	_, err = g.TopologicalSort()
	require.Error(t, err)
	var cycleErr *drel.CycleError
	require.ErrorAs(t, err, &cycleErr)
}
