package drel

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/samber/oops"

	"github.com/cifkit/cif/pkg/ciferr"
	"github.com/cifkit/cif/pkg/span"
)

// The grammar below is a chain of precedence layers, same shape as the
// policy DSL's ConditionBlock/Conjunction/Condition chain, extended to
// dREL's larger operator set (spec §4.7, lowest to highest precedence):
// or/||, and/&&, not/!, comparisons, additive, multiplicative, unary
// +/-, power **, cross ^, postfix. Each layer is parsed into its own
// chain struct, then folded into the generic *Expr tree by an ast()
// method — the same fused recognise-then-build approach internal/grammar
// uses for CIF itself, kept here because it is the natural shape for a
// precedence-climbing grammar participle can express as ordered choice.

func pos(p lexer.Position) span.Span { return span.Point(p.Line, p.Column) }

type programG struct {
	Statements []*statementG `parser:"@@*"`
}

// --- expressions ---

type orG struct {
	Pos  lexer.Position
	Head *andG      `parser:"@@"`
	Tail []*orTailG `parser:"@@*"`
}
type orTailG struct {
	Op    string `parser:"@(\"or\" | \"||\")"`
	Right *andG  `parser:"@@"`
}

func (g *orG) ast() *Expr {
	result := g.Head.ast()
	for _, t := range g.Tail {
		right := t.Right.ast()
		result = &Expr{Kind: ExprBinaryOp, Span: pos(g.Pos), Op: t.Op, Left: result, Right: right}
	}
	return result
}

type andG struct {
	Pos  lexer.Position
	Head *notG       `parser:"@@"`
	Tail []*andTailG `parser:"@@*"`
}
type andTailG struct {
	Op    string `parser:"@(\"and\" | \"&&\")"`
	Right *notG  `parser:"@@"`
}

func (g *andG) ast() *Expr {
	result := g.Head.ast()
	for _, t := range g.Tail {
		right := t.Right.ast()
		result = &Expr{Kind: ExprBinaryOp, Span: pos(g.Pos), Op: t.Op, Left: result, Right: right}
	}
	return result
}

type notG struct {
	Pos     lexer.Position
	Bang    string        `parser:"@(\"not\" | \"!\")?"`
	Operand *comparisonG  `parser:"@@"`
}

func (g *notG) ast() *Expr {
	operand := g.Operand.ast()
	if g.Bang == "" {
		return operand
	}
	return &Expr{Kind: ExprUnaryOp, Span: pos(g.Pos), Op: "not", Left: operand}
}

type comparisonG struct {
	Pos   lexer.Position
	Left  *additiveG `parser:"@@"`
	NotIn bool       `parser:"( @(\"not\" \"in\")"`
	Op    string     `parser:"| @(\"==\" | \"!=\" | \"<=\" | \">=\" | \"<\" | \">\" | \"in\") )?"`
	Right *additiveG `parser:"@@?"`
}

func (g *comparisonG) ast() *Expr {
	left := g.Left.ast()
	switch {
	case g.NotIn:
		return &Expr{Kind: ExprBinaryOp, Span: pos(g.Pos), Op: "not in", Left: left, Right: g.Right.ast()}
	case g.Op != "":
		return &Expr{Kind: ExprBinaryOp, Span: pos(g.Pos), Op: g.Op, Left: left, Right: g.Right.ast()}
	default:
		return left
	}
}

type additiveG struct {
	Pos  lexer.Position
	Head *multiplicativeG `parser:"@@"`
	Tail []*additiveTailG `parser:"@@*"`
}
type additiveTailG struct {
	Op    string           `parser:"@(\"+\" | \"-\")"`
	Right *multiplicativeG `parser:"@@"`
}

func (g *additiveG) ast() *Expr {
	result := g.Head.ast()
	for _, t := range g.Tail {
		result = &Expr{Kind: ExprBinaryOp, Span: pos(g.Pos), Op: t.Op, Left: result, Right: t.Right.ast()}
	}
	return result
}

type multiplicativeG struct {
	Pos  lexer.Position
	Head *unaryG               `parser:"@@"`
	Tail []*multiplicativeTailG `parser:"@@*"`
}
type multiplicativeTailG struct {
	Op    string `parser:"@(\"*\" | \"/\")"`
	Right *unaryG `parser:"@@"`
}

func (g *multiplicativeG) ast() *Expr {
	result := g.Head.ast()
	for _, t := range g.Tail {
		result = &Expr{Kind: ExprBinaryOp, Span: pos(g.Pos), Op: t.Op, Left: result, Right: t.Right.ast()}
	}
	return result
}

type unaryG struct {
	Pos     lexer.Position
	Op      string   `parser:"@(\"+\" | \"-\")?"`
	Operand *powerG  `parser:"@@"`
}

func (g *unaryG) ast() *Expr {
	operand := g.Operand.ast()
	if g.Op == "" {
		return operand
	}
	return &Expr{Kind: ExprUnaryOp, Span: pos(g.Pos), Op: g.Op, Left: operand}
}

// powerG and crossG are right-associative: a**b**c == a**(b**c).
type powerG struct {
	Pos   lexer.Position
	Left  *crossG `parser:"@@"`
	Right *powerG `parser:"(\"**\" @@)?"`
}

func (g *powerG) ast() *Expr {
	left := g.Left.ast()
	if g.Right == nil {
		return left
	}
	return &Expr{Kind: ExprBinaryOp, Span: pos(g.Pos), Op: "**", Left: left, Right: g.Right.ast()}
}

type crossG struct {
	Pos   lexer.Position
	Left  *postfixG `parser:"@@"`
	Right *crossG   `parser:"(\"^\" @@)?"`
}

func (g *crossG) ast() *Expr {
	left := g.Left.ast()
	if g.Right == nil {
		return left
	}
	return &Expr{Kind: ExprBinaryOp, Span: pos(g.Pos), Op: "^", Left: left, Right: g.Right.ast()}
}

type postfixG struct {
	Pos  lexer.Position
	Base *primaryG       `parser:"@@"`
	Ops  []*postfixOpG   `parser:"@@*"`
}

type postfixOpG struct {
	Pos       lexer.Position
	Subscript *subscriptG  `parser:"  \"[\" @@ \"]\""`
	Attribute string       `parser:"| \".\" @Ident"`
	Call      *callArgsG   `parser:"| \"(\" @@? \")\""`
}

func (g *postfixG) ast() *Expr {
	result := g.Base.ast()
	for _, op := range g.Ops {
		switch {
		case op.Subscript != nil:
			result = &Expr{Kind: ExprSubscription, Span: pos(op.Pos), Left: result, Subscript: op.Subscript.ast()}
		case op.Attribute != "":
			result = &Expr{Kind: ExprAttributeRef, Span: pos(op.Pos), Left: result, Attribute: op.Attribute}
		case op.Call != nil:
			var args []*Expr
			if op.Call != nil {
				args = op.Call.ast()
			}
			result = &Expr{Kind: ExprFunctionCall, Span: pos(op.Pos), Left: result, Args: args}
		}
	}
	return result
}

type callArgsG struct {
	Args []*orG `parser:"@@ (\",\" @@)*"`
}

func (g *callArgsG) ast() []*Expr {
	if g == nil {
		return nil
	}
	out := make([]*Expr, 0, len(g.Args))
	for _, a := range g.Args {
		out = append(out, a.ast())
	}
	return out
}

type subscriptG struct {
	Pos      lexer.Position
	KeyMatch *keyMatchG `parser:"  @@"`
	Slice    *sliceG    `parser:"| @@"`
	Index    *orG       `parser:"| @@"`
}

func (g *subscriptG) ast() *Subscript {
	switch {
	case g.KeyMatch != nil:
		return &Subscript{Kind: SubKeyMatch, KeyMatchKey: g.KeyMatch.Key, KeyMatchValue: g.KeyMatch.Value.ast()}
	case g.Slice != nil:
		s := &Subscript{Kind: SubSlice}
		if g.Slice.Start != nil {
			s.SliceStart = g.Slice.Start.ast()
		}
		if g.Slice.End != nil {
			s.SliceEnd = g.Slice.End.ast()
		}
		return s
	default:
		return &Subscript{Kind: SubIndex, Index: g.Index.ast()}
	}
}

type keyMatchG struct {
	Key   string `parser:"@Ident \"=\""`
	Value *orG   `parser:"@@"`
}

type sliceG struct {
	Start *orG   `parser:"@@?"`
	Colon string `parser:"\":\""`
	End   *orG   `parser:"@@?"`
}

type listG struct {
	Pos      lexer.Position
	Elements []*orG `parser:"\"[\" (@@ (\",\" @@)*)? \"]\""`
}

func (g *listG) ast() *Expr {
	out := make([]*Expr, 0, len(g.Elements))
	for _, e := range g.Elements {
		out = append(out, e.ast())
	}
	return &Expr{Kind: ExprList, Span: pos(g.Pos), Elements: out}
}

type tableEntryG struct {
	Key   *orG `parser:"@@ \":\""`
	Value *orG `parser:"@@"`
}

type tableG struct {
	Pos     lexer.Position
	Entries []*tableEntryG `parser:"\"{\" (@@ (\",\" @@)*)? \"}\""`
}

func (g *tableG) ast() *Expr {
	out := make([]TableEntry, 0, len(g.Entries))
	for _, e := range g.Entries {
		out = append(out, TableEntry{Key: e.Key.ast(), Value: e.Value.ast()})
	}
	return &Expr{Kind: ExprTable, Span: pos(g.Pos), Entries: out}
}

type primaryG struct {
	Pos          lexer.Position
	Imaginary    *string `parser:"  @Imaginary"`
	Float        *string `parser:"| @Float"`
	Hex          *string `parser:"| @Hex"`
	Octal        *string `parser:"| @Octal"`
	Binary       *string `parser:"| @Binary"`
	Integer      *string `parser:"| @Integer"`
	TripleString *string `parser:"| @TripleString"`
	String       *string `parser:"| @String"`
	Null         bool    `parser:"| @\"null\""`
	Missing      bool    `parser:"| @\"missing\""`
	DataName     *string `parser:"| @DataName"`
	List         *listG  `parser:"| @@"`
	Table        *tableG `parser:"| @@"`
	Identifier   *string `parser:"| @Ident"`
	Paren        *orG    `parser:"| \"(\" @@ \")\""`
}

func (g *primaryG) ast() *Expr {
	sp := pos(g.Pos)
	switch {
	case g.Imaginary != nil:
		v, _ := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSuffix(*g.Imaginary, "j"), "J"), 64)
		return &Expr{Kind: ExprImaginary, Span: sp, Imaginary: v}
	case g.Float != nil:
		v, _ := strconv.ParseFloat(*g.Float, 64)
		return &Expr{Kind: ExprFloat, Span: sp, Float: v}
	case g.Hex != nil:
		v, _ := strconv.ParseInt((*g.Hex)[2:], 16, 64)
		return &Expr{Kind: ExprInteger, Span: sp, Integer: v}
	case g.Octal != nil:
		v, _ := strconv.ParseInt((*g.Octal)[2:], 8, 64)
		return &Expr{Kind: ExprInteger, Span: sp, Integer: v}
	case g.Binary != nil:
		v, _ := strconv.ParseInt((*g.Binary)[2:], 2, 64)
		return &Expr{Kind: ExprInteger, Span: sp, Integer: v}
	case g.Integer != nil:
		v, _ := strconv.ParseInt(*g.Integer, 10, 64)
		return &Expr{Kind: ExprInteger, Span: sp, Integer: v}
	case g.TripleString != nil:
		return &Expr{Kind: ExprString, Span: sp, Text: unquoteTriple(*g.TripleString)}
	case g.String != nil:
		return &Expr{Kind: ExprString, Span: sp, Text: unquoteSingle(*g.String)}
	case g.Null:
		return &Expr{Kind: ExprNull, Span: sp}
	case g.Missing:
		return &Expr{Kind: ExprMissing, Span: sp}
	case g.DataName != nil:
		cat, obj := splitDataName(*g.DataName)
		return &Expr{Kind: ExprDataName, Span: sp, Category: cat, Object: obj}
	case g.List != nil:
		return g.List.ast()
	case g.Table != nil:
		return g.Table.ast()
	case g.Identifier != nil:
		return &Expr{Kind: ExprIdentifier, Span: sp, Text: *g.Identifier}
	default:
		return g.Paren.ast()
	}
}

func splitDataName(tag string) (category, object string) {
	rest := strings.TrimPrefix(tag, "_")
	idx := strings.Index(rest, ".")
	if idx < 0 {
		return rest, ""
	}
	return rest[:idx], rest[idx+1:]
}

func unquoteSingle(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

func unquoteTriple(s string) string {
	if len(s) >= 6 {
		return s[3 : len(s)-3]
	}
	return s
}

// --- statements ---

type statementG struct {
	If         *ifStmtG         `parser:"  @@"`
	For        *forStmtG        `parser:"| @@"`
	Loop       *loopStmtG       `parser:"| @@"`
	Do         *doStmtG         `parser:"| @@"`
	Repeat     *repeatStmtG     `parser:"| @@"`
	With       *withStmtG       `parser:"| @@"`
	FuncDef    *funcDefStmtG    `parser:"| @@"`
	Break      bool             `parser:"| @\"Break\""`
	Next       bool             `parser:"| @\"Next\""`
	Assignment *assignmentStmtG `parser:"| @@"`
	ExprStmt   *orG             `parser:"| @@"`
}

func (g *statementG) ast() *Statement {
	switch {
	case g.If != nil:
		return g.If.ast()
	case g.For != nil:
		return g.For.ast()
	case g.Loop != nil:
		return g.Loop.ast()
	case g.Do != nil:
		return g.Do.ast()
	case g.Repeat != nil:
		return g.Repeat.ast()
	case g.With != nil:
		return g.With.ast()
	case g.FuncDef != nil:
		return g.FuncDef.ast()
	case g.Break:
		return &Statement{Kind: StmtBreak}
	case g.Next:
		return &Statement{Kind: StmtNext}
	case g.Assignment != nil:
		return g.Assignment.ast()
	default:
		e := g.ExprStmt.ast()
		return &Statement{Kind: StmtExpr, Span: e.Span, ExprStmt: e}
	}
}

func astBlock(stmts []*statementG) []*Statement {
	out := make([]*Statement, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, s.ast())
	}
	return out
}

type ifStmtG struct {
	Pos     lexer.Position
	Cond    *orG          `parser:"\"If\" @@"`
	Then    []*statementG `parser:"\"{\" @@* \"}\""`
	ElseIfs []*elseIfG    `parser:"@@*"`
	Else    []*statementG `parser:"(\"Else\" \"{\" @@* \"}\")?"`
}

func (g *ifStmtG) ast() *Statement {
	elseIfs := make([]*ElseIf, 0, len(g.ElseIfs))
	for _, e := range g.ElseIfs {
		elseIfs = append(elseIfs, &ElseIf{Cond: e.Cond.ast(), Body: astBlock(e.Body)})
	}
	return &Statement{
		Kind:    StmtIf,
		Span:    pos(g.Pos),
		Cond:    g.Cond.ast(),
		Then:    astBlock(g.Then),
		ElseIfs: elseIfs,
		Else:    astBlock(g.Else),
	}
}

type elseIfG struct {
	Cond *orG          `parser:"\"ElseIf\" @@"`
	Body []*statementG `parser:"\"{\" @@* \"}\""`
}

type forStmtG struct {
	Pos      lexer.Position
	Var      string        `parser:"\"For\" @Ident"`
	Iterable *orG          `parser:"\"in\" @@"`
	Body     []*statementG `parser:"\"{\" @@* \"}\""`
}

func (g *forStmtG) ast() *Statement {
	return &Statement{Kind: StmtFor, Span: pos(g.Pos), ForVar: g.Var, ForIterable: g.Iterable.ast(), Body: astBlock(g.Body)}
}

type loopStmtG struct {
	Pos      lexer.Position
	Var      string        `parser:"\"Loop\" @Ident"`
	Category string        `parser:"\"as\" @Ident"`
	Index    string        `parser:"(\":\" @Ident)?"`
	Where    *orG          `parser:"(\"Where\" @@)?"`
	Body     []*statementG `parser:"\"{\" @@* \"}\""`
}

func (g *loopStmtG) ast() *Statement {
	st := &Statement{
		Kind:         StmtLoop,
		Span:         pos(g.Pos),
		LoopVar:      g.Var,
		LoopCategory: g.Category,
		LoopIndexVar: g.Index,
		Body:         astBlock(g.Body),
	}
	if g.Where != nil {
		st.LoopWhere = g.Where.ast()
	}
	return st
}

type doStmtG struct {
	Pos   lexer.Position
	Var   string        `parser:"\"Do\" @Ident \"=\""`
	Start *orG          `parser:"@@ \",\""`
	End   *orG          `parser:"@@"`
	Step  *orG          `parser:"(\",\" @@)?"`
	Body  []*statementG `parser:"\"{\" @@* \"}\""`
}

func (g *doStmtG) ast() *Statement {
	st := &Statement{Kind: StmtDo, Span: pos(g.Pos), DoVar: g.Var, DoStart: g.Start.ast(), DoEnd: g.End.ast(), Body: astBlock(g.Body)}
	if g.Step != nil {
		st.DoStep = g.Step.ast()
	}
	return st
}

type repeatStmtG struct {
	Pos  lexer.Position
	Body []*statementG `parser:"\"Repeat\" \"{\" @@* \"}\""`
}

func (g *repeatStmtG) ast() *Statement {
	return &Statement{Kind: StmtRepeat, Span: pos(g.Pos), Body: astBlock(g.Body)}
}

// withStmtG's HasBody records whether a "{" was seen, so a missing body
// (bare "With x as category") can be distinguished from a present-but-empty
// one ("With x as category {}").
type withStmtG struct {
	Pos      lexer.Position
	Var      string        `parser:"\"With\" @Ident"`
	Category string        `parser:"\"as\" @Ident"`
	HasBody  bool          `parser:"( @\"{\""`
	Body     []*statementG `parser:"@@* \"}\" )?"`
}

func (g *withStmtG) ast() *Statement {
	var body []*Statement
	if g.HasBody {
		body = astBlock(g.Body)
	}
	return &Statement{
		Kind:         StmtWith,
		Span:         pos(g.Pos),
		WithVar:      g.Var,
		WithCategory: g.Category,
		WithBody:     body,
	}
}

type funcDefStmtG struct {
	Pos    lexer.Position
	Name   string        `parser:"\"Function\" @Ident \"(\""`
	Params []string      `parser:"(@Ident (\",\" @Ident)*)? \")\""`
	Body   []*statementG `parser:"\"{\" @@* \"}\""`
}

func (g *funcDefStmtG) ast() *Statement {
	return &Statement{Kind: StmtFunctionDef, Span: pos(g.Pos), FuncName: g.Name, FuncParams: g.Params, Body: astBlock(g.Body)}
}

type assignmentStmtG struct {
	Pos    lexer.Position
	Target *postfixG `parser:"@@"`
	Op     string    `parser:"@(\"=\" | \"+=\" | \"-=\" | \"*=\" | \"++=\" | \"--=\")"`
	Value  *orG      `parser:"@@"`
}

func (g *assignmentStmtG) ast() *Statement {
	return &Statement{
		Kind:         StmtAssignment,
		Span:         pos(g.Pos),
		AssignTarget: g.Target.ast(),
		AssignOp:     g.Op,
		AssignValue:  g.Value.ast(),
	}
}

// drelParser is the singleton participle parser instance, built once at
// package init the same way the policy DSL builds its own.
var drelParser *participle.Parser[programG]

func init() {
	var err error
	drelParser, err = participle.Build[programG](
		participle.Lexer(drelLexer),
		participle.Elide("whitespace", "Comment"),
		participle.UseLookahead(participle.MaxLookahead),
	)
	if err != nil {
		panic("failed to build dREL parser: " + err.Error())
	}
}

// Parse recognises source as a dREL method body and returns its
// statement list (spec §4.7). Parse failures are wrapped as a ParseError
// carrying the position participle reports.
func Parse(source string) ([]*Statement, error) {
	prog, err := drelParser.ParseString("", source)
	if err != nil {
		if perr, ok := err.(participle.Error); ok {
			p := perr.Position()
			return nil, ciferr.NewParseError(p.Line, p.Column, oops.Wrapf(err, "parsing dREL method"))
		}
		return nil, ciferr.NewParseError(0, 0, oops.Wrapf(err, "parsing dREL method"))
	}
	return astBlock(prog.Statements), nil
}
