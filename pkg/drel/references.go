package drel

import "github.com/cifkit/cif/pkg/span"

// ReferenceKind discriminates the three things a dREL method can refer
// to that a dictionary self-check needs to resolve (spec §4.8).
type ReferenceKind int

const (
	// RefDataName is a literal `_category.object` appearing in the method.
	RefDataName ReferenceKind = iota
	// RefCategory is a category name bound by a Loop or With clause.
	RefCategory
	// RefIdentifier is a bare identifier that survives outside the set
	// of local binders (loop/for/do/with variables, function parameters).
	RefIdentifier
)

// ItemReference is one resolvable name a dREL method mentions. Category
// holds the category name for RefCategory, the category half of the
// data name for RefDataName, and the bare identifier text itself for
// RefIdentifier (there being no category/object split to make yet).
type ItemReference struct {
	Kind     ReferenceKind
	Category string
	Object   string // only meaningful for RefDataName
	Span     span.Span
}

// locals is a stack of binder sets, one per lexical scope entered while
// walking the AST (spec §4.8: "pushed on entry to their body and popped
// on exit").
type locals struct {
	scopes []map[string]struct{}
}

func (l *locals) push(names ...string) {
	scope := make(map[string]struct{}, len(names))
	for _, n := range names {
		scope[n] = struct{}{}
	}
	l.scopes = append(l.scopes, scope)
}

func (l *locals) pop() {
	l.scopes = l.scopes[:len(l.scopes)-1]
}

func (l *locals) has(name string) bool {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if _, ok := l.scopes[i][name]; ok {
			return true
		}
	}
	return false
}

// ExtractReferences walks stmts and returns every ItemReference found
// (spec §4.8). Local binders never appear as RefIdentifier references:
// loop/for/do variables, with-aliases, and function parameters are
// tracked in a scope stack and excluded while they're in scope.
func ExtractReferences(stmts []*Statement) []ItemReference {
	var refs []ItemReference
	scope := &locals{}
	walkBlock(stmts, scope, &refs)
	return refs
}

func walkBlock(stmts []*Statement, scope *locals, refs *[]ItemReference) {
	for _, s := range stmts {
		walkStatement(s, scope, refs)
	}
}

func walkStatement(s *Statement, scope *locals, refs *[]ItemReference) {
	if s == nil {
		return
	}
	switch s.Kind {
	case StmtIf:
		walkExpr(s.Cond, scope, refs)
		walkBlock(s.Then, scope, refs)
		for _, e := range s.ElseIfs {
			walkExpr(e.Cond, scope, refs)
			walkBlock(e.Body, scope, refs)
		}
		walkBlock(s.Else, scope, refs)
	case StmtFor:
		walkExpr(s.ForIterable, scope, refs)
		scope.push(s.ForVar)
		walkBlock(s.Body, scope, refs)
		scope.pop()
	case StmtLoop:
		*refs = append(*refs, ItemReference{Kind: RefCategory, Category: s.LoopCategory, Span: s.Span})
		if s.LoopWhere != nil {
			walkExpr(s.LoopWhere, scope, refs)
		}
		binders := []string{s.LoopVar}
		if s.LoopIndexVar != "" {
			binders = append(binders, s.LoopIndexVar)
		}
		scope.push(binders...)
		walkBlock(s.Body, scope, refs)
		scope.pop()
	case StmtDo:
		walkExpr(s.DoStart, scope, refs)
		walkExpr(s.DoEnd, scope, refs)
		walkExpr(s.DoStep, scope, refs)
		scope.push(s.DoVar)
		walkBlock(s.Body, scope, refs)
		scope.pop()
	case StmtRepeat:
		walkBlock(s.Body, scope, refs)
	case StmtWith:
		*refs = append(*refs, ItemReference{Kind: RefCategory, Category: s.WithCategory, Span: s.Span})
		scope.push(s.WithVar)
		if s.WithBody != nil {
			walkBlock(s.WithBody, scope, refs)
			scope.pop()
		}
		// When WithBody is nil the alias persists lexically until the
		// end of the enclosing method (spec §4.7): the scope it pushed
		// is deliberately left open rather than popped here.
	case StmtFunctionDef:
		scope.push(s.FuncParams...)
		walkBlock(s.Body, scope, refs)
		scope.pop()
	case StmtBreak, StmtNext:
	case StmtAssignment:
		walkExpr(s.AssignTarget, scope, refs)
		walkExpr(s.AssignValue, scope, refs)
	case StmtExpr:
		walkExpr(s.ExprStmt, scope, refs)
	}
}

func walkExpr(e *Expr, scope *locals, refs *[]ItemReference) {
	if e == nil {
		return
	}
	switch e.Kind {
	case ExprDataName:
		*refs = append(*refs, ItemReference{Kind: RefDataName, Category: e.Category, Object: e.Object, Span: e.Span})
	case ExprIdentifier:
		if !scope.has(e.Text) {
			*refs = append(*refs, ItemReference{Kind: RefIdentifier, Category: e.Text, Span: e.Span})
		}
	case ExprBinaryOp:
		walkExpr(e.Left, scope, refs)
		walkExpr(e.Right, scope, refs)
	case ExprUnaryOp:
		walkExpr(e.Left, scope, refs)
	case ExprSubscription:
		walkExpr(e.Left, scope, refs)
		if e.Subscript != nil {
			walkExpr(e.Subscript.Index, scope, refs)
			walkExpr(e.Subscript.SliceStart, scope, refs)
			walkExpr(e.Subscript.SliceEnd, scope, refs)
			walkExpr(e.Subscript.KeyMatchValue, scope, refs)
		}
	case ExprAttributeRef:
		walkExpr(e.Left, scope, refs)
	case ExprFunctionCall:
		walkExpr(e.Left, scope, refs)
		for _, a := range e.Args {
			walkExpr(a, scope, refs)
		}
	case ExprList:
		for _, el := range e.Elements {
			walkExpr(el, scope, refs)
		}
	case ExprTable:
		for _, entry := range e.Entries {
			walkExpr(entry.Key, scope, refs)
			walkExpr(entry.Value, scope, refs)
		}
	}
}
