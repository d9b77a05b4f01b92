// Package drel parses dREL, the small crystallographic expression
// language embedded in a DDLm dictionary's `_method.expression` save-frame
// items (spec §3.6, §4.7). Only parsing and reference extraction are in
// scope — evaluating a parsed method is a non-goal.
package drel

import "github.com/alecthomas/participle/v2/lexer"

// drelLexer tokenizes dREL source. Order matters: longer/more specific
// patterns are listed before shorter ones that share a prefix, exactly
// as the policy DSL's lexer documents its own ordering requirement.
var drelLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "TripleString", Pattern: `(?s:'''.*?'''|""".*?""")`},
	{Name: "String", Pattern: `'(?:[^'\\]|\\.)*'|"(?:[^"\\]|\\.)*"`},
	{Name: "Imaginary", Pattern: `(?:[0-9]+\.[0-9]*|\.[0-9]+|[0-9]+)(?:[eE][+-]?[0-9]+)?[jJ]`},
	{Name: "Float", Pattern: `[0-9]+\.[0-9]*(?:[eE][+-]?[0-9]+)?|\.[0-9]+(?:[eE][+-]?[0-9]+)?|[0-9]+[eE][+-]?[0-9]+`},
	{Name: "Hex", Pattern: `0[xX][0-9a-fA-F]+`},
	{Name: "Octal", Pattern: `0[oO][0-7]+`},
	{Name: "Binary", Pattern: `0[bB][01]+`},
	{Name: "Integer", Pattern: `[0-9]+`},
	{Name: "DataName", Pattern: `_[A-Za-z_][A-Za-z0-9_]*\.[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "OpPowerAssignInc", Pattern: `\+\+=`},
	{Name: "OpPowerAssignDec", Pattern: `--=`},
	{Name: "OpAddAssign", Pattern: `\+=`},
	{Name: "OpSubAssign", Pattern: `-=`},
	{Name: "OpMulAssign", Pattern: `\*=`},
	{Name: "OpPower", Pattern: `\*\*`},
	{Name: "OpAnd2", Pattern: `&&`},
	{Name: "OpOr2", Pattern: `\|\|`},
	{Name: "OpEq", Pattern: `==`},
	{Name: "OpNe", Pattern: `!=`},
	{Name: "OpGe", Pattern: `>=`},
	{Name: "OpLe", Pattern: `<=`},
	{Name: "OpGt", Pattern: `>`},
	{Name: "OpLt", Pattern: `<`},
	{Name: "Bang", Pattern: `!`},
	{Name: "Assign", Pattern: `=`},
	{Name: "Plus", Pattern: `\+`},
	{Name: "Minus", Pattern: `-`},
	{Name: "Star", Pattern: `\*`},
	{Name: "Slash", Pattern: `/`},
	{Name: "Caret", Pattern: `\^`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Semi", Pattern: `;`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "whitespace", Pattern: `\s+`},
})
