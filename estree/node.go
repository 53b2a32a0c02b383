package estree

import (
	"errors"
)

// Parsing errors returned by Parser.Parse.
var (
	// ErrFileTooLarge indicates the content exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidContent indicates the content is not valid UTF-8.
	ErrInvalidContent = errors.New("content is not valid UTF-8")
)

// Kind identifies the syntactic form of a Node. The names follow the
// ESTree specification so that tooling written against JavaScript ASTs
// reads naturally.
type Kind string

const (
	KindProgram Kind = "Program"

	// Literals and identifiers
	KindIdentifier        Kind = "Identifier"
	KindPrivateIdentifier Kind = "PrivateIdentifier"
	KindStringLiteral     Kind = "StringLiteral"
	KindNumberLiteral     Kind = "NumberLiteral"
	KindBooleanLiteral    Kind = "BooleanLiteral"
	KindNullLiteral       Kind = "NullLiteral"
	KindRegExpLiteral     Kind = "RegExpLiteral"
	KindTemplateLiteral   Kind = "TemplateLiteral"
	KindThisExpression    Kind = "ThisExpression"
	KindSuper             Kind = "Super"

	// Expressions
	KindMemberExpression      Kind = "MemberExpression"
	KindCallExpression        Kind = "CallExpression"
	KindNewExpression         Kind = "NewExpression"
	KindBinaryExpression      Kind = "BinaryExpression"
	KindAssignmentExpression  Kind = "AssignmentExpression"
	KindUnaryExpression       Kind = "UnaryExpression"
	KindUpdateExpression      Kind = "UpdateExpression"
	KindConditionalExpression Kind = "ConditionalExpression"
	KindSequenceExpression    Kind = "SequenceExpression"
	KindAwaitExpression       Kind = "AwaitExpression"
	KindYieldExpression       Kind = "YieldExpression"
	KindObjectExpression      Kind = "ObjectExpression"
	KindArrayExpression       Kind = "ArrayExpression"
	KindProperty              Kind = "Property"
	KindSpreadElement         Kind = "SpreadElement"

	// Functions and classes
	KindFunctionDeclaration Kind = "FunctionDeclaration"
	KindFunctionExpression  Kind = "FunctionExpression"
	KindArrowFunction       Kind = "ArrowFunctionExpression"
	KindClassDeclaration    Kind = "ClassDeclaration"
	KindClassExpression     Kind = "ClassExpression"
	KindClassBody           Kind = "ClassBody"
	KindMethodDefinition    Kind = "MethodDefinition"
	KindPropertyDefinition  Kind = "PropertyDefinition"

	// Statements
	KindBlockStatement      Kind = "BlockStatement"
	KindExpressionStatement Kind = "ExpressionStatement"
	KindReturnStatement     Kind = "ReturnStatement"
	KindVariableDeclaration Kind = "VariableDeclaration"
	KindVariableDeclarator  Kind = "VariableDeclarator"
	KindIfStatement         Kind = "IfStatement"
	KindForStatement        Kind = "ForStatement"
	KindForInStatement      Kind = "ForInStatement"
	KindWhileStatement      Kind = "WhileStatement"
	KindDoWhileStatement    Kind = "DoWhileStatement"
	KindSwitchStatement     Kind = "SwitchStatement"
	KindSwitchCase          Kind = "SwitchCase"
	KindTryStatement        Kind = "TryStatement"
	KindCatchClause         Kind = "CatchClause"
	KindThrowStatement      Kind = "ThrowStatement"
	KindLabeledStatement    Kind = "LabeledStatement"
	KindImportDeclaration   Kind = "ImportDeclaration"
	KindExportDeclaration   Kind = "ExportDeclaration"

	// Patterns
	KindObjectPattern     Kind = "ObjectPattern"
	KindArrayPattern      Kind = "ArrayPattern"
	KindRestElement       Kind = "RestElement"
	KindAssignmentPattern Kind = "AssignmentPattern"

	// KindUnknown marks grammar constructs the converter does not model
	// structurally. Their sub-expressions are still reachable via Children.
	KindUnknown Kind = "Unknown"
)

// Position is a location in the source text. Line is 1-based, Column is a
// 0-based byte offset within the line.
type Position struct {
	Line   int
	Column int
}

// Node is a single node of the syntax tree.
//
// Description:
//
//	Node is a closed sum over the Kind constants: exactly one Kind applies,
//	and only the fields documented for that Kind are populated. Start/End
//	are byte offsets into the original source, suitable for slicing the
//	source text or splicing replacements.
//
// Field usage by Kind:
//
//	Identifier, PrivateIdentifier    Name
//	StringLiteral                    Value (decoded, without quotes)
//	NumberLiteral, RegExpLiteral     Value (raw text)
//	BinaryExpression                 Operator, Left, Right
//	AssignmentExpression             Operator ("=", "+=", ...), Left, Right
//	UnaryExpression, UpdateExpression Operator, Argument
//	MemberExpression                 Object, Property, Computed, Optional
//	CallExpression, NewExpression    Callee, Arguments, Optional
//	Function*, ArrowFunction         Name, Params, Body, Async, Generator
//	ObjectExpression                 Properties
//	Property                         Key, Val, Computed, Method, Shorthand, Accessor
//	SpreadElement                    Argument
//	ArrayExpression                  Elements
//	Class*, ClassBody                Name, Body / Children
//	MethodDefinition                 Key, Val, Static, Computed, Accessor
//	PropertyDefinition               Key, Val, Static, Computed
//	ReturnStatement, Await, Yield    Argument
//	remaining statement kinds        Children
//
// Thread Safety: Nodes are immutable after parsing; safe for concurrent reads.
type Node struct {
	Kind     Kind
	Start    int
	End      int
	StartPos Position
	EndPos   Position

	Name     string
	Value    string
	Operator string

	Left     *Node
	Right    *Node
	Object   *Node
	Property *Node
	Callee   *Node
	Key      *Node
	Val      *Node
	Argument *Node
	Body     *Node

	Arguments  []*Node
	Params     []*Node
	Elements   []*Node
	Properties []*Node
	Children   []*Node

	Computed  bool
	Optional  bool
	Static    bool
	Method    bool
	Shorthand bool
	Async     bool
	Generator bool
	Accessor  string
}

// Text returns the verbatim source text covered by n.
func (n *Node) Text(content []byte) string {
	if n == nil || n.Start < 0 || n.End > len(content) || n.Start > n.End {
		return ""
	}
	return string(content[n.Start:n.End])
}

// IsFunction reports whether n is any function-valued expression or
// declaration form.
func (n *Node) IsFunction() bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindFunctionExpression, KindFunctionDeclaration, KindArrowFunction:
		return true
	}
	return false
}

// IsStringLiteral reports whether n is a string literal.
func (n *Node) IsStringLiteral() bool {
	return n != nil && n.Kind == KindStringLiteral
}

// IsIdentifierNamed reports whether n is an identifier with the given name.
func (n *Node) IsIdentifierNamed(name string) bool {
	return n != nil && n.Kind == KindIdentifier && n.Name == name
}

// IsThis reports whether n is a `this` expression.
func (n *Node) IsThis() bool {
	return n != nil && n.Kind == KindThisExpression
}

// KeyName returns the property name of a Property, MethodDefinition, or
// PropertyDefinition key when it can be determined statically: an
// identifier key yields its name, a string literal key yields its value.
// Computed keys and all other forms yield ("", false).
func (n *Node) KeyName() (string, bool) {
	if n == nil || n.Key == nil || n.Computed {
		return "", false
	}
	switch n.Key.Kind {
	case KindIdentifier:
		return n.Key.Name, true
	case KindStringLiteral:
		return n.Key.Value, true
	}
	return "", false
}
