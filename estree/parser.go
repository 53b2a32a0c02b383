package estree

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("embercheck/estree")

// ParseResult holds the outcome of parsing one JavaScript source file.
type ParseResult struct {
	// FilePath is the path the content was parsed as.
	FilePath string

	// Language is always "javascript".
	Language string

	// Hash is the hex-encoded SHA-256 of the content.
	Hash string

	// ParsedAtMilli is the wall-clock parse time in Unix milliseconds.
	ParsedAtMilli int64

	// Root is the Program node. Never nil on success.
	Root *Node

	// HasSyntaxErrors reports whether tree-sitter found syntax errors.
	// The tree is still produced on a best-effort basis.
	HasSyntaxErrors bool
}

// Parser turns JavaScript source into a typed syntax tree.
//
// Description:
//
//	Parser uses tree-sitter to parse JavaScript source files and converts
//	the concrete syntax tree into the Node representation defined in this
//	package. All modern syntax is accepted; constructs without a dedicated
//	Kind are preserved as Unknown nodes so traversal never loses
//	sub-expressions.
//
// Thread Safety:
//
//	Parser is safe for concurrent use. Multiple goroutines can call Parse
//	simultaneously. Each Parse call creates its own tree-sitter parser
//	instance.
//
// Example:
//
//	parser := NewParser()
//	result, err := parser.Parse(ctx, content, "app/components/list.js")
//	if err != nil {
//	    return fmt.Errorf("parse: %w", err)
//	}
//	estree.VisitEnter(result.Root, func(n, parent *estree.Node) {
//	    ...
//	})
type Parser struct {
	options ParserOptions
}

// ParserOptions configures Parser behavior.
type ParserOptions struct {
	// MaxFileSize is the maximum file size in bytes to parse.
	// Files larger than this return ErrFileTooLarge.
	// Default: 10MB
	MaxFileSize int

	// MaxDepth bounds tree conversion depth. Deeper subtrees are replaced
	// with Unknown leaves.
	// Default: 512
	MaxDepth int
}

// DefaultParserOptions returns the default options.
func DefaultParserOptions() ParserOptions {
	return ParserOptions{
		MaxFileSize: 10 * 1024 * 1024, // 10MB
		MaxDepth:    512,
	}
}

// ParserOption is a functional option for configuring Parser.
type ParserOption func(*ParserOptions)

// WithMaxFileSize sets the maximum file size for parsing.
func WithMaxFileSize(size int) ParserOption {
	return func(o *ParserOptions) {
		o.MaxFileSize = size
	}
}

// WithMaxDepth sets the maximum conversion depth.
func WithMaxDepth(depth int) ParserOption {
	return func(o *ParserOptions) {
		o.MaxDepth = depth
	}
}

// NewParser creates a new Parser with the given options.
func NewParser(opts ...ParserOption) *Parser {
	options := DefaultParserOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Parser{options: options}
}

// Language returns the language name for this parser.
func (p *Parser) Language() string {
	return "javascript"
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".js", ".mjs", ".cjs"}
}

// Parse converts JavaScript source into a syntax tree.
//
// Description:
//
//	Parses the provided JavaScript content using tree-sitter and converts
//	the resulting concrete syntax tree into Node form. Comments and
//	punctuation are dropped; every expression and statement is retained.
//
// Inputs:
//
//	ctx      - Context for cancellation. Checked before and during conversion.
//	content  - Raw JavaScript source bytes. Must be valid UTF-8.
//	filePath - Path of the file, recorded in the result.
//
// Outputs:
//
//	*ParseResult - The converted tree and metadata. Never nil on success.
//	error        - Non-nil only for complete failures (invalid UTF-8, too
//	               large, canceled). Syntax errors do not fail the parse;
//	               they set HasSyntaxErrors.
//
// Thread Safety:
//
//	This method is safe for concurrent use.
func (p *Parser) Parse(ctx context.Context, content []byte, filePath string) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("javascript parse canceled before start: %w", err)
	}

	if len(content) > p.options.MaxFileSize {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), p.options.MaxFileSize)
	}

	if !utf8.Valid(content) {
		return nil, ErrInvalidContent
	}

	ctx, span := tracer.Start(ctx, "Parser.Parse")
	defer span.End()

	hash := sha256.Sum256(content)
	hashStr := hex.EncodeToString(hash[:])

	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("javascript parse canceled after tree-sitter: %w", err)
	}

	rootNode := tree.RootNode()

	conv := &converter{
		ctx:      ctx,
		content:  content,
		filePath: filePath,
		maxDepth: p.options.MaxDepth,
	}
	root := conv.convert(rootNode, 0)
	if conv.err != nil {
		return nil, fmt.Errorf("javascript conversion canceled: %w", conv.err)
	}
	if root == nil {
		root = &Node{Kind: KindProgram}
	}

	span.SetAttributes(
		attribute.String("file", filePath),
		attribute.Int("bytes", len(content)),
		attribute.Int("nodes", conv.nodeCount),
		attribute.Bool("syntax_errors", rootNode.HasError()),
	)

	return &ParseResult{
		FilePath:        filePath,
		Language:        "javascript",
		Hash:            hashStr,
		ParsedAtMilli:   time.Now().UnixMilli(),
		Root:            root,
		HasSyntaxErrors: rootNode.HasError(),
	}, nil
}

// converter holds state for a single CST-to-tree conversion.
type converter struct {
	ctx       context.Context
	content   []byte
	filePath  string
	maxDepth  int
	nodeCount int
	truncated bool
	err       error
}

// convert translates one tree-sitter node (and its subtree) to Node form.
// Returns nil for nodes with no tree representation (comments, punctuation).
func (c *converter) convert(node *sitter.Node, depth int) *Node {
	if node == nil || c.err != nil {
		return nil
	}

	c.nodeCount++
	if c.nodeCount%256 == 0 {
		if err := c.ctx.Err(); err != nil {
			c.err = err
			return nil
		}
	}

	if depth > c.maxDepth {
		if !c.truncated {
			c.truncated = true
			slog.Debug("max conversion depth reached, truncating subtree",
				slog.String("file", c.filePath),
				slog.Int("depth", depth),
			)
		}
		return c.leaf(node, KindUnknown)
	}

	switch node.Type() {
	case jsNodeComment:
		return nil

	case jsNodeProgram:
		return c.container(node, KindProgram, depth)

	case jsNodeIdentifier, jsNodePropertyIdentifier, jsNodeShorthandProperty,
		jsNodeShorthandPropertyPatt, jsNodeStatementIdentifier:
		n := c.leaf(node, KindIdentifier)
		n.Name = c.text(node)
		return n

	case jsNodePrivatePropertyIdent:
		n := c.leaf(node, KindPrivateIdentifier)
		n.Name = c.text(node)
		return n

	case jsNodeThis:
		return c.leaf(node, KindThisExpression)

	case jsNodeSuper:
		return c.leaf(node, KindSuper)

	case jsNodeString:
		n := c.leaf(node, KindStringLiteral)
		n.Value = c.decodeString(node)
		return n

	case jsNodeTemplateString:
		return c.convertTemplate(node, depth)

	case jsNodeNumber:
		n := c.leaf(node, KindNumberLiteral)
		n.Value = c.text(node)
		return n

	case jsNodeTrue, jsNodeFalse:
		n := c.leaf(node, KindBooleanLiteral)
		n.Value = node.Type()
		return n

	case jsNodeNull:
		return c.leaf(node, KindNullLiteral)

	case jsNodeUndefined:
		n := c.leaf(node, KindIdentifier)
		n.Name = "undefined"
		return n

	case jsNodeRegex:
		n := c.leaf(node, KindRegExpLiteral)
		n.Value = c.text(node)
		return n

	case jsNodeMemberExpression:
		n := c.leaf(node, KindMemberExpression)
		n.Object = c.convert(node.ChildByFieldName(fieldObject), depth+1)
		n.Property = c.convert(node.ChildByFieldName(fieldProperty), depth+1)
		n.Optional = hasOptionalChain(node)
		return n

	case jsNodeSubscriptExpression:
		n := c.leaf(node, KindMemberExpression)
		n.Computed = true
		n.Object = c.convert(node.ChildByFieldName(fieldObject), depth+1)
		n.Property = c.convert(node.ChildByFieldName(fieldIndex), depth+1)
		n.Optional = hasOptionalChain(node)
		return n

	case jsNodeCallExpression:
		n := c.leaf(node, KindCallExpression)
		n.Callee = c.convert(node.ChildByFieldName(fieldFunction), depth+1)
		n.Arguments = c.convertArguments(node.ChildByFieldName(fieldArguments), depth)
		n.Optional = hasOptionalChain(node)
		return n

	case jsNodeNewExpression:
		n := c.leaf(node, KindNewExpression)
		n.Callee = c.convert(node.ChildByFieldName(fieldConstructor), depth+1)
		n.Arguments = c.convertArguments(node.ChildByFieldName(fieldArguments), depth)
		return n

	case jsNodeAssignmentExpression:
		n := c.leaf(node, KindAssignmentExpression)
		n.Operator = "="
		n.Left = c.convert(node.ChildByFieldName(fieldLeft), depth+1)
		n.Right = c.convert(node.ChildByFieldName(fieldRight), depth+1)
		return n

	case jsNodeAugmentedAssignment:
		n := c.leaf(node, KindAssignmentExpression)
		n.Operator = c.fieldText(node, fieldOperator)
		n.Left = c.convert(node.ChildByFieldName(fieldLeft), depth+1)
		n.Right = c.convert(node.ChildByFieldName(fieldRight), depth+1)
		return n

	case jsNodeBinaryExpression:
		n := c.leaf(node, KindBinaryExpression)
		n.Operator = c.fieldText(node, fieldOperator)
		n.Left = c.convert(node.ChildByFieldName(fieldLeft), depth+1)
		n.Right = c.convert(node.ChildByFieldName(fieldRight), depth+1)
		return n

	case jsNodeUnaryExpression:
		n := c.leaf(node, KindUnaryExpression)
		n.Operator = c.fieldText(node, fieldOperator)
		n.Argument = c.convert(node.ChildByFieldName("argument"), depth+1)
		return n

	case jsNodeUpdateExpression:
		n := c.leaf(node, KindUpdateExpression)
		n.Operator = c.fieldText(node, fieldOperator)
		n.Argument = c.convert(node.ChildByFieldName("argument"), depth+1)
		return n

	case jsNodeTernaryExpression:
		return c.container(node, KindConditionalExpression, depth)

	case jsNodeSequenceExpression:
		return c.container(node, KindSequenceExpression, depth)

	case jsNodeParenthesized:
		// Parentheses are not part of the tree; the inner expression keeps
		// its own source range.
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if inner := c.convert(node.NamedChild(i), depth); inner != nil {
				return inner
			}
		}
		return nil

	case jsNodeArrowFunction:
		return c.convertArrowFunction(node, depth)

	case jsNodeFunctionExpression, "function":
		return c.convertFunction(node, KindFunctionExpression, depth)

	case jsNodeFunctionDeclaration:
		return c.convertFunction(node, KindFunctionDeclaration, depth)

	case jsNodeGeneratorFunction:
		n := c.convertFunction(node, KindFunctionExpression, depth)
		n.Generator = true
		return n

	case jsNodeGeneratorFunctionDecl:
		n := c.convertFunction(node, KindFunctionDeclaration, depth)
		n.Generator = true
		return n

	case jsNodeObject:
		return c.convertObject(node, depth)

	case jsNodeArray:
		n := c.leaf(node, KindArrayExpression)
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if el := c.convert(node.NamedChild(i), depth+1); el != nil {
				n.Elements = append(n.Elements, el)
			}
		}
		return n

	case jsNodePair, jsNodePairPattern:
		n := c.leaf(node, KindProperty)
		c.setMemberKey(n, node.ChildByFieldName(fieldKey), depth)
		n.Val = c.convert(node.ChildByFieldName(fieldValue), depth+1)
		return n

	case jsNodeSpreadElement:
		n := c.leaf(node, KindSpreadElement)
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if arg := c.convert(node.NamedChild(i), depth+1); arg != nil {
				n.Argument = arg
				break
			}
		}
		return n

	case jsNodeClassDeclaration:
		return c.convertClass(node, KindClassDeclaration, depth)

	case jsNodeClass:
		return c.convertClass(node, KindClassExpression, depth)

	case jsNodeClassBody:
		return c.container(node, KindClassBody, depth)

	case jsNodeMethodDefinition:
		return c.convertMethodDefinition(node, KindMethodDefinition, depth)

	case jsNodeFieldDefinition:
		n := c.leaf(node, KindPropertyDefinition)
		c.setMemberKey(n, node.ChildByFieldName(fieldProperty), depth)
		n.Val = c.convert(node.ChildByFieldName(fieldValue), depth+1)
		n.Static = hasChildToken(node, jsNodeStatic)
		return n

	case jsNodeStatementBlock, jsNodeStaticBlock:
		return c.container(node, KindBlockStatement, depth)

	case jsNodeExpressionStatementNode:
		return c.container(node, KindExpressionStatement, depth)

	case jsNodeReturnStatement:
		n := c.leaf(node, KindReturnStatement)
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if arg := c.convert(node.NamedChild(i), depth+1); arg != nil {
				n.Argument = arg
				break
			}
		}
		return n

	case jsNodeAwaitExpression:
		n := c.leaf(node, KindAwaitExpression)
		n.Argument = c.firstNamed(node, depth)
		return n

	case jsNodeYieldExpression:
		n := c.leaf(node, KindYieldExpression)
		n.Argument = c.firstNamed(node, depth)
		return n

	case jsNodeLexicalDeclaration, jsNodeVariableDeclaration:
		return c.container(node, KindVariableDeclaration, depth)

	case jsNodeVariableDeclarator:
		n := c.leaf(node, KindVariableDeclarator)
		n.Left = c.convert(node.ChildByFieldName(fieldName), depth+1)
		n.Right = c.convert(node.ChildByFieldName(fieldValue), depth+1)
		return n

	case jsNodeTemplateSubstitution:
		return c.firstNamed(node, depth)

	case jsNodeObjectPattern:
		return c.container(node, KindObjectPattern, depth)

	case jsNodeArrayPattern:
		return c.container(node, KindArrayPattern, depth)

	case jsNodeRestPattern:
		n := c.leaf(node, KindRestElement)
		n.Argument = c.firstNamed(node, depth)
		return n

	case jsNodeAssignmentPattern:
		n := c.leaf(node, KindAssignmentPattern)
		n.Left = c.convert(node.ChildByFieldName(fieldLeft), depth+1)
		n.Right = c.convert(node.ChildByFieldName(fieldRight), depth+1)
		return n

	case jsNodeIfStatement:
		return c.container(node, KindIfStatement, depth)
	case jsNodeForStatement:
		return c.container(node, KindForStatement, depth)
	case jsNodeForInStatement:
		return c.container(node, KindForInStatement, depth)
	case jsNodeWhileStatement:
		return c.container(node, KindWhileStatement, depth)
	case jsNodeDoStatement:
		return c.container(node, KindDoWhileStatement, depth)
	case jsNodeSwitchStatement, jsNodeSwitchBody:
		return c.container(node, KindSwitchStatement, depth)
	case jsNodeSwitchCase, jsNodeSwitchDefault:
		return c.container(node, KindSwitchCase, depth)
	case jsNodeTryStatement, jsNodeFinallyClause:
		return c.container(node, KindTryStatement, depth)
	case jsNodeCatchClause:
		return c.container(node, KindCatchClause, depth)
	case jsNodeThrowStatement:
		return c.container(node, KindThrowStatement, depth)
	case jsNodeLabeledStatement:
		return c.container(node, KindLabeledStatement, depth)
	case jsNodeImportStatement:
		return c.container(node, KindImportDeclaration, depth)
	case jsNodeExportStatement:
		return c.container(node, KindExportDeclaration, depth)
	case jsNodeBreakStatement, jsNodeContinueStatement, jsNodeEmptyStatement:
		return c.leaf(node, KindUnknown)

	default:
		return c.container(node, KindUnknown, depth)
	}
}

// leaf creates a Node of the given kind covering the tree-sitter node's range.
func (c *converter) leaf(node *sitter.Node, kind Kind) *Node {
	return &Node{
		Kind:  kind,
		Start: int(node.StartByte()),
		End:   int(node.EndByte()),
		StartPos: Position{
			Line:   int(node.StartPoint().Row) + 1,
			Column: int(node.StartPoint().Column),
		},
		EndPos: Position{
			Line:   int(node.EndPoint().Row) + 1,
			Column: int(node.EndPoint().Column),
		},
	}
}

// container converts a node whose named children all become Children.
func (c *converter) container(node *sitter.Node, kind Kind, depth int) *Node {
	n := c.leaf(node, kind)
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := c.convert(node.NamedChild(i), depth+1); child != nil {
			n.Children = append(n.Children, child)
		}
	}
	return n
}

// firstNamed converts and returns the first named child, or nil.
func (c *converter) firstNamed(node *sitter.Node, depth int) *Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := c.convert(node.NamedChild(i), depth+1); child != nil {
			return child
		}
	}
	return nil
}

// convertArguments converts an arguments node into an argument list. A
// tagged template (fn`...`) supplies a template literal instead of an
// arguments node.
func (c *converter) convertArguments(args *sitter.Node, depth int) []*Node {
	if args == nil {
		return nil
	}
	if args.Type() == jsNodeTemplateString {
		if t := c.convert(args, depth+1); t != nil {
			return []*Node{t}
		}
		return nil
	}
	var out []*Node
	for i := 0; i < int(args.NamedChildCount()); i++ {
		if a := c.convert(args.NamedChild(i), depth+1); a != nil {
			out = append(out, a)
		}
	}
	return out
}

// convertTemplate converts a template string. Substitution expressions are
// kept as children so traversal reaches them.
func (c *converter) convertTemplate(node *sitter.Node, depth int) *Node {
	n := c.leaf(node, KindTemplateLiteral)
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != jsNodeTemplateSubstitution {
			continue
		}
		if expr := c.firstNamed(child, depth); expr != nil {
			n.Children = append(n.Children, expr)
		}
	}
	return n
}

// convertArrowFunction converts an arrow function, handling both the
// parenthesized parameter list and the bare single-parameter form.
func (c *converter) convertArrowFunction(node *sitter.Node, depth int) *Node {
	n := c.leaf(node, KindArrowFunction)
	n.Async = hasChildToken(node, jsNodeAsync)

	if single := node.ChildByFieldName(fieldParameter); single != nil {
		if p := c.convert(single, depth+1); p != nil {
			n.Params = []*Node{p}
		}
	} else if params := node.ChildByFieldName(fieldParameters); params != nil {
		n.Params = c.convertParameters(params, depth)
	}

	n.Body = c.convert(node.ChildByFieldName(fieldBody), depth+1)
	return n
}

// convertFunction converts function declarations and expressions.
func (c *converter) convertFunction(node *sitter.Node, kind Kind, depth int) *Node {
	n := c.leaf(node, kind)
	n.Async = hasChildToken(node, jsNodeAsync)

	if nameNode := node.ChildByFieldName(fieldName); nameNode != nil {
		n.Name = c.text(nameNode)
	}
	if params := node.ChildByFieldName(fieldParameters); params != nil {
		n.Params = c.convertParameters(params, depth)
	}
	n.Body = c.convert(node.ChildByFieldName(fieldBody), depth+1)
	return n
}

// convertParameters converts a formal_parameters node.
func (c *converter) convertParameters(params *sitter.Node, depth int) []*Node {
	var out []*Node
	for i := 0; i < int(params.NamedChildCount()); i++ {
		if p := c.convert(params.NamedChild(i), depth+1); p != nil {
			out = append(out, p)
		}
	}
	return out
}

// convertObject converts an object literal. Object-literal methods become
// Property nodes with Method set and a synthesized function value.
func (c *converter) convertObject(node *sitter.Node, depth int) *Node {
	n := c.leaf(node, KindObjectExpression)
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case jsNodePair:
			if p := c.convert(child, depth+1); p != nil {
				n.Properties = append(n.Properties, p)
			}
		case jsNodeShorthandProperty:
			p := c.leaf(child, KindProperty)
			p.Shorthand = true
			key := c.leaf(child, KindIdentifier)
			key.Name = c.text(child)
			p.Key = key
			n.Properties = append(n.Properties, p)
		case jsNodeMethodDefinition:
			if m := c.convertMethodDefinition(child, KindProperty, depth); m != nil {
				m.Method = true
				n.Properties = append(n.Properties, m)
			}
		case jsNodeSpreadElement:
			if s := c.convert(child, depth+1); s != nil {
				n.Properties = append(n.Properties, s)
			}
		default:
			if other := c.convert(child, depth+1); other != nil {
				n.Properties = append(n.Properties, other)
			}
		}
	}
	return n
}

// convertMethodDefinition converts a method_definition node, used both in
// class bodies (kind MethodDefinition) and object literals (kind Property).
// The function value is synthesized from the method's parameters and body.
func (c *converter) convertMethodDefinition(node *sitter.Node, kind Kind, depth int) *Node {
	n := c.leaf(node, kind)
	n.Static = hasChildToken(node, jsNodeStatic)

	nameNode := node.ChildByFieldName(fieldName)
	c.setMemberKey(n, nameNode, depth)
	n.Accessor = accessorKeyword(node, nameNode)

	fn := c.leaf(node, KindFunctionExpression)
	fn.Async = hasChildToken(node, jsNodeAsync)
	fn.Generator = hasChildToken(node, jsNodeStar)
	if params := node.ChildByFieldName(fieldParameters); params != nil {
		fn.Params = c.convertParameters(params, depth)
		fn.Start = int(params.StartByte())
		fn.StartPos = Position{
			Line:   int(params.StartPoint().Row) + 1,
			Column: int(params.StartPoint().Column),
		}
	}
	fn.Body = c.convert(node.ChildByFieldName(fieldBody), depth+1)
	n.Val = fn
	return n
}

// convertClass converts class declarations and expressions. The heritage
// expression, when present, is kept in Children.
func (c *converter) convertClass(node *sitter.Node, kind Kind, depth int) *Node {
	n := c.leaf(node, kind)
	if nameNode := node.ChildByFieldName(fieldName); nameNode != nil {
		n.Name = c.text(nameNode)
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case jsNodeClassBody:
			n.Body = c.convert(child, depth+1)
		case jsNodeClassHeritage:
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if h := c.convert(child.NamedChild(j), depth+1); h != nil {
					n.Children = append(n.Children, h)
				}
			}
		}
	}
	return n
}

// setMemberKey assigns the key of a property-like node, unwrapping computed
// keys ([expr]) and marking them.
func (c *converter) setMemberKey(n *Node, keyNode *sitter.Node, depth int) {
	if keyNode == nil {
		return
	}
	if keyNode.Type() == jsNodeComputedPropName {
		n.Computed = true
		n.Key = c.firstNamed(keyNode, depth)
		return
	}
	n.Key = c.convert(keyNode, depth+1)
}

// decodeString decodes a string literal node into its runtime value,
// concatenating fragments and resolving escape sequences.
func (c *converter) decodeString(node *sitter.Node) string {
	var b strings.Builder
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case jsNodeStringFragment:
			b.Write(c.content[child.StartByte():child.EndByte()])
		case jsNodeEscapeSequence:
			b.WriteString(decodeEscapeSequence(string(c.content[child.StartByte():child.EndByte()])))
		}
	}
	return b.String()
}

// decodeEscapeSequence resolves a single JavaScript escape sequence.
// Unrecognized sequences decode to the escaped character itself.
func decodeEscapeSequence(s string) string {
	if len(s) < 2 || s[0] != '\\' {
		return s
	}
	switch s[1] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	case 'v':
		return "\v"
	case '0':
		if len(s) == 2 {
			return "\x00"
		}
		return s[1:]
	case 'x':
		if v, err := strconv.ParseUint(s[2:], 16, 32); err == nil {
			return string(rune(v))
		}
		return s[1:]
	case 'u':
		hexDigits := s[2:]
		if strings.HasPrefix(hexDigits, "{") && strings.HasSuffix(hexDigits, "}") {
			hexDigits = hexDigits[1 : len(hexDigits)-1]
		}
		if v, err := strconv.ParseUint(hexDigits, 16, 32); err == nil {
			return string(rune(v))
		}
		return s[1:]
	default:
		return s[1:]
	}
}

// text returns the source text of a tree-sitter node.
func (c *converter) text(node *sitter.Node) string {
	return string(c.content[node.StartByte():node.EndByte()])
}

// fieldText returns the source text of a named field child, or "".
func (c *converter) fieldText(node *sitter.Node, field string) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return c.text(child)
}

// hasChildToken reports whether any direct child has the given type. Used
// for keyword tokens (async, static, *) that tree-sitter leaves unnamed.
func hasChildToken(node *sitter.Node, tokenType string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == tokenType {
			return true
		}
	}
	return false
}

// hasOptionalChain reports whether the node contains an optional chaining
// token (?.).
func hasOptionalChain(node *sitter.Node) bool {
	return hasChildToken(node, jsNodeOptionalChain)
}

// accessorKeyword returns "get" or "set" when the method carries an
// accessor keyword, distinguishing `get foo() {}` from a method that is
// merely named get. The keyword child is a token distinct from the name
// field node.
func accessorKeyword(node *sitter.Node, nameNode *sitter.Node) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		t := child.Type()
		if t != jsNodeGet && t != jsNodeSet {
			continue
		}
		if nameNode != nil && child.StartByte() == nameNode.StartByte() && child.EndByte() == nameNode.EndByte() {
			continue
		}
		return t
	}
	return ""
}
