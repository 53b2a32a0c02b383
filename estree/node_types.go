package estree

// Tree-sitter grammar node type names for JavaScript.
// These match the tree-sitter-javascript grammar's S-expression names.

// Top-level structure
const (
	jsNodeProgram = "program"
)

// Literals
const (
	jsNodeString         = "string"
	jsNodeStringFragment = "string_fragment"
	jsNodeEscapeSequence = "escape_sequence"
	jsNodeTemplateString = "template_string"
	jsNodeNumber         = "number"
	jsNodeTrue           = "true"
	jsNodeFalse          = "false"
	jsNodeNull           = "null"
	jsNodeUndefined      = "undefined"
	jsNodeRegex          = "regex"
)

// Declarations
const (
	jsNodeFunctionDeclaration   = "function_declaration"
	jsNodeGeneratorFunction     = "generator_function"
	jsNodeGeneratorFunctionDecl = "generator_function_declaration"
	jsNodeClassDeclaration      = "class_declaration"
	jsNodeClass                 = "class"
	jsNodeLexicalDeclaration    = "lexical_declaration"
	jsNodeVariableDeclaration   = "variable_declaration"
	jsNodeVariableDeclarator    = "variable_declarator"
)

// Class members
const (
	jsNodeClassBody            = "class_body"
	jsNodeClassHeritage        = "class_heritage"
	jsNodeMethodDefinition     = "method_definition"
	jsNodeFieldDefinition      = "field_definition"
	jsNodePrivatePropertyIdent = "private_property_identifier"
	jsNodePropertyIdentifier   = "property_identifier"
	jsNodeStaticBlock          = "static_block"
)

// Functions
const (
	jsNodeFunctionExpression = "function_expression"
	jsNodeFormalParameters   = "formal_parameters"
	jsNodeArrowFunction      = "arrow_function"
	jsNodeRestPattern        = "rest_pattern"
)

// Identifiers
const (
	jsNodeIdentifier          = "identifier"
	jsNodeShorthandProperty   = "shorthand_property_identifier"
	jsNodeThis                = "this"
	jsNodeSuper               = "super"
	jsNodeComputedPropName    = "computed_property_name"
	jsNodeStatementIdentifier = "statement_identifier"
)

// Expressions
const (
	jsNodeCallExpression          = "call_expression"
	jsNodeNewExpression           = "new_expression"
	jsNodeMemberExpression        = "member_expression"
	jsNodeSubscriptExpression     = "subscript_expression"
	jsNodeArguments               = "arguments"
	jsNodeAssignmentExpression    = "assignment_expression"
	jsNodeAugmentedAssignment     = "augmented_assignment_expression"
	jsNodeBinaryExpression        = "binary_expression"
	jsNodeUnaryExpression         = "unary_expression"
	jsNodeUpdateExpression        = "update_expression"
	jsNodeTernaryExpression       = "ternary_expression"
	jsNodeSequenceExpression      = "sequence_expression"
	jsNodeParenthesized           = "parenthesized_expression"
	jsNodeObject                  = "object"
	jsNodeArray                   = "array"
	jsNodePair                    = "pair"
	jsNodeSpreadElement           = "spread_element"
	jsNodeAwaitExpression         = "await_expression"
	jsNodeYieldExpression         = "yield_expression"
	jsNodeOptionalChain           = "optional_chain"
	jsNodeTemplateSubstitution    = "template_substitution"
	jsNodeShorthandPropertyPatt   = "shorthand_property_identifier_pattern"
	jsNodeObjectPattern           = "object_pattern"
	jsNodeArrayPattern            = "array_pattern"
	jsNodeAssignmentPattern       = "assignment_pattern"
	jsNodePairPattern             = "pair_pattern"
	jsNodeExpressionStatementNode = "expression_statement"
)

// Statements
const (
	jsNodeStatementBlock  = "statement_block"
	jsNodeReturnStatement = "return_statement"
	jsNodeIfStatement     = "if_statement"
	jsNodeForStatement    = "for_statement"
	jsNodeForInStatement  = "for_in_statement"
	jsNodeWhileStatement  = "while_statement"
	jsNodeDoStatement     = "do_statement"
	jsNodeSwitchStatement = "switch_statement"
	jsNodeSwitchBody      = "switch_body"
	jsNodeSwitchCase      = "switch_case"
	jsNodeSwitchDefault   = "switch_default"
	jsNodeTryStatement    = "try_statement"
	jsNodeCatchClause     = "catch_clause"
	jsNodeFinallyClause   = "finally_clause"
	jsNodeThrowStatement  = "throw_statement"
	jsNodeLabeledStatement = "labeled_statement"
	jsNodeBreakStatement  = "break_statement"
	jsNodeContinueStatement = "continue_statement"
	jsNodeEmptyStatement  = "empty_statement"
	jsNodeImportStatement = "import_statement"
	jsNodeExportStatement = "export_statement"
)

// Comments and errors
const (
	jsNodeComment = "comment"
	jsNodeError   = "ERROR"
)

// Keyword tokens
const (
	jsNodeAsync  = "async"
	jsNodeStatic = "static"
	jsNodeGet    = "get"
	jsNodeSet    = "set"
	jsNodeStar   = "*"
)

// Field names used with ChildByFieldName.
const (
	fieldFunction    = "function"
	fieldConstructor = "constructor"
	fieldArguments   = "arguments"
	fieldObject      = "object"
	fieldProperty    = "property"
	fieldIndex       = "index"
	fieldLeft        = "left"
	fieldRight       = "right"
	fieldOperator    = "operator"
	fieldName        = "name"
	fieldParameter   = "parameter"
	fieldParameters  = "parameters"
	fieldBody        = "body"
	fieldKey         = "key"
	fieldValue       = "value"
)
