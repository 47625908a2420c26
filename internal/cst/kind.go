package cst

// Kind classifies a syntax node. Leaves are KindToken; their token.Kind
// carries the lexical class.
type Kind uint16

const (
	KindToken Kind = iota
	KindError
	KindFile

	// declarations
	KindPackageClause
	KindImportDecl
	KindImportSpec
	KindConstDecl
	KindConstSpec
	KindVarDecl
	KindVarSpec
	KindTypeDecl
	KindTypeSpec
	KindTypeParams
	KindTypeParam
	KindFuncDecl
	KindMethodDecl
	KindReceiver
	KindSignature
	KindParams
	KindParam
	KindResult

	// lists
	KindIdentList
	KindExprList
	KindTypeList

	// statements
	KindBlock
	KindDeclStmt
	KindShortVarDecl
	KindAssignStmt
	KindIncDecStmt
	KindSendStmt
	KindExprStmt
	KindReturnStmt
	KindIfStmt
	KindForStmt
	KindForClause
	KindRangeClause
	KindSwitchStmt
	KindTypeSwitchStmt
	KindTypeSwitchGuard
	KindCaseClause
	KindSelectStmt
	KindCommClause
	KindGoStmt
	KindDeferStmt
	KindBranchStmt
	KindLabeledStmt
	KindEmptyStmt

	// expressions
	KindBinaryExpr
	KindUnaryExpr
	KindParenExpr
	KindBasicLit
	KindIdent
	KindQualifiedIdent
	KindIotaExpr
	KindFuncLit
	KindCompositeLit
	KindLiteralValue
	KindElement
	KindKeyedElement
	KindSelectorExpr
	KindIndexExpr
	KindSliceExpr
	KindTypeAssertExpr
	KindCallExpr
	KindArgList
	KindConversionExpr

	// types
	KindTypeName
	KindGenericType
	KindPointerType
	KindArrayType
	KindSliceType
	KindMapType
	KindChanType
	KindFuncType
	KindStructType
	KindFieldDecl
	KindTag
	KindInterfaceType
	KindMethodSpec
	KindTypeElem
	KindTypeTerm
	KindParenType

	kindCount

	// kindTombstone marks a start event that no longer opens a node.
	kindTombstone Kind = 0xFFFF
)

var kindNames = [...]string{
	KindToken:           "TOKEN",
	KindError:           "ERROR",
	KindFile:            "FILE",
	KindPackageClause:   "PACKAGE_CLAUSE",
	KindImportDecl:      "IMPORT_DECL",
	KindImportSpec:      "IMPORT_SPEC",
	KindConstDecl:       "CONST_DECL",
	KindConstSpec:       "CONST_SPEC",
	KindVarDecl:         "VAR_DECL",
	KindVarSpec:         "VAR_SPEC",
	KindTypeDecl:        "TYPE_DECL",
	KindTypeSpec:        "TYPE_SPEC",
	KindTypeParams:      "TYPE_PARAMS",
	KindTypeParam:       "TYPE_PARAM",
	KindFuncDecl:        "FUNC_DECL",
	KindMethodDecl:      "METHOD_DECL",
	KindReceiver:        "RECEIVER",
	KindSignature:       "SIGNATURE",
	KindParams:          "PARAMS",
	KindParam:           "PARAM",
	KindResult:          "RESULT",
	KindIdentList:       "IDENT_LIST",
	KindExprList:        "EXPR_LIST",
	KindTypeList:        "TYPE_LIST",
	KindBlock:           "BLOCK",
	KindDeclStmt:        "DECL_STMT",
	KindShortVarDecl:    "SHORT_VAR_DECL",
	KindAssignStmt:      "ASSIGN_STMT",
	KindIncDecStmt:      "INC_DEC_STMT",
	KindSendStmt:        "SEND_STMT",
	KindExprStmt:        "EXPR_STMT",
	KindReturnStmt:      "RETURN_STMT",
	KindIfStmt:          "IF_STMT",
	KindForStmt:         "FOR_STMT",
	KindForClause:       "FOR_CLAUSE",
	KindRangeClause:     "RANGE_CLAUSE",
	KindSwitchStmt:      "SWITCH_STMT",
	KindTypeSwitchStmt:  "TYPE_SWITCH_STMT",
	KindTypeSwitchGuard: "TYPE_SWITCH_GUARD",
	KindCaseClause:      "CASE_CLAUSE",
	KindSelectStmt:      "SELECT_STMT",
	KindCommClause:      "COMM_CLAUSE",
	KindGoStmt:          "GO_STMT",
	KindDeferStmt:       "DEFER_STMT",
	KindBranchStmt:      "BRANCH_STMT",
	KindLabeledStmt:     "LABELED_STMT",
	KindEmptyStmt:       "EMPTY_STMT",
	KindBinaryExpr:      "BINARY_EXPR",
	KindUnaryExpr:       "UNARY_EXPR",
	KindParenExpr:       "PAREN_EXPR",
	KindBasicLit:        "BASIC_LIT",
	KindIdent:           "IDENT",
	KindQualifiedIdent:  "QUALIFIED_IDENT",
	KindIotaExpr:        "IOTA_EXPR",
	KindFuncLit:         "FUNC_LIT",
	KindCompositeLit:    "COMPOSITE_LIT",
	KindLiteralValue:    "LITERAL_VALUE",
	KindElement:         "ELEMENT",
	KindKeyedElement:    "KEYED_ELEMENT",
	KindSelectorExpr:    "SELECTOR_EXPR",
	KindIndexExpr:       "INDEX_EXPR",
	KindSliceExpr:       "SLICE_EXPR",
	KindTypeAssertExpr:  "TYPE_ASSERT_EXPR",
	KindCallExpr:        "CALL_EXPR",
	KindArgList:         "ARG_LIST",
	KindConversionExpr:  "CONVERSION_EXPR",
	KindTypeName:        "TYPE_NAME",
	KindGenericType:     "GENERIC_TYPE",
	KindPointerType:     "POINTER_TYPE",
	KindArrayType:       "ARRAY_TYPE",
	KindSliceType:       "SLICE_TYPE",
	KindMapType:         "MAP_TYPE",
	KindChanType:        "CHAN_TYPE",
	KindFuncType:        "FUNC_TYPE",
	KindStructType:      "STRUCT_TYPE",
	KindFieldDecl:       "FIELD_DECL",
	KindTag:             "TAG",
	KindInterfaceType:   "INTERFACE_TYPE",
	KindMethodSpec:      "METHOD_SPEC",
	KindTypeElem:        "TYPE_ELEM",
	KindTypeTerm:        "TYPE_TERM",
	KindParenType:       "PAREN_TYPE",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "INVALID_KIND"
}

// IsType reports whether k is one of the type-expression kinds.
func (k Kind) IsType() bool {
	return k >= KindTypeName && k <= KindParenType
}

// IsStmt reports whether k is a statement kind.
func (k Kind) IsStmt() bool {
	return k >= KindBlock && k <= KindEmptyStmt
}

// IsExpr reports whether k is an expression kind.
func (k Kind) IsExpr() bool {
	return k >= KindBinaryExpr && k <= KindConversionExpr
}
