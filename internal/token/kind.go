package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input. It has an empty span.
	EOF

	// Whitespace is a run of spaces, tabs, carriage returns and newlines
	// that do not terminate a statement.
	Whitespace
	// LineComment is a `// ...` comment without its trailing newline.
	LineComment
	// BlockComment is a `/* ... */` comment.
	BlockComment

	// Newline is a newline acting as a statement terminator.
	Newline
	// Semicolon is an explicit `;`.
	Semicolon

	// Ident represents an identifier token.
	Ident

	IntLit       // 42, 0x2A, 0o52, 0b101010
	FloatLit     // 1.5, 1e9, 0x1p-2
	ImagLit      // 2i
	RuneLit      // 'a'
	StringLit    // "abc"
	RawStringLit // `abc`

	KwBreak       // break
	KwCase        // case
	KwChan        // chan
	KwConst       // const
	KwContinue    // continue
	KwDefault     // default
	KwDefer       // defer
	KwElse        // else
	KwFallthrough // fallthrough
	KwFor         // for
	KwFunc        // func
	KwGo          // go
	KwGoto        // goto
	KwIf          // if
	KwImport      // import
	KwInterface   // interface
	KwMap         // map
	KwPackage     // package
	KwRange       // range
	KwReturn      // return
	KwSelect      // select
	KwStruct      // struct
	KwSwitch      // switch
	KwType        // type
	KwVar         // var

	Plus    // +
	Minus   // -
	Star    // *
	Slash   // /
	Percent // %
	Amp     // &
	Pipe    // |
	Caret   // ^
	Shl     // <<
	Shr     // >>
	AmpNot  // &^

	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	AmpAssign     // &=
	PipeAssign    // |=
	CaretAssign   // ^=
	ShlAssign     // <<=
	ShrAssign     // >>=
	AmpNotAssign  // &^=

	AndAnd      // &&
	OrOr        // ||
	Arrow       // <-
	Inc         // ++
	Dec         // --
	EqEq        // ==
	Lt          // <
	Gt          // >
	Assign      // =
	Bang        // !
	Tilde       // ~
	BangEq      // !=
	LtEq        // <=
	GtEq        // >=
	ColonAssign // :=
	Ellipsis    // ...

	LParen   // (
	LBracket // [
	LBrace   // {
	Comma    // ,
	Dot      // .
	RParen   // )
	RBracket // ]
	RBrace   // }
	Colon    // :

	kindCount
)

var kindNames = [...]string{
	Invalid:       "Invalid",
	EOF:           "EOF",
	Whitespace:    "Whitespace",
	LineComment:   "LineComment",
	BlockComment:  "BlockComment",
	Newline:       "Newline",
	Semicolon:     ";",
	Ident:         "Ident",
	IntLit:        "IntLit",
	FloatLit:      "FloatLit",
	ImagLit:       "ImagLit",
	RuneLit:       "RuneLit",
	StringLit:     "StringLit",
	RawStringLit:  "RawStringLit",
	KwBreak:       "break",
	KwCase:        "case",
	KwChan:        "chan",
	KwConst:       "const",
	KwContinue:    "continue",
	KwDefault:     "default",
	KwDefer:       "defer",
	KwElse:        "else",
	KwFallthrough: "fallthrough",
	KwFor:         "for",
	KwFunc:        "func",
	KwGo:          "go",
	KwGoto:        "goto",
	KwIf:          "if",
	KwImport:      "import",
	KwInterface:   "interface",
	KwMap:         "map",
	KwPackage:     "package",
	KwRange:       "range",
	KwReturn:      "return",
	KwSelect:      "select",
	KwStruct:      "struct",
	KwSwitch:      "switch",
	KwType:        "type",
	KwVar:         "var",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Percent:       "%",
	Amp:           "&",
	Pipe:          "|",
	Caret:         "^",
	Shl:           "<<",
	Shr:           ">>",
	AmpNot:        "&^",
	PlusAssign:    "+=",
	MinusAssign:   "-=",
	StarAssign:    "*=",
	SlashAssign:   "/=",
	PercentAssign: "%=",
	AmpAssign:     "&=",
	PipeAssign:    "|=",
	CaretAssign:   "^=",
	ShlAssign:     "<<=",
	ShrAssign:     ">>=",
	AmpNotAssign:  "&^=",
	AndAnd:        "&&",
	OrOr:          "||",
	Arrow:         "<-",
	Inc:           "++",
	Dec:           "--",
	EqEq:          "==",
	Lt:            "<",
	Gt:            ">",
	Assign:        "=",
	Bang:          "!",
	Tilde:         "~",
	BangEq:        "!=",
	LtEq:          "<=",
	GtEq:          ">=",
	ColonAssign:   ":=",
	Ellipsis:      "...",
	LParen:        "(",
	LBracket:      "[",
	LBrace:        "{",
	Comma:         ",",
	Dot:           ".",
	RParen:        ")",
	RBracket:      "]",
	RBrace:        "}",
	Colon:         ":",
}

// String returns the lexeme for fixed tokens and the class name otherwise.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsTrivia reports whether tokens of this kind are invisible to the parser.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == LineComment || k == BlockComment
}

// IsTerminator reports whether k ends a statement.
func (k Kind) IsTerminator() bool {
	return k == Newline || k == Semicolon
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwBreak && k <= KwVar
}

// IsLiteral reports whether k is a basic literal.
func (k Kind) IsLiteral() bool {
	return k >= IntLit && k <= RawStringLit
}

// IsOperator reports whether k is an operator or punctuation.
func (k Kind) IsOperator() bool {
	return k >= Plus && k <= Colon
}

// IsAssignOp reports whether k is `=` or one of the compound `op=` forms.
func (k Kind) IsAssignOp() bool {
	return k == Assign || (k >= PlusAssign && k <= AmpNotAssign)
}

// EndsStatement reports whether a newline following a token of kind k is a
// statement terminator.
func (k Kind) EndsStatement() bool {
	switch k {
	case Ident, IntLit, FloatLit, ImagLit, RuneLit, StringLit, RawStringLit,
		KwBreak, KwContinue, KwFallthrough, KwReturn,
		Inc, Dec, RParen, RBracket, RBrace:
		return true
	default:
		return false
	}
}
