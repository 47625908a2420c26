package token

var keywords = map[string]Kind{
	"break":       KwBreak,
	"case":        KwCase,
	"chan":        KwChan,
	"const":       KwConst,
	"continue":    KwContinue,
	"default":     KwDefault,
	"defer":       KwDefer,
	"else":        KwElse,
	"fallthrough": KwFallthrough,
	"for":         KwFor,
	"func":        KwFunc,
	"go":          KwGo,
	"goto":        KwGoto,
	"if":          KwIf,
	"import":      KwImport,
	"interface":   KwInterface,
	"map":         KwMap,
	"package":     KwPackage,
	"range":       KwRange,
	"return":      KwReturn,
	"select":      KwSelect,
	"struct":      KwStruct,
	"switch":      KwSwitch,
	"type":        KwType,
	"var":         KwVar,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

var predeclaredTypes = map[string]struct{}{
	"any": {}, "bool": {}, "byte": {}, "comparable": {},
	"complex64": {}, "complex128": {}, "error": {},
	"float32": {}, "float64": {},
	"int": {}, "int8": {}, "int16": {}, "int32": {}, "int64": {},
	"rune": {}, "string": {},
	"uint": {}, "uint8": {}, "uint16": {}, "uint32": {}, "uint64": {}, "uintptr": {},
}

// IsPredeclaredType reports whether name is one of the universe-scope type names.
// The lexer still emits these as Ident.
func IsPredeclaredType(name string) bool {
	_, ok := predeclaredTypes[name]
	return ok
}
