package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005
	LexIdentNotNFC              Code = 1006
	LexUnterminatedRune         Code = 1007
	LexBadRune                  Code = 1008
	LexInvalidUTF8              Code = 1009

	// Парсерные
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynUnclosedParen    Code = 2006
	SynUnclosedBrace    Code = 2007
	SynUnclosedBracket  Code = 2008
	SynExpectSemicolon  Code = 2012
	SynForBadHeader     Code = 2014
	SynExpectBlock      Code = 2015
	SynExpectCaseClause Code = 2016
	SynExpectStatement  Code = 2017
	SynMissingPackage   Code = 2018
	SynImportAfterDecl  Code = 2019
	SynNestingTooDeep   Code = 2040
	SynTooManyErrors    Code = 2041

	// top-level & import errors
	SynUnexpectedTopLevel Code = 2101
	SynExpectIdentifier   Code = 2102
	SynExpectImportPath   Code = 2103
	SynEmptyImportGroup   Code = 2106

	// type / expression errors
	SynInfoTypeExpr       Code = 2200
	SynExpectRightBracket Code = 2201
	SynExpectType         Code = 2202
	SynExpectExpression   Code = 2203
	SynExpectColon        Code = 2204
	SynExpectSelector     Code = 2205
	SynVariadicMustBeLast Code = 2207

	// I/O
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Invalid number literal",
		LexTokenTooLong:             "Token too long",
		LexIdentNotNFC:              "Identifier is not in Unicode normal form C",
		LexUnterminatedRune:         "Unterminated rune literal",
		LexBadRune:                  "Invalid rune literal",
		LexInvalidUTF8:              "Invalid UTF-8 encoding",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBrace:            "Unclosed brace",
		SynUnclosedBracket:          "Unclosed bracket",
		SynExpectSemicolon:          "Expected ';' or newline",
		SynForBadHeader:             "Malformed for clause",
		SynExpectBlock:              "Expected block",
		SynExpectCaseClause:         "Expected case or default clause",
		SynExpectStatement:          "Expected statement",
		SynMissingPackage:           "Missing package clause",
		SynImportAfterDecl:          "Import after declaration",
		SynNestingTooDeep:           "Nesting too deep",
		SynTooManyErrors:            "Too many syntax errors",
		SynUnexpectedTopLevel:       "Unexpected top-level token",
		SynExpectIdentifier:         "Expected identifier",
		SynExpectImportPath:         "Expected import path",
		SynEmptyImportGroup:         "Empty import group",
		SynInfoTypeExpr:             "Type expression information",
		SynExpectRightBracket:       "Expected ']'",
		SynExpectType:               "Expected type",
		SynExpectExpression:         "Expected expression",
		SynExpectColon:              "Expected ':'",
		SynExpectSelector:           "Expected selector or type assertion",
		SynVariadicMustBeLast:       "Variadic parameter must be last",
		IOInfo:                      "I/O information",
		IOLoadFileError:             "I/O load file error",
		IOCacheError:                "Parse cache error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
