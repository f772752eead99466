package nep

// TokenKind identifies the lexical category of a token.
type TokenKind string

const (
	TokenIdentifier  TokenKind = "Identifier"
	TokenNumber      TokenKind = "Number"
	TokenString      TokenKind = "String"
	TokenOperator    TokenKind = "Operator"
	TokenSemicolon   TokenKind = "Semicolon"
	TokenComma       TokenKind = "Comma"
	TokenLeftParen   TokenKind = "LeftParen"
	TokenRightParen  TokenKind = "RightParen"
	TokenLeftBrace   TokenKind = "LeftBrace"
	TokenRightBrace  TokenKind = "RightBrace"
	TokenLeftSquare  TokenKind = "LeftSquare"
	TokenRightSquare TokenKind = "RightSquare"
	TokenPrint       TokenKind = "Print"
	TokenIf          TokenKind = "If"
	TokenElseIf      TokenKind = "ElseIf"
	TokenElse        TokenKind = "Else"
	TokenWhile       TokenKind = "While"
	TokenBreak       TokenKind = "Break"
	TokenContinue    TokenKind = "Continue"
	TokenFunction    TokenKind = "Function"
	TokenReturn      TokenKind = "Return"
	TokenBoolean     TokenKind = "Boolean"
	TokenKeyword     TokenKind = "Keyword"
	TokenNull        TokenKind = "Null"
	TokenEOF         TokenKind = "EOF"
)

// Source spellings of the keywords.
const (
	kwDeclare         = "rakh"
	kwPrint           = "nikaal"
	kwIf              = "yedi"
	kwElseIf          = "navaye"
	kwElse            = "haina bhane"
	kwWhile           = "jaba samma"
	kwContinue        = "jaari rakh"
	kwBreak           = "bhayo"
	kwFunction        = "kaam"
	kwReturningFunc   = "kaam ra firta"
	kwReturn          = "firta"
	kwTrue            = "sahi"
	kwFalse           = "galat"
	kwNull            = "null"
	incrementOperator = "++"
)

// Token captures lexical information for the parser.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Position
}

// Position identifies a location in the source text.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (t Token) is(kind TokenKind, text string) bool {
	return t.Kind == kind && t.Text == text
}

func (t Token) isOperator(text string) bool {
	return t.is(TokenOperator, text)
}

// Keywords returns every keyword of the language in its source spelling.
func Keywords() []string {
	return []string{
		kwDeclare,
		kwPrint,
		kwIf,
		kwElseIf,
		kwElse,
		kwWhile,
		kwContinue,
		kwBreak,
		kwFunction,
		kwReturningFunc,
		kwReturn,
		kwTrue,
		kwFalse,
		kwNull,
	}
}
