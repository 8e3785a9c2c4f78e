package tsx

// T identifies the kind of a lexed token. Structural tokens get their own
// kind; operators share TPunct and carry their text in Token.Text so the
// parser's precedence table can key on the raw operator.
type T uint8

const (
	TEndOfFile T = iota
	TIdent
	TStringLiteral
	TNumericLiteral
	TNoSubstitutionTemplate
	TTemplateHead
	TTemplateMiddle
	TTemplateTail
	TRegExpLiteral
	TJSXText

	TOpenParen
	TCloseParen
	TOpenBrace
	TCloseBrace
	TOpenBracket
	TCloseBracket
	TComma
	TSemicolon
	TColon
	TQuestion
	TQuestionDot
	TDot
	TDotDotDot
	TArrow
	TEquals
	TLessThan
	TGreaterThan

	TPunct
)

// Token is the current lexeme. Text holds the raw source slice for
// identifiers, numbers, templates and punctuation; StringValue holds the
// decoded contents of string literals.
type Token struct {
	Kind        T
	Text        string
	StringValue string
	Line        int
	Col         int
}

func (t Token) IsIdent(name string) bool {
	return t.Kind == TIdent && t.Text == name
}
