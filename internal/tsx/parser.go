package tsx

import "fmt"

// Parser is a recursive-descent parser over Lexer. JSX, regular expressions
// and template substitutions are handled with parser-driven lexer modes;
// arrow-function and type-argument ambiguities with speculative parsing.
type Parser struct {
	l   *Lexer
	err *SyntaxError
}

// Parse parses one source file. The returned error is a *SyntaxError when
// the input is malformed.
func Parse(source string) (*File, error) {
	p := &Parser{l: NewLexer(source)}
	file := &File{}
	for p.err == nil && p.l.Token.Kind != TEndOfFile {
		stmt := p.parseStmt()
		if stmt != nil {
			file.Stmts = append(file.Stmts, stmt)
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	if lexErr := p.l.Err(); lexErr != nil {
		return nil, lexErr
	}
	return file, nil
}

func (p *Parser) fail(format string, args ...any) {
	if p.err == nil {
		p.err = &SyntaxError{
			Line: p.l.Token.Line,
			Col:  p.l.Token.Col,
			Msg:  fmt.Sprintf(format, args...),
		}
	}
}

func (p *Parser) expect(kind T, what string) {
	if p.l.Token.Kind != kind {
		p.fail("expected %s, found %q", what, p.l.Token.Text)
		return
	}
	p.l.Next()
}

func (p *Parser) expectIdentText() string {
	if p.l.Token.Kind != TIdent {
		p.fail("expected identifier, found %q", p.l.Token.Text)
		return ""
	}
	name := p.l.Token.Text
	p.l.Next()
	return name
}

func (p *Parser) eat(kind T) bool {
	if p.l.Token.Kind == kind {
		p.l.Next()
		return true
	}
	return false
}

func (p *Parser) eatPunct(text string) bool {
	if p.l.Token.Kind == TPunct && p.l.Token.Text == text {
		p.l.Next()
		return true
	}
	return false
}

// speculate runs fn against a snapshot of the lexer; when fn fails or a
// parse error occurs the snapshot is restored and speculate reports false.
func (p *Parser) speculate(fn func() bool) bool {
	snap := p.l.Snapshot()
	savedErr := p.err
	if fn() && p.err == nil {
		return true
	}
	p.l.Restore(snap)
	p.err = savedErr
	return false
}

func (p *Parser) semicolon() {
	p.eat(TSemicolon)
}

// --- statements ---

func (p *Parser) parseStmt() Stmt {
	leading := p.l.TakeComments()
	tok := p.l.Token
	switch tok.Kind {
	case TSemicolon:
		p.l.Next()
		return nil
	case TOpenBrace:
		return p.parseBlock(leading)
	case TIdent:
		switch tok.Text {
		case "import":
			return p.parseImport(leading)
		case "export":
			return p.parseExport(leading)
		case "const", "let", "var":
			return p.parseVar(leading, false)
		case "function":
			return p.parseFunctionStmt(leading, false, false)
		case "async":
			snap := p.l.Snapshot()
			p.l.Next()
			if p.l.Token.IsIdent("function") {
				return p.parseFunctionStmt(leading, false, true)
			}
			p.l.Restore(snap)
		case "type":
			if alias := p.tryParseTypeAlias(leading, false); alias != nil {
				return alias
			}
		case "interface":
			snap := p.l.Snapshot()
			p.l.Next()
			if p.l.Token.Kind == TIdent {
				return p.parseInterface(leading, false)
			}
			p.l.Restore(snap)
		case "return":
			return p.parseReturn(leading)
		case "if":
			return p.parseIf(leading)
		case "throw":
			p.l.Next()
			value := p.parseExpr()
			p.semicolon()
			return &SThrow{Leading: leading, Value: value}
		case "for":
			return p.parseFor(leading)
		case "while":
			p.l.Next()
			p.expect(TOpenParen, "(")
			test := p.parseExpr()
			p.expect(TCloseParen, ")")
			return &SWhile{Leading: leading, Test: test, Body: p.parseStmt()}
		case "break":
			p.l.Next()
			p.semicolon()
			return &SBreak{Leading: leading}
		case "continue":
			p.l.Next()
			p.semicolon()
			return &SContinue{Leading: leading}
		}
	}
	value := p.parseExpr()
	p.semicolon()
	return &SExpr{Leading: leading, Value: value}
}

func (p *Parser) parseBlock(leading []string) *SBlock {
	block := &SBlock{Leading: leading}
	p.expect(TOpenBrace, "{")
	for p.err == nil && p.l.Token.Kind != TCloseBrace && p.l.Token.Kind != TEndOfFile {
		stmt := p.parseStmt()
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
	}
	p.expect(TCloseBrace, "}")
	return block
}

func (p *Parser) parseImport(leading []string) Stmt {
	p.l.Next()
	stmt := &SImport{Leading: leading}
	if p.l.Token.Kind == TStringLiteral {
		stmt.Path = p.l.Token.StringValue
		p.l.Next()
		p.semicolon()
		return stmt
	}
	if p.l.Token.IsIdent("type") {
		snap := p.l.Snapshot()
		p.l.Next()
		if p.l.Token.IsIdent("from") {
			// "type" was a default import name after all
			p.l.Restore(snap)
		} else {
			stmt.TypeOnly = true
		}
	}
	if p.l.Token.Kind == TIdent && !p.l.Token.IsIdent("from") {
		stmt.Default = p.l.Token.Text
		p.l.Next()
		p.eat(TComma)
	}
	if p.l.Token.Kind == TPunct && p.l.Token.Text == "*" {
		p.l.Next()
		if !p.l.Token.IsIdent("as") {
			p.fail("expected 'as' after '*' in import")
			return stmt
		}
		p.l.Next()
		stmt.Namespace = p.expectIdentText()
	} else if p.l.Token.Kind == TOpenBrace {
		stmt.HasBraces = true
		stmt.Named = p.parseSpecifierList()
	}
	if !p.l.Token.IsIdent("from") {
		p.fail("expected 'from' in import declaration")
		return stmt
	}
	p.l.Next()
	if p.l.Token.Kind != TStringLiteral {
		p.fail("expected module specifier string")
		return stmt
	}
	stmt.Path = p.l.Token.StringValue
	p.l.Next()
	p.semicolon()
	return stmt
}

func (p *Parser) parseSpecifierList() []ImportSpecifier {
	var specs []ImportSpecifier
	p.expect(TOpenBrace, "{")
	for p.err == nil && p.l.Token.Kind != TCloseBrace {
		var spec ImportSpecifier
		if p.l.Token.IsIdent("type") {
			snap := p.l.Snapshot()
			p.l.Next()
			if p.l.Token.Kind == TIdent && !p.l.Token.IsIdent("as") {
				spec.IsType = true
			} else {
				p.l.Restore(snap)
			}
		}
		spec.Name = p.expectIdentText()
		if p.l.Token.IsIdent("as") {
			p.l.Next()
			spec.Alias = p.expectIdentText()
		}
		specs = append(specs, spec)
		if !p.eat(TComma) {
			break
		}
	}
	p.expect(TCloseBrace, "}")
	return specs
}

func (p *Parser) parseExport(leading []string) Stmt {
	p.l.Next()
	tok := p.l.Token
	switch {
	case tok.Kind == TPunct && tok.Text == "*":
		p.l.Next()
		star := &SExportStar{Leading: leading}
		if p.l.Token.IsIdent("as") {
			p.l.Next()
			star.Namespace = p.expectIdentText()
		}
		if !p.l.Token.IsIdent("from") {
			p.fail("expected 'from' in export * declaration")
			return star
		}
		p.l.Next()
		if p.l.Token.Kind != TStringLiteral {
			p.fail("expected module specifier string")
			return star
		}
		star.Path = p.l.Token.StringValue
		p.l.Next()
		p.semicolon()
		return star
	case tok.Kind == TOpenBrace:
		return p.parseExportClause(leading, false)
	case tok.IsIdent("type"):
		snap := p.l.Snapshot()
		p.l.Next()
		if p.l.Token.Kind == TOpenBrace {
			p.l.Restore(snap)
			p.l.Next()
			return p.parseExportClause(leading, true)
		}
		p.l.Restore(snap)
		if alias := p.tryParseTypeAlias(leading, true); alias != nil {
			return alias
		}
		p.fail("expected type alias after 'export type'")
		return nil
	case tok.IsIdent("interface"):
		p.l.Next()
		return p.parseInterface(leading, true)
	case tok.IsIdent("default"):
		p.l.Next()
		value := p.parseAssign()
		p.semicolon()
		return &SExportDefault{Leading: leading, Value: value}
	case tok.IsIdent("const") || tok.IsIdent("let") || tok.IsIdent("var"):
		return p.parseVar(leading, true)
	case tok.IsIdent("function"):
		return p.parseFunctionStmt(leading, true, false)
	case tok.IsIdent("async"):
		p.l.Next()
		if !p.l.Token.IsIdent("function") {
			p.fail("expected 'function' after 'export async'")
			return nil
		}
		return p.parseFunctionStmt(leading, true, true)
	}
	p.fail("unsupported export form starting with %q", tok.Text)
	return nil
}

func (p *Parser) parseExportClause(leading []string, typeOnly bool) Stmt {
	stmt := &SExportClause{Leading: leading, TypeOnly: typeOnly}
	stmt.Named = p.parseSpecifierList()
	if p.l.Token.IsIdent("from") {
		p.l.Next()
		if p.l.Token.Kind != TStringLiteral {
			p.fail("expected module specifier string")
			return stmt
		}
		stmt.HasPath = true
		stmt.Path = p.l.Token.StringValue
		p.l.Next()
	}
	p.semicolon()
	return stmt
}

// tryParseTypeAlias speculatively parses "type Name<...> = ..." and returns
// nil when the leading "type" turns out to be a plain identifier.
func (p *Parser) tryParseTypeAlias(leading []string, isExport bool) Stmt {
	snap := p.l.Snapshot()
	savedErr := p.err
	p.l.Next()
	if p.l.Token.Kind != TIdent {
		p.l.Restore(snap)
		return nil
	}
	alias := &STypeAlias{Leading: leading, IsExport: isExport, Name: p.l.Token.Text}
	p.l.Next()
	if p.l.Token.Kind == TLessThan {
		alias.TypeParams = p.parseTypeParams()
	}
	if p.l.Token.Kind != TEquals || p.err != nil {
		p.l.Restore(snap)
		p.err = savedErr
		return nil
	}
	p.l.Next()
	alias.Type = p.parseType()
	p.semicolon()
	return alias
}

func (p *Parser) parseInterface(leading []string, isExport bool) Stmt {
	decl := &SInterface{Leading: leading, IsExport: isExport}
	decl.Name = p.expectIdentText()
	if p.l.Token.Kind == TLessThan {
		decl.TypeParams = p.parseTypeParams()
	}
	if p.l.Token.IsIdent("extends") {
		p.l.Next()
		for p.err == nil {
			decl.Extends = append(decl.Extends, p.parseType())
			if !p.eat(TComma) {
				break
			}
		}
	}
	decl.Members = p.parseTypeMembers()
	return decl
}

func (p *Parser) parseVar(leading []string, isExport bool) Stmt {
	stmt := &SVar{Leading: leading, IsExport: isExport, Kind: p.l.Token.Text}
	p.l.Next()
	for p.err == nil {
		var decl Declarator
		decl.Binding = p.parseBinding()
		if p.eat(TColon) {
			decl.Type = p.parseType()
		}
		if p.eat(TEquals) {
			decl.Init = p.parseAssign()
		}
		stmt.Decls = append(stmt.Decls, decl)
		if !p.eat(TComma) {
			break
		}
	}
	p.semicolon()
	return stmt
}

func (p *Parser) parseFunctionStmt(leading []string, isExport, isAsync bool) Stmt {
	p.l.Next() // function
	fn := p.parseFnRest(isAsync, true)
	return &SFunction{Leading: leading, IsExport: isExport, Fn: fn}
}

// parseFnRest parses everything after the "function" keyword.
func (p *Parser) parseFnRest(isAsync, nameRequired bool) Fn {
	fn := Fn{IsAsync: isAsync}
	if p.l.Token.Kind == TIdent {
		fn.Name = p.l.Token.Text
		p.l.Next()
	} else if nameRequired {
		p.fail("expected function name")
		return fn
	}
	if p.l.Token.Kind == TLessThan {
		fn.TypeParams = p.parseTypeParams()
	}
	fn.Params = p.parseParams()
	if p.eat(TColon) {
		fn.ReturnType = p.parseType()
	}
	fn.Body = p.parseBlock(nil)
	return fn
}

func (p *Parser) parseReturn(leading []string) Stmt {
	line := p.l.Token.Line
	p.l.Next()
	stmt := &SReturn{Leading: leading}
	tok := p.l.Token
	if tok.Kind != TSemicolon && tok.Kind != TCloseBrace && tok.Kind != TEndOfFile && tok.Line == line {
		stmt.Value = p.parseExpr()
	}
	p.semicolon()
	return stmt
}

func (p *Parser) parseIf(leading []string) Stmt {
	p.l.Next()
	stmt := &SIf{Leading: leading}
	p.expect(TOpenParen, "(")
	stmt.Test = p.parseExpr()
	p.expect(TCloseParen, ")")
	stmt.Yes = p.parseStmt()
	if p.l.Token.IsIdent("else") {
		p.l.Next()
		stmt.No = p.parseStmt()
	}
	return stmt
}

func (p *Parser) parseFor(leading []string) Stmt {
	p.l.Next()
	stmt := &SFor{Leading: leading}
	p.expect(TOpenParen, "(")
	if p.l.Token.Kind != TSemicolon {
		if tok := p.l.Token; tok.IsIdent("const") || tok.IsIdent("let") || tok.IsIdent("var") {
			kind := tok.Text
			p.l.Next()
			binding := p.parseBinding()
			if p.l.Token.IsIdent("of") || p.l.Token.IsIdent("in") {
				stmt.OfKind = p.l.Token.Text
				p.l.Next()
				stmt.Init = &SVar{Kind: kind, Decls: []Declarator{{Binding: binding}}}
				stmt.Of = p.parseAssign()
				p.expect(TCloseParen, ")")
				stmt.Body = p.parseStmt()
				return stmt
			}
			decl := Declarator{Binding: binding}
			if p.eat(TColon) {
				decl.Type = p.parseType()
			}
			if p.eat(TEquals) {
				decl.Init = p.parseAssign()
			}
			init := &SVar{Kind: kind, Decls: []Declarator{decl}}
			for p.eat(TComma) {
				var d Declarator
				d.Binding = p.parseBinding()
				if p.eat(TEquals) {
					d.Init = p.parseAssign()
				}
				init.Decls = append(init.Decls, d)
			}
			stmt.Init = init
		} else {
			stmt.Init = &SExpr{Value: p.parseExpr()}
		}
	}
	p.expect(TSemicolon, ";")
	if p.l.Token.Kind != TSemicolon {
		stmt.Test = p.parseExpr()
	}
	p.expect(TSemicolon, ";")
	if p.l.Token.Kind != TCloseParen {
		stmt.Update = p.parseExpr()
	}
	p.expect(TCloseParen, ")")
	stmt.Body = p.parseStmt()
	return stmt
}

// --- bindings and parameters ---

func (p *Parser) parseBinding() Binding {
	switch p.l.Token.Kind {
	case TIdent:
		name := p.l.Token.Text
		p.l.Next()
		return &BIdent{Name: name}
	case TOpenBrace:
		return p.parseObjectBinding()
	case TOpenBracket:
		return p.parseArrayBinding()
	}
	p.fail("expected binding target, found %q", p.l.Token.Text)
	return &BIdent{}
}

func (p *Parser) parseObjectBinding() Binding {
	b := &BObject{}
	p.expect(TOpenBrace, "{")
	for p.err == nil && p.l.Token.Kind != TCloseBrace {
		if p.eat(TDotDotDot) {
			b.Rest = p.expectIdentText()
			break
		}
		var prop BindingProp
		switch p.l.Token.Kind {
		case TIdent:
			prop.Key = p.l.Token.Text
			p.l.Next()
		case TStringLiteral:
			prop.Key = p.l.Token.StringValue
			prop.KeyRaw = true
			p.l.Next()
		default:
			p.fail("expected binding property, found %q", p.l.Token.Text)
			return b
		}
		if p.eat(TColon) {
			prop.Value = p.parseBinding()
		}
		if p.eat(TEquals) {
			prop.Default = p.parseAssign()
		}
		b.Props = append(b.Props, prop)
		if !p.eat(TComma) {
			break
		}
	}
	p.expect(TCloseBrace, "}")
	return b
}

func (p *Parser) parseArrayBinding() Binding {
	b := &BArray{}
	p.expect(TOpenBracket, "[")
	for p.err == nil && p.l.Token.Kind != TCloseBracket {
		if p.l.Token.Kind == TComma {
			b.Items = append(b.Items, BindingItem{})
			p.l.Next()
			continue
		}
		var item BindingItem
		item.Binding = p.parseBinding()
		if p.eat(TEquals) {
			item.Default = p.parseAssign()
		}
		b.Items = append(b.Items, item)
		if !p.eat(TComma) {
			break
		}
	}
	p.expect(TCloseBracket, "]")
	return b
}

func (p *Parser) parseParams() []Param {
	var params []Param
	p.expect(TOpenParen, "(")
	for p.err == nil && p.l.Token.Kind != TCloseParen {
		var param Param
		if p.eat(TDotDotDot) {
			param.IsRest = true
		}
		param.Binding = p.parseBinding()
		if p.eat(TQuestion) {
			param.Optional = true
		}
		if p.eat(TColon) {
			param.Type = p.parseType()
		}
		if p.eat(TEquals) {
			param.Default = p.parseAssign()
		}
		params = append(params, param)
		if !p.eat(TComma) {
			break
		}
	}
	p.expect(TCloseParen, ")")
	return params
}

func (p *Parser) parseTypeParams() []TypeParam {
	var params []TypeParam
	p.expect(TLessThan, "<")
	for p.err == nil && p.l.Token.Kind != TGreaterThan {
		var tp TypeParam
		tp.Name = p.expectIdentText()
		if p.l.Token.IsIdent("extends") {
			p.l.Next()
			tp.Constraint = p.parseType()
		}
		if p.eat(TEquals) {
			tp.Default = p.parseType()
		}
		params = append(params, tp)
		if !p.eat(TComma) {
			break
		}
	}
	p.expect(TGreaterThan, ">")
	return params
}

// --- types ---

func (p *Parser) parseType() TSType {
	p.eatPunct("|") // permit a leading pipe in multiline unions
	first := p.parseIntersectionType()
	if p.l.Token.Kind != TPunct || p.l.Token.Text != "|" {
		return first
	}
	union := &TUnion{Types: []TSType{first}}
	for p.eatPunct("|") {
		union.Types = append(union.Types, p.parseIntersectionType())
		if p.err != nil {
			break
		}
	}
	return union
}

func (p *Parser) parseIntersectionType() TSType {
	first := p.parsePostfixType()
	if p.l.Token.Kind != TPunct || p.l.Token.Text != "&" {
		return first
	}
	inter := &TIntersection{Types: []TSType{first}}
	for p.eatPunct("&") {
		inter.Types = append(inter.Types, p.parsePostfixType())
		if p.err != nil {
			break
		}
	}
	return inter
}

func (p *Parser) parsePostfixType() TSType {
	t := p.parsePrimaryType()
	for p.err == nil && p.l.Token.Kind == TOpenBracket {
		p.l.Next()
		if p.eat(TCloseBracket) {
			t = &TArray{Elem: t}
			continue
		}
		index := p.parseType()
		p.expect(TCloseBracket, "]")
		t = &TIndexed{Obj: t, Index: index}
	}
	return t
}

func (p *Parser) parsePrimaryType() TSType {
	tok := p.l.Token
	switch tok.Kind {
	case TOpenParen:
		var fnType TSType
		if p.speculate(func() bool {
			params := p.parseParams()
			if p.err != nil || p.l.Token.Kind != TArrow {
				return false
			}
			p.l.Next()
			fnType = &TFunc{Params: params, Return: p.parseType()}
			return true
		}) {
			return fnType
		}
		p.l.Next()
		inner := p.parseType()
		p.expect(TCloseParen, ")")
		return &TParen{Type: inner}
	case TOpenBrace:
		return &TObject{Members: p.parseTypeMembers()}
	case TOpenBracket:
		p.l.Next()
		tuple := &TTuple{}
		for p.err == nil && p.l.Token.Kind != TCloseBracket {
			tuple.Elems = append(tuple.Elems, p.parseType())
			if !p.eat(TComma) {
				break
			}
		}
		p.expect(TCloseBracket, "]")
		return tuple
	case TStringLiteral:
		p.l.Next()
		return &TLiteral{Raw: "'" + escapeSingleQuoted(tok.StringValue) + "'"}
	case TNumericLiteral:
		p.l.Next()
		return &TLiteral{Raw: tok.Text}
	case TNoSubstitutionTemplate:
		p.l.Next()
		return &TTemplate{Head: tok.Text}
	case TTemplateHead:
		return p.parseTemplateType(tok.Text)
	case TPunct:
		if tok.Text == "-" {
			p.l.Next()
			num := p.l.Token
			if num.Kind != TNumericLiteral {
				p.fail("expected number after '-' in type")
				return &TLiteral{}
			}
			p.l.Next()
			return &TLiteral{Raw: "-" + num.Text}
		}
	case TIdent:
		switch tok.Text {
		case "typeof":
			p.l.Next()
			t := &TTypeof{Parts: []string{p.expectIdentText()}}
			for p.eat(TDot) {
				t.Parts = append(t.Parts, p.expectIdentText())
			}
			return t
		case "keyof", "readonly", "infer":
			p.l.Next()
			return &TOperator{Op: tok.Text, Type: p.parsePostfixType()}
		case "true", "false":
			p.l.Next()
			return &TLiteral{Raw: tok.Text}
		case "new":
			p.fail("constructor types are not supported")
			return &TLiteral{}
		}
		p.l.Next()
		ref := &TRef{Parts: []string{tok.Text}}
		for p.eat(TDot) {
			ref.Parts = append(ref.Parts, p.expectIdentText())
		}
		if p.l.Token.Kind == TLessThan {
			ref.TypeArgs = p.parseTypeArgs()
		}
		return ref
	}
	p.fail("expected type, found %q", tok.Text)
	return &TLiteral{}
}

func (p *Parser) parseTemplateType(head string) TSType {
	t := &TTemplate{Head: head}
	p.l.Next()
	for p.err == nil {
		part := TTemplatePart{Type: p.parseType()}
		if p.l.Token.Kind != TCloseBrace {
			p.fail("expected '}' in template literal type")
			return t
		}
		p.l.RescanTemplateToken()
		part.Tail = p.l.Token.Text
		done := p.l.Token.Kind == TTemplateTail
		t.Parts = append(t.Parts, part)
		p.l.Next()
		if done {
			break
		}
	}
	return t
}

func (p *Parser) parseTypeArgs() []TSType {
	var args []TSType
	p.expect(TLessThan, "<")
	for p.err == nil && p.l.Token.Kind != TGreaterThan {
		args = append(args, p.parseType())
		if !p.eat(TComma) {
			break
		}
	}
	p.expect(TGreaterThan, ">")
	return args
}

func (p *Parser) parseTypeMembers() []TypeMember {
	var members []TypeMember
	p.expect(TOpenBrace, "{")
	for p.err == nil && p.l.Token.Kind != TCloseBrace {
		var m TypeMember
		if p.l.Token.IsIdent("readonly") {
			snap := p.l.Snapshot()
			p.l.Next()
			if p.l.Token.Kind == TColon || p.l.Token.Kind == TQuestion {
				// "readonly" used as a property name
				p.l.Restore(snap)
			} else {
				m.Readonly = true
			}
		}
		switch p.l.Token.Kind {
		case TOpenBracket:
			p.l.Next()
			m.IsIndex = true
			m.IndexName = p.expectIdentText()
			p.expect(TColon, ":")
			m.IndexType = p.parseType()
			p.expect(TCloseBracket, "]")
		case TStringLiteral:
			m.Name = p.l.Token.StringValue
			m.NameRaw = true
			p.l.Next()
		case TIdent:
			m.Name = p.l.Token.Text
			p.l.Next()
		default:
			p.fail("expected type member, found %q", p.l.Token.Text)
			return members
		}
		if p.eat(TQuestion) {
			m.Optional = true
		}
		if p.l.Token.Kind == TOpenParen || p.l.Token.Kind == TLessThan {
			// method signature: name(args): T
			if p.l.Token.Kind == TLessThan {
				p.parseTypeParams()
			}
			params := p.parseParams()
			var ret TSType
			if p.eat(TColon) {
				ret = p.parseType()
			}
			m.Type = &TFunc{Params: params, Return: ret}
		} else {
			p.expect(TColon, ":")
			m.Type = p.parseType()
		}
		members = append(members, m)
		if !p.eat(TSemicolon) && !p.eat(TComma) {
			break
		}
	}
	p.expect(TCloseBrace, "}")
	return members
}

// --- expressions ---

var binaryPrecedence = map[string]int{
	"??": 1,
	"||": 2, "&&": 3,
	"|": 4, "^": 5, "&": 6,
	"==": 7, "!=": 7, "===": 7, "!==": 7,
	"<": 8, ">": 8, "<=": 8, ">=": 8, "in": 8, "instanceof": 8,
	"<<": 9, ">>": 9, ">>>": 9,
	"+": 10, "-": 10,
	"*": 11, "/": 11, "%": 11,
	"**": 12,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, "&&=": true, "||=": true, "??=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

func (p *Parser) parseExpr() Expr {
	return p.parseAssign()
}

func (p *Parser) parseAssign() Expr {
	left := p.parseConditional()
	tok := p.l.Token
	op := ""
	if tok.Kind == TEquals {
		op = "="
	} else if tok.Kind == TPunct && assignOps[tok.Text] {
		op = tok.Text
	}
	if op == "" {
		return left
	}
	p.l.Next()
	return &EBinary{Op: op, Left: left, Right: p.parseAssign()}
}

func (p *Parser) parseConditional() Expr {
	test := p.parseBinary(0)
	if p.l.Token.Kind != TQuestion {
		return test
	}
	p.l.Next()
	yes := p.parseAssign()
	p.expect(TColon, ":")
	return &ECond{Test: test, Yes: yes, No: p.parseAssign()}
}

func (p *Parser) binaryOp() string {
	tok := p.l.Token
	switch tok.Kind {
	case TLessThan:
		return "<"
	case TGreaterThan:
		return p.l.MergeGreater()
	case TPunct:
		if _, ok := binaryPrecedence[tok.Text]; ok {
			return tok.Text
		}
	case TIdent:
		if tok.Text == "in" || tok.Text == "instanceof" {
			return tok.Text
		}
	}
	return ""
}

func (p *Parser) parseBinary(minPrec int) Expr {
	left := p.parsePrefix()
	for p.err == nil {
		if tok := p.l.Token; tok.Kind == TIdent && (tok.Text == "as" || tok.Text == "satisfies") {
			p.l.Next()
			left = &EAs{Op: tok.Text, Value: left, Type: p.parseType()}
			continue
		}
		op := p.binaryOp()
		if op == "" {
			break
		}
		prec := binaryPrecedence[op]
		if assignOps[op] || prec <= minPrec && op != "**" {
			break
		}
		p.l.Next()
		left = &EBinary{Op: op, Left: left, Right: p.parseBinary(prec)}
	}
	return left
}

func (p *Parser) parsePrefix() Expr {
	tok := p.l.Token
	switch tok.Kind {
	case TPunct:
		switch tok.Text {
		case "!", "-", "+", "~":
			p.l.Next()
			return &EUnary{Op: tok.Text, Value: p.parsePrefix()}
		case "++", "--":
			p.l.Next()
			return &EUnary{Op: tok.Text, Value: p.parsePrefix()}
		case "/", "/=":
			p.l.ScanRegExp()
			raw := p.l.Token.Text
			p.l.Next()
			return p.parseSuffix(&ERegExp{Raw: raw})
		}
	case TIdent:
		switch tok.Text {
		case "typeof", "void", "delete", "await":
			snap := p.l.Snapshot()
			p.l.Next()
			if tok.Text == "await" && p.l.Token.Kind == TArrow {
				// "await" used as an identifier binding
				p.l.Restore(snap)
				break
			}
			return &EUnary{Op: tok.Text, Value: p.parsePrefix()}
		}
	}
	return p.parseSuffix(p.parsePrimary())
}

func (p *Parser) parseSuffix(left Expr) Expr {
	for p.err == nil {
		tok := p.l.Token
		switch tok.Kind {
		case TDot:
			p.l.Next()
			left = &EMember{Target: left, Name: p.expectIdentText()}
		case TQuestionDot:
			p.l.Next()
			switch p.l.Token.Kind {
			case TOpenParen:
				left = p.parseCallArgs(left, nil, true)
			case TOpenBracket:
				p.l.Next()
				index := p.parseExpr()
				p.expect(TCloseBracket, "]")
				left = &EIndex{Target: left, Index: index, Optional: true}
			default:
				left = &EMember{Target: left, Name: p.expectIdentText(), Optional: true}
			}
		case TOpenParen:
			left = p.parseCallArgs(left, nil, false)
		case TOpenBracket:
			p.l.Next()
			index := p.parseExpr()
			p.expect(TCloseBracket, "]")
			left = &EIndex{Target: left, Index: index}
		case TLessThan:
			// speculative type-argument call: f<T>(x)
			var call Expr
			if p.speculate(func() bool {
				typeArgs := p.parseTypeArgs()
				if p.err != nil || p.l.Token.Kind != TOpenParen {
					return false
				}
				call = p.parseCallArgs(left, typeArgs, false)
				return true
			}) {
				left = call
				continue
			}
			return left
		case TPunct:
			switch tok.Text {
			case "!":
				p.l.Next()
				left = &EPostfix{Op: "!", Value: left}
				continue
			case "++", "--":
				p.l.Next()
				left = &EPostfix{Op: tok.Text, Value: left}
				continue
			}
			return left
		default:
			return left
		}
	}
	return left
}

func (p *Parser) parseCallArgs(target Expr, typeArgs []TSType, optional bool) Expr {
	call := &ECall{Target: target, TypeArgs: typeArgs, Optional: optional}
	p.expect(TOpenParen, "(")
	for p.err == nil && p.l.Token.Kind != TCloseParen {
		if p.eat(TDotDotDot) {
			call.Args = append(call.Args, &ESpread{Value: p.parseAssign()})
		} else {
			call.Args = append(call.Args, p.parseAssign())
		}
		if !p.eat(TComma) {
			break
		}
	}
	p.expect(TCloseParen, ")")
	return call
}

func (p *Parser) parsePrimary() Expr {
	tok := p.l.Token
	switch tok.Kind {
	case TIdent:
		switch tok.Text {
		case "true", "false":
			p.l.Next()
			return &EBool{Value: tok.Text == "true"}
		case "null":
			p.l.Next()
			return &ENull{}
		case "function":
			p.l.Next()
			return &EFunction{Fn: p.parseFnRest(false, false)}
		case "new":
			p.l.Next()
			target := p.parseSuffixNoCall(p.parsePrimary())
			n := &ENew{Target: target}
			if p.l.Token.Kind == TOpenParen {
				call := p.parseCallArgs(nil, nil, false).(*ECall)
				n.Args = call.Args
			}
			return n
		case "async":
			var arrow Expr
			if p.speculate(func() bool {
				p.l.Next()
				a := p.tryParseArrow(true)
				if a == nil {
					return false
				}
				arrow = a
				return true
			}) {
				return arrow
			}
		}
		if arrow := p.tryParseArrow(false); arrow != nil {
			return arrow
		}
		p.l.Next()
		return &EIdent{Name: tok.Text}
	case TNumericLiteral:
		p.l.Next()
		return &ENumber{Raw: tok.Text}
	case TStringLiteral:
		p.l.Next()
		return &EString{Value: tok.StringValue}
	case TNoSubstitutionTemplate:
		p.l.Next()
		return &ETemplate{Head: tok.Text}
	case TTemplateHead:
		return p.parseTemplateExpr(tok.Text)
	case TOpenParen:
		if arrow := p.tryParseArrow(false); arrow != nil {
			return arrow
		}
		p.l.Next()
		inner := p.parseExpr()
		p.expect(TCloseParen, ")")
		return &EParen{Value: inner}
	case TOpenBracket:
		p.l.Next()
		arr := &EArray{}
		for p.err == nil && p.l.Token.Kind != TCloseBracket {
			if p.eat(TDotDotDot) {
				arr.Items = append(arr.Items, &ESpread{Value: p.parseAssign()})
			} else {
				arr.Items = append(arr.Items, p.parseAssign())
			}
			if !p.eat(TComma) {
				break
			}
		}
		p.expect(TCloseBracket, "]")
		return arr
	case TOpenBrace:
		return p.parseObjectLiteral()
	case TLessThan:
		// parseJSXExpr leaves the element's final ">" current; expression
		// position must advance past it before precedence climbing resumes.
		el := p.parseJSXExpr()
		p.l.Next()
		return el
	}
	p.fail("unexpected token %q in expression", tok.Text)
	return &EIdent{}
}

// tryParseArrow speculatively parses an arrow function starting at either an
// identifier (x => ...) or a parameter list. Returns nil when the input is
// not an arrow.
func (p *Parser) tryParseArrow(isAsync bool) Expr {
	tok := p.l.Token
	if tok.Kind == TIdent {
		switch tok.Text {
		case "true", "false", "null", "function", "new", "in", "instanceof":
			return nil
		}
		snap := p.l.Snapshot()
		p.l.Next()
		if p.l.Token.Kind == TArrow {
			p.l.Next()
			arrow := &EArrow{IsAsync: isAsync, ParenLess: true,
				Params: []Param{{Binding: &BIdent{Name: tok.Text}}}}
			p.finishArrowBody(arrow)
			return arrow
		}
		p.l.Restore(snap)
		return nil
	}
	if tok.Kind != TOpenParen && tok.Kind != TLessThan {
		return nil
	}
	var arrow *EArrow
	ok := p.speculate(func() bool {
		a := &EArrow{IsAsync: isAsync}
		if p.l.Token.Kind == TLessThan {
			a.TypeParams = p.parseTypeParams()
			if p.err != nil {
				return false
			}
		}
		a.Params = p.parseParams()
		if p.err != nil {
			return false
		}
		if p.l.Token.Kind == TColon {
			p.l.Next()
			a.ReturnType = p.parseType()
			if p.err != nil {
				return false
			}
		}
		if p.l.Token.Kind != TArrow {
			return false
		}
		p.l.Next()
		arrow = a
		return true
	})
	if !ok {
		return nil
	}
	p.finishArrowBody(arrow)
	return arrow
}

func (p *Parser) finishArrowBody(arrow *EArrow) {
	if p.l.Token.Kind == TOpenBrace {
		arrow.Body = p.parseBlock(nil)
	} else {
		arrow.ExprBody = p.parseAssign()
	}
}

// parseSuffixNoCall parses member access without consuming a call, used for
// new-expression targets.
func (p *Parser) parseSuffixNoCall(left Expr) Expr {
	for p.err == nil && p.l.Token.Kind == TDot {
		p.l.Next()
		left = &EMember{Target: left, Name: p.expectIdentText()}
	}
	return left
}

func (p *Parser) parseTemplateExpr(head string) Expr {
	t := &ETemplate{Head: head}
	p.l.Next()
	for p.err == nil {
		part := TemplatePart{Value: p.parseExpr()}
		if p.l.Token.Kind != TCloseBrace {
			p.fail("expected '}' in template literal")
			return t
		}
		p.l.RescanTemplateToken()
		part.Tail = p.l.Token.Text
		done := p.l.Token.Kind == TTemplateTail
		t.Parts = append(t.Parts, part)
		p.l.Next()
		if done {
			break
		}
	}
	return t
}

func (p *Parser) parseObjectLiteral() Expr {
	obj := &EObject{}
	p.expect(TOpenBrace, "{")
	for p.err == nil && p.l.Token.Kind != TCloseBrace {
		var prop Property
		if p.eat(TDotDotDot) {
			prop.Kind = PropertySpread
			prop.Value = p.parseAssign()
			obj.Properties = append(obj.Properties, prop)
			if !p.eat(TComma) {
				break
			}
			continue
		}
		switch p.l.Token.Kind {
		case TIdent:
			prop.Key = &EIdent{Name: p.l.Token.Text}
			p.l.Next()
		case TStringLiteral:
			prop.Key = &EString{Value: p.l.Token.StringValue}
			p.l.Next()
		case TNumericLiteral:
			prop.Key = &ENumber{Raw: p.l.Token.Text}
			p.l.Next()
		case TOpenBracket:
			p.l.Next()
			prop.Computed = true
			prop.Key = p.parseAssign()
			p.expect(TCloseBracket, "]")
		default:
			p.fail("expected object property, found %q", p.l.Token.Text)
			return obj
		}
		switch p.l.Token.Kind {
		case TColon:
			p.l.Next()
			prop.Kind = PropertyNormal
			prop.Value = p.parseAssign()
		case TOpenParen, TLessThan:
			prop.Kind = PropertyMethod
			fn := Fn{}
			if p.l.Token.Kind == TLessThan {
				fn.TypeParams = p.parseTypeParams()
			}
			fn.Params = p.parseParams()
			if p.eat(TColon) {
				fn.ReturnType = p.parseType()
			}
			fn.Body = p.parseBlock(nil)
			prop.Value = &EFunction{Fn: fn}
		default:
			prop.Kind = PropertyShorthand
			if ident, ok := prop.Key.(*EIdent); ok && p.l.Token.Kind == TEquals {
				// shorthand with default inside destructuring-like contexts
				p.l.Next()
				prop.Kind = PropertyNormal
				prop.Value = &EBinary{Op: "=", Left: &EIdent{Name: ident.Name}, Right: p.parseAssign()}
			}
		}
		obj.Properties = append(obj.Properties, prop)
		if !p.eat(TComma) {
			break
		}
	}
	p.expect(TCloseBrace, "}")
	return obj
}

// --- JSX ---

// parseJSXExpr parses an element or fragment. On entry the current token is
// "<" scanned in normal mode; on exit the current token is the element's
// final ">", not yet advanced past, so the caller resumes in its own mode.
func (p *Parser) parseJSXExpr() Expr {
	p.l.NextJSXTag()
	return p.parseJSXElementAfterLess()
}

func (p *Parser) parseJSXElementAfterLess() Expr {
	el := &EJSXElement{}
	if p.l.Token.Kind == TGreaterThan {
		// fragment
		p.parseJSXChildren(el, "")
		return el
	}
	tag, tagName := p.parseJSXTagName()
	el.Tag = tag
	for p.err == nil {
		tok := p.l.Token
		switch {
		case tok.Kind == TIdent:
			attr := JSXAttr{Name: tok.Text}
			p.l.NextJSXTag()
			if p.l.Token.Kind == TEquals {
				p.l.NextJSXTag()
				switch p.l.Token.Kind {
				case TStringLiteral:
					attr.Value = &EString{Value: p.l.Token.StringValue}
					p.l.NextJSXTag()
				case TOpenBrace:
					p.l.Next()
					attr.Braced = true
					attr.Value = p.parseAssign()
					if p.l.Token.Kind != TCloseBrace {
						p.fail("expected '}' after JSX attribute expression")
						return el
					}
					p.l.NextJSXTag()
				default:
					p.fail("expected JSX attribute value")
					return el
				}
			}
			el.Attrs = append(el.Attrs, attr)
		case tok.Kind == TOpenBrace:
			p.l.Next()
			p.expect(TDotDotDot, "...")
			attr := JSXAttr{IsSpread: true, SpreadValue: p.parseAssign()}
			if p.l.Token.Kind != TCloseBrace {
				p.fail("expected '}' after JSX spread attribute")
				return el
			}
			p.l.NextJSXTag()
			el.Attrs = append(el.Attrs, attr)
		case tok.Kind == TPunct && tok.Text == "/":
			p.l.NextJSXTag()
			if p.l.Token.Kind != TGreaterThan {
				p.fail("expected '>' after '/' in JSX tag")
				return el
			}
			el.SelfClosing = true
			return el
		case tok.Kind == TGreaterThan:
			p.parseJSXChildren(el, tagName)
			return el
		default:
			p.fail("unexpected token %q in JSX tag", tok.Text)
			return el
		}
	}
	return el
}

func (p *Parser) parseJSXTagName() (Expr, string) {
	if p.l.Token.Kind != TIdent {
		p.fail("expected JSX tag name, found %q", p.l.Token.Text)
		return &EIdent{}, ""
	}
	name := p.l.Token.Text
	var tag Expr = &EIdent{Name: name}
	p.l.NextJSXTag()
	for p.l.Token.Kind == TDot {
		p.l.NextJSXTag()
		if p.l.Token.Kind != TIdent {
			p.fail("expected identifier after '.' in JSX tag name")
			return tag, name
		}
		tag = &EMember{Target: tag, Name: p.l.Token.Text}
		name += "." + p.l.Token.Text
		p.l.NextJSXTag()
	}
	return tag, name
}

// parseJSXChildren parses children after the opening ">" up to the matching
// closing tag. On exit the current token is the closing tag's ">".
func (p *Parser) parseJSXChildren(el *EJSXElement, tagName string) {
	for p.err == nil {
		p.l.NextJSXChild()
		tok := p.l.Token
		switch tok.Kind {
		case TJSXText:
			el.Children = append(el.Children, &JSXText{Raw: tok.Text})
		case TOpenBrace:
			p.l.Next()
			comments := p.l.TakeComments()
			if p.l.Token.Kind == TCloseBrace && len(comments) > 0 {
				el.Children = append(el.Children, &JSXComment{Text: comments[len(comments)-1]})
				continue
			}
			child := &JSXExpr{Value: p.parseExpr()}
			if p.l.Token.Kind != TCloseBrace {
				p.fail("expected '}' after JSX child expression")
				return
			}
			el.Children = append(el.Children, child)
		case TLessThan:
			p.l.NextJSXTag()
			if p.l.Token.Kind == TPunct && p.l.Token.Text == "/" {
				p.l.NextJSXTag()
				if tagName == "" {
					if p.l.Token.Kind != TGreaterThan {
						p.fail("expected '>' closing JSX fragment")
					}
					return
				}
				_, closing := p.parseJSXTagName()
				if closing != tagName {
					p.fail("mismatched JSX closing tag: <%s> closed by </%s>", tagName, closing)
					return
				}
				if p.l.Token.Kind != TGreaterThan {
					p.fail("expected '>' in JSX closing tag")
				}
				return
			}
			child := p.parseJSXElementAfterLess()
			el.Children = append(el.Children, child.(*EJSXElement))
		case TEndOfFile:
			p.fail("unterminated JSX element")
			return
		default:
			p.fail("unexpected token %q in JSX children", tok.Text)
			return
		}
	}
}
