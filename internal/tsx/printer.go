package tsx

import (
	"strings"
)

// Print serializes a file deterministically: two-space indentation, single
// quotes in code, double quotes for JSX attributes, one statement per line.
// Printing the same tree twice yields byte-identical output, which is what
// makes repeated pipeline runs stable.
func Print(file *File) string {
	p := &printer{}
	for _, stmt := range file.Stmts {
		p.printStmt(stmt, 0)
	}
	return p.sb.String()
}

type printer struct {
	sb strings.Builder
}

func (p *printer) line(indent int, text string) {
	for i := 0; i < indent; i++ {
		p.sb.WriteString("  ")
	}
	p.sb.WriteString(text)
	p.sb.WriteString("\n")
}

func (p *printer) comments(leading []string, indent int) {
	for _, c := range leading {
		p.line(indent, c)
	}
}

func escapeSingleQuoted(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '\'':
			sb.WriteString(`\'`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func quoteString(s string) string {
	return "'" + escapeSingleQuoted(s) + "'"
}

// quoteJSXAttr keeps JSX attribute values raw; double quotes unless the
// value itself contains one.
func quoteJSXAttr(s string) string {
	if strings.Contains(s, `"`) {
		return "'" + s + "'"
	}
	return `"` + s + `"`
}

func printSpecifiers(specs []ImportSpecifier) string {
	parts := make([]string, 0, len(specs))
	for _, s := range specs {
		text := s.Name
		if s.IsType {
			text = "type " + text
		}
		if s.Alias != "" {
			text += " as " + s.Alias
		}
		parts = append(parts, text)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (p *printer) printStmt(stmt Stmt, indent int) {
	switch s := stmt.(type) {
	case *SImport:
		p.comments(s.Leading, indent)
		if s.SideEffectOnly() {
			p.line(indent, "import "+quoteString(s.Path)+";")
			return
		}
		var clauses []string
		if s.Default != "" {
			clauses = append(clauses, s.Default)
		}
		if s.Namespace != "" {
			clauses = append(clauses, "* as "+s.Namespace)
		}
		if s.HasBraces {
			clauses = append(clauses, printSpecifiers(s.Named))
		}
		keyword := "import "
		if s.TypeOnly {
			keyword = "import type "
		}
		p.line(indent, keyword+strings.Join(clauses, ", ")+" from "+quoteString(s.Path)+";")
	case *SExportClause:
		p.comments(s.Leading, indent)
		keyword := "export "
		if s.TypeOnly {
			keyword = "export type "
		}
		text := keyword + printSpecifiers(s.Named)
		if s.HasPath {
			text += " from " + quoteString(s.Path)
		}
		p.line(indent, text+";")
	case *SExportStar:
		p.comments(s.Leading, indent)
		text := "export *"
		if s.Namespace != "" {
			text += " as " + s.Namespace
		}
		p.line(indent, text+" from "+quoteString(s.Path)+";")
	case *SExportDefault:
		p.comments(s.Leading, indent)
		p.printPrefixedExpr(indent, "export default ", s.Value, ";")
	case *SFunction:
		p.comments(s.Leading, indent)
		prefix := ""
		if s.IsExport {
			prefix = "export "
		}
		if s.Fn.IsAsync {
			prefix += "async "
		}
		p.printFn(indent, prefix+"function "+s.Fn.Name, s.Fn)
	case *SVar:
		p.comments(s.Leading, indent)
		prefix := ""
		if s.IsExport {
			prefix = "export "
		}
		decls := make([]string, 0, len(s.Decls))
		for _, d := range s.Decls {
			text := p.binding(d.Binding)
			if d.Type != nil {
				text += ": " + p.typeText(d.Type)
			}
			if d.Init != nil {
				text += " = " + p.exprText(d.Init, indent)
			}
			decls = append(decls, text)
		}
		p.line(indent, prefix+s.Kind+" "+strings.Join(decls, ", ")+";")
	case *STypeAlias:
		p.comments(s.Leading, indent)
		prefix := ""
		if s.IsExport {
			prefix = "export "
		}
		p.line(indent, prefix+"type "+s.Name+p.typeParams(s.TypeParams)+" = "+p.typeText(s.Type)+";")
	case *SInterface:
		p.comments(s.Leading, indent)
		prefix := ""
		if s.IsExport {
			prefix = "export "
		}
		head := prefix + "interface " + s.Name + p.typeParams(s.TypeParams)
		if len(s.Extends) > 0 {
			exts := make([]string, 0, len(s.Extends))
			for _, e := range s.Extends {
				exts = append(exts, p.typeText(e))
			}
			head += " extends " + strings.Join(exts, ", ")
		}
		p.line(indent, head+" {")
		for _, m := range s.Members {
			p.line(indent+1, p.typeMember(m)+";")
		}
		p.line(indent, "}")
	case *SReturn:
		p.comments(s.Leading, indent)
		if s.Value == nil {
			p.line(indent, "return;")
			return
		}
		p.printPrefixedExpr(indent, "return ", s.Value, ";")
	case *SIf:
		p.comments(s.Leading, indent)
		p.printIf(s, indent)
	case *SBlock:
		p.comments(s.Leading, indent)
		p.line(indent, "{")
		for _, inner := range s.Stmts {
			p.printStmt(inner, indent+1)
		}
		p.line(indent, "}")
	case *SExpr:
		p.comments(s.Leading, indent)
		p.printPrefixedExpr(indent, "", s.Value, ";")
	case *SThrow:
		p.comments(s.Leading, indent)
		p.printPrefixedExpr(indent, "throw ", s.Value, ";")
	case *SFor:
		p.comments(s.Leading, indent)
		p.printFor(s, indent)
	case *SWhile:
		p.comments(s.Leading, indent)
		p.printControl(indent, "while ("+p.exprText(s.Test, indent)+")", s.Body)
	case *SBreak:
		p.comments(s.Leading, indent)
		p.line(indent, "break;")
	case *SContinue:
		p.comments(s.Leading, indent)
		p.line(indent, "continue;")
	}
}

// printPrefixedExpr prints a single-line statement whose expression may
// contain multiline JSX.
func (p *printer) printPrefixedExpr(indent int, prefix string, value Expr, suffix string) {
	p.line(indent, prefix+p.exprText(value, indent)+suffix)
}

func (p *printer) printIf(s *SIf, indent int) {
	head := "if (" + p.exprText(s.Test, indent) + ") {"
	p.line(indent, head)
	p.printBody(s.Yes, indent)
	switch no := s.No.(type) {
	case nil:
		p.line(indent, "}")
	case *SIf:
		// else-if chain printed flat
		p.sb.WriteString(strings.Repeat("  ", indent) + "} else ")
		rest := &printer{}
		rest.printIf(no, indent)
		chain := rest.sb.String()
		p.sb.WriteString(strings.TrimPrefix(chain, strings.Repeat("  ", indent)))
	default:
		p.line(indent, "} else {")
		p.printBody(no, indent)
		p.line(indent, "}")
	}
}

// printBody prints a statement as the contents of a braced body, flattening
// an *SBlock into its statements.
func (p *printer) printBody(stmt Stmt, indent int) {
	if block, ok := stmt.(*SBlock); ok {
		for _, inner := range block.Stmts {
			p.printStmt(inner, indent+1)
		}
		return
	}
	p.printStmt(stmt, indent+1)
}

func (p *printer) printControl(indent int, head string, body Stmt) {
	p.line(indent, head+" {")
	p.printBody(body, indent)
	p.line(indent, "}")
}

func (p *printer) printFor(s *SFor, indent int) {
	if s.OfKind != "" {
		decl := s.Init.(*SVar)
		head := "for (" + decl.Kind + " " + p.binding(decl.Decls[0].Binding) +
			" " + s.OfKind + " " + p.exprText(s.Of, indent) + ")"
		p.printControl(indent, head, s.Body)
		return
	}
	init := ""
	switch st := s.Init.(type) {
	case *SVar:
		decls := make([]string, 0, len(st.Decls))
		for _, d := range st.Decls {
			text := p.binding(d.Binding)
			if d.Type != nil {
				text += ": " + p.typeText(d.Type)
			}
			if d.Init != nil {
				text += " = " + p.exprText(d.Init, indent)
			}
			decls = append(decls, text)
		}
		init = st.Kind + " " + strings.Join(decls, ", ")
	case *SExpr:
		init = p.exprText(st.Value, indent)
	}
	test, update := "", ""
	if s.Test != nil {
		test = " " + p.exprText(s.Test, indent)
	}
	if s.Update != nil {
		update = " " + p.exprText(s.Update, indent)
	}
	p.printControl(indent, "for ("+init+";"+test+";"+update+")", s.Body)
}

func (p *printer) printFn(indent int, head string, fn Fn) {
	text := head + p.typeParams(fn.TypeParams) + "(" + p.params(fn.Params, indent) + ")"
	if fn.ReturnType != nil {
		text += ": " + p.typeText(fn.ReturnType)
	}
	p.line(indent, text+" {")
	for _, inner := range fn.Body.Stmts {
		p.printStmt(inner, indent+1)
	}
	p.line(indent, "}")
}

func (p *printer) params(params []Param, indent int) string {
	parts := make([]string, 0, len(params))
	for _, param := range params {
		text := ""
		if param.IsRest {
			text = "..."
		}
		text += p.binding(param.Binding)
		if param.Optional {
			text += "?"
		}
		if param.Type != nil {
			text += ": " + p.typeText(param.Type)
		}
		if param.Default != nil {
			text += " = " + p.exprText(param.Default, indent)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, ", ")
}

func (p *printer) binding(b Binding) string {
	switch b := b.(type) {
	case *BIdent:
		return b.Name
	case *BObject:
		parts := make([]string, 0, len(b.Props)+1)
		for _, prop := range b.Props {
			key := prop.Key
			if prop.KeyRaw {
				key = quoteString(prop.Key)
			}
			text := key
			if prop.Value != nil {
				text += ": " + p.binding(prop.Value)
			}
			if prop.Default != nil {
				text += " = " + p.exprText(prop.Default, 0)
			}
			parts = append(parts, text)
		}
		if b.Rest != "" {
			parts = append(parts, "..."+b.Rest)
		}
		if len(parts) == 0 {
			return "{}"
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *BArray:
		parts := make([]string, 0, len(b.Items))
		for _, item := range b.Items {
			if item.Binding == nil {
				parts = append(parts, "")
				continue
			}
			text := p.binding(item.Binding)
			if item.Default != nil {
				text += " = " + p.exprText(item.Default, 0)
			}
			parts = append(parts, text)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return ""
}

func (p *printer) typeParams(params []TypeParam) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, 0, len(params))
	for _, tp := range params {
		text := tp.Name
		if tp.Constraint != nil {
			text += " extends " + p.typeText(tp.Constraint)
		}
		if tp.Default != nil {
			text += " = " + p.typeText(tp.Default)
		}
		parts = append(parts, text)
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func (p *printer) typeText(t TSType) string {
	switch t := t.(type) {
	case *TRef:
		text := strings.Join(t.Parts, ".")
		if len(t.TypeArgs) > 0 {
			args := make([]string, 0, len(t.TypeArgs))
			for _, a := range t.TypeArgs {
				args = append(args, p.typeText(a))
			}
			text += "<" + strings.Join(args, ", ") + ">"
		}
		return text
	case *TUnion:
		parts := make([]string, 0, len(t.Types))
		for _, inner := range t.Types {
			parts = append(parts, p.typeText(inner))
		}
		return strings.Join(parts, " | ")
	case *TIntersection:
		parts := make([]string, 0, len(t.Types))
		for _, inner := range t.Types {
			parts = append(parts, p.typeText(inner))
		}
		return strings.Join(parts, " & ")
	case *TArray:
		return p.typeText(t.Elem) + "[]"
	case *TTuple:
		parts := make([]string, 0, len(t.Elems))
		for _, inner := range t.Elems {
			parts = append(parts, p.typeText(inner))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *TObject:
		if len(t.Members) == 0 {
			return "{}"
		}
		parts := make([]string, 0, len(t.Members))
		for _, m := range t.Members {
			parts = append(parts, p.typeMember(m))
		}
		return "{ " + strings.Join(parts, "; ") + " }"
	case *TFunc:
		ret := "void"
		if t.Return != nil {
			ret = p.typeText(t.Return)
		}
		return "(" + p.params(t.Params, 0) + ") => " + ret
	case *TTypeof:
		return "typeof " + strings.Join(t.Parts, ".")
	case *TLiteral:
		return t.Raw
	case *TParen:
		return "(" + p.typeText(t.Type) + ")"
	case *TOperator:
		return t.Op + " " + p.typeText(t.Type)
	case *TIndexed:
		return p.typeText(t.Obj) + "[" + p.typeText(t.Index) + "]"
	case *TTemplate:
		var sb strings.Builder
		sb.WriteString("`" + t.Head)
		for _, part := range t.Parts {
			sb.WriteString("${" + p.typeText(part.Type) + "}" + part.Tail)
		}
		sb.WriteString("`")
		return sb.String()
	}
	return ""
}

func (p *printer) typeMember(m TypeMember) string {
	if m.IsIndex {
		text := "[" + m.IndexName + ": " + p.typeText(m.IndexType) + "]: " + p.typeText(m.Type)
		if m.Readonly {
			text = "readonly " + text
		}
		return text
	}
	name := m.Name
	if m.NameRaw {
		name = quoteString(m.Name)
	}
	text := name
	if m.Optional {
		text += "?"
	}
	text += ": " + p.typeText(m.Type)
	if m.Readonly {
		text = "readonly " + text
	}
	return text
}

var wordUnaryOps = map[string]bool{"typeof": true, "void": true, "delete": true, "await": true}

func (p *printer) exprText(e Expr, indent int) string {
	switch e := e.(type) {
	case *EIdent:
		return e.Name
	case *EString:
		return quoteString(e.Value)
	case *ENumber:
		return e.Raw
	case *EBool:
		if e.Value {
			return "true"
		}
		return "false"
	case *ENull:
		return "null"
	case *ERegExp:
		return e.Raw
	case *ETemplate:
		var sb strings.Builder
		sb.WriteString("`" + e.Head)
		for _, part := range e.Parts {
			sb.WriteString("${" + p.exprText(part.Value, indent) + "}" + part.Tail)
		}
		sb.WriteString("`")
		return sb.String()
	case *EArray:
		parts := make([]string, 0, len(e.Items))
		for _, item := range e.Items {
			parts = append(parts, p.exprText(item, indent))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ESpread:
		return "..." + p.exprText(e.Value, indent)
	case *EObject:
		if len(e.Properties) == 0 {
			return "{}"
		}
		parts := make([]string, 0, len(e.Properties))
		for _, prop := range e.Properties {
			parts = append(parts, p.property(prop, indent))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *EMember:
		op := "."
		if e.Optional {
			op = "?."
		}
		return p.exprText(e.Target, indent) + op + e.Name
	case *EIndex:
		open := "["
		if e.Optional {
			open = "?.["
		}
		return p.exprText(e.Target, indent) + open + p.exprText(e.Index, indent) + "]"
	case *ECall:
		text := p.exprText(e.Target, indent)
		if len(e.TypeArgs) > 0 {
			args := make([]string, 0, len(e.TypeArgs))
			for _, a := range e.TypeArgs {
				args = append(args, p.typeText(a))
			}
			text += "<" + strings.Join(args, ", ") + ">"
		}
		if e.Optional {
			text += "?."
		}
		args := make([]string, 0, len(e.Args))
		for _, a := range e.Args {
			args = append(args, p.exprText(a, indent))
		}
		return text + "(" + strings.Join(args, ", ") + ")"
	case *ENew:
		args := make([]string, 0, len(e.Args))
		for _, a := range e.Args {
			args = append(args, p.exprText(a, indent))
		}
		return "new " + p.exprText(e.Target, indent) + "(" + strings.Join(args, ", ") + ")"
	case *EArrow:
		text := ""
		if e.IsAsync {
			text = "async "
		}
		text += p.typeParams(e.TypeParams)
		if e.ParenLess {
			text += p.binding(e.Params[0].Binding)
		} else {
			text += "(" + p.params(e.Params, indent) + ")"
		}
		if e.ReturnType != nil {
			text += ": " + p.typeText(e.ReturnType)
		}
		text += " => "
		if e.Body != nil {
			return text + p.blockText(e.Body, indent)
		}
		return text + p.exprText(e.ExprBody, indent)
	case *EFunction:
		head := "function"
		if e.Fn.IsAsync {
			head = "async function"
		}
		if e.Fn.Name != "" {
			head += " " + e.Fn.Name
		}
		text := head + p.typeParams(e.Fn.TypeParams) + "(" + p.params(e.Fn.Params, indent) + ")"
		if e.Fn.ReturnType != nil {
			text += ": " + p.typeText(e.Fn.ReturnType)
		}
		return text + " " + p.blockText(e.Fn.Body, indent)
	case *EUnary:
		if wordUnaryOps[e.Op] {
			return e.Op + " " + p.exprText(e.Value, indent)
		}
		return e.Op + p.exprText(e.Value, indent)
	case *EPostfix:
		return p.exprText(e.Value, indent) + e.Op
	case *EBinary:
		return p.exprText(e.Left, indent) + " " + e.Op + " " + p.exprText(e.Right, indent)
	case *ECond:
		return p.exprText(e.Test, indent) + " ? " + p.exprText(e.Yes, indent) +
			" : " + p.exprText(e.No, indent)
	case *EAs:
		return p.exprText(e.Value, indent) + " " + e.Op + " " + p.typeText(e.Type)
	case *EParen:
		return "(" + p.exprText(e.Value, indent) + ")"
	case *EJSXElement:
		return p.jsxText(e, indent)
	}
	return ""
}

// blockText renders a block inline within an expression (arrow and function
// bodies), re-indenting nested statements relative to the current line.
func (p *printer) blockText(block *SBlock, indent int) string {
	if len(block.Stmts) == 0 {
		return "{}"
	}
	inner := &printer{}
	for _, stmt := range block.Stmts {
		inner.printStmt(stmt, indent+1)
	}
	return "{\n" + inner.sb.String() + strings.Repeat("  ", indent) + "}"
}

func (p *printer) property(prop Property, indent int) string {
	switch prop.Kind {
	case PropertySpread:
		return "..." + p.exprText(prop.Value, indent)
	case PropertyShorthand:
		return p.exprText(prop.Key, indent)
	case PropertyMethod:
		fn := prop.Value.(*EFunction).Fn
		text := p.exprText(prop.Key, indent) + p.typeParams(fn.TypeParams) +
			"(" + p.params(fn.Params, indent) + ")"
		if fn.ReturnType != nil {
			text += ": " + p.typeText(fn.ReturnType)
		}
		return text + " " + p.blockText(fn.Body, indent)
	}
	key := p.exprText(prop.Key, indent)
	if prop.Computed {
		key = "[" + key + "]"
	}
	return key + ": " + p.exprText(prop.Value, indent)
}

func (p *printer) jsxTagText(tag Expr) string {
	switch t := tag.(type) {
	case *EIdent:
		return t.Name
	case *EMember:
		return p.jsxTagText(t.Target) + "." + t.Name
	}
	return ""
}

func (p *printer) jsxText(el *EJSXElement, indent int) string {
	var sb strings.Builder
	if el.Tag == nil {
		sb.WriteString("<>")
	} else {
		sb.WriteString("<" + p.jsxTagText(el.Tag))
		for _, attr := range el.Attrs {
			sb.WriteString(" ")
			if attr.IsSpread {
				sb.WriteString("{..." + p.exprText(attr.SpreadValue, indent) + "}")
				continue
			}
			sb.WriteString(attr.Name)
			if attr.Value == nil {
				continue
			}
			if str, ok := attr.Value.(*EString); ok && !attr.Braced {
				sb.WriteString("=" + quoteJSXAttr(str.Value))
			} else {
				sb.WriteString("={" + p.exprText(attr.Value, indent) + "}")
			}
		}
		if el.SelfClosing {
			sb.WriteString(" />")
			return sb.String()
		}
		sb.WriteString(">")
	}
	for _, child := range el.Children {
		switch c := child.(type) {
		case *JSXText:
			sb.WriteString(c.Raw)
		case *JSXExpr:
			sb.WriteString("{" + p.exprText(c.Value, indent) + "}")
		case *JSXComment:
			sb.WriteString("{" + c.Text + "}")
		case *EJSXElement:
			sb.WriteString(p.jsxText(c, indent))
		}
	}
	if el.Tag == nil {
		sb.WriteString("</>")
	} else {
		sb.WriteString("</" + p.jsxTagText(el.Tag) + ">")
	}
	return sb.String()
}
