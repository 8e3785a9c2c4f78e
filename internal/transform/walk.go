package transform

import (
	"github.com/uiforge/catalyze/internal/tsx"
)

// identPos tells a rewrite hook which syntactic position a plain identifier
// occupies. The five passes differ almost entirely in which positions they
// accept, so the traversal is shared and the position drives the decision.
type identPos struct {
	JSXTag        bool
	JSXAttr       bool
	TypeofOperand bool
	MemberObject  bool
}

func (p identPos) any() bool {
	return p.JSXTag || p.JSXAttr || p.TypeofOperand || p.MemberObject
}

// hooks are the per-pass rewrite points. Nil hooks make the walk a pure
// deep copy. Qualified references whose leftmost name is an excluded
// namespace qualifier are copied verbatim, never offered to a hook.
type hooks struct {
	ident      func(name string, pos identPos) (string, bool)
	typeRef    func(name string) (string, bool) // bare type references only
	typeofType func(name string) (string, bool) // bare typeof queries in type position
	excluded   func(name string) bool
}

func (h hooks) isExcluded(name string) bool {
	return h.excluded != nil && h.excluded(name)
}

func (h hooks) rewriteFile(f *tsx.File) *tsx.File {
	out := &tsx.File{Stmts: make([]tsx.Stmt, 0, len(f.Stmts))}
	for _, stmt := range f.Stmts {
		out.Stmts = append(out.Stmts, h.rewriteStmt(stmt))
	}
	return out
}

func (h hooks) rewriteStmt(stmt tsx.Stmt) tsx.Stmt {
	switch s := stmt.(type) {
	case *tsx.SImport:
		c := *s
		return &c
	case *tsx.SExportClause:
		c := *s
		return &c
	case *tsx.SExportStar:
		c := *s
		return &c
	case *tsx.SExportDefault:
		return &tsx.SExportDefault{Leading: s.Leading, Value: h.rewriteExpr(s.Value, identPos{})}
	case *tsx.SFunction:
		return &tsx.SFunction{Leading: s.Leading, IsExport: s.IsExport, Fn: h.rewriteFn(s.Fn)}
	case *tsx.SVar:
		out := &tsx.SVar{Leading: s.Leading, IsExport: s.IsExport, Kind: s.Kind}
		for _, d := range s.Decls {
			out.Decls = append(out.Decls, tsx.Declarator{
				Binding: h.rewriteBinding(d.Binding),
				Type:    h.rewriteTypeOrNil(d.Type),
				Init:    h.rewriteExprOrNil(d.Init),
			})
		}
		return out
	case *tsx.STypeAlias:
		return &tsx.STypeAlias{Leading: s.Leading, IsExport: s.IsExport, Name: s.Name,
			TypeParams: h.rewriteTypeParams(s.TypeParams), Type: h.rewriteType(s.Type)}
	case *tsx.SInterface:
		out := &tsx.SInterface{Leading: s.Leading, IsExport: s.IsExport, Name: s.Name,
			TypeParams: h.rewriteTypeParams(s.TypeParams)}
		for _, e := range s.Extends {
			out.Extends = append(out.Extends, h.rewriteType(e))
		}
		out.Members = h.rewriteTypeMembers(s.Members)
		return out
	case *tsx.SReturn:
		return &tsx.SReturn{Leading: s.Leading, Value: h.rewriteExprOrNil(s.Value)}
	case *tsx.SIf:
		return &tsx.SIf{Leading: s.Leading, Test: h.rewriteExpr(s.Test, identPos{}),
			Yes: h.rewriteStmt(s.Yes), No: h.rewriteStmtOrNil(s.No)}
	case *tsx.SBlock:
		return h.rewriteBlock(s)
	case *tsx.SExpr:
		return &tsx.SExpr{Leading: s.Leading, Value: h.rewriteExpr(s.Value, identPos{})}
	case *tsx.SThrow:
		return &tsx.SThrow{Leading: s.Leading, Value: h.rewriteExpr(s.Value, identPos{})}
	case *tsx.SFor:
		return &tsx.SFor{Leading: s.Leading, Init: h.rewriteStmtOrNil(s.Init),
			Test: h.rewriteExprOrNil(s.Test), Update: h.rewriteExprOrNil(s.Update),
			Of: h.rewriteExprOrNil(s.Of), OfKind: s.OfKind, Body: h.rewriteStmt(s.Body)}
	case *tsx.SWhile:
		return &tsx.SWhile{Leading: s.Leading, Test: h.rewriteExpr(s.Test, identPos{}),
			Body: h.rewriteStmt(s.Body)}
	case *tsx.SBreak:
		c := *s
		return &c
	case *tsx.SContinue:
		c := *s
		return &c
	}
	return stmt
}

func (h hooks) rewriteStmtOrNil(stmt tsx.Stmt) tsx.Stmt {
	if stmt == nil {
		return nil
	}
	return h.rewriteStmt(stmt)
}

func (h hooks) rewriteBlock(block *tsx.SBlock) *tsx.SBlock {
	if block == nil {
		return nil
	}
	out := &tsx.SBlock{Leading: block.Leading, Stmts: make([]tsx.Stmt, 0, len(block.Stmts))}
	for _, stmt := range block.Stmts {
		out.Stmts = append(out.Stmts, h.rewriteStmt(stmt))
	}
	return out
}

func (h hooks) rewriteFn(fn tsx.Fn) tsx.Fn {
	return tsx.Fn{
		Name:       fn.Name,
		IsAsync:    fn.IsAsync,
		TypeParams: h.rewriteTypeParams(fn.TypeParams),
		Params:     h.rewriteParams(fn.Params),
		ReturnType: h.rewriteTypeOrNil(fn.ReturnType),
		Body:       h.rewriteBlock(fn.Body),
	}
}

func (h hooks) rewriteParams(params []tsx.Param) []tsx.Param {
	out := make([]tsx.Param, 0, len(params))
	for _, p := range params {
		out = append(out, tsx.Param{
			IsRest:   p.IsRest,
			Binding:  h.rewriteBinding(p.Binding),
			Optional: p.Optional,
			Type:     h.rewriteTypeOrNil(p.Type),
			Default:  h.rewriteExprOrNil(p.Default),
		})
	}
	return out
}

// rewriteBinding copies a binding pattern. Bound names are declaration
// sites and stay untouched; only default values are reference positions.
func (h hooks) rewriteBinding(b tsx.Binding) tsx.Binding {
	switch b := b.(type) {
	case *tsx.BIdent:
		c := *b
		return &c
	case *tsx.BObject:
		out := &tsx.BObject{Rest: b.Rest}
		for _, prop := range b.Props {
			out.Props = append(out.Props, tsx.BindingProp{
				Key: prop.Key, KeyRaw: prop.KeyRaw,
				Value:   h.rewriteBindingOrNil(prop.Value),
				Default: h.rewriteExprOrNil(prop.Default),
			})
		}
		return out
	case *tsx.BArray:
		out := &tsx.BArray{}
		for _, item := range b.Items {
			out.Items = append(out.Items, tsx.BindingItem{
				Binding: h.rewriteBindingOrNil(item.Binding),
				Default: h.rewriteExprOrNil(item.Default),
			})
		}
		return out
	}
	return b
}

func (h hooks) rewriteBindingOrNil(b tsx.Binding) tsx.Binding {
	if b == nil {
		return nil
	}
	return h.rewriteBinding(b)
}

func (h hooks) rewriteExprOrNil(e tsx.Expr) tsx.Expr {
	if e == nil {
		return nil
	}
	return h.rewriteExpr(e, identPos{})
}

func (h hooks) rewriteExpr(e tsx.Expr, pos identPos) tsx.Expr {
	switch e := e.(type) {
	case *tsx.EIdent:
		if h.ident != nil {
			if renamed, ok := h.ident(e.Name, pos); ok {
				return &tsx.EIdent{Name: renamed}
			}
		}
		c := *e
		return &c
	case *tsx.EString:
		c := *e
		return &c
	case *tsx.ENumber:
		c := *e
		return &c
	case *tsx.EBool:
		c := *e
		return &c
	case *tsx.ENull:
		return &tsx.ENull{}
	case *tsx.ERegExp:
		c := *e
		return &c
	case *tsx.ETemplate:
		out := &tsx.ETemplate{Head: e.Head}
		for _, part := range e.Parts {
			out.Parts = append(out.Parts, tsx.TemplatePart{
				Value: h.rewriteExpr(part.Value, identPos{}), Tail: part.Tail})
		}
		return out
	case *tsx.EArray:
		out := &tsx.EArray{}
		for _, item := range e.Items {
			out.Items = append(out.Items, h.rewriteExpr(item, identPos{}))
		}
		return out
	case *tsx.ESpread:
		return &tsx.ESpread{Value: h.rewriteExpr(e.Value, identPos{})}
	case *tsx.EObject:
		return h.rewriteObject(e)
	case *tsx.EMember:
		targetPos := identPos{}
		if _, isIdent := e.Target.(*tsx.EIdent); isIdent {
			targetPos.MemberObject = true
		}
		return &tsx.EMember{Target: h.rewriteExpr(e.Target, targetPos), Name: e.Name, Optional: e.Optional}
	case *tsx.EIndex:
		targetPos := identPos{}
		if _, isIdent := e.Target.(*tsx.EIdent); isIdent {
			targetPos.MemberObject = true
		}
		return &tsx.EIndex{Target: h.rewriteExpr(e.Target, targetPos),
			Index: h.rewriteExpr(e.Index, identPos{}), Optional: e.Optional}
	case *tsx.ECall:
		out := &tsx.ECall{Target: h.rewriteExpr(e.Target, identPos{}), Optional: e.Optional}
		for _, t := range e.TypeArgs {
			out.TypeArgs = append(out.TypeArgs, h.rewriteType(t))
		}
		for _, a := range e.Args {
			out.Args = append(out.Args, h.rewriteExpr(a, identPos{}))
		}
		return out
	case *tsx.ENew:
		out := &tsx.ENew{Target: h.rewriteExpr(e.Target, identPos{})}
		for _, a := range e.Args {
			out.Args = append(out.Args, h.rewriteExpr(a, identPos{}))
		}
		return out
	case *tsx.EArrow:
		return &tsx.EArrow{
			IsAsync:    e.IsAsync,
			TypeParams: h.rewriteTypeParams(e.TypeParams),
			Params:     h.rewriteParams(e.Params),
			ParenLess:  e.ParenLess,
			ReturnType: h.rewriteTypeOrNil(e.ReturnType),
			Body:       h.rewriteBlock(e.Body),
			ExprBody:   h.rewriteExprOrNil(e.ExprBody),
		}
	case *tsx.EFunction:
		return &tsx.EFunction{Fn: h.rewriteFn(e.Fn)}
	case *tsx.EUnary:
		valuePos := identPos{}
		if e.Op == "typeof" {
			if _, isIdent := e.Value.(*tsx.EIdent); isIdent {
				valuePos.TypeofOperand = true
			}
		}
		return &tsx.EUnary{Op: e.Op, Value: h.rewriteExpr(e.Value, valuePos)}
	case *tsx.EPostfix:
		return &tsx.EPostfix{Op: e.Op, Value: h.rewriteExpr(e.Value, identPos{})}
	case *tsx.EBinary:
		return &tsx.EBinary{Op: e.Op, Left: h.rewriteExpr(e.Left, identPos{}),
			Right: h.rewriteExpr(e.Right, identPos{})}
	case *tsx.ECond:
		return &tsx.ECond{Test: h.rewriteExpr(e.Test, identPos{}),
			Yes: h.rewriteExpr(e.Yes, identPos{}), No: h.rewriteExpr(e.No, identPos{})}
	case *tsx.EAs:
		return &tsx.EAs{Op: e.Op, Value: h.rewriteExpr(e.Value, identPos{}), Type: h.rewriteType(e.Type)}
	case *tsx.EParen:
		return &tsx.EParen{Value: h.rewriteExpr(e.Value, identPos{})}
	case *tsx.EJSXElement:
		return h.rewriteJSX(e)
	}
	return e
}

// rewriteObject skips property names: non-computed keys and shorthand
// entries are never reference positions for the passes.
func (h hooks) rewriteObject(obj *tsx.EObject) *tsx.EObject {
	out := &tsx.EObject{}
	for _, prop := range obj.Properties {
		next := tsx.Property{Kind: prop.Kind, Computed: prop.Computed}
		switch prop.Kind {
		case tsx.PropertySpread:
			next.Value = h.rewriteExpr(prop.Value, identPos{})
		case tsx.PropertyShorthand:
			next.Key = prop.Key
		default:
			if prop.Computed {
				next.Key = h.rewriteExpr(prop.Key, identPos{})
			} else {
				next.Key = prop.Key
			}
			next.Value = h.rewriteExpr(prop.Value, identPos{})
		}
		out.Properties = append(out.Properties, next)
	}
	return out
}

func (h hooks) rewriteJSX(el *tsx.EJSXElement) *tsx.EJSXElement {
	out := &tsx.EJSXElement{SelfClosing: el.SelfClosing}
	switch tag := el.Tag.(type) {
	case nil:
	case *tsx.EIdent:
		out.Tag = h.rewriteExpr(tag, identPos{JSXTag: true})
	default:
		// qualified tags (Namespace.Member) are copied verbatim; the member
		// name is not a plain identifier and the qualifier must not move
		out.Tag = el.Tag
	}
	for _, attr := range el.Attrs {
		next := tsx.JSXAttr{IsSpread: attr.IsSpread, Name: attr.Name, Braced: attr.Braced}
		if attr.IsSpread {
			next.SpreadValue = h.rewriteExpr(attr.SpreadValue, identPos{})
		} else if attr.Value != nil {
			if _, isIdent := attr.Value.(*tsx.EIdent); isIdent && attr.Braced {
				next.Value = h.rewriteExpr(attr.Value, identPos{JSXAttr: true})
			} else {
				next.Value = h.rewriteExpr(attr.Value, identPos{})
			}
		}
		out.Attrs = append(out.Attrs, next)
	}
	for _, child := range el.Children {
		switch c := child.(type) {
		case *tsx.JSXText:
			out.Children = append(out.Children, &tsx.JSXText{Raw: c.Raw})
		case *tsx.JSXExpr:
			out.Children = append(out.Children, &tsx.JSXExpr{Value: h.rewriteExpr(c.Value, identPos{})})
		case *tsx.JSXComment:
			out.Children = append(out.Children, &tsx.JSXComment{Text: c.Text})
		case *tsx.EJSXElement:
			out.Children = append(out.Children, h.rewriteJSX(c))
		}
	}
	return out
}

func (h hooks) rewriteTypeParams(params []tsx.TypeParam) []tsx.TypeParam {
	if params == nil {
		return nil
	}
	out := make([]tsx.TypeParam, 0, len(params))
	for _, tp := range params {
		out = append(out, tsx.TypeParam{Name: tp.Name,
			Constraint: h.rewriteTypeOrNil(tp.Constraint),
			Default:    h.rewriteTypeOrNil(tp.Default)})
	}
	return out
}

func (h hooks) rewriteTypeOrNil(t tsx.TSType) tsx.TSType {
	if t == nil {
		return nil
	}
	return h.rewriteType(t)
}

func (h hooks) rewriteType(t tsx.TSType) tsx.TSType {
	switch t := t.(type) {
	case *tsx.TRef:
		if len(t.Parts) > 1 && h.isExcluded(t.Parts[0]) {
			// nothing under an excluded qualifier is ever rewritten
			return t
		}
		out := &tsx.TRef{Parts: append([]string(nil), t.Parts...)}
		if t.Bare() && h.typeRef != nil {
			if renamed, ok := h.typeRef(t.Parts[0]); ok {
				out.Parts[0] = renamed
			}
		}
		for _, arg := range t.TypeArgs {
			out.TypeArgs = append(out.TypeArgs, h.rewriteType(arg))
		}
		return out
	case *tsx.TUnion:
		out := &tsx.TUnion{}
		for _, inner := range t.Types {
			out.Types = append(out.Types, h.rewriteType(inner))
		}
		return out
	case *tsx.TIntersection:
		out := &tsx.TIntersection{}
		for _, inner := range t.Types {
			out.Types = append(out.Types, h.rewriteType(inner))
		}
		return out
	case *tsx.TArray:
		return &tsx.TArray{Elem: h.rewriteType(t.Elem)}
	case *tsx.TTuple:
		out := &tsx.TTuple{}
		for _, inner := range t.Elems {
			out.Elems = append(out.Elems, h.rewriteType(inner))
		}
		return out
	case *tsx.TObject:
		return &tsx.TObject{Members: h.rewriteTypeMembers(t.Members)}
	case *tsx.TFunc:
		return &tsx.TFunc{Params: h.rewriteParams(t.Params), Return: h.rewriteTypeOrNil(t.Return)}
	case *tsx.TTypeof:
		out := &tsx.TTypeof{Parts: append([]string(nil), t.Parts...)}
		if len(t.Parts) == 1 && !h.isExcluded(t.Parts[0]) && h.typeofType != nil {
			if renamed, ok := h.typeofType(t.Parts[0]); ok {
				out.Parts[0] = renamed
			}
		}
		return out
	case *tsx.TLiteral:
		c := *t
		return &c
	case *tsx.TParen:
		return &tsx.TParen{Type: h.rewriteType(t.Type)}
	case *tsx.TOperator:
		return &tsx.TOperator{Op: t.Op, Type: h.rewriteType(t.Type)}
	case *tsx.TIndexed:
		return &tsx.TIndexed{Obj: h.rewriteType(t.Obj), Index: h.rewriteType(t.Index)}
	case *tsx.TTemplate:
		out := &tsx.TTemplate{Head: t.Head}
		for _, part := range t.Parts {
			out.Parts = append(out.Parts, tsx.TTemplatePart{Type: h.rewriteType(part.Type), Tail: part.Tail})
		}
		return out
	}
	return t
}

func (h hooks) rewriteTypeMembers(members []tsx.TypeMember) []tsx.TypeMember {
	out := make([]tsx.TypeMember, 0, len(members))
	for _, m := range members {
		out = append(out, tsx.TypeMember{
			Readonly: m.Readonly, IsIndex: m.IsIndex, IndexName: m.IndexName,
			IndexType: h.rewriteTypeOrNil(m.IndexType),
			Name:      m.Name, NameRaw: m.NameRaw, Optional: m.Optional,
			Type: h.rewriteTypeOrNil(m.Type),
		})
	}
	return out
}
