package tsx

// File is one parsed source file. Rewrite passes build a new Stmts slice
// rather than mutating in place.
type File struct {
	Stmts []Stmt
}

// Stmt is the statement sum type. Every concrete statement carries its
// leading comments so the printer can re-emit them.
type Stmt interface{ isStmt() }

// ImportSpecifier is one named import or export clause entry.
type ImportSpecifier struct {
	Name   string // the exported name
	Alias  string // local alias, empty when none
	IsType bool   // inline "type" modifier
}

// Local returns the binding name the specifier introduces.
func (s ImportSpecifier) Local() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Name
}

type SImport struct {
	Leading   []string
	TypeOnly  bool
	Default   string
	Namespace string // import * as Namespace
	Named     []ImportSpecifier
	HasBraces bool // distinguishes `import {} from 'x'` from a bare default
	Path      string
}

// SideEffectOnly reports whether the import has no binding clause at all.
func (s *SImport) SideEffectOnly() bool {
	return s.Default == "" && s.Namespace == "" && !s.HasBraces
}

type SExportClause struct {
	Leading  []string
	TypeOnly bool
	Named    []ImportSpecifier
	Path     string
	HasPath  bool
}

type SExportStar struct {
	Leading   []string
	Namespace string // export * as Namespace from ...
	Path      string
}

type SExportDefault struct {
	Leading []string
	Value   Expr
}

// TypeParam is a generic parameter declaration (<T extends U = V>).
type TypeParam struct {
	Name       string
	Constraint TSType
	Default    TSType
}

// Fn is the shared shape of function declarations and function expressions.
type Fn struct {
	Name       string
	IsAsync    bool
	TypeParams []TypeParam
	Params     []Param
	ReturnType TSType
	Body       *SBlock
}

type SFunction struct {
	Leading  []string
	IsExport bool
	Fn       Fn
}

type Declarator struct {
	Binding Binding
	Type    TSType
	Init    Expr
}

type SVar struct {
	Leading  []string
	IsExport bool
	Kind     string // const, let, var
	Decls    []Declarator
}

type STypeAlias struct {
	Leading    []string
	IsExport   bool
	Name       string
	TypeParams []TypeParam
	Type       TSType
}

type SInterface struct {
	Leading    []string
	IsExport   bool
	Name       string
	TypeParams []TypeParam
	Extends    []TSType
	Members    []TypeMember
}

type SReturn struct {
	Leading []string
	Value   Expr // nil for a bare return
}

type SIf struct {
	Leading []string
	Test    Expr
	Yes     Stmt
	No      Stmt // nil, *SBlock, or *SIf for else-if chains
}

type SBlock struct {
	Leading []string
	Stmts   []Stmt
}

type SExpr struct {
	Leading []string
	Value   Expr
}

type SThrow struct {
	Leading []string
	Value   Expr
}

type SFor struct {
	Leading []string
	Init    Stmt   // nil, *SVar or *SExpr
	Test    Expr   // nil in for-of/for-in and empty clauses
	Update  Expr   // nil likewise
	Of      Expr   // iterated value for for-of/for-in
	OfKind  string // "of", "in", or "" for a classic for
	Body    Stmt
}

type SWhile struct {
	Leading []string
	Test    Expr
	Body    Stmt
}

type SBreak struct{ Leading []string }

type SContinue struct{ Leading []string }

func (*SImport) isStmt()        {}
func (*SExportClause) isStmt()  {}
func (*SExportStar) isStmt()    {}
func (*SExportDefault) isStmt() {}
func (*SFunction) isStmt()      {}
func (*SVar) isStmt()           {}
func (*STypeAlias) isStmt()     {}
func (*SInterface) isStmt()     {}
func (*SReturn) isStmt()        {}
func (*SIf) isStmt()            {}
func (*SBlock) isStmt()         {}
func (*SExpr) isStmt()          {}
func (*SThrow) isStmt()         {}
func (*SFor) isStmt()           {}
func (*SWhile) isStmt()         {}
func (*SBreak) isStmt()         {}
func (*SContinue) isStmt()      {}

// Expr is the expression sum type.
type Expr interface{ isExpr() }

type EIdent struct{ Name string }

type EString struct{ Value string }

type ENumber struct{ Raw string }

type EBool struct{ Value bool }

type ENull struct{}

type ERegExp struct{ Raw string }

type TemplatePart struct {
	Value Expr
	Tail  string // raw chunk following the substitution
}

type ETemplate struct {
	Head  string // raw chunk before the first substitution
	Parts []TemplatePart
}

type EArray struct{ Items []Expr }

type ESpread struct{ Value Expr }

type PropertyKind uint8

const (
	PropertyNormal PropertyKind = iota
	PropertyShorthand
	PropertySpread
	PropertyMethod
)

type Property struct {
	Kind     PropertyKind
	Key      Expr // EIdent, EString or computed expression
	Computed bool
	Value    Expr
}

type EObject struct{ Properties []Property }

type EMember struct {
	Target   Expr
	Name     string
	Optional bool // ?.
}

type EIndex struct {
	Target   Expr
	Index    Expr
	Optional bool
}

type ECall struct {
	Target   Expr
	TypeArgs []TSType
	Args     []Expr
	Optional bool
}

type ENew struct {
	Target Expr
	Args   []Expr
}

type EArrow struct {
	IsAsync    bool
	TypeParams []TypeParam
	Params     []Param
	// ParenLess marks the single-identifier shorthand form (x => ...).
	ParenLess  bool
	ReturnType TSType
	Body       *SBlock // exactly one of Body / ExprBody is set
	ExprBody   Expr
}

type EFunction struct{ Fn Fn }

type EUnary struct {
	Op    string // typeof ! - + void delete await
	Value Expr
}

type EPostfix struct {
	Op    string // ++ -- !
	Value Expr
}

type EBinary struct {
	Op    string // arithmetic, comparison, logical, and assignment operators
	Left  Expr
	Right Expr
}

type ECond struct {
	Test Expr
	Yes  Expr
	No   Expr
}

// EAs is a type assertion: value as T, or value satisfies T.
type EAs struct {
	Op    string // "as" or "satisfies"
	Value Expr
	Type  TSType
}

type EParen struct{ Value Expr }

// EJSXElement is an element or fragment. Tag is nil for fragments and
// otherwise an *EIdent or *EMember chain.
type EJSXElement struct {
	Tag         Expr
	Attrs       []JSXAttr
	Children    []JSXChild
	SelfClosing bool
}

type JSXAttr struct {
	IsSpread    bool
	SpreadValue Expr
	Name        string
	Value       Expr // nil for a bare attribute
	Braced      bool // value written as {expr} rather than a plain string
}

type JSXChild interface{ isJSXChild() }

type JSXText struct{ Raw string }

type JSXExpr struct{ Value Expr }

type JSXComment struct{ Text string } // {/* ... */}

func (*JSXText) isJSXChild()     {}
func (*JSXExpr) isJSXChild()     {}
func (*JSXComment) isJSXChild()  {}
func (*EJSXElement) isJSXChild() {}

func (*EIdent) isExpr()      {}
func (*EString) isExpr()     {}
func (*ENumber) isExpr()     {}
func (*EBool) isExpr()       {}
func (*ENull) isExpr()       {}
func (*ERegExp) isExpr()     {}
func (*ETemplate) isExpr()   {}
func (*EArray) isExpr()      {}
func (*ESpread) isExpr()     {}
func (*EObject) isExpr()     {}
func (*EMember) isExpr()     {}
func (*EIndex) isExpr()      {}
func (*ECall) isExpr()       {}
func (*ENew) isExpr()        {}
func (*EArrow) isExpr()      {}
func (*EFunction) isExpr()   {}
func (*EUnary) isExpr()      {}
func (*EPostfix) isExpr()    {}
func (*EBinary) isExpr()     {}
func (*ECond) isExpr()       {}
func (*EAs) isExpr()         {}
func (*EParen) isExpr()      {}
func (*EJSXElement) isExpr() {}

// Binding is the sum type for declaration targets.
type Binding interface{ isBinding() }

type BIdent struct{ Name string }

type BindingProp struct {
	Key     string
	KeyRaw  bool // key needs quoting ('aria-label': x)
	Value   Binding
	Default Expr
}

type BObject struct {
	Props []BindingProp
	Rest  string // ...rest binding name, empty when absent
}

type BindingItem struct {
	Binding Binding // nil for a hole
	Default Expr
}

type BArray struct{ Items []BindingItem }

func (*BIdent) isBinding()  {}
func (*BObject) isBinding() {}
func (*BArray) isBinding()  {}

// Param is a function parameter.
type Param struct {
	IsRest   bool
	Binding  Binding
	Optional bool
	Type     TSType
	Default  Expr
}

// TSType is the type-annotation sum type.
type TSType interface{ isType() }

// TRef is a (possibly qualified) type reference: Name, A.B, Name<T>.
type TRef struct {
	Parts    []string
	TypeArgs []TSType
}

// Head returns the unqualified or leftmost name.
func (t *TRef) Head() string { return t.Parts[0] }

// Bare reports whether the reference is a single unqualified identifier.
func (t *TRef) Bare() bool { return len(t.Parts) == 1 }

type TUnion struct{ Types []TSType }

type TIntersection struct{ Types []TSType }

type TArray struct{ Elem TSType }

type TTuple struct{ Elems []TSType }

type TypeMember struct {
	Readonly  bool
	IsIndex   bool
	IndexName string
	IndexType TSType
	Name      string
	NameRaw   bool // member name needs quoting
	Optional  bool
	Type      TSType
}

type TObject struct{ Members []TypeMember }

type TFunc struct {
	Params []Param
	Return TSType
}

// TTypeof is a typeof query in type position: typeof X, typeof A.B.
type TTypeof struct{ Parts []string }

type TLiteral struct{ Raw string }

type TParen struct{ Type TSType }

type TOperator struct {
	Op   string // keyof, readonly, infer
	Type TSType
}

type TIndexed struct {
	Obj   TSType
	Index TSType
}

type TTemplatePart struct {
	Type TSType
	Tail string
}

type TTemplate struct {
	Head  string
	Parts []TTemplatePart
}

func (*TRef) isType()          {}
func (*TUnion) isType()        {}
func (*TIntersection) isType() {}
func (*TArray) isType()        {}
func (*TTuple) isType()        {}
func (*TObject) isType()       {}
func (*TFunc) isType()         {}
func (*TTypeof) isType()       {}
func (*TLiteral) isType()      {}
func (*TParen) isType()        {}
func (*TOperator) isType()     {}
func (*TIndexed) isType()      {}
func (*TTemplate) isType()     {}
