// Package types implements the type grammar referenced by the IR: every IR
// expression carries one of these as its value type (see §3 of the
// middle-end specification). The package is deliberately narrow — it does
// not perform inference (that is the surface typechecker's job, an
// external collaborator) — it only gives the IR passes a Type value they
// can construct, compare, normalise, and print.
package types

import (
	"fmt"
	"strings"
)

// Type is the common interface implemented by every type in the grammar.
// Equals compares after normalisation, so callers never need to normalise
// by hand before comparing.
type Type interface {
	String() string
	Equals(Type) bool
}

// Prim enumerates the primitive types of §3.
type Prim int

const (
	Bool Prim = iota
	Nat
	Int
	Nat8
	Nat16
	Nat32
	Nat64
	Int8
	Int16
	Int32
	Int64
	Float
	Char
	Text
	Blob
	NullPrim
	ErrorPrim
	AnyPrim
	NonPrim
	Reserved
	Empty
)

var primNames = map[Prim]string{
	Bool: "Bool", Nat: "Nat", Int: "Int",
	Nat8: "Nat8", Nat16: "Nat16", Nat32: "Nat32", Nat64: "Nat64",
	Int8: "Int8", Int16: "Int16", Int32: "Int32", Int64: "Int64",
	Float: "Float", Char: "Char", Text: "Text", Blob: "Blob",
	NullPrim: "Null", ErrorPrim: "Error", AnyPrim: "Any", NonPrim: "Non",
	Reserved: "Reserved", Empty: "Empty",
}

func (p Prim) String() string {
	if n, ok := primNames[p]; ok {
		return n
	}
	return fmt.Sprintf("Prim(%d)", int(p))
}

// PrimT is a primitive type.
type PrimT struct{ P Prim }

func (t *PrimT) String() string { return t.P.String() }
func (t *PrimT) Equals(o Type) bool {
	if x, ok := Normalize(o).(*PrimT); ok {
		return x.P == t.P
	}
	return false
}

// TupT is a tuple of types (arity 0 is unit).
type TupT struct{ Elems []Type }

func (t *TupT) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *TupT) Equals(o Type) bool {
	x, ok := Normalize(o).(*TupT)
	if !ok || len(x.Elems) != len(t.Elems) {
		return false
	}
	for i := range t.Elems {
		if !t.Elems[i].Equals(x.Elems[i]) {
			return false
		}
	}
	return true
}

// ArrayT is an array of Elem, with a mutability tag.
type ArrayT struct {
	Elem Type
	Mut  bool
}

func (t *ArrayT) String() string {
	if t.Mut {
		return fmt.Sprintf("[var %s]", t.Elem)
	}
	return fmt.Sprintf("[%s]", t.Elem)
}
func (t *ArrayT) Equals(o Type) bool {
	x, ok := Normalize(o).(*ArrayT)
	return ok && x.Mut == t.Mut && t.Elem.Equals(x.Elem)
}

// OptT is an option type.
type OptT struct{ Elem Type }

func (t *OptT) String() string { return "?" + t.Elem.String() }
func (t *OptT) Equals(o Type) bool {
	x, ok := Normalize(o).(*OptT)
	return ok && t.Elem.Equals(x.Elem)
}

// VariantT is a labelled-alternative sum type. Alts is kept sorted by label
// so String/TypeID are deterministic regardless of construction order.
type VariantT struct{ Alts []VariantAlt }

type VariantAlt struct {
	Label   string
	Payload Type // nil for a label with no payload
}

func NewVariantT(alts []VariantAlt) *VariantT {
	sorted := append([]VariantAlt(nil), alts...)
	sortVariantAlts(sorted)
	return &VariantT{Alts: sorted}
}

func (t *VariantT) String() string {
	parts := make([]string, len(t.Alts))
	for i, a := range t.Alts {
		if a.Payload == nil {
			parts[i] = "#" + a.Label
		} else {
			parts[i] = fmt.Sprintf("#%s:%s", a.Label, a.Payload)
		}
	}
	return "{" + strings.Join(parts, "; ") + "}"
}
func (t *VariantT) Equals(o Type) bool {
	x, ok := Normalize(o).(*VariantT)
	if !ok || len(x.Alts) != len(t.Alts) {
		return false
	}
	for i := range t.Alts {
		if t.Alts[i].Label != x.Alts[i].Label {
			return false
		}
		if (t.Alts[i].Payload == nil) != (x.Alts[i].Payload == nil) {
			return false
		}
		if t.Alts[i].Payload != nil && !t.Alts[i].Payload.Equals(x.Alts[i].Payload) {
			return false
		}
	}
	return true
}

// ObjSort tags a record/object type: a plain object, a module, or an actor.
type ObjSort int

const (
	SortObject ObjSort = iota
	SortModule
	SortActor
)

func (s ObjSort) String() string {
	switch s {
	case SortModule:
		return "module"
	case SortActor:
		return "actor"
	default:
		return "object"
	}
}

// Field is a labelled, mutability-tagged record/object field.
type Field struct {
	Name string
	Type Type
	Mut  bool
}

// ObjT is a record/object type: plain object, module, or actor, each a set
// of labelled, mutability-tagged fields. Fields are kept sorted by name.
type ObjT struct {
	Sort   ObjSort
	Fields []Field
}

func NewObjT(sort ObjSort, fields []Field) *ObjT {
	sorted := append([]Field(nil), fields...)
	sortFields(sorted)
	return &ObjT{Sort: sort, Fields: sorted}
}

func (t *ObjT) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		mut := ""
		if f.Mut {
			mut = "var "
		}
		parts[i] = fmt.Sprintf("%s%s: %s", mut, f.Name, f.Type)
	}
	prefix := ""
	if t.Sort != SortObject {
		prefix = t.Sort.String() + " "
	}
	return prefix + "{" + strings.Join(parts, "; ") + "}"
}
func (t *ObjT) Equals(o Type) bool {
	x, ok := Normalize(o).(*ObjT)
	if !ok || x.Sort != t.Sort || len(x.Fields) != len(t.Fields) {
		return false
	}
	for i := range t.Fields {
		if t.Fields[i].Name != x.Fields[i].Name || t.Fields[i].Mut != x.Fields[i].Mut {
			return false
		}
		if !t.Fields[i].Type.Equals(x.Fields[i].Type) {
			return false
		}
	}
	return true
}

// FieldByName returns the named field, or ok=false.
func (t *ObjT) FieldByName(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FuncSort is Local, or Shared with a Query/Write sub-sort.
type FuncSort int

const (
	SortLocal FuncSort = iota
	SortSharedQuery
	SortSharedWrite
)

func (s FuncSort) String() string {
	switch s {
	case SortSharedQuery:
		return "shared query"
	case SortSharedWrite:
		return "shared"
	default:
		return "local"
	}
}

func (s FuncSort) IsShared() bool { return s == SortSharedQuery || s == SortSharedWrite }

// Control says whether a function returns directly or yields a promise.
type Control int

const (
	Returns Control = iota
	Promises
)

func (c Control) String() string {
	if c == Promises {
		return "async"
	}
	return ""
}

// TypeParam is a function type parameter with an (always-present) bound;
// an unconstrained parameter is bounded by Any.
type TypeParam struct {
	Name  string
	Bound Type
}

// FuncT is a function type: sort, control, type parameters with bounds, an
// argument sequence, and a result sequence.
type FuncT struct {
	Sort    FuncSort
	Ctrl    Control
	TParams []TypeParam
	Args    []Type
	Results []Type
}

func (t *FuncT) String() string {
	tp := ""
	if len(t.TParams) > 0 {
		ps := make([]string, len(t.TParams))
		for i, p := range t.TParams {
			ps[i] = fmt.Sprintf("%s <: %s", p.Name, p.Bound)
		}
		tp = "<" + strings.Join(ps, ", ") + ">"
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	res := make([]string, len(t.Results))
	for i, r := range t.Results {
		res[i] = r.String()
	}
	sort := t.Sort.String()
	if sort != "" {
		sort += " "
	}
	ctrl := t.Ctrl.String()
	if ctrl != "" {
		ctrl += " "
	}
	return fmt.Sprintf("%s%sfunc%s(%s) -> %s%s", sort, ctrl, tp, strings.Join(args, ", "), ctrl, "("+strings.Join(res, ", ")+")")
}
func (t *FuncT) Equals(o Type) bool {
	x, ok := Normalize(o).(*FuncT)
	if !ok || x.Sort != t.Sort || x.Ctrl != t.Ctrl || len(x.TParams) != len(t.TParams) ||
		len(x.Args) != len(t.Args) || len(x.Results) != len(t.Results) {
		return false
	}
	for i := range t.TParams {
		if t.TParams[i].Name != x.TParams[i].Name || !t.TParams[i].Bound.Equals(x.TParams[i].Bound) {
			return false
		}
	}
	for i := range t.Args {
		if !t.Args[i].Equals(x.Args[i]) {
			return false
		}
	}
	for i := range t.Results {
		if !t.Results[i].Equals(x.Results[i]) {
			return false
		}
	}
	return true
}

// AsyncT wraps the type of a future/promise.
type AsyncT struct{ Elem Type }

func (t *AsyncT) String() string { return "async " + t.Elem.String() }
func (t *AsyncT) Equals(o Type) bool {
	x, ok := Normalize(o).(*AsyncT)
	return ok && t.Elem.Equals(x.Elem)
}

// MutT wraps the type of a mutable cell (the type DeclareE introduces).
type MutT struct{ Elem Type }

func (t *MutT) String() string { return "var<" + t.Elem.String() + ">" }
func (t *MutT) Equals(o Type) bool {
	x, ok := Normalize(o).(*MutT)
	return ok && t.Elem.Equals(x.Elem)
}

// ConT is an application of a named type constructor (resolved against a
// TypeDefs table by Normalize).
type ConT struct {
	Name string
	Args []Type
}

func (t *ConT) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(parts, ", "))
}
func (t *ConT) Equals(o Type) bool {
	x, ok := Normalize(o).(*ConT)
	if !ok || x.Name != t.Name || len(x.Args) != len(t.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equals(x.Args[i]) {
			return false
		}
	}
	return true
}

// VarT is a type variable referenced by de Bruijn index (Name is kept only
// for pretty-printing and is not significant to equality).
type VarT struct {
	Index int
	Name  string
}

func (t *VarT) String() string {
	if t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("t%d", t.Index)
}
func (t *VarT) Equals(o Type) bool {
	x, ok := o.(*VarT)
	return ok && x.Index == t.Index
}

// sortFields/sortVariantAlts keep record/variant construction order-
// independent so typ_id and String are deterministic.
func sortFields(fs []Field) {
	for i := 1; i < len(fs); i++ {
		for j := i; j > 0 && fs[j-1].Name > fs[j].Name; j-- {
			fs[j-1], fs[j] = fs[j], fs[j-1]
		}
	}
}

func sortVariantAlts(as []VariantAlt) {
	for i := 1; i < len(as); i++ {
		for j := i; j > 0 && as[j-1].Label > as[j].Label; j-- {
			as[j-1], as[j] = as[j], as[j-1]
		}
	}
}
