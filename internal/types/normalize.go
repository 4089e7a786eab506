package types

import (
	"fmt"
	"sort"
	"strings"
)

// TypeDef is a named type-constructor definition: Params are the de Bruijn
// slots Body may refer to via VarT.
type TypeDef struct {
	Name   string
	Params []string
	Body   Type
}

// TypeDefs resolves ConT applications during normalisation. A nil table
// normalises ConT to itself (no definitions known), which is adequate for
// passes that only ever see already-normalised types.
type TypeDefs map[string]*TypeDef

// Normalize unfolds type-constructor applications and resolves references,
// producing the canonical structural form used by Equals, TypeID, and the
// show-desugaring pass. It is grounded on the teacher's
// NormalizeTypeName switch-per-shape structure, generalised from a
// print-only routine into one that actually substitutes type parameters
// and unfolds ConT nodes (the teacher's version never unfolds — AILANG has
// no user type-constructor applications reaching this function).
func Normalize(t Type) Type {
	return normalizeWith(t, nil, map[string]bool{})
}

// NormalizeIn is Normalize using an explicit definitions table, for
// resolving user type constructors.
func NormalizeIn(t Type, defs TypeDefs) Type {
	return normalizeWith(t, defs, map[string]bool{})
}

func normalizeWith(t Type, defs TypeDefs, onPath map[string]bool) Type {
	switch x := t.(type) {
	case *ConT:
		def, ok := defs[x.Name]
		if !ok {
			// Unknown constructor (or no table supplied): leave as-is but
			// normalise the arguments for determinism.
			args := make([]Type, len(x.Args))
			for i, a := range x.Args {
				args[i] = normalizeWith(a, defs, onPath)
			}
			return &ConT{Name: x.Name, Args: args}
		}
		if onPath[x.Name] {
			// Recursive type: stop unfolding on this path and keep the
			// constructor application so the traversal terminates.
			args := make([]Type, len(x.Args))
			for i, a := range x.Args {
				args[i] = normalizeWith(a, defs, onPath)
			}
			return &ConT{Name: x.Name, Args: args}
		}
		sub := make(map[int]Type, len(def.Params))
		for i, a := range x.Args {
			if i < len(def.Params) {
				sub[i] = normalizeWith(a, defs, onPath)
			}
		}
		nextPath := make(map[string]bool, len(onPath)+1)
		for k := range onPath {
			nextPath[k] = true
		}
		nextPath[x.Name] = true
		return normalizeWith(substituteVars(def.Body, sub), defs, nextPath)

	case *TupT:
		elems := make([]Type, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = normalizeWith(e, defs, onPath)
		}
		return &TupT{Elems: elems}

	case *ArrayT:
		return &ArrayT{Elem: normalizeWith(x.Elem, defs, onPath), Mut: x.Mut}

	case *OptT:
		return &OptT{Elem: normalizeWith(x.Elem, defs, onPath)}

	case *VariantT:
		alts := make([]VariantAlt, len(x.Alts))
		for i, a := range x.Alts {
			p := a.Payload
			if p != nil {
				p = normalizeWith(p, defs, onPath)
			}
			alts[i] = VariantAlt{Label: a.Label, Payload: p}
		}
		return NewVariantT(alts)

	case *ObjT:
		fields := make([]Field, len(x.Fields))
		for i, f := range x.Fields {
			fields[i] = Field{Name: f.Name, Type: normalizeWith(f.Type, defs, onPath), Mut: f.Mut}
		}
		return NewObjT(x.Sort, fields)

	case *FuncT:
		args := make([]Type, len(x.Args))
		for i, a := range x.Args {
			args[i] = normalizeWith(a, defs, onPath)
		}
		results := make([]Type, len(x.Results))
		for i, r := range x.Results {
			results[i] = normalizeWith(r, defs, onPath)
		}
		tparams := make([]TypeParam, len(x.TParams))
		for i, p := range x.TParams {
			tparams[i] = TypeParam{Name: p.Name, Bound: normalizeWith(p.Bound, defs, onPath)}
		}
		return &FuncT{Sort: x.Sort, Ctrl: x.Ctrl, TParams: tparams, Args: args, Results: results}

	case *AsyncT:
		return &AsyncT{Elem: normalizeWith(x.Elem, defs, onPath)}

	case *MutT:
		return &MutT{Elem: normalizeWith(x.Elem, defs, onPath)}

	default:
		// PrimT, VarT: already canonical.
		return t
	}
}

// substituteVars replaces VarT{Index: i} with sub[i] throughout t.
func substituteVars(t Type, sub map[int]Type) Type {
	switch x := t.(type) {
	case *VarT:
		if r, ok := sub[x.Index]; ok {
			return r
		}
		return x
	case *TupT:
		elems := make([]Type, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = substituteVars(e, sub)
		}
		return &TupT{Elems: elems}
	case *ArrayT:
		return &ArrayT{Elem: substituteVars(x.Elem, sub), Mut: x.Mut}
	case *OptT:
		return &OptT{Elem: substituteVars(x.Elem, sub)}
	case *VariantT:
		alts := make([]VariantAlt, len(x.Alts))
		for i, a := range x.Alts {
			p := a.Payload
			if p != nil {
				p = substituteVars(p, sub)
			}
			alts[i] = VariantAlt{Label: a.Label, Payload: p}
		}
		return &VariantT{Alts: alts}
	case *ObjT:
		fields := make([]Field, len(x.Fields))
		for i, f := range x.Fields {
			fields[i] = Field{Name: f.Name, Type: substituteVars(f.Type, sub), Mut: f.Mut}
		}
		return &ObjT{Sort: x.Sort, Fields: fields}
	case *FuncT:
		args := make([]Type, len(x.Args))
		for i, a := range x.Args {
			args[i] = substituteVars(a, sub)
		}
		results := make([]Type, len(x.Results))
		for i, r := range x.Results {
			results[i] = substituteVars(r, sub)
		}
		return &FuncT{Sort: x.Sort, Ctrl: x.Ctrl, TParams: x.TParams, Args: args, Results: results}
	case *AsyncT:
		return &AsyncT{Elem: substituteVars(x.Elem, sub)}
	case *MutT:
		return &MutT{Elem: substituteVars(x.Elem, sub)}
	case *ConT:
		args := make([]Type, len(x.Args))
		for i, a := range x.Args {
			args[i] = substituteVars(a, sub)
		}
		return &ConT{Name: x.Name, Args: args}
	default:
		return t
	}
}

// TypeID produces typ_id(t): a canonical string for a normalised type, used
// as the worklist/seen-set key by the show-desugaring pass (§4.4) and as
// the monomorphisation key the interface-description collaborator reads
// (see MonomorphKey in ifacekey.go). Domain: normalised types with no free
// type variables; a free VarT is an internal compiler error (the show pass
// converts this into SHOW001) because the caller should have generalised
// or instantiated first. Injective modulo type equality: two types that
// are Equals() always render identical IDs because both traverse the same
// normalised structure. Terminating on recursive types because Normalize
// already broke cycles into bare ConT nodes before TypeID ever sees them.
func TypeID(t Type) (string, error) {
	return typeID(Normalize(t))
}

func typeID(t Type) (string, error) {
	switch x := t.(type) {
	case *PrimT:
		return x.P.String(), nil
	case *VarT:
		return "", fmt.Errorf("typ_id: free type variable %s", x)
	case *TupT:
		parts := make([]string, len(x.Elems))
		for i, e := range x.Elems {
			id, err := typeID(e)
			if err != nil {
				return "", err
			}
			parts[i] = id
		}
		return "Tuple<" + strings.Join(parts, ",") + ">", nil
	case *ArrayT:
		id, err := typeID(x.Elem)
		if err != nil {
			return "", err
		}
		if x.Mut {
			return "ArrayMut<" + id + ">", nil
		}
		return "Array<" + id + ">", nil
	case *OptT:
		id, err := typeID(x.Elem)
		if err != nil {
			return "", err
		}
		return "Option<" + id + ">", nil
	case *VariantT:
		alts := append([]VariantAlt(nil), x.Alts...)
		sort.Slice(alts, func(i, j int) bool { return alts[i].Label < alts[j].Label })
		parts := make([]string, len(alts))
		for i, a := range alts {
			if a.Payload == nil {
				parts[i] = a.Label
				continue
			}
			id, err := typeID(a.Payload)
			if err != nil {
				return "", err
			}
			parts[i] = a.Label + ":" + id
		}
		return "Variant<" + strings.Join(parts, ",") + ">", nil
	case *ObjT:
		fields := append([]Field(nil), x.Fields...)
		sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
		parts := make([]string, len(fields))
		for i, f := range fields {
			id, err := typeID(f.Type)
			if err != nil {
				return "", err
			}
			parts[i] = f.Name + ":" + id
		}
		return fmt.Sprintf("Object<%s,%s>", x.Sort, strings.Join(parts, ",")), nil
	case *FuncT:
		return "Func", nil
	case *AsyncT:
		id, err := typeID(x.Elem)
		if err != nil {
			return "", err
		}
		return "Async<" + id + ">", nil
	case *MutT:
		id, err := typeID(x.Elem)
		if err != nil {
			return "", err
		}
		return "Mut<" + id + ">", nil
	case *ConT:
		// Unresolved or recursive constructor application: identify by name
		// plus argument ids, never expanding further (this is what
		// guarantees termination for recursive type definitions).
		parts := make([]string, len(x.Args))
		for i, a := range x.Args {
			id, err := typeID(a)
			if err != nil {
				return "", err
			}
			parts[i] = id
		}
		if len(parts) == 0 {
			return "Con<" + x.Name + ">", nil
		}
		return fmt.Sprintf("Con<%s,%s>", x.Name, strings.Join(parts, ",")), nil
	default:
		return "", fmt.Errorf("typ_id: unhandled type %T", t)
	}
}
