package types

// Subtype decides structural subtyping between normalised types: is a a
// subtype of b? Both equality and subtyping are decidable for the closed
// grammar of §3 (no unbounded recursion through Normalize, finite field
// sets), which this recursive descent witnesses directly.
func Subtype(a, b Type) bool {
	a, b = Normalize(a), Normalize(b)

	if _, ok := b.(*PrimT); ok {
		if bp := b.(*PrimT); bp.P == AnyPrim {
			return true
		}
	}
	if ap, ok := a.(*PrimT); ok && ap.P == NonPrim {
		return true // Non is the bottom type, a subtype of everything
	}

	switch bx := b.(type) {
	case *PrimT:
		ax, ok := a.(*PrimT)
		return ok && ax.P == bx.P

	case *TupT:
		ax, ok := a.(*TupT)
		if !ok || len(ax.Elems) != len(bx.Elems) {
			return false
		}
		for i := range ax.Elems {
			if !Subtype(ax.Elems[i], bx.Elems[i]) {
				return false
			}
		}
		return true

	case *ArrayT:
		ax, ok := a.(*ArrayT)
		if !ok || ax.Mut != bx.Mut {
			return false
		}
		if ax.Mut {
			return ax.Elem.Equals(bx.Elem) // mutable arrays are invariant
		}
		return Subtype(ax.Elem, bx.Elem) // immutable arrays are covariant

	case *OptT:
		ax, ok := a.(*OptT)
		return ok && Subtype(ax.Elem, bx.Elem)

	case *VariantT:
		// Depth/width subtyping: every alternative in a must appear in b
		// with a subtype payload (a narrower variant is a subtype of a
		// wider one, matching how a switch over b can accept a value
		// typed a).
		ax, ok := a.(*VariantT)
		if !ok {
			return false
		}
		bmap := make(map[string]Type, len(bx.Alts))
		for _, alt := range bx.Alts {
			bmap[alt.Label] = alt.Payload
		}
		for _, alt := range ax.Alts {
			bp, found := bmap[alt.Label]
			if !found {
				return false
			}
			if (alt.Payload == nil) != (bp == nil) {
				return false
			}
			if alt.Payload != nil && !Subtype(alt.Payload, bp) {
				return false
			}
		}
		return true

	case *ObjT:
		// Width/depth subtyping: a must have at least b's fields, mutable
		// fields invariant, immutable fields covariant.
		ax, ok := a.(*ObjT)
		if !ok || ax.Sort != bx.Sort {
			return false
		}
		for _, bf := range bx.Fields {
			af, found := ax.FieldByName(bf.Name)
			if !found || af.Mut != bf.Mut {
				return false
			}
			if af.Mut {
				if !af.Type.Equals(bf.Type) {
					return false
				}
			} else if !Subtype(af.Type, bf.Type) {
				return false
			}
		}
		return true

	case *FuncT:
		ax, ok := a.(*FuncT)
		if !ok || ax.Sort != bx.Sort || ax.Ctrl != bx.Ctrl ||
			len(ax.Args) != len(bx.Args) || len(ax.Results) != len(bx.Results) ||
			len(ax.TParams) != len(bx.TParams) {
			return false
		}
		for i := range ax.Args {
			if !Subtype(bx.Args[i], ax.Args[i]) { // contravariant in arguments
				return false
			}
		}
		for i := range ax.Results {
			if !Subtype(ax.Results[i], bx.Results[i]) { // covariant in results
				return false
			}
		}
		return true

	case *AsyncT:
		ax, ok := a.(*AsyncT)
		return ok && Subtype(ax.Elem, bx.Elem)

	case *MutT:
		ax, ok := a.(*MutT)
		return ok && ax.Elem.Equals(bx.Elem) // mutable cells are invariant

	case *VarT:
		ax, ok := a.(*VarT)
		return ok && ax.Index == bx.Index

	case *ConT:
		return a.Equals(b)

	default:
		return a.Equals(b)
	}
}
