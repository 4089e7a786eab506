package ir

import "github.com/sunholo/actorc/internal/types"

// StdlibPreludeSignatures lists the identifiers the show-desugaring pass
// (show.go) references by name and expects the stdlib prelude
// (an external collaborator, §6) to supply. Show.textOfRef checks every
// "@text_of_*" name it is about to emit against this map at the point of
// construction, raising SHOW003 for a type with no prelude renderer
// (e.g. Float/Char/Blob, none of which are listed here) rather than
// emitting a reference alpha-rename would later reject as unbound.
func StdlibPreludeSignatures() map[string]types.Type {
	text := &types.PrimT{P: types.Text}
	sig := func(arg types.Type) types.Type {
		return &types.FuncT{Sort: types.SortLocal, Ctrl: types.Returns, Args: []types.Type{arg}, Results: []types.Type{text}}
	}

	sigs := map[string]types.Type{
		"@text_of_Bool":  sig(&types.PrimT{P: types.Bool}),
		"@text_of_Nat":   sig(&types.PrimT{P: types.Nat}),
		"@text_of_Int":   sig(&types.PrimT{P: types.Int}),
		"@text_of_Nat8":  sig(&types.PrimT{P: types.Nat8}),
		"@text_of_Nat16": sig(&types.PrimT{P: types.Nat16}),
		"@text_of_Nat32": sig(&types.PrimT{P: types.Nat32}),
		"@text_of_Nat64": sig(&types.PrimT{P: types.Nat64}),
		"@text_of_Int8":  sig(&types.PrimT{P: types.Int8}),
		"@text_of_Int16": sig(&types.PrimT{P: types.Int16}),
		"@text_of_Int32": sig(&types.PrimT{P: types.Int32}),
		"@text_of_Int64": sig(&types.PrimT{P: types.Int64}),
		"@text_of_Text":  sig(text),
	}

	// @text_of_option, @text_of_array, @text_of_array_mut, and
	// @text_of_variant are all polymorphic in the element/payload type;
	// show.go constructs their call-site FuncT per instantiation rather
	// than looking it up here, so only their existence (not a single
	// monomorphic signature) matters to Show.textOfRef's membership check.
	for _, name := range []string{"@text_of_option", "@text_of_array", "@text_of_array_mut", "@text_of_variant"} {
		sigs[name] = nil
	}
	return sigs
}
