package types

// MonomorphKey is the pure function an interface-description collaborator
// calls to get a stable monomorphisation key for a normalised type. The
// core itself keeps no stamp table of its own (see §5/§6 of the
// specification): TypeID is the only state-producing step, and it is a
// pure function of its argument, so nothing here needs resetting between
// compilations.
func MonomorphKey(t Type) (string, error) {
	return TypeID(t)
}
