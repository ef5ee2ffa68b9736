package dynstruct

// Build constructs a record from src and threads it through init.
//
// With a non-nil src, Build is New followed by init; init runs after the
// positional fields are set, so its writes overwrite them. When src is nil
// or an empty mapping and init is non-nil, the record starts empty, init
// populates it, and the result must hold at least one field. Every other
// empty case fails with ErrInvalidArgument, as does a non-mapping src.
func Build(src any, init func(*Record)) (*Record, error) {
	if init != nil && isEmptySource(src) {
		r := newRecord()
		init(r)
		if r.IsEmpty() {
			return nil, newInvalidArgument("record has no fields after initialization")
		}
		return r, nil
	}

	r, err := New(src)
	if err != nil {
		return nil, err
	}
	if init != nil {
		init(r)
	}
	return r, nil
}

// isEmptySource reports whether src is absent or a mapping with no entries.
func isEmptySource(src any) bool {
	n, ok := sourceLen(src)
	return ok && n == 0
}
