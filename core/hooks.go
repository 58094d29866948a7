package core

// BeforeInserter is called by Table.Insert before the entry is keyed.
// A returned error rejects the entry.
type BeforeInserter interface{ BeforeInsert() error }

// AfterLoader is called by Codec.FromRow once the entry has been filled.
type AfterLoader interface{ AfterLoad() error }

func callBeforeInsert(v any) error {
	if h, ok := v.(BeforeInserter); ok {
		return h.BeforeInsert()
	}
	return nil
}

func callAfterLoad(v any) error {
	if h, ok := v.(AfterLoader); ok {
		return h.AfterLoad()
	}
	return nil
}
