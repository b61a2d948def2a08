package emit

import (
	"context"
	"os"

	"connlint/internal/ir"
	"connlint/internal/store"
)

// writeIndex ingests the bundle's atoms into the SQLite index at path.
// Unlike the other emitters this writes through the database driver, so
// it does not go through the renderers map. A pre-existing index file is
// removed first: the emitter contract is per-run artifacts, not an
// accumulating database (use the store package directly for that).
func writeIndex(bundle *ir.Bundle, path string, opts Options) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	_, err = st.IngestRun(context.Background(), bundle, BuildAtoms(bundle, opts))
	return err
}
