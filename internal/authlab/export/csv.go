package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/authlab/internal/authlab/frame"
	"github.com/aussiebroadwan/authlab/internal/authlab/store"
)

// CSV writes every table in the snapshot to dir as <table>.csv, creating dir
// when needed. It returns the row count written per table.
func CSV(ctx context.Context, tables store.Tables, dir string) (map[string]int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	names, err := tables.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	counts := make(map[string]int, len(names))
	for _, name := range names {
		f, err := frame.Read(ctx, tables, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if err := writeFile(filepath.Join(dir, name+".csv"), f); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
		counts[name] = f.Len()
	}
	return counts, nil
}

func writeFile(path string, f *frame.Frame) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return f.WriteCSV(out)
}
