// Package migrations applies the embedded schema at startup through the
// bootstrap database init hook.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"time"

	"github.com/pagecraft/funnels/common/db"
)

//go:embed *.sql
var files embed.FS

// Apply runs all embedded migration files in lexical order. Statements are
// written to be idempotent, so reapplying on every boot is safe.
func Apply(database *db.DB) error {
	entries, err := files.ReadDir(".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, name := range names {
		sql, err := files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := database.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}

	return nil
}
