// Package assets holds files compiled into the binary: the SQL migrations
// applied by the SQLite store.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed sql/*.sql
var FS embed.FS

// Migrations returns the migration scripts rooted at the sql directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	return sub
}
