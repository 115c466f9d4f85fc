//go:build sqlite_vec && cgo

package vectorstore

import (
	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

// Registers the sqlite-vec extension with the cgo sqlite3 driver. Store
// opens the pure-Go "sqlite" driver, so Search keeps its brute-force
// cosine scan in this build as well.
func init() {
	vec.Auto()
}
