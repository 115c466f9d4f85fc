//go:build sqlite_vec && cgo

package vectorstore

import (
	_ "github.com/mattn/go-sqlite3"
)

// cgoDriverName is the database/sql name of mattn/go-sqlite3, the cgo
// driver linked in by the sqlite_vec tag and the one vec.Auto() in
// init_vec.go registers against (not the pure-Go modernc one). Open does
// not use it: it always opens the pure-Go "sqlite" driver.
const cgoDriverName = "sqlite3"
