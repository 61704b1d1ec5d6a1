//go:build !cgo_sqlite

package sqlite

import (
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by this build.
const DriverName = "sqlite"

// BuildMode describes the current build configuration.
const BuildMode = "purego"
