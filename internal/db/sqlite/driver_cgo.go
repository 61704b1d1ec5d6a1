//go:build cgo_sqlite

package sqlite

// Build with CGO_ENABLED=1 go build -tags cgo_sqlite ./...

import (
	_ "github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver registered by this build.
const DriverName = "sqlite3"

// BuildMode describes the current build configuration.
const BuildMode = "cgo"
