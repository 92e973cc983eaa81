package migrations

import "embed"

// FS holds the SQL migrations compiled into the binary so the server
// can bootstrap its schema without external files.
//
//go:embed *.sql
var FS embed.FS
