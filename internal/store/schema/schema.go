// Package schema holds the DDL for the contacts table, one file per supported driver.
package schema

import "embed"

//go:embed *.sql
var FS embed.FS
