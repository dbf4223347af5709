package cli

import "strings"

// Version and Date should be set at build time using ldflags, e.g.:
//
//	-ldflags "-X 'github.com/flarebyte/fencerun/cli.Version=1.2.3' -X 'github.com/flarebyte/fencerun/cli.Date=2026-10-19'"
var (
	Version string
	Date    string
)

// NiceDate returns Date with dashes replaced by spaces for display.
func NiceDate() string {
	return strings.ReplaceAll(Date, "-", " ")
}
