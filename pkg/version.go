// Package trapdb holds build information of the trapdb command.
package trapdb

var (
	// Version of trapdb, set during build.
	Version = "v0.1.0"

	// Build timestamp, set during build.
	Build = "n/a"
)
