// Package version exposes the build version injected at link time.
package version

var version = "v0.0.0"

// Value returns the version the binary was built with.
func Value() string {
	return version
}
