// Package logistics holds release metadata for the logistics module.
package logistics

// Version is the release version reported by the CLI.
const Version = "0.1.0"

// ModulePath is the Go module path.
const ModulePath = "github.com/mesh-intelligence/logistics"
