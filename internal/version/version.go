// Package version exposes build information injected at link time.
package version

// Set via -ldflags "-X .../internal/version.Version=... -X .../internal/version.Commit=..."
var (
	Version = "dev"
	Commit  = "unknown"
)

// Info is the payload returned by the /version endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: Version, Commit: Commit}
}
