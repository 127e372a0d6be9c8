// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "-X github.com/orakul/orakul/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/orakul/orakul/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/orakul/orakul/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/orakul
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, %s)\n", Version, Commit, Date)
}
