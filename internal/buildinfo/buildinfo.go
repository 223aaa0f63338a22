// Package buildinfo holds release metadata set at link time:
//
//	go build -ldflags "-X github.com/aurule/npc/internal/buildinfo.Version=v2.0.0"
//
// All values are empty in development builds.
package buildinfo

var (
	Version = ""
	Commit  = ""
	Date    = ""
)
