// Package buildinfo exposes the version of the running respd binary.
//
// Version, Commit and BuildTime are injected with ldflags:
//
//	go build -ldflags "-X github.com/yndnr/respd-go/internal/infra/buildinfo.Version=v0.1.0"
//
// When they are left at their defaults, Get falls back to the module and VCS
// data recorded by the Go toolchain (debug.ReadBuildInfo).
package buildinfo
