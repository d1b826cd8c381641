// Package command defines the respd-cli commands using urfave/cli/v2:
//
//   - root.go: the application, global flags and reply printing
//   - resp.go: ping, echo and raw, one request per invocation
//   - repl.go: the interactive mode
package command
