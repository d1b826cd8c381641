// Package repl provides the interactive mode of respd-cli.
//
//   - repl.go: the read-eval-print loop and built-in commands
//   - args.go: redis-cli compatible argument splitting with quoting
//   - completer.go: command name completion
//   - history.go: command history persistence
//
// Lines are split into arguments and handed to an Executor, which sends
// them to the server and prints the reply.
package repl
