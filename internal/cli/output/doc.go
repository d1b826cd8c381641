// Package output renders RESP replies for respd-cli.
//
//   - formatter.go: Format selection and the Formatter interface
//   - reply.go: conversion of RESP values to a printable Reply
//   - text.go: redis-cli style text rendering
//   - json.go: JSON output
//   - yaml.go: YAML output
//
// JSON and YAML are meant for scripts; text is meant for people.
package output
