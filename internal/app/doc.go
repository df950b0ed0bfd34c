// Package app provides the main application logic behind the CLI commands.
// It wires the archive service, the path resolver and the logging setup
// together and executes one command per entry point.
package app
