// Package cli wires the prkit root command: configuration loading,
// structured logging, environment defaults for CI execution, and the
// pull request annotation subcommands.
package cli
