// Package cli provides command-line interface setup and configuration
// for mtrans. It handles flag parsing, command creation, and configuration
// management using cobra and viper, and wires the translator components
// together for each command.
package cli
