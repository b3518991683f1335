// Package history keeps a local SQLite log of translations made from the
// interactive shell and the one-shot translate command.
package history
