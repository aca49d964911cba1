// Package logging provides opt-in file-based logging with rotation for llmx.
// When the --debug flag is set, structured logs are written to ~/.llmx/logs/
// for debugging and troubleshooting.
//
// By default (without --debug), logging is minimal and goes to stderr only.
package logging
