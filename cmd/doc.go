// Package cmd implements the inboxpilot command line interface.
package cmd
