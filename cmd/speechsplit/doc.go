// Package main hosts the speechsplit CLI entrypoint and command graph.
//
// The Cobra-based command tree segments recordings, inspects and maintains
// the fragment cache, and scaffolds configuration. It centralizes
// configuration resolution and structured logging setup so subcommands can
// focus on user experience instead of wiring.
package main
