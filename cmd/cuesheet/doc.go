// Package main hosts the cuesheet CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into project
// imports, learned-pattern curation, track database queries, and
// configuration scaffolding. It centralizes configuration resolution and
// store wiring so subcommands can focus on user experience.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
