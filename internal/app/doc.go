// Package app is the orchestrator facade. It turns configuration and project
// declarations into a ready project graph and exposes the clean operation,
// decoupled from any specific entrypoint like the CLI.
//
// An Orchestrator holds exactly one graph for its lifetime. Nothing is kept
// in package-level state; callers construct the Orchestrator explicitly and
// drop it when done.
package app
