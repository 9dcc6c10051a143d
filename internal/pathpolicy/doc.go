// Package pathpolicy decides where a project's build output lives.
//
// Every project writes into its own directory directly below a shared output
// root. The functions here are pure: they never touch the filesystem and only
// reason about path strings, which keeps the containment guarantee (no project
// can escape the root) checkable without I/O.
package pathpolicy
