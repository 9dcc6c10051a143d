// Package graph builds the project graph: the validated set of projects in a
// multi-project build, each with an output directory under a shared root and
// a deterministic evaluation order.
//
// # Construction
//
// Build is the only way to obtain a *Graph, and it is all-or-nothing. It
//
//  1. validates the output root,
//  2. creates one project.Node per declaration, rejecting duplicates,
//  3. assigns every node root/<identity> through pathpolicy,
//  4. resolves evaluation dependencies, rejecting undeclared identities,
//  5. rejects dependency cycles, naming every member of the cycle,
//  6. computes the evaluation order.
//
// Any failure returns a *Error and no graph, so a half-validated graph is
// never observable.
//
// # Evaluation order
//
// A project is ordered after all of its dependencies. Projects that become
// ready at the same time keep their declaration order, which makes the order
// stable across runs for the same declarations.
//
// # Concurrency
//
// A *Graph is immutable once returned and safe for concurrent reads.
package graph
