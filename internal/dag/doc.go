// Package dag holds the partial-order engine behind the project graph: a set
// of string-identified vertices with "must come after" edges, cycle detection
// and a deterministic topological order.
//
// Determinism comes from insertion order. Vertices remember the order in which
// they were added, DFS visits them in that order, and the topological sort
// breaks ties by it, so the same declarations always produce the same order
// and the same cycle report.
package dag
