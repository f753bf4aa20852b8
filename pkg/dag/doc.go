// Package dag provides the directed acyclic graph used to order resources
// by their declared dependencies.
//
// # Overview
//
// A page that needs a resource must also include everything that resource
// depends on, and it must include the dependencies first. This package
// models resources as nodes and "depends on" as edges pointing from the
// dependent to its dependency, so [DAG.Children] of a node are the things it
// needs before it.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "app.js"})
//	g.AddNode(dag.Node{ID: "jquery.js"})
//	g.AddEdge(dag.Edge{From: "app.js", To: "jquery.js"})
//
//	order, err := g.DependencyOrder(nil) // [jquery.js app.js]
//
// # Ordering
//
// [DAG.DependencyOrder] is Kahn's algorithm run from the sinks upward. When
// several nodes are ready at once the caller's less function picks between
// them, which is how CSS-before-JS and first-need ordering are expressed
// without this package knowing about either. Without a less function ties
// break by insertion order, so the result is deterministic.
//
// # Cycles
//
// [DAG.Validate] detects cycles with depth-first search using white/gray/black
// coloring. [DAG.DependencyOrder] also reports [ErrGraphHasCycle] when nodes
// remain that can never become ready.
//
// # Export
//
// [ToDOT] writes the graph in Graphviz DOT format and [RenderSVG] renders it
// with the embedded Graphviz build.
//
// # Concurrency
//
// DAG is not safe for concurrent use. Build a graph, query it, and discard
// it from a single goroutine.
package dag
