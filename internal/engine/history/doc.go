// Package history provides branching undo/redo for the waveform viewer.
//
// Unlike a linear undo stack, history is kept as a tree: undoing and then
// performing a new operation does not discard the undone future, it creates
// a sibling branch. The user can travel backward, forward, and sideways into
// any recorded state. Key concepts:
//
// # Operations
//
// An Operation is an atomic, reversible unit of work implementing
// Do/Undo/Redo plus a human-readable Description. The engine never inspects
// an operation's internals; callers supply operations over their own state.
//
// # Composites
//
// A Composite groups an ordered sequence of operations into one logical
// unit. Do and Redo replay children in forward order, Undo in reverse.
// Composites implement Operation themselves, so composites of composites
// work without special handling.
//
// # The Tree
//
// The Tree owns the node graph and the current pointer:
//
//	tree := history.NewTree()
//	tree.Add(op)        // applies op, appends a node under current
//	tree.Undo()         // moves current to its parent
//	tree.Redo()         // moves current into the newest child branch
//	tree.NavigateTo(id) // walks to any node via the lowest common ancestor
//
// Replaying Do/Redo along the root-to-current path from a blank slate always
// reconstructs the present observable state; every mutation preserves that
// invariant.
//
// # The Coordinator
//
// The Coordinator wraps one Tree per logical document and adds batch
// recording plus a single change-notification hook:
//
//	coord := history.NewCoordinator()
//	coord.BeginBatch("Add bus signals")
//	coord.Execute(op1)
//	coord.Execute(op2)
//	coord.EndBatch() // one tree node, one undo step
//
// The package is not safe for concurrent use. Each Coordinator (and its
// Tree) is owned by a single document session and driven from one goroutine.
package history
