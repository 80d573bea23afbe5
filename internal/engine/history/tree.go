package history

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors for history navigation. These are routine outcomes driven
// by UI state (undo at the root, redo at a tip), not caller bugs.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrUnknownNode   = errors.New("unknown history node")
)

// NodeID uniquely identifies a node for the node's lifetime.
type NodeID string

func newNodeID() NodeID {
	return NodeID(uuid.NewString())
}

// Node is one point in the history tree. The root node wraps no operation;
// every other node wraps the operation whose Do created its state.
// A node's position never changes after creation: no re-parenting, and no
// deletion short of a full Clear.
type Node struct {
	id NodeID
	op Operation

	// Description is cached at creation time since operations may mutate
	// their own labels later.
	desc      string
	timestamp time.Time

	parent   NodeID
	children []NodeID
}

// ID returns the node's identifier.
func (n *Node) ID() NodeID { return n.id }

// Description returns the label cached when the node was created.
func (n *Node) Description() string { return n.desc }

// Timestamp returns the node's creation time.
func (n *Node) Timestamp() time.Time { return n.timestamp }

// Parent returns the parent node id, or "" for the root.
func (n *Node) Parent() NodeID { return n.parent }

// IsRoot reports whether this is the sentinel root node.
func (n *Node) IsRoot() bool { return n.parent == "" }

// Children returns the child node ids in branch creation order.
func (n *Node) Children() []NodeID {
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out
}

// Tree is the branching history store. It owns an arena of nodes indexed by
// id and a current pointer marking the last forward-applied state.
//
// Structural invariant: replaying Do/Redo for each node on the path from
// root to current reconstructs the present observable state from a blank
// slate. Add, Undo, Redo and NavigateTo all preserve this.
type Tree struct {
	nodes   map[NodeID]*Node
	root    NodeID
	current NodeID
}

// NewTree creates a tree holding only the sentinel root.
func NewTree() *Tree {
	t := &Tree{}
	t.reset()
	return t
}

func (t *Tree) reset() {
	root := &Node{
		id:        newNodeID(),
		desc:      "",
		timestamp: time.Now(),
	}
	t.nodes = map[NodeID]*Node{root.id: root}
	t.root = root.id
	t.current = root.id
}

// Add applies op and records it as a new child of current, moving current
// to the new node. If current is not a tip this creates a sibling branch;
// existing children and their subtrees are untouched.
// If op.Do fails, no node is recorded and the error is returned.
func (t *Tree) Add(op Operation) (NodeID, error) {
	if err := op.Do(); err != nil {
		return "", err
	}
	return t.record(op), nil
}

// AddApplied records an operation that the caller has already applied.
// Used for batches whose operations were executed one at a time for live
// feedback before being recorded as a single node.
func (t *Tree) AddApplied(op Operation) NodeID {
	return t.record(op)
}

func (t *Tree) record(op Operation) NodeID {
	node := &Node{
		id:        newNodeID(),
		op:        op,
		desc:      op.Description(),
		timestamp: time.Now(),
		parent:    t.current,
	}
	t.nodes[node.id] = node

	cur := t.nodes[t.current]
	cur.children = append(cur.children, node.id)
	t.current = node.id
	return node.id
}

// Undo reverses the current node's operation and moves current to its
// parent. Returns ErrNothingToUndo at the root. If the operation's Undo
// fails, current does not move and the error is returned unmodified.
func (t *Tree) Undo() error {
	if t.current == t.root {
		return ErrNothingToUndo
	}
	node := t.nodes[t.current]
	if err := node.op.Undo(); err != nil {
		return err
	}
	t.current = node.parent
	return nil
}

// Redo advances current into its most recently created child and re-applies
// that child's operation. At a fork the newest branch wins: redo re-does
// what was just undone unless the user explicitly navigated elsewhere.
// Returns ErrNothingToRedo when current has no children.
func (t *Tree) Redo() error {
	cur := t.nodes[t.current]
	if len(cur.children) == 0 {
		return ErrNothingToRedo
	}
	next := t.nodes[cur.children[len(cur.children)-1]]
	if err := next.op.Redo(); err != nil {
		return err
	}
	t.current = next.id
	return nil
}

// NavigateTo moves current to an arbitrary node: it undoes each operation
// on the path from current up to the lowest common ancestor, then redoes
// each operation on the path down to the target, following the exact
// requested branch rather than the newest one.
// Navigating to the current node is a no-op success. Returns ErrUnknownNode
// for an id that names no node.
func (t *Tree) NavigateTo(id NodeID) error {
	if _, ok := t.nodes[id]; !ok {
		return ErrUnknownNode
	}
	if id == t.current {
		return nil
	}

	curChain := t.ancestry(t.current)
	tgtChain := t.ancestry(id)

	// Both chains start at the root; the LCA is the last point of agreement.
	k := 0
	for k+1 < len(curChain) && k+1 < len(tgtChain) && curChain[k+1] == tgtChain[k+1] {
		k++
	}
	lca := curChain[k]

	for t.current != lca {
		node := t.nodes[t.current]
		if err := node.op.Undo(); err != nil {
			return err
		}
		t.current = node.parent
	}
	for _, step := range tgtChain[k+1:] {
		node := t.nodes[step]
		if err := node.op.Redo(); err != nil {
			return err
		}
		t.current = step
	}
	return nil
}

// CanUndo reports whether current is below the root.
func (t *Tree) CanUndo() bool {
	return t.current != t.root
}

// CanRedo reports whether current has at least one child.
func (t *Tree) CanRedo() bool {
	return len(t.nodes[t.current].children) > 0
}

// Clear discards every node and recreates a fresh root. No operation is
// undone: the caller is expected to reset the underlying state out-of-band,
// e.g. when loading a new document.
func (t *Tree) Clear() {
	t.reset()
}

// Size returns the total node count including the root.
func (t *Tree) Size() int {
	return len(t.nodes)
}

// Root returns the sentinel root node.
func (t *Tree) Root() *Node {
	return t.nodes[t.root]
}

// Current returns the node whose operation was most recently applied.
func (t *Tree) Current() *Node {
	return t.nodes[t.current]
}

// CurrentID returns the id of the current node.
func (t *Tree) CurrentID() NodeID {
	return t.current
}

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Nodes returns every node, depth-first from the root with children in
// creation order. The order is stable for a given tree shape.
func (t *Tree) Nodes() []*Node {
	out := make([]*Node, 0, len(t.nodes))
	var visit func(id NodeID)
	visit = func(id NodeID) {
		n := t.nodes[id]
		out = append(out, n)
		for _, c := range n.children {
			visit(c)
		}
	}
	visit(t.root)
	return out
}

// ancestry returns the chain of node ids from the root down to id.
func (t *Tree) ancestry(id NodeID) []NodeID {
	var chain []NodeID
	for cur := id; cur != ""; cur = t.nodes[cur].parent {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
