package history

import "errors"

// Batch protocol errors. Unlike the navigation errors in tree.go these
// indicate a caller bug: batches do not nest, and there is nothing to end
// or cancel while idle.
var (
	ErrBatchOpen = errors.New("batch already open")
	ErrNoBatch   = errors.New("no batch open")
)

// Coordinator wraps one Tree and adds batch recording plus a single
// change-notification hook for UI refresh. Create one Coordinator per
// logical document; independent histories must not share an instance.
type Coordinator struct {
	tree     *Tree
	batch    *Composite
	onChange func()
}

// NewCoordinator creates a coordinator around a fresh tree.
func NewCoordinator() *Coordinator {
	return &Coordinator{tree: NewTree()}
}

// Tree exposes the underlying tree for read-only display: the presentation
// adapter walks nodes and renders the current pointer from here.
func (c *Coordinator) Tree() *Tree {
	return c.tree
}

// SetOnChange registers the change-notification callback, replacing any
// previous registration. At most one observer; pass nil to unregister.
func (c *Coordinator) SetOnChange(fn func()) {
	c.onChange = fn
}

func (c *Coordinator) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}

// Execute applies an operation. Outside a batch it is recorded as a new
// tree node and the change notification fires. Inside a batch the operation
// is applied immediately and accumulated; no node is created until EndBatch.
func (c *Coordinator) Execute(op Operation) error {
	if c.batch != nil {
		if err := op.Do(); err != nil {
			return err
		}
		c.batch.Add(op)
		return nil
	}
	if _, err := c.tree.Add(op); err != nil {
		return err
	}
	c.notify()
	return nil
}

// BeginBatch opens a batch with the given description. Returns ErrBatchOpen
// if a batch is already open; batches do not nest.
func (c *Coordinator) BeginBatch(desc string) error {
	if c.batch != nil {
		return ErrBatchOpen
	}
	c.batch = NewComposite(desc)
	return nil
}

// EndBatch records the open batch as a single tree node. A batch with zero
// recorded operations is discarded silently: it has no observable effect and
// should not appear in history, so no node is created and no notification
// fires. Returns ErrNoBatch while idle.
func (c *Coordinator) EndBatch() error {
	if c.batch == nil {
		return ErrNoBatch
	}
	batch := c.batch
	c.batch = nil
	if batch.Len() == 0 {
		return nil
	}
	// Operations were already executed one by one during Execute.
	c.tree.AddApplied(batch)
	c.notify()
	return nil
}

// CancelBatch reverses every operation executed in the open batch, newest
// first, and discards the batch without recording a node. Returns ErrNoBatch
// while idle.
func (c *Coordinator) CancelBatch() error {
	if c.batch == nil {
		return ErrNoBatch
	}
	batch := c.batch
	c.batch = nil
	return batch.Undo()
}

// IsBatching reports whether a batch is open.
func (c *Coordinator) IsBatching() bool {
	return c.batch != nil
}

// Undo delegates to the tree and fires the change notification on success.
func (c *Coordinator) Undo() error {
	if err := c.tree.Undo(); err != nil {
		return err
	}
	c.notify()
	return nil
}

// Redo delegates to the tree and fires the change notification on success.
func (c *Coordinator) Redo() error {
	if err := c.tree.Redo(); err != nil {
		return err
	}
	c.notify()
	return nil
}

// NavigateTo delegates to the tree and fires the change notification on
// success.
func (c *Coordinator) NavigateTo(id NodeID) error {
	if err := c.tree.NavigateTo(id); err != nil {
		return err
	}
	c.notify()
	return nil
}

// CanUndo reports whether an undo step is available.
func (c *Coordinator) CanUndo() bool {
	return c.tree.CanUndo()
}

// CanRedo reports whether a redo step is available.
func (c *Coordinator) CanRedo() bool {
	return c.tree.CanRedo()
}

// Clear discards the whole tree and any open batch, then fires the change
// notification. Batch operations are not undone; like Tree.Clear this
// assumes the caller is resetting the underlying state out-of-band.
func (c *Coordinator) Clear() {
	c.batch = nil
	c.tree.Clear()
	c.notify()
}
