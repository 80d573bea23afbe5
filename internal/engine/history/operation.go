package history

import "fmt"

// Operation is a single reversible unit of work.
// Implementations mutate caller-owned state; the engine never looks inside.
type Operation interface {
	// Do applies the forward effect.
	Do() error

	// Undo reverses the effect applied by the most recent Do or Redo.
	Undo() error

	// Redo re-applies the effect. For atomic operations this is usually
	// identical to Do; composites replay their children's Redo.
	Redo() error

	// Description returns a stable, human-readable label. Pure.
	Description() string
}

// Composite groups an ordered sequence of operations into one logical unit.
// Do and Redo replay children in forward order; Undo replays them in reverse
// order, mirroring the stack discipline needed when children mutate shared
// state. An empty composite is legal and all its methods are no-ops.
type Composite struct {
	desc string
	ops  []Operation
}

// NewComposite creates an empty composite with the given description.
func NewComposite(desc string) *Composite {
	return &Composite{desc: desc}
}

// Add appends an operation. Children are only ever appended, never removed.
func (c *Composite) Add(op Operation) {
	c.ops = append(c.ops, op)
}

// Len returns the number of child operations.
func (c *Composite) Len() int {
	return len(c.ops)
}

// Do applies all children in forward order.
// If a child fails mid-sequence, already-applied children are not rolled
// back; the error is returned to the caller as-is.
func (c *Composite) Do() error {
	for _, op := range c.ops {
		if err := op.Do(); err != nil {
			return err
		}
	}
	return nil
}

// Redo re-applies all children in forward order.
func (c *Composite) Redo() error {
	for _, op := range c.ops {
		if err := op.Redo(); err != nil {
			return err
		}
	}
	return nil
}

// Undo reverses all children in reverse order.
func (c *Composite) Undo() error {
	for i := len(c.ops) - 1; i >= 0; i-- {
		if err := c.ops[i].Undo(); err != nil {
			return err
		}
	}
	return nil
}

// Description returns the base description, suffixed with the operation
// count once the composite is non-empty.
func (c *Composite) Description() string {
	if len(c.ops) == 0 {
		return c.desc
	}
	return fmt.Sprintf("%s (%d operations)", c.desc, len(c.ops))
}

// Ensure Composite implements Operation.
var _ Operation = (*Composite)(nil)
