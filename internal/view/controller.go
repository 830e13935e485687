package view

import "fmt"

// State is the active verse layout.
type State string

const (
	StateParallel State = "parallel"
	StateSingle   State = "single"
)

// ParseState maps a query value to a State, defaulting to single — the
// layout the chapter page forces once verses finish rendering.
func ParseState(s string) State {
	if s == string(StateParallel) {
		return StateParallel
	}
	return StateSingle
}

// Renderer turns row data into markup.
type Renderer interface {
	Parallel(rows []Row) (string, error)
	Single(items []Item) (string, error)
}

// Controller owns the rendered verse area of one chapter page: the row
// model, the active layout, and the lazily captured parallel snapshot
// that lets the toggle restore the two-column markup without refetching.
type Controller struct {
	rows     []Row
	renderer Renderer

	state    State
	markup   string
	snapshot string // parallel markup, captured on first EnterSingle
	items    []Item // live single-view items; nil in parallel state
}

// NewController renders the rows in parallel layout and returns the
// controller managing them.
func NewController(rows []Row, r Renderer) (*Controller, error) {
	markup, err := r.Parallel(rows)
	if err != nil {
		return nil, fmt.Errorf("rendering parallel view: %w", err)
	}
	return &Controller{
		rows:     rows,
		renderer: r,
		state:    StateParallel,
		markup:   markup,
	}, nil
}

// State returns the active layout.
func (c *Controller) State() State { return c.state }

// Markup returns the markup of the verse area as currently rendered.
func (c *Controller) Markup() string { return c.markup }

// Rows returns the underlying row model.
func (c *Controller) Rows() []Row { return c.rows }

// Items returns the single-view items, or nil in parallel state.
func (c *Controller) Items() []Item { return c.items }

// EnterSingle switches to the stacked expandable layout. The parallel
// markup is captured once, the first time single view is entered, so
// EnterParallel can restore it verbatim. Re-entering single view
// rebuilds the items from the row model, never from the snapshot, so
// the item count always equals the row count.
func (c *Controller) EnterSingle() error {
	if c.snapshot == "" && c.state == StateParallel {
		c.snapshot = c.markup
	}
	c.items = itemsFromRows(c.rows)
	markup, err := c.renderer.Single(c.items)
	if err != nil {
		return fmt.Errorf("rendering single view: %w", err)
	}
	c.markup = markup
	c.state = StateSingle
	return nil
}

// EnterParallel restores the captured two-column markup. When single
// view was never entered there is no snapshot and the call is a no-op.
func (c *Controller) EnterParallel() {
	if c.snapshot == "" {
		return
	}
	c.markup = c.snapshot
	c.state = StateParallel
	c.items = nil
}

// SetState enters the given layout.
func (c *Controller) SetState(s State) error {
	if s == StateSingle {
		return c.EnterSingle()
	}
	c.EnterParallel()
	return nil
}

// ToggleItem flips the expanded flag of the 1-based item i and
// re-renders. Expansion state is per item and never persisted.
func (c *Controller) ToggleItem(i int) (bool, error) {
	if c.state != StateSingle {
		return false, fmt.Errorf("not in single view")
	}
	if i < 1 || i > len(c.items) {
		return false, fmt.Errorf("item %d out of range [1,%d]", i, len(c.items))
	}
	c.items[i-1].Expanded = !c.items[i-1].Expanded
	markup, err := c.renderer.Single(c.items)
	if err != nil {
		return false, fmt.Errorf("rendering single view: %w", err)
	}
	c.markup = markup
	return c.items[i-1].Expanded, nil
}
