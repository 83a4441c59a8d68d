package components

// Cursor tracks a selection over a list whose items are recomputed on every
// render. Only the count is stored, never the items.
type Cursor struct {
	Index    int
	Offset   int
	PageSize int
	count    int
}

// NewCursor creates a cursor with the given page size.
func NewCursor(pageSize int) *Cursor {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Cursor{PageSize: pageSize}
}

// SetCount updates the number of items and keeps the cursor in range.
func (c *Cursor) SetCount(n int) {
	if n < 0 {
		n = 0
	}
	c.count = n
	if c.Index >= n {
		c.Index = n - 1
	}
	if c.Index < 0 {
		c.Index = 0
	}
	c.scroll()
}

// Count returns the number of items.
func (c *Cursor) Count() int {
	return c.count
}

// Down moves the cursor down.
func (c *Cursor) Down() {
	if c.Index < c.count-1 {
		c.Index++
		c.scroll()
	}
}

// Up moves the cursor up.
func (c *Cursor) Up() {
	if c.Index > 0 {
		c.Index--
		c.scroll()
	}
}

// Select moves the cursor to i if it is in range.
func (c *Cursor) Select(i int) {
	if i >= 0 && i < c.count {
		c.Index = i
		c.scroll()
	}
}

// Visible returns the half-open range of indices on the current page.
func (c *Cursor) Visible() (int, int) {
	end := c.Offset + c.PageSize
	if end > c.count {
		end = c.count
	}
	return c.Offset, end
}

func (c *Cursor) scroll() {
	if c.Index < c.Offset {
		c.Offset = c.Index
	}
	if c.Index >= c.Offset+c.PageSize {
		c.Offset = c.Index - c.PageSize + 1
	}
	if maxOffset := c.count - c.PageSize; c.Offset > maxOffset {
		c.Offset = maxOffset
	}
	if c.Offset < 0 {
		c.Offset = 0
	}
}
