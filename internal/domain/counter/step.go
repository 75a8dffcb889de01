package counter

import "math"

// Increment returns c advanced by its step. When a reset row is configured
// and reached, the value wraps to zero and the reset is counted, until
// MaxResets (if set) is exhausted.
func (c Counter) Increment() (Counter, error) {
	step := c.step()
	if c.Value > math.MaxInt64-step {
		return c, ErrOverflow
	}
	c.Value += step
	if c.ResetRow > 0 && c.Value >= c.ResetRow && (c.MaxResets == 0 || c.NumResets < c.MaxResets) {
		c.Value = 0
		c.NumResets++
	}
	return c, nil
}

// Decrement returns c moved back by its step. It never triggers a reset.
func (c Counter) Decrement() (Counter, error) {
	step := c.step()
	if c.Value < math.MinInt64+step {
		return c, ErrOverflow
	}
	c.Value -= step
	return c, nil
}

// ToggleLink flips the global link flag of a normal counter.
func (c Counter) ToggleLink() (Counter, error) {
	if c.Type != TypeNormal {
		return c, ErrNotLinkable
	}
	c.IsGloballyLinked = !c.IsGloballyLinked
	return c, nil
}

func (c Counter) step() int64 {
	if c.IncrementBy <= 0 {
		return 1
	}
	return c.IncrementBy
}
