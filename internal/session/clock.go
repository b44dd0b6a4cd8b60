package session

// Clock counts whole seconds of play. It is held only while a level is being
// played: Acquire hands out a lease id and Release invalidates it, so a tick
// scheduled under an old lease can never advance the count.
type Clock struct {
	lease   uint64
	held    bool
	seconds int
}

// Acquire resets the count and returns a fresh lease id.
func (c *Clock) Acquire() uint64 {
	c.lease++
	c.held = true
	c.seconds = 0
	return c.lease
}

// Release stops the clock. The elapsed count is kept until the next Acquire.
func (c *Clock) Release() {
	if !c.held {
		return
	}
	c.held = false
	c.lease++
}

// Tick adds one second if lease is the current one.
func (c *Clock) Tick(lease uint64) bool {
	if !c.held || lease != c.lease {
		return false
	}
	c.seconds++
	return true
}

// Lease returns the current lease id and whether the clock is running.
func (c *Clock) Lease() (uint64, bool) {
	return c.lease, c.held
}

// Seconds returns the elapsed whole seconds.
func (c *Clock) Seconds() int {
	return c.seconds
}
