package harbortest

// calls counts invocations of the Check and Deliver methods of a mock.
type calls struct {
	check   int
	deliver int
}

// CheckCallCount returns how many times Check was called.
func (c *calls) CheckCallCount() int { return c.check }

// DeliverCallCount returns how many times Deliver was called.
func (c *calls) DeliverCallCount() int { return c.deliver }

// CallCount returns the total number of Check and Deliver calls.
func (c *calls) CallCount() int { return c.check + c.deliver }
