// internal/host/classes.go
package host

import (
	"errors"
	"fmt"
	"sync"
)

var ErrClassEmpty = errors.New("host: class empty")

// MemClasses is an in-process message class store.
// Class numbers start at 1; 0 asks Send to allocate.
type MemClasses struct {
	mu     sync.Mutex
	queues map[int][][]byte
	next   int
}

func NewMemClasses() *MemClasses {
	return &MemClasses{queues: make(map[int][][]byte)}
}

// Put queues messages into class, allocating one when class is 0.
func (c *MemClasses) Put(class int, msgs ...[]byte) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if class == 0 {
		class = c.alloc()
	}
	for _, m := range msgs {
		c.queues[class] = append(c.queues[class], append([]byte(nil), m...))
	}
	return class
}

// Drain removes and returns everything queued in class.
func (c *MemClasses) Drain(class int) [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	q := c.queues[class]
	delete(c.queues, class)
	return q
}

// ---- dispatch.Classes ----

func (c *MemClasses) Receive(class int, max int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	q := c.queues[class]
	if len(q) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrClassEmpty, class)
	}
	msg := q[0]
	if len(q) == 1 {
		delete(c.queues, class)
	} else {
		c.queues[class] = q[1:]
	}

	if max >= 0 && len(msg) > max {
		msg = msg[:max]
	}
	return msg, nil
}

func (c *MemClasses) Send(class int, msg []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if class == 0 {
		class = c.alloc()
	}
	c.queues[class] = append(c.queues[class], append([]byte(nil), msg...))
	return class, nil
}

func (c *MemClasses) alloc() int {
	for {
		c.next++
		if c.next <= 0 {
			c.next = 1
		}
		if _, used := c.queues[c.next]; !used {
			return c.next
		}
	}
}
