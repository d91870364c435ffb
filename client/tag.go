package client

import (
	"fmt"
	"sync"
)

// maxTagCounter is the last tag the allocator will hand out before
// refusing further commands; spec.md §4.3 treats exhaustion as fatal
// rather than wrapping back to "A00001" and risking a collision with a
// tag still in flight.
const maxTagCounter = 999999

// tagAllocator hands out tags of the form "A" + a 5-digit, zero-padded
// decimal counter ("A00001", "A00002", ...), the scheme spec.md §4.3
// calls for. Grounded on the teacher's tagGenerator (client/command.go):
// same atomic-counter-plus-prefix shape, fixed width added.
type tagAllocator struct {
	mu      sync.Mutex
	counter int
	prefix  string
}

func newTagAllocator(prefix string) *tagAllocator {
	return &tagAllocator{prefix: prefix}
}

// Next returns the next tag, or an error once the counter is exhausted.
func (a *tagAllocator) Next() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.counter >= maxTagCounter {
		return "", fmt.Errorf("imap: tag counter exhausted at %d", a.counter)
	}
	a.counter++
	return fmt.Sprintf("%s%05d", a.prefix, a.counter), nil
}
