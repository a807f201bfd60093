package queue

import "errors"

// ErrClosed is returned when an operation is attempted on a closed
// queue.
var ErrClosed = errors.New("queue is closed")
