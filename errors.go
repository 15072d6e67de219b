package strim

import "errors"

var (
	// ErrNoFrame means a yield found no active drive of its stream:
	// the Yielder was used after the drive returned, outside any drive,
	// or from a goroutine other than the one driving the stream.
	ErrNoFrame = errors.New("strim: no matching stream frame found")

	// ErrDoubleYield means two yields targeted the same drive call
	// before the driver consumed the first item.
	ErrDoubleYield = errors.New("strim: double yield")

	// ErrNoWrapper is raised by Unwrap and UnwrapWaker when the waker
	// does not belong to a stream drive.
	ErrNoWrapper = errors.New("strim: waker not found")

	// ErrRestarted means the stream was driven again while its producer
	// factory was still being called.
	ErrRestarted = errors.New("strim: stream restarted while starting")

	// ErrReentrantPoll means the stream was driven from inside its own
	// producer.
	ErrReentrantPoll = errors.New("strim: stream polled from its own producer")
)
