package task

import (
	"github.com/anacrolix/chansync"
	"github.com/anacrolix/log"
)

var logger = log.Default.WithNames("strim", "task")

// BlockOn polls f on the calling goroutine until it is Ready, parking
// between polls until f's task is woken. Wake-ups that arrive while f
// is being polled are not lost.
func BlockOn[T any](f Future[T]) T {
	var woken chansync.BroadcastCond
	cx := NewContext(WakerFunc(woken.Broadcast))
	for polls := 1; ; polls++ {
		signaled := woken.Signaled()
		if v, ok := f.Poll(cx).Get(); ok {
			return v
		}
		logger.Levelf(log.Debug, "parking after poll %d", polls)
		<-signaled
	}
}
