// Package progress defines the transfer-progress contract shared by the DFU
// and mass-storage installers.
//
// Installers invoke the callback synchronously from the goroutine running the
// transfer. The final sample of a successful transfer always has Bytes equal
// to Total. Callbacks must return quickly; a consumer that needs to do slow
// rendering should receive through Channel instead.
package progress

import "time"

// Progress is one transfer sample. Total is zero when the transfer size is
// not known up front.
type Progress struct {
	// Bytes is the number of bytes transferred so far.
	Bytes int64

	// Total is the expected transfer size in bytes, if known.
	Total int64
}

// Func receives progress samples during a transfer.
type Func func(Progress)

// Channel returns a Func that forwards samples to the returned channel
// without ever blocking the transfer. When the buffer is full the oldest
// sample is dropped, so a slow receiver sees coalesced updates but always
// ends on the most recent sample. The channel is never closed; stop
// receiving once the install call has returned.
func Channel(size int) (Func, <-chan Progress) {
	if size < 1 {
		size = 1
	}
	ch := make(chan Progress, size)

	fn := func(p Progress) {
		select {
		case ch <- p:
			return
		default:
		}
		// Buffer full: make room, then try once more. A concurrent receiver
		// may win the race for the slot; dropping this sample is fine.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- p:
		default:
		}
	}
	return fn, ch
}

// Throttle wraps fn so that intermediate samples arrive at most once per
// interval. Completion samples (Bytes == Total with a known Total) are always
// passed through.
func Throttle(fn Func, interval time.Duration) Func {
	var last time.Time
	return func(p Progress) {
		now := time.Now()
		if p.Total > 0 && p.Bytes >= p.Total {
			fn(p)
			return
		}
		if now.Sub(last) < interval {
			return
		}
		last = now
		fn(p)
	}
}
