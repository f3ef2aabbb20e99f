// Package debounce delays a callback until calls stop arriving for a quiet period.
//
// A Func collapses bursts of Call invocations into a single trailing invocation carrying
// the most recent value:
//
//	onScroll := debounce.New(time.Second, func(pos Position) {
//		recordDepth(pos)
//	})
//	defer onScroll.Cancel()
//
//	for pos := range positions {
//		onScroll.Call(pos) // fires once, one second after the last position
//	}
//
// Cancel drops a pending invocation; Flush runs it immediately. All methods are safe for
// concurrent use.
package debounce
