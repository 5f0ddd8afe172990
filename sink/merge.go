package sink

import (
	"context"
	"sync"

	"github.com/creastat/gate/core"
)

// MergeEvents forwards every event of inputs to a single channel, so one
// sink can serve several producers. The returned channel is closed once all
// inputs are closed or ctx is done.
func MergeEvents(ctx context.Context, inputs ...<-chan core.Event) <-chan core.Event {
	output := make(chan core.Event)
	var wg sync.WaitGroup

	for _, input := range inputs {
		wg.Add(1)
		go func(ch <-chan core.Event) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case event, ok := <-ch:
					if !ok {
						return
					}
					select {
					case <-ctx.Done():
						return
					case output <- event:
					}
				}
			}
		}(input)
	}

	go func() {
		wg.Wait()
		close(output)
	}()

	return output
}
