package channel_utils

import (
	"context"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"sync"
)

// MergeChannels fans the inputs into one channel, closed once every input is drained or ctx is done.
func MergeChannels[T any](ctx context.Context, workerPool outbound.TaskDispatcher, channels ...<-chan T) (<-chan T, error) {
	var wg sync.WaitGroup
	merged := make(chan T)

	forward := func(c <-chan T) {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case val, ok := <-c:
				if !ok {
					return
				}
				select {
				case merged <- val:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	wg.Add(len(channels))
	for _, c := range channels {
		ch := c
		if err := workerPool.Submit(func() {
			forward(ch)
		}); err != nil {
			return nil, err
		}
	}

	err := workerPool.Submit(func() {
		wg.Wait()
		close(merged)
	})
	if err != nil {
		return nil, err
	}

	return merged, nil
}
