package libs

import (
	"context"
	"time"
)

// Typewriter reveals text in fixed-size chunks at a fixed interval, for
// the progressive-reveal effect on streamed answers. Reveal stops as soon
// as the context is cancelled so no stray chunk is written into a
// torn-down consumer.
type Typewriter struct {
	Interval  time.Duration
	ChunkSize int // runes per tick
}

func NewTypewriter() Typewriter {
	return Typewriter{Interval: 20 * time.Millisecond, ChunkSize: 4}
}

func (t Typewriter) Reveal(ctx context.Context, text string) <-chan string {
	interval := t.Interval
	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	size := t.ChunkSize
	if size <= 0 {
		size = 1
	}

	out := make(chan string)
	go func() {
		defer close(out)

		runes := []rune(text)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for i := 0; i < len(runes); i += size {
			end := i + size
			if end > len(runes) {
				end = len(runes)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			select {
			case <-ctx.Done():
				return
			case out <- string(runes[i:end]):
			}
		}
	}()
	return out
}
