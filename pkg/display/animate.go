package display

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"
)

// DefaultFrameInterval approximates a 60Hz refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now, which carries a monotonic reading.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// FrameSource yields once per frame and reports the frame timestamp.
type FrameSource interface {
	Next(ctx context.Context) (time.Time, error)
}

type tickerFrames struct {
	clock    Clock
	interval time.Duration
}

// NewTickerFrames schedules a frame every interval and stamps it with clock.
func NewTickerFrames(clock Clock, interval time.Duration) FrameSource {
	if clock == nil {
		clock = SystemClock{}
	}
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &tickerFrames{clock: clock, interval: interval}
}

func (f *tickerFrames) Next(ctx context.Context) (time.Time, error) {
	timer := time.NewTimer(f.interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case <-timer.C:
		return f.clock.Now(), nil
	}
}

// Animator counts a numeric element from a start value to an end value, one
// write per frame. Starting a new animation on an element cancels the one
// already running there.
type Animator struct {
	frames FrameSource

	mu       sync.Mutex
	inflight map[Element]*Animation
}

// NewAnimator returns an animator driven by frames. A nil source falls back
// to a ticker on the system clock.
func NewAnimator(frames FrameSource) *Animator {
	if frames == nil {
		frames = NewTickerFrames(SystemClock{}, DefaultFrameInterval)
	}
	return &Animator{
		frames:   frames,
		inflight: make(map[Element]*Animation),
	}
}

// Animation is a handle on one running count.
type Animation struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Done is closed when the animation stops.
func (a *Animation) Done() <-chan struct{} {
	return a.done
}

// Wait blocks until the animation stops. It returns nil when the final value
// was written, or the context error when it was cancelled first.
func (a *Animation) Wait() error {
	<-a.done
	return a.err
}

// Cancel stops the animation before its next frame.
func (a *Animation) Cancel() {
	a.cancel()
}

// Animate starts counting el from start to end over duration. Each frame
// writes floor(progress*(end-start)+start) with progress clamped to 1, so the
// last frame shows floor(end). When start equals end the first frame is the
// last.
func (an *Animator) Animate(ctx context.Context, el Element, start, end float64, duration time.Duration) *Animation {
	ctx, cancel := context.WithCancel(ctx)
	anim := &Animation{cancel: cancel, done: make(chan struct{})}

	an.mu.Lock()
	previous := an.inflight[el]
	an.inflight[el] = anim
	an.mu.Unlock()

	if previous != nil {
		previous.Cancel()
		<-previous.done
	}

	go func() {
		defer close(anim.done)
		defer cancel()
		defer an.release(el, anim)
		anim.err = an.run(ctx, el, start, end, duration)
	}()
	return anim
}

func (an *Animator) run(ctx context.Context, el Element, start, end float64, duration time.Duration) error {
	var first time.Time
	for {
		stamp, err := an.frames.Next(ctx)
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if first.IsZero() {
			first = stamp
		}

		progress := Progress(stamp.Sub(first), duration)
		el.SetText(FormatFrame(Interpolate(start, end, progress)))
		if progress >= 1 || start == end {
			return nil
		}
	}
}

func (an *Animator) release(el Element, anim *Animation) {
	an.mu.Lock()
	if an.inflight[el] == anim {
		delete(an.inflight, el)
	}
	an.mu.Unlock()
}

// Progress converts elapsed time into a fraction of duration clamped to
// [0,1]. A non-positive duration completes immediately.
func Progress(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	p := float64(elapsed) / float64(duration)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

// Interpolate returns floor(progress*(end-start)+start).
func Interpolate(start, end, progress float64) float64 {
	return math.Floor(progress*(end-start) + start)
}

// FormatFrame renders an interpolated value as an integer string.
func FormatFrame(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
