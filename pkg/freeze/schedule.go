package freeze

// frameSlot coalesces work onto the next frame. Each Schedule cancels the
// previously pending frame, so a storm of triggers runs the work once,
// with the last-scheduled function winning.
type frameSlot struct {
	frames FrameScheduler
	cancel func()
}

func newFrameSlot(frames FrameScheduler) *frameSlot {
	return &frameSlot{frames: frames}
}

// Schedule queues fn for the next frame, superseding any pending fn.
// Schedulers that run the frame synchronously inside Request are
// supported; the slot ends up not-pending either way.
func (s *frameSlot) Schedule(fn func()) {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	ran := false
	cancel := s.frames.Request(func() {
		// Clear before running so fn may schedule again.
		ran = true
		s.cancel = nil
		fn()
	})
	if !ran {
		s.cancel = cancel
	}
}

// Stop cancels any pending frame.
func (s *frameSlot) Stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Pending reports whether a frame is queued.
func (s *frameSlot) Pending() bool { return s.cancel != nil }
