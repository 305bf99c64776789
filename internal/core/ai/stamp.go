package ai

import "time"

// Stamp is an optional simulation timestamp. The zero Stamp is unset, which
// keeps "not tracking" distinct from a real reading at time zero.
type Stamp struct {
	at  time.Duration
	set bool
}

func At(t time.Duration) Stamp {
	return Stamp{at: t, set: true}
}

func (s Stamp) IsSet() bool { return s.set }

func (s Stamp) Time() (time.Duration, bool) {
	return s.at, s.set
}

// Elapsed is now minus the stamp; ok is false on an unset stamp and the
// duration must then be ignored.
func (s Stamp) Elapsed(now time.Duration) (elapsed time.Duration, ok bool) {
	if !s.set {
		return 0, false
	}
	return now - s.at, true
}

func (s *Stamp) Set(t time.Duration) {
	s.at = t
	s.set = true
}

// SetOnce records t only when the stamp is not already tracking.
func (s *Stamp) SetOnce(t time.Duration) {
	if !s.set {
		s.Set(t)
	}
}

func (s *Stamp) Clear() {
	*s = Stamp{}
}
