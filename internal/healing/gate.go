package healing

import (
	"time"

	"github.com/vietddude/mender/internal/core/domain"
)

// Gate enforces the per-strategy activation policy: a sliding
// one-hour frequency window and a cooldown since the last activation.
// Both checks are advisory rate limits. The gate check and the later
// history write are not atomic as a whole, so two concurrent callers
// can both pass just under a frequency limit and overshoot the cap by
// one. That is an accepted soft limit.
type Gate struct {
	history *History
	clock   func() time.Time
}

func NewGate(history *History) *Gate {
	return &Gate{history: history, clock: time.Now}
}

// Allow reports whether the strategy may activate now. When denied, the
// second return value names the blocking policy.
func (g *Gate) Allow(s *domain.RecoveryStrategy) (bool, string) {
	now := g.clock()

	if s.MaxPerHour > 0 {
		count := g.history.CountSince(s.ID, now.Add(-time.Hour))
		if count >= s.MaxPerHour {
			return false, "blocked by frequency limit"
		}
	}

	if s.Cooldown > 0 {
		if last, ok := g.history.Last(s.ID); ok {
			if now.Sub(last.Timestamp) < s.Cooldown {
				return false, "blocked by cooldown"
			}
		}
	}

	return true, ""
}
