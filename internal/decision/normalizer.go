// Package decision validates advisor output before it can reach order
// placement. Normalize fails closed: anything malformed degrades to HOLD with
// the failure recorded in the rationale, so a bad collaborator response can
// never place an order.
package decision

import (
	"fmt"
	"strings"

	"coin-trading-bot/internal/types"
)

// Normalizer validates raw decisions into the canonical form. The percentage cap
// is a deployment input, not a constant.
type Normalizer struct {
	Cap int
}

func NewNormalizer(cap int) *Normalizer {
	if cap <= 0 || cap > 100 {
		cap = 100
	}
	return &Normalizer{Cap: cap}
}

func hold(reason string) types.Decision {
	return types.Decision{Action: types.Hold, Percentage: 0, Rationale: reason}
}

// Normalize maps a raw decision to a canonical one. Action strings match
// BUY/SELL/HOLD case-insensitively with no fuzzy matching; ambiguous input is
// HOLD. A BUY/SELL percentage outside (0, cap] degrades to HOLD; HOLD always
// carries 0. Idempotent: normalizing an already-canonical decision is a no-op.
func (n *Normalizer) Normalize(raw types.RawDecision) types.Decision {
	action := strings.ToUpper(strings.TrimSpace(raw.Action))
	switch types.Action(action) {
	case types.Hold:
		return hold(raw.Rationale)
	case types.Buy, types.Sell:
	default:
		return hold(fmt.Sprintf("unrecognized action %q", raw.Action))
	}

	pct := raw.Percentage
	if pct < 0 || pct > n.Cap {
		return hold(fmt.Sprintf("percentage %d outside [0,%d]", raw.Percentage, n.Cap))
	}
	if pct == 0 {
		return hold("zero percentage on " + action)
	}
	return types.Decision{Action: types.Action(action), Percentage: pct, Rationale: raw.Rationale}
}
