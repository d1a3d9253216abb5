package decision

import (
	"regexp"
	"strconv"
	"strings"

	"coin-trading-bot/internal/types"
)

// The advisor deployments this bot has run against answer in Korean prose:
// 매수 (buy), 매도 (sell), 관망 (hold), with the allocation given as
// "투자 비중: NN%". Scraping that text lives here and nowhere else; the rest
// of the pipeline only ever sees a RawDecision.
var ratioRe = regexp.MustCompile(`투자\s*비중\s*[:：]\s*(\d+)\s*%`)

// ParseFreeText converts an advisor's free-text response into a raw decision.
// Text that names no recognizable action comes back as HOLD; a missing
// allocation on a BUY/SELL defaults to 50%, matching the reference advisor's
// historical behavior.
func ParseFreeText(text string) types.RawDecision {
	raw := types.RawDecision{FreeText: text, Rationale: summarize(text)}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "매수"):
		raw.Action = string(types.Buy)
	case strings.Contains(lower, "매도"):
		raw.Action = string(types.Sell)
	default:
		raw.Action = string(types.Hold)
		return raw
	}

	raw.Percentage = 50
	if m := ratioRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			raw.Percentage = n
		}
	}
	return raw
}

// summarize keeps the first non-empty line as the rationale headline.
func summarize(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			if r := []rune(line); len(r) > 200 {
				line = string(r[:200])
			}
			return line
		}
	}
	return ""
}
