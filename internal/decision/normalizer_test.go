package decision

import (
	"testing"

	"coin-trading-bot/internal/types"
)

func TestNormalizeValid(t *testing.T) {
	n := NewNormalizer(70)

	d := n.Normalize(types.RawDecision{Action: "BUY", Percentage: 30, Rationale: "breakout"})
	if d.Action != types.Buy || d.Percentage != 30 {
		t.Fatalf("got %+v", d)
	}
	if d.Rationale != "breakout" {
		t.Errorf("rationale dropped: %q", d.Rationale)
	}

	d = n.Normalize(types.RawDecision{Action: "sell", Percentage: 70})
	if d.Action != types.Sell || d.Percentage != 70 {
		t.Fatalf("case-insensitive match failed: %+v", d)
	}
}

func TestNormalizeFailsClosed(t *testing.T) {
	n := NewNormalizer(70)

	cases := []types.RawDecision{
		{Action: "LONG", Percentage: 10},
		{Action: "", Percentage: 10},
		{Action: "BUY!", Percentage: 10},
		{Action: "BUY", Percentage: -1},
		{Action: "BUY", Percentage: 71},
		{Action: "SELL", Percentage: 101},
	}
	for _, c := range cases {
		d := n.Normalize(c)
		if d.Action != types.Hold || d.Percentage != 0 {
			t.Errorf("raw %+v: want HOLD/0, got %+v", c, d)
		}
		if d.Rationale == "" {
			t.Errorf("raw %+v: failure not recorded in rationale", c)
		}
	}
}

func TestNormalizeHoldAlwaysZero(t *testing.T) {
	n := NewNormalizer(70)
	d := n.Normalize(types.RawDecision{Action: "HOLD", Percentage: 40})
	if d.Action != types.Hold || d.Percentage != 0 {
		t.Fatalf("HOLD must carry percentage 0, got %+v", d)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer(30)

	raws := []types.RawDecision{
		{Action: "BUY", Percentage: 20, Rationale: "r"},
		{Action: "SELL", Percentage: 99},
		{Action: "whatever", Percentage: 5},
		{Action: "HOLD"},
	}
	for _, raw := range raws {
		once := n.Normalize(raw)
		twice := n.Normalize(types.RawDecision{
			Action:     string(once.Action),
			Percentage: once.Percentage,
			Rationale:  once.Rationale,
		})
		if once != twice {
			t.Errorf("not idempotent: %+v -> %+v -> %+v", raw, once, twice)
		}
	}
}

func TestParseFreeTextBuy(t *testing.T) {
	text := "1. 최종 투자 결정: 매수\n2. 최종 투자 비중: 투자 비중: 30%\n3. 결정 이유: 단기 반등"
	raw := ParseFreeText(text)
	if raw.Action != "BUY" {
		t.Fatalf("action = %q", raw.Action)
	}
	if raw.Percentage != 30 {
		t.Errorf("percentage = %d, want 30", raw.Percentage)
	}
	if raw.Rationale == "" {
		t.Error("rationale missing")
	}
}

func TestParseFreeTextSellDefaultsRatio(t *testing.T) {
	raw := ParseFreeText("결정: 매도. 과열 구간입니다.")
	if raw.Action != "SELL" {
		t.Fatalf("action = %q", raw.Action)
	}
	if raw.Percentage != 50 {
		t.Errorf("missing ratio should default to 50, got %d", raw.Percentage)
	}
}

func TestParseFreeTextAmbiguousIsHold(t *testing.T) {
	for _, text := range []string{"관망하세요", "시장이 불안정합니다", ""} {
		raw := ParseFreeText(text)
		if raw.Action != "HOLD" {
			t.Errorf("%q: action = %q, want HOLD", text, raw.Action)
		}
		if raw.Percentage != 0 {
			t.Errorf("%q: percentage = %d", text, raw.Percentage)
		}
	}
}

func TestParseFreeTextThroughNormalizer(t *testing.T) {
	n := NewNormalizer(70)
	d := n.Normalize(ParseFreeText("투자 결정: 매수, 투자 비중: 85%"))
	if d.Action != types.Hold {
		t.Fatalf("over-cap free text must degrade to HOLD, got %+v", d)
	}
}
