package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"coin-trading-bot/internal/decision"
	"coin-trading-bot/internal/interfaces"
	"coin-trading-bot/internal/logger"
	"coin-trading-bot/internal/position"
	"coin-trading-bot/internal/reaper"
	"coin-trading-bot/internal/sizing"
	"coin-trading-bot/internal/store"
	"coin-trading-bot/internal/ta"
	"coin-trading-bot/internal/tradelog"
	"coin-trading-bot/internal/types"
)

// Engine runs one full trading cycle per Step. A cycle is isolated: any
// failure inside it is returned to the loop, logged there, and the next
// tick starts clean.
type Engine struct {
	cfg        *store.Config
	ex         interfaces.Exchange
	advisor    interfaces.Advisor
	ledger     interfaces.Ledger
	tracker    position.Tracker
	sizer      *sizing.Sizer
	normalizer *decision.Normalizer
	reaper     *reaper.Reaper
	taCfg      ta.Config
}

func New(cfg *store.Config, ex interfaces.Exchange, adv interfaces.Advisor, led interfaces.Ledger, tracker position.Tracker, sz *sizing.Sizer, rp *reaper.Reaper) *Engine {
	return &Engine{
		cfg:        cfg,
		ex:         ex,
		advisor:    adv,
		ledger:     led,
		tracker:    tracker,
		sizer:      sz,
		normalizer: decision.NewNormalizer(cfg.Trading.PercentageCap),
		reaper:     rp,
		taCfg:      ta.DefaultConfig(),
	}
}

func (e *Engine) Step(ctx context.Context) (*types.CycleResult, error) {
	market := e.cfg.Market()

	bars, err := e.ex.Candles(ctx, e.cfg.Candles.Unit, e.cfg.Candles.Count)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch candles", err, "market", market)
		return nil, err
	}
	if len(bars) == 0 {
		err := errors.New("no candles returned")
		logger.Error(ctx, "Empty candle response", "market", market)
		return nil, err
	}

	window := types.NewPriceWindow(e.cfg.Candles.Unit, e.cfg.Candles.Count)
	window.Fill(bars)
	inds := ta.Compute(window, e.taCfg)
	latest := bars[0]

	price, err := e.ex.Ticker(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch ticker", err, "market", market)
		return nil, err
	}
	logger.Debug(ctx, "Current market state", "market", market, "price", price, "timestamp", latest.Ts)

	bal, err := e.ex.GetBalance(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch balance", err, "market", market)
		return nil, err
	}

	pos, err := e.tracker.Position(ctx, bal)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to reconcile position", err, "market", market)
		return nil, err
	}

	res := &types.CycleResult{
		Market:     market,
		Price:      priceF64(price),
		Time:       latest.Ts,
		Position:   pos,
		Indicators: inds,
	}

	// Forced exit preempts the advisor entirely.
	if d, forced := position.ForcedExit(pos, price, e.cfg.Risk.ForcedExitPct); forced {
		rate := position.ProfitRate(pos, price)
		logger.Warn(ctx, "Forced exit triggered",
			"market", market,
			"event", "FORCED_EXIT",
			"profit_rate_pct", rate,
			"threshold_pct", e.cfg.Risk.ForcedExitPct,
			"avg_entry", pos.AvgEntryPrice,
			"current_price", price,
		)
		res.Decision = d
		res.Forced = true
		res.Reason = d.Rationale
		if err := e.execute(ctx, res, d, bal, price); err != nil {
			return nil, err
		}
		e.reap(ctx, res)
		return res, nil
	}

	raw, err := e.advisor.Advise(ctx, market, latest, inds, pos)
	if err != nil {
		logger.ErrorWithErr(ctx, "Advisor failed", err, "market", market)
		return nil, err
	}
	if raw.Action == "" && raw.FreeText != "" {
		raw = decision.ParseFreeText(raw.FreeText)
	}
	d := e.normalizer.Normalize(raw)
	res.Decision = d
	res.Reason = d.Rationale

	logger.Info(ctx, "Trading decision", "market", market, "action", d.Action, "percentage", d.Percentage, "reason", d.Rationale)
	_ = tradelog.AppendDecision(decisionEntry(market, d, price, inds))

	if d.Action == types.Hold {
		e.reap(ctx, res)
		return res, nil
	}

	// Balance can drift while the advisor deliberates; size against a
	// fresh snapshot.
	bal, err = e.ex.GetBalance(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to refresh balance before sizing", err, "market", market)
		return nil, err
	}

	if err := e.execute(ctx, res, d, bal, price); err != nil {
		return nil, err
	}
	e.reap(ctx, res)
	return res, nil
}

// execute sizes and submits one order, then records the fill. A sizing
// rejection is not a cycle failure; the decision is just not actionable at
// the current balance.
func (e *Engine) execute(ctx context.Context, res *types.CycleResult, d types.Decision, bal types.Balance, price decimal.Decimal) error {
	order, err := e.sizer.Size(d, bal, price)
	if err != nil {
		var serr *sizing.SizingError
		if errors.As(err, &serr) {
			logger.Warn(ctx, "Order skipped by sizer",
				"market", res.Market,
				"event", "ORDER_SKIPPED",
				"action", d.Action,
				"reason", serr.Reason,
			)
			res.Reason = fmt.Sprintf("%s | skipped: %s", res.Reason, serr.Reason)
			return nil
		}
		logger.ErrorWithErr(ctx, "Sizing failed", err, "market", res.Market)
		return err
	}

	placed, err := e.ex.PlaceOrder(ctx, order)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to place order", err,
			"market", res.Market,
			"side", order.Side,
			"quantity", order.Quantity,
			"price", order.Price,
		)
		return err
	}
	res.OrderID = placed.ID
	logger.Info(ctx, "Trade executed",
		"market", res.Market,
		"side", order.Side,
		"quantity", order.Quantity,
		"price", order.Price,
		"order_id", placed.ID,
		"forced", res.Forced,
	)

	fill := types.Fill{
		Ts:          placed.CreatedAt,
		Market:      res.Market,
		Side:        order.Side,
		Quantity:    order.Quantity,
		Price:       order.Price,
		TotalAmount: order.Price.Mul(order.Quantity),
		OrderID:     placed.ID,
	}
	if err := e.ledger.RecordFill(ctx, fill); err != nil {
		// the order is already live; losing the journal entry must not
		// abort the cycle
		logger.ErrorWithErr(ctx, "Failed to record fill", err, "market", res.Market, "order_id", placed.ID)
	}
	return nil
}

// reap runs stale-order cleanup at the end of the cycle. Failures are
// logged and absorbed; reaping gets another chance next tick.
func (e *Engine) reap(ctx context.Context, res *types.CycleResult) {
	n, err := e.reaper.Reap(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Stale order sweep failed", err, "market", res.Market)
		return
	}
	res.Reaped = n
}

func priceF64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func decisionEntry(market string, d types.Decision, price decimal.Decimal, inds *types.IndicatorSet) tradelog.DecisionEntry {
	e := tradelog.DecisionEntry{
		Market:     market,
		Action:     string(d.Action),
		Percentage: d.Percentage,
		Reason:     d.Rationale,
		Price:      priceF64(price),
		Indicators: map[string]float64{},
	}
	if inds.RSI != nil {
		e.Indicators["RSI"] = *inds.RSI
	}
	if inds.ATR != nil {
		e.Indicators["ATR"] = *inds.ATR
	}
	if inds.Bollinger != nil {
		e.Indicators["BB_UP"] = inds.Bollinger.Upper
		e.Indicators["BB_MID"] = inds.Bollinger.Middle
		e.Indicators["BB_LOW"] = inds.Bollinger.Lower
	}
	if v, ok := inds.MovingAverages[20]; ok {
		e.Indicators["SMA20"] = v
	}
	if inds.ChangeRate != nil {
		e.Indicators["CHANGE_RATE"] = *inds.ChangeRate
	}
	return e
}
