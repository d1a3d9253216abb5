// Package ledger persists executed fills. The postgres driver backs long
// running deployments; the file driver in this package wraps the trade
// journal for setups without a database.
package ledger

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"coin-trading-bot/internal/types"
)

type Postgres struct {
	db *sql.DB
}

func NewPostgres(connStr string) (*Postgres, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS fills (
		id SERIAL PRIMARY KEY,
		ts TIMESTAMPTZ NOT NULL,
		market VARCHAR(20) NOT NULL,
		side VARCHAR(4) NOT NULL,
		quantity NUMERIC(30, 12) NOT NULL,
		price NUMERIC(30, 12) NOT NULL,
		total_amount NUMERIC(30, 12) NOT NULL,
		order_id VARCHAR(64),
		created_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_fills_market_ts ON fills(market, ts DESC);
	`
	_, err := p.db.ExecContext(ctx, query)
	return err
}

func (p *Postgres) RecordFill(ctx context.Context, f types.Fill) error {
	const query = `
	INSERT INTO fills (ts, market, side, quantity, price, total_amount, order_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := p.db.ExecContext(ctx, query,
		f.Ts, f.Market, string(f.Side),
		f.Quantity.String(), f.Price.String(), f.TotalAmount.String(),
		f.OrderID)
	if err != nil {
		return fmt.Errorf("failed to insert fill: %w", err)
	}
	return nil
}

func (p *Postgres) RecentFills(ctx context.Context, market string, limit int) ([]types.Fill, error) {
	const query = `
	SELECT ts, market, side, quantity, price, total_amount, COALESCE(order_id, '')
	FROM fills WHERE market = $1 ORDER BY ts DESC LIMIT $2`
	rows, err := p.db.QueryContext(ctx, query, market, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fills: %w", err)
	}
	defer rows.Close()

	var fills []types.Fill
	for rows.Next() {
		var f types.Fill
		var side, qty, price, total string
		if err := rows.Scan(&f.Ts, &f.Market, &side, &qty, &price, &total, &f.OrderID); err != nil {
			return nil, fmt.Errorf("failed to scan fill: %w", err)
		}
		f.Side = types.Action(side)
		if f.Quantity, err = decimal.NewFromString(qty); err != nil {
			return nil, fmt.Errorf("bad quantity %q: %w", qty, err)
		}
		if f.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("bad price %q: %w", price, err)
		}
		if f.TotalAmount, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("bad total_amount %q: %w", total, err)
		}
		fills = append(fills, f)
	}
	return fills, rows.Err()
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
