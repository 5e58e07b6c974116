package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"FxPulse/internal/domain/models"
	drepo "FxPulse/internal/domain/repository"
)

// CandleSchema returns the idempotent DDL for the candle archive table.
// ReplacingMergeTree collapses the re-inserts that the overlapping
// history fetches produce every cycle.
func CandleSchema(table string) []string {
	return []string{fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		symbol   LowCardinality(String),
		interval LowCardinality(String),
		ts       DateTime,
		open     Float64,
		high     Float64,
		low      Float64,
		close    Float64
	) ENGINE = ReplacingMergeTree
	ORDER BY (symbol, interval, ts)`, table)}
}

// ClickHouseCandles archives fetched candles so the dashboard can serve
// chart history without hitting the market data provider.
type ClickHouseCandles struct {
	db    *sql.DB
	table string
}

// NewClickHouseCandles creates the archive over an existing pool.
func NewClickHouseCandles(db *sql.DB, table string) drepo.CandleArchive {
	return &ClickHouseCandles{db: db, table: table}
}

func (s *ClickHouseCandles) StoreBatch(ctx context.Context, symbol, interval string, bars models.Series) error {
	if len(bars) == 0 {
		return nil
	}
	const chunkSize = 2000
	for start := 0; start < len(bars); start += chunkSize {
		end := start + chunkSize
		if end > len(bars) {
			end = len(bars)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, b := range bars[start:end] {
			if b.Time.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args, symbol, interval, b.Time, b.Open, b.High, b.Low, b.Close)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (symbol, interval, ts, open, high, low, close) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseCandles) Query(ctx context.Context, symbol, interval string, from, to time.Time, limit int) (models.Series, error) {
	q := fmt.Sprintf(`SELECT ts, open, high, low, close FROM %s FINAL
		WHERE symbol = ? AND interval = ? AND ts >= ? AND ts <= ?
		ORDER BY ts ASC LIMIT ?`, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, interval, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars models.Series
	for rows.Next() {
		var b models.Candle
		if err := rows.Scan(&b.Time, &b.Open, &b.High, &b.Low, &b.Close); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

func (s *ClickHouseCandles) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseCandles) Close() error {
	return nil // pool owned by pkg/clickhouse
}
