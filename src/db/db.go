package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	pq "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"mxshs/betledger/src/domain"
)

var ErrNoDSN = errors.New("db: no connection string configured")

const Schema = `
CREATE TABLE IF NOT EXISTS bets (
    id              SERIAL PRIMARY KEY,
    bet_key         TEXT UNIQUE NOT NULL,
    book            TEXT NOT NULL,
    bet_id          TEXT NOT NULL,
    placed_at       TIMESTAMPTZ,
    bet_type        TEXT NOT NULL,
    market_category TEXT NOT NULL,
    sport           TEXT NOT NULL,
    description     TEXT NOT NULL,
    odds            INTEGER NOT NULL,
    stake           NUMERIC(12, 2) NOT NULL,
    payout          NUMERIC(12, 2) NOT NULL,
    result          TEXT NOT NULL,
    is_live         BOOLEAN NOT NULL DEFAULT FALSE,
    raw             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bet_legs (
    id         SERIAL PRIMARY KEY,
    bet_ref    INTEGER NOT NULL REFERENCES bets(id) ON DELETE CASCADE,
    position   INTEGER NOT NULL,
    parent     INTEGER,
    entities   TEXT[] NOT NULL,
    market     TEXT NOT NULL,
    target     TEXT NOT NULL,
    ou         TEXT NOT NULL,
    odds       INTEGER,
    result     TEXT NOT NULL,
    is_group   BOOLEAN NOT NULL DEFAULT FALSE
);`

type DB struct {
	db *sql.DB
}

func GetDB(dsn string) (*DB, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	return &DB{db: conn}, nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

// Migrate creates the bets and bet_legs tables when they are missing.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// InsertBets upserts every bet by its composite id and replaces its legs.
// All bets go in one transaction.
func (db *DB) InsertBets(ctx context.Context, bets []domain.Bet) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range bets {
		if err := insertBet(ctx, tx, &bets[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bets: %w", err)
	}
	return nil
}

func insertBet(ctx context.Context, tx *sql.Tx, bet *domain.Bet) error {
	var ref int

	err := tx.QueryRowContext(ctx,
		`INSERT INTO bets (bet_key, book, bet_id, placed_at, bet_type, market_category,
            sport, description, odds, stake, payout, result, is_live, raw)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        ON CONFLICT (bet_key) DO UPDATE SET
            result = EXCLUDED.result,
            payout = EXCLUDED.payout,
            description = EXCLUDED.description,
            raw = EXCLUDED.raw
        RETURNING id;`,
		bet.ID,
		bet.Book,
		bet.BetID,
		nullable(bet.PlacedAt),
		string(bet.BetType),
		bet.MarketCategory,
		bet.Sport,
		bet.Description,
		bet.Odds,
		money(bet.Stake),
		money(bet.Payout),
		string(bet.Result),
		bet.IsLive,
		bet.Raw,
	).Scan(&ref)
	if err != nil {
		return fmt.Errorf("failed to insert bet %s: %w", bet.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM bet_legs WHERE bet_ref = $1;`, ref); err != nil {
		return fmt.Errorf("failed to clear legs of bet %s: %w", bet.ID, err)
	}

	for _, r := range legRows(bet.Legs) {
		entities := r.leg.Entities
		if entities == nil {
			entities = []string{}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO bet_legs (bet_ref, position, parent, entities, market, target, ou, odds, result, is_group)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
			ref,
			r.position,
			r.parent,
			pq.Array(entities),
			r.leg.Market,
			r.leg.Target,
			string(r.leg.OU),
			r.odds(),
			string(r.leg.Result),
			r.leg.IsGroupLeg,
		)
		if err != nil {
			return fmt.Errorf("failed to insert leg %d of bet %s: %w", r.position, bet.ID, err)
		}
	}

	return nil
}

// legRow is one leg flattened for storage; parent points at the position of
// the group leg it belongs to.
type legRow struct {
	position int
	parent   sql.NullInt64
	leg      domain.BetLeg
}

func (r legRow) odds() sql.NullInt64 {
	if r.leg.Odds == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*r.leg.Odds), Valid: true}
}

func legRows(legs []domain.BetLeg) []legRow {
	var rows []legRow
	for _, l := range legs {
		pos := len(rows)
		rows = append(rows, legRow{position: pos, leg: l})
		for _, c := range l.Children {
			rows = append(rows, legRow{
				position: len(rows),
				parent:   sql.NullInt64{Int64: int64(pos), Valid: true},
				leg:      c,
			})
		}
	}
	return rows
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
