package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"mxshs/betledger/src/core"
	"mxshs/betledger/src/domain"
)

const defaultWorkers = 3

// Store receives the bets of a run. *db.DB satisfies it.
type Store interface {
	InsertBets(ctx context.Context, bets []domain.Bet) error
}

type Options struct {
	Workers int
	Store   Store
	Logger  *zap.Logger
}

// Parse reads every page file and extracts its bets, running at most
// Workers files at a time. Bets come back in file order. A file that fails
// is logged and reported in the joined error; the others still count.
func Parse(ctx context.Context, p core.BetParser, files []string, opts Options) ([]domain.Bet, error) {
	if opts.Workers < 1 {
		opts.Workers = defaultWorkers
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	results := make([][]domain.Bet, len(files))
	errs := make([]error, len(files))

	i := 0
	for i < len(files) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var wg sync.WaitGroup

		for counter := 0; i < len(files) && counter < opts.Workers; counter++ {
			wg.Add(1)

			go func(idx int) {
				defer wg.Done()
				results[idx], errs[idx] = parseFile(p, files[idx])
			}(i)

			i++
		}

		wg.Wait()
	}

	var bets []domain.Bet
	for idx, file := range files {
		if errs[idx] != nil {
			opts.Logger.Error("failed to parse file", zap.String("file", file), zap.Error(errs[idx]))
			continue
		}
		opts.Logger.Info("parsed file", zap.String("file", file), zap.Int("bets", len(results[idx])))
		bets = append(bets, results[idx]...)
	}

	err := errors.Join(errs...)

	if opts.Store != nil && len(bets) > 0 {
		if serr := opts.Store.InsertBets(ctx, bets); serr != nil {
			return bets, errors.Join(err, fmt.Errorf("failed to store bets: %w", serr))
		}
		opts.Logger.Info("stored bets", zap.Int("bets", len(bets)))
	}

	return bets, err
}

func parseFile(p core.BetParser, file string) ([]domain.Bet, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	bets, err := p.ParseBets(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return bets, nil
}
