package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"mxshs/betledger/src/audit"
	"mxshs/betledger/src/config"
	"mxshs/betledger/src/core"
	"mxshs/betledger/src/db"
	"mxshs/betledger/src/dictionary"
	"mxshs/betledger/src/domain"
	"mxshs/betledger/src/logging"
	"mxshs/betledger/src/parser"
	"mxshs/betledger/src/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "[ERROR]", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		in      = flag.String("in", "", "comma separated settled-bets html files")
		out     = flag.String("out", "-", "json output path, - for stdout")
		url     = flag.String("url", "", "capture this page with headless chrome and parse it")
		store   = flag.Bool("store", false, "insert bets into postgres ($BETLEDGER_DSN)")
		serve   = flag.Bool("serve", false, "run the http api")
		doAudit = flag.Bool("audit", false, "print extraction diagnostics to stderr")
		envFile = flag.String("env", ".env", "optional env file")
	)
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	dict := dictionary.Default()
	if cfg.Dictionary != "" {
		if dict, err = dictionary.Load(cfg.Dictionary); err != nil {
			return err
		}
	}

	p := core.GetFanDuelParser(core.WithLogger(logger), core.WithDictionary(dict))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sink parser.Store
	if *store {
		conn, err := db.GetDB(cfg.DSN)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := conn.Migrate(ctx); err != nil {
			return err
		}
		sink = conn
	}

	if *serve {
		return server.Run(ctx, cfg.Addr, server.NewRouter(server.NewHandler(p, sink, logger)), logger)
	}

	var bets []domain.Bet

	if *url != "" {
		page, err := core.Capture(ctx, *url, core.CaptureOptions{
			ProfileDir: cfg.ChromeProfile,
			Logger:     logger,
		})
		if err != nil {
			return err
		}
		captured, err := p.ParseBets(page)
		if err != nil {
			return err
		}
		if sink != nil {
			if err := sink.InsertBets(ctx, captured); err != nil {
				return fmt.Errorf("failed to store bets: %w", err)
			}
		}
		bets = append(bets, captured...)
	}

	if *in != "" {
		parsed, err := parser.Parse(ctx, p, splitList(*in), parser.Options{
			Workers: cfg.Workers,
			Store:   sink,
			Logger:  logger,
		})
		bets = append(bets, parsed...)
		if err != nil {
			logger.Error("some files failed", zap.Error(err))
		}
	}

	if *url == "" && *in == "" {
		flag.Usage()
		return fmt.Errorf("nothing to do: pass -in, -url or -serve")
	}

	if *doAudit {
		for _, issue := range audit.Check(bets) {
			fmt.Fprintf(os.Stderr, "[AUDIT] %s %s: %s\n", issue.BetID, issue.Code, issue.Message)
		}
	}

	if err := writeJSON(*out, bets); err != nil {
		return err
	}

	logger.Info("successfully finished parsing", zap.Int("bets", len(bets)))
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func writeJSON(path string, bets []domain.Bet) error {
	if bets == nil {
		bets = []domain.Bet{}
	}

	var w io.Writer = os.Stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bets); err != nil {
		return fmt.Errorf("failed to write bets: %w", err)
	}
	return nil
}
