package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/emerald-arrow/wikipedia-tools/internal/app"
	"github.com/emerald-arrow/wikipedia-tools/internal/config"
	"github.com/emerald-arrow/wikipedia-tools/internal/logger"
	"github.com/emerald-arrow/wikipedia-tools/internal/services"
)

var version = "dev"

func usage() {
	fmt.Fprintf(os.Stderr, `wikitools - championship scoring for Wikipedia result tables

Usage:
  wikitools import [options]   Import a session results file
  wikitools serve [options]    Serve the standings API
  wikitools version            Show version and exit

Import options:
  -file string          Results CSV file (required)
  -championship int     Championship id (required)
  -season string        Season the classifications belong to (required)
  -round int            Round number (required)
  -session string       Session name, e.g. RACE or QUALIFYING
  -scale float          Points scale to apply (optional with a single scale)
  -half-points          Award half points (races only)
  -replace              Replace already recorded scores of this round and session

Serve options:
  -addr string          Listen address (default from WIKITOOLS_ADDR)

Configuration is read from environment variables or a .env file:
  WIKITOOLS_DB, WIKITOOLS_ADDR, WIKITOOLS_LOG_LEVEL
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))

	switch os.Args[1] {
	case "import":
		runImport(cfg, log, os.Args[2:])
	case "serve":
		runServe(cfg, log, os.Args[2:])
	case "version":
		fmt.Printf("wikitools %s\n", version)
	case "-h", "-help", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func runImport(cfg *config.Config, log logger.Logger, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "results CSV file")
	championship := fs.Int("championship", 0, "championship id")
	season := fs.String("season", "", "season")
	round := fs.Int("round", 0, "round number")
	session := fs.String("session", "", "session name")
	scale := fs.Float64("scale", 0, "points scale")
	halfPoints := fs.Bool("half-points", false, "award half points")
	replace := fs.Bool("replace", false, "replace recorded scores")
	fs.Parse(args)

	if *file == "" || *championship == 0 || *season == "" || *round == 0 {
		fmt.Fprintln(os.Stderr, "import requires -file, -championship, -season and -round")
		os.Exit(2)
	}

	src, err := os.Open(*file)
	if err != nil {
		log.Error("cannot open results file", "file", *file, "error", err)
		os.Exit(1)
	}
	defer src.Close()

	a, err := app.New(log, cfg.DBPath)
	if err != nil {
		log.Error("cannot open database", "db", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer a.Close()

	summary, err := a.Import(context.Background(), services.ImportRequest{
		ChampionshipID: *championship,
		Season:         *season,
		RoundNumber:    *round,
		SessionName:    *session,
		Scale:          *scale,
		HalfPoints:     *halfPoints,
		Replace:        *replace,
	}, src)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("imported %s round %d: %d rows, %d scores",
		summary.Session.Name, *round, summary.RowsProcessed, summary.ScoresSaved)
	if summary.RowsSkipped > 0 {
		fmt.Printf(", %d guest rows skipped", summary.RowsSkipped)
	}
	if summary.Replaced {
		fmt.Print(" (replaced)")
	}
	fmt.Println()
}

func runServe(cfg *config.Config, log logger.Logger, args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.Addr, "listen address")
	fs.Parse(args)

	a, err := app.New(log, cfg.DBPath)
	if err != nil {
		log.Error("cannot open database", "db", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(*addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
