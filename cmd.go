// apps/go-classic/cmd.go
//
// Command line surface (cobra).
//   - wordle [play]            terminal game (default)
//   - wordle serve             HTTP API
//   - wordle leaderboard [by]  print past wins sorted by name|tries|time
//   - wordle best              print the best record
//
// Configuration comes from the environment and `.env` (config.Load);
// flags override it.

package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-classic/internal/auth"
	"github.com/robalobadob/wordle/apps/go-classic/internal/config"
	"github.com/robalobadob/wordle/apps/go-classic/internal/controller"
	"github.com/robalobadob/wordle/apps/go-classic/internal/db"
	"github.com/robalobadob/wordle/apps/go-classic/internal/game"
	"github.com/robalobadob/wordle/apps/go-classic/internal/httpserver"
	"github.com/robalobadob/wordle/apps/go-classic/internal/scores"
	"github.com/robalobadob/wordle/apps/go-classic/internal/shell"
	"github.com/robalobadob/wordle/apps/go-classic/internal/store"
	"github.com/robalobadob/wordle/apps/go-classic/internal/words"
)

var (
	cfg *config.Config

	flagWords     string
	flagPort      string
	flagScoresDir string
	flagName      string
	flagPlain     bool
)

var rootCmd = &cobra.Command{
	Use:           "wordle",
	Short:         "Guess the five-letter word in six tries",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		applyFlags(cfg)
		if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			zerolog.SetGlobalLevel(lvl)
		}
	},
	RunE: runPlay,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runPlay,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the game over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var leaderboardCmd = &cobra.Command{
	Use:       "leaderboard [name|tries|time]",
	Short:     "Print past wins, sorted",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(scores.ByName), string(scores.ByAttempts), string(scores.BySeconds)},
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, conn, err := openStores(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		defer closeDB(conn)
		mode := scores.ByAttempts
		if len(args) == 1 {
			mode = scores.ParseSortMode(args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), shell.LeaderboardTable(sc.LoadHistorySorted(cmd.Context(), mode)))
		return nil
	},
}

var bestCmd = &cobra.Command{
	Use:   "best",
	Short: "Print the best score",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, conn, err := openStores(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		defer closeDB(conn)
		fmt.Fprintln(cmd.OutOrStdout(), shell.BestLine(sc.LoadBest(cmd.Context())))
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagWords, "words", "", "word list file (default: embedded list)")
	pf.StringVar(&flagScoresDir, "scores-dir", "", "directory for score files")
	pf.StringVar(&flagName, "name", "", "player name for score history")

	rootCmd.Flags().BoolVar(&flagPlain, "plain", false, "no colours")
	playCmd.Flags().BoolVar(&flagPlain, "plain", false, "no colours")
	serveCmd.Flags().StringVar(&flagPort, "port", "", "listen port")

	rootCmd.AddCommand(playCmd, serveCmd, leaderboardCmd, bestCmd)
}

// applyFlags copies explicitly set flags over env configuration.
func applyFlags(c *config.Config) {
	if flagWords != "" {
		c.WordsFile = flagWords
	}
	if flagScoresDir != "" {
		c.SetScoresDir(flagScoresDir)
	}
	if flagName != "" {
		c.PlayerName = flagName
	}
	if flagPort != "" {
		c.Port = flagPort
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		flagPlain = true
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// word list problems are reported before the terminal is taken over
	bank, err := loadBank(cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to load word lists")
		return err
	}
	sc, conn, err := openStores(ctx, cfg, false)
	if err != nil {
		log.Error().Err(err).Msg("failed to open score store")
		return err
	}
	defer closeDB(conn)

	sh, err := shell.New(sc, shell.Options{HistoryFile: cfg.ReadlineHistory, Plain: flagPlain})
	if err != nil {
		return err
	}
	defer sh.Close()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: sh.Stderr()})

	c, err := controller.New(bank, sc,
		controller.WithView(sh),
		controller.WithScoring(game.ParseScoring(cfg.Scoring)),
		controller.WithStrictWords(cfg.StrictWords),
		controller.WithPlayerName(playerName(cfg)),
	)
	if err != nil {
		return err
	}
	if err := sh.Loop(ctx, c); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	bank, err := loadBank(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}
	sc, conn, err := openStores(cmd.Context(), cfg, true)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer closeDB(conn)

	a, g := bank.Stats()
	log.Info().Int("answers", a).Int("allowed", g).Str("pick", cfg.WordPick).Msg("word lists loaded")

	srv := httpserver.New(store.NewMemoryStore(), bank, sc, auth.NewUsers(conn), auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiresDays), httpserver.Options{
		Scoring:       game.ParseScoring(cfg.Scoring),
		StrictWords:   cfg.StrictWords,
		DefaultPlayer: playerName(cfg),
		ClientOrigin:  cfg.ClientOrigin,
		CookieName:    cfg.CookieName,
		SecureCookies: cfg.CookieSecure,
		GameTTL:       time.Duration(cfg.GameIdleMins) * time.Minute,
	})
	go srv.Sweep(cmd.Context(), time.Minute)
	log.Info().Str("port", cfg.Port).Str("scores", cfg.ScoresBackend).Msg("starting go-classic")
	return srv.Start(":" + cfg.Port)
}

// loadBank reads the answer list (file or embedded) and the optional list of
// extra accepted guesses.
func loadBank(c *config.Config) (*words.Bank, error) {
	var (
		answers []words.Word
		err     error
	)
	if c.WordsFile != "" {
		answers, err = words.LoadFile(c.WordsFile)
	} else {
		answers, err = words.LoadDefault()
	}
	if err != nil {
		return nil, err
	}
	var extra []words.Word
	if c.AllowedWordsFile != "" {
		if extra, err = words.LoadFile(c.AllowedWordsFile); err != nil {
			return nil, err
		}
	}
	return words.NewBank(answers, extra, words.ParsePickMode(c.WordPick), c.DailySalt), nil
}

// openStores builds the configured score store. The database is opened when
// the sqlite backend is selected or needDB is set; conn is nil otherwise.
func openStores(ctx context.Context, c *config.Config, needDB bool) (scores.Store, *sql.DB, error) {
	var conn *sql.DB
	switch c.ScoresBackend {
	case "file", "sqlite":
	default:
		return nil, nil, fmt.Errorf("unknown SCORES_BACKEND %q (want file or sqlite)", c.ScoresBackend)
	}
	if needDB || c.ScoresBackend == "sqlite" {
		var err error
		if conn, err = db.Open(ctx, c.DBPath); err != nil {
			return nil, nil, err
		}
	}
	if c.ScoresBackend == "sqlite" {
		return scores.NewSQLStore(conn, c.SortedHistoryFile), conn, nil
	}
	return scores.NewFileStore(c.BestScoreFile, c.HistoryFile, c.SortedHistoryFile), conn, nil
}

func closeDB(conn *sql.DB) {
	if conn != nil {
		_ = conn.Close()
	}
}

func playerName(c *config.Config) string {
	if c.PlayerName != "" {
		return c.PlayerName
	}
	return scores.DefaultName
}
