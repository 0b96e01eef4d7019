// apps/go-classic/internal/config/config.go
//
// Runtime configuration, read from the environment.
// A `.env` file in the working directory is loaded first (development
// convenience); real environment variables win over it.
//
// Environment variables:
//   LOG_LEVEL            zerolog level (default info)
//   WORDS_FILE           answer list; embedded default when unset
//   WORDS_ALLOWED_FILE   extra accepted guesses
//   WORD_PICK            random | daily
//   DAILY_SALT           HMAC salt for the daily pick
//   SCORING              simplified | standard
//   STRICT_WORDS         only accept guesses from the word lists
//   PLAYER_NAME          default name on score records
//   SCORES_BACKEND       file | sqlite
//   SCORES_DIR           directory for the score files (default ".")
//   BEST_SCORE_FILE      overrides SCORES_DIR/HighScore.dat
//   HISTORY_FILE         overrides SCORES_DIR/Score.txt
//   SORTED_HISTORY_FILE  overrides SCORES_DIR/SortedScore.txt
//   DB_PATH              sqlite database (default ./data/wordle.db)
//   PORT                 HTTP port for `serve` (default 5175)
//   CLIENT_ORIGIN        CORS origin (default http://localhost:5173)
//   JWT_SECRET           token signing secret
//   JWT_EXPIRES_DAYS     token lifetime (default 14)
//   COOKIE_NAME          auth cookie (default wordle_token)
//   READLINE_HISTORY     prompt history file for `play`

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the fully resolved runtime configuration.
type Config struct {
	LogLevel string

	WordsFile        string
	AllowedWordsFile string
	WordPick         string
	DailySalt        string
	Scoring          string
	StrictWords      bool
	PlayerName       string

	ScoresBackend     string
	BestScoreFile     string
	HistoryFile       string
	SortedHistoryFile string
	DBPath            string

	Port           string
	ClientOrigin   string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	CookieSecure   bool
	GameIdleMins   int

	ReadlineHistory string
}

// Load reads `.env` (if present) and the environment.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	c := &Config{
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		WordsFile:        os.Getenv("WORDS_FILE"),
		AllowedWordsFile: os.Getenv("WORDS_ALLOWED_FILE"),
		WordPick:         getEnv("WORD_PICK", "random"),
		DailySalt:        getEnv("DAILY_SALT", "local_dev_salt"),
		Scoring:          getEnv("SCORING", "simplified"),
		StrictWords:      getBool("STRICT_WORDS", false),
		PlayerName:       os.Getenv("PLAYER_NAME"),
		ScoresBackend:    strings.ToLower(getEnv("SCORES_BACKEND", "file")),
		DBPath:           getEnv("DB_PATH", "./data/wordle.db"),
		Port:             getEnv("PORT", "5175"),
		ClientOrigin:     getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		JWTSecret:        getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays:   getInt("JWT_EXPIRES_DAYS", 14),
		CookieName:       getEnv("COOKIE_NAME", "wordle_token"),
		CookieSecure:     getBool("COOKIE_SECURE", false),
		GameIdleMins:     getInt("GAME_IDLE_MINUTES", 30),
		ReadlineHistory:  getEnv("READLINE_HISTORY", filepath.Join(os.TempDir(), "wordle_readline.tmp")),
	}
	c.SetScoresDir(getEnv("SCORES_DIR", "."))
	return c
}

// SetScoresDir points the score files at dir unless a file was set
// explicitly through its own variable.
func (c *Config) SetScoresDir(dir string) {
	c.BestScoreFile = getEnv("BEST_SCORE_FILE", filepath.Join(dir, "HighScore.dat"))
	c.HistoryFile = getEnv("HISTORY_FILE", filepath.Join(dir, "Score.txt"))
	c.SortedHistoryFile = getEnv("SORTED_HISTORY_FILE", filepath.Join(dir, "SortedScore.txt"))
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
