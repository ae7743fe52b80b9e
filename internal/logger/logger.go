package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// Newはzerologのロガーを作る。devのときだけ人間向け出力にする。
func New(env string) zerolog.Logger {
	if env == "dev" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
