package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordbomb/apps/go-server/internal/httpserver"
	"github.com/robalobadob/wordbomb/apps/go-server/internal/store"
	"github.com/robalobadob/wordbomb/apps/go-server/internal/words"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.WordsDB != "" {
		var err error
		if db, err = openDB(cfg.WordsDB); err != nil {
			return err
		}
		defer db.Close()
		if err := migrate(ctx, db); err != nil {
			return err
		}
	}
	cat, err := words.Load(ctx, cfg.WordsDir, db)
	if err != nil {
		return err
	}
	for _, st := range cat.Stats() {
		log.Info().Str("language", string(st.Language)).Int("words", st.Words).Ints("lengths", st.Lengths).Msg("word list loaded")
	}

	mem := store.NewMemoryStore()
	defer mem.Close()

	srv := httpserver.New(cfg, mem, cat)
	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	log.Info().Str("port", cfg.Port).Msg("starting go-server")

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Int("sessions", mem.Len()).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}
