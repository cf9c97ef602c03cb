package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"sam-server/internal/config"
	"sam-server/internal/jwt"
	"sam-server/internal/mux"
	"sam-server/internal/rng"
	"sam-server/pkg/db"
	"sam-server/pkg/playable/sam"
	"sam-server/pkg/room"
	"sam-server/pkg/table"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", ":5000", "the listen address")

func main() {
	flag.Parse()
	setupLogger()

	// fail fast
	jwt.LoadKeys()

	cfg := config.Instance()
	logger := logrus.StandardLogger()
	clock := quartz.NewReal()

	engine, err := sam.NewEngine(logger, clock, rng.Crypto{}, cfg.EngineOptions())
	if err != nil {
		logrus.WithError(err).Fatal("could not create engine")
	}

	store := newStore(cfg)

	pitBoss := room.NewPitBoss(engine, store, clock, cfg.TickInterval, logger)
	pitBoss.StartShift()
	defer pitBoss.EndShift()

	// tables with a game in progress keep their turn clock running
	if n, err := pitBoss.Resume(context.Background()); err != nil {
		logrus.WithError(err).Error("could not resume tables")
	} else if n > 0 {
		logrus.WithField("tables", n).Info("resumed tables")
	}

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		ExposedHeaders: []string{"Sam-PlayerID"},
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, engine, store, pitBoss))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithFields(logrus.Fields{
		"addr":  srv.Addr,
		"store": cfg.Store,
	}).Info("listening")
	logrus.Fatal(srv.ListenAndServe())
}

func newStore(cfg config.Config) table.Store {
	switch cfg.Store {
	case config.StoreMemory:
		logrus.Warn("using the in-memory store, tables are lost on restart")
		return table.NewMemoryStore()
	case config.StorePostgres:
		// run the db migrations
		db.Migrate()
		return table.NewPostgresStore(db.Instance())
	}

	logrus.WithField("store", cfg.Store).Fatal("unknown store")
	return nil
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	cfg := config.Instance().Log
	if lvl := cfg.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(cfg.Format) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
