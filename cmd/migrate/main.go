package main

import (
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"
	"sam-server/internal/config"
	"sam-server/pkg/db"
)

const connectTimeout = time.Second * 10

func main() {
	dbh := waitForDB()
	if err := db.MigrateDB(dbh, config.Instance().MigrationsPath); err != nil {
		logrus.WithError(err).Fatal("could not run migrations")
	}

	logrus.Info("migrations complete")
}

// waitForDB retries until Postgres accepts connections, the database container may still be starting
func waitForDB() *sql.DB {
	timeout := time.NewTimer(connectTimeout)
	defer timeout.Stop()

	for {
		dbh, err := db.Open(config.Instance().PGDSN)
		if err == nil {
			return dbh
		}

		select {
		case <-timeout.C:
			logrus.WithError(err).Fatal("could not connect to database")
		case <-time.After(time.Millisecond * 500):
		}
	}
}
