// Package postgres bootstraps the read and write database connections.
package postgres

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"hotelier/config"
)

// Connection holds the read and write handles. Read-only queries go
// through Read, mutations through Write; a single-node setup may point
// both at the same instance.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

type dbConfig struct {
	host     string
	port     string
	username string
	password string
	name     string
	sslMode  string
}

// ProvidePostgres connects to both databases, retrying up to the
// configured maximum before giving up.
func ProvidePostgres(conf *config.Config) *Connection {
	return &Connection{
		Read: connect("read", dbConfig{
			host:     conf.DB.Postgres.Read.Host,
			port:     conf.DB.Postgres.Read.Port,
			username: conf.DB.Postgres.Read.Username,
			password: conf.DB.Postgres.Read.Password,
			name:     conf.DB.Postgres.Read.Name,
			sslMode:  conf.DB.Postgres.Read.SSLMode,
		}, conf),
		Write: connect("write", dbConfig{
			host:     conf.DB.Postgres.Write.Host,
			port:     conf.DB.Postgres.Write.Port,
			username: conf.DB.Postgres.Write.Username,
			password: conf.DB.Postgres.Write.Password,
			name:     conf.DB.Postgres.Write.Name,
			sslMode:  conf.DB.Postgres.Write.SSLMode,
		}, conf),
	}
}

func connect(role string, db dbConfig, conf *config.Config) *sqlx.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		db.host, db.port, db.username, db.password, db.name, db.sslMode)

	maxRetry := conf.DB.Postgres.MaxRetry
	if maxRetry < 1 {
		maxRetry = 1
	}

	waitTime := time.Duration(conf.DB.Postgres.RetryWaitTime) * time.Second

	var (
		conn *sqlx.DB
		err  error
	)

	for attempt := 1; attempt <= maxRetry; attempt++ {
		conn, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			log.Info().
				Str("role", role).
				Str("host", db.host).
				Str("database", db.name).
				Msg("Connected to database")

			return conn
		}

		log.Warn().
			Err(err).
			Str("role", role).
			Int("attempt", attempt).
			Int("maxRetry", maxRetry).
			Msg("Failed connecting to database, retrying")

		time.Sleep(waitTime)
	}

	log.Fatal().
		Err(err).
		Str("role", role).
		Str("host", db.host).
		Str("database", db.name).
		Msg("Exhausted retries connecting to database")

	return nil
}
