package cardmap

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"railbird.club/server/game"
	"railbird.club/server/poker"
	"railbird.club/server/util"
)

// GetConnStr builds the postgres connection string for the card map
// database from the environment.
func GetConnStr() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		util.Env.GetPostgresHost(),
		util.Env.GetPostgresPort(),
		util.Env.GetPostgresUser(),
		util.Env.GetPostgresPW(),
		util.Env.GetPostgresDB(),
		util.Env.GetPostgresSSLMode(),
	)
}

// Connect opens the card map database and verifies the connection.
func Connect() (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", GetConnStr())
	if err != nil {
		return nil, errors.Wrap(err, "Unable to connect to the card map database")
	}
	return db, nil
}

// SQLStore reads trained tag mappings from the card_map table. The
// schema matches the training tool: uid is the primary key, card is
// the two-character label ("As", "Td").
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Resolve(uid string) (poker.Card, error) {
	var label string
	err := s.db.Get(&label, "SELECT card FROM card_map WHERE uid = $1", uid)
	if err == sql.ErrNoRows {
		return 0, game.UnknownCardError{UID: uid}
	}
	if err != nil {
		return 0, errors.Wrap(err, "sqlx Get returned an error")
	}

	card, err := poker.ParseCard(label)
	if err != nil {
		return 0, errors.Wrapf(err, "Tag %s maps to an invalid card label [%s]", uid, label)
	}
	return card, nil
}
