package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// PostgreSQL unique_violation
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	// MySQL (error code 1062)
	if strings.Contains(err.Error(), "Error 1062") {
		return true
	}

	// SQLite
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return true
	}

	return false
}
