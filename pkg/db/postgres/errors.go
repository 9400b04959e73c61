package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// UniqueViolationCode - SQLSTATE нарушения ограничения уникальности.
const UniqueViolationCode = "23505"

// UniqueViolation сообщает, что err вызван нарушением уникальности, и возвращает имя ограничения.
func UniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == UniqueViolationCode {
		return pgErr.ConstraintName, true
	}
	return "", false
}
