package errx

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// WrapPostgres maps driver errors onto AppError. what names the entity for
// not-found messages.
func WrapPostgres(err error, what string) error {
	if err == nil {
		return nil
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return New(err, http.StatusNotFound, what+" not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return New(err, http.StatusConflict, what+" already exists")
		case pgForeignKeyViolation:
			return New(err, http.StatusConflict, what+" is referenced by other records")
		case pgCheckViolation:
			return New(err, http.StatusBadRequest, ValidationMessage)
		}
	}
	return New(err, http.StatusInternalServerError, DatabaseErrorMessage)
}
