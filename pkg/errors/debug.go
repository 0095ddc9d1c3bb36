package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// StoreFailure names the class of a database failure independently of the
// driver that reported it.
type StoreFailure string

const (
	StoreFailureNone       StoreFailure = ""
	StoreFailureUnique     StoreFailure = "unique_violation"
	StoreFailureForeignKey StoreFailure = "foreign_key_violation"
	StoreFailureCheck      StoreFailure = "check_violation"
	StoreFailureNotNull    StoreFailure = "not_null_violation"
	StoreFailureOutOfRange StoreFailure = "numeric_out_of_range"
	StoreFailureNotFound   StoreFailure = "record_not_found"
	StoreFailureOther      StoreFailure = "other"
)

// ErrorDump is the server-side view of an error: everything the log needs and
// nothing the client sees.
type ErrorDump struct {
	TopMessage string       `json:"top_message"`
	Code       Code         `json:"code,omitempty"`
	Step       string       `json:"step,omitempty"`
	Failure    StoreFailure `json:"failure,omitempty"`
	Driver     string       `json:"driver,omitempty"`

	Chain []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`
}

// Fields flattens the dump for structured logging. Empty values are left out.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{"error": d.TopMessage}
	add := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	add("error_code", string(d.Code))
	add("step", d.Step)
	add("db_failure", string(d.Failure))
	add("db_driver", d.Driver)
	add("pg_code", d.PGCode)
	add("pg_constraint", d.PGConstraint)
	add("pg_table", d.PGTable)
	add("pg_column", d.PGColumn)
	add("pg_detail", d.PGDetail)
	add("pg_message", d.PGMessage)
	if len(d.Chain) > 0 {
		fields["error_chain"] = d.Chain
	}
	return fields
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}

	if te := As(err); te != nil {
		d.Code = te.Code()
		if details, ok := te.Details().(map[string]any); ok {
			if step, ok := details["step"].(string); ok {
				d.Step = step
			}
		}
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgxErr):
		d.Driver = "pgx"
		d.PGCode = pgxErr.Code
		d.PGConstraint = pgxErr.ConstraintName
		d.PGTable = pgxErr.TableName
		d.PGColumn = pgxErr.ColumnName
		d.PGDetail = pgxErr.Detail
		d.PGMessage = pgxErr.Message
	case errors.As(err, &pqErr):
		d.Driver = "pq"
		d.PGCode = string(pqErr.Code)
		d.PGConstraint = pqErr.Constraint
		d.PGTable = pqErr.Table
		d.PGColumn = pqErr.Column
		d.PGDetail = pqErr.Detail
		d.PGMessage = pqErr.Message
	}

	d.Failure = classify(err, d.PGCode)
	if d.Driver == "" && sqliteFailure(err) != StoreFailureNone {
		d.Driver = "sqlite"
	}
	return d
}

// ClassifyStoreFailure reports which kind of constraint or lookup failure err
// carries, whether it came from pgx, lib/pq, sqlite or a translated gorm error.
func ClassifyStoreFailure(err error) StoreFailure {
	if err == nil {
		return StoreFailureNone
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return classify(err, pgxErr.Code)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return classify(err, string(pqErr.Code))
	}
	return classify(err, "")
}

func classify(err error, sqlState string) StoreFailure {
	if sqlState != "" {
		return fromSQLState(sqlState)
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return StoreFailureUnique
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return StoreFailureForeignKey
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return StoreFailureCheck
	case errors.Is(err, gorm.ErrRecordNotFound):
		return StoreFailureNotFound
	}
	return sqliteFailure(err)
}

func fromSQLState(code string) StoreFailure {
	switch code {
	case "23505":
		return StoreFailureUnique
	case "23503":
		return StoreFailureForeignKey
	case "23514":
		return StoreFailureCheck
	case "23502":
		return StoreFailureNotNull
	case "22003":
		return StoreFailureOutOfRange
	}
	return StoreFailureOther
}

// sqliteFailure matches the constraint messages of the sqlite driver.
func sqliteFailure(err error) StoreFailure {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return StoreFailureUnique
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return StoreFailureForeignKey
	case strings.Contains(msg, "CHECK constraint failed"):
		return StoreFailureCheck
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return StoreFailureNotNull
	}
	return StoreFailureNone
}
