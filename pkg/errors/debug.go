package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE codes raised when the deployed schema is behind the models.
const (
	pgUndefinedTable  = "42P01"
	pgUndefinedColumn = "42703"
)

var sqliteDriftMarkers = []string{"no such column", "no such table", "has no column named"}

// PGDetails are the server-side fields of a Postgres error, from either driver.
type PGDetails struct {
	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`
}

// ErrorDump flattens an error chain for logging. SchemaDrift marks failures the
// hosted schema-fix script repairs.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`
	PGDetails
	SchemaDrift bool `json:"schema_drift,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}
	d := ErrorDump{TopMessage: err.Error(), PGDetails: pgDetails(err)}
	if typed := As(err); typed != nil {
		d.Code = typed.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	d.SchemaDrift = isDrift(d.PGCode, d.TopMessage)
	return d
}

func pgDetails(err error) PGDetails {
	if pgxErr := (*pgconn.PgError)(nil); errors.As(err, &pgxErr) {
		return PGDetails{
			PGCode:       pgxErr.Code,
			PGConstraint: pgxErr.ConstraintName,
			PGTable:      pgxErr.TableName,
			PGColumn:     pgxErr.ColumnName,
			PGDetail:     pgxErr.Detail,
			PGMessage:    pgxErr.Message,
		}
	}
	if pqErr := (*pq.Error)(nil); errors.As(err, &pqErr) {
		return PGDetails{
			PGCode:       string(pqErr.Code),
			PGConstraint: pqErr.Constraint,
			PGTable:      pqErr.Table,
			PGColumn:     pqErr.Column,
			PGDetail:     pqErr.Detail,
			PGMessage:    pqErr.Message,
		}
	}
	return PGDetails{}
}

func isDrift(pgCode, msg string) bool {
	if pgCode == pgUndefinedColumn || pgCode == pgUndefinedTable {
		return true
	}
	for _, marker := range sqliteDriftMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Fields renders the dump as log fields. Empty database fields are left out.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	put := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	put("pg_code", d.PGCode)
	put("pg_constraint", d.PGConstraint)
	put("pg_table", d.PGTable)
	put("pg_column", d.PGColumn)
	put("pg_detail", d.PGDetail)
	put("pg_message", d.PGMessage)
	if d.SchemaDrift {
		fields["schema_drift"] = true
	}
	return fields
}
