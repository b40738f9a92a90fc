package dataimport

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"AqsatiSaaS/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SequencePair is one (internal id, human-facing sequence number) projection
// of a referenced table.
type SequencePair struct {
	ID             string
	SequenceNumber string
}

// Store is the persistence boundary of the import pipeline. The pipeline
// depends only on this interface; PgStore talks to Postgres, MemStore backs
// tests.
type Store interface {
	// SequencePairs scans the whole table projected to (id, sequence_number).
	SequencePairs(ctx context.Context, table string) ([]SequencePair, error)
	// BulkInsert writes all rows in one call; on error the caller must assume
	// unknown partial state and count zero rows.
	BulkInsert(ctx context.Context, table string, rows []map[string]interface{}) (int, error)
	// RecordPayment routes one payment through the balance-mutating server
	// procedure. The server's rejection message is returned verbatim.
	RecordPayment(ctx context.Context, p PaymentRecord) error
	// Purge deletes every row, or only rows created at or after *olderThan.
	Purge(ctx context.Context, table string, olderThan *time.Time) error
	// TableColumns lists the table's column names for mapping introspection.
	TableColumns(ctx context.Context, table string) ([]string, error)
}

// PgStore implements Store over a pgx pool.
type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) SequencePairs(ctx context.Context, table string) ([]SequencePair, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT id::text, sequence_number::text FROM %s WHERE sequence_number IS NOT NULL`, pgx.Identifier{table}.Sanitize()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pairs := make([]SequencePair, 0)
	for rows.Next() {
		var p SequencePair
		if err := rows.Scan(&p.ID, &p.SequenceNumber); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

func (s *PgStore) BulkInsert(ctx context.Context, table string, rows []map[string]interface{}) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	columns := columnUnion(rows)
	inserted := 0
	for start := 0; start < len(rows); start += config.ImportBatchSize {
		end := start + config.ImportBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]
		sql, args := buildInsert(table, columns, chunk)
		tag, err := s.pool.Exec(ctx, sql, args...)
		if err != nil {
			// Unknown partial state; the caller must not count any rows.
			return 0, err
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// buildInsert renders one multi-row INSERT. Decimal values travel as text so
// the server casts them to numeric without precision loss.
func buildInsert(table string, columns []string, rows []map[string]interface{}) (string, []interface{}) {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", pgx.Identifier{table}.Sanitize(), strings.Join(quoted, ", "))
	args := make([]interface{}, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j, col := range columns {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", len(args)+1)
			args = append(args, normalizeArg(row[col]))
		}
		b.WriteString(")")
	}
	return b.String(), args
}

func normalizeArg(v interface{}) interface{} {
	if d, ok := v.(decimal.Decimal); ok {
		return d.String()
	}
	return v
}

func (s *PgStore) RecordPayment(ctx context.Context, p PaymentRecord) error {
	_, err := s.pool.Exec(ctx, `SELECT record_payment($1, $2::numeric, $3::date)`, p.TransactionID, p.Amount.String(), p.PaymentDate)
	if err != nil {
		return err
	}
	if p.Notes != "" {
		// The procedure creates the payment row; notes attach to it after.
		_, _ = s.pool.Exec(ctx, `
			UPDATE payments SET notes = $2
			WHERE id = (SELECT id FROM payments WHERE transaction_id = $1 ORDER BY created_at DESC LIMIT 1)`,
			p.TransactionID, p.Notes)
	}
	return nil
}

func (s *PgStore) Purge(ctx context.Context, table string, olderThan *time.Time) error {
	ident := pgx.Identifier{table}.Sanitize()
	if olderThan != nil {
		_, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE created_at >= $1`, ident), *olderThan)
		return err
	}
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, ident))
	return err
}

func (s *PgStore) TableColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_name = $1 ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// columnUnion collects the sorted union of field names across rows so the
// bulk write has a stable column list even when some rows omit optional
// fields.
func columnUnion(rows []map[string]interface{}) []string {
	set := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			set[k] = true
		}
	}
	cols := make([]string, 0, len(set))
	for k := range set {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}
