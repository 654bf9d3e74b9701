// Package pgxauthz persists Casbin policies in Postgres over pgx and keeps
// enforcer instances in sync across replicas with LISTEN/NOTIFY.
package pgxauthz

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/persist"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/lo"
)

const (
	defaultTable = "authz_rule"

	// Casbin rules carry at most six value columns.
	ruleColumns = 6
)

var (
	ErrRuleTooLong  = errors.New("pgxauthz: rule has more than six values")
	ErrEmptyPtype   = errors.New("pgxauthz: ptype must not be empty")
	ErrRuleMismatch = errors.New("pgxauthz: old and new rule counts differ")
)

// Commander is the pgx surface the adapter needs; both *pgxpool.Pool and
// pgx.Tx satisfy it.
type Commander interface {
	Begin(context.Context) (pgx.Tx, error)
	SendBatch(context.Context, *pgx.Batch) pgx.BatchResults
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Adapter stores and retrieves Casbin policies using pgx.
type Adapter struct {
	db    Commander
	table string
}

var (
	_ persist.Adapter        = (*Adapter)(nil)
	_ persist.ContextAdapter = (*Adapter)(nil)
	_ persist.BatchAdapter   = (*Adapter)(nil)
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithTable overrides the default rule table name.
func WithTable(name string) Option {
	return func(a *Adapter) { a.table = lo.SnakeCase(name) }
}

// NewAdapter verifies connectivity and returns a ready adapter. The rule
// table is expected to exist; schema migrations own its DDL.
func NewAdapter(ctx context.Context, db interface {
	Ping(context.Context) error
	Commander
}, opts ...Option,
) (*Adapter, error) {
	if err := db.Ping(ctx); err != nil {
		return nil, err
	}

	adapter := &Adapter{db: db, table: defaultTable}
	for _, opt := range opts {
		opt(adapter)
	}

	return adapter, nil
}

func (a *Adapter) LoadPolicyCtx(ctx context.Context, m model.Model) error {
	lines, err := a.selectWhere(ctx, "", 0)
	if err != nil {
		return err
	}

	for _, line := range lines {
		if err := persist.LoadPolicyArray(line, m); err != nil {
			return err
		}
	}

	return nil
}

func (a *Adapter) SavePolicyCtx(ctx context.Context, m model.Model) (err error) {
	tx, err := a.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, rbErr)
			}
		}
	}()

	if _, err = tx.Exec(ctx, "truncate table "+a.table+" restart identity"); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, rule := range collectRules(m) {
		args, qErr := insertArgs(rule[0], rule[1:])
		if qErr != nil {
			return qErr
		}
		batch.Queue(a.insertSQL(), args...)
	}
	if batch.Len() > 0 {
		if err = execBatch(tx.SendBatch(ctx, batch), batch.Len()); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (a *Adapter) AddPolicyCtx(ctx context.Context, _, ptype string, rule []string) error {
	args, err := insertArgs(ptype, rule)
	if err != nil {
		return err
	}

	_, err = a.db.Exec(ctx, a.insertSQL(), args...)

	return err
}

func (a *Adapter) RemovePolicyCtx(ctx context.Context, _, ptype string, rule []string) error {
	args, err := insertArgs(ptype, rule)
	if err != nil {
		return err
	}

	_, err = a.db.Exec(ctx, a.deleteSQL(), args...)

	return err
}

func (a *Adapter) RemoveFilteredPolicyCtx(ctx context.Context, _, ptype string, fieldIndex int, fieldValues ...string) error {
	if ptype == "" {
		return ErrEmptyPtype
	}
	if fieldIndex+len(fieldValues) > ruleColumns {
		return ErrRuleTooLong
	}

	query := "delete from " + a.table + " where ptype = $1"
	args := []any{ptype}
	for i, value := range fieldValues {
		if value == "" {
			continue
		}
		args = append(args, value)
		query += " and v" + strconv.Itoa(fieldIndex+i) + " = $" + strconv.Itoa(len(args))
	}

	_, err := a.db.Exec(ctx, query, args...)

	return err
}

func (a *Adapter) AddPoliciesCtx(ctx context.Context, _, ptype string, rules [][]string) error {
	if len(rules) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rule := range rules {
		args, err := insertArgs(ptype, rule)
		if err != nil {
			return err
		}
		batch.Queue(a.insertSQL(), args...)
	}

	return execBatch(a.db.SendBatch(ctx, batch), batch.Len())
}

func (a *Adapter) RemovePoliciesCtx(ctx context.Context, _, ptype string, rules [][]string) error {
	if len(rules) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rule := range rules {
		args, err := insertArgs(ptype, rule)
		if err != nil {
			return err
		}
		batch.Queue(a.deleteSQL(), args...)
	}

	return execBatch(a.db.SendBatch(ctx, batch), batch.Len())
}

func (a *Adapter) LoadPolicy(m model.Model) error { return a.LoadPolicyCtx(context.Background(), m) }
func (a *Adapter) SavePolicy(m model.Model) error { return a.SavePolicyCtx(context.Background(), m) }

func (a *Adapter) AddPolicy(sec, ptype string, rule []string) error {
	return a.AddPolicyCtx(context.Background(), sec, ptype, rule)
}

func (a *Adapter) RemovePolicy(sec, ptype string, rule []string) error {
	return a.RemovePolicyCtx(context.Background(), sec, ptype, rule)
}

func (a *Adapter) RemoveFilteredPolicy(sec, ptype string, fieldIndex int, fieldValues ...string) error {
	return a.RemoveFilteredPolicyCtx(context.Background(), sec, ptype, fieldIndex, fieldValues...)
}

func (a *Adapter) AddPolicies(sec, ptype string, rules [][]string) error {
	return a.AddPoliciesCtx(context.Background(), sec, ptype, rules)
}

func (a *Adapter) RemovePolicies(sec, ptype string, rules [][]string) error {
	return a.RemovePoliciesCtx(context.Background(), sec, ptype, rules)
}

func (a *Adapter) selectWhere(ctx context.Context, ptype string, fieldIndex int, fieldValues ...string) ([][]string, error) {
	query := "select ptype, " + columnList() + " from " + a.table
	var args []any
	var conds []string
	if ptype != "" {
		args = append(args, ptype)
		conds = append(conds, "ptype = $1")
	}
	for i, value := range fieldValues {
		if value == "" {
			continue
		}
		args = append(args, value)
		conds = append(conds, "v"+strconv.Itoa(fieldIndex+i)+" = $"+strconv.Itoa(len(args)))
	}
	if len(conds) > 0 {
		query += " where " + strings.Join(conds, " and ")
	}

	rows, err := a.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result [][]string
	for rows.Next() {
		cols := make([]sql.NullString, ruleColumns+1)
		scan := make([]any, len(cols))
		for i := range cols {
			scan[i] = &cols[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, err
		}

		line := make([]string, 0, len(cols))
		for _, col := range cols {
			line = append(line, col.String)
		}
		result = append(result, trimTrailingEmpty(line))
	}

	return result, rows.Err()
}

func (a *Adapter) insertSQL() string {
	placeholders := lo.Times(ruleColumns, func(i int) string {
		return "$" + strconv.Itoa(i+2)
	})

	return fmt.Sprintf(
		"insert into %[1]s (ptype, %[2]s) values ($1, %[3]s) on conflict (ptype, %[2]s) do nothing",
		a.table, columnList(), strings.Join(placeholders, ","),
	)
}

func (a *Adapter) deleteSQL() string {
	conds := lo.Times(ruleColumns, func(i int) string {
		return "v" + strconv.Itoa(i) + " = $" + strconv.Itoa(i+2)
	})

	return "delete from " + a.table + " where ptype = $1 and " + strings.Join(conds, " and ")
}

func columnList() string {
	return strings.Join(lo.Times(ruleColumns, func(i int) string {
		return "v" + strconv.Itoa(i)
	}), ",")
}

func insertArgs(ptype string, rule []string) ([]any, error) {
	if len(rule) > ruleColumns {
		return nil, ErrRuleTooLong
	}

	padded := make([]string, ruleColumns)
	copy(padded, rule)

	return lo.ToAnySlice(append([]string{ptype}, padded...)), nil
}

func execBatch(br pgx.BatchResults, n int) error {
	for range n {
		if _, err := br.Exec(); err != nil {
			return errors.Join(err, br.Close())
		}
	}

	return br.Close()
}

func collectRules(m model.Model) [][]string {
	var rules [][]string
	for _, sec := range []string{"p", "g"} {
		for ptype, ast := range m[sec] {
			for _, rule := range ast.Policy {
				rules = append(rules, append([]string{ptype}, rule...))
			}
		}
	}

	return rules
}

func trimTrailingEmpty(rule []string) []string {
	last := len(rule) - 1
	for last >= 0 && rule[last] == "" {
		last--
	}

	return rule[:last+1]
}
