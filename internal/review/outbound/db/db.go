package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/pkg/instrument"
	"github.com/desatrip/desatrip/internal/review/entity"
)

type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

func (s *DB) VillageExists(ctx context.Context, villageID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "VillageExists")
	defer func() { s.endSpan(span, err) }()

	var exists bool
	err = s.conn.QueryRow(ctx,
		`select exists(select 1 from villages where id = $1 and active)`, villageID).Scan(&exists)
	if err != nil {
		return false, s.mapError(err)
	}

	return exists, nil
}

func (s *DB) ListReviews(ctx context.Context, villageID int64) (_ []entity.Review, _ float64, err error) {
	ctx, span := s.startSpan(ctx, "ListReviews")
	defer func() { s.endSpan(span, err) }()

	query := `select r.id, r.village_id, r.account_id, a.full_name, r.rating, r.comment, r.created_at,
			avg(r.rating) over() as average
		from reviews r join accounts a on a.id = r.account_id
		where r.village_id = $1
		order by r.created_at desc`

	rows, err := s.conn.Query(ctx, query, villageID)
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	var reviews []entity.Review
	var average float64
	for rows.Next() {
		var r entity.Review
		if err = rows.Scan(&r.ID, &r.VillageID, &r.AccountID, &r.AuthorName, &r.Rating,
			&r.Comment, &r.CreatedAt, &average); err != nil {
			return nil, 0, s.mapError(err)
		}
		reviews = append(reviews, r)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	return reviews, average, nil
}

func (s *DB) CreateReview(ctx context.Context, in entity.NewReview) (err error) {
	ctx, span := s.startSpan(ctx, "CreateReview")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`insert into reviews (id, village_id, account_id, rating, comment)
		 values ($1, $2, $3, $4, $5)`,
		in.ID, in.VillageID, in.AccountID, in.Rating, in.Comment)

	return s.mapError(err)
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return goerror.ErrConflict
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("review.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
