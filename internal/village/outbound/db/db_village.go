package db

import (
	"context"

	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/village/entity"
)

const villageColumns = `id, name, slug, district, state, description, cover_key, active, created_at, updated_at`

func (s *DB) ListVillages(ctx context.Context, filter entity.ListFilter) (_ []entity.Village, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "ListVillages")
	defer func() { s.endSpan(span, err) }()

	query := `select ` + villageColumns + `, count(*) over() as total
		from villages where active
		and ($1 = '' or name ilike '%' || $1 || '%' or district ilike '%' || $1 || '%')
		order by name
		limit $2 offset $3`

	rows, err := s.conn.Query(ctx, query, filter.Search, filter.Limit, filter.Offset())
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	var villages []entity.Village
	var total int64
	for rows.Next() {
		var v entity.Village
		if err = rows.Scan(&v.ID, &v.Name, &v.Slug, &v.District, &v.State, &v.Description,
			&v.CoverKey, &v.Active, &v.CreatedAt, &v.UpdatedAt, &total); err != nil {
			return nil, 0, s.mapError(err)
		}
		villages = append(villages, v)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	return villages, total, nil
}

func (s *DB) GetVillageByID(ctx context.Context, id int64) (*entity.Village, error) {
	return s.getVillage(ctx, "GetVillageByID", `where id = $1`, id)
}

func (s *DB) GetVillageBySlug(ctx context.Context, slug string) (*entity.Village, error) {
	return s.getVillage(ctx, "GetVillageBySlug", `where slug = $1`, slug)
}

func (s *DB) getVillage(ctx context.Context, spanName, where string, arg any) (_ *entity.Village, err error) {
	ctx, span := s.startSpan(ctx, spanName)
	defer func() { s.endSpan(span, err) }()

	var v entity.Village
	err = s.conn.QueryRow(ctx, `select `+villageColumns+` from villages `+where, arg).
		Scan(&v.ID, &v.Name, &v.Slug, &v.District, &v.State, &v.Description,
			&v.CoverKey, &v.Active, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &v, nil
}

func (s *DB) CreateVillage(ctx context.Context, in entity.NewVillage) (err error) {
	ctx, span := s.startSpan(ctx, "CreateVillage")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`insert into villages (id, name, slug, district, state, description)
		 values ($1, $2, $3, $4, $5, $6)`,
		in.ID, in.Name, in.Slug, in.District, in.State, in.Description)

	return s.mapError(err)
}

func (s *DB) UpdateVillage(ctx context.Context, in entity.PatchVillage) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateVillage")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`update villages set
			name = $2, district = $3, state = $4, description = $5,
			active = coalesce($6, active), updated_at = now()
		 where id = $1`,
		in.ID, in.Name, in.District, in.State, in.Description, in.Active)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (s *DB) SetVillageCover(ctx context.Context, id int64, coverKey string) (err error) {
	ctx, span := s.startSpan(ctx, "SetVillageCover")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`update villages set cover_key = $2, updated_at = now() where id = $1`, id, coverKey)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
