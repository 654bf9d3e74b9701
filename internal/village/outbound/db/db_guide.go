package db

import (
	"context"

	"github.com/desatrip/desatrip/internal/village/entity"
)

const guideColumns = `id, village_id, account_id, full_name, bio, languages, fee_day_paise, active, created_at, updated_at`

func (s *DB) ListGuides(ctx context.Context, villageID int64) (_ []entity.Guide, err error) {
	ctx, span := s.startSpan(ctx, "ListGuides")
	defer func() { s.endSpan(span, err) }()

	query := `select ` + guideColumns + ` from guides
		where village_id = $1 and active
		order by full_name`

	rows, err := s.conn.Query(ctx, query, villageID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var guides []entity.Guide
	for rows.Next() {
		var g entity.Guide
		if err = rows.Scan(&g.ID, &g.VillageID, &g.AccountID, &g.FullName, &g.Bio, &g.Languages,
			&g.FeeDayPaise, &g.Active, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, s.mapError(err)
		}
		guides = append(guides, g)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return guides, nil
}

func (s *DB) CreateGuide(ctx context.Context, in entity.NewGuide) (err error) {
	ctx, span := s.startSpan(ctx, "CreateGuide")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`insert into guides (id, village_id, account_id, full_name, bio, languages, fee_day_paise)
		 values ($1, $2, $3, $4, $5, $6, $7)`,
		in.ID, in.VillageID, in.AccountID, in.FullName, in.Bio, in.Languages, in.FeeDayPaise)

	return s.mapError(err)
}
