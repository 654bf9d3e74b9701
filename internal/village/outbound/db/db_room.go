package db

import (
	"context"

	"github.com/desatrip/desatrip/internal/village/entity"
)

const roomColumns = `id, village_id, host_id, title, description, capacity, price_night_paise, photo_key, active, created_at, updated_at`

func (s *DB) ListRooms(ctx context.Context, villageID int64, filter entity.ListFilter) (_ []entity.Room, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "ListRooms")
	defer func() { s.endSpan(span, err) }()

	query := `select ` + roomColumns + `, count(*) over() as total
		from rooms where village_id = $1 and active
		order by price_night_paise, id
		limit $2 offset $3`

	rows, err := s.conn.Query(ctx, query, villageID, filter.Limit, filter.Offset())
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	var rooms []entity.Room
	var total int64
	for rows.Next() {
		var r entity.Room
		if err = rows.Scan(&r.ID, &r.VillageID, &r.HostID, &r.Title, &r.Description, &r.Capacity,
			&r.PriceNightPaise, &r.PhotoKey, &r.Active, &r.CreatedAt, &r.UpdatedAt, &total); err != nil {
			return nil, 0, s.mapError(err)
		}
		rooms = append(rooms, r)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	return rooms, total, nil
}

func (s *DB) GetRoomByID(ctx context.Context, id int64) (_ *entity.Room, err error) {
	ctx, span := s.startSpan(ctx, "GetRoomByID")
	defer func() { s.endSpan(span, err) }()

	var r entity.Room
	err = s.conn.QueryRow(ctx, `select `+roomColumns+` from rooms where id = $1`, id).
		Scan(&r.ID, &r.VillageID, &r.HostID, &r.Title, &r.Description, &r.Capacity,
			&r.PriceNightPaise, &r.PhotoKey, &r.Active, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &r, nil
}

func (s *DB) CreateRoom(ctx context.Context, in entity.NewRoom) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRoom")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`insert into rooms (id, village_id, host_id, title, description, capacity, price_night_paise)
		 values ($1, $2, $3, $4, $5, $6, $7)`,
		in.ID, in.VillageID, in.HostID, in.Title, in.Description, in.Capacity, in.PriceNightPaise)

	return s.mapError(err)
}
