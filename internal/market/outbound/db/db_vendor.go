package db

import (
	"context"

	"github.com/desatrip/desatrip/internal/market/entity"
)

const vendorColumns = `id, account_id, name, description, phone, active, created_at, updated_at`

func (s *DB) GetVendorByID(ctx context.Context, id int64) (*entity.Vendor, error) {
	return s.getVendor(ctx, "GetVendorByID", `where id = $1`, id)
}

func (s *DB) GetVendorByAccountID(ctx context.Context, accountID int64) (*entity.Vendor, error) {
	return s.getVendor(ctx, "GetVendorByAccountID", `where account_id = $1`, accountID)
}

func (s *DB) getVendor(ctx context.Context, spanName, where string, arg any) (_ *entity.Vendor, err error) {
	ctx, span := s.startSpan(ctx, spanName)
	defer func() { s.endSpan(span, err) }()

	var v entity.Vendor
	err = s.conn.QueryRow(ctx, `select `+vendorColumns+` from vendors `+where, arg).
		Scan(&v.ID, &v.AccountID, &v.Name, &v.Description, &v.Phone,
			&v.Active, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &v, nil
}

func (s *DB) CreateVendor(ctx context.Context, in entity.NewVendor) (err error) {
	ctx, span := s.startSpan(ctx, "CreateVendor")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`insert into vendors (id, account_id, name, description, phone)
		 values ($1, $2, $3, $4, $5)`,
		in.ID, in.AccountID, in.Name, in.Description, in.Phone)

	return s.mapError(err)
}
