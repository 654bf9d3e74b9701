package db

import (
	"context"

	"github.com/desatrip/desatrip/internal/market/entity"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
)

const productColumns = `id, vendor_id, name, description, category, price_paise, stock, photo_key, active, created_at, updated_at`

func (s *DB) ListProducts(ctx context.Context, filter entity.ProductFilter) (_ []entity.Product, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "ListProducts")
	defer func() { s.endSpan(span, err) }()

	query := `select ` + productColumns + `, count(*) over() as total
		from products where active
		and ($1 = '' or name ilike '%' || $1 || '%')
		and ($2 = '' or category = $2)
		and ($3 = 0 or vendor_id = $3)
		order by name
		limit $4 offset $5`

	rows, err := s.conn.Query(ctx, query,
		filter.Search, filter.Category, filter.VendorID, filter.Limit, filter.Offset())
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	var products []entity.Product
	var total int64
	for rows.Next() {
		var p entity.Product
		if err = rows.Scan(&p.ID, &p.VendorID, &p.Name, &p.Description, &p.Category, &p.PricePaise,
			&p.Stock, &p.PhotoKey, &p.Active, &p.CreatedAt, &p.UpdatedAt, &total); err != nil {
			return nil, 0, s.mapError(err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	return products, total, nil
}

func (s *DB) GetProductByID(ctx context.Context, id int64) (_ *entity.Product, err error) {
	ctx, span := s.startSpan(ctx, "GetProductByID")
	defer func() { s.endSpan(span, err) }()

	var p entity.Product
	err = s.conn.QueryRow(ctx, `select `+productColumns+` from products where id = $1`, id).
		Scan(&p.ID, &p.VendorID, &p.Name, &p.Description, &p.Category, &p.PricePaise,
			&p.Stock, &p.PhotoKey, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &p, nil
}

func (s *DB) CreateProduct(ctx context.Context, in entity.NewProduct) (err error) {
	ctx, span := s.startSpan(ctx, "CreateProduct")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`insert into products (id, vendor_id, name, description, category, price_paise, stock)
		 values ($1, $2, $3, $4, $5, $6, $7)`,
		in.ID, in.VendorID, in.Name, in.Description, in.Category, in.PricePaise, in.Stock)

	return s.mapError(err)
}

func (s *DB) UpdateProduct(ctx context.Context, in entity.PatchProduct) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateProduct")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`update products set
			name = $2, description = $3, category = $4, price_paise = $5,
			stock = coalesce($6, stock), active = coalesce($7, active), updated_at = now()
		 where id = $1`,
		in.ID, in.Name, in.Description, in.Category, in.PricePaise, in.Stock, in.Active)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (s *DB) SetProductPhoto(ctx context.Context, id int64, photoKey string) (err error) {
	ctx, span := s.startSpan(ctx, "SetProductPhoto")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`update products set photo_key = $2, updated_at = now() where id = $1`, id, photoKey)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
