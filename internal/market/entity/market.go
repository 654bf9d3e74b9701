package entity

import "time"

type Vendor struct {
	ID          int64
	AccountID   int64
	Name        string
	Description string
	Phone       string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type NewVendor struct {
	ID          int64
	AccountID   int64
	Name        string
	Description string
	Phone       string
}

type Product struct {
	ID          int64
	VendorID    int64
	Name        string
	Description string
	Category    string
	PricePaise  int64
	Stock       int32
	PhotoKey    string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type NewProduct struct {
	ID          int64
	VendorID    int64
	Name        string
	Description string
	Category    string
	PricePaise  int64
	Stock       int32
}

type PatchProduct struct {
	ID          int64
	Name        string
	Description string
	Category    string
	PricePaise  int64
	Stock       *int32
	Active      *bool
}

type ProductFilter struct {
	Page     int32
	Limit    int32
	Search   string
	Category string
	VendorID int64
}

func (f ProductFilter) Offset() int32 {
	return (f.Page - 1) * f.Limit
}
