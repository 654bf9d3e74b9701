package usecase

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	libJWT "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desatrip/desatrip/internal/market/entity"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/pkg/instrument"
	"github.com/desatrip/desatrip/internal/pkg/jwt"
	"github.com/desatrip/desatrip/internal/pkg/storage"
	"github.com/desatrip/desatrip/internal/pkg/validator"
)

type fakeRepoDB struct {
	vendors  map[int64]*entity.Vendor
	products map[int64]*entity.Product
}

func newFakeRepoDB() *fakeRepoDB {
	return &fakeRepoDB{
		vendors:  map[int64]*entity.Vendor{},
		products: map[int64]*entity.Product{},
	}
}

func (f *fakeRepoDB) GetVendorByID(_ context.Context, id int64) (*entity.Vendor, error) {
	v, ok := f.vendors[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeRepoDB) GetVendorByAccountID(_ context.Context, accountID int64) (*entity.Vendor, error) {
	for _, v := range f.vendors {
		if v.AccountID == accountID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeRepoDB) CreateVendor(_ context.Context, in entity.NewVendor) error {
	for _, v := range f.vendors {
		if v.AccountID == in.AccountID {
			return goerror.ErrConflict
		}
	}
	f.vendors[in.ID] = &entity.Vendor{
		ID:        in.ID,
		AccountID: in.AccountID,
		Name:      in.Name,
		Phone:     in.Phone,
		Active:    true,
	}
	return nil
}

func (f *fakeRepoDB) ListProducts(_ context.Context, filter entity.ProductFilter) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range f.products {
		if filter.VendorID != 0 && p.VendorID != filter.VendorID {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepoDB) GetProductByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepoDB) CreateProduct(_ context.Context, in entity.NewProduct) error {
	f.products[in.ID] = &entity.Product{
		ID:         in.ID,
		VendorID:   in.VendorID,
		Name:       in.Name,
		Category:   in.Category,
		PricePaise: in.PricePaise,
		Stock:      in.Stock,
		Active:     true,
	}
	return nil
}

func (f *fakeRepoDB) UpdateProduct(_ context.Context, in entity.PatchProduct) error {
	p, ok := f.products[in.ID]
	if !ok {
		return goerror.ErrNotFound
	}
	p.Name = in.Name
	p.Category = in.Category
	p.PricePaise = in.PricePaise
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	return nil
}

func (f *fakeRepoDB) SetProductPhoto(_ context.Context, id int64, photoKey string) error {
	p, ok := f.products[id]
	if !ok {
		return goerror.ErrNotFound
	}
	p.PhotoKey = photoKey
	return nil
}

type fakeBlob struct {
	objects map[string][]byte
}

func newFakeBlob() *fakeBlob {
	return &fakeBlob{objects: map[string][]byte{}}
}

func (f *fakeBlob) Close() error { return nil }

func (f *fakeBlob) Upload(_ context.Context, key string, r io.Reader, _ int64, contentType string) (storage.Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return storage.Object{}, err
	}
	f.objects[key] = data
	return storage.Object{Key: key, Size: int64(len(data)), ContentType: contentType}, nil
}

func (f *fakeBlob) Download(_ context.Context, key string) (io.ReadCloser, storage.Object, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, storage.Object{}, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), storage.Object{Key: key}, nil
}

func (f *fakeBlob) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeBlob) List(_ context.Context, _ string, _ int) ([]storage.Object, error) {
	return nil, nil
}

func (f *fakeBlob) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://media.test/" + key, nil
}

func (f *fakeBlob) PresignPut(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://media.test/" + key, nil
}

type seqNumberID struct{ n int64 }

func (g *seqNumberID) Generate() int64 {
	g.n++
	return g.n
}

const testRBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

type testEnv struct {
	uc   *Usecase
	repo *fakeRepoDB
	blob *fakeBlob
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	m, err := model.NewModelFromString(testRBACModel)
	require.NoError(t, err)

	enforcer, err := casbin.NewEnforcer(m)
	require.NoError(t, err)

	_, err = enforcer.AddPolicy("role:vendor", "vendors", "write")
	require.NoError(t, err)
	_, err = enforcer.AddPolicy("role:vendor", "products", "write")
	require.NoError(t, err)
	_, err = enforcer.AddGroupingPolicy("user:7", "role:vendor")
	require.NoError(t, err)
	_, err = enforcer.AddGroupingPolicy("user:8", "role:vendor")
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	env := &testEnv{repo: newFakeRepoDB(), blob: newFakeBlob()}
	env.uc = New(Dependency{
		RepoDB:     env.repo,
		Blob:       env.blob,
		Validator:  v,
		UID:        &seqNumberID{},
		Instrument: instrument.NewNoop(),
		Enforcer:   enforcer,
	})

	return env
}

func authCtx(accountID int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{
		RegisteredClaims: libJWT.RegisteredClaims{
			Subject: strconv.FormatInt(accountID, 10),
		},
		Use: jwt.UseAccess,
	})
}

func errCode(t *testing.T, err error) goerror.Code {
	t.Helper()

	var ge *goerror.Error
	require.ErrorAs(t, err, &ge)

	return ge.Code()
}

func (e *testEnv) registerVendor(t *testing.T, accountID int64) int64 {
	t.Helper()

	out, err := e.uc.VendorRegister(authCtx(accountID), VendorRegisterInput{
		Name:  "Khasi Handlooms",
		Phone: "9876543210",
	})
	require.NoError(t, err)

	return out.ID
}

func TestVendorRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)

		id := env.registerVendor(t, 7)
		assert.NotZero(t, id)
	})

	t.Run("OnePerAccount", func(t *testing.T) {
		env := newTestEnv(t)
		env.registerVendor(t, 7)

		_, err := env.uc.VendorRegister(authCtx(7), VendorRegisterInput{
			Name:  "Second Stall",
			Phone: "9876543210",
		})
		assert.Equal(t, goerror.CodeConflict, errCode(t, err))
	})

	t.Run("BadPhone", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.VendorRegister(authCtx(7), VendorRegisterInput{
			Name:  "Khasi Handlooms",
			Phone: "not-a-phone",
		})
		assert.Equal(t, goerror.CodeInvalidInput, errCode(t, err))
	})
}

func TestVendorGet(t *testing.T) {
	env := newTestEnv(t)
	vendorID := env.registerVendor(t, 7)

	_, err := env.uc.ProductCreate(authCtx(7), ProductCreateInput{
		Name:       "Bamboo Basket",
		Category:   "Crafts",
		PricePaise: 45000,
		Stock:      12,
	})
	require.NoError(t, err)

	out, err := env.uc.VendorGet(context.Background(), VendorGetInput{ID: vendorID})
	require.NoError(t, err)
	assert.Equal(t, "Khasi Handlooms", out.Vendor.Name)
	require.Len(t, out.Products, 1)
	assert.Equal(t, "Bamboo Basket", out.Products[0].Name)

	_, err = env.uc.VendorGet(context.Background(), VendorGetInput{ID: 404})
	assert.Equal(t, goerror.CodeNotFound, errCode(t, err))
}

func TestProductCreate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)
		env.registerVendor(t, 7)

		out, err := env.uc.ProductCreate(authCtx(7), ProductCreateInput{
			Name:       "Bamboo Basket",
			Category:   "Crafts",
			PricePaise: 45000,
			Stock:      12,
		})
		require.NoError(t, err)

		// category is stored lowercased
		product, ok := env.repo.products[out.ID]
		require.True(t, ok)
		assert.Equal(t, "crafts", product.Category)
	})

	t.Run("WithoutVendorProfile", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.ProductCreate(authCtx(7), ProductCreateInput{
			Name:       "Bamboo Basket",
			Category:   "Crafts",
			PricePaise: 45000,
		})
		assert.Equal(t, goerror.CodeNotFound, errCode(t, err))
	})
}

func TestProductUpdate(t *testing.T) {
	env := newTestEnv(t)
	env.registerVendor(t, 7)

	created, err := env.uc.ProductCreate(authCtx(7), ProductCreateInput{
		Name:       "Bamboo Basket",
		Category:   "Crafts",
		PricePaise: 45000,
		Stock:      12,
	})
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		stock := int32(5)
		err := env.uc.ProductUpdate(authCtx(7), ProductUpdateInput{
			ID:         created.ID,
			Name:       "Bamboo Basket Large",
			Category:   "crafts",
			PricePaise: 55000,
			Stock:      &stock,
		})
		require.NoError(t, err)

		product := env.repo.products[created.ID]
		assert.Equal(t, "Bamboo Basket Large", product.Name)
		assert.Equal(t, int32(5), product.Stock)
	})

	t.Run("NotOwnProduct", func(t *testing.T) {
		env.registerVendor(t, 8)

		err := env.uc.ProductUpdate(authCtx(8), ProductUpdateInput{
			ID:         created.ID,
			Name:       "Hijacked",
			Category:   "crafts",
			PricePaise: 1,
		})
		assert.Equal(t, goerror.CodeForbidden, errCode(t, err))
	})
}

func TestProductGet(t *testing.T) {
	env := newTestEnv(t)
	env.registerVendor(t, 7)

	created, err := env.uc.ProductCreate(authCtx(7), ProductCreateInput{
		Name:       "Bamboo Basket",
		Category:   "crafts",
		PricePaise: 45000,
	})
	require.NoError(t, err)

	t.Run("WithoutPhoto", func(t *testing.T) {
		out, err := env.uc.ProductGet(context.Background(), ProductGetInput{ID: created.ID})
		require.NoError(t, err)
		assert.Empty(t, out.PhotoURL)
	})

	t.Run("WithPhoto", func(t *testing.T) {
		_, err := env.uc.ProductUploadPhoto(authCtx(7), ProductUploadPhotoInput{
			ProductID:   created.ID,
			File:        bytes.NewReader([]byte("jpeg-bytes")),
			ContentType: "image/jpeg",
		})
		require.NoError(t, err)

		out, err := env.uc.ProductGet(context.Background(), ProductGetInput{ID: created.ID})
		require.NoError(t, err)
		assert.Contains(t, out.PhotoURL, "products/")
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := env.uc.ProductGet(context.Background(), ProductGetInput{ID: 404})
		assert.Equal(t, goerror.CodeNotFound, errCode(t, err))
	})
}

func TestProductList(t *testing.T) {
	env := newTestEnv(t)
	env.registerVendor(t, 7)

	for _, p := range []ProductCreateInput{
		{Name: "Bamboo Basket", Category: "crafts", PricePaise: 45000},
		{Name: "Turmeric Jar", Category: "spices", PricePaise: 20000},
	} {
		_, err := env.uc.ProductCreate(authCtx(7), p)
		require.NoError(t, err)
	}

	out, err := env.uc.ProductList(context.Background(), ProductListInput{Category: "spices"})
	require.NoError(t, err)
	require.Len(t, out.Products, 1)
	assert.Equal(t, "Turmeric Jar", out.Products[0].Name)
	// defaults applied when no paging was supplied
	assert.Equal(t, int32(1), out.Page)
	assert.Equal(t, int32(20), out.Limit)
}
