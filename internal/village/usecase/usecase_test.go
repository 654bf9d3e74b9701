package usecase

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	libJWT "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desatrip/desatrip/internal/pkg/config"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/pkg/instrument"
	"github.com/desatrip/desatrip/internal/pkg/jwt"
	"github.com/desatrip/desatrip/internal/pkg/storage"
	"github.com/desatrip/desatrip/internal/pkg/validator"
	"github.com/desatrip/desatrip/internal/village/entity"
)

type fakeRepoDB struct {
	villages map[int64]*entity.Village
	rooms    map[int64]*entity.Room
	guides   map[int64]*entity.Guide
}

func newFakeRepoDB() *fakeRepoDB {
	return &fakeRepoDB{
		villages: map[int64]*entity.Village{},
		rooms:    map[int64]*entity.Room{},
		guides:   map[int64]*entity.Guide{},
	}
}

func (f *fakeRepoDB) ListVillages(_ context.Context, _ entity.ListFilter) ([]entity.Village, int64, error) {
	var out []entity.Village
	for _, v := range f.villages {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepoDB) GetVillageByID(_ context.Context, id int64) (*entity.Village, error) {
	v, ok := f.villages[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeRepoDB) GetVillageBySlug(_ context.Context, slug string) (*entity.Village, error) {
	for _, v := range f.villages {
		if v.Slug == slug {
			cp := *v
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeRepoDB) CreateVillage(_ context.Context, in entity.NewVillage) error {
	for _, v := range f.villages {
		if v.Slug == in.Slug {
			return goerror.ErrConflict
		}
	}
	f.villages[in.ID] = &entity.Village{
		ID:       in.ID,
		Name:     in.Name,
		Slug:     in.Slug,
		District: in.District,
		State:    in.State,
		Active:   true,
	}
	return nil
}

func (f *fakeRepoDB) UpdateVillage(_ context.Context, in entity.PatchVillage) error {
	v, ok := f.villages[in.ID]
	if !ok {
		return goerror.ErrNotFound
	}
	if in.Name != "" {
		v.Name = in.Name
	}
	if in.Active != nil {
		v.Active = *in.Active
	}
	return nil
}

func (f *fakeRepoDB) SetVillageCover(_ context.Context, id int64, coverKey string) error {
	v, ok := f.villages[id]
	if !ok {
		return goerror.ErrNotFound
	}
	v.CoverKey = coverKey
	return nil
}

func (f *fakeRepoDB) ListRooms(_ context.Context, villageID int64, _ entity.ListFilter) ([]entity.Room, int64, error) {
	var out []entity.Room
	for _, r := range f.rooms {
		if r.VillageID == villageID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepoDB) GetRoomByID(_ context.Context, id int64) (*entity.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepoDB) CreateRoom(_ context.Context, in entity.NewRoom) error {
	f.rooms[in.ID] = &entity.Room{
		ID:              in.ID,
		VillageID:       in.VillageID,
		HostID:          in.HostID,
		Title:           in.Title,
		Capacity:        in.Capacity,
		PriceNightPaise: in.PriceNightPaise,
		Active:          true,
	}
	return nil
}

func (f *fakeRepoDB) ListGuides(_ context.Context, villageID int64) ([]entity.Guide, error) {
	var out []entity.Guide
	for _, g := range f.guides {
		if g.VillageID == villageID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeRepoDB) CreateGuide(_ context.Context, in entity.NewGuide) error {
	f.guides[in.ID] = &entity.Guide{
		ID:          in.ID,
		VillageID:   in.VillageID,
		AccountID:   in.AccountID,
		FullName:    in.FullName,
		Languages:   in.Languages,
		FeeDayPaise: in.FeeDayPaise,
		Active:      true,
	}
	return nil
}

// fakeBlob keeps uploads in memory and presigns with a fake host.
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
	return io.NopCloser(bytes.NewReader(data)), storage.Object{Key: key, Size: int64(len(data))}, nil
}

func (f *fakeBlob) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeBlob) List(_ context.Context, prefix string, _ int) ([]storage.Object, error) {
	var out []storage.Object
	for key, data := range f.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, storage.Object{Key: key, Size: int64(len(data))})
		}
	}
	return out, nil
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

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

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

	_, err = enforcer.AddPolicy("role:host", "villages", "write")
	require.NoError(t, err)
	_, err = enforcer.AddPolicy("role:host", "rooms", "write")
	require.NoError(t, err)
	_, err = enforcer.AddPolicy("role:host", "guides", "write")
	require.NoError(t, err)
	_, err = enforcer.AddGroupingPolicy("user:7", "role:host")
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	cfg, err := config.NewViperFromBytes("yaml", []byte("{}"))
	require.NoError(t, err)

	env := &testEnv{repo: newFakeRepoDB(), blob: newFakeBlob()}
	env.uc = New(Dependency{
		RepoDB:     env.repo,
		Blob:       env.blob,
		Validator:  v,
		Config:     cfg,
		UID:        &seqNumberID{},
		Clock:      &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)},
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

func (e *testEnv) createVillage(t *testing.T) int64 {
	t.Helper()

	out, err := e.uc.VillageCreate(authCtx(7), VillageCreateInput{
		Name:     "Mawlynnong",
		Slug:     "mawlynnong",
		District: "East Khasi Hills",
		State:    "Meghalaya",
	})
	require.NoError(t, err)

	return out.ID
}

func TestVillageCreate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)

		id := env.createVillage(t)
		assert.NotZero(t, id)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.VillageCreate(context.Background(), VillageCreateInput{
			Name:     "Mawlynnong",
			Slug:     "mawlynnong",
			District: "East Khasi Hills",
			State:    "Meghalaya",
		})
		assert.Equal(t, goerror.CodeUnauthorized, errCode(t, err))
	})

	t.Run("WithoutHostRole", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.VillageCreate(authCtx(999), VillageCreateInput{
			Name:     "Mawlynnong",
			Slug:     "mawlynnong",
			District: "East Khasi Hills",
			State:    "Meghalaya",
		})
		assert.Equal(t, goerror.CodeForbidden, errCode(t, err))
	})

	t.Run("BadSlug", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.VillageCreate(authCtx(7), VillageCreateInput{
			Name:     "Mawlynnong",
			Slug:     "Not A Slug!",
			District: "East Khasi Hills",
			State:    "Meghalaya",
		})
		assert.Equal(t, goerror.CodeInvalidInput, errCode(t, err))
	})

	t.Run("DuplicateSlug", func(t *testing.T) {
		env := newTestEnv(t)
		env.createVillage(t)

		_, err := env.uc.VillageCreate(authCtx(7), VillageCreateInput{
			Name:     "Mawlynnong Again",
			Slug:     "mawlynnong",
			District: "East Khasi Hills",
			State:    "Meghalaya",
		})
		assert.Equal(t, goerror.CodeConflict, errCode(t, err))
	})
}

func TestVillageGet(t *testing.T) {
	t.Run("ByID", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createVillage(t)

		out, err := env.uc.VillageGet(context.Background(), VillageGetInput{
			IDOrSlug: strconv.FormatInt(id, 10),
		})
		require.NoError(t, err)
		assert.Equal(t, "mawlynnong", out.Village.Slug)
	})

	t.Run("BySlug", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createVillage(t)

		out, err := env.uc.VillageGet(context.Background(), VillageGetInput{IDOrSlug: "mawlynnong"})
		require.NoError(t, err)
		assert.Equal(t, id, out.Village.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.VillageGet(context.Background(), VillageGetInput{IDOrSlug: "nowhere"})
		assert.Equal(t, goerror.CodeNotFound, errCode(t, err))
	})

	t.Run("CoverURLPresigned", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createVillage(t)

		_, err := env.uc.VillageUploadCover(authCtx(7), VillageUploadCoverInput{
			VillageID:   id,
			File:        bytes.NewReader([]byte("jpeg-bytes")),
			ContentType: "image/jpeg",
		})
		require.NoError(t, err)

		out, err := env.uc.VillageGet(context.Background(), VillageGetInput{
			IDOrSlug: strconv.FormatInt(id, 10),
		})
		require.NoError(t, err)
		assert.Contains(t, out.CoverURL, "villages/")
	})
}

func TestVillageList(t *testing.T) {
	env := newTestEnv(t)
	env.createVillage(t)

	out, err := env.uc.VillageList(context.Background(), VillageListInput{Page: 0, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	// page and limit are clamped to sane bounds
	assert.Equal(t, int32(1), out.Page)
	assert.Equal(t, int32(100), out.Limit)
}

func TestVillageUploadCover(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createVillage(t)

		out, err := env.uc.VillageUploadCover(authCtx(7), VillageUploadCoverInput{
			VillageID:   id,
			File:        bytes.NewReader([]byte("jpeg-bytes")),
			ContentType: "image/jpeg",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, out.CoverKey)
		assert.Contains(t, env.blob.objects, out.CoverKey)
	})

	t.Run("MissingFile", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createVillage(t)

		_, err := env.uc.VillageUploadCover(authCtx(7), VillageUploadCoverInput{VillageID: id})
		assert.Equal(t, goerror.CodeInvalidFormat, errCode(t, err))
	})

	t.Run("VillageNotFound", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.VillageUploadCover(authCtx(7), VillageUploadCoverInput{
			VillageID: 404,
			File:      bytes.NewReader([]byte("jpeg-bytes")),
		})
		assert.Equal(t, goerror.CodeNotFound, errCode(t, err))
	})
}

func TestVillageUpdate(t *testing.T) {
	env := newTestEnv(t)
	id := env.createVillage(t)

	active := false
	err := env.uc.VillageUpdate(authCtx(7), VillageUpdateInput{
		ID:       id,
		Name:     "Mawlynnong Village",
		District: "East Khasi Hills",
		State:    "Meghalaya",
		Active:   &active,
	})
	require.NoError(t, err)

	out, err := env.uc.VillageGet(context.Background(), VillageGetInput{
		IDOrSlug: strconv.FormatInt(id, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, "Mawlynnong Village", out.Village.Name)
	assert.False(t, out.Village.Active)
}

func TestRoomsAndGuides(t *testing.T) {
	env := newTestEnv(t)
	villageID := env.createVillage(t)

	room, err := env.uc.RoomCreate(authCtx(7), RoomCreateInput{
		VillageID:       villageID,
		Title:           "Bamboo Cottage",
		Capacity:        3,
		PriceNightPaise: 250000,
	})
	require.NoError(t, err)

	rooms, err := env.uc.RoomList(context.Background(), RoomListInput{VillageID: villageID})
	require.NoError(t, err)
	require.Len(t, rooms.Rooms, 1)
	assert.Equal(t, room.ID, rooms.Rooms[0].ID)

	_, err = env.uc.GuideCreate(authCtx(7), GuideCreateInput{
		VillageID:   villageID,
		FullName:    "Bala Khongwir",
		Languages:   []string{"en", "kha"},
		FeeDayPaise: 150000,
	})
	require.NoError(t, err)

	guides, err := env.uc.GuideList(context.Background(), GuideListInput{VillageID: villageID})
	require.NoError(t, err)
	require.Len(t, guides.Guides, 1)
	assert.Equal(t, "Bala Khongwir", guides.Guides[0].FullName)
}
