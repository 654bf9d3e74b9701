package usecase

import (
	"context"
	"strconv"
	"testing"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	libJWT "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/pkg/instrument"
	"github.com/desatrip/desatrip/internal/pkg/jwt"
	"github.com/desatrip/desatrip/internal/pkg/validator"
	"github.com/desatrip/desatrip/internal/review/entity"
)

type fakeRepoDB struct {
	villages map[int64]bool
	reviews  map[int64]*entity.Review
}

func newFakeRepoDB() *fakeRepoDB {
	return &fakeRepoDB{
		villages: map[int64]bool{},
		reviews:  map[int64]*entity.Review{},
	}
}

func (f *fakeRepoDB) VillageExists(_ context.Context, villageID int64) (bool, error) {
	return f.villages[villageID], nil
}

func (f *fakeRepoDB) ListReviews(_ context.Context, villageID int64) ([]entity.Review, float64, error) {
	var out []entity.Review
	var sum int64
	for _, r := range f.reviews {
		if r.VillageID == villageID {
			out = append(out, *r)
			sum += int64(r.Rating)
		}
	}
	if len(out) == 0 {
		return nil, 0, nil
	}
	return out, float64(sum) / float64(len(out)), nil
}

func (f *fakeRepoDB) CreateReview(_ context.Context, in entity.NewReview) error {
	for _, r := range f.reviews {
		if r.VillageID == in.VillageID && r.AccountID == in.AccountID {
			return goerror.ErrConflict
		}
	}
	f.reviews[in.ID] = &entity.Review{
		ID:        in.ID,
		VillageID: in.VillageID,
		AccountID: in.AccountID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	return nil
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

func newTestUsecase(t *testing.T) (*Usecase, *fakeRepoDB) {
	t.Helper()

	m, err := model.NewModelFromString(testRBACModel)
	require.NoError(t, err)

	enforcer, err := casbin.NewEnforcer(m)
	require.NoError(t, err)

	_, err = enforcer.AddPolicy("role:traveler", "reviews", "write")
	require.NoError(t, err)
	_, err = enforcer.AddGroupingPolicy("user:7", "role:traveler")
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	repo := newFakeRepoDB()
	repo.villages[10] = true

	uc := New(Dependency{
		RepoDB:     repo,
		Validator:  v,
		UID:        &seqNumberID{},
		Instrument: instrument.NewNoop(),
		Enforcer:   enforcer,
	})

	return uc, repo
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

func TestReviewCreate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		uc, repo := newTestUsecase(t)

		out, err := uc.ReviewCreate(authCtx(7), ReviewCreateInput{
			VillageID: 10,
			Rating:    5,
			Comment:   "Cleanest village in Asia",
		})
		require.NoError(t, err)
		assert.NotZero(t, out.ID)
		assert.Len(t, repo.reviews, 1)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		uc, _ := newTestUsecase(t)

		_, err := uc.ReviewCreate(context.Background(), ReviewCreateInput{VillageID: 10, Rating: 5})
		assert.Equal(t, goerror.CodeUnauthorized, errCode(t, err))
	})

	t.Run("RatingOutOfRange", func(t *testing.T) {
		uc, _ := newTestUsecase(t)

		_, err := uc.ReviewCreate(authCtx(7), ReviewCreateInput{VillageID: 10, Rating: 6})
		assert.Equal(t, goerror.CodeInvalidInput, errCode(t, err))
	})

	t.Run("VillageNotFound", func(t *testing.T) {
		uc, _ := newTestUsecase(t)

		_, err := uc.ReviewCreate(authCtx(7), ReviewCreateInput{VillageID: 404, Rating: 4})
		assert.Equal(t, goerror.CodeNotFound, errCode(t, err))
	})

	t.Run("OneReviewPerTraveler", func(t *testing.T) {
		uc, _ := newTestUsecase(t)

		_, err := uc.ReviewCreate(authCtx(7), ReviewCreateInput{VillageID: 10, Rating: 5})
		require.NoError(t, err)

		_, err = uc.ReviewCreate(authCtx(7), ReviewCreateInput{VillageID: 10, Rating: 3})
		assert.Equal(t, goerror.CodeConflict, errCode(t, err))
	})
}

func TestReviewList(t *testing.T) {
	t.Run("AverageRating", func(t *testing.T) {
		uc, repo := newTestUsecase(t)

		_, err := uc.ReviewCreate(authCtx(7), ReviewCreateInput{VillageID: 10, Rating: 5})
		require.NoError(t, err)

		repo.reviews[99] = &entity.Review{ID: 99, VillageID: 10, AccountID: 8, Rating: 3}

		out, err := uc.ReviewList(context.Background(), ReviewListInput{VillageID: 10})
		require.NoError(t, err)
		assert.Len(t, out.Reviews, 2)
		assert.InDelta(t, 4.0, out.AverageRating, 0.001)
	})

	t.Run("VillageNotFound", func(t *testing.T) {
		uc, _ := newTestUsecase(t)

		_, err := uc.ReviewList(context.Background(), ReviewListInput{VillageID: 404})
		assert.Equal(t, goerror.CodeNotFound, errCode(t, err))
	})

	t.Run("EmptyVillage", func(t *testing.T) {
		uc, _ := newTestUsecase(t)

		out, err := uc.ReviewList(context.Background(), ReviewListInput{VillageID: 10})
		require.NoError(t, err)
		assert.Empty(t, out.Reviews)
		assert.Zero(t, out.AverageRating)
	})
}
