package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"staffdesk/internal/core/auth"
	"staffdesk/internal/domain"
	"staffdesk/internal/repo"
)

func setupService(t *testing.T) *UserService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "staffdesk-test", TTL: time.Hour}
	return NewUserService(repo.NewUserRepo(db), jwter)
}

func signupN(t *testing.T, s *UserService, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, err := s.Signup(SignupInput{
			Username: fmt.Sprintf("user%02d", i),
			Email:    fmt.Sprintf("user%02d@example.com", i),
			Password: "hunter22",
		})
		require.NoError(t, err)
	}
}

func TestSignupThenLogin(t *testing.T) {
	s := setupService(t)

	created, err := s.Signup(SignupInput{Username: "alice", Email: "alice@example.com", Password: "hunter22"})
	require.NoError(t, err)
	require.True(t, created.IsActive)
	require.False(t, created.IsAdmin)

	res, err := s.Login("alice@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.Equal(t, "alice", res.User.Username)
}

func TestSignup_DuplicateHandleRejected(t *testing.T) {
	s := setupService(t)
	signupN(t, s, 1)

	_, err := s.Signup(SignupInput{Username: "user01", Email: "fresh@example.com", Password: "hunter22"})
	require.ErrorIs(t, err, domain.ErrDuplicateUser)

	_, err = s.Signup(SignupInput{Username: "fresh", Email: "user01@example.com", Password: "hunter22"})
	require.ErrorIs(t, err, domain.ErrDuplicateUser)
}

func TestLogin_WrongPassword(t *testing.T) {
	s := setupService(t)
	signupN(t, s, 1)

	_, err := s.Login("user01@example.com", "not-the-password")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UnknownEmailLooksLikeBadCredentials(t *testing.T) {
	s := setupService(t)

	_, err := s.Login("nobody@example.com", "whatever")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_DeactivatedUserRejected(t *testing.T) {
	s := setupService(t)
	created, err := s.Signup(SignupInput{Username: "frozen", Email: "frozen@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = s.ToggleActive(context.Background(), created.ID)
	require.NoError(t, err)

	_, err = s.Login("frozen@example.com", "hunter22")
	require.ErrorIs(t, err, domain.ErrInactiveUser)
}

func TestList_ResponseNeverCarriesPassword(t *testing.T) {
	s := setupService(t)
	signupN(t, s, 2)

	res, err := s.List(ListingParams{Page: "1", Limit: "10"})
	require.NoError(t, err)
	require.Len(t, res.Data, 2)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	require.NotContains(t, string(b), "password")
	require.NotContains(t, string(b), "hunter22")
}

func TestList_UnpaginatedReturnsEverything(t *testing.T) {
	s := setupService(t)
	signupN(t, s, 13)

	res, err := s.List(ListingParams{})
	require.NoError(t, err)
	require.Len(t, res.Data, 13)
	require.EqualValues(t, 13, res.Total)
	require.Equal(t, 1, res.Page)
	require.Equal(t, 1, res.LastPage)
}

func TestList_LastPageArithmetic(t *testing.T) {
	s := setupService(t)
	signupN(t, s, 12)

	res, err := s.List(ListingParams{Page: "2", Limit: "5"})
	require.NoError(t, err)
	require.EqualValues(t, 12, res.Total)
	require.Equal(t, 2, res.Page)
	require.Equal(t, 3, res.LastPage)
	require.Len(t, res.Data, 5)
}

func TestList_MultiSelectFilterOverTheWire(t *testing.T) {
	s := setupService(t)
	signupN(t, s, 4)

	res, err := s.List(ListingParams{
		Page: "1", Limit: "10",
		Filters: `[{"id":"username","value":["user01","user03"]}]`,
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, res.Total)
	names := []string{res.Data[0].Username, res.Data[1].Username}
	require.ElementsMatch(t, []string{"user01", "user03"}, names)
}

func TestList_MalformedFiltersRejected(t *testing.T) {
	s := setupService(t)

	_, err := s.List(ListingParams{Page: "1", Limit: "10", Filters: "{not json"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = s.List(ListingParams{Page: "1", Limit: "10", Sort: "[{\"id\":}]"})
	require.ErrorAs(t, err, &verr)
}

func TestList_NonNumericPageRejected(t *testing.T) {
	s := setupService(t)

	_, err := s.List(ListingParams{Page: "two", Limit: "10"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestList_IdenticalParamsIdenticalResult(t *testing.T) {
	s := setupService(t)
	signupN(t, s, 7)

	p := ListingParams{Page: "1", Limit: "5", Sort: "[{\"id\":\"username\",\"desc\":false}]"}
	first, err := s.List(p)
	require.NoError(t, err)
	second, err := s.List(p)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestParseListing_Defaults(t *testing.T) {
	q, err := ParseListing(ListingParams{Page: "0", Limit: "-3"})
	require.NoError(t, err)
	require.True(t, q.Paginate)
	require.Equal(t, domain.DefaultPage, q.Page)
	require.Equal(t, domain.DefaultPageSize, q.PageSize)

	q, err = ParseListing(ListingParams{})
	require.NoError(t, err)
	require.False(t, q.Paginate)
}

func TestUpdateProfile_PartialEdit(t *testing.T) {
	s := setupService(t)
	created, err := s.Signup(SignupInput{Username: "mona", Email: "mona@example.com", Password: "hunter22"})
	require.NoError(t, err)

	got, err := s.UpdateProfile(context.Background(), created.ID, UpdateProfileInput{Username: "monalisa"})
	require.NoError(t, err)
	require.Equal(t, "monalisa", got.Username)
	require.Equal(t, "mona@example.com", got.Email)

	got, err = s.UpdateProfile(context.Background(), created.ID, UpdateProfileInput{ImagePath: "/uploads/users/1-x.png"})
	require.NoError(t, err)
	require.Equal(t, "monalisa", got.Username)
	require.Equal(t, "/uploads/users/1-x.png", got.Image)
}

func TestSoftDelete_HidesFromListingButNotLookup(t *testing.T) {
	s := setupService(t)
	signupN(t, s, 3)

	require.NoError(t, s.SoftDelete(context.Background(), 2))

	res, err := s.List(ListingParams{Page: "1", Limit: "10"})
	require.NoError(t, err)
	require.EqualValues(t, 2, res.Total)
	for _, row := range res.Data {
		require.NotEqual(t, int64(2), row.ID)
	}

	got, err := s.Get(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, "user02", got.Username)
}
