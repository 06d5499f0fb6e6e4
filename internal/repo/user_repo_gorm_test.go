package repo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"staffdesk/internal/domain"
)

func setupRepo(t *testing.T) *UserRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return NewUserRepo(db)
}

func seedUser(t *testing.T, r *UserRepo, username, email string, active bool) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, r.Create(u))
	// A zero-value IsActive would be skipped on insert in favor of the
	// column default, so inactive seeds go through the toggle path.
	if !active {
		_, err := r.ToggleActive(u.ID)
		require.NoError(t, err)
		u.IsActive = false
	}
	return u
}

func seedSequential(t *testing.T, r *UserRepo, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		seedUser(t, r, fmt.Sprintf("user%02d", i), fmt.Sprintf("user%02d@example.com", i), true)
	}
}

func ids(users []domain.User) []int64 {
	out := make([]int64, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func TestList_PageTwoOfTwelve(t *testing.T) {
	r := setupRepo(t)
	seedSequential(t, r, 12)

	users, total, err := r.List(domain.ListingQuery{
		Page: 2, PageSize: 5, Paginate: true,
		Sort: []domain.SortDirective{{Column: "id", Desc: true}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 12, total)
	require.Equal(t, []int64{7, 6, 5, 4, 3}, ids(users))
}

func TestList_DefaultSortIsNewestFirst(t *testing.T) {
	r := setupRepo(t)
	seedSequential(t, r, 3)

	users, _, err := r.List(domain.ListingQuery{Page: 1, PageSize: 10, Paginate: true})
	require.NoError(t, err)
	require.Equal(t, []int64{3, 2, 1}, ids(users))
}

func TestList_PageBeyondLast(t *testing.T) {
	r := setupRepo(t)
	seedSequential(t, r, 3)

	users, total, err := r.List(domain.ListingQuery{Page: 9, PageSize: 10, Paginate: true})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Empty(t, users)
}

func TestList_SearchMatchesUsernameOnly(t *testing.T) {
	r := setupRepo(t)
	seedUser(t, r, "Admin", "one@example.com", true)
	seedUser(t, r, "adminUser", "two@example.com", true)
	seedUser(t, r, "bob", "admin@example.com", true)

	users, total, err := r.List(domain.ListingQuery{
		Page: 1, PageSize: 10, Paginate: true, Search: "adm",
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	for _, u := range users {
		require.NotEqual(t, "bob", u.Username)
	}
}

func TestList_TextFilterIsCaseInsensitiveSubstring(t *testing.T) {
	r := setupRepo(t)
	seedUser(t, r, "Admin", "one@example.com", true)
	seedUser(t, r, "adminUser", "two@example.com", true)
	seedUser(t, r, "bob", "three@example.com", true)

	users, total, err := r.List(domain.ListingQuery{
		Page: 1, PageSize: 10, Paginate: true,
		Filters: []domain.FilterClause{{Column: "username", Value: domain.Term("adm")}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, users, 2)
}

func TestList_BoolFilterIsExact(t *testing.T) {
	r := setupRepo(t)
	seedUser(t, r, "alice", "alice@example.com", true)
	seedUser(t, r, "bob", "bob@example.com", false)
	seedUser(t, r, "carol", "carol@example.com", true)

	users, total, err := r.List(domain.ListingQuery{
		Page: 1, PageSize: 10, Paginate: true,
		Filters: []domain.FilterClause{{Column: "isActiveUser", Value: domain.Term("false")}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "bob", users[0].Username)
}

func TestList_MultiSelectMembership(t *testing.T) {
	r := setupRepo(t)
	seedUser(t, r, "alpha", "alpha@example.com", true)
	seedUser(t, r, "beta", "beta@example.com", true)
	seedUser(t, r, "gamma", "gamma@example.com", true)

	users, total, err := r.List(domain.ListingQuery{
		Page: 1, PageSize: 10, Paginate: true,
		Filters: []domain.FilterClause{{Column: "username", Value: domain.Terms("alpha", "beta")}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	names := []string{users[0].Username, users[1].Username}
	require.ElementsMatch(t, []string{"alpha", "beta"}, names)
}

func TestList_MultiSelectMatchesExactlyNotSubstring(t *testing.T) {
	r := setupRepo(t)
	seedUser(t, r, "alpha", "alpha@example.com", true)
	seedUser(t, r, "alphabet", "alphabet@example.com", true)

	_, total, err := r.List(domain.ListingQuery{
		Page: 1, PageSize: 10, Paginate: true,
		Filters: []domain.FilterClause{{Column: "username", Value: domain.Terms("ALPHA")}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}

func TestList_MultiSelectOnBoolColumn(t *testing.T) {
	r := setupRepo(t)
	seedUser(t, r, "alice", "alice@example.com", true)
	seedUser(t, r, "bob", "bob@example.com", false)

	_, total, err := r.List(domain.ListingQuery{
		Page: 1, PageSize: 10, Paginate: true,
		Filters: []domain.FilterClause{{Column: "isActiveUser", Value: domain.Terms("true", "false")}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
}

func TestList_EmptySelectionMatchesEverything(t *testing.T) {
	r := setupRepo(t)
	seedSequential(t, r, 3)

	_, total, err := r.List(domain.ListingQuery{
		Page: 1, PageSize: 10, Paginate: true,
		Filters: []domain.FilterClause{{Column: "username", Value: domain.Terms()}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
}

func TestList_UnknownFilterColumnIgnored(t *testing.T) {
	r := setupRepo(t)
	seedSequential(t, r, 3)

	_, total, err := r.List(domain.ListingQuery{
		Page: 1, PageSize: 10, Paginate: true,
		Filters: []domain.FilterClause{{Column: "no_such_column; DROP TABLE users", Value: domain.Term("x")}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
}

func TestList_FiltersAndSearchCombineWithAnd(t *testing.T) {
	r := setupRepo(t)
	seedUser(t, r, "adminOne", "a1@example.com", true)
	seedUser(t, r, "adminTwo", "a2@example.com", false)
	seedUser(t, r, "bob", "b@example.com", true)

	users, total, err := r.List(domain.ListingQuery{
		Page: 1, PageSize: 10, Paginate: true,
		Search:  "admin",
		Filters: []domain.FilterClause{{Column: "isActiveUser", Value: domain.Term("true")}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "adminOne", users[0].Username)
}

func TestList_MultiSortBreaksTiesInOrder(t *testing.T) {
	r := setupRepo(t)
	seedUser(t, r, "amy", "z@example.com", true)   // id 1
	seedUser(t, r, "amy2", "y@example.com", true)  // id 2, inactive below
	seedUser(t, r, "brad", "x@example.com", false) // id 3
	// Make two rows tie on is_active=false with different ids.
	_, err := r.ToggleActive(2)
	require.NoError(t, err)

	users, _, err := r.List(domain.ListingQuery{
		Page: 1, PageSize: 10, Paginate: true,
		Sort: []domain.SortDirective{
			{Column: "isActiveUser", Desc: false},
			{Column: "id", Desc: true},
		},
	})
	require.NoError(t, err)
	// Primary: inactive (false) first; tie broken by id descending.
	require.Equal(t, []int64{3, 2, 1}, ids(users))
}

func TestList_SoftDeletedNeverAppear(t *testing.T) {
	r := setupRepo(t)
	seedSequential(t, r, 5)
	require.NoError(t, r.SoftDelete(3))

	users, total, err := r.List(domain.ListingQuery{Page: 1, PageSize: 10, Paginate: true})
	require.NoError(t, err)
	require.EqualValues(t, 4, total)
	require.NotContains(t, ids(users), int64(3))

	// Search/filter/sort combinations keep excluding it.
	users, _, err = r.List(domain.ListingQuery{
		Page: 1, PageSize: 10, Paginate: true,
		Search: "user",
		Sort:   []domain.SortDirective{{Column: "username", Desc: false}},
	})
	require.NoError(t, err)
	require.NotContains(t, ids(users), int64(3))
}

func TestFindByID_ResolvesSoftDeleted(t *testing.T) {
	r := setupRepo(t)
	u := seedUser(t, r, "gone", "gone@example.com", true)
	require.NoError(t, r.SoftDelete(u.ID))

	got, err := r.FindByID(u.ID)
	require.NoError(t, err)
	require.Equal(t, "gone", got.Username)
}

func TestSoftDelete_SecondCallNotFound(t *testing.T) {
	r := setupRepo(t)
	u := seedUser(t, r, "once", "once@example.com", true)

	require.NoError(t, r.SoftDelete(u.ID))
	require.ErrorIs(t, r.SoftDelete(u.ID), domain.ErrUserNotFound)
}

func TestToggleActive_RoundTrip(t *testing.T) {
	r := setupRepo(t)
	u := seedUser(t, r, "flip", "flip@example.com", true)

	got, err := r.ToggleActive(u.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	again, err := r.FindByID(u.ID)
	require.NoError(t, err)
	require.False(t, again.IsActive)

	got, err = r.ToggleActive(u.ID)
	require.NoError(t, err)
	require.True(t, got.IsActive)
}

func TestCreate_DuplicateRejected(t *testing.T) {
	r := setupRepo(t)
	seedUser(t, r, "dup", "dup@example.com", true)

	err := r.Create(&domain.User{Username: "dup", Email: "other@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, domain.ErrDuplicateUser)

	err = r.Create(&domain.User{Username: "other", Email: "dup@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, domain.ErrDuplicateUser)
}

func TestUpdateFields_RevalidatesUniqueness(t *testing.T) {
	r := setupRepo(t)
	seedUser(t, r, "first", "first@example.com", true)
	second := seedUser(t, r, "second", "second@example.com", true)

	_, err := r.UpdateFields(second.ID, map[string]any{"email": "first@example.com"})
	require.ErrorIs(t, err, domain.ErrDuplicateUser)

	got, err := r.UpdateFields(second.ID, map[string]any{"username": "renamed"})
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Username)
}

func TestUpdateFields_MissingUser(t *testing.T) {
	r := setupRepo(t)
	_, err := r.UpdateFields(42, map[string]any{"username": "ghost"})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
