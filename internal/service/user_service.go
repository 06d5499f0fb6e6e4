package service

import (
	"context"
	"fmt"
	"time"

	"staffdesk/internal/core/auth"
	"staffdesk/internal/core/cache"
	"staffdesk/internal/domain"
	"staffdesk/pkg/utils"
)

type UserService struct {
	repo  domain.UserRepository
	jwter *auth.JWTer

	// profiles is optional; nil disables the read-through cache.
	profiles   *cache.Cache
	profileTTL time.Duration
}

func NewUserService(repo domain.UserRepository, jwter *auth.JWTer) *UserService {
	return &UserService{repo: repo, jwter: jwter}
}

// WithProfileCache wires the redis read-through cache for by-id lookups.
func (s *UserService) WithProfileCache(c *cache.Cache, ttl time.Duration) *UserService {
	s.profiles = c
	s.profileTTL = ttl
	return s
}

func profileKey(id int64) string { return fmt.Sprintf("user:profile:%d", id) }

type SignupInput struct {
	Username string
	Email    string
	Password string
}

// Signup checks both unique handles up front for a friendly error; the
// store's unique indexes remain the backstop under concurrent signups.
func (s *UserService) Signup(in SignupInput) (UserView, error) {
	if _, err := s.repo.FindByUsername(in.Username); err == nil {
		return UserView{}, domain.ErrDuplicateUser
	} else if err != domain.ErrUserNotFound {
		return UserView{}, err
	}
	if _, err := s.repo.FindByEmail(in.Email); err == nil {
		return UserView{}, domain.ErrDuplicateUser
	} else if err != domain.ErrUserNotFound {
		return UserView{}, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return UserView{}, err
	}
	u := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.repo.Create(u); err != nil {
		return UserView{}, err
	}
	return viewOf(*u), nil
}

type LoginResult struct {
	AccessToken string   `json:"access_token"`
	User        UserView `json:"user"`
}

func (s *UserService) Login(email, password string) (LoginResult, error) {
	u, err := s.repo.FindByEmail(email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return LoginResult{}, domain.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return LoginResult{}, domain.ErrInvalidCredentials
	}
	if !u.IsActive {
		return LoginResult{}, domain.ErrInactiveUser
	}
	tok, err := s.jwter.Issue(u.ID, u.IsAdmin)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{AccessToken: tok, User: viewOf(*u)}, nil
}

// Get is the administrative by-id lookup; soft-deleted records resolve too.
func (s *UserService) Get(ctx context.Context, id int64) (UserView, error) {
	if s.profiles != nil {
		v, err := cache.GetOrLoadJSON[UserView](s.profiles, ctx, profileKey(id), s.profileTTL, func(ctx context.Context) (*UserView, error) {
			u, err := s.repo.FindByID(id)
			if err != nil {
				return nil, err
			}
			view := viewOf(*u)
			return &view, nil
		})
		if err != nil {
			return UserView{}, err
		}
		if v == nil {
			return UserView{}, domain.ErrUserNotFound
		}
		return *v, nil
	}
	u, err := s.repo.FindByID(id)
	if err != nil {
		return UserView{}, err
	}
	return viewOf(*u), nil
}

// List runs the listing pipeline: parse/default, query, redact, envelope.
func (s *UserService) List(p ListingParams) (ListResult, error) {
	q, err := ParseListing(p)
	if err != nil {
		return ListResult{}, err
	}
	return s.listQuery(q)
}

func (s *UserService) listQuery(q domain.ListingQuery) (ListResult, error) {
	users, total, err := s.repo.List(q)
	if err != nil {
		return ListResult{}, err
	}
	rows := make([]UserView, 0, len(users))
	for _, u := range users {
		rows = append(rows, viewOf(u))
	}
	if !q.Paginate {
		return ListResult{Data: rows, Total: total, Page: 1, LastPage: 1}, nil
	}
	return ListResult{
		Data:     rows,
		Total:    total,
		Page:     q.Page,
		LastPage: lastPage(total, q.PageSize),
	}, nil
}

type UpdateProfileInput struct {
	Username  string
	Email     string
	ImagePath string
}

// UpdateProfile applies a partial edit; empty fields are left untouched.
// Username/email uniqueness is re-checked by the store's unique indexes.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, in UpdateProfileInput) (UserView, error) {
	fields := map[string]any{}
	if in.Username != "" {
		fields["username"] = in.Username
	}
	if in.Email != "" {
		fields["email"] = in.Email
	}
	if in.ImagePath != "" {
		fields["image"] = in.ImagePath
	}
	u, err := s.repo.UpdateFields(id, fields)
	if err != nil {
		return UserView{}, err
	}
	s.invalidate(ctx, id)
	return viewOf(*u), nil
}

func (s *UserService) ToggleActive(ctx context.Context, id int64) (UserView, error) {
	u, err := s.repo.ToggleActive(id)
	if err != nil {
		return UserView{}, err
	}
	s.invalidate(ctx, id)
	return viewOf(*u), nil
}

func (s *UserService) SoftDelete(ctx context.Context, id int64) error {
	if err := s.repo.SoftDelete(id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *UserService) invalidate(ctx context.Context, id int64) {
	if s.profiles != nil {
		s.profiles.Invalidate(ctx, profileKey(id))
	}
}
