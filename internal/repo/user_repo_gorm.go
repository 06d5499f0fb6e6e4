package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"staffdesk/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(u *domain.User) error {
	if err := r.db.Create(u).Error; err != nil {
		if isDupKey(err) {
			return domain.ErrDuplicateUser
		}
		return err
	}
	return nil
}

// FindByID is the administrative lookup: soft-deleted records stay
// addressable by identifier.
func (r *UserRepo) FindByID(id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.Unscoped().First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.db.First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByUsername(username string) (*domain.User, error) {
	var u domain.User
	err := r.db.First(&u, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List runs the filtered count first, then the sorted, paginated page over
// the same predicate. A page past the end yields an empty slice with the
// total still correct.
func (r *UserRepo) List(q domain.ListingQuery) ([]domain.User, int64, error) {
	base := applyListing(r.db.Model(&domain.User{}), q)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tx := applySort(base, q.Sort)
	if q.Paginate {
		tx = tx.Offset(q.Offset()).Limit(q.PageSize)
	}

	users := make([]domain.User, 0, q.PageSize)
	if err := tx.Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateFields applies a partial update and re-reads the record. Uniqueness
// of username/email is re-validated here via the unique indexes.
func (r *UserRepo) UpdateFields(id int64, fields map[string]any) (*domain.User, error) {
	if len(fields) > 0 {
		res := r.db.Model(&domain.User{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			if isDupKey(res.Error) {
				return nil, domain.ErrDuplicateUser
			}
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, domain.ErrUserNotFound
		}
	}
	var u domain.User
	if err := r.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ToggleActive(id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	flipped := !u.IsActive
	if err := r.db.Model(&u).Update("is_active", flipped).Error; err != nil {
		return nil, err
	}
	u.IsActive = flipped
	return &u, nil
}

func (r *UserRepo) SoftDelete(id int64) error {
	res := r.db.Where("id = ?", id).Delete(&domain.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// isDupKey matches unique-violation messages across drivers instead of
// relying on gorm.ErrDuplicatedKey, which differs between gorm versions.
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
