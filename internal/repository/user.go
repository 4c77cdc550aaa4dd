package repository

import (
	"context"
	"errors"
	"strings"

	"ripple/internal/cache"
	"ripple/internal/models"

	"gorm.io/gorm"
)

// UserStore defines persistence for user accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetByEmail returns (nil, nil) when no account matches, so callers can
	// distinguish "unknown email" from a store failure.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type userStore struct {
	db *gorm.DB
}

// NewUserStore creates a new user store backed by the given DB.
func NewUserStore(db *gorm.DB) UserStore {
	return &userStore{db: db}
}

func (s *userStore) Create(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		// Two signups can pass the duplicate-email precheck at once; the
		// unique index settles the race and must surface as a conflict,
		// not a server error.
		if isDuplicateKeyError(err) {
			return models.NewAlreadyExistsError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

func (s *userStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	var notFound bool
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				notFound = true
			}
			return err
		}
		return nil
	})
	if notFound {
		return nil, models.NewNotFoundError("User", id)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}
