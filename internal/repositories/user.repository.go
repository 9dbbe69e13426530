package repositories

import (
	"context"

	. "lumen/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindOrCreateByEmail(ctx context.Context, tx *gorm.DB, name, email string, role UserRole) (*User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error)
}

type userRepository struct {
	log logger.Logger
}

func NewUserRepository() UserRepository {
	return &userRepository{
		log: logger.New("userRepository"),
	}
}

// FindOrCreateByEmail returns the user owning email, creating it with name and
// role when no such user exists. An existing user's name is left untouched.
func (r *userRepository) FindOrCreateByEmail(
	ctx context.Context,
	tx *gorm.DB,
	name, email string,
	role UserRole,
) (*User, error) {
	log := r.log.TraceFromContext(ctx).Function("FindOrCreateByEmail")

	var user User
	if err := tx.WithContext(ctx).
		Where(User{Email: NormalizeEmail(email)}).
		Attrs(User{Name: name, Role: role}).
		FirstOrCreate(&user).Error; err != nil {
		return nil, log.Err("failed to find or create user", err, "email", email)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error) {
	var user User
	if err := tx.WithContext(ctx).First(&user, "email = ?", NormalizeEmail(email)).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
