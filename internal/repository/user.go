package repository

import (
	"context"
	"errors"
	"time"

	"blogify/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
	SetVerificationCode(ctx context.Context, id uint, hash string, expiresAt time.Time) error
	VerificationCodeInUse(ctx context.Context, hash string, excludeID uint) (bool, error)
	ConsumeVerificationCode(ctx context.Context, hash string, now time.Time) (*models.User, error)
	SetResetToken(ctx context.Context, id uint, hash string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, hash string, now time.Time, passwordHash string) (*models.User, error)
	LikedPostIDs(ctx context.Context, userID uint) ([]uint, error)
	Profile(ctx context.Context, id uint) (*models.Profile, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, dbError(err, models.NewNotFoundError("User", id))
	}
	likes, err := r.LikedPostIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Likes = likes
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user has email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbError(err, nil)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return writeError(err, "User already exists")
	}
	user.Likes = []uint{}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return writeError(err, "User already exists")
	}
	return nil
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login", at).Error
	return dbError(err, nil)
}

func (r *userRepository) SetVerificationCode(ctx context.Context, id uint, hash string, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"verification_code_hash":       hash,
			"verification_code_expires_at": expiresAt,
		})
	if res.Error != nil {
		return dbError(res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

// VerificationCodeInUse reports whether another unverified user holds an
// unexpired code with the same digest.
func (r *userRepository) VerificationCodeInUse(ctx context.Context, hash string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("verification_code_hash = ? AND verification_code_expires_at > ? AND id <> ?", hash, time.Now(), excludeID).
		Count(&count).Error
	if err != nil {
		return false, dbError(err, nil)
	}
	return count > 0, nil
}

// ConsumeVerificationCode marks the holder of an unexpired code verified and
// clears the code. It returns (nil, nil) when no user holds the code, which
// includes losing a race against a concurrent confirmation.
func (r *userRepository) ConsumeVerificationCode(ctx context.Context, hash string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("verification_code_hash = ? AND verification_code_expires_at > ?", hash, now).
			First(&user).Error; err != nil {
			return err
		}
		res := tx.Model(&models.User{}).
			Where("id = ? AND verification_code_hash = ?", user.ID, hash).
			Updates(map[string]any{
				"is_verified":                  true,
				"verification_code_hash":       nil,
				"verification_code_expires_at": nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError(err, nil)
	}

	user.IsVerified = true
	user.VerificationCodeHash = nil
	user.VerificationCodeExpiresAt = nil
	return &user, nil
}

func (r *userRepository) SetResetToken(ctx context.Context, id uint, hash string, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reset_password_token_hash": hash,
			"reset_password_expires_at": expiresAt,
		})
	if res.Error != nil {
		return dbError(res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

// ConsumeResetToken stores passwordHash for the holder of an unexpired reset
// token and clears the token. It returns (nil, nil) when no user matches.
func (r *userRepository) ConsumeResetToken(ctx context.Context, hash string, now time.Time, passwordHash string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reset_password_token_hash = ? AND reset_password_expires_at > ?", hash, now).
			First(&user).Error; err != nil {
			return err
		}
		res := tx.Model(&models.User{}).
			Where("id = ? AND reset_password_token_hash = ?", user.ID, hash).
			Updates(map[string]any{
				"password":                  passwordHash,
				"reset_password_token_hash": nil,
				"reset_password_expires_at": nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError(err, nil)
	}

	user.Password = passwordHash
	user.ResetPasswordTokenHash = nil
	user.ResetPasswordExpiresAt = nil
	return &user, nil
}

// LikedPostIDs lists the posts userID likes, most recent first.
func (r *userRepository) LikedPostIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, dbError(err, nil)
	}
	return ids, nil
}

func (r *userRepository) Profile(ctx context.Context, id uint) (*models.Profile, error) {
	var user models.User
	db := r.db.WithContext(ctx)
	if err := db.First(&user, id).Error; err != nil {
		return nil, dbError(err, models.NewNotFoundError("User", id))
	}

	profile := &models.Profile{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Photo:      user.Photo,
		IsVerified: user.IsVerified,
		LastLogin:  user.LastLogin,
		JoinedDate: user.CreatedAt,
	}
	if err := db.Model(&models.Post{}).Where("author_id = ?", id).Count(&profile.NoOfPosts).Error; err != nil {
		return nil, dbError(err, nil)
	}
	if err := db.Model(&models.Like{}).Where("user_id = ?", id).Count(&profile.NoOfLikedPosts).Error; err != nil {
		return nil, dbError(err, nil)
	}
	if err := db.Model(&models.Comment{}).Where("author_id = ?", id).Count(&profile.NoOfComments).Error; err != nil {
		return nil, dbError(err, nil)
	}
	return profile, nil
}
