package service

import (
	"context"
	"io"
	"sync"
	"time"

	"blogify/internal/mailer"
	"blogify/internal/models"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn                 func(context.Context, uint) (*models.User, error)
	getByEmailFn              func(context.Context, string) (*models.User, error)
	createFn                  func(context.Context, *models.User) error
	updateFn                  func(context.Context, *models.User) error
	touchLastLoginFn          func(context.Context, uint, time.Time) error
	setVerificationCodeFn     func(context.Context, uint, string, time.Time) error
	verificationCodeInUseFn   func(context.Context, string, uint) (bool, error)
	consumeVerificationCodeFn func(context.Context, string, time.Time) (*models.User, error)
	setResetTokenFn           func(context.Context, uint, string, time.Time) error
	consumeResetTokenFn       func(context.Context, string, time.Time, string) (*models.User, error)
	likedPostIDsFn            func(context.Context, uint) ([]uint, error)
	profileFn                 func(context.Context, uint) (*models.Profile, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return s.touchLastLoginFn(ctx, id, at)
}
func (s *userRepoStub) SetVerificationCode(ctx context.Context, id uint, hash string, expiresAt time.Time) error {
	return s.setVerificationCodeFn(ctx, id, hash, expiresAt)
}
func (s *userRepoStub) VerificationCodeInUse(ctx context.Context, hash string, excludeID uint) (bool, error) {
	return s.verificationCodeInUseFn(ctx, hash, excludeID)
}
func (s *userRepoStub) ConsumeVerificationCode(ctx context.Context, hash string, now time.Time) (*models.User, error) {
	return s.consumeVerificationCodeFn(ctx, hash, now)
}
func (s *userRepoStub) SetResetToken(ctx context.Context, id uint, hash string, expiresAt time.Time) error {
	return s.setResetTokenFn(ctx, id, hash, expiresAt)
}
func (s *userRepoStub) ConsumeResetToken(ctx context.Context, hash string, now time.Time, passwordHash string) (*models.User, error) {
	return s.consumeResetTokenFn(ctx, hash, now, passwordHash)
}
func (s *userRepoStub) LikedPostIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.likedPostIDsFn(ctx, userID)
}
func (s *userRepoStub) Profile(ctx context.Context, id uint) (*models.Profile, error) {
	return s.profileFn(ctx, id)
}

// noopUserRepo succeeds at every write and finds nothing.
func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(context.Context, uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", 0)
		},
		getByEmailFn:     func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:         func(context.Context, *models.User) error { return nil },
		updateFn:         func(context.Context, *models.User) error { return nil },
		touchLastLoginFn: func(context.Context, uint, time.Time) error { return nil },
		setVerificationCodeFn: func(context.Context, uint, string, time.Time) error {
			return nil
		},
		verificationCodeInUseFn: func(context.Context, string, uint) (bool, error) { return false, nil },
		consumeVerificationCodeFn: func(context.Context, string, time.Time) (*models.User, error) {
			return nil, nil
		},
		setResetTokenFn: func(context.Context, uint, string, time.Time) error { return nil },
		consumeResetTokenFn: func(context.Context, string, time.Time, string) (*models.User, error) {
			return nil, nil
		},
		likedPostIDsFn: func(context.Context, uint) ([]uint, error) { return []uint{}, nil },
		profileFn: func(context.Context, uint) (*models.Profile, error) {
			return nil, models.NewNotFoundError("User", 0)
		},
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, uint) (*models.Post, error)
	getBySlugFn      func(context.Context, string) (*models.Post, error)
	existsFn         func(context.Context, uint) (bool, error)
	listFn           func(context.Context, int) ([]*models.Post, error)
	searchFn         func(context.Context, string, int) ([]*models.Post, error)
	listByCategoryFn func(context.Context, uint, int) ([]*models.Post, error)
	listLikedByFn    func(context.Context, uint, int) ([]*models.Post, error)
	updateFn         func(context.Context, *models.Post) error
	deleteFn         func(context.Context, uint) ([]uint, error)
	toggleLikeFn     func(context.Context, uint, uint) (*models.LikeResult, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *postRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit int) ([]*models.Post, error) {
	return s.listFn(ctx, limit)
}
func (s *postRepoStub) Search(ctx context.Context, query string, limit int) ([]*models.Post, error) {
	return s.searchFn(ctx, query, limit)
}
func (s *postRepoStub) ListByCategory(ctx context.Context, categoryID uint, limit int) ([]*models.Post, error) {
	return s.listByCategoryFn(ctx, categoryID, limit)
}
func (s *postRepoStub) ListLikedBy(ctx context.Context, userID uint, limit int) ([]*models.Post, error) {
	return s.listLikedByFn(ctx, userID, limit)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) ([]uint, error) {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, userID, postID uint) (*models.LikeResult, error) {
	return s.toggleLikeFn(ctx, userID, postID)
}

func noopPostRepo() *postRepoStub {
	notFound := models.NewNotFoundMessage("No post record found")
	return &postRepoStub{
		createFn:    func(context.Context, *models.Post) error { return nil },
		getByIDFn:   func(context.Context, uint) (*models.Post, error) { return nil, notFound },
		getBySlugFn: func(context.Context, string) (*models.Post, error) { return nil, notFound },
		existsFn:    func(context.Context, uint) (bool, error) { return false, nil },
		listFn:      func(context.Context, int) ([]*models.Post, error) { return []*models.Post{}, nil },
		searchFn: func(context.Context, string, int) ([]*models.Post, error) {
			return []*models.Post{}, nil
		},
		listByCategoryFn: func(context.Context, uint, int) ([]*models.Post, error) {
			return []*models.Post{}, nil
		},
		listLikedByFn: func(context.Context, uint, int) ([]*models.Post, error) {
			return []*models.Post{}, nil
		},
		updateFn: func(context.Context, *models.Post) error { return nil },
		deleteFn: func(context.Context, uint) ([]uint, error) { return nil, nil },
		toggleLikeFn: func(context.Context, uint, uint) (*models.LikeResult, error) {
			return nil, notFound
		},
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	createFn  func(context.Context, *models.Category) error
	getByIDFn func(context.Context, uint) (*models.Category, error)
	listFn    func(context.Context) ([]models.Category, error)
	updateFn  func(context.Context, *models.Category) error
	deleteFn  func(context.Context, uint) (*models.Category, error)
}

func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) List(ctx context.Context) ([]models.Category, error) {
	return s.listFn(ctx)
}
func (s *categoryRepoStub) Update(ctx context.Context, category *models.Category) error {
	return s.updateFn(ctx, category)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) (*models.Category, error) {
	return s.deleteFn(ctx, id)
}

// knownCategories finds exactly the given IDs.
func knownCategories(ids ...uint) *categoryRepoStub {
	return &categoryRepoStub{
		createFn: func(context.Context, *models.Category) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			for _, known := range ids {
				if known == id {
					return &models.Category{ID: id, Name: "General"}, nil
				}
			}
			return nil, models.NewNotFoundError("Category", id)
		},
		listFn:   func(context.Context) ([]models.Category, error) { return []models.Category{}, nil },
		updateFn: func(context.Context, *models.Category) error { return nil },
		deleteFn: func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id}, nil
		},
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	listByPostFn func(context.Context, uint, int) ([]models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, limit int) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID, limit)
}

// recordingMailer keeps every message it is asked to send.
type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.sent...)
}

// storeStub is a stub for storage.Store.
type storeStub struct {
	putFn func(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

func (s *storeStub) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	return s.putFn(ctx, key, contentType, body, size)
}
