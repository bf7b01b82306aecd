package commerce

import (
	"context"
	"errors"

	"github.com/nimburion/storefront/pkg/auth"
	"github.com/nimburion/storefront/pkg/observability/logger"
	"github.com/nimburion/storefront/pkg/repository"
	"github.com/nimburion/storefront/pkg/repository/document"
)

// UserRepository registers and reads users.
type UserRepository struct {
	store  *repository.DocumentRepository[User]
	hasher auth.PasswordHasher
	log    logger.Logger
}

// NewUserRepository stores users and hashes their passwords with hasher.
func NewUserRepository(exec document.Executor, hasher auth.PasswordHasher, log logger.Logger) *UserRepository {
	return &UserRepository{
		store:  repository.NewDocumentRepository[User](exec, UsersCollection),
		hasher: hasher,
		log:    log,
	}
}

// EnsureIndexes declares the unique email index that backs the signup check.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	if err := r.store.EnsureUniqueIndex(ctx, "email"); err != nil {
		return storeError("ensure user indexes", err)
	}
	return nil
}

// Signup creates a user with a hashed password. The email is compared
// case-insensitively; a taken email fails with ErrDuplicateEntity.
func (r *UserRepository) Signup(ctx context.Context, req SignupRequest) (User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return User{}, err
	}

	taken, err := r.store.Count(ctx, document.Filter{"email": req.Email})
	if err != nil {
		return User{}, storeError("check email", err)
	}
	if taken > 0 {
		return User{}, newError(ErrDuplicateEntity, "Email already registered")
	}

	hash, err := r.hasher.Hash(req.Password)
	if err != nil {
		return User{}, err
	}

	u := User{Name: req.Name, Email: req.Email, PasswordHash: hash}
	id, err := r.store.Create(ctx, &u)
	if err != nil {
		// lost a race with a concurrent signup
		if errors.Is(err, document.ErrDuplicateKey) {
			return User{}, &Error{Kind: ErrDuplicateEntity, Message: "Email already registered", Cause: err}
		}
		return User{}, classify("create user", "User", err)
	}
	u.ID = id
	r.log.WithContext(ctx).Info("user registered", "user_id", id.Hex())
	return u, nil
}

// List returns every user. The password hash is never serialized.
func (r *UserRepository) List(ctx context.Context) ([]User, error) {
	users, err := r.store.FindAll(ctx, nil)
	if err != nil {
		return nil, storeError("list users", err)
	}
	return users, nil
}

// Get returns the user with the given id or ErrNotFound.
func (r *UserRepository) Get(ctx context.Context, rawID string) (User, error) {
	id, err := DecodeID(rawID)
	if err != nil {
		return User{}, err
	}
	u, err := r.store.FindByID(ctx, id)
	if err != nil {
		return User{}, classify("get user", "User", err)
	}
	return *u, nil
}
