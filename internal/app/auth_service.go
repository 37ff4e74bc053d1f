package app

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ivancitoook/mibuscalibrosreact1/internal/domain"
)

type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, user domain.User) error
}

// AuthService is the identity boundary: it turns credentials into an
// identity the engine can be handed as an explicit actor.
type AuthService struct {
	repo UserRepository
}

func NewAuthService(repo UserRepository) *AuthService {
	return &AuthService{repo: repo}
}

// Authenticate verifies the credentials and returns the identity, or
// ErrBadCredentials without distinguishing unknown email from wrong
// password.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (domain.Identity, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.Identity{}, domain.ErrEmailRequired
	}
	if password == "" {
		return domain.Identity{}, domain.ErrPasswordRequired
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.Identity{}, err
	}
	if user == nil {
		return domain.Identity{}, domain.ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.Identity{}, domain.ErrBadCredentials
	}

	return domain.Identity{
		ID:          user.ID,
		Role:        user.Role,
		DisplayName: user.FullName,
	}, nil
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Location string
	PhotoURL string
}

// Register creates a new account with role user.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.Identity, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return domain.Identity{}, domain.ErrEmailRequired
	}
	if in.Password == "" {
		return domain.Identity{}, domain.ErrPasswordRequired
	}
	if in.FullName == "" {
		return domain.Identity{}, domain.ErrNameRequired
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.Identity{}, err
	}
	if existing != nil {
		return domain.Identity{}, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Identity{}, err
	}

	user := domain.User{
		ID:           newID(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Role:         domain.RoleUser,
		Location:     in.Location,
		PhotoURL:     in.PhotoURL,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return domain.Identity{}, err
	}

	return domain.Identity{
		ID:          user.ID,
		Role:        user.Role,
		DisplayName: user.FullName,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
