package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	jwtsvc "expertdesk/internal/pkg/jwt"
)

// Service handles registration and login.
type Service struct {
	repo       Repository
	jwt        *jwtsvc.Service
	bcryptCost int
}

func NewService(repo Repository, jwt *jwtsvc.Service, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, jwt: jwt, bcryptCost: bcryptCost}
}

type RegisterInput struct {
	Email     string
	Password  string
	Name      string
	FirstName string
	Role      Role
}

// Register creates a new account. Self-registration is limited to client and
// expert roles; admin accounts are seeded out of band.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if in.Role != RoleClient && in.Role != RoleExpert {
		in.Role = RoleClient
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		FirstName:    in.FirstName,
		Role:         in.Role,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if err == ErrUserNotFound {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// GetUser returns the account for an authenticated ID.
func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}
