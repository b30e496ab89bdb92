package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/mail"
	"fitpro/gym-app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrEmailNotVerified     = errors.New("email address requires verification before login")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid or unknown token")
	ErrResetTokenExpired    = errors.New("reset token has expired")
	ErrAlreadyVerified      = errors.New("email address is already verified")
	ErrWeakPassword         = errors.New("password must be at least 6 characters")
	ErrWrongPassword        = errors.New("current password is incorrect")
)

// resetTokenTTL is the validity window of a password reset token.
const resetTokenTTL = time.Hour

// AuthService covers registration, login and the email verification /
// password recovery flows.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	VerifyEmail(ctx context.Context, token string) (alreadyVerified bool, err error)
	ResendVerification(ctx context.Context, email string) error
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	mailer        mail.Mailer
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, mailer mail.Mailer, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 168 * time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		mailer:        mailer,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register handles new user registration. Admin accounts are never created
// through this path.
func (s *authService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, errors.New("name, email and password cannot be empty")
	}
	if role != domain.RoleTrainer && role != domain.RoleStudent {
		return nil, errors.New("role must be trainer or student")
	}
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	verificationToken := uuid.NewString()
	user := &domain.User{
		Name:              name,
		Email:             email,
		PasswordHash:      string(hashedPassword),
		Role:              role,
		Avatar:            defaultAvatar(role),
		VerificationToken: &verificationToken,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	s.sendMail(user.Email, "Confirme seu email - FitPro",
		fmt.Sprintf("Olá %s,\n\nUse o código abaixo para confirmar seu email no FitPro:\n\n%s\n", user.Name, verificationToken))

	return user, nil
}

// Login handles user authentication and JWT generation. Unverified accounts
// are rejected with a distinct error so clients can offer to resend the
// verification email.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	if email == "" || password == "" {
		return "", nil, errors.New("email and password cannot be empty")
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	if !user.EmailVerified {
		return "", nil, ErrEmailNotVerified
	}

	token, err = s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	return token, user, nil
}

// GetUserByID resolves the current user for the /me endpoint.
func (s *authService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *authService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrWeakPassword
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrHashingFailed
	}
	user.PasswordHash = string(hashed)
	return s.userRepo.Update(ctx, user)
}

// ForgotPassword issues a one-hour reset token. It succeeds regardless of
// whether the email exists, to avoid account enumeration.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	token := uuid.NewString()
	expires := time.Now().Add(resetTokenTTL)
	user.ResetToken = &token
	user.ResetTokenExpires = &expires
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.sendMail(user.Email, "Redefinição de senha - FitPro",
		fmt.Sprintf("Olá %s,\n\nUse o código abaixo para redefinir sua senha. Ele expira em 1 hora:\n\n%s\n", user.Name, token))
	return nil
}

// ResetPassword validates the token and its expiry. An expired token is
// cleared server-side so it cannot be retried.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidToken
	}
	user, err := s.userRepo.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	if user.ResetTokenExpires == nil || time.Now().After(*user.ResetTokenExpires) {
		user.ResetToken = nil
		user.ResetTokenExpires = nil
		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}
		return ErrResetTokenExpired
	}

	if len(newPassword) < 6 {
		return ErrWeakPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrHashingFailed
	}
	user.PasswordHash = string(hashed)
	user.ResetToken = nil
	user.ResetTokenExpires = nil
	return s.userRepo.Update(ctx, user)
}

// VerifyEmail marks the account verified. Re-using a token reports "already
// verified" instead of failing.
func (s *authService) VerifyEmail(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, ErrInvalidToken
	}
	user, err := s.userRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrInvalidToken
		}
		return false, err
	}
	if user.EmailVerified {
		return true, nil
	}
	user.EmailVerified = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return false, err
	}
	return false, nil
}

// ResendVerification sends a fresh verification token, rejecting accounts
// that are already verified.
func (s *authService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if user.EmailVerified {
		return ErrAlreadyVerified
	}
	token := uuid.NewString()
	user.VerificationToken = &token
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	s.sendMail(user.Email, "Confirme seu email - FitPro",
		fmt.Sprintf("Olá %s,\n\nUse o código abaixo para confirmar seu email no FitPro:\n\n%s\n", user.Name, token))
	return nil
}

// sendMail delivers best effort; a failed send never fails the operation it
// is attached to.
func (s *authService) sendMail(to, subject, body string) {
	if err := s.mailer.Send(to, subject, body); err != nil {
		log.Printf("WARN: failed to send email to %s: %v", to, err)
	}
}

func defaultAvatar(role domain.Role) string {
	switch role {
	case domain.RoleTrainer:
		return "🏋️"
	case domain.RoleAdmin:
		return "🛡️"
	default:
		return "💪"
	}
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "fitpro",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication.
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
