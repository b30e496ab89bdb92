package service

import (
	"context"
	"errors"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSelfDeletion     = errors.New("cannot delete your own account")
	ErrNotATrainer      = errors.New("referenced trainer_id does not belong to a trainer")
	ErrPermissionDenied = errors.New("access denied")
)

// UpdateProfileInput carries the self-serve profile fields. Nil means "leave
// unchanged".
type UpdateProfileInput struct {
	Name   *string
	Phone  *string
	Avatar *string
}

// AdminCreateUserInput carries the fields an admin may set when provisioning
// an account directly.
type AdminCreateUserInput struct {
	Name          string
	Email         string
	Password      string
	Role          domain.Role
	Phone         *string
	Cref          *string
	TrainerID     *string
	EmailVerified bool
}

// AdminUpdateUserInput is a coalesce-style patch: nil fields are left
// unchanged. Only admins may touch Role and EmailVerified.
type AdminUpdateUserInput struct {
	Name          *string
	Email         *string
	Password      *string
	Role          *domain.Role
	Avatar        *string
	Phone         *string
	Cref          *string
	TrainerID     *string
	EmailVerified *bool
}

// UserService covers self-serve profile updates and the admin user CRUD.
type UserService interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.User, error)
	ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, error)
	CreateUser(ctx context.Context, in AdminCreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, in AdminUpdateUserInput) (*domain.User, error)
	// DeleteUser removes the user and all owned data. callerID guards the
	// self-deletion protection.
	DeleteUser(ctx context.Context, callerID, id string) error
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile lets a user change their own name, phone and avatar. Other
// fields are out of reach on this path.
func (s *userService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Phone != nil {
		user.Phone = in.Phone
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	return s.userRepo.List(ctx, filter)
}

func (s *userService) CreateUser(ctx context.Context, in AdminCreateUserInput) (*domain.User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, errors.New("name, email, password and role are required")
	}
	if len(in.Password) < 6 {
		return nil, ErrWeakPassword
	}
	if err := s.checkTrainerLink(ctx, in.TrainerID); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}
	user := &domain.User{
		Name:          in.Name,
		Email:         in.Email,
		PasswordHash:  string(hashed),
		Role:          in.Role,
		Avatar:        defaultAvatar(in.Role),
		Phone:         in.Phone,
		Cref:          in.Cref,
		TrainerID:     in.TrainerID,
		EmailVerified: in.EmailVerified,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, in AdminUpdateUserInput) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Password != nil {
		if len(*in.Password) < 6 {
			return nil, ErrWeakPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrHashingFailed
		}
		user.PasswordHash = string(hashed)
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}
	if in.Phone != nil {
		user.Phone = in.Phone
	}
	if in.Cref != nil {
		user.Cref = in.Cref
	}
	if in.TrainerID != nil {
		if err := s.checkTrainerLink(ctx, in.TrainerID); err != nil {
			return nil, err
		}
		user.TrainerID = in.TrainerID
	}
	if in.EmailVerified != nil {
		user.EmailVerified = *in.EmailVerified
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, callerID, id string) error {
	if callerID == id {
		return ErrSelfDeletion
	}
	err := s.userRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// checkTrainerLink enforces the invariant that trainer_id, when set, must
// reference a user with the trainer role.
func (s *userService) checkTrainerLink(ctx context.Context, trainerID *string) error {
	if trainerID == nil || *trainerID == "" {
		return nil
	}
	trainer, err := s.userRepo.GetByID(ctx, *trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotATrainer
		}
		return err
	}
	if !trainer.IsTrainer() {
		return ErrNotATrainer
	}
	return nil
}
