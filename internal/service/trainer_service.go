package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/mail"
	"fitpro/gym-app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrStudentNotFound        = errors.New("student not found")
	ErrNotAStudent            = errors.New("user found but is not a student")
	ErrStudentAlreadyLinked   = errors.New("student is already linked to you")
	ErrStudentLinkedElsewhere = errors.New("student is already linked to another trainer")
	ErrStudentNotManaged      = errors.New("student is not managed by this trainer")
	ErrNameRequired           = errors.New("name is required to create a new student account")
)

// UpdateStudentInput carries the fields a trainer may change on a linked
// student. Nil means "leave unchanged".
type UpdateStudentInput struct {
	Name  *string
	Phone *string
}

// AddStudentResult is the outcome of linking or provisioning a student. The
// temporary password is only set when a brand-new account was created, and is
// never recoverable afterwards.
type AddStudentResult struct {
	Student      *domain.User `json:"student"`
	Created      bool         `json:"created"`
	TempPassword string       `json:"tempPassword,omitempty"`
}

// TrainerService manages the trainer's student roster.
type TrainerService interface {
	GetStudents(ctx context.Context, trainerID string) ([]domain.User, error)
	// AddStudentByEmail links an existing unlinked student, or provisions a
	// new student account when the email is unknown (name required).
	AddStudentByEmail(ctx context.Context, trainerID, email, name string) (*AddStudentResult, error)
	UpdateStudent(ctx context.Context, trainerID, studentID string, in UpdateStudentInput) (*domain.User, error)
	// RemoveStudent deletes the student account and all of its data. Only
	// the linked trainer may do this.
	RemoveStudent(ctx context.Context, trainerID, studentID string) error
}

type trainerService struct {
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	mailer           mail.Mailer
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	mailer mail.Mailer,
) TrainerService {
	return &trainerService{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		mailer:           mailer,
	}
}

func (s *trainerService) GetStudents(ctx context.Context, trainerID string) ([]domain.User, error) {
	return s.userRepo.GetStudentsByTrainerID(ctx, trainerID)
}

// AddStudentByEmail resolves the full decision tree for the "add student"
// operation:
//   - existing non-student account: reject
//   - already linked to this trainer: reject as a no-op
//   - linked to a different trainer: reject
//   - existing unlinked student: link and notify
//   - unknown email: provision a student account with a one-time temporary
//     password, returned once in the result
func (s *trainerService) AddStudentByEmail(ctx context.Context, trainerID, email, name string) (*AddStudentResult, error) {
	if email == "" {
		return nil, errors.New("email is required")
	}
	trainer, err := s.userRepo.GetByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	student, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if !student.IsStudent() {
			return nil, ErrNotAStudent
		}
		if student.TrainerID != nil {
			if *student.TrainerID == trainerID {
				return nil, ErrStudentAlreadyLinked
			}
			return nil, ErrStudentLinkedElsewhere
		}
		if err := s.userRepo.SetTrainerForStudent(ctx, student.ID, &trainerID); err != nil {
			return nil, err
		}
		student.TrainerID = &trainerID
		s.notifyLinked(ctx, student, trainer)
		return &AddStudentResult{Student: student, Created: false}, nil

	case errors.Is(err, repository.ErrNotFound):
		if name == "" {
			return nil, ErrNameRequired
		}
		tempPassword, err := generateTempPassword(10)
		if err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrHashingFailed
		}
		student = &domain.User{
			Name:          name,
			Email:         email,
			PasswordHash:  string(hashed),
			Role:          domain.RoleStudent,
			Avatar:        defaultAvatar(domain.RoleStudent),
			TrainerID:     &trainerID,
			EmailVerified: true, // Provisioned by a trainer, no self-signup verification
		}
		if err := s.userRepo.Create(ctx, student); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, ErrUserAlreadyExists
			}
			return nil, err
		}
		s.notifyLinked(ctx, student, trainer)
		if err := s.mailer.Send(email, "Bem-vindo ao FitPro",
			fmt.Sprintf("Olá %s,\n\n%s criou uma conta para você no FitPro.\nSenha temporária: %s\n\nTroque a senha no primeiro acesso.\n", name, trainer.Name, tempPassword)); err != nil {
			log.Printf("WARN: failed to send welcome email to %s: %v", email, err)
		}
		return &AddStudentResult{Student: student, Created: true, TempPassword: tempPassword}, nil

	default:
		return nil, err
	}
}

func (s *trainerService) UpdateStudent(ctx context.Context, trainerID, studentID string, in UpdateStudentInput) (*domain.User, error) {
	student, err := s.ownedStudent(ctx, trainerID, studentID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		student.Name = *in.Name
	}
	if in.Phone != nil {
		student.Phone = in.Phone
	}
	if err := s.userRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *trainerService) RemoveStudent(ctx context.Context, trainerID, studentID string) error {
	if _, err := s.ownedStudent(ctx, trainerID, studentID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, studentID)
}

// ownedStudent fetches the student and enforces the trainer link.
func (s *trainerService) ownedStudent(ctx context.Context, trainerID, studentID string) (*domain.User, error) {
	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if !student.IsStudent() {
		return nil, ErrNotAStudent
	}
	if student.TrainerID == nil || *student.TrainerID != trainerID {
		return nil, ErrStudentNotManaged
	}
	return student, nil
}

func (s *trainerService) notifyLinked(ctx context.Context, student, trainer *domain.User) {
	n := &domain.Notification{
		UserID:  student.ID,
		Title:   "Novo personal trainer",
		Message: fmt.Sprintf("%s agora é seu personal trainer no FitPro.", trainer.Name),
		Type:    domain.NotificationInfo,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		log.Printf("WARN: failed to create link notification for %s: %v", student.ID, err)
	}
}

const tempPasswordCharset = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateTempPassword builds a random one-time password from an unambiguous
// alphanumeric charset.
func generateTempPassword(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(tempPasswordCharset)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = tempPasswordCharset[n.Int64()]
	}
	return string(out), nil
}
