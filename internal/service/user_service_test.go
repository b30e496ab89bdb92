package service_test

import (
	"context"
	"errors"
	"testing"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"
	"fitpro/gym-app/internal/service"
)

func TestUserService_UpdateProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user := e.seedStudent(t, "Ana", "ana@example.com", nil)

	updated, err := e.userService.UpdateProfile(ctx, user.ID, service.UpdateProfileInput{
		Name:   strPtr("Ana Souza"),
		Phone:  strPtr("11 98888-7777"),
		Avatar: strPtr("🔥"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Name != "Ana Souza" || updated.Avatar != "🔥" {
		t.Errorf("profile not updated: %+v", updated)
	}
	if updated.Email != "ana@example.com" || updated.Role != domain.RoleStudent {
		t.Errorf("profile update touched protected fields: %+v", updated)
	}

	// A nil field leaves the stored value alone.
	again, err := e.userService.UpdateProfile(ctx, user.ID, service.UpdateProfileInput{Phone: strPtr("11 90000-0000")})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if again.Name != "Ana Souza" {
		t.Errorf("nil name overwritten: %+v", again)
	}
}

func TestUserService_AdminCreate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	trainer := e.seedTrainer(t, "Carlos", "carlos@fitpro.com")

	student, err := e.userService.CreateUser(ctx, service.AdminCreateUserInput{
		Name:          "Diego",
		Email:         "diego@example.com",
		Password:      "senha123",
		Role:          domain.RoleStudent,
		TrainerID:     &trainer.ID,
		EmailVerified: true,
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if !student.EmailVerified || student.TrainerID == nil {
		t.Errorf("admin-set fields ignored: %+v", student)
	}
	if student.PasswordHash == "senha123" {
		t.Error("password stored unhashed")
	}

	// trainer_id must point at a trainer account.
	if _, err := e.userService.CreateUser(ctx, service.AdminCreateUserInput{
		Name: "X", Email: "x@example.com", Password: "senha123",
		Role: domain.RoleStudent, TrainerID: &student.ID,
	}); !errors.Is(err, service.ErrNotATrainer) {
		t.Errorf("student as trainer_id: %v", err)
	}
}

func TestUserService_AdminUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user := e.seedStudent(t, "Ana", "ana@example.com", nil)

	role := domain.RoleTrainer
	verified := true
	updated, err := e.userService.UpdateUser(ctx, user.ID, service.AdminUpdateUserInput{
		Role:          &role,
		EmailVerified: &verified,
		Cref:          strPtr("054321-G/RJ"),
		Password:      strPtr("novasenha"),
	})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Role != domain.RoleTrainer || !updated.EmailVerified {
		t.Errorf("admin patch not applied: %+v", updated)
	}

	// The new password is live.
	if _, _, err := e.auth.Login(ctx, "ana@example.com", "novasenha"); err != nil {
		t.Errorf("login with admin-set password failed: %v", err)
	}
}

func TestUserService_DeleteGuards(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	admin := &domain.User{Name: "Root", Email: "admin@fitpro.com", PasswordHash: "h", Role: domain.RoleAdmin, EmailVerified: true}
	if err := e.users.Create(ctx, admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	victim := e.seedStudent(t, "Ana", "ana@example.com", nil)

	if err := e.userService.DeleteUser(ctx, admin.ID, admin.ID); !errors.Is(err, service.ErrSelfDeletion) {
		t.Errorf("self deletion: %v", err)
	}
	if err := e.userService.DeleteUser(ctx, admin.ID, "missing"); !errors.Is(err, service.ErrUserNotFound) {
		t.Errorf("deleting unknown user: %v", err)
	}
	if err := e.userService.DeleteUser(ctx, admin.ID, victim.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if _, err := e.users.GetByID(ctx, victim.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("user survived delete: %v", err)
	}
}
