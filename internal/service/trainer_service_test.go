package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fitpro/gym-app/internal/repository"
	"fitpro/gym-app/internal/service"
)

func TestTrainerService_AddStudentByEmail_LinksExisting(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	trainer := e.seedTrainer(t, "Carlos", "carlos@fitpro.com")
	student := e.seedStudent(t, "Ana", "ana@example.com", nil)

	result, err := e.trainer.AddStudentByEmail(ctx, trainer.ID, "ana@example.com", "")
	if err != nil {
		t.Fatalf("AddStudentByEmail failed: %v", err)
	}
	if result.Created {
		t.Error("linking an existing account must not report Created")
	}
	if result.TempPassword != "" {
		t.Error("no temporary password for an existing account")
	}
	if result.Student.TrainerID == nil || *result.Student.TrainerID != trainer.ID {
		t.Errorf("student not linked: %+v", result.Student)
	}

	// The student gets an in-app notification about the new trainer.
	feed, err := e.notifications.ListByUser(ctx, student.ID)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(feed) != 1 || !strings.Contains(feed[0].Message, "Carlos") {
		t.Errorf("linking notification missing: %+v", feed)
	}
}

func TestTrainerService_AddStudentByEmail_DecisionTree(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	carlos := e.seedTrainer(t, "Carlos", "carlos@fitpro.com")
	rival := e.seedTrainer(t, "Paula", "paula@fitpro.com")
	e.seedStudent(t, "Ana", "ana@example.com", &carlos.ID)
	e.seedStudent(t, "Bruno", "bruno@example.com", &rival.ID)

	if _, err := e.trainer.AddStudentByEmail(ctx, carlos.ID, "paula@fitpro.com", ""); !errors.Is(err, service.ErrNotAStudent) {
		t.Errorf("adding a trainer account: %v", err)
	}
	if _, err := e.trainer.AddStudentByEmail(ctx, carlos.ID, "ana@example.com", ""); !errors.Is(err, service.ErrStudentAlreadyLinked) {
		t.Errorf("re-adding own student: %v", err)
	}
	if _, err := e.trainer.AddStudentByEmail(ctx, carlos.ID, "bruno@example.com", ""); !errors.Is(err, service.ErrStudentLinkedElsewhere) {
		t.Errorf("poaching another trainer's student: %v", err)
	}
	if _, err := e.trainer.AddStudentByEmail(ctx, carlos.ID, "nova@example.com", ""); !errors.Is(err, service.ErrNameRequired) {
		t.Errorf("unknown email without a name: %v", err)
	}
}

func TestTrainerService_AddStudentByEmail_ProvisionsNewAccount(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	trainer := e.seedTrainer(t, "Carlos", "carlos@fitpro.com")

	result, err := e.trainer.AddStudentByEmail(ctx, trainer.ID, "carla@example.com", "Carla Dias")
	if err != nil {
		t.Fatalf("AddStudentByEmail failed: %v", err)
	}
	if !result.Created {
		t.Fatal("expected a new account")
	}
	if len(result.TempPassword) < 8 {
		t.Errorf("temporary password too short: %q", result.TempPassword)
	}

	student := result.Student
	if !student.EmailVerified {
		t.Error("provisioned accounts skip email verification")
	}
	if student.TrainerID == nil || *student.TrainerID != trainer.ID {
		t.Errorf("new student not linked: %+v", student)
	}

	// The welcome mail carries the temporary password; the hash stored in
	// the database must not.
	mails := e.mailer.sentTo("carla@example.com")
	if len(mails) != 1 || !strings.Contains(mails[0].Body, result.TempPassword) {
		t.Errorf("welcome mail wrong: %+v", mails)
	}
	stored, err := e.users.GetByID(ctx, student.ID)
	if err != nil {
		t.Fatalf("reload student: %v", err)
	}
	if stored.PasswordHash == result.TempPassword {
		t.Error("temporary password stored unhashed")
	}

	// The password actually works for login.
	if _, _, err := e.auth.Login(ctx, "carla@example.com", result.TempPassword); err != nil {
		t.Errorf("login with temporary password failed: %v", err)
	}
}

func TestTrainerService_UpdateAndRemoveStudent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	carlos := e.seedTrainer(t, "Carlos", "carlos@fitpro.com")
	rival := e.seedTrainer(t, "Paula", "paula@fitpro.com")
	ana := e.seedStudent(t, "Ana", "ana@example.com", &carlos.ID)
	bruno := e.seedStudent(t, "Bruno", "bruno@example.com", &rival.ID)

	updated, err := e.trainer.UpdateStudent(ctx, carlos.ID, ana.ID, service.UpdateStudentInput{
		Name:  strPtr("Ana Paula Souza"),
		Phone: strPtr("11 99999-0000"),
	})
	if err != nil {
		t.Fatalf("UpdateStudent failed: %v", err)
	}
	if updated.Name != "Ana Paula Souza" || updated.Phone == nil {
		t.Errorf("update not applied: %+v", updated)
	}

	if _, err := e.trainer.UpdateStudent(ctx, carlos.ID, bruno.ID, service.UpdateStudentInput{Name: strPtr("X")}); !errors.Is(err, service.ErrStudentNotManaged) {
		t.Errorf("editing another trainer's student: %v", err)
	}
	if err := e.trainer.RemoveStudent(ctx, carlos.ID, bruno.ID); !errors.Is(err, service.ErrStudentNotManaged) {
		t.Errorf("removing another trainer's student: %v", err)
	}

	if err := e.trainer.RemoveStudent(ctx, carlos.ID, ana.ID); err != nil {
		t.Fatalf("RemoveStudent failed: %v", err)
	}
	if _, err := e.users.GetByID(ctx, ana.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("student account survived removal: %v", err)
	}
}
