package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolink/comms/internal/database"
	"github.com/schoolink/comms/internal/domain"
	"github.com/schoolink/comms/internal/models"
)

// Store is the slice of the database the appointment lifecycle needs.
type Store interface {
	CreateAppointment(ctx context.Context, appt *models.Appointment) error
	GetAppointmentPrimary(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	ListAppointments(ctx context.Context, vis database.Visibility) ([]models.Appointment, error)
	TransitionAppointment(ctx context.Context, id uuid.UUID, from, to models.AppointmentStatus) (*models.Appointment, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type Service struct {
	store  Store
	logger *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Request creates a PENDING appointment between the calling student and the
// given teacher. Duplicate requests create duplicate appointments.
func (s *Service) Request(ctx context.Context, actor domain.Identity, teacherID uuid.UUID, note string) (*models.Appointment, error) {
	if actor.Role != models.RoleStudent {
		return nil, fmt.Errorf("%w: only students can request appointments", domain.ErrForbidden)
	}
	if teacherID == uuid.Nil {
		return nil, fmt.Errorf("%w: teacher is required", domain.ErrValidation)
	}

	teacher, err := s.store.GetUser(ctx, teacherID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: teacher does not exist", domain.ErrValidation)
		}
		return nil, err
	}
	if teacher.Role != models.RoleTeacher || teacher.SchoolID != actor.SchoolID {
		return nil, fmt.Errorf("%w: not a teacher of your school", domain.ErrValidation)
	}

	appt := &models.Appointment{
		StudentID: actor.UserID,
		TeacherID: teacherID,
		SchoolID:  actor.SchoolID,
		Status:    models.StatusPending,
		Note:      strings.TrimSpace(note),
	}
	if err := s.store.CreateAppointment(ctx, appt); err != nil {
		return nil, err
	}

	s.logger.Info("appointment requested",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("student_id", actor.UserID.String()),
		zap.String("teacher_id", teacherID.String()),
	)
	return appt, nil
}

// Approve moves PENDING to APPROVED. Only the appointment's teacher may call
// it; a no-op transition is rejected, not silently accepted.
func (s *Service) Approve(ctx context.Context, actor domain.Identity, id uuid.UUID) (*models.Appointment, error) {
	return s.transition(ctx, actor, id, models.StatusPending, models.StatusApproved, teacherOnly)
}

// Reject moves PENDING to REJECTED, teacher only.
func (s *Service) Reject(ctx context.Context, actor domain.Identity, id uuid.UUID) (*models.Appointment, error) {
	return s.transition(ctx, actor, id, models.StatusPending, models.StatusRejected, teacherOnly)
}

// Complete moves APPROVED to COMPLETED; either participant may call it.
func (s *Service) Complete(ctx context.Context, actor domain.Identity, id uuid.UUID) (*models.Appointment, error) {
	return s.transition(ctx, actor, id, models.StatusApproved, models.StatusCompleted, anyParticipant)
}

type actorRule int

const (
	teacherOnly actorRule = iota
	anyParticipant
)

func (s *Service) transition(ctx context.Context, actor domain.Identity, id uuid.UUID, from, to models.AppointmentStatus, rule actorRule) (*models.Appointment, error) {
	// The pre-check must see the latest committed row, never a replica:
	// a transition decision is a security decision.
	appt, err := s.store.GetAppointmentPrimary(ctx, id)
	if err != nil {
		return nil, err
	}

	switch rule {
	case teacherOnly:
		if actor.UserID != appt.TeacherID {
			return nil, fmt.Errorf("%w: you are not the teacher for this appointment", domain.ErrForbidden)
		}
	case anyParticipant:
		if !appt.IsParticipant(actor.UserID) {
			return nil, fmt.Errorf("%w: you are not a participant of this appointment", domain.ErrForbidden)
		}
	}

	if !appt.CanTransition(to) {
		return nil, fmt.Errorf("%w: cannot move %s to %s", domain.ErrInvalidState, appt.Status, to)
	}

	// The compare-and-set below still guards against a concurrent
	// transition winning between the check and the write.
	if _, err := s.store.TransitionAppointment(ctx, id, from, to); err != nil {
		return nil, err
	}

	// Re-fetch through the primary before anyone branches on the new
	// status (e.g. the message-send gate within the same request).
	updated, err := s.store.GetAppointmentPrimary(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("appointment transition",
		zap.String("appointment_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(updated.Status)),
		zap.String("actor_id", actor.UserID.String()),
	)
	return updated, nil
}

// Get returns one appointment to a participant. Replica read: this fetch
// does not follow a write in the same request.
func (s *Service) Get(ctx context.Context, actor domain.Identity, id uuid.UUID) (*models.Appointment, error) {
	appt, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appt.IsParticipant(actor.UserID) {
		return nil, fmt.Errorf("%w: you are not a participant of this appointment", domain.ErrForbidden)
	}
	return appt, nil
}

// List returns the appointments the caller may see under their scope.
func (s *Service) List(ctx context.Context, actor domain.Identity) ([]models.Appointment, error) {
	vis := database.VisibilityFor(actor.Role, actor.UserID, actor.SchoolID)
	return s.store.ListAppointments(ctx, vis)
}
