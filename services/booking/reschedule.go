package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "glowbook/database/repository/booking"
	rescheduleRepo "glowbook/database/repository/reschedule"
	"glowbook/database/repository"
	"glowbook/models"
	"glowbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultRescheduleService implements the negotiated reschedule workflow:
// one party proposes a new time, the other approves or denies. Approval goes
// through the same revalidation as a direct reschedule, so the policy window,
// reschedule cap and slot re-check apply identically on both paths.
type DefaultRescheduleService struct {
	Bookings  bookingRepo.BookingRepository
	Requests  rescheduleRepo.RescheduleRepository
	Lifecycle LifecycleService
	Clock     utils.Clock
}

func (s *DefaultRescheduleService) Request(ctx context.Context, bookingID string, requestedBy models.Party, newDate, newTime, reason string) (*models.RescheduleRequest, error) {
	if !requestedBy.Valid() {
		return nil, NewInvalidInput("requestedBy must be client or provider")
	}
	if _, err := models.MinuteOfDay(newTime); err != nil {
		return nil, NewInvalidInput("time must be HH:MM")
	}
	if _, err := time.Parse(models.DateLayout, newDate); err != nil {
		return nil, NewInvalidInput("date must be YYYY-MM-DD")
	}

	b, err := s.Bookings.GetByID(ctx, bookingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewNotFound("booking", bookingID)
	}
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, NewInvalidTransition(b.Status, "request a reschedule for")
	}

	req := &models.RescheduleRequest{
		ID:          uuid.New().String(),
		BookingID:   bookingID,
		RequestedBy: requestedBy,
		NewDate:     newDate,
		NewTime:     newTime,
		Reason:      reason,
		Status:      models.ReschedulePending,
		RequestedAt: s.Clock.Now().UTC(),
	}
	if err := s.Requests.CreatePending(ctx, req); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrRequestAlreadyPending
		}
		return nil, err
	}

	utils.GetLogger().Info("reschedule requested",
		zap.String("bookingID", bookingID),
		zap.String("requestID", req.ID),
		zap.String("requestedBy", string(requestedBy)),
		zap.String("newDate", newDate),
		zap.String("newTime", newTime))

	return req, nil
}

func (s *DefaultRescheduleService) Respond(ctx context.Context, requestID string, responder models.Party, approve bool, reason string) (*models.RescheduleRequest, error) {
	logger := utils.GetLogger()

	if !responder.Valid() {
		return nil, NewInvalidInput("responder must be client or provider")
	}

	req, err := s.Requests.GetByID(ctx, requestID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewNotFound("reschedule request", requestID)
	}
	if err != nil {
		return nil, err
	}
	if req.Status != models.ReschedulePending {
		return nil, &Error{Code: CodeInvalidTransition, Message: "reschedule request already resolved"}
	}
	// Only the party who did not raise the request may respond to it.
	if responder != req.RequestedBy.Other() {
		return nil, NewInvalidInput("only the other party may respond to this request")
	}

	if !approve {
		resolved, err := s.Requests.Resolve(ctx, requestID, models.RescheduleDenied, reason)
		if err != nil {
			return nil, s.mapResolveErr(requestID, err)
		}
		logger.Info("reschedule denied",
			zap.String("requestID", requestID), zap.String("bookingID", req.BookingID))
		return resolved, nil
	}

	// Approval mutates the underlying booking through the same path as a
	// direct reschedule; any policy or slot failure leaves the request
	// pending so the parties can negotiate again.
	if _, err := s.Lifecycle.Reschedule(ctx, req.BookingID, req.NewDate, req.NewTime); err != nil {
		return nil, err
	}

	resolved, err := s.Requests.Resolve(ctx, requestID, models.RescheduleApproved, reason)
	if err != nil {
		return nil, s.mapResolveErr(requestID, err)
	}

	logger.Info("reschedule approved",
		zap.String("requestID", requestID), zap.String("bookingID", req.BookingID))
	return resolved, nil
}

func (s *DefaultRescheduleService) ListForBooking(ctx context.Context, bookingID string) ([]models.RescheduleRequest, error) {
	return s.Requests.ListByBooking(ctx, bookingID)
}

func (s *DefaultRescheduleService) mapResolveErr(requestID string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return NewNotFound("reschedule request", requestID)
	}
	if errors.Is(err, repository.ErrConflict) {
		return &Error{Code: CodeInvalidTransition, Message: "reschedule request already resolved"}
	}
	return err
}
