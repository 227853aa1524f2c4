package location

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"parallel/internal/common"
	"parallel/internal/model"
)

// LocationService manages a user's live position share with their partner.
// Whether a share is active is always derived from its expiry at read time.
type LocationService interface {
	StartSharing(ctx context.Context, userID, partnerID string, coords model.Coordinates, accuracy float64, battery *float64, duration model.SharingDuration) (*model.LocationShare, error)
	UpdatePosition(ctx context.Context, share *model.LocationShare, coords model.Coordinates, accuracy float64, battery *float64) (*model.LocationShare, error)
	Revoke(ctx context.Context, share *model.LocationShare) (*model.LocationShare, error)
	ChangeDuration(ctx context.Context, share *model.LocationShare, duration model.SharingDuration) (*model.LocationShare, error)
	Current(ctx context.Context, userID string) (*model.LocationShare, bool, error)
	IsActive(share *model.LocationShare) bool
}

type locationService struct {
	store    common.RelationshipStore
	clock    common.Clock
	recorder common.TransitionRecorder
	logger   *slog.Logger
}

func NewLocationService(store common.RelationshipStore, clock common.Clock, recorder common.TransitionRecorder, logger *slog.Logger) LocationService {
	if clock == nil {
		clock = common.SystemClock
	}
	if recorder == nil {
		recorder = common.NopRecorder
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &locationService{store: store, clock: clock, recorder: recorder, logger: logger}
}

// ExpiryFor returns when a share started at now with the given duration stops.
// off and permanent have no expiry.
func ExpiryFor(duration model.SharingDuration, now time.Time) *time.Time {
	var d time.Duration
	switch duration {
	case model.SharingOneHour:
		d = time.Hour
	case model.SharingTwentyFourHours:
		d = 24 * time.Hour
	default:
		return nil
	}
	expires := now.Add(d)
	return &expires
}

// IsCurrentlyActive reports whether share may still be used at now. The stored
// IsActive flag is not consulted.
func IsCurrentlyActive(share *model.LocationShare, now time.Time) bool {
	if share == nil || share.SharingDuration == model.SharingOff {
		return false
	}
	return share.ExpiresAt == nil || now.Before(*share.ExpiresAt)
}

func (s *locationService) IsActive(share *model.LocationShare) bool {
	return IsCurrentlyActive(share, s.clock.Now())
}

func (s *locationService) StartSharing(
	ctx context.Context,
	userID, partnerID string,
	coords model.Coordinates,
	accuracy float64,
	battery *float64,
	duration model.SharingDuration,
) (*model.LocationShare, error) {
	if err := common.ValidatePair(userID, partnerID); err != nil {
		return nil, err
	}
	if err := validatePosition(coords, accuracy, battery); err != nil {
		return nil, err
	}
	if !duration.IsValid() {
		return nil, common.Validationf("unknown sharing duration %q", duration)
	}

	now := s.clock.Now()
	share := &model.LocationShare{
		ID:              uuid.New().String(),
		UserID:          userID,
		PartnerID:       partnerID,
		Coordinates:     coords,
		Accuracy:        accuracy,
		Timestamp:       now,
		BatteryLevel:    battery,
		SharingDuration: duration,
		ExpiresAt:       ExpiryFor(duration, now),
		IsActive:        duration != model.SharingOff,
	}

	if err := s.store.Insert(ctx, share); err != nil {
		return nil, common.WrapStorage("insert location share", err)
	}

	s.recorder.Transition("location", string(duration))
	s.logger.DebugContext(ctx, "location sharing started", "user", userID, "duration", duration)
	return share, nil
}

// UpdatePosition records a new fix on a share that has not expired.
func (s *locationService) UpdatePosition(
	ctx context.Context,
	share *model.LocationShare,
	coords model.Coordinates,
	accuracy float64,
	battery *float64,
) (*model.LocationShare, error) {
	if share == nil {
		return nil, common.Validationf("location share is required")
	}
	if err := validatePosition(coords, accuracy, battery); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !IsCurrentlyActive(share, now) {
		s.recorder.Rejected("location", common.ErrExpired)
		return nil, fmt.Errorf("%w: location share %s is no longer active", common.ErrExpired, share.ID)
	}

	updated := *share
	updated.Coordinates = coords
	updated.Accuracy = accuracy
	updated.BatteryLevel = battery
	updated.Timestamp = now

	if err := s.store.Save(ctx, &updated); err != nil {
		return nil, common.WrapStorage("save location share", err)
	}
	return &updated, nil
}

// Revoke stops sharing immediately regardless of the remaining time.
func (s *locationService) Revoke(ctx context.Context, share *model.LocationShare) (*model.LocationShare, error) {
	if share == nil {
		return nil, common.Validationf("location share is required")
	}

	updated := *share
	updated.SharingDuration = model.SharingOff
	updated.ExpiresAt = nil
	updated.IsActive = false

	if err := s.store.Save(ctx, &updated); err != nil {
		return nil, common.WrapStorage("save location share", err)
	}

	s.recorder.Transition("location", string(model.SharingOff))
	return &updated, nil
}

// ChangeDuration restarts the expiry window from now. Switching to off revokes.
func (s *locationService) ChangeDuration(ctx context.Context, share *model.LocationShare, duration model.SharingDuration) (*model.LocationShare, error) {
	if share == nil {
		return nil, common.Validationf("location share is required")
	}
	if !duration.IsValid() {
		return nil, common.Validationf("unknown sharing duration %q", duration)
	}
	if duration == model.SharingOff {
		return s.Revoke(ctx, share)
	}

	updated := *share
	updated.SharingDuration = duration
	updated.ExpiresAt = ExpiryFor(duration, s.clock.Now())
	updated.IsActive = true

	if err := s.store.Save(ctx, &updated); err != nil {
		return nil, common.WrapStorage("save location share", err)
	}

	s.recorder.Transition("location", string(duration))
	return &updated, nil
}

// Current returns the newest share published by userID together with its
// derived active state. A user who never shared yields ErrNotFound.
func (s *locationService) Current(ctx context.Context, userID string) (*model.LocationShare, bool, error) {
	if userID == "" {
		return nil, false, common.Validationf("user ID is required")
	}

	rows, err := s.store.Fetch(ctx, common.KindLocationShare, common.Filter{
		Equals:     map[string]interface{}{"user_id": userID},
		Descending: true,
		Limit:      1,
	})
	if err != nil {
		return nil, false, common.WrapStorage("fetch location share", err)
	}
	if len(rows) == 0 {
		return nil, false, fmt.Errorf("location share %w", common.ErrNotFound)
	}

	share, ok := rows[0].(*model.LocationShare)
	if !ok {
		return nil, false, common.WrapStorage("fetch location share", fmt.Errorf("unexpected row type %T", rows[0]))
	}
	return share, s.IsActive(share), nil
}

func validatePosition(coords model.Coordinates, accuracy float64, battery *float64) error {
	if err := common.ValidateCoordinates(coords, accuracy); err != nil {
		return err
	}
	return common.ValidateBatteryLevel(battery)
}
