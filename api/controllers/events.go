package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmcastillo/ofertazo-backend/api/responses"
	"github.com/dmcastillo/ofertazo-backend/api/validators"
	"github.com/dmcastillo/ofertazo-backend/internal/engagement"
	pkgerrors "github.com/dmcastillo/ofertazo-backend/pkg/errors"
	"github.com/dmcastillo/ofertazo-backend/pkg/logger"
)

type recordEventRequest struct {
	EventID    string     `json:"event_id,omitempty" validate:"omitempty,max=128"`
	DiscountID string     `json:"discount_id" validate:"required,uuid"`
	Action     string     `json:"action" validate:"required"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
	UserID     *string    `json:"user_id,omitempty" validate:"omitempty,uuid"`
	DeviceType string     `json:"device_type,omitempty" validate:"omitempty,max=120"`
	City       string     `json:"city,omitempty" validate:"omitempty,max=120"`
	Region     string     `json:"region,omitempty" validate:"omitempty,max=120"`
	AgeGroup   string     `json:"age_group,omitempty" validate:"omitempty,max=120"`
	Gender     string     `json:"gender,omitempty" validate:"omitempty,max=120"`
}

// RecordEvent ingests one engagement event. Replays of a previously seen
// event_id answer 200 without writing a second row.
func RecordEvent(service engagement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req recordEventRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		discountID, err := uuid.Parse(req.DiscountID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "discount_id must be a valid uuid"))
			return
		}

		input := engagement.RecordEventInput{
			EventID:    req.EventID,
			DiscountID: discountID,
			Action:     req.Action,
			OccurredAt: req.OccurredAt,
			DeviceType: req.DeviceType,
			City:       req.City,
			Region:     req.Region,
			AgeGroup:   req.AgeGroup,
			Gender:     req.Gender,
		}
		if req.UserID != nil {
			userID, err := uuid.Parse(*req.UserID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user_id must be a valid uuid"))
				return
			}
			input.UserID = &userID
		}

		event, recorded, err := service.Record(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if !recorded {
			responses.WriteSuccess(w, map[string]any{"duplicate": true})
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"id":        event.ID.String(),
			"duplicate": false,
		})
	}
}
