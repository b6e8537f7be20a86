package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmcastillo/ofertazo-backend/internal/engagement"
	"github.com/dmcastillo/ofertazo-backend/pkg/db/models"
	"github.com/dmcastillo/ofertazo-backend/pkg/enums"
	pkgerrors "github.com/dmcastillo/ofertazo-backend/pkg/errors"
)

type stubEngagementService struct {
	engagement.Service

	recordFn func(context.Context, engagement.RecordEventInput) (*models.EngagementEvent, bool, error)
}

func (s *stubEngagementService) Record(ctx context.Context, input engagement.RecordEventInput) (*models.EngagementEvent, bool, error) {
	return s.recordFn(ctx, input)
}

func postEvent(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestRecordEvent(t *testing.T) {
	discountID := uuid.New()
	eventID := uuid.New()

	t.Run("created", func(t *testing.T) {
		var got engagement.RecordEventInput
		svc := &stubEngagementService{
			recordFn: func(_ context.Context, input engagement.RecordEventInput) (*models.EngagementEvent, bool, error) {
				got = input
				return &models.EngagementEvent{ID: eventID, DiscountID: input.DiscountID, Action: enums.ActionView}, true, nil
			},
		}

		resp := postEvent(t, RecordEvent(svc, nil),
			`{"event_id":"evt-42","discount_id":"`+discountID.String()+`","action":"view","device_type":"ios"}`)

		require.Equal(t, http.StatusCreated, resp.Code)
		assert.Equal(t, "evt-42", got.EventID)
		assert.Equal(t, discountID, got.DiscountID)
		assert.Equal(t, "ios", got.DeviceType)

		var body struct {
			Data map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, eventID.String(), body.Data["id"])
		assert.Equal(t, false, body.Data["duplicate"])
	})

	t.Run("duplicate replay answers 200", func(t *testing.T) {
		svc := &stubEngagementService{
			recordFn: func(context.Context, engagement.RecordEventInput) (*models.EngagementEvent, bool, error) {
				return nil, false, nil
			},
		}

		resp := postEvent(t, RecordEvent(svc, nil),
			`{"event_id":"evt-42","discount_id":"`+discountID.String()+`","action":"view"}`)

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Data map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, true, body.Data["duplicate"])
	})

	t.Run("rejects unknown body fields", func(t *testing.T) {
		handler := RecordEvent(&stubEngagementService{}, nil)
		resp := postEvent(t, handler,
			`{"discount_id":"`+discountID.String()+`","action":"view","surprise":true}`)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("rejects malformed discount id", func(t *testing.T) {
		handler := RecordEvent(&stubEngagementService{}, nil)
		resp := postEvent(t, handler, `{"discount_id":"not-a-uuid","action":"view"}`)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("maps service errors", func(t *testing.T) {
		svc := &stubEngagementService{
			recordFn: func(context.Context, engagement.RecordEventInput) (*models.EngagementEvent, bool, error) {
				return nil, false, pkgerrors.New(pkgerrors.CodeNotFound, "discount not found")
			},
		}

		resp := postEvent(t, RecordEvent(svc, nil),
			`{"discount_id":"`+discountID.String()+`","action":"view"}`)
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
