package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"micrositebuilder/internal/delivery/http/middleware"
	"micrositebuilder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakePublishService implements domain.PublishService for handler tests.
type fakePublishService struct {
	currentStepResult     domain.PublishStep
	currentStepErr        error
	saveDetailsResult     *domain.Event
	saveDetailsStep       domain.PublishStep
	saveDetailsErr        error
	submitPhotosResult    *domain.PhotosResult
	submitPhotosErr       error
	completePaymentResult *domain.Event
	completePaymentErr    error

	lastEventID   string
	lastCallerID  string
	lastUpdate    domain.EventUpdate
	lastPhotos    []domain.PhotoUpload
	lastReference string
}

func (f *fakePublishService) CurrentStep(ctx context.Context, eventID, callerID string) (domain.PublishStep, error) {
	f.lastEventID = eventID
	f.lastCallerID = callerID
	if f.currentStepErr != nil {
		return "", f.currentStepErr
	}
	return f.currentStepResult, nil
}

func (f *fakePublishService) SaveDetails(ctx context.Context, eventID, callerID string, upd domain.EventUpdate) (*domain.Event, domain.PublishStep, error) {
	f.lastEventID = eventID
	f.lastCallerID = callerID
	f.lastUpdate = upd
	return f.saveDetailsResult, f.saveDetailsStep, f.saveDetailsErr
}

func (f *fakePublishService) SubmitPhotos(ctx context.Context, eventID, callerID string, photos []domain.PhotoUpload) (*domain.PhotosResult, error) {
	f.lastEventID = eventID
	f.lastCallerID = callerID
	f.lastPhotos = photos
	if f.submitPhotosErr != nil {
		return nil, f.submitPhotosErr
	}
	return f.submitPhotosResult, nil
}

func (f *fakePublishService) CompletePayment(ctx context.Context, eventID, callerID, reference string) (*domain.Event, error) {
	f.lastEventID = eventID
	f.lastCallerID = callerID
	f.lastReference = reference
	if f.completePaymentErr != nil {
		return nil, f.completePaymentErr
	}
	return f.completePaymentResult, nil
}

func TestPublishController_CurrentStep(t *testing.T) {
	tests := []struct {
		name       string
		step       domain.PublishStep
		fakeErr    error
		wantStatus int
		wantStep   string
	}{
		{
			name:       "resumes at photos",
			step:       domain.StepPhotos,
			wantStatus: http.StatusOK,
			wantStep:   "photos",
		},
		{
			name:       "not owner",
			fakeErr:    domain.ErrForbidden,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "unknown event",
			fakeErr:    domain.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakePublishService{currentStepResult: tt.step, currentStepErr: tt.fakeErr}
			ctrl := NewPublishController(testLogger, fake)

			req := httptest.NewRequest(http.MethodGet, "http://test/events/ev-1/publish/step", nil)
			req.SetPathValue("eventID", "ev-1")
			req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			rr := httptest.NewRecorder()

			ctrl.CurrentStep(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "ev-1", fake.lastEventID)
			assert.Equal(t, "user-123", fake.lastCallerID)
			if tt.wantStatus == http.StatusOK {
				var resp struct {
					Data PublishStepResponse `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantStep, string(resp.Data.Step))
			}
		})
	}
}

func TestPublishController_CurrentStep_RequiresAuthContext(t *testing.T) {
	ctrl := NewPublishController(testLogger, &fakePublishService{})

	req := httptest.NewRequest(http.MethodGet, "http://test/events/ev-1/publish/step", nil)
	req.SetPathValue("eventID", "ev-1")
	rr := httptest.NewRecorder()

	ctrl.CurrentStep(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPublishController_SaveDetails(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fake       *fakePublishService
		wantStatus int
		wantStep   string
	}{
		{
			name: "advances to photos",
			body: `{"name":"Ada & Obi","date":"2026-10-10T12:00:00Z","venue":"Lagos"}`,
			fake: &fakePublishService{
				saveDetailsResult: &domain.Event{ID: "ev-1", Name: "Ada & Obi"},
				saveDetailsStep:   domain.StepPhotos,
			},
			wantStatus: http.StatusOK,
			wantStep:   "photos",
		},
		{
			name: "missing date stays at details",
			body: `{"name":"Ada & Obi"}`,
			fake: &fakePublishService{
				saveDetailsStep: domain.StepDetails,
				saveDetailsErr:  fmt.Errorf("%w: date is required", domain.ErrInvalidInput),
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid json",
			body:       `{invalid`,
			fake:       &fakePublishService{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewPublishController(testLogger, tt.fake)

			req := httptest.NewRequest(http.MethodPut, "http://test/events/ev-1/publish/details", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.SetPathValue("eventID", "ev-1")
			req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			rr := httptest.NewRecorder()

			ctrl.SaveDetails(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				var resp struct {
					Data SaveDetailsResponse `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantStep, string(resp.Data.NextStep))
				require.NotNil(t, resp.Data.Event)
				assert.Equal(t, "ev-1", resp.Data.Event.ID)
			}
		})
	}
}

func multipartPhotos(t *testing.T, filenames ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range filenames {
		part, err := mw.CreateFormFile("photos", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestPublishController_SubmitPhotos(t *testing.T) {
	fake := &fakePublishService{
		submitPhotosResult: &domain.PhotosResult{
			Event:    &domain.Event{ID: "ev-1", PublicSlug: "ada-obi-1a2b3c4d"},
			NextStep: domain.StepLive,
		},
	}
	ctrl := NewPublishController(testLogger, fake)

	body, contentType := multipartPhotos(t, "one.jpg", "two.jpg")
	req := httptest.NewRequest(http.MethodPost, "http://test/events/ev-1/publish/photos", body)
	req.Header.Set("Content-Type", contentType)
	req.SetPathValue("eventID", "ev-1")
	req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
	rr := httptest.NewRecorder()

	ctrl.SubmitPhotos(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, fake.lastPhotos, 2)
	assert.Equal(t, "one.jpg", fake.lastPhotos[0].Filename)
	assert.Equal(t, "two.jpg", fake.lastPhotos[1].Filename)

	var resp struct {
		Data domain.PhotosResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, domain.StepLive, resp.Data.NextStep)
}

func TestPublishController_SubmitPhotos_GalleryFull(t *testing.T) {
	fake := &fakePublishService{
		submitPhotosErr: fmt.Errorf("%w: gallery holds at most 10 images", domain.ErrGalleryFull),
	}
	ctrl := NewPublishController(testLogger, fake)

	body, contentType := multipartPhotos(t, "one.jpg")
	req := httptest.NewRequest(http.MethodPost, "http://test/events/ev-1/publish/photos", body)
	req.Header.Set("Content-Type", contentType)
	req.SetPathValue("eventID", "ev-1")
	req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
	rr := httptest.NewRecorder()

	ctrl.SubmitPhotos(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "gallery_full")
}

func TestPublishController_SubmitPhotos_OwnershipLookupUnavailable(t *testing.T) {
	fake := &fakePublishService{
		submitPhotosErr: fmt.Errorf("%w: store unreachable", domain.ErrOwnershipLookup),
	}
	ctrl := NewPublishController(testLogger, fake)

	body, contentType := multipartPhotos(t, "one.jpg")
	req := httptest.NewRequest(http.MethodPost, "http://test/events/ev-1/publish/photos", body)
	req.Header.Set("Content-Type", contentType)
	req.SetPathValue("eventID", "ev-1")
	req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
	rr := httptest.NewRecorder()

	ctrl.SubmitPhotos(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "temporarily_unavailable")
}

func TestPublishController_CompletePayment(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fake       *fakePublishService
		wantStatus int
		wantRef    string
	}{
		{
			name: "verifies and publishes",
			body: `{"reference":"ref-42"}`,
			fake: &fakePublishService{
				completePaymentResult: &domain.Event{ID: "ev-1", PublicSlug: "ada-obi-1a2b3c4d"},
			},
			wantStatus: http.StatusOK,
			wantRef:    "ref-42",
		},
		{
			name: "declined charge",
			body: `{"reference":"ref-bad"}`,
			fake: &fakePublishService{
				completePaymentErr: fmt.Errorf("%w: charge declined", domain.ErrPaymentVerification),
			},
			wantStatus: http.StatusPaymentRequired,
			wantRef:    "ref-bad",
		},
		{
			name:       "missing reference",
			body:       `{}`,
			fake:       &fakePublishService{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewPublishController(testLogger, tt.fake)

			req := httptest.NewRequest(http.MethodPost, "http://test/events/ev-1/publish/complete", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.SetPathValue("eventID", "ev-1")
			req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			rr := httptest.NewRecorder()

			ctrl.CompletePayment(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantRef != "" {
				assert.Equal(t, tt.wantRef, tt.fake.lastReference)
			}
			if tt.wantStatus == http.StatusOK {
				var resp struct {
					Data CompletePaymentResponse `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, domain.StepLive, resp.Data.NextStep)
				require.NotNil(t, resp.Data.Event)
				assert.Equal(t, "ada-obi-1a2b3c4d", resp.Data.Event.PublicSlug)
			}
		})
	}
}

func TestPublishController_CompletePayment_ServiceError(t *testing.T) {
	fake := &fakePublishService{completePaymentErr: errors.New("db error")}
	ctrl := NewPublishController(testLogger, fake)

	req := httptest.NewRequest(http.MethodPost, "http://test/events/ev-1/publish/complete", bytes.NewBufferString(`{"reference":"ref-1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("eventID", "ev-1")
	req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
	rr := httptest.NewRecorder()

	ctrl.CompletePayment(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
