package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"micrositebuilder/internal/delivery/http/middleware"
	"micrositebuilder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createDraftResult   *domain.Event
	createDraftErr      error
	getEventResult      *domain.Event
	getEventErr         error
	listMyEventsResult  []*domain.Event
	listMyEventsErr     error
	updateDetailsResult *domain.Event
	updateDetailsErr    error
	updateCustomResult  *domain.Event
	updateCustomErr     error
	addGalleryResult    *domain.Event
	addGalleryErr       error
	removeGalleryResult *domain.Event
	removeGalleryErr    error
	setCoverResult      *domain.Event
	setCoverErr         error
	deleteEventErr      error
	lastOwnerID         string
	lastEventID         string
	lastCallerID        string
	lastEventType       domain.EventType
	lastTemplateID      string
	lastUpdate          domain.EventUpdate
	lastCustomization   domain.Customization
	lastGalleryURLs     []string
	lastRemovedURL      string
	lastCoverURL        string
	lastDeleteEventID   string
	lastDeleteCallerID  string
}

func (f *fakeEventService) CreateDraft(ctx context.Context, ownerID string, eventType domain.EventType, templateID string) (*domain.Event, error) {
	f.lastOwnerID = ownerID
	f.lastEventType = eventType
	f.lastTemplateID = templateID
	if f.createDraftErr != nil {
		return nil, f.createDraftErr
	}
	return f.createDraftResult, nil
}

func (f *fakeEventService) GetEvent(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	f.lastEventID = eventID
	f.lastCallerID = callerID
	if f.getEventErr != nil {
		return nil, f.getEventErr
	}
	return f.getEventResult, nil
}

func (f *fakeEventService) ListMyEvents(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	f.lastOwnerID = ownerID
	if f.listMyEventsErr != nil {
		return nil, f.listMyEventsErr
	}
	return f.listMyEventsResult, nil
}

func (f *fakeEventService) UpdateDetails(ctx context.Context, eventID, callerID string, upd domain.EventUpdate) (*domain.Event, error) {
	f.lastEventID = eventID
	f.lastCallerID = callerID
	f.lastUpdate = upd
	if f.updateDetailsErr != nil {
		return nil, f.updateDetailsErr
	}
	return f.updateDetailsResult, nil
}

func (f *fakeEventService) UpdateCustomization(ctx context.Context, eventID, callerID string, c domain.Customization) (*domain.Event, error) {
	f.lastEventID = eventID
	f.lastCallerID = callerID
	f.lastCustomization = c
	if f.updateCustomErr != nil {
		return nil, f.updateCustomErr
	}
	return f.updateCustomResult, nil
}

func (f *fakeEventService) AddGalleryImages(ctx context.Context, eventID, callerID string, urls []string) (*domain.Event, error) {
	f.lastEventID = eventID
	f.lastCallerID = callerID
	f.lastGalleryURLs = urls
	if f.addGalleryErr != nil {
		return nil, f.addGalleryErr
	}
	return f.addGalleryResult, nil
}

func (f *fakeEventService) RemoveGalleryImage(ctx context.Context, eventID, callerID string, url string) (*domain.Event, error) {
	f.lastEventID = eventID
	f.lastCallerID = callerID
	f.lastRemovedURL = url
	if f.removeGalleryErr != nil {
		return nil, f.removeGalleryErr
	}
	return f.removeGalleryResult, nil
}

func (f *fakeEventService) SetCoverImage(ctx context.Context, eventID, callerID string, url string) (*domain.Event, error) {
	f.lastEventID = eventID
	f.lastCallerID = callerID
	f.lastCoverURL = url
	if f.setCoverErr != nil {
		return nil, f.setCoverErr
	}
	return f.setCoverResult, nil
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, eventID, callerID string) error {
	f.lastDeleteEventID = eventID
	f.lastDeleteCallerID = callerID
	return f.deleteEventErr
}

func TestEventController_CreateEvent(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		authed     bool
		fake       *fakeEventService
		wantStatus int
	}{
		{
			name:   "success",
			body:   `{"event_type":"wedding","template_id":"tpl-1"}`,
			authed: true,
			fake: &fakeEventService{
				createDraftResult: &domain.Event{ID: "ev-created", EventType: domain.EventTypeWedding, TemplateID: "tpl-1"},
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unknown event type",
			body:       `{"event_type":"funeral","template_id":"tpl-1"}`,
			authed:     true,
			fake:       &fakeEventService{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "type does not match template",
			body:   `{"event_type":"birthday","template_id":"tpl-wedding"}`,
			authed: true,
			fake: &fakeEventService{
				createDraftErr: fmt.Errorf("%w: template is for wedding events", domain.ErrInvalidInput),
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "no auth context",
			body:       `{"event_type":"wedding","template_id":"tpl-1"}`,
			authed:     false,
			fake:       &fakeEventService{},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, tt.fake)

			req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.authed {
				req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			}
			rr := httptest.NewRecorder()

			ctrl.CreateEvent(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "user-123", tt.fake.lastOwnerID)
				assert.Equal(t, "tpl-1", tt.fake.lastTemplateID)
				var resp struct {
					Data domain.Event `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, "ev-created", resp.Data.ID)
			}
		})
	}
}

func TestEventController_ListMyEvents_EmptyIsArray(t *testing.T) {
	ctrl := NewEventController(testLogger, &fakeEventService{})

	req := httptest.NewRequest(http.MethodGet, "/events/me", nil)
	req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
	rr := httptest.NewRecorder()

	ctrl.ListMyEvents(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"data":[]`)
}

func TestEventController_AddGalleryImages(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fake       *fakeEventService
		wantStatus int
		wantCode   string
	}{
		{
			name: "appends urls",
			body: `{"urls":["https://media.example.com/ev-1/a.jpg"]}`,
			fake: &fakeEventService{
				addGalleryResult: &domain.Event{ID: "ev-1", GalleryImages: []string{"https://media.example.com/ev-1/a.jpg"}},
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "gallery full",
			body: `{"urls":["https://media.example.com/ev-1/a.jpg"]}`,
			fake: &fakeEventService{
				addGalleryErr: fmt.Errorf("%w: gallery holds at most 10 images", domain.ErrGalleryFull),
			},
			wantStatus: http.StatusConflict,
			wantCode:   "gallery_full",
		},
		{
			name:       "empty batch",
			body:       `{"urls":[]}`,
			fake:       &fakeEventService{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, tt.fake)

			req := httptest.NewRequest(http.MethodPost, "http://test/events/ev-1/gallery", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.SetPathValue("eventID", "ev-1")
			req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			rr := httptest.NewRecorder()

			ctrl.AddGalleryImages(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				assert.Contains(t, rr.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestEventController_SetCoverImage_NotInGallery(t *testing.T) {
	fake := &fakeEventService{
		setCoverErr: fmt.Errorf("%w: cover must be a gallery image", domain.ErrInvalidInput),
	}
	ctrl := NewEventController(testLogger, fake)

	req := httptest.NewRequest(http.MethodPut, "http://test/events/ev-1/cover", bytes.NewBufferString(`{"url":"https://elsewhere.example.com/x.jpg"}`))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("eventID", "ev-1")
	req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
	rr := httptest.NewRecorder()

	ctrl.SetCoverImage(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "https://elsewhere.example.com/x.jpg", fake.lastCoverURL)
}

func TestEventController_DeleteEvent_NotOwner(t *testing.T) {
	fake := &fakeEventService{deleteEventErr: domain.ErrForbidden}
	ctrl := NewEventController(testLogger, fake)

	req := httptest.NewRequest(http.MethodDelete, "http://test/events/ev-1", nil)
	req.SetPathValue("eventID", "ev-1")
	req = req.WithContext(middleware.SetUserID(req.Context(), "user-456"))
	rr := httptest.NewRecorder()

	ctrl.DeleteEvent(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "ev-1", fake.lastDeleteEventID)
	assert.Equal(t, "user-456", fake.lastDeleteCallerID)
}
