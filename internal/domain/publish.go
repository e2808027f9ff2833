package domain

import (
	"context"
	"io"
)

// PublishStep is one state of the publishing workflow a host walks through
// to take an event live.
type PublishStep string

const (
	StepChooseType PublishStep = "choose_type"
	StepDetails    PublishStep = "details"
	StepPhotos     PublishStep = "photos"
	StepPayment    PublishStep = "payment"
	StepLive       PublishStep = "live"
)

// PhotoUpload is one locally selected photo to be uploaded during the
// photos step.
type PhotoUpload struct {
	Filename string
	Content  io.Reader
}

// PhotoFailure reports one photo that could not be uploaded. Successful
// uploads in the same batch are kept; there is no all-or-nothing rollback.
type PhotoFailure struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// PhotosResult is the outcome of the photos step: which uploads survived,
// which failed, and where the workflow goes next.
type PhotosResult struct {
	Event    *Event         `json:"event"`
	Failed   []PhotoFailure `json:"failed,omitempty"`
	NextStep PublishStep    `json:"next_step"`
	// CheckoutURL is set when NextStep is StepPayment.
	CheckoutURL string `json:"checkout_url,omitempty"`
}

// PublishService drives the multi-step publishing workflow. The authoritative
// state lives on the persisted event, never in memory: resuming after a page
// reload re-derives the step from the stored record.
type PublishService interface {
	// CurrentStep derives the host's position in the workflow from the
	// persisted event. An empty eventID yields StepChooseType.
	CurrentStep(ctx context.Context, eventID, callerID string) (PublishStep, error)
	// SaveDetails persists the details step (name and date at minimum) and
	// advances to StepPhotos. On persistence failure the workflow stays at
	// StepDetails and the caller keeps the submitted form data.
	SaveDetails(ctx context.Context, eventID, callerID string, upd EventUpdate) (*Event, PublishStep, error)
	// SubmitPhotos uploads the batch, appends survivors to the existing
	// gallery, then consults the access gate: denied routes to payment,
	// granted publishes the event and goes straight to StepLive.
	SubmitPhotos(ctx context.Context, eventID, callerID string, photos []PhotoUpload) (*PhotosResult, error)
	// CompletePayment verifies the provider reference, records the purchase,
	// publishes the event, and returns it at StepLive.
	CompletePayment(ctx context.Context, eventID, callerID, reference string) (*Event, error)
}
