package domain

import (
	"context"
	"time"
)

// MaxGalleryImages caps an event's photo gallery.
const MaxGalleryImages = 10

// Customization is a host's per-event override of a template's defaults.
// It has no existence independent of an Event.
type Customization struct {
	// SelectedColorScheme names a scheme in the template's list. Empty falls
	// back to the template's first scheme.
	SelectedColorScheme string `json:"selected_color_scheme,omitempty"`
	// SectionVisibility maps a section id OR a section type to a flag.
	// An explicit false hides the section; absence means visible.
	SectionVisibility map[string]bool `json:"section_visibility,omitempty"`
	// SectionOrder lists section ids to render first, in this order.
	// Sections not mentioned keep their relative default order afterward.
	SectionOrder []string `json:"section_order,omitempty"`
}

// Event is a host's concrete instance of a template. It is created as a
// draft with an empty PublicSlug; a non-empty PublicSlug is the operational
// definition of "published".
// swagger:model Event
type Event struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	PublicSlug string    `json:"public_slug,omitempty"`
	EventType  EventType `json:"event_type"`
	TemplateID string    `json:"template_id"`

	Name    string     `json:"name"`
	Date    *time.Time `json:"date,omitempty"`
	Venue   string     `json:"venue,omitempty"`
	Message string     `json:"message,omitempty"`
	// Details is a free-form bag for fields not promoted to columns
	// (e.g. bank_name, account_number for the contributions section).
	Details map[string]string `json:"details,omitempty"`

	CoverImageURL string   `json:"cover_image_url,omitempty"`
	GalleryImages []string `json:"gallery_images"`

	RSVPEnabled          bool `json:"rsvp_enabled"`
	ContributionsEnabled bool `json:"contributions_enabled"`

	Customization Customization `json:"customization"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Published reports whether the event is live at a public URL.
func (e *Event) Published() bool {
	return e.PublicSlug != ""
}

// EventUpdate carries a partial update of an event's detail fields. Nil
// pointers leave the field untouched; Details entries are merged into the
// existing bag. Array-valued fields (gallery) are NOT updatable through
// this struct: gallery writes go through read-modify-write operations that
// always persist the full current array.
type EventUpdate struct {
	Name                 *string
	Date                 *time.Time
	Venue                *string
	Message              *string
	Details              map[string]string
	RSVPEnabled          *bool
	ContributionsEnabled *bool
}

// EventRepository defines the interface for event storage.
// Update persists the full mutable record including whole array-valued
// fields; partial array writes are the one documented way to lose a
// concurrent editor's uploads and are deliberately not expressible here.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetByPublicSlug(ctx context.Context, slug string) (*Event, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	// SetPublicSlug assigns the public identifier. Fails with ErrInvalidInput
	// if the slug is already taken by another event.
	SetPublicSlug(ctx context.Context, id, slug string) error
	Delete(ctx context.Context, id string) error
}

// EventService defines host-facing event operations. All operations verify
// ownership and return ErrForbidden for callers other than the owner.
type EventService interface {
	CreateDraft(ctx context.Context, ownerID string, eventType EventType, templateID string) (*Event, error)
	GetEvent(ctx context.Context, eventID, callerID string) (*Event, error)
	ListMyEvents(ctx context.Context, ownerID string) ([]*Event, error)
	UpdateDetails(ctx context.Context, eventID, callerID string, upd EventUpdate) (*Event, error)
	UpdateCustomization(ctx context.Context, eventID, callerID string, c Customization) (*Event, error)
	AddGalleryImages(ctx context.Context, eventID, callerID string, urls []string) (*Event, error)
	RemoveGalleryImage(ctx context.Context, eventID, callerID string, url string) (*Event, error)
	SetCoverImage(ctx context.Context, eventID, callerID string, url string) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, callerID string) error
}
