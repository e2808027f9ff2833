package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"micrositebuilder/internal/delivery/http/controllers"
	"micrositebuilder/internal/delivery/http/middleware"
	"micrositebuilder/internal/domain"
)

// Controllers bundles everything the router mounts.
type Controllers struct {
	Auth     *controllers.AuthController
	Template *controllers.TemplateController
	Event    *controllers.EventController
	Publish  *controllers.PublishController
	Purchase *controllers.PurchaseController
	Site     *controllers.SiteController
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("GET /auth/me", auth(c.Auth.Me))

	// Template catalog (public)
	mux.HandleFunc("GET /templates", c.Template.ListTemplates)
	mux.HandleFunc("GET /templates/{slug}", c.Template.GetTemplate)

	// Events
	mux.HandleFunc("POST /events", auth(c.Event.CreateEvent))
	mux.HandleFunc("GET /events/me", auth(c.Event.ListMyEvents))
	mux.HandleFunc("GET /events/{eventID}", auth(c.Event.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}", auth(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(c.Event.DeleteEvent))
	mux.HandleFunc("PUT /events/{eventID}/customization", auth(c.Event.UpdateCustomization))
	mux.HandleFunc("POST /events/{eventID}/gallery", auth(c.Event.AddGalleryImages))
	mux.HandleFunc("DELETE /events/{eventID}/gallery", auth(c.Event.RemoveGalleryImage))
	mux.HandleFunc("PUT /events/{eventID}/cover", auth(c.Event.SetCoverImage))

	// Publishing workflow
	mux.HandleFunc("GET /events/{eventID}/publish/step", auth(c.Publish.CurrentStep))
	mux.HandleFunc("PUT /events/{eventID}/publish/details", auth(c.Publish.SaveDetails))
	mux.HandleFunc("POST /events/{eventID}/publish/photos", auth(c.Publish.SubmitPhotos))
	mux.HandleFunc("POST /events/{eventID}/publish/complete", auth(c.Publish.CompletePayment))

	// Purchases
	mux.HandleFunc("POST /purchases/checkout", auth(c.Purchase.InitializeCheckout))
	mux.HandleFunc("POST /purchases/verify", auth(c.Purchase.VerifyPayment))
	mux.HandleFunc("GET /purchases/me", auth(c.Purchase.ListMyPurchases))

	// Public sites and owner preview
	mux.HandleFunc("GET /sites/{slug}", c.Site.PublicSite)
	mux.HandleFunc("GET /events/{eventID}/preview", auth(c.Site.Preview))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
