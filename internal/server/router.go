package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"concertfever-storefront/internal/config"
	"concertfever-storefront/internal/handlers"
	"concertfever-storefront/internal/middleware"
	"concertfever-storefront/internal/services"
)

// Dependencies is everything the router wires together
type Dependencies struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Backend  services.Backend
	Sessions *services.SessionService
	Carts    services.CartStorage

	// StaticDir and AssetsDir default to web/static and web/assets.
	StaticDir string
	AssetsDir string
}

// Router is the storefront http.Handler plus the resources it owns
type Router struct {
	chi.Router
	limiter *middleware.LoginRateLimiter
}

// Close stops background work started by the router.
func (rt *Router) Close() {
	rt.limiter.Stop()
}

// NewRouter builds the services, handlers and routes of the storefront
func NewRouter(deps Dependencies) *Router {
	cfg := deps.Config
	logger := deps.Logger

	// Services
	carts := services.NewCartService(deps.Carts, deps.Sessions, logger)
	events := services.NewEventService(deps.Backend, logger)
	checkout := services.NewCheckoutService(deps.Backend, carts, deps.Sessions, cfg.Store.PromoCouponID, logger)
	tickets := services.NewTicketService(deps.Backend, cfg.Store.QRServiceURL)
	auth := services.NewAuthService(deps.Backend, cfg.Store.SignupBalance, logger)
	users := services.NewUserService(deps.Backend)

	// Handlers
	renderer := handlers.NewRenderer(deps.Sessions, logger)
	publicHandler := handlers.NewPublicHandler(renderer, events)
	cartHandler := handlers.NewCartHandler(renderer, events, carts, checkout)
	authHandler := handlers.NewAuthHandler(renderer, auth, carts)
	profileHandler := handlers.NewProfileHandler(renderer, users)
	ticketHandler := handlers.NewTicketHandler(renderer, tickets)

	// Middleware
	sessionMiddleware := middleware.NewSessionMiddleware(carts)
	csrfMiddleware := middleware.NewCSRFMiddleware(deps.Sessions, logger)
	limiter := middleware.NewLoginRateLimiter(cfg.Security.LoginMaxAttempts, cfg.Security.LoginWindow)

	// Page middleware runs for every rendered page, including the 404 page
	pageChain := chi.Chain(
		sessionMiddleware.LoadSession,
		middleware.RequestLogger(logger),
		csrfMiddleware.EnsureCSRFToken,
		csrfMiddleware.CSRFProtection,
	)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if cfg.Server.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.ErrorHandlingMiddleware(logger))
	r.Use(middleware.SecureHeaders)

	r.NotFound(pageChain.HandlerFunc(publicHandler.NotFound).ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

	staticDir := deps.StaticDir
	if staticDir == "" {
		staticDir = "web/static"
	}
	assetsDir := deps.AssetsDir
	if assetsDir == "" {
		assetsDir = "web/assets"
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(assetsDir))))

	r.Get("/health", handlers.Health(cfg.Backend.Mode))

	r.Group(func(r chi.Router) {
		r.Use(pageChain...)

		// Public routes
		r.Get("/", publicHandler.HomePage)
		r.Get("/events", publicHandler.EventsPage)
		r.Get("/eventdetails/{eventId}", publicHandler.EventDetailsPage)
		r.Post("/eventdetails/{eventId}/pricing", publicHandler.UpdatePricing)
		r.Post("/eventdetails/{eventId}/cart", cartHandler.AddToCart)

		// Cart routes
		r.Get("/cart", cartHandler.CartPage)
		r.Post("/cart/remove", cartHandler.RemoveItem)
		r.Post("/cart/clear", cartHandler.ClearCart)

		// Auth routes
		r.Get("/signin", authHandler.SignInPage)
		r.With(middleware.LoginRateLimit(limiter)).Post("/signin", authHandler.SignIn)
		r.Get("/signup", authHandler.SignUpPage)
		r.Post("/signup", authHandler.SignUp)
		r.Get("/forgotpassword", authHandler.ForgotPasswordPage)
		r.Post("/forgotpassword", authHandler.ForgotPassword)
		r.Post("/logout", authHandler.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireLogin)

			r.Get("/checkout", cartHandler.CheckoutPage)
			r.Post("/checkout", cartHandler.Checkout)
			r.Get("/mytickets", ticketHandler.MyTickets)
			r.Get("/myprofile", profileHandler.ProfilePage)
			r.Post("/myprofile/topup", profileHandler.TopUp)
			r.Post("/myprofile/password", profileHandler.ChangePassword)
		})
	})

	return &Router{Router: r, limiter: limiter}
}
