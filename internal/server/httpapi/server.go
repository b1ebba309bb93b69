// Package httpapi exposes the services over a JSON REST surface. Handlers
// stay thin: decode, call the service, translate the sentinel error. All
// authorization decisions live in the services; the middleware only resolves
// who is calling.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/oullim/market/internal/logging"
	"github.com/oullim/market/internal/server/config"
	"github.com/oullim/market/internal/server/services"
)

// Server wires the services into an HTTP endpoint.
type Server struct {
	addr      string
	jwtSecret []byte
	logger    logging.Logger

	users      *services.UserService
	sellers    *services.SellerService
	deliveries *services.DeliveryService
	bills      *services.BillService
	cart       *services.CartService
	images     *services.ImageService

	httpServer *http.Server
}

// Services groups the dependencies handed to NewServer.
type Services struct {
	Users      *services.UserService
	Sellers    *services.SellerService
	Deliveries *services.DeliveryService
	Bills      *services.BillService
	Cart       *services.CartService
	Images     *services.ImageService
}

func NewServer(cfg *config.Config, svcs Services, logger logging.Logger) *Server {
	s := &Server{
		addr:       cfg.EndpointAddr,
		jwtSecret:  []byte(cfg.JWTSecret),
		logger:     logger,
		users:      svcs.Users,
		sellers:    svcs.Sellers,
		deliveries: svcs.Deliveries,
		bills:      svcs.Bills,
		cart:       svcs.Cart,
		images:     svcs.Images,
	}
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", s.handleSignup)
		r.Post("/users/activate", s.handleActivate)
		r.Post("/users/auth-code", s.handleIssueCode)
		r.Post("/users/reset-password", s.handleResetPassword)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/users/me", s.handleGetProfile)
			r.Patch("/users/me", s.handleUpdateProfile)
			r.Delete("/users/me", s.handleDeactivate)

			r.Get("/deliveries", s.handleListDeliveries)
			r.Post("/deliveries", s.handleCreateDelivery)
			r.Put("/deliveries/{id}", s.handleUpdateDelivery)
			r.Delete("/deliveries/{id}", s.handleDeleteDelivery)

			r.Post("/sellers", s.handleSellerApply)
			r.Get("/sellers/me", s.handleSellerGet)
			r.Patch("/sellers/me", s.handleSellerUpdate)
			r.Delete("/sellers/me", s.handleSellerDelete)
			r.Post("/sellers/{userID}/approve", s.handleSellerApprove)
			r.Post("/sellers/{userID}/reject", s.handleSellerReject)

			r.Get("/bills", s.handleListBills)
			r.Post("/bills", s.handleCheckout)
			r.Get("/bills/{id}", s.handleGetBill)
			r.Get("/bills/{id}/summary", s.handleBillSummary)
			r.Post("/bills/{id}/pay", s.handleMarkPaid)
			r.Patch("/order-items/{id}/status", s.handleAdvanceStatus)

			r.Get("/cart", s.handleListCart)
			r.Post("/cart", s.handleAddToCart)
			r.Patch("/cart/{id}", s.handleUpdateCartAmount)
			r.Delete("/cart/{id}", s.handleRemoveFromCart)

			r.Post("/images/upload-url", s.handleImageUploadURL)
			r.Get("/images/download-url", s.handleImageDownloadURL)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server starting", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info(ctx, "http server shutting down")
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
