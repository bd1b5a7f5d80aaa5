package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/menu-cart/internal/cart-service/infra/httpx/middlewares"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.AttachRequestContext)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/menu", handler.Menu)

	r.Post("/sessions", handler.CreateSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Delete("/", handler.EndSession)
		r.Get("/cart", handler.GetCart)
		r.Post("/items", handler.AddItem)
		r.Post("/customization", handler.SubmitCustomization)
		r.Delete("/customization", handler.CancelCustomization)
		r.Post("/quantity", handler.ChangeQuantity)
		r.Post("/checkout", handler.Checkout)
		r.Post("/confirm", handler.ConfirmOrder)
		r.Get("/dispatches/latest", handler.LatestDispatch)
	})

	return otelhttp.NewHandler(r, "cart-service",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
