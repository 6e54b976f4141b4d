package router

import (
	"net/http"

	"github.com/optimald/medequiptech/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// InitRoutes собирает маршруты приложения.
func InitRoutes(jobHandler *handlers.JobHandler, bidHandler *handlers.BidHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", handlers.PingHandler)

		r.Post("/jobs", jobHandler.CreateJob)
		r.Get("/jobs/{jobID}", jobHandler.GetJobSummary)
		r.Post("/jobs/{jobID}/cancel", jobHandler.CancelJob)
		r.Post("/jobs/{jobID}/award", jobHandler.AwardJob)
		r.Put("/jobs/{jobID}/status", jobHandler.UpdateJobStatus)

		r.Post("/jobs/{jobID}/bids", bidHandler.CreateBid)
		r.Get("/jobs/{jobID}/bids", bidHandler.GetJobBids)
		r.Post("/bids/{bidID}/withdraw", bidHandler.WithdrawBid)

		r.Get("/users/{userID}/bids", bidHandler.GetUserBids)
		r.Get("/users/{userID}/jobs", jobHandler.GetUserAwardedJobs)
	})

	return r
}
