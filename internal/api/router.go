package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"github.com/campushire/backend/internal/api/handlers"
	mw "github.com/campushire/backend/internal/api/middleware"
	"github.com/campushire/backend/internal/models"
	"github.com/campushire/backend/internal/repository"
)

type Dependencies struct {
	HMACSecret []byte
	Production bool
	DB         *gorm.DB
	UserRepo   repository.UserRepository

	AuthHandler         *handlers.AuthHandler
	UsersHandler        *handlers.UsersHandler
	JobsHandler         *handlers.JobsHandler
	ApplicationsHandler *handlers.ApplicationsHandler
	MessagesHandler     *handlers.MessagesHandler
	ExternalJobsHandler *handlers.ExternalJobsHandler
}

func NewRouter(dep Dependencies) http.Handler {
	handlers.SetProduction(dep.Production)

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(10, 20))
	r.Use(chimid.Compress(5))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":{"code":"not_found","message":"route not found"}}`))
	})

	hh := handlers.NewHealthHandler(dep.DB)
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	auth := mw.Auth(dep.HMACSecret, dep.UserRepo)
	student := mw.RequireRole(models.RoleStudent)
	recruiter := mw.RequireRole(models.RoleRecruiter)
	admin := mw.RequireRole(models.RoleAdmin)
	recruiterOrAdmin := mw.RequireRole(models.RoleRecruiter, models.RoleAdmin)

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", dep.AuthHandler.Register)
			ar.Post("/login", dep.AuthHandler.Login)
			ar.Post("/google", dep.AuthHandler.Google)
			ar.With(auth).Get("/me", dep.AuthHandler.Me)
		})

		// External listings are public; students browse before signing in.
		api.Route("/external-jobs", func(er chi.Router) {
			er.Get("/", dep.ExternalJobsHandler.List)
			er.Get("/categories", dep.ExternalJobsHandler.Categories)
			er.Get("/locations", dep.ExternalJobsHandler.PopularLocations)
			er.Post("/search", dep.ExternalJobsHandler.Search)
			er.Get("/{jobId}", dep.ExternalJobsHandler.Detail)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(auth)

			protected.Route("/users", func(ur chi.Router) {
				ur.With(admin).Get("/", dep.UsersHandler.List)
				ur.With(admin).Get("/role/{role}", dep.UsersHandler.ListByRole)
				ur.Get("/for-messaging", dep.UsersHandler.ListForMessaging)
				ur.Put("/profile", dep.UsersHandler.UpdateProfile)
				ur.Put("/notifications", dep.UsersHandler.UpdateNotifications)
				ur.Put("/privacy", dep.UsersHandler.UpdatePrivacy)
				ur.Put("/password", dep.UsersHandler.ChangePassword)
				ur.Delete("/account", dep.UsersHandler.DeleteOwnAccount)
				ur.With(admin).Patch("/approve-recruiter/{id}", dep.UsersHandler.ApproveRecruiter)
				ur.Get("/{id}", dep.UsersHandler.Get)
				ur.With(admin).Delete("/{id}", dep.UsersHandler.DeleteAccount)
			})

			protected.Route("/jobs", func(jr chi.Router) {
				jr.Get("/", dep.JobsHandler.List)
				jr.With(recruiter).Post("/", dep.JobsHandler.Create)
				jr.With(recruiter).Get("/recruiter", dep.JobsHandler.List)
				jr.With(recruiterOrAdmin).Patch("/close/{id}", dep.JobsHandler.Close)
				jr.With(admin).Patch("/approve/{id}", dep.JobsHandler.Approve)
				jr.Get("/{id}", dep.JobsHandler.Get)
				jr.With(recruiter).Patch("/{id}", dep.JobsHandler.Update)
				jr.With(recruiterOrAdmin).Delete("/{id}", dep.JobsHandler.Delete)
			})

			protected.Route("/applications", func(ar chi.Router) {
				ar.With(admin).Get("/", dep.ApplicationsHandler.ListAll)
				ar.With(student).Post("/apply", dep.ApplicationsHandler.Submit)
				ar.With(student).Get("/my-applications", dep.ApplicationsHandler.ListMine)
				ar.With(recruiterOrAdmin).Get("/job/{jobId}", dep.ApplicationsHandler.ListForJob)
				ar.With(recruiterOrAdmin).Patch("/{id}/status", dep.ApplicationsHandler.UpdateStatus)
				ar.With(student).Delete("/{id}", dep.ApplicationsHandler.Withdraw)
			})

			protected.Route("/messages", func(mr chi.Router) {
				mr.Post("/", dep.MessagesHandler.Send)
				mr.Get("/", dep.MessagesHandler.List)
				mr.Get("/unread-count", dep.MessagesHandler.UnreadCount)
				mr.Get("/conversation/{userId}", dep.MessagesHandler.Conversation)
				mr.Put("/{id}/read", dep.MessagesHandler.MarkRead)
				mr.Delete("/{id}", dep.MessagesHandler.Delete)
			})
		})
	})

	return r
}
