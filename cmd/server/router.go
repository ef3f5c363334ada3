package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stackit/stackit-api/internal/api"
	apimiddleware "github.com/stackit/stackit-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)

	authHandler := api.NewAuthHandler(app.userService, app.jwtService)
	communityHandler := api.NewCommunityHandler(app.membershipService)
	inviteHandler := api.NewInviteHandler(app.membershipService)
	questionHandler := api.NewQuestionHandler(app.engagementService, app.draftService)
	answerHandler := api.NewAnswerHandler(app.engagementService)
	journalHandler := api.NewJournalHandler(app.journalService)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Everything else requires an authenticated actor.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/users/me", authHandler.Me)

			// Communities and membership
			r.Post("/communities", communityHandler.CreateCommunity)
			r.Post("/communities/join", communityHandler.JoinByCode)
			r.Route("/communities/{communityID}", func(r chi.Router) {
				r.Get("/", communityHandler.GetCommunity)
				r.Post("/leave", communityHandler.Leave)
				r.Get("/members", communityHandler.ListMembers)
				r.Get("/mentors", communityHandler.ListMentors)
				r.Post("/mentors", communityHandler.PromoteMentor)
				r.Delete("/mentors/{userID}", communityHandler.DemoteMentor)
				r.Post("/join-requests", communityHandler.RequestJoin)
				r.Get("/join-requests", communityHandler.ListJoinRequests)
				r.Post("/join-requests/{requestID}/review", communityHandler.ReviewJoinRequest)
				r.Post("/invites", communityHandler.Invite)
				r.Post("/questions", questionHandler.AskQuestion)
				r.Get("/questions", questionHandler.ListQuestions)
			})

			// Invites addressed to the authenticated user
			r.Get("/invites", inviteHandler.ListInvites)
			r.Post("/invites/{inviteID}/accept", inviteHandler.AcceptInvite)
			r.Post("/invites/{inviteID}/decline", inviteHandler.DeclineInvite)

			// Questions and answers
			r.Post("/questions/improve-draft", questionHandler.ImproveDraft)
			r.Get("/questions/{questionID}", questionHandler.GetQuestion)
			r.Get("/questions/{questionID}/answers", questionHandler.ListAnswers)
			r.Post("/questions/{questionID}/answers", answerHandler.SubmitAnswer)
			r.Post("/answers/{answerID}/vote", answerHandler.Vote)
			r.Post("/answers/{answerID}/accept", answerHandler.AcceptAnswer)
			r.Post("/answers/{answerID}/verify", answerHandler.VerifyAnswer)

			// Learning journal
			r.Get("/journal", journalHandler.ListEntries)
			r.Get("/journal/summary", journalHandler.Summary)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
