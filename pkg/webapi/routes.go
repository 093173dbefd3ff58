package webapi

import (
	"github.com/labstack/echo/v4"
	"github.com/teamup-uiuc/teamup/pkg/matching"
	"github.com/teamup-uiuc/teamup/pkg/notify"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/stor"
	"github.com/teamup-uiuc/teamup/pkg/webapi/apimiddleware"
	"gorm.io/gorm"
)

type RouteOpts struct {
	DB        *gorm.DB
	Service   *matching.Service
	Hub       *notify.Hub
	UserCache *apimiddleware.UserCache
	RefStor   stor.ReferenceStor
}

func SetupRoutes(e *echo.Echo, opts RouteOpts) {
	healthController := NewHealthController(opts.DB)
	e.GET("/api/health", healthController.Health)

	logController := NewLogController()
	admin := e.Group("/admin")
	admin.GET("/logging", logController.ShowCurrentLogging)
	admin.PUT("/logging", logController.SetLogging)

	g := e.Group("/api", apimiddleware.ActingUser(apimiddleware.ActingUserConfig{
		GetUserByID: opts.UserCache.GetUserByID,
	}))

	postsController := NewPostsController(opts.Service)
	g.POST("/posts", postsController.CreatePost)
	g.GET("/posts/:id", postsController.GetPost)
	g.PUT("/posts/:id", postsController.UpdatePost)
	g.DELETE("/posts/:id", postsController.DeletePost)
	g.GET("/users/:id/posts", postsController.ListUserPosts)

	commentsController := NewCommentsController(opts.Service)
	g.GET("/posts/:id/comments", commentsController.ListComments)
	g.POST("/posts/:id/comments", commentsController.CreateComment)
	g.PUT("/posts/:id/comments/:comment_id", commentsController.UpdateComment)
	g.DELETE("/posts/:id/comments/:comment_id", commentsController.DeleteComment)

	requestsController := NewRequestsController(opts.Service)
	g.POST("/requests", requestsController.CreateRequest)
	g.PUT("/requests/:id/accept", requestsController.AcceptRequest)
	g.PUT("/requests/:id/reject", requestsController.RejectRequest)
	g.PUT("/requests/:id/withdraw", requestsController.WithdrawRequest)
	g.PUT("/users/:id/requests/:request_id/accept", requestsController.AcceptRequest)
	g.PUT("/users/:id/requests/:request_id/reject", requestsController.RejectRequest)
	g.GET("/users/:id/match-requests", requestsController.ListSent)
	g.GET("/users/:id/received-requests", requestsController.ListReceived)

	teamsController := NewTeamsController(opts.Service)
	g.GET("/teams/:id", teamsController.GetTeam)
	g.DELETE("/teams/:id/members/:user_id", teamsController.RemoveMember)
	g.GET("/users/:id/teams", teamsController.ListUserTeams)

	referenceController := NewReferenceController(opts.RefStor)
	g.GET("/terms", referenceController.ListTerms)
	g.GET("/courses/:id/sections", referenceController.ListSections)
	g.GET("/skills", referenceController.ListSkills)

	notificationsController := NewNotificationsController(opts.Hub)
	g.GET("/notifications/sse", notificationsController.StreamSSE)
	g.GET("/notifications/ws", notificationsController.StreamWebSocket)
}
