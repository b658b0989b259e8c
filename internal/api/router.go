package api

import (
	"fitvoice/internal/auth"
	"fitvoice/internal/config"
	"fitvoice/internal/conversation"
	"fitvoice/internal/plan"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Deps bundles the services the handlers need. Nil members disable the
// routes they back, which keeps router tests light.
type Deps struct {
	Engine   *conversation.Engine
	Answerer conversation.Answerer
	Ingester Ingester
	Plans    *plan.Generator
}

func SetupRouter(cfg *config.Config, rdb *redis.Client, deps Deps) *gin.Engine {
	r := gin.Default()
	subpath := cfg.Server.Subpath // e.g. "/fitvoice" or any custom path, always starts with '/'

	group := r.Group(subpath)
	{
		group.GET("/health", healthHandler)
		group.GET("/config", configHandler(cfg))

		// Setup: only if no users
		group.POST("/setup", SetupHandler())

		// Auth
		group.POST("/auth/login", LoginHandler(cfg, rdb))
		group.POST("/auth/logout", auth.AuthMiddleware(cfg, rdb, false), LogoutHandler(rdb))
		group.GET("/auth/me", auth.AuthMiddleware(cfg, rdb, false), MeHandler())

		// Admin: users
		group.GET("/users", auth.AuthMiddleware(cfg, rdb, true), ListUsersHandler())
		group.POST("/users", auth.AuthMiddleware(cfg, rdb, true), CreateUserHandler())

		// User self-service
		group.GET("/users/me", auth.AuthMiddleware(cfg, rdb, false), GetMeHandler())
		group.PUT("/users/me", auth.AuthMiddleware(cfg, rdb, false), UpdateMeHandler())
		group.DELETE("/users/me", auth.AuthMiddleware(cfg, rdb, false), DeleteMeHandler())

		// Admin: user by id
		group.GET("/users/:id", auth.AuthMiddleware(cfg, rdb, true), GetUserByIdHandler())
		group.PUT("/users/:id", auth.AuthMiddleware(cfg, rdb, true), UpdateUserByIdHandler())
		group.DELETE("/users/:id", auth.AuthMiddleware(cfg, rdb, true), DeleteUserByIdHandler())

		// --- Online users count ---
		group.GET("/users/online", OnlineUserCountHandler(rdb))

		// --- Conversational assistant ---
		if deps.Engine != nil {
			group.POST("/assistant/converse", auth.AuthMiddleware(cfg, rdb, false), ConverseHandler(deps.Engine))
			group.POST("/assistant/reset", auth.AuthMiddleware(cfg, rdb, false), ResetConversationHandler(deps.Engine))
			group.GET("/assistant/answers", auth.AuthMiddleware(cfg, rdb, false), AnswersHandler(deps.Engine))
			group.GET("/ws/assistant", WSAssistantHandler(cfg, deps.Engine))
		}

		// --- Knowledge base ---
		if deps.Answerer != nil {
			group.POST("/knowledge/query", auth.AuthMiddleware(cfg, rdb, false), KnowledgeQueryHandler(deps.Answerer))
		}
		if deps.Ingester != nil {
			group.POST("/knowledge/ingest", auth.AuthMiddleware(cfg, rdb, true), KnowledgeIngestHandler(deps.Ingester))
		}

		// --- Plans and feedback ---
		if deps.Plans != nil {
			group.GET("/plans", auth.AuthMiddleware(cfg, rdb, false), ListPlansHandler(deps.Plans))
		}
		group.POST("/feedback", auth.AuthMiddleware(cfg, rdb, false), CreateFeedbackHandler())
		group.GET("/feedback", auth.AuthMiddleware(cfg, rdb, true), ListFeedbackHandler())
	}
	return r
}
