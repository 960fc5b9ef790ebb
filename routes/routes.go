package routes

import (
	"github.com/gofiber/fiber/v2"

	"planhub-backend/controllers"
	"planhub-backend/middlewares"
)

// Register wires all HTTP routes.
//
// Middleware order on protected routes: auth, then Idempotency (own short
// transactions, not tied to the request TX), then for mutating membership
// routes the persisted rate limiter (a deny must short-circuit before any
// request transaction opens, and its counter increment survives a later
// handler rollback), then Tx wrapping the handler so mutation and audit row
// commit or roll back together. Reads run on plain sessions.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())
	protected.Use(middlewares.Idempotency())

	tx := middlewares.Tx()

	// Projects
	protected.Post("/projects", tx, controllers.CreateProject)
	protected.Get("/projects", controllers.GetProjects)
	protected.Get("/projects/:id", controllers.GetProject)
	protected.Patch("/projects/:id", tx, controllers.UpdateProject)

	// Tasks
	protected.Post("/projects/:id/tasks", tx, controllers.CreateTask)
	protected.Get("/projects/:id/tasks", controllers.GetTasks)
	protected.Patch("/projects/:id/tasks/:taskId", tx, controllers.UpdateTask)
	protected.Delete("/projects/:id/tasks/:taskId", tx, controllers.DeleteTask)

	// Materials
	protected.Post("/projects/:id/materials", tx, controllers.CreateMaterial)
	protected.Get("/projects/:id/materials", controllers.GetMaterials)
	protected.Delete("/projects/:id/materials/:materialId", tx, controllers.DeleteMaterial)

	// Membership lifecycle. Each mutating endpoint carries its own persisted
	// rate limit keyed by (user, endpoint, project).
	protected.Get("/projects/:id/members", controllers.ListMembers)
	protected.Post("/projects/:id/members/invite",
		middlewares.RateLimit("POST /projects/:id/members/invite"),
		tx, controllers.InviteMember)
	protected.Patch("/projects/:id/members/:memberId/role",
		middlewares.RateLimit("PATCH /projects/:id/members/:memberId/role"),
		tx, controllers.ChangeMemberRole)
	protected.Delete("/projects/:id/members/:memberId",
		middlewares.RateLimit("DELETE /projects/:id/members/:memberId"),
		tx, controllers.RemoveMember)

	// Invitations addressed to the signed-in user
	protected.Get("/invitations", controllers.ListMyInvitations)
	protected.Post("/invitations/:id/accept",
		middlewares.RateLimit("POST /invitations/:id/accept"),
		tx, controllers.AcceptInvitation)
	protected.Post("/invitations/:id/decline",
		middlewares.RateLimit("POST /invitations/:id/decline"),
		tx, controllers.DeclineInvitation)

	// Audit trail (owner/admin only)
	protected.Get("/projects/:id/audit", controllers.GetAuditLogs)
}
