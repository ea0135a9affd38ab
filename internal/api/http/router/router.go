// Package router assembles the HTTP routes of the shopping list API.
package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/dtroode/shoplist-server/internal/api/http/handler"
	"github.com/dtroode/shoplist-server/internal/api/http/middleware"
	"github.com/dtroode/shoplist-server/internal/logger"
	"github.com/dtroode/shoplist-server/internal/model"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	authService    handler.AuthService
	listService    handler.ListService
	itemService    handler.ItemService
	tokenService   middleware.TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	authService handler.AuthService,
	listService handler.ListService,
	itemService handler.ItemService,
	tokenService middleware.TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		listService:    listService,
		itemService:    itemService,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register builds the route tree. Everything under /api/v1/lists requires a
// bearer token; the auth endpoints do not.
func (rt *Router) Register() *chi.Mux {
	authHandler := handler.NewAuth(rt.authService, rt.logger)
	listHandler := handler.NewList(rt.listService, rt.contextManager, rt.logger)
	itemHandler := handler.NewItem(rt.itemService, rt.contextManager, rt.logger)

	authenticate := middleware.NewAuthenticate(rt.tokenService, rt.contextManager, rt.logger)
	logging := middleware.NewLogging(rt.logger)

	r := chi.NewRouter()
	r.Use(logging.Handle)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})

		r.Route("/lists", func(r chi.Router) {
			r.Use(authenticate.Handle)

			r.Get("/", listHandler.ListLists)
			r.Post("/", listHandler.CreateList)

			r.Route("/{listID}", func(r chi.Router) {
				r.Get("/", listHandler.GetList)
				r.Patch("/", listHandler.UpdateList)
				r.Delete("/", listHandler.DeleteList)

				r.Post("/share", listHandler.ShareList)
				r.Post("/unshare", listHandler.UnshareList)
				r.Post("/leave", listHandler.LeaveList)

				r.Route("/items", func(r chi.Router) {
					r.Get("/", itemHandler.ListItems)
					r.Post("/", itemHandler.CreateItem)

					r.Route("/{itemID}", func(r chi.Router) {
						r.Get("/", itemHandler.GetItem)
						r.Patch("/", itemHandler.UpdateItem)
						r.Delete("/", itemHandler.DeleteItem)
						r.Put("/image", itemHandler.UploadItemImage)
						r.Get("/image", itemHandler.GetItemImage)
					})
				})
			})
		})
	})

	return r
}
