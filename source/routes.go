package main

import (
	"crm/source/entities/auth"
	"crm/source/entities/board"
	"crm/source/entities/clients"
	"crm/source/entities/funnels"
	"crm/source/entities/leads"
	"crm/source/entities/origins"
	"crm/source/entities/report"
	"crm/source/entities/settings"
	"crm/source/entities/users"
	"crm/source/entities/webhooks"
	"crm/source/middlewares"
	"crm/source/utils"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

type handlers struct {
	tokens   *middlewares.TokenIssuer
	auth     *auth.Handler
	users    *users.Handler
	clients  *clients.Handler
	funnels  *funnels.Handler
	leads    *leads.Handler
	webhooks *webhooks.Handler
	origins  *origins.Handler
	settings *settings.Handler
	board    *board.Handler
	report   *report.Handler
}

func newRouter(h handlers, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	authed := middlewares.Auth(h.tokens)
	user := func(fn http.HandlerFunc) http.Handler { return authed(fn) }
	admin := func(fn http.HandlerFunc) http.Handler { return authed(middlewares.RequireAdmin(fn)) }
	notAllowed := http.HandlerFunc(utils.MethodNotAllowed)

	mux.Handle("POST /v1/auth", http.HandlerFunc(h.auth.Login))
	mux.Handle("GET /v1/auth", user(h.auth.Me))
	mux.Handle("/v1/auth", notAllowed)
	mux.Handle("PUT /v1/auth/password", user(h.auth.UpdatePassword))
	mux.Handle("/v1/auth/password", notAllowed)

	mux.Handle("GET /v1/users", admin(h.users.GetAll))
	mux.Handle("POST /v1/users", admin(h.users.CreateOne))
	mux.Handle("/v1/users", notAllowed)
	mux.Handle("GET /v1/users/{id}", admin(h.users.GetOne))
	mux.Handle("PUT /v1/users/{id}", admin(h.users.UpdateOne))
	mux.Handle("DELETE /v1/users/{id}", admin(h.users.DeleteOne))
	mux.Handle("/v1/users/{id}", notAllowed)

	mux.Handle("GET /v1/clients", admin(h.clients.GetAll))
	mux.Handle("POST /v1/clients", admin(h.clients.CreateOne))
	mux.Handle("/v1/clients", notAllowed)
	mux.Handle("GET /v1/clients/{id}", admin(h.clients.GetOne))
	mux.Handle("PUT /v1/clients/{id}", admin(h.clients.UpdateOne))
	mux.Handle("DELETE /v1/clients/{id}", admin(h.clients.DeleteOne))
	mux.Handle("/v1/clients/{id}", notAllowed)

	mux.Handle("GET /v1/funnels", user(h.funnels.GetAll))
	mux.Handle("POST /v1/funnels", admin(h.funnels.CreateOne))
	mux.Handle("/v1/funnels", notAllowed)
	mux.Handle("GET /v1/funnels/{id}", user(h.funnels.GetOne))
	mux.Handle("PUT /v1/funnels/{id}", admin(h.funnels.UpdateOne))
	mux.Handle("DELETE /v1/funnels/{id}", admin(h.funnels.DeleteOne))
	mux.Handle("/v1/funnels/{id}", notAllowed)

	mux.Handle("GET /v1/leads", user(h.leads.GetAll))
	mux.Handle("POST /v1/leads", user(h.leads.CreateOne))
	mux.Handle("/v1/leads", notAllowed)
	mux.Handle("GET /v1/leads/{id}", user(h.leads.GetOne))
	mux.Handle("PUT /v1/leads/{id}", user(h.leads.UpdateOne))
	mux.Handle("DELETE /v1/leads/{id}", user(h.leads.DeleteOne))
	mux.Handle("/v1/leads/{id}", notAllowed)
	mux.Handle("PUT /v1/leads/{id}/stage", user(h.leads.UpdateOneStage))
	mux.Handle("/v1/leads/{id}/stage", notAllowed)
	mux.Handle("GET /v1/leads/{id}/history", user(h.leads.GetHistory))
	mux.Handle("/v1/leads/{id}/history", notAllowed)

	mux.Handle("GET /v1/webhooks", user(h.webhooks.GetAll))
	mux.Handle("POST /v1/webhooks", user(h.webhooks.CreateOne))
	mux.Handle("/v1/webhooks", notAllowed)
	mux.Handle("GET /v1/webhooks/{id}", user(h.webhooks.GetOne))
	mux.Handle("PUT /v1/webhooks/{id}", user(h.webhooks.UpdateOne))
	mux.Handle("DELETE /v1/webhooks/{id}", user(h.webhooks.DeleteOne))
	mux.Handle("/v1/webhooks/{id}", notAllowed)
	mux.Handle("POST /v1/webhooks/{id}/test", user(h.webhooks.TestOne))
	mux.Handle("/v1/webhooks/{id}/test", notAllowed)
	mux.Handle("GET /v1/webhooks/{id}/logs", user(h.webhooks.GetLogs))
	mux.Handle("/v1/webhooks/{id}/logs", notAllowed)

	mux.Handle("GET /v1/origins", user(h.origins.GetAll))
	mux.Handle("POST /v1/origins", user(h.origins.CreateOne))
	mux.Handle("/v1/origins", notAllowed)
	mux.Handle("PUT /v1/origins/{id}", user(h.origins.UpdateOne))
	mux.Handle("DELETE /v1/origins/{id}", user(h.origins.DeleteOne))
	mux.Handle("/v1/origins/{id}", notAllowed)

	mux.Handle("GET /v1/settings", user(h.settings.Get))
	mux.Handle("PUT /v1/settings", admin(h.settings.Update))
	mux.Handle("/v1/settings", notAllowed)

	mux.Handle("GET /v1/reports", user(h.report.GetByQuery))
	mux.Handle("/v1/reports", notAllowed)

	mux.HandleFunc("GET /v1/ws/board", h.board.Connect)

	var handler http.Handler = mux
	handler = middlewares.Cors(allowedOrigins)(handler)
	handler = middlewares.SecurityHeaders(handler)
	handler = middleware.Recoverer(handler)
	handler = middlewares.RequestLogger(utils.Log)(handler)
	handler = middleware.RealIP(handler)
	handler = middleware.RequestID(handler)
	return handler
}
