package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// authentication
	router.HandlerFunc(http.MethodPost, "/v1/admin/login", app.loginAdminHandler)
	router.HandlerFunc(http.MethodPost, "/v1/admin/register", app.registerAdminHandler)
	router.HandlerFunc(http.MethodPost, "/v1/writer/login", app.loginWriterHandler)
	router.HandlerFunc(http.MethodPost, "/v1/writer/register", app.registerWriterHandler)
	router.HandlerFunc(http.MethodPost, "/v1/writer/federated-login", app.loginFederatedHandler)
	router.HandlerFunc(http.MethodGet, "/v1/auth/verify", app.requireAuth(app.verifyTokenHandler))

	// public blog surface
	router.HandlerFunc(http.MethodGet, "/v1/blogs", app.getPublishedBlogsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id", app.getBlogHandler)
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id/comments", app.getApprovedCommentsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/blogs/:id/comments", app.addCommentHandler)

	// writer surface
	router.HandlerFunc(http.MethodGet, "/v1/writer/blogs", app.requireAuth(app.listBlogsForIdentityHandler))
	router.HandlerFunc(http.MethodGet, "/v1/writer/dashboard", app.requireAuth(app.getDashboardHandler))
	router.HandlerFunc(http.MethodPost, "/v1/writer/blogs", app.requireAuth(app.createBlogHandler))
	router.HandlerFunc(http.MethodPut, "/v1/writer/blogs/:id", app.requireAuth(app.updateBlogHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/writer/blogs/:id", app.requireAuth(app.deleteBlogHandler))
	router.HandlerFunc(http.MethodPost, "/v1/writer/blogs/:id/publish", app.requireAuth(app.togglePublishHandler))
	router.HandlerFunc(http.MethodPost, "/v1/writer/generate", app.requireAuth(app.generateContentHandler))
	router.HandlerFunc(http.MethodPost, "/v1/writer/images", app.requireAuth(app.uploadImageHandler))

	// comment author surface
	router.HandlerFunc(http.MethodDelete, "/v1/comments/:id", app.requireAuth(app.deleteOwnCommentHandler))

	// admin surface
	router.HandlerFunc(http.MethodGet, "/v1/admin/comments", app.requireAdmin(app.getAllCommentsHandler))
	router.HandlerFunc(http.MethodPut, "/v1/admin/comments/:id/approve", app.requireAdmin(app.approveCommentHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/admin/comments/:id", app.requireAdmin(app.moderationDeleteCommentHandler))
	router.HandlerFunc(http.MethodGet, "/v1/admin/accounts", app.requireAdmin(app.listAdminAccountsHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/admin/accounts/:email", app.requireAdmin(app.deleteAdminAccountHandler))
	router.HandlerFunc(http.MethodGet, "/v1/admin/users", app.requireAdmin(app.listWriterAccountsHandler))
	router.HandlerFunc(http.MethodPost, "/v1/admin/users", app.requireAdmin(app.createWriterAccountHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/admin/users/:id", app.requireAdmin(app.deleteWriterAccountHandler))

	return app.recoverPanic(app.rateLimit(app.logRequest(app.authenticate(router))))
}
