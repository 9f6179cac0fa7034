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

	// accounts and profiles
	router.HandlerFunc(http.MethodPost, "/v1/users/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/logout", app.requireAuthUser(app.logoutUserHandler))
	router.HandlerFunc(http.MethodPut, "/v1/users/profile", app.requireAuthUser(app.updateProfileHandler))

	// posts and comments
	router.HandlerFunc(http.MethodGet, "/v1/posts", app.listPostsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/posts", app.requireAuthUser(app.createPostHandler))
	router.HandlerFunc(http.MethodGet, "/v1/profiles/:username", app.getProfileHandler)
	router.HandlerFunc(http.MethodGet, "/v1/profiles/:username/posts/:id", app.getPostHandler)
	router.HandlerFunc(http.MethodPut, "/v1/profiles/:username/posts/:id", app.requireAuthUser(app.updatePostHandler))
	router.HandlerFunc(http.MethodPost, "/v1/profiles/:username/posts/:id/comments", app.createCommentHandler)

	// contact form
	router.HandlerFunc(http.MethodPost, "/v1/contact", app.contactHandler)

	// moderation surface for the back office
	router.HandlerFunc(http.MethodPut, "/v1/admin/posts/:id/published", app.requireStaffUser(app.setPostPublishedHandler))
	router.HandlerFunc(http.MethodPut, "/v1/admin/comments/:id/published", app.requireStaffUser(app.setCommentPublishedHandler))

	return app.recoverPanic(app.logRequest(app.rateLimit(app.enableCORS(app.authenticate(router)))))
}
