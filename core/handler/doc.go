// Package handler defines the request types shared by the router, response helpers and
// middleware: a Context, a HandlerFunc returning a Response, and Middleware over it.
//
//	func hello(ctx *router.Context) handler.Response {
//		return response.JSON(map[string]string{"id": ctx.Param("id")})
//	}
package handler
