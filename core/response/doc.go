// Package response builds handler.Response values: JSON and plain text bodies, bare
// statuses, wrapped net/http handlers, and structured HTTPError values that the JSON error
// handler renders as {"code","message","details"}.
//
//	func listViews(ctx *router.Context) handler.Response {
//		if ctx.Param("id") == "" {
//			return response.Error(response.ErrBadRequest.WithMessage("session id is required"))
//		}
//		return response.JSON(views)
//	}
package response
