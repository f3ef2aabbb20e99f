package main

import (
	"log/slog"
	"strconv"

	"github.com/moi-restaurants/tracker/core/analytics"
	"github.com/moi-restaurants/tracker/core/handler"
	"github.com/moi-restaurants/tracker/core/logger"
	"github.com/moi-restaurants/tracker/core/recordstore"
	"github.com/moi-restaurants/tracker/core/response"
	"github.com/moi-restaurants/tracker/core/router"
	"github.com/moi-restaurants/tracker/middleware"
)

const defaultPageViewLimit = 50

type pageViewsResponse struct {
	SessionID string               `json:"session_id"`
	PageViews []recordstore.Record `json:"page_views"`
}

// listPageViews serves GET /api/sessions/{id}/page-views, newest first.
func listPageViews(records recordstore.Store, maxLimit int, log *slog.Logger) handler.HandlerFunc[*router.Context] {
	return func(ctx *router.Context) handler.Response {
		sessionID := ctx.Param("id")
		if sessionID == "" {
			return response.Error(response.ErrBadRequest.WithMessage("session id is required"))
		}

		limit := defaultPageViewLimit
		if raw := ctx.Request().URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				return response.Error(response.ErrBadRequest.
					WithMessage("limit must be a positive integer").
					WithDetails(map[string]any{"limit": raw}))
			}
			limit = n
		}
		if maxLimit > 0 {
			limit = min(limit, maxLimit)
		}

		rows, err := records.Select(ctx, analytics.TablePageViews, recordstore.Query{
			Filter: []recordstore.Condition{recordstore.Eq("session_id", sessionID)},
			Order:  &recordstore.Order{Column: "created_at", Desc: true},
			Limit:  limit,
		})
		if err != nil {
			requestID, _ := middleware.GetRequestID(ctx)
			log.ErrorContext(ctx, "list page views",
				logger.SessionID(sessionID),
				logger.RequestID(requestID),
				logger.Error(err),
			)
			return response.Error(response.ErrBadGateway.WithMessage("record store unavailable"))
		}
		if rows == nil {
			rows = []recordstore.Record{}
		}
		return response.JSON(pageViewsResponse{SessionID: sessionID, PageViews: rows})
	}
}
