package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pagecraft/funnels/cmd/funnelapi/service"
	"github.com/pagecraft/funnels/common/db"
	"github.com/pagecraft/funnels/common/slug"
)

// httpError maps service and storage errors onto HTTP status codes.
// Anything unmapped is a 500 with a generic message.
func httpError(err error, fallback string) *echo.HTTPError {
	var (
		invalidSlug   *slug.InvalidSlugError
		mismatch      *service.PublishTargetMismatchError
		conflict      *service.RevisionConflictError
		exhausted     *service.SlugExhaustedError
		instantiation *service.TemplateInstantiationError
	)

	switch {
	case errors.As(err, &invalidSlug):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, invalidSlug.Error())
	case errors.As(err, &mismatch):
		return echo.NewHTTPError(http.StatusConflict, mismatch.Error())
	case errors.As(err, &conflict):
		return echo.NewHTTPError(http.StatusConflict, conflict.Error())
	case errors.As(err, &exhausted):
		return echo.NewHTTPError(http.StatusInternalServerError, exhausted.Error())
	case errors.As(err, &instantiation):
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]interface{}{
			"message":    instantiation.Error(),
			"page_index": instantiation.PageIndex,
			"page_name":  instantiation.PageName,
		})
	case errors.Is(err, service.ErrTemplateNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "template not found")
	case errors.Is(err, service.ErrNoContent):
		return echo.NewHTTPError(http.StatusNotFound, "page has no content yet")
	case errors.Is(err, service.ErrNoPublishedContent):
		return echo.NewHTTPError(http.StatusNotFound, "page has no published content")
	case db.IsNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, fallback+" not found")
	case db.IsUniqueViolation(err):
		return echo.NewHTTPError(http.StatusConflict, fallback+" conflicts with existing state")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, fallback+" operation failed")
	}
}
