package feedback

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/feedbackmail/handler"
	"github.com/dmitrymomot/feedbackmail/pkg/binder"
)

// HTTPHandler exposes the workflow as a JSON API.
type HTTPHandler struct {
	svc          *Service
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewHTTPHandler(svc *Service, errorHandler handler.ErrorHandler[handler.Context]) *HTTPHandler {
	if errorHandler == nil {
		errorHandler = handler.NewErrorHandler(nil, ErrorMapper)
	}
	return &HTTPHandler{svc: svc, errorHandler: errorHandler}
}

// ErrorMapper translates workflow errors for handler.NewErrorHandler.
func ErrorMapper(err error) (handler.ErrorInfo, bool) {
	switch {
	case errors.Is(err, ErrNotFound):
		return handler.ErrorInfo{StatusCode: http.StatusNotFound, Code: "not_found", Message: "Feedback not found"}, true
	case errors.Is(err, ErrInvalidStatus):
		return handler.ErrorInfo{StatusCode: http.StatusBadRequest, Code: "invalid_status", Message: "Invalid status"}, true
	}
	return handler.ErrorInfo{}, false
}

type listRequest struct {
	ApplicationName string `query:"applicationName"`
	FeatureName     string `query:"featureName"`
	Type            string `query:"type"`
	MinRating       *int   `query:"minRating"`
	MaxRating       *int   `query:"maxRating"`
	Limit           int    `query:"limit"`
}

type statsRequest struct {
	ApplicationName string `query:"applicationName"`
}

type getRequest struct {
	ID string `path:"id"`
}

type statusRequest struct {
	ID         string `json:"id,omitempty" path:"id"`
	Status     Status `json:"status"`
	ReviewerID string `json:"reviewerId,omitempty"`
}

func (h *HTTPHandler) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/", handler.Wrap(h.submit,
		handler.WithBinder[handler.Context, Submission](binder.JSON(0)),
		handler.WithErrorHandler[handler.Context, Submission](h.errorHandler),
	))
	r.Get("/", handler.Wrap(h.list,
		handler.WithBinder[handler.Context, listRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, listRequest](h.errorHandler),
	))
	r.Get("/stats", handler.Wrap(h.stats,
		handler.WithBinder[handler.Context, statsRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, statsRequest](h.errorHandler),
	))
	r.Get("/{id}", handler.Wrap(h.get,
		handler.WithBinder[handler.Context, getRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, getRequest](h.errorHandler),
	))
	r.Patch("/{id}/status", handler.Wrap(h.updateStatus,
		handler.WithBinders[handler.Context, statusRequest](binder.JSON(0), binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, statusRequest](h.errorHandler),
	))

	return r
}

func (h *HTTPHandler) submit(ctx handler.Context, req Submission) handler.Response {
	result, err := h.svc.Submit(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(http.StatusCreated, result)
}

func (h *HTTPHandler) list(ctx handler.Context, req listRequest) handler.Response {
	records, err := h.svc.ListRecent(ctx, Filter{
		ApplicationName: req.ApplicationName,
		FeatureName:     req.FeatureName,
		Type:            Type(req.Type),
		MinRating:       req.MinRating,
		MaxRating:       req.MaxRating,
		Limit:           req.Limit,
	})
	if err != nil {
		return handler.Error(err)
	}
	return handler.OK("Feedback retrieved", records)
}

func (h *HTTPHandler) stats(ctx handler.Context, req statsRequest) handler.Response {
	stats, err := h.svc.Aggregate(ctx, req.ApplicationName)
	if err != nil {
		return handler.Error(err)
	}
	return handler.OK("Feedback statistics", stats)
}

func (h *HTTPHandler) get(ctx handler.Context, req getRequest) handler.Response {
	rec, err := h.svc.Get(ctx, req.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.OK("Feedback found", rec)
}

func (h *HTTPHandler) updateStatus(ctx handler.Context, req statusRequest) handler.Response {
	rec, err := h.svc.UpdateStatus(ctx, req.ID, req.Status, req.ReviewerID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.OK("Feedback status updated", rec)
}
