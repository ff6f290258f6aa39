// Package binder decodes HTTP request data into typed request structs.
//
// Each binder has the signature func(*http.Request, any) error and handles a
// single source, so several can be combined on one struct:
//
//	type UpdateStatusRequest struct {
//		ID         string `path:"id"`
//		Status     string `json:"status"`
//		ReviewerID string `json:"reviewerId,omitempty"`
//	}
//
//	r.Patch("/api/feedback/{id}/status", handler.Wrap(update,
//		handler.WithBinders[handler.Context, UpdateStatusRequest](
//			binder.JSON(0),
//			binder.Path(chi.URLParam),
//		),
//	))
//
// JSON is strict: unknown fields, trailing data and oversized bodies fail
// with ErrFailedToParseJSON. Query and Path only touch fields that carry the
// matching struct tag and support strings, numbers, bools, slices and
// pointers for optional values.
package binder
