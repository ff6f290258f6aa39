package modules

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures which APIs to mount.
// Each one is optional and only mounted if provided.
type RouterOptions struct {
	Feedback Mountable
	Email    Mountable
}

// Router mounts the module APIs under /api.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Mount("/api", modules.Router(modules.RouterOptions{
//	    Feedback: feedback.NewHTTPHandler(feedbackSvc, errs),
//	    Email:    dispatch.NewHandler(emailSvc, registry, errs),
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	if opts.Feedback != nil {
		r.Mount("/feedback", opts.Feedback.Handle())
	}
	if opts.Email != nil {
		r.Mount("/email", opts.Email.Handle())
	}

	return r
}
