// Package web serves container-managed controllers over HTTP with one
// ambient scope per request.
package web

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/danpasecinic/lattice"
)

// URLParam is the chi route parameter naming the controller to dispatch to.
const URLParam = "controller"

var handlerType = lattice.TypeOf[http.Handler]()

// Middleware opens a lattice.Scope for every request and closes it once the
// request has been served, so PerScope registrations live for one request.
func Middleware(c *lattice.Container) func(http.Handler) http.Handler {
	logger := c.Logger().Named("web")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				ctx, scope := lattice.WithScope(r.Context())
				defer func() {
					if err := scope.Close(); err != nil {
						logger.Warn("failed to close request scope", zap.String("scope", scope.ID()), zap.Error(err))
					}
				}()

				next.ServeHTTP(w, r.WithContext(ctx))
			},
		)
	}
}

// ControllerName derives the registration name of a controller type: the
// type name without a trailing "Controller", lower-cased.
func ControllerName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return strings.ToLower(strings.TrimSuffix(t.Name(), "Controller"))
}

// Controllers registers each type as an http.Handler named by
// ControllerName. A nil reuse factory scopes controllers to the request.
func Controllers(reuse lattice.ReuseFactory, controllers ...reflect.Type) lattice.Module {
	if reuse == nil {
		reuse = lattice.PerScope
	}

	return lattice.ModuleFunc(
		func(b *lattice.Builder) {
			for _, t := range controllers {
				b.Register(handlerType, t).
					WithName(ControllerName(t)).
					ScopedTo(reuse)
			}
		},
	)
}

// Handler dispatches to the controller named by the URLParam route
// parameter. Unknown controllers get 404.
func Handler(c *lattice.Container) http.Handler {
	logger := c.Logger().Named("web")

	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			name := strings.ToLower(chi.URLParam(r, URLParam))
			if name == "" || !c.Has(handlerType, name) {
				http.NotFound(w, r)
				return
			}

			h, err := lattice.ResolveNamed[http.Handler](r.Context(), c, name)
			if err != nil {
				logger.Error("failed to resolve controller", zap.String("controller", name), zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			h.ServeHTTP(w, r)
		},
	)
}

// Mount installs Middleware and routes /{controller} and everything below it
// to Handler.
func Mount(r chi.Router, c *lattice.Container) {
	h := Handler(c)

	r.Group(
		func(r chi.Router) {
			r.Use(Middleware(c))
			r.Handle("/{"+URLParam+"}", h)
			r.Handle("/{"+URLParam+"}/*", h)
		},
	)
}
