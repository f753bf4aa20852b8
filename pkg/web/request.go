package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/needful/pkg/observability"
)

type requestState struct {
	id        string
	blueprint string
}

type stateKey struct{}

func stateFrom(ctx context.Context) *requestState {
	st, _ := ctx.Value(stateKey{}).(*requestState)
	return st
}

// RequestID returns the id assigned to the current request, or "" outside
// a request.
func RequestID(ctx context.Context) string {
	if st := stateFrom(ctx); st != nil {
		return st.id
	}
	return ""
}

// CurrentBlueprint returns the name of the blueprint routing the current
// request, or "" for routes registered on the App directly.
func CurrentBlueprint(ctx context.Context) string {
	if st := stateFrom(ctx); st != nil {
		return st.blueprint
	}
	return ""
}

func markBlueprint(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if st := stateFrom(r.Context()); st != nil {
				st.blueprint = name
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *App) lifecycle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := &requestState{id: uuid.NewString()}
		ctx := context.WithValue(r.Context(), stateKey{}, st)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		observability.Request().OnRequestStart(ctx, r.Method, r.URL.Path)

		var err error
		defer func() {
			rec := recover()
			if rec != nil {
				err = fmt.Errorf("panic: %v", rec)
				a.logger.Error("request panicked", "id", st.id, "path", r.URL.Path, "panic", rec)
				if ww.Status() == 0 {
					http.Error(ww, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}
			for i := len(a.teardown) - 1; i >= 0; i-- {
				a.teardown[i](ctx, err)
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			observability.Request().OnRequestComplete(ctx, r.Method, r.URL.Path, status, elapsed, err)
			a.logger.Debug("request", "id", st.id, "method", r.Method, "path", r.URL.Path, "status", status, "duration", elapsed)
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
		}()

		for _, fn := range a.before {
			nctx, herr := fn(ctx)
			if herr != nil {
				err = herr
				a.logger.Error("before request hook failed", "id", st.id, "path", r.URL.Path, "err", herr)
				http.Error(ww, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if nctx != nil {
				ctx = nctx
			}
		}
		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}
