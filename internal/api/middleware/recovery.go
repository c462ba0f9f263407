package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/blockdrop/internal/api/apierr"
	httpmw "github.com/mcoot/blockdrop/internal/middleware"
)

// Recovery wraps the shared recovery middleware with a JSON 500 response
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return httpmw.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
