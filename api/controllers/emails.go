package controllers

import (
	"net/http"

	"github.com/firmarollers/b2b-backend/api/responses"
	"github.com/firmarollers/b2b-backend/api/validators"
	emailsvc "github.com/firmarollers/b2b-backend/internal/emails"
	"github.com/firmarollers/b2b-backend/pkg/logger"
)

const maxEmailLogLimit = 500

// ListEmailLogs exposes the delivery audit trail, newest first.
func ListEmailLogs(svc emailsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, maxEmailLogLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logs, err := svc.ListLogs(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, logs)
	}
}
