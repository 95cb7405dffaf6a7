package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/firmarollers/b2b-backend/api/responses"
	shippingsvc "github.com/firmarollers/b2b-backend/internal/shipping"
	pkgerrors "github.com/firmarollers/b2b-backend/pkg/errors"
	"github.com/firmarollers/b2b-backend/pkg/logger"
	"github.com/firmarollers/b2b-backend/pkg/packlink"
)

// PacklinkWebhook ingests shipment status callbacks. The carrier posts
// either a single event or a batch; both shapes are accepted. Unknown
// shipment references are acknowledged and skipped so the carrier does not
// retry forever.
func PacklinkWebhook(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		events, err := decodePacklinkEvents(payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.HandleWebhook(ctx, events)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PacklinkWebhookProbe answers the carrier's endpoint verification GET.
func PacklinkWebhookProbe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

func decodePacklinkEvents(payload []byte) ([]packlink.WebhookEvent, error) {
	if len(payload) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "empty webhook payload")
	}

	var batch []packlink.WebhookEvent
	if err := json.Unmarshal(payload, &batch); err == nil {
		return batch, nil
	}

	var single packlink.WebhookEvent
	if err := json.Unmarshal(payload, &single); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed webhook payload")
	}
	return []packlink.WebhookEvent{single}, nil
}
