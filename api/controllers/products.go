package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/firmarollers/b2b-backend/api/middleware"
	"github.com/firmarollers/b2b-backend/api/responses"
	"github.com/firmarollers/b2b-backend/internal/catalog"
	customersvc "github.com/firmarollers/b2b-backend/internal/customers"
	"github.com/firmarollers/b2b-backend/pkg/enums"
	pkgerrors "github.com/firmarollers/b2b-backend/pkg/errors"
	"github.com/firmarollers/b2b-backend/pkg/logger"
)

// ListProducts serves the catalog with the caller's pricing applied. Admins
// see the base wholesale view; customers see their tarifa, discount, and
// hidden-product filtering.
func ListProducts(svc catalog.Service, customers customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		viewer := catalog.Viewer{}
		if middleware.RoleFromContext(r.Context()) != enums.UserRoleAdmin.String() {
			userID := middleware.UserIDFromContext(r.Context())
			uid, err := uuid.Parse(userID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
				return
			}

			customer, err := customers.GetByAuthUser(r.Context(), uid)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			viewer = catalog.Viewer{
				Tarifa:       customer.Tarifa,
				DescuentoPct: customer.DescuentoPct,
			}
		}

		items, err := svc.List(r.Context(), viewer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}
