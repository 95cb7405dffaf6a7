package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/firmarollers/b2b-backend/api/middleware"
	"github.com/firmarollers/b2b-backend/api/responses"
	"github.com/firmarollers/b2b-backend/api/validators"
	customersvc "github.com/firmarollers/b2b-backend/internal/customers"
	ordersvc "github.com/firmarollers/b2b-backend/internal/orders"
	"github.com/firmarollers/b2b-backend/pkg/db/models"
	pkgerrors "github.com/firmarollers/b2b-backend/pkg/errors"
	"github.com/firmarollers/b2b-backend/pkg/logger"
	"github.com/firmarollers/b2b-backend/pkg/pagination"
)

// PortalProfile returns the authenticated customer's own account.
func PortalProfile(customers customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customer, err := portalCustomer(r.Context(), customers)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

// PortalListOrders pages through the authenticated customer's own orders.
func PortalListOrders(orders ordersvc.Service, customers customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := portalCustomerID(r.Context(), customers)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := ordersvc.ListFilter{
			CustomerID: &customerID,
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			filter.Status = &raw
		}

		result, nextCursor, err := orders.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listOrdersResponse{Orders: result, NextCursor: nextCursor})
	}
}

// PortalGetOrder returns one of the customer's own orders. Someone else's
// order id yields a plain not-found, never a forbidden.
func PortalGetOrder(orders ordersvc.Service, customers customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := portalCustomerID(r.Context(), customers)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := orders.GetForCustomer(r.Context(), orderID, customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// portalCustomerID resolves the acting customer, preferring the token claim
// and falling back to an account lookup for older tokens.
func portalCustomerID(ctx context.Context, customers customersvc.Service) (uuid.UUID, error) {
	if claim := middleware.CustomerIDFromContext(ctx); claim != "" {
		id, err := uuid.Parse(claim)
		if err == nil {
			return id, nil
		}
	}

	customer, err := portalCustomer(ctx, customers)
	if err != nil {
		return uuid.Nil, err
	}
	return customer.ID, nil
}

func portalCustomer(ctx context.Context, customers customersvc.Service) (*models.Customer, error) {
	uid, err := uuid.Parse(middleware.UserIDFromContext(ctx))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return customers.GetByAuthUser(ctx, uid)
}
