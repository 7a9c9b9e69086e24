// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

/*
Package points (HTTP) provides the delivery layer for the points economy.

# Architecture

The handler is a thin mediation layer between the web and [Service]:
  - Protocol: Standard RESTful JSON interface.
  - Security: All endpoints require an authenticated user; the user ID comes
    from the JWT claims, never from the request body.
  - Verification: Enforces strict input validation before passing to [Service].
*/
package points

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arotihq/aroti-server/internal/platform/middleware"
	requestutil "github.com/arotihq/aroti-server/internal/platform/request"
	"github.com/arotihq/aroti-server/internal/platform/respond"
	"github.com/arotihq/aroti-server/internal/platform/validate"
	"github.com/arotihq/aroti-server/pkg/civildate"
	"github.com/arotihq/aroti-server/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the points economy HTTP endpoints.
type Handler struct {
	pointsService *Service
	timezone      *time.Location
}

// NewHandler constructs a new [Handler].
//
// The timezone defines the calendar day used for quota resets; it is the
// service-wide zone from configuration.
func NewHandler(service *Service, timezone *time.Location) *Handler {
	return &Handler{pointsService: service, timezone: timezone}
}

// Routes returns a [chi.Router] configured with points-specific routes.
//
// # Endpoints
//   - GET  /balance      : Current balance and level position.
//   - GET  /transactions : Paginated ledger history.
//   - GET  /quotas       : Today's free-use state per feature.
//   - POST /earn         : Credits points for a completed activity.
//   - POST /spend        : Deducts points for an unlock.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)
	router.Get("/balance", handler.balance)
	router.Get("/transactions", handler.transactions)
	router.Get("/quotas", handler.quotas)
	router.Post("/earn", handler.earn)
	router.Post("/spend", handler.spend)

	return router
}

// # Request Payloads

type earnRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

type spendRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

/*
Balance returns the caller's balance and level position.

GET /api/v1/points/balance

Response:
  - 200: Summary: Total, lifetime, and level info
  - 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) balance(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	summary, err := handler.pointsService.GetSummary(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, summary)
}

/*
Transactions lists the caller's ledger history, newest first.

GET /api/v1/points/transactions?page=&limit=

Response:
  - 200: []Entry with pagination metadata
  - 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) transactions(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	entries, total, err := handler.pointsService.Transactions(request.Context(), userID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Quotas reports today's free-use state for every gated feature.

GET /api/v1/points/quotas

Response:
  - 200: []QuotaStatus
  - 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) quotas(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	today := civildate.Today(handler.timezone)

	statuses, err := handler.pointsService.QuotaStatuses(request.Context(), userID, today)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, statuses)
}

/*
Earn credits points to the caller's balance.

POST /api/v1/points/earn

Request:
  - Body: earnRequest (Amount, Reason)

Response:
  - 200: Balance: Updated totals
  - 400: ErrInvalidJSON: Bad input or non-positive amount
  - 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) earn(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input earnRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldReason, input.Reason)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	balance, err := handler.pointsService.Credit(request.Context(), userID, input.Amount, input.Reason)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, balance)
}

/*
Spend deducts points from the caller's balance.

POST /api/v1/points/spend

Response:
  - 200: Balance: Updated totals
  - 400: ErrInvalidJSON: Bad input or non-positive amount
  - 402: InsufficientPoints: Balance cannot cover the amount
  - 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) spend(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input spendRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldReason, input.Reason)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	balance, err := handler.pointsService.Spend(request.Context(), userID, input.Amount, input.Reason)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, balance)
}
