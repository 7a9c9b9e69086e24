// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

/*
Package reveal (HTTP) provides the delivery layer for the daily reveal flow.
*/
package reveal

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arotihq/aroti-server/internal/platform/middleware"
	requestutil "github.com/arotihq/aroti-server/internal/platform/request"
	"github.com/arotihq/aroti-server/internal/platform/respond"
	"github.com/arotihq/aroti-server/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the daily reveal HTTP endpoints.
type Handler struct {
	revealService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{revealService: service}
}

// Routes returns a [chi.Router] configured with daily-reveal routes.
//
// # Endpoints
//   - GET  /insight : Today's insight and reveal state.
//   - POST /reveal  : Performs today's reveal.
//   - POST /shuffle : Re-rolls today's affirmation.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)
	router.Get("/insight", handler.insight)
	router.Post("/reveal", handler.reveal)
	router.Post("/shuffle", handler.shuffle)

	return router
}

// # Request Payloads

type revealRequest struct {
	ItemID string `json:"item_id"`
	Locked bool   `json:"locked"`
}

/*
Insight returns today's generated content and reveal state.

GET /api/v1/daily/insight

Response:
  - 200: {state, insight}
  - 401: ErrUnauthorized: Missing or invalid token
  - 409: StaleState: Persisted state is dated in the future
*/
func (handler *Handler) insight(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	state, value, err := handler.revealService.GetToday(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"state":   state,
		"insight": value,
	})
}

/*
Reveal performs today's reveal.

POST /api/v1/daily/reveal

Description: A repeat call on the same day is not an error: the response
carries already_revealed=true with the insight from the earlier reveal.

Request:
  - Body: revealRequest (ItemID, Locked)

Response:
  - 200: Result: Reveal state, insight, and points charged
  - 400: ErrInvalidJSON: Missing item_id
  - 402: InsufficientPoints: A locked item could not be paid for
  - 409: Conflict: Another request is in progress, or state is stale
*/
func (handler *Handler) reveal(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input revealRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldItemID, input.ItemID)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.revealService.Reveal(request.Context(), userID, RevealInput{
		ItemID: input.ItemID,
		Locked: input.Locked,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
Shuffle re-rolls today's affirmation.

POST /api/v1/daily/shuffle

Response:
  - 200: {state, insight}
  - 401: ErrUnauthorized: Missing or invalid token
  - 422: Unprocessable: Daily shuffle budget exhausted
*/
func (handler *Handler) shuffle(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	state, value, err := handler.revealService.Shuffle(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"state":   state,
		"insight": value,
	})
}
