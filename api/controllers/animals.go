package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fazendagestaosvp/fazenda-vista-backend/api/responses"
	"github.com/fazendagestaosvp/fazenda-vista-backend/api/validators"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/animals"
	pkgerrors "github.com/fazendagestaosvp/fazenda-vista-backend/pkg/errors"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/logger"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/pagination"
)

func listParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}

// AnimalCreate registers a new head of livestock.
func AnimalCreate(svc animals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "animals service unavailable"))
			return
		}

		owner, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body animals.UpsertAnimalRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		animal, err := svc.Create(r.Context(), owner, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, animal)
	}
}

// AnimalGet fetches one animal within the caller's read scope.
func AnimalGet(svc animals.Service, scopes scopeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "animals service unavailable"))
			return
		}

		owner, err := readScope(r, scopes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, chi.URLParam(r, "animalId"), "animalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		animal, err := svc.Get(r.Context(), owner, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, animal)
	}
}

// AnimalList returns a cursor page of animals within the caller's read scope.
func AnimalList(svc animals.Service, scopes scopeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "animals service unavailable"))
			return
		}

		owner, err := readScope(r, scopes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := listParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.List(r.Context(), owner, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AnimalUpdate replaces the whole record.
func AnimalUpdate(svc animals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "animals service unavailable"))
			return
		}

		owner, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, chi.URLParam(r, "animalId"), "animalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body animals.UpsertAnimalRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		animal, err := svc.Update(r.Context(), owner, id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, animal)
	}
}

// AnimalDelete removes one animal owned by the caller.
func AnimalDelete(svc animals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "animals service unavailable"))
			return
		}

		owner, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, chi.URLParam(r, "animalId"), "animalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), owner, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
