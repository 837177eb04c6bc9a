package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/fazendagestaosvp/fazenda-vista-backend/api/middleware"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
	pkgerrors "github.com/fazendagestaosvp/fazenda-vista-backend/pkg/errors"
)

type scopeResolver interface {
	ResolveScope(ctx context.Context, actorID uuid.UUID, role enums.UIRole, requestedAccount *uuid.UUID) (uuid.UUID, error)
}

func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

func actorRole(r *http.Request) (enums.UIRole, error) {
	role, err := enums.ParseUIRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeForbidden, "role not provisioned")
	}
	return role, nil
}

// readScope resolves which account's records this request may read. Viewers
// may pass ?account_id to read an account they hold a grant for; everyone
// else reads their own records.
func readScope(r *http.Request, scopes scopeResolver) (uuid.UUID, error) {
	actor, err := actorID(r)
	if err != nil {
		return uuid.Nil, err
	}

	requested := strings.TrimSpace(r.URL.Query().Get("account_id"))
	if requested == "" || scopes == nil {
		return actor, nil
	}

	account, err := uuid.Parse(requested)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid account id")
	}

	role, err := actorRole(r)
	if err != nil {
		return uuid.Nil, err
	}
	return scopes.ResolveScope(r.Context(), actor, role, &account)
}

func parseBearerToken(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return token, nil
}

func pathUUID(r *http.Request, raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier").WithDetails(map[string]any{"field": field})
	}
	return id, nil
}
