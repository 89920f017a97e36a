package controllers

import (
	"net/http"

	"github.com/balarco/balarco-backend/api/responses"
	"github.com/balarco/balarco-backend/api/validators"
	"github.com/balarco/balarco-backend/internal/clients"
	"github.com/balarco/balarco-backend/internal/igualas"
	pkgerrors "github.com/balarco/balarco-backend/pkg/errors"
	"github.com/balarco/balarco-backend/pkg/logger"
)

// ClientDelete deactivates a client and its contacts.
func ClientDelete(svc clients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "clients service unavailable"))
			return
		}

		clientID, err := validators.ParseUUIDParam(r, "clientId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeactivateClient(r.Context(), clientID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// ContactDelete deactivates a contact no active work references.
func ContactDelete(svc clients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "clients service unavailable"))
			return
		}

		contactID, err := validators.ParseUUIDParam(r, "contactId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeactivateContact(r.Context(), contactID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// IgualaDelete deactivates an iguala no active work references.
func IgualaDelete(svc igualas.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "igualas service unavailable"))
			return
		}

		igualaID, err := validators.ParseUUIDParam(r, "igualaId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), igualaID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

type artIgualasRequest struct {
	ArtIgualas []igualas.ArtIgualaInput `json:"art_igualas" validate:"required,dive"`
}

// IgualaArtIgualasUpsert sets the art quantities of an iguala, keyed by art type.
func IgualaArtIgualasUpsert(svc igualas.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "igualas service unavailable"))
			return
		}

		igualaID, err := validators.ParseUUIDParam(r, "igualaId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body artIgualasRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.UpsertArtIgualas(r.Context(), igualaID, body.ArtIgualas)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}
