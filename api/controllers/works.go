package controllers

import (
	"net/http"

	"github.com/balarco/balarco-backend/api/responses"
	"github.com/balarco/balarco-backend/api/validators"
	"github.com/balarco/balarco-backend/internal/works"
	"github.com/balarco/balarco-backend/pkg/enums"
	pkgerrors "github.com/balarco/balarco-backend/pkg/errors"
	"github.com/balarco/balarco-backend/pkg/logger"
)

// WorkCreate accepts a JSON body or a multipart form with a "payload" field and
// "files" parts, and returns the created work.
func WorkCreate(svc works.Service, maxBody int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "works service unavailable"))
			return
		}

		actorID, ok := requireActor(w, r, logg)
		if !ok {
			return
		}

		var input works.CreateWorkInput
		files, err := validators.DecodeEntityPayload(r, maxBody, &input, works.EntityWork, pkgerrors.ActionCreated)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Files = toFileUploads(files)

		work, err := svc.Create(r.Context(), input, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, work)
	}
}

// WorkUpdate applies a partial update to an active work.
func WorkUpdate(svc works.Service, maxBody int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "works service unavailable"))
			return
		}

		actorID, ok := requireActor(w, r, logg)
		if !ok {
			return
		}

		workID, err := validators.ParseUUIDParam(r, "workId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input works.UpdateWorkInput
		files, err := validators.DecodeEntityPayload(r, maxBody, &input, works.EntityWork, pkgerrors.ActionUpdated)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Files = toFileUploads(files)

		ctx := logg.WithWorkID(r.Context(), workID.String())
		work, err := svc.Update(ctx, workID, input, actorID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, work)
	}
}

// WorkDetail returns an active work with its line items, files and designers.
func WorkDetail(svc works.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "works service unavailable"))
			return
		}

		workID, err := validators.ParseUUIDParam(r, "workId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		work, err := svc.Get(r.Context(), workID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, work)
	}
}

// WorkDelete soft-deletes a work.
func WorkDelete(svc works.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "works service unavailable"))
			return
		}

		actorID, ok := requireActor(w, r, logg)
		if !ok {
			return
		}

		workID, err := validators.ParseUUIDParam(r, "workId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), workID, actorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// WorkStatusChanges returns the status history of a work, oldest first.
func WorkStatusChanges(svc works.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "works service unavailable"))
			return
		}

		workID, err := validators.ParseUUIDParam(r, "workId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.StatusHistory(r.Context(), workID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

// WorkPossibleStatusChanges lists the statuses the acting user may move the work to.
func WorkPossibleStatusChanges(svc works.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "works service unavailable"))
			return
		}

		actorID, ok := requireActor(w, r, logg)
		if !ok {
			return
		}

		workID, err := validators.ParseUUIDParam(r, "workId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		statuses, err := svc.PossibleStatusChanges(r.Context(), workID, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, statuses)
	}
}

// StatusCatalog lists every work status in display order.
func StatusCatalog() http.HandlerFunc {
	catalog := works.StatusesFrom(enums.AllStatuses())
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, catalog)
	}
}

func toFileUploads(files []validators.UploadedFile) []works.FileUpload {
	if len(files) == 0 {
		return nil
	}
	out := make([]works.FileUpload, 0, len(files))
	for _, f := range files {
		out = append(out, works.FileUpload{Name: f.Name, Data: f.Data})
	}
	return out
}
