package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"modelhost/pkg/types"
)

type handlers struct {
	svc Service
	src EventSource
}

// listModels godoc
// @Summary      List models
// @Description  Returns the current catalog snapshot sorted by id.
// @Tags         models
// @Produce      json
// @Success      200  {object}  types.ModelsResponse
// @Router       /models [get]
func (h *handlers) listModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.ModelsResponse{Models: h.svc.ListModels()})
}

// rescanModels godoc
// @Summary      Rescan the models directory
// @Tags         models
// @Produce      json
// @Success      200  {object}  types.ModelsResponse
// @Router       /models/rescan [post]
func (h *handlers) rescanModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.svc.RescanModels()
	if err != nil {
		// Discovery failures leave an empty catalog; they are not request errors.
		logWarn(r, err, "rescan failed")
	}
	writeJSON(w, http.StatusOK, types.ModelsResponse{Models: models})
}

// loadModel godoc
// @Summary      Mark a model as loaded
// @Description  Sets the default model for /prompt. Does not start a process.
// @Tags         models
// @Param        id   path  string  true  "Model id"
// @Success      200  {object}  types.OKResponse
// @Failure      404  {object}  types.ErrorResponse
// @Router       /models/{id}/load [post]
func (h *handlers) loadModel(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.LoadModel(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.OKResponse{OK: true})
}

// unloadModel godoc
// @Summary      Clear the loaded model
// @Tags         models
// @Success      200  {object}  types.OKResponse
// @Router       /models/unload [post]
func (h *handlers) unloadModel(w http.ResponseWriter, r *http.Request) {
	h.svc.UnloadModel()
	writeJSON(w, http.StatusOK, types.OKResponse{OK: true})
}

// startModel godoc
// @Summary      Start a worker for a model
// @Tags         worker
// @Param        id   path  string  true  "Model id"
// @Success      200  {object}  types.OKResponse
// @Failure      404  {object}  types.ErrorResponse
// @Failure      409  {object}  types.ErrorResponse
// @Failure      422  {object}  types.ErrorResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /models/{id}/start [post]
func (h *handlers) startModel(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.StartModel(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.OKResponse{OK: true})
}

// stopModel godoc
// @Summary      Stop the running worker
// @Tags         worker
// @Success      200  {object}  types.OKResponse
// @Failure      409  {object}  types.ErrorResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /stop [post]
func (h *handlers) stopModel(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.StopModel(); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.OKResponse{OK: true})
}

// prompt godoc
// @Summary      Deliver a prompt
// @Description  Writes the prompt to the running worker, or starts one for the given or loaded model. An empty prompt is a valid (empty) line.
// @Tags         worker
// @Accept       json
// @Produce      json
// @Param        body  body  types.PromptRequest  true  "Prompt"
// @Success      200  {object}  types.OKResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      415  {object}  types.ErrorResponse
// @Failure      422  {object}  types.ErrorResponse
// @Failure      502  {object}  types.ErrorResponse
// @Router       /prompt [post]
func (h *handlers) prompt(w http.ResponseWriter, r *http.Request) {
	var req types.PromptRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.RunPrompt(req.Prompt, req.Model); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.OKResponse{OK: true})
}

// send godoc
// @Summary      Write a line to the worker
// @Tags         worker
// @Accept       json
// @Produce      json
// @Param        body  body  types.SendRequest  true  "Line"
// @Success      200  {object}  types.OKResponse
// @Failure      409  {object}  types.ErrorResponse
// @Failure      502  {object}  types.ErrorResponse
// @Router       /send [post]
func (h *handlers) send(w http.ResponseWriter, r *http.Request) {
	var req types.SendRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.Send(req.Text); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.OKResponse{OK: true})
}

// status godoc
// @Summary      Supervisor status
// @Tags         worker
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /status [get]
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// decodeJSON enforces the content type and body limit, then decodes into v.
// It writes the error response itself and reports false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Oversized bodies also land here; keep the message generic.
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
