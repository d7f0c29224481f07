package httpapi

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"lifeband-data/internal/repository"
	"lifeband-data/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PortadorHandler portadores of the signed-in admin.
type PortadorHandler struct {
	portadores service.PortadorService
	export     service.ExportService
	logger     *zap.Logger
}

func NewPortadorHandler(portadores service.PortadorService, export service.ExportService, logger *zap.Logger) *PortadorHandler {
	return &PortadorHandler{portadores: portadores, export: export, logger: logger}
}

func (h *PortadorHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.portadores.ListPortadores(r.Context(), adminID(r))
	if err != nil {
		writeError(w, h.logger, "ListPortadores", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(list))
}

// Create submits the creation wizard and returns the assembled profile.
func (h *PortadorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePortadorRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		badRequest(w, err)
		return
	}
	prof, err := h.portadores.CreateProfile(r.Context(), adminID(r), req)
	if err != nil {
		writeError(w, h.logger, "CreatePortador", err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(prof))
}

func (h *PortadorHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.portadores.GetPortador(r.Context(), adminID(r), portadorID(r))
	if err != nil {
		writeError(w, h.logger, "GetPortador", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *PortadorHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch repository.Patch
	if err := readBodyJSON(r, maxBodyBytes, &patch); err != nil {
		badRequest(w, err)
		return
	}
	p, err := h.portadores.UpdatePortador(r.Context(), adminID(r), portadorID(r), patch)
	if err != nil {
		writeError(w, h.logger, "UpdatePortador", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *PortadorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.portadores.DeletePortador(r.Context(), adminID(r), portadorID(r)); err != nil {
		writeError(w, h.logger, "DeletePortador", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

func (h *PortadorHandler) Profile(w http.ResponseWriter, r *http.Request) {
	prof, err := h.portadores.GetProfile(r.Context(), adminID(r), portadorID(r))
	if err != nil {
		writeError(w, h.logger, "GetProfile", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(prof))
}

func (h *PortadorHandler) PublicURL(w http.ResponseWriter, r *http.Request) {
	p, err := h.portadores.GetPortador(r.Context(), adminID(r), portadorID(r))
	if err != nil {
		writeError(w, h.logger, "PublicURL", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{
		"qr_token":   p.QRToken,
		"public_url": h.portadores.PublicURL(p),
	}))
}

func (h *PortadorHandler) TriggerPDF(w http.ResponseWriter, r *http.Request) {
	resp, err := h.portadores.TriggerPDF(r.Context(), adminID(r), portadorID(r))
	if err != nil {
		writeError(w, h.logger, "TriggerPDF", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *PortadorHandler) Export(w http.ResponseWriter, r *http.Request) {
	id := portadorID(r)
	data, err := h.export.ExportProfile(r.Context(), adminID(r), id)
	if err != nil {
		writeError(w, h.logger, "ExportProfile", err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=portador-%s.xlsx", id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// InfoMedicaHandler medical record header of a portador.
type InfoMedicaHandler struct {
	info   service.InfoMedicaService
	logger *zap.Logger
}

func NewInfoMedicaHandler(info service.InfoMedicaService, logger *zap.Logger) *InfoMedicaHandler {
	return &InfoMedicaHandler{info: info, logger: logger}
}

// Get result is null when nothing was saved yet.
func (h *InfoMedicaHandler) Get(w http.ResponseWriter, r *http.Request) {
	im, err := h.info.GetInfoMedica(r.Context(), adminID(r), portadorID(r))
	if err != nil {
		writeError(w, h.logger, "GetInfoMedica", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(im))
}

func (h *InfoMedicaHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req service.InfoMedicaRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		badRequest(w, err)
		return
	}
	im, err := h.info.SaveInfoMedica(r.Context(), adminID(r), portadorID(r), req)
	if err != nil {
		writeError(w, h.logger, "SaveInfoMedica", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(im))
}
