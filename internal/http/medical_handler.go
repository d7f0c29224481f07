package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"lifeband-data/internal/domain"
	"lifeband-data/internal/repository"
	"lifeband-data/internal/service"
)

// MedicalRoute list/create/patch/delete routes of one InfoMedica sub-record
// kind, mounted under /portadores/{portadorID}/<path>.
type MedicalRoute struct {
	Path     string
	register func(r chi.Router, logger *zap.Logger)
}

// Medical binds svc to path.
func Medical[T any](path string, svc service.MedicalItemService[T]) MedicalRoute {
	return MedicalRoute{
		Path: path,
		register: func(r chi.Router, logger *zap.Logger) {
			h := &medicalItemHandler[T]{kind: path, svc: svc, logger: logger}
			r.Get("/"+path, h.List)
			r.Post("/"+path, h.Create)
			r.Patch("/"+path+"/{itemID}", h.Update)
			r.Delete("/"+path+"/{itemID}", h.Delete)
		},
	}
}

// MedicalRoutes all ten sub-record kinds over repos.
func MedicalRoutes(repos *repository.Set) []MedicalRoute {
	return []MedicalRoute{
		Medical("alergias", service.NewMedicalItemService[domain.Alergia]("alergia", repos.Alergias, repos)),
		Medical("condiciones-medicas", service.NewMedicalItemService[domain.CondicionMedica]("condicion medica", repos.CondicionesMedicas, repos)),
		Medical("medicamentos-permanentes", service.NewMedicalItemService[domain.MedicamentoPermanente]("medicamento", repos.MedicamentosPermanentes, repos)),
		Medical("historial-quirurgico", service.NewMedicalItemService[domain.HistorialQuirurgico]("cirugia", repos.HistorialQuirurgico, repos)),
		Medical("contactos-medicos", service.NewMedicalItemService[domain.ContactoMedico]("contacto medico", repos.ContactosMedicos, repos)),
		Medical("antecedentes-medicos", service.NewMedicalItemService[domain.AntecedentesMedicos]("antecedente", repos.AntecedentesMedicos, repos)),
		Medical("dispositivos-implantados", service.NewMedicalItemService[domain.DispositivosImplantados]("dispositivo", repos.DispositivosImplantados, repos)),
		Medical("condiciones-psicologicas", service.NewMedicalItemService[domain.CondicionPsicologica]("condicion psicologica", repos.CondicionesPsicologicas, repos)),
		Medical("crisis-sensibilidades", service.NewMedicalItemService[domain.CrisisSensibilidad]("crisis", repos.CrisisSensibilidades, repos)),
		Medical("apoyo-emocional", service.NewMedicalItemService[domain.ApoyoEmocional]("apoyo emocional", repos.ApoyoEmocional, repos)),
	}
}

type medicalItemHandler[T any] struct {
	kind   string
	svc    service.MedicalItemService[T]
	logger *zap.Logger
}

func (h *medicalItemHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), adminID(r), portadorID(r))
	if err != nil {
		writeError(w, h.logger, "List "+h.kind, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(list))
}

func (h *medicalItemHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	item := new(T)
	if err := readBodyJSON(r, maxBodyBytes, item); err != nil {
		badRequest(w, err)
		return
	}
	created, err := h.svc.Create(r.Context(), adminID(r), portadorID(r), item)
	if err != nil {
		writeError(w, h.logger, "Create "+h.kind, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(created))
}

func (h *medicalItemHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	var patch repository.Patch
	if err := readBodyJSON(r, maxBodyBytes, &patch); err != nil {
		badRequest(w, err)
		return
	}
	item, err := h.svc.Update(r.Context(), adminID(r), portadorID(r), chi.URLParam(r, "itemID"), patch)
	if err != nil {
		writeError(w, h.logger, "Update "+h.kind, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(item))
}

func (h *medicalItemHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), adminID(r), portadorID(r), chi.URLParam(r, "itemID")); err != nil {
		writeError(w, h.logger, "Delete "+h.kind, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
