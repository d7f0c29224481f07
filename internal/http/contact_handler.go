package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"lifeband-data/internal/repository"
	"lifeband-data/internal/service"
)

// ContactHandler emergency contacts of a portador.
type ContactHandler struct {
	contacts service.ContactService
	logger   *zap.Logger
}

func NewContactHandler(contacts service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, logger: logger}
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.contacts.ListContactos(r.Context(), adminID(r), portadorID(r))
	if err != nil {
		writeError(w, h.logger, "ListContactos", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(list))
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.ContactInput
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		badRequest(w, err)
		return
	}
	c, err := h.contacts.CreateContacto(r.Context(), adminID(r), portadorID(r), req)
	if err != nil {
		writeError(w, h.logger, "CreateContacto", err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(c))
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch repository.Patch
	if err := readBodyJSON(r, maxBodyBytes, &patch); err != nil {
		badRequest(w, err)
		return
	}
	c, err := h.contacts.UpdateContacto(r.Context(), adminID(r), portadorID(r), chi.URLParam(r, "contactoID"), patch)
	if err != nil {
		writeError(w, h.logger, "UpdateContacto", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(c))
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.contacts.DeleteContacto(r.Context(), adminID(r), portadorID(r), chi.URLParam(r, "contactoID")); err != nil {
		writeError(w, h.logger, "DeleteContacto", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

// SubscriptionHandler per-portador subscriptions.
type SubscriptionHandler struct {
	subs   service.SubscriptionService
	logger *zap.Logger
}

func NewSubscriptionHandler(subs service.SubscriptionService, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subs, logger: logger}
}

func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.subs.ListSubscriptions(r.Context(), adminID(r))
	if err != nil {
		writeError(w, h.logger, "ListSubscriptions", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(list))
}

func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sub, err := h.subs.GetSubscription(r.Context(), adminID(r), portadorID(r))
	if err != nil {
		writeError(w, h.logger, "GetSubscription", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(sub))
}

func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req service.SubscribeRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		badRequest(w, err)
		return
	}
	sub, err := h.subs.Subscribe(r.Context(), adminID(r), portadorID(r), req)
	if err != nil {
		writeError(w, h.logger, "Subscribe", err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(sub))
}

func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	sub, err := h.subs.Cancel(r.Context(), adminID(r), portadorID(r))
	if err != nil {
		writeError(w, h.logger, "CancelSubscription", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(sub))
}
