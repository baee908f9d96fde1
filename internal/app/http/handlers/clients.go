package handlers

import "net/http"

func (h *Handlers) ListClients(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.svc.Clients.List)
}

func (h *Handlers) GetClient(w http.ResponseWriter, r *http.Request) {
	get(w, r, h.svc.Clients.Get)
}

func (h *Handlers) CreateClient(w http.ResponseWriter, r *http.Request) {
	create(w, r, "client", h.svc.Clients.Create)
}

func (h *Handlers) UpdateClient(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.svc.Clients.Update)
}

func (h *Handlers) DeleteClient(w http.ResponseWriter, r *http.Request) {
	remove(w, r, "client", h.svc.Clients.Delete)
}
