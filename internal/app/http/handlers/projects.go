package handlers

import "net/http"

func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.svc.Projects.List)
}

func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	get(w, r, h.svc.Projects.Get)
}

func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	create(w, r, "project", h.svc.Projects.Create)
}

func (h *Handlers) UpdateProject(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.svc.Projects.Update)
}

func (h *Handlers) DeleteProject(w http.ResponseWriter, r *http.Request) {
	remove(w, r, "project", h.svc.Projects.Delete)
}
