package handlers

import "net/http"

func (h *Handlers) ListSizes(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.svc.Sizes.List)
}

func (h *Handlers) GetSize(w http.ResponseWriter, r *http.Request) {
	get(w, r, h.svc.Sizes.Get)
}

func (h *Handlers) CreateSize(w http.ResponseWriter, r *http.Request) {
	create(w, r, "size", h.svc.Sizes.Create)
}

func (h *Handlers) UpdateSize(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.svc.Sizes.Update)
}

func (h *Handlers) DeleteSize(w http.ResponseWriter, r *http.Request) {
	remove(w, r, "size", h.svc.Sizes.Delete)
}

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.svc.Products.List)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	get(w, r, h.svc.Products.Get)
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	create(w, r, "product", h.svc.Products.Create)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.svc.Products.Update)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	remove(w, r, "product", h.svc.Products.Delete)
}
