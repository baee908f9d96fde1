package handlers

import (
	"context"
	"net/http"

	"quotations/go_backend/internal/app/http/respond"
	"quotations/go_backend/internal/domain/paging"
)

// These helpers cover the list/get/create/update/delete shape shared by
// the catalogue endpoints.

func list[T any](w http.ResponseWriter, r *http.Request, fn func(context.Context, paging.Params) ([]T, int, error)) {
	p := paging.Parse(r.URL.Query())
	items, total, err := fn(r.Context(), p)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Page(w, items, p, total)
}

func get[T any](w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (*T, error)) {
	v, err := fn(r.Context(), id(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, v)
}

func create[In, Out any](w http.ResponseWriter, r *http.Request, what string, fn func(context.Context, In) (*Out, error)) {
	var in In
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}
	v, err := fn(r.Context(), in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, what+" created", v)
}

func update[In, Out any](w http.ResponseWriter, r *http.Request, fn func(context.Context, string, In) (*Out, error)) {
	var in In
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}
	v, err := fn(r.Context(), id(r), in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, v)
}

func remove(w http.ResponseWriter, r *http.Request, what string, fn func(context.Context, string) error) {
	if err := fn(r.Context(), id(r)); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Message(w, what+" deleted")
}
