package handlers

import (
	"net/http"

	"quotations/go_backend/internal/app/http/respond"
	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/user"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in user.RegisterInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}
	var actor *user.Principal
	if p, ok := user.FromContext(r.Context()); ok {
		actor = &p
	}
	u, err := h.svc.Users.Register(r.Context(), actor, in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, "user registered", u)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}
	session, err := h.svc.Users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, session)
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := user.FromContext(r.Context())
	if !ok {
		respond.Error(w, r, errx.Unauthorized(""))
		return
	}
	u, err := h.svc.Users.Get(r.Context(), p.UserID)
	if err != nil {
		if errx.StatusOf(err) == http.StatusNotFound {
			err = errx.Unauthorized("")
		}
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, u)
}
