package handlers

import (
	"errors"
	"io"
	"net/http"

	"quotations/go_backend/internal/app/http/respond"
	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/settings"
)

func (h *Handlers) GetConfiguration(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.Settings.Get(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, cfg)
}

func (h *Handlers) UpdateConfiguration(w http.ResponseWriter, r *http.Request) {
	var in settings.Configuration
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}
	cfg, err := h.svc.Settings.Update(r.Context(), in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Envelope{Success: true, Message: "configuration updated", Data: cfg})
}

// UploadLogo accepts multipart field "logo".
func (h *Handlers) UploadLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, settings.MaxLogoBytes+(1<<20))
	if err := r.ParseMultipartForm(settings.MaxLogoBytes + (1 << 20)); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respond.Error(w, r, errx.Validation("logo", "must be at most 5 MB"))
			return
		}
		respond.Error(w, r, errx.BadRequest("invalid multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, fh, err := r.FormFile("logo")
	if err != nil {
		respond.Error(w, r, errx.Validation("logo", "is required"))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, settings.MaxLogoBytes+1))
	if err != nil {
		respond.Error(w, r, errx.BadRequest("read failed"))
		return
	}

	cfg, err := h.svc.Settings.SetLogo(r.Context(), fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Envelope{Success: true, Message: "logo uploaded", Data: cfg})
}

func (h *Handlers) DeleteLogo(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.Settings.RemoveLogo(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Envelope{Success: true, Message: "logo removed", Data: cfg})
}
