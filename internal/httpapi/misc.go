package httpapi

import (
	"errors"
	"net/http"

	"storefront-be/internal/upload"
	"storefront-be/internal/utils"
)

const maxUploadSize = 10 << 20

type subscribeRequest struct {
	Email string `json:"email"`
}

type uploadResponse struct {
	ImageURL string `json:"imageURL"`
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := h.svc.Subscribers.Subscribe(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.MessageResponse{Message: "Successfully subscribed to the news"})
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteJSONError(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		writeError(w, r, upload.ErrFileNotFound)
		return
	}
	defer file.Close()

	url, err := h.svc.Images.Save(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, uploadResponse{ImageURL: url})
}
