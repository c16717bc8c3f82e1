package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lepinkainen/mediacat/internal/errors"
)

type barcodeRequest struct {
	Barcode string `json:"barcode"`
}

type imageRequest struct {
	Image string `json:"image"`
}

type notFoundResponse struct {
	Error   string `json:"error"`
	Barcode string `json:"barcode"`
}

func (s *Server) handleLookupBarcode(w http.ResponseWriter, r *http.Request) {
	var req barcodeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	code := strings.TrimSpace(req.Barcode)
	if code == "" {
		s.writeError(w, r, http.StatusBadRequest, "barcode is required")
		return
	}

	md, err := s.barcodes.ResolveBarcode(r.Context(), code)
	switch {
	case err == nil:
		s.writeJSON(w, r, http.StatusOK, md)
	case errors.IsNotFound(err):
		s.writeJSON(w, r, http.StatusNotFound, notFoundResponse{
			Error:   "no metadata found for barcode",
			Barcode: code,
		})
	default:
		s.log(r).Error("Barcode lookup failed", "barcode", code, "error", err)
		s.writeError(w, r, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleProcessImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		s.writeError(w, r, http.StatusBadRequest, "image is required")
		return
	}
	image, err := decodeImage(req.Image)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	md, err := s.photos.ResolvePhoto(r.Context(), image)
	if err != nil {
		s.log(r).Error("Image processing failed", "bytes", len(image), "error", err)
		s.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, r, http.StatusOK, md)
}

// decodeImage accepts a data URI ("data:image/jpeg;base64,...") or bare
// base64, padded or not.
func decodeImage(raw string) ([]byte, error) {
	payload := strings.TrimSpace(raw)
	if strings.HasPrefix(payload, "data:") {
		header, data, ok := strings.Cut(payload, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, errors.NewInvalidFieldError("image", "data URI must be base64 encoded")
		}
		payload = data
	}
	payload = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, payload)

	image, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		image, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil {
		return nil, errors.NewInvalidFieldError("image", "invalid base64 data")
	}
	if len(image) == 0 {
		return nil, errors.NewValidationError("image")
	}
	return image, nil
}

// decodeJSON reads a size-limited JSON body into dst, writing a 400 on
// failure.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		s.writeError(w, r, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log(r).Error("Failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.writeJSON(w, r, status, map[string]string{"error": message})
}
