package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

// request bodies above this size are rejected
const maxBodyBytes = 1 << 20

type errResp struct {
	Err string `json:"err"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch {
	case clientError(err):
		code = http.StatusBadRequest
	case ctxError(err):
		code = http.StatusRequestTimeout
	}
	if code == http.StatusInternalServerError {
		s.log.WithFields(logrus.Fields{"path": r.URL.Path, "err": err}).Error("request failed")
	}
	writeJSON(w, code, errResp{Err: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}

func (s *Service) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.SimulateGame(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Service) handleReplicate(w http.ResponseWriter, r *http.Request) {
	var req ReplicateRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sum, err := s.Replicate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Routes returns the HTTP JSON API.
func (s *Service) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /simulate", s.handleSimulate)
	mux.HandleFunc("POST /replicate", s.handleReplicate)
	mux.HandleFunc("GET /healthz", handleHealthz)
	return mux
}
