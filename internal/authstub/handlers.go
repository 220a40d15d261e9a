package authstub

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/vtvclient/internal/common"
	"github.com/dmitrijs2005/vtvclient/internal/cryptox"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"traceId"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(common.ContentTypeHeaderName, common.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Code: code, Message: message, TraceID: uuid.NewString()})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	s.loginCalls.Add(1)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "email and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[req.Email]
	if !ok || cryptox.CheckPassword(u.hash, []byte(req.Password)) != nil {
		s.logger.Info(r.Context(), "login rejected", "email", req.Email)
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
		return
	}

	resp, err := s.issue(req.Email)
	if err != nil {
		s.logger.Error(r.Context(), "failed to issue tokens", "err", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "could not issue tokens")
		return
	}
	s.logger.Info(r.Context(), "login", "email", req.Email)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) refreshTokens(w http.ResponseWriter, r *http.Request) {
	s.refreshCalls.Add(1)

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "refreshToken is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email, err := s.consumeRefresh(req.RefreshToken)
	if err != nil {
		code := "INVALID_REFRESH_TOKEN"
		if errors.Is(err, common.ErrRefreshTokenExpired) {
			code = "REFRESH_TOKEN_EXPIRED"
		}
		s.logger.Info(r.Context(), "refresh rejected", "err", err)
		writeError(w, http.StatusUnauthorized, code, "session expired, please sign in again")
		return
	}

	resp, err := s.issue(email)
	if err != nil {
		s.logger.Error(r.Context(), "failed to issue tokens", "err", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "could not issue tokens")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme, token, ok := strings.Cut(r.Header.Get(common.AuthorizationHeaderName), " ")
		if !ok || !strings.EqualFold(scheme, common.BearerScheme) || token == "" {
			writeError(w, http.StatusUnauthorized, "MISSING_TOKEN", "authorization required")
			return
		}

		email, err := s.verify(token)
		if err != nil {
			code := "INVALID_TOKEN"
			if errors.Is(err, common.ErrTokenExpired) {
				code = "TOKEN_EXPIRED"
			}
			writeError(w, http.StatusUnauthorized, code, err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(withSubject(r.Context(), email)))
	})
}

func (s *Server) getVehicle(w http.ResponseWriter, r *http.Request) {
	dominio := strings.ToUpper(mux.Vars(r)["dominio"])

	s.mu.Lock()
	v, ok := s.vehicles[dominio]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "VEHICLE_NOT_FOUND", "vehicle "+dominio+" not found")
		return
	}
	s.logger.Debug(r.Context(), "vehicle lookup", "dominio", dominio, "by", subjectFrom(r.Context()))
	writeJSON(w, http.StatusOK, v)
}
