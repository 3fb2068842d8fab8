package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ThomasBury/AceBet/internal/artifact"
	"github.com/ThomasBury/AceBet/internal/auth"
	"github.com/ThomasBury/AceBet/internal/dataset"
	"github.com/ThomasBury/AceBet/internal/middleware"
	"github.com/ThomasBury/AceBet/internal/predictor"
)

// tokenResponse is the body returned by POST /token
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// predictionRequest is the body accepted by POST /predict/
type predictionRequest struct {
	P1Name  string `json:"p1_name" validate:"required"`
	P2Name  string `json:"p2_name" validate:"required"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Testing bool   `json:"testing"`
}

// handleHome returns the welcome message
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Welcome to the AceBet API!"})
}

// handleLimit is the rate limiting demonstration route
func (s *Server) handleLimit(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.errorResponse(w, http.StatusBadRequest, "user_id is required")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"message": "API call successful for " + userID,
	})
}

// handleToken exchanges form credentials for a bearer token
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid form body")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := s.auth.IssueToken(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			s.errorResponse(w, http.StatusUnauthorized, "Incorrect username or password")
			return
		}
		s.logger.WithError(err).Error("Token issuance failed")
		s.errorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.jsonResponse(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// handleUsersMe returns the authenticated principal's profile
func (s *Server) handleUsersMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, principal)
}

// handleUsersItems returns the authenticated principal's item collection
func (s *Server) handleUsersItems(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, []map[string]string{
		{"item_id": "Foo", "owner": principal.Username},
	})
}

// handlePredict serves the win-probability prediction for a player pair and
// date. Every call re-loads the snapshot and re-resolves the current model
// artifact, so out-of-band retraining takes effect without a restart.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "p1_name, p2_name and date (YYYY-MM-DD) are required")
		return
	}

	dataFile := s.cfg.Data.ProductionFile
	modelDir := s.cfg.Data.ModelDir
	if req.Testing {
		dataFile = s.cfg.Data.SampleFile
		modelDir = s.cfg.Data.SampleModelDir
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	ds, err := dataset.Load(dataFile)
	if err != nil {
		s.predictError(w, r, err)
		return
	}

	record, err := ds.Find(req.P1Name, req.P2Name, date)
	if err != nil {
		s.predictError(w, r, err)
		return
	}

	art, err := s.resolver.Resolve(modelDir)
	if err != nil {
		s.predictError(w, r, err)
		return
	}

	result, err := s.invoker.Predict(r.Context(), art, record)
	if err != nil {
		s.predictError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// predictError maps pipeline failures onto the HTTP contract. Missing data is
// user-visible; schema and estimator failures are logged with full detail and
// surfaced generically so internals never leak to the caller.
func (s *Server) predictError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, dataset.ErrNotFound):
		s.errorResponse(w, http.StatusNotFound, "no historical match found for the given players and date")
	case errors.Is(err, dataset.ErrSnapshotMissing):
		s.errorResponse(w, http.StatusNotFound, "dataset snapshot not available")
	case errors.Is(err, artifact.ErrNoArtifact):
		s.errorResponse(w, http.StatusNotFound, "no trained model available")
	case errors.Is(err, dataset.ErrSchema),
		errors.Is(err, artifact.ErrInvalidArtifact),
		errors.Is(err, predictor.ErrPrediction):
		s.logger.WithFields(logrus.Fields{
			"path": r.URL.Path,
		}).WithError(err).Error("Prediction pipeline failure")
		s.errorResponse(w, http.StatusInternalServerError, "Internal prediction error")
	default:
		s.logger.WithError(err).Error("Unexpected prediction error")
		s.errorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}
