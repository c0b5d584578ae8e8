package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"github.com/at-ishikawa/studylog/internal/coach"
	"github.com/at-ishikawa/studylog/internal/inference"
	"github.com/at-ishikawa/studylog/internal/progress"
	"github.com/at-ishikawa/studylog/internal/studylog"
)

type createEntryRequest struct {
	Date          string `json:"date"`
	Subject       string `json:"subject"`
	CustomSubject string `json:"custom_subject"`
	Topic         string `json:"topic"`
	Score         int    `json:"score"`
	StudyTime     int    `json:"study_time"`
}

type createEntryResponse struct {
	ID int64 `json:"id"`
}

type entriesResponse struct {
	Entries []studylog.Entry `json:"entries"`
}

type timeResponse struct {
	Range         string                  `json:"range"`
	ReferenceDate civil.Date              `json:"reference_date"`
	Totals        []progress.SubjectTotal `json:"totals"`
	Chartable     bool                    `json:"chartable"`
}

type recentResponse struct {
	ReferenceDate civil.Date       `json:"reference_date"`
	Days          int              `json:"days"`
	Entries       []studylog.Entry `json:"entries"`
}

type scoresResponse struct {
	Scores         []progress.SubjectScore `json:"scores"`
	WeakestSubject string                  `json:"weakest_subject,omitempty"`
	WeakestTopic   string                  `json:"weakest_topic,omitempty"`
}

func (s *Server) today() civil.Date {
	return civil.DateOf(s.now())
}

// referenceDate reads the optional "date" query parameter, defaulting to today.
func (s *Server) referenceDate(r *http.Request) (civil.Date, error) {
	value := r.URL.Query().Get("date")
	if value == "" {
		return s.today(), nil
	}
	d, err := civil.ParseDate(value)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return d, nil
}

// snapshot reads every entry, writing a 500 response on failure.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) ([]studylog.Entry, bool) {
	entries, err := s.repo.ListAll(r.Context())
	if err != nil {
		s.logger.Error("failed to list entries", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read the study log")
		return nil, false
	}
	return entries, true
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, entriesResponse{Entries: entries})
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	subject, err := studylog.ResolveSubject(req.Subject, req.CustomSubject)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	date := s.today()
	if req.Date != "" {
		if date, err = civil.ParseDate(req.Date); err != nil {
			writeValidationError(w, &studylog.ValidationError{Fields: []studylog.FieldError{
				{Field: "date", Message: "date must be a calendar date in YYYY-MM-DD format"},
			}})
			return
		}
	}

	entry, err := s.validator.Validate(studylog.NewEntry{
		Date:      date,
		Subject:   subject,
		Topic:     req.Topic,
		Score:     req.Score,
		StudyTime: req.StudyTime,
	})
	if err != nil {
		writeValidationError(w, err)
		return
	}

	id, err := s.repo.Insert(r.Context(), entry)
	if err != nil {
		s.logger.Error("failed to insert entry", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save the entry")
		return
	}
	s.metrics.EntriesInserted.Inc()
	writeJSON(w, http.StatusCreated, createEntryResponse{ID: id})
}

func writeValidationError(w http.ResponseWriter, err error) {
	var validationErr *studylog.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Error(), Fields: validationErr.Fields})
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

func (s *Server) clearEntries(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusBadRequest, "clearing every entry cannot be undone: repeat the request with confirm=true")
		return
	}
	if err := s.repo.ClearAll(r.Context()); err != nil {
		s.logger.Error("failed to clear entries", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to clear the study log")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"categories": studylog.Categories})
}

func (s *Server) progressTime(w http.ResponseWriter, r *http.Request) {
	kind := progress.Today
	if value := r.URL.Query().Get("range"); value != "" {
		var err error
		if kind, err = progress.ParseRangeKind(value); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	ref, err := s.referenceDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	totals := progress.TotalTimeBySubject(progress.FilterByRange(entries, kind, ref))
	writeJSON(w, http.StatusOK, timeResponse{
		Range:         kind.String(),
		ReferenceDate: ref,
		Totals:        totals,
		Chartable:     progress.IsChartable(totals),
	})
}

func (s *Server) progressRecent(w http.ResponseWriter, r *http.Request) {
	days := s.recentWindowDays
	if value := r.URL.Query().Get("days"); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid days %q: expected a positive integer", value))
			return
		}
		days = n
	}
	ref, err := s.referenceDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, recentResponse{
		ReferenceDate: ref,
		Days:          days,
		Entries:       progress.Recent(entries, ref, days),
	})
}

func (s *Server) progressScores(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	resp := scoresResponse{Scores: progress.MeanScoreBySubject(entries)}
	if subject, topic, err := coach.Weakest(entries); err == nil {
		resp.WeakestSubject = subject
		resp.WeakestTopic = topic
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) advice(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	advice, err := s.coach.Advise(r.Context(), entries)
	switch {
	case err == nil:
		s.metrics.ObserveSuggestion(nil)
		writeJSON(w, http.StatusOK, advice)
		return
	case errors.Is(err, progress.ErrNoData):
		writeError(w, http.StatusNotFound, "no study records yet: add an entry to get suggestions")
		return
	case errors.Is(err, coach.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "suggestions are unavailable: GEMINI_API_KEY is not set")
		return
	}

	s.metrics.ObserveSuggestion(err)
	s.logger.Warn("suggestion request failed", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
	switch {
	case errors.Is(err, inference.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout, "the suggestion service timed out, please try again")
	case errors.Is(err, inference.ErrEmptyResponse):
		writeError(w, http.StatusBadGateway, "the suggestion service returned an empty answer")
	default:
		writeError(w, http.StatusBadGateway, "the suggestion service could not be reached")
	}
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
