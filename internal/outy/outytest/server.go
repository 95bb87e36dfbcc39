// Package outytest runs an in-memory Outy API over httptest for handler
// and integration tests.
package outytest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"outy-workers/internal/models"
)

// Token returns a signed bearer token whose user_id claim is userID.
func Token(userID int64) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte("outytest"))
	if err != nil {
		panic(err)
	}
	return signed
}

// Server is the fake API. All fields are guarded by mu; use the accessor
// methods from tests.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	nextID        int64
	jobs          map[int64]*models.ExpressJob
	applications  map[int64]*models.Application
	profiles      []models.WorkerProfile
	candidates    map[int64]models.CandidateProfile
	conversations []models.Conversation
	messages      []models.Message
	reviews       []models.WorkerReview
	reports       []models.Report
	locations     []models.LocationEntry
	photos        map[int64]string
	failures      map[string]failure
	calls         []string
	headers       map[string]http.Header
}

type failure struct {
	status  int
	message string
}

// NewServer starts a server that is closed with t's cleanup.
func NewServer(t testing.TB) *Server {
	s := &Server{
		nextID:       1000,
		jobs:         make(map[int64]*models.ExpressJob),
		applications: make(map[int64]*models.Application),
		candidates:   make(map[int64]models.CandidateProfile),
		photos:       make(map[int64]string),
		failures:     make(map[string]failure),
		headers:      make(map[string]http.Header),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /express-jobs/{id}", s.getJob)
	mux.HandleFunc("PUT /express-jobs/{id}", s.updateJob)
	mux.HandleFunc("DELETE /express-jobs/{id}", s.deleteJob)
	mux.HandleFunc("GET /express-jobs/{id}/applications", s.listApplications)
	mux.HandleFunc("POST /express-job-applications", s.createApplication)
	mux.HandleFunc("PUT /express-job-applications/{id}", s.updateApplication)
	mux.HandleFunc("GET /worker-profiles", s.listProfiles)
	mux.HandleFunc("POST /worker-profiles", s.createProfile)
	mux.HandleFunc("GET /candidate-profiles/user/{id}", s.getCandidate)
	mux.HandleFunc("POST /conversations", s.createConversation)
	mux.HandleFunc("POST /conversations/{id}/messages", s.sendMessage)
	mux.HandleFunc("POST /worker-reviews", s.createReview)
	mux.HandleFunc("GET /worker-reviews/worker/{id}/stats", s.reviewStats)
	mux.HandleFunc("GET /locations/nicaragua", s.listLocations)
	mux.HandleFunc("POST /reports", s.createReport)
	mux.HandleFunc("GET /users/{id}/photo", s.userPhoto)

	s.Server = httptest.NewServer(s.intercept(mux))
	t.Cleanup(s.Server.Close)
	return s
}

// intercept records the call and applies injected failures, keyed by
// "METHOD pattern" as registered on the mux.
func (s *Server) intercept(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, pattern := mux.Handler(r)

		s.mu.Lock()
		s.calls = append(s.calls, pattern)
		s.headers[pattern] = r.Header.Clone()
		f, failing := s.failures[pattern]
		s.mu.Unlock()

		if failing {
			writeJSON(w, f.status, map[string]interface{}{"message": f.message})
			return
		}
		mux.ServeHTTP(w, r)
	})
}

// Fail makes every request matching pattern (e.g. "POST /worker-reviews")
// answer status with message.
func (s *Server) Fail(pattern string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[pattern] = failure{status: status, message: message}
}

// Calls returns the matched patterns in request order.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Count returns how often pattern was requested.
func (s *Server) Count(pattern string) int {
	n := 0
	for _, c := range s.Calls() {
		if c == pattern {
			n++
		}
	}
	return n
}

// LastHeader returns the headers of the last request matching pattern.
func (s *Server) LastHeader(pattern string) http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers[pattern]
}

func (s *Server) AddJob(job models.ExpressJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = &job
}

func (s *Server) AddApplication(app models.Application) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applications[app.ID] = &app
}

func (s *Server) AddProfile(p models.WorkerProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = append(s.profiles, p)
}

func (s *Server) AddCandidate(c models.CandidateProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[c.UserID] = c
}

func (s *Server) AddLocations(entries ...models.LocationEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations = append(s.locations, entries...)
}

func (s *Server) SetPhoto(userID int64, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos[userID] = url
}

func (s *Server) Job(id int64) (models.ExpressJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return models.ExpressJob{}, false
	}
	return *job, true
}

func (s *Server) Application(id int64) (models.Application, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.applications[id]
	if !ok {
		return models.Application{}, false
	}
	return *app, true
}

func (s *Server) Profiles() []models.WorkerProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.WorkerProfile(nil), s.profiles...)
}

func (s *Server) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Message(nil), s.messages...)
}

func (s *Server) Reviews() []models.WorkerReview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.WorkerReview(nil), s.reviews...)
}

func (s *Server) Reports() []models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Report(nil), s.reports...)
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter, what string) {
	writeJSON(w, http.StatusNotFound, map[string]interface{}{"message": what + " no encontrado"})
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id
}

func decode(r *http.Request, out interface{}) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[pathID(r)]
	if !ok {
		notFound(w, "Trabajo")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": job})
}

func (s *Server) updateJob(w http.ResponseWriter, r *http.Request) {
	var patch models.JobPatch
	if err := decode(r, &patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[pathID(r)]
	if !ok {
		notFound(w, "Trabajo")
		return
	}
	if patch.Status != nil {
		job.Status = *patch.Status
	}
	if patch.Title != nil {
		job.Title = *patch.Title
	}
	if patch.Description != nil {
		job.Description = *patch.Description
	}
	if patch.BudgetMin != nil {
		job.BudgetMin = models.Number(*patch.BudgetMin)
	}
	if patch.BudgetMax != nil {
		job.BudgetMax = models.Number(*patch.BudgetMax)
	}
	if patch.Department != nil {
		job.Department = *patch.Department
	}
	if patch.Municipality != nil {
		job.Municipality = *patch.Municipality
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": job})
}

func (s *Server) deleteJob(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r)
	if _, ok := s.jobs[id]; !ok {
		notFound(w, "Trabajo")
		return
	}
	delete(s.jobs, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listApplications(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobID := pathID(r)
	apps := []models.Application{}
	for _, app := range s.applications {
		if app.ExpressJobID == jobID {
			apps = append(apps, *app)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": apps})
}

func (s *Server) createApplication(w http.ResponseWriter, r *http.Request) {
	var payload models.NewApplication
	if err := decode(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var userID int64
	for _, p := range s.profiles {
		if p.ID == payload.WorkerID {
			userID = p.UserID
		}
	}
	app := &models.Application{
		ID:            s.id(),
		ExpressJobID:  payload.ExpressJobID,
		WorkerID:      payload.WorkerID,
		UserID:        userID,
		ProposedPrice: models.Number(payload.ProposedPrice),
		EstimatedTime: payload.EstimatedTime,
		Message:       payload.Message,
		Status:        payload.Status,
	}
	s.applications[app.ID] = app
	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": app})
}

func (s *Server) updateApplication(w http.ResponseWriter, r *http.Request) {
	var patch models.ApplicationPatch
	if err := decode(r, &patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.applications[pathID(r)]
	if !ok {
		notFound(w, "Solicitud")
		return
	}
	app.Status = patch.Status
	app.ProposedPrice = models.Number(patch.ProposedPrice)
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": app})
}

func (s *Server) listProfiles(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	items := []models.WorkerProfile{}
	for i := (page - 1) * limit; i < len(s.profiles) && i < page*limit; i++ {
		items = append(items, s.profiles[i])
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": items, "total": len(s.profiles)})
}

func (s *Server) createProfile(w http.ResponseWriter, r *http.Request) {
	var p models.WorkerProfile
	if err := decode(r, &p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	s.profiles = append(s.profiles, p)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": p})
}

func (s *Server) getCandidate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[pathID(r)]
	if !ok {
		notFound(w, "Perfil")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": c})
}

func (s *Server) createConversation(w http.ResponseWriter, r *http.Request) {
	var c models.Conversation
	if err := decode(r, &c); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.conversations {
		if (existing.Participant1 == c.Participant1 && existing.Participant2 == c.Participant2) ||
			(existing.Participant1 == c.Participant2 && existing.Participant2 == c.Participant1) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"data": existing})
			return
		}
	}
	c.ID = s.id()
	s.conversations = append(s.conversations, c)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": c})
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var m models.Message
	if err := decode(r, &m); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.id()
	m.ConversationID = pathID(r)
	s.messages = append(s.messages, m)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": m})
}

func (s *Server) createReview(w http.ResponseWriter, r *http.Request) {
	var review models.WorkerReview
	if err := decode(r, &review); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.reviews {
		if existing.WorkerID == review.WorkerID && existing.ClientID == review.ClientID &&
			existing.ExpressJobID == review.ExpressJobID {
			writeJSON(w, http.StatusConflict, map[string]interface{}{"message": "Ya calificaste este trabajo"})
			return
		}
	}
	review.ID = s.id()
	s.reviews = append(s.reviews, review)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": review})
}

func (s *Server) reviewStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	workerID := pathID(r)
	sum, count := 0, 0
	for _, review := range s.reviews {
		if review.WorkerID == workerID {
			sum += review.Rating
			count++
		}
	}
	avg := 0.0
	if count > 0 {
		avg = float64(sum) / float64(count)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"average_rating": fmt.Sprintf("%.2f", avg), "total_reviews": count})
}

func (s *Server) listLocations(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	items := []models.LocationEntry{}
	for i := (page - 1) * limit; i < len(s.locations) && i < page*limit; i++ {
		items = append(items, s.locations[i])
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": items, "total": len(s.locations)})
}

func (s *Server) createReport(w http.ResponseWriter, r *http.Request) {
	var report models.Report
	if err := decode(r, &report); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": report})
}

func (s *Server) userPhoto(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	url, ok := s.photos[pathID(r)]
	if !ok {
		notFound(w, "Foto")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"photo_url": url})
}
