// Package backendtest provides an in-process fake of the processing service
// for exercising the task client.
package backendtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"colorAverager/client/dto"
)

// Reply is one scripted answer to a status request.
type Reply struct {
	Code     int
	Snapshot dto.StatusSnapshot
}

func Running(progress float64, message string) Reply {
	return Reply{Code: http.StatusOK, Snapshot: dto.StatusSnapshot{Status: "running", Progress: progress, Message: message}}
}

func Phase(status string, progress float64, message string) Reply {
	return Reply{Code: http.StatusOK, Snapshot: dto.StatusSnapshot{Status: status, Progress: progress, Message: message}}
}

func Completed(results *dto.ResultPayload) Reply {
	return Reply{Code: http.StatusOK, Snapshot: dto.StatusSnapshot{
		Status:   "completed",
		Progress: 100,
		Message:  "Processing complete!",
		Results:  results,
	}}
}

func Failed(message string) Reply {
	return Reply{Code: http.StatusOK, Snapshot: dto.StatusSnapshot{Status: "error", Message: message}}
}

func HTTPError(code int) Reply {
	return Reply{Code: code}
}

type Server struct {
	*httptest.Server

	t           testing.TB
	mu          sync.Mutex
	taskIDs     []string
	submitCode  int
	submissions []dto.JobRequest
	scripts     map[string][]Reply
	statusHits  map[string]int
	gates       map[string]chan struct{}
	files       map[string][]byte
}

func New(t testing.TB) *Server {
	s := &Server{
		t:          t,
		scripts:    make(map[string][]Reply),
		statusHits: make(map[string]int),
		gates:      make(map[string]chan struct{}),
		files:      make(map[string][]byte),
	}

	r := chi.NewRouter()
	r.Post("/api/process", s.process)
	r.Get("/api/status/{taskID}", s.status)
	r.Get("/api/image/{taskID}/{filename}", s.file)
	r.Get("/api/download/{taskID}/{filename}", s.file)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)

	return s
}

// QueueTaskIDs fixes the ids handed out by the next submissions.
func (s *Server) QueueTaskIDs(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskIDs = append(s.taskIDs, ids...)
}

// FailSubmit makes every submission answer with code.
func (s *Server) FailSubmit(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitCode = code
}

// Script sets the status replies for a task. Replies are consumed in order
// and the last one repeats.
func (s *Server) Script(taskID string, replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[taskID] = replies
}

// Hold blocks status requests for taskID until the returned func is called.
func (s *Server) Hold(taskID string) (release func()) {
	ch := make(chan struct{})

	s.mu.Lock()
	s.gates[taskID] = ch
	s.mu.Unlock()

	var once sync.Once
	release = func() { once.Do(func() { close(ch) }) }
	s.t.Cleanup(release)

	return release
}

func (s *Server) PutFile(taskID, filename string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[taskID+"/"+filename] = data
}

func (s *Server) Submissions() []dto.JobRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dto.JobRequest(nil), s.submissions...)
}

func (s *Server) StatusRequests(taskID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusHits[taskID]
}

func (s *Server) TotalStatusRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, n := range s.statusHits {
		total += n
	}
	return total
}

func (s *Server) process(w http.ResponseWriter, r *http.Request) {
	var req dto.JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Request must be JSON"})
		return
	}

	s.mu.Lock()
	s.submissions = append(s.submissions, req)
	code := s.submitCode
	var taskID string
	if len(s.taskIDs) > 0 {
		taskID, s.taskIDs = s.taskIDs[0], s.taskIDs[1:]
	} else {
		taskID = uuid.New().String()
	}
	s.mu.Unlock()

	if code != 0 {
		respondJSON(w, code, dto.ErrorResponse{Error: "Video processing not available"})
		return
	}

	respondJSON(w, http.StatusOK, dto.SubmitResponse{TaskID: taskID})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	s.mu.Lock()
	s.statusHits[taskID]++
	gate := s.gates[taskID]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	s.mu.Lock()
	replies, ok := s.scripts[taskID]
	var reply Reply
	if ok && len(replies) > 0 {
		reply = replies[0]
		if len(replies) > 1 {
			s.scripts[taskID] = replies[1:]
		}
	}
	s.mu.Unlock()

	if !ok || len(replies) == 0 {
		respondJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Task not found"})
		return
	}
	if reply.Code != http.StatusOK {
		respondJSON(w, reply.Code, dto.ErrorResponse{Error: http.StatusText(reply.Code)})
		return
	}

	respondJSON(w, http.StatusOK, reply.Snapshot)
}

func (s *Server) file(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "taskID") + "/" + chi.URLParam(r, "filename")

	s.mu.Lock()
	data, ok := s.files[key]
	s.mu.Unlock()

	if !ok {
		respondJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "File not found"})
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
