// Package remotetest runs an in-memory stand-in for the hosted notes API.
package remotetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/sagar5412/webNotes/internal/model"
	"github.com/sagar5412/webNotes/internal/storage"
)

// Route names, as registered on the mux.
const (
	ListNotes    = "GET /notes"
	GetNote      = "GET /notes/{id}"
	CreateNote   = "POST /notes"
	UpdateNote   = "PUT /notes/{id}"
	DeleteNote   = "DELETE /notes/{id}"
	MoveNote     = "PATCH /notes/{id}/move"
	PinNote      = "PATCH /notes/{id}/pin"
	ListFolders  = "GET /folders"
	CreateFolder = "POST /folders"
	RenameFolder = "PATCH /folders/{id}/rename"
	DeleteFolder = "DELETE /folders/{id}"
	Session      = "GET /auth/session"
)

// Token is the session token the server accepts.
const Token = "test-session"

// Server is an httptest server holding one user's notes and folders.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	notes    []model.Note
	folders  []model.Folder
	signedIn bool
	failures map[string]int
	calls    map[string]int
	seq      int
	now      time.Time
}

// New starts a server with a signed-in user.
func New() *Server {
	s := &Server{
		signedIn: true,
		failures: make(map[string]int),
		calls:    make(map[string]int),
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	mux := http.NewServeMux()
	routes := map[string]http.HandlerFunc{
		ListNotes:    s.listNotes,
		GetNote:      s.getNote,
		CreateNote:   s.createNote,
		UpdateNote:   s.updateNote,
		DeleteNote:   s.deleteNote,
		MoveNote:     s.moveNote,
		PinNote:      s.pinNote,
		ListFolders:  s.listFolders,
		CreateFolder: s.createFolder,
		RenameFolder: s.renameFolder,
		DeleteFolder: s.deleteFolder,
		Session:      s.session,
	}
	for pattern, h := range routes {
		mux.HandleFunc(pattern, s.wrap(pattern, h))
	}
	s.Server = httptest.NewServer(mux)
	return s
}

// wrap counts the call, injects configured failures and checks the session.
func (s *Server) wrap(pattern string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[pattern]++
		status, failing := s.failures[pattern]
		if !failing {
			status, failing = s.failures["*"]
			failing = failing && pattern != Session
		}
		signedIn := s.signedIn
		s.mu.Unlock()

		if failing {
			writeJSON(w, status, map[string]string{"error": "injected failure"})
			return
		}
		if pattern == Session {
			next(w, r)
			return
		}
		if !signedIn || r.Header.Get("Authorization") != "Bearer "+Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}
		next(w, r)
	}
}

// Fail makes every call to route answer with status until Recover is called.
// Route "*" fails every route but the session probe.
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = status
}

// Recover clears all injected failures.
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.failures)
}

// SetSignedIn toggles whether the session is valid.
func (s *Server) SetSignedIn(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signedIn = on
}

// Calls returns the number of requests to data routes, excluding the
// session probe.
func (s *Server) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for route, n := range s.calls {
		if route != Session {
			total += n
		}
	}
	return total
}

// CallsTo returns the number of requests to one route.
func (s *Server) CallsTo(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// ResetCalls zeroes the call counters.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.calls)
}

// Notes returns a copy of the stored notes.
func (s *Server) Notes() []model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notes)
}

// Folders returns a copy of the stored folders.
func (s *Server) Folders() []model.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.folders)
}

func (s *Server) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *Server) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *Server) findNote(id string) int {
	return slices.IndexFunc(s.notes, func(n model.Note) bool { return n.ID == id })
}

func (s *Server) findFolder(id string) int {
	return slices.IndexFunc(s.folders, func(f model.Folder) bool { return f.ID == id })
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	signedIn := s.signedIn
	s.mu.Unlock()

	if !signedIn {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": map[string]string{"id": "user-1", "email": "ada@example.com"}})
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := []model.Note{}
	q := r.URL.Query()
	for _, n := range s.notes {
		if q.Has("folderId") {
			want := q.Get("folderId")
			if want == "null" && n.FolderID != nil {
				continue
			}
			if want != "null" && (n.FolderID == nil || *n.FolderID != want) {
				continue
			}
		}
		notes = append(notes, n)
	}
	storage.SortForDisplay(notes)
	writeJSON(w, http.StatusOK, notes)
}

func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findNote(r.PathValue("id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Note not found"})
		return
	}
	writeJSON(w, http.StatusOK, s.notes[i])
}

type noteBody struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	FolderID *string `json:"folderId"`
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var req noteBody
	json.NewDecoder(r.Body).Decode(&req)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick()
	n := model.Note{
		ID:        s.nextID("note"),
		Title:     "New Note",
		UserID:    "user-1",
		FolderID:  req.FolderID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Title != nil && *req.Title != "" {
		n.Title = *req.Title
	}
	if req.Content != nil {
		n.Content = *req.Content
	}
	s.notes = append(s.notes, n)
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	var req noteBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findNote(r.PathValue("id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Note not found or access denied"})
		return
	}
	// Same replace semantics as the hosted API: omitted fields are reset.
	s.notes[i].Title = "New Note"
	if req.Title != nil {
		s.notes[i].Title = *req.Title
	}
	s.notes[i].Content = ""
	if req.Content != nil {
		s.notes[i].Content = *req.Content
	}
	s.notes[i].UpdatedAt = s.tick()
	writeJSON(w, http.StatusOK, s.notes[i])
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findNote(r.PathValue("id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Note not found or access denied"})
		return
	}
	s.notes = slices.Delete(s.notes, i, i+1)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Note deleted successfully"})
}

func (s *Server) moveNote(w http.ResponseWriter, r *http.Request) {
	var req noteBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findNote(r.PathValue("id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Note not found or access denied"})
		return
	}
	s.notes[i].FolderID = req.FolderID
	s.notes[i].UpdatedAt = s.tick()
	writeJSON(w, http.StatusOK, s.notes[i])
}

func (s *Server) pinNote(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findNote(r.PathValue("id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Note not found or access denied"})
		return
	}
	n := &s.notes[i]
	n.IsPinned = !n.IsPinned
	if n.IsPinned {
		now := s.tick()
		n.PinnedAt = &now
	} else {
		n.PinnedAt = nil
	}
	writeJSON(w, http.StatusOK, *n)
}

func (s *Server) listFolders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	folders := slices.Clone(s.folders)
	slices.SortStableFunc(folders, func(a, b model.Folder) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if folders == nil {
		folders = []model.Folder{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"folders": folders})
}

type folderBody struct {
	Name    string `json:"name"`
	NewName string `json:"newName"`
}

func (s *Server) createFolder(w http.ResponseWriter, r *http.Request) {
	var req folderBody
	json.NewDecoder(r.Body).Decode(&req)
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Folder name is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f := model.Folder{ID: s.nextID("folder"), Name: req.Name, UserID: "user-1", CreatedAt: s.tick()}
	s.folders = append(s.folders, f)
	writeJSON(w, http.StatusCreated, map[string]any{"folder": f})
}

func (s *Server) renameFolder(w http.ResponseWriter, r *http.Request) {
	var req folderBody
	json.NewDecoder(r.Body).Decode(&req)
	if strings.TrimSpace(req.NewName) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid name provided"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findFolder(r.PathValue("id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Folder not found or access denied"})
		return
	}
	s.folders[i].Name = req.NewName
	writeJSON(w, http.StatusOK, map[string]string{"message": "Folder renamed successfully"})
}

func (s *Server) deleteFolder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := r.PathValue("id")
	i := s.findFolder(id)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Folder not found or access denied"})
		return
	}
	s.folders = slices.Delete(s.folders, i, i+1)
	for j := range s.notes {
		if s.notes[j].FolderID != nil && *s.notes[j].FolderID == id {
			s.notes[j].FolderID = nil
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Folder deleted successfully"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
