package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/manifold/taskcoach/pkg/collection"
	"github.com/manifold/taskcoach/pkg/command"
	"github.com/manifold/taskcoach/pkg/composite"
	"github.com/manifold/taskcoach/pkg/console"
	"github.com/manifold/taskcoach/pkg/misc/logging"
	"github.com/manifold/taskcoach/pkg/task"
	"github.com/urfave/negroni"
)

const (
	DefaultAddr         = "127.0.0.1:7780"
	DefaultJournalLines = 200
)

// Server is an HTTP inspector for a task list. Every request that touches
// the list holds Lock, so the server is the list's only writer while it
// runs; share Lock with anything else reading the list.
type Server struct {
	Addr     string
	Username string
	Password string

	Log          logging.Logger
	Tasks        *task.TaskList
	History      *command.History
	Journal      *console.Journal
	JournalLines int
	Lock         sync.Locker

	listener net.Listener
	http     *http.Server
}

func (s *Server) InitializeDaemon() error {
	if s.Lock == nil {
		s.Lock = &sync.Mutex{}
	}
	if s.History == nil {
		s.History = command.NewHistory()
	}
	addr := s.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = l
	logging.Info(s.Log, "server: listening on", s.URL())
	return nil
}

// URL is the base URL once the server is listening.
func (s *Server) URL() string {
	if s.listener == nil {
		return ""
	}
	return "http://" + s.listener.Addr().String()
}

func (s *Server) Serve(ctx context.Context) {
	if s.listener == nil {
		if err := s.InitializeDaemon(); err != nil {
			logging.Error(s.Log, "server:", err)
			return
		}
	}
	s.http = &http.Server{Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.http.Shutdown(shutdown)
	}()
	if err := s.http.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Error(s.Log, "server:", err)
	}
}

// Handler is the middleware stack around the API routes.
func (s *Server) Handler() http.Handler {
	if s.Lock == nil {
		s.Lock = &sync.Mutex{}
	}
	if s.History == nil {
		s.History = command.NewHistory()
	}

	recovery := negroni.NewRecovery()
	recovery.PrintStack = false
	requests := negroni.NewLogger()
	if s.Log != nil {
		recovery.Logger = printer{s.Log}
		requests.ALogger = printer{s.Log}
	}
	n := negroni.New(recovery, requests)
	if s.Username != "" {
		n.Use(&SingleUserBasicAuth{Username: s.Username, Password: s.Password})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks", s.listTasks)
	mux.HandleFunc("POST /tasks", s.addTask)
	mux.HandleFunc("POST /tasks/{id}/done", s.markDone)
	mux.HandleFunc("DELETE /tasks/{id}", s.deleteTask)
	mux.HandleFunc("POST /undo", s.undo)
	mux.HandleFunc("POST /redo", s.redo)
	mux.HandleFunc("GET /events", s.events)
	n.UseHandler(mux)
	return n
}

type taskView struct {
	ID        string `json:"id"`
	Subject   string `json:"subject"`
	Completed bool   `json:"completed"`
	ParentID  string `json:"parentId,omitempty"`
	Depth     int    `json:"depth"`
}

func viewOf(t *task.Task, depth int) taskView {
	v := taskView{ID: t.ID(), Subject: t.Subject(), Completed: t.Completed(), Depth: depth}
	if parent := t.ParentTask(); parent != nil {
		v.ParentID = parent.ID()
	}
	return v
}

type historyView struct {
	Undo string `json:"undo,omitempty"`
	Redo string `json:"redo,omitempty"`
}

// listTasks answers with the task tree in sort order. Query parameters:
// sort (subject, completed, id), desc, hideCompleted and q (subject
// substring).
func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	key := query.Get("sort")
	if key == "" {
		key = "subject"
	}

	s.Lock.Lock()
	defer s.Lock.Unlock()

	var view collection.Observable[composite.Composite] = s.Tasks
	if query.Get("hideCompleted") != "" {
		f := task.NewFilter(view, task.ActiveOnly)
		defer f.Detach()
		view = f
	}
	if q := query.Get("q"); q != "" {
		f := task.NewFilter(view, task.SubjectContains(q))
		defer f.Detach()
		view = f
	}
	sorter, err := task.NewSorter(view, key, query.Get("desc") == "")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer sorter.Detach()

	tasks := []taskView{}
	for _, t := range sorter.SortedTree() {
		depth := 0
		for p := t.ParentTask(); p != nil && sorter.Contains(p); p = p.ParentTask() {
			depth++
		}
		tasks = append(tasks, viewOf(t, depth))
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) addTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subject string `json:"subject"`
		Parent  string `json:"parent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Subject == "" {
		http.Error(w, "subject is required", http.StatusBadRequest)
		return
	}

	s.Lock.Lock()
	defer s.Lock.Unlock()

	cmd := &task.NewTaskCommand{List: s.Tasks, Subject: req.Subject}
	if req.Parent != "" {
		if cmd.Parent = s.Tasks.Find(req.Parent); cmd.Parent == nil {
			http.Error(w, "no task "+req.Parent, http.StatusNotFound)
			return
		}
	}
	if err := s.History.Do(cmd); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(cmd.Task(), 0))
}

func (s *Server) markDone(w http.ResponseWriter, r *http.Request) {
	s.onTask(w, r, func(t *task.Task) command.Command {
		return &task.MarkCompletedCommand{Tasks: []*task.Task{t}, Completed: true}
	})
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	s.onTask(w, r, func(t *task.Task) command.Command {
		return &task.DeleteCommand{List: s.Tasks, Tasks: []*task.Task{t}}
	})
}

func (s *Server) onTask(w http.ResponseWriter, r *http.Request, newCommand func(*task.Task) command.Command) {
	id := r.PathValue("id")

	s.Lock.Lock()
	defer s.Lock.Unlock()

	t := s.Tasks.Find(id)
	if t == nil {
		http.Error(w, "no task "+id, http.StatusNotFound)
		return
	}
	if err := s.History.Do(newCommand(t)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(t, 0))
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	s.step(w, s.History.Undo)
}

func (s *Server) redo(w http.ResponseWriter, r *http.Request) {
	s.step(w, s.History.Redo)
}

func (s *Server) step(w http.ResponseWriter, fn func() error) {
	s.Lock.Lock()
	defer s.Lock.Unlock()

	if err := fn(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var v historyView
	if s.History.HasHistory() {
		v.Undo = s.History.UndoLabel("Undo")
	}
	if s.History.HasFuture() {
		v.Redo = s.History.RedoLabel("Redo")
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	if s.Journal == nil {
		writeJSON(w, http.StatusOK, []string{})
		return
	}
	n := s.JournalLines
	if n <= 0 {
		n = DefaultJournalLines
	}
	if v := r.URL.Query().Get("n"); v != "" {
		var err error
		if n, err = strconv.Atoi(v); err != nil {
			http.Error(w, "bad n: "+v, http.StatusBadRequest)
			return
		}
	}
	lines := s.Journal.Tail(n)
	if lines == nil {
		lines = []string{}
	}
	writeJSON(w, http.StatusOK, lines)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
