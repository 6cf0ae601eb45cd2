package web

import (
	"context"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"redox_tutor/src/logger"
	"redox_tutor/src/model"
	"redox_tutor/src/storage"
	"redox_tutor/src/tutor"

	"github.com/bytedance/sonic"
)

const shutdownTimeout = 10 * time.Second

// Server renders the login, input and wizard screens
type Server struct {
	service    *tutor.Service
	cookieName string
	cookieTTL  time.Duration
	pages      *template.Template
}

// NewServer parses the embedded page templates
func NewServer(service *tutor.Service, config model.SessionConfig) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	ttl := config.TTL
	if ttl <= 0 {
		ttl = storage.SessionTTL
	}
	return &Server{
		service:    service,
		cookieName: config.CookieName,
		cookieTTL:  ttl,
		pages:      pages,
	}, nil
}

// Handler returns the routed handler wrapped in request logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /input", s.handleScreen(model.ScreenInput))
	mux.HandleFunc("GET /wizard", s.handleScreen(model.ScreenWizard))
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.action(s.service.Logout))
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /wizard/check", s.handleCheck)
	mux.HandleFunc("POST /wizard/next", s.action(s.service.Next))
	mux.HandleFunc("POST /wizard/skip", s.action(s.service.Skip))
	mux.HandleFunc("POST /reset", s.action(s.service.Reset))

	return withRequestLogging(mux, s.lookupSession)
}

// ListenAndServe serves handler on addr until ctx is cancelled
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	_, session, err := s.loadOrCreate(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, session)
}

// handleScreen renders a screen, or sends the browser home when the session is elsewhere
func (s *Server) handleScreen(screen model.Screen) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, session, err := s.loadOrCreate(w, r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if session.Screen != screen {
			redirect(w, r, "/")
			return
		}
		s.render(w, r, session)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, body := http.StatusOK, map[string]string{"status": "ok"}
	if err := s.service.Ping(r.Context()); err != nil {
		status, body = http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()}
	}
	data, _ := sonic.ConfigStd.Marshal(body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	token, _, err := s.loadOrCreate(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_, err = s.service.Login(r.Context(), token, r.PostFormValue("username"), r.PostFormValue("email"), r.UserAgent())
	s.finish(w, r, err, "/input")
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	token := s.sessionToken(r)
	if token == "" {
		redirect(w, r, "/")
		return
	}
	session, err := s.service.Analyze(r.Context(), token, r.PostFormValue("equation"))
	if errors.Is(err, tutor.ErrAnalysisFailed) {
		// the banner is already on the session
		redirect(w, r, "/input")
		return
	}
	next := "/input"
	if session != nil && session.Screen == model.ScreenWizard {
		next = "/wizard"
	}
	s.finish(w, r, err, next)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	token := s.sessionToken(r)
	if token == "" {
		redirect(w, r, "/")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fields := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		fields[key] = r.PostForm.Get(key)
	}

	_, _, err := s.service.Check(r.Context(), token, fields)
	if errors.Is(err, tutor.ErrAnalysisFailed) {
		redirect(w, r, "/input")
		return
	}
	s.finish(w, r, err, "/wizard")
}

// action adapts a token-only service call into a POST handler that redirects home
func (s *Server) action(fn func(context.Context, string) (*model.Session, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := s.sessionToken(r)
		if token == "" {
			redirect(w, r, "/")
			return
		}
		_, err := fn(r.Context(), token)
		s.finish(w, r, err, "/")
	}
}

// finish redirects after an action. Expected state errors just send the
// browser to the current screen.
func (s *Server) finish(w http.ResponseWriter, r *http.Request, err error, next string) {
	switch {
	case err == nil:
		redirect(w, r, next)
	case errors.Is(err, storage.ErrSessionNotFound),
		errors.Is(err, tutor.ErrWrongScreen),
		errors.Is(err, tutor.ErrAdvanceLocked),
		errors.Is(err, tutor.ErrTerminalStep),
		errors.Is(err, tutor.ErrNoAnalysis),
		errors.Is(err, tutor.ErrBusy):
		logger.Debug().Err(err).Str("path", r.URL.Path).Msg("Action not applicable")
		redirect(w, r, "/")
	default:
		s.fail(w, r, err)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, session *model.Session) {
	name := string(session.Screen)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.pages.ExecuteTemplate(w, name, newPageData(session)); err != nil {
		logger.Error().Err(err).Str("page", name).Msg("Template execution failed")
	}
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// loadOrCreate returns the cookie's session, starting a new one when it is
// missing or expired. The cookie is re-issued every time so its lifetime
// slides with the stored session's TTL.
func (s *Server) loadOrCreate(w http.ResponseWriter, r *http.Request) (string, *model.Session, error) {
	if token := s.sessionToken(r); token != "" {
		session, err := s.service.Get(r.Context(), token)
		if err == nil {
			s.setCookie(w, token)
			return token, session, nil
		}
		if !errors.Is(err, storage.ErrSessionNotFound) {
			return "", nil, err
		}
	}

	token, session, err := s.service.Create(r.Context())
	if err != nil {
		return "", nil, err
	}
	s.setCookie(w, token)
	return token, session, nil
}

func (s *Server) setCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.cookieTTL.Seconds()),
	})
}

func (s *Server) sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *Server) lookupSession(r *http.Request) string {
	token := s.sessionToken(r)
	if len(token) > 8 {
		token = token[:8]
	}
	return token
}
