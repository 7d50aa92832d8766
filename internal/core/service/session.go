package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"

	"github.com/pantrylab/pantry/internal/core/domain"
	"github.com/pantrylab/pantry/internal/graph"
	"github.com/pantrylab/pantry/internal/platform/errors"
	"github.com/pantrylab/pantry/internal/port"
)

// Session is the result of a session-existence check. When Authenticated is
// false the caller must redirect to the login entry point (LoginRedirect)
// rather than render an in-page error.
type Session struct {
	Authenticated bool
	Viewer        *domain.Viewer
	InitialCart   *domain.CartSnapshot
	Providers     []domain.ProviderInfo
}

// SessionService resolves session validity once per navigation and supplies
// the viewer identity and the initial cart snapshot used to seed the cart
// service.
type SessionService struct {
	mu       sync.RWMutex
	exec     port.Executor
	prefs    *PreferenceStore
	notifier port.Notifier
	viewer   *domain.Viewer
}

func NewSessionService(exec port.Executor, prefs *PreferenceStore, notifier port.Notifier) *SessionService {
	return &SessionService{
		exec:     exec,
		prefs:    prefs,
		notifier: notifier,
	}
}

type viewerPayload struct {
	Viewer *struct {
		domain.Viewer
		CurrentCart *domain.CartSnapshot `json:"currentCart"`
	} `json:"viewer"`
	ProProviders []domain.ProviderInfo `json:"proProviders"`
}

// Authenticate performs the session bootstrap query: viewer identity, the
// current cart and the providers the server offers, in one round trip. An
// invalid session yields Authenticated == false, never an error; transport
// failures are treated the same way since the caller's only recourse is the
// login redirect either way.
func (s *SessionService) Authenticate(ctx context.Context) Session {
	vars := map[string]any{"price": string(s.prefs.Get().AggregateDisplayPrice)}

	result, err := graph.Await(ctx, s.exec.Execute(ctx, graph.ViewerInfoQuery, vars))
	if err != nil {
		log.Printf("session: user is not authenticated: %v", err)
		s.setViewer(nil)
		return Session{}
	}

	var payload viewerPayload
	if err := json.Unmarshal(result.Data, &payload); err != nil {
		log.Printf("session: decode viewer: %v", err)
		s.setViewer(nil)
		return Session{}
	}
	if payload.Viewer == nil {
		s.setViewer(nil)
		return Session{}
	}

	viewer := payload.Viewer.Viewer
	s.setViewer(&viewer)

	return Session{
		Authenticated: true,
		Viewer:        &viewer,
		InitialCart:   payload.Viewer.CurrentCart,
		Providers:     payload.ProProviders,
	}
}

// Login submits credentials and records the resulting viewer.
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.Viewer, error) {
	vars := map[string]any{"email": email, "password": password}

	result, err := graph.Await(ctx, s.exec.Execute(ctx, graph.SubmitLogin, vars))
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnauthenticated, "login", err)
	}

	var payload struct {
		Login struct {
			User domain.Viewer `json:"user"`
		} `json:"login"`
	}
	if err := json.Unmarshal(result.Data, &payload); err != nil {
		return nil, errors.Wrap(errors.CodeUnauthenticated, "decode login", err)
	}

	s.setViewer(&payload.Login.User)
	return &payload.Login.User, nil
}

// Logout ends the session. The caller discards its cart service; the
// snapshot belongs to the session.
func (s *SessionService) Logout(ctx context.Context) error {
	_, err := graph.Await(ctx, s.exec.Execute(ctx, graph.LogoutMutation, nil))
	s.setViewer(nil)
	if err != nil {
		return errors.Wrap(errors.CodeOperationFailed, "logout", err)
	}
	return nil
}

func (s *SessionService) setViewer(viewer *domain.Viewer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewer = viewer
}

// Viewer returns the authenticated viewer, if any.
func (s *SessionService) Viewer() *domain.Viewer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewer
}

func (s *SessionService) IsAuthenticated() bool {
	return s.Viewer() != nil
}

// LoginRedirect builds the login entry point target, preserving the
// originally requested path so navigation resumes after login.
func LoginRedirect(requestedPath string) string {
	if requestedPath == "" {
		return "/login"
	}
	return "/login?redirect=" + url.QueryEscape(requestedPath)
}

// VerifyProvider resolves a raw route parameter to a known provider. An
// unknown provider is a client error distinct from server errors: the user
// is told to navigate back and a 401-class coded error is returned.
func VerifyProvider(raw string, notifier port.Notifier) (domain.Provider, error) {
	if provider, ok := domain.ParseProvider(raw); ok {
		return provider, nil
	}

	notifier.Error(
		fmt.Sprintf("Provider in URL (%s) is not valid, please try going back to the main site.", raw),
		"Invalid Provider",
	)

	return "", errors.WithMetadata(
		errors.CodeProviderUnknown,
		fmt.Sprintf("invalid provider: %s", raw),
		map[string]string{"provider": raw},
	)
}
