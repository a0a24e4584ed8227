// Package session owns the authentication state and is the only writer of the
// stored credential.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"jobboard-admin/internal/infrastructure/apiclient"
	"jobboard-admin/internal/infrastructure/credential"
	"jobboard-admin/internal/pkg/jwt"
	"jobboard-admin/internal/store"

	"github.com/sirupsen/logrus"
)

var ErrEmptyToken = errors.New("sign in returned an empty token")

// Authenticator is the slice of the remote API the session needs.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	SignUp(ctx context.Context, email, password string) error
}

type Store struct {
	*store.Store[State]

	api       Authenticator
	creds     credential.Store
	inspector *jwt.Inspector
	logger    *logrus.Logger

	// credMu keeps a credential write and the transition that reflects it
	// together, so logout cannot interleave with a login that is persisting.
	credMu sync.Mutex
}

func New(api Authenticator, creds credential.Store, inspector *jwt.Inspector, logger *logrus.Logger) *Store {
	if inspector == nil {
		inspector = jwt.NewInspector()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{
		Store:     store.New("session", State{}, Reduce, logger),
		api:       api,
		creds:     creds,
		inspector: inspector,
		logger:    logger,
	}
}

func (s *Store) IsAuthenticated() bool {
	return s.State().Authenticated
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	seq := s.NextSeq()
	s.Dispatch(loginPending{seq: seq})

	token, err := s.api.SignIn(ctx, email, password)
	if err == nil && token == "" {
		err = ErrEmptyToken
	}
	if err != nil {
		if _, applied := s.Dispatch(loginRejected{seq: seq, message: apiclient.Message(err)}); !applied {
			return store.ErrSuperseded
		}
		return fmt.Errorf("login: %w", err)
	}

	s.credMu.Lock()
	defer s.credMu.Unlock()

	if !s.State().fence.Current(authKey, seq) {
		return store.ErrSuperseded
	}
	prev, err := s.creds.Token(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("[Session] token read failed")
		prev = ""
	}
	if err := s.creds.SaveToken(ctx, token); err != nil {
		s.logger.WithError(err).Error("[Session] failed to persist token")
		s.Dispatch(loginRejected{seq: seq, message: err.Error()})
		return fmt.Errorf("login: save token: %w", err)
	}
	// A newer identity request may have been issued while the token was
	// being written; the slot must then go back to what the state reflects.
	if _, applied := s.Dispatch(loginFulfilled{seq: seq}); !applied {
		s.restoreToken(ctx, prev)
		return store.ErrSuperseded
	}
	s.logger.Info("[Session] signed in")
	return nil
}

// restoreToken puts prev back into the slot. Callers hold credMu.
func (s *Store) restoreToken(ctx context.Context, prev string) {
	var err error
	if prev == "" {
		err = s.creds.ClearToken(ctx)
	} else {
		err = s.creds.SaveToken(ctx, prev)
	}
	if err != nil {
		s.logger.WithError(err).Error("[Session] failed to restore token")
	}
}

// Register creates an account. It never authenticates; callers log in next.
func (s *Store) Register(ctx context.Context, email, password string) error {
	seq := s.NextSeq()
	s.Dispatch(registerPending{seq: seq})

	if err := s.api.SignUp(ctx, email, password); err != nil {
		if _, applied := s.Dispatch(registerRejected{seq: seq, message: apiclient.Message(err)}); !applied {
			return store.ErrSuperseded
		}
		return fmt.Errorf("register: %w", err)
	}
	if _, applied := s.Dispatch(registerFulfilled{seq: seq}); !applied {
		return store.ErrSuperseded
	}
	return nil
}

// Initialize derives Authenticated from the stored token. Expired or malformed
// tokens are removed from storage.
func (s *Store) Initialize(ctx context.Context) error {
	s.credMu.Lock()
	defer s.credMu.Unlock()

	seq := s.NextSeq()
	s.Dispatch(initializePending{seq: seq})

	token, err := s.creds.Token(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("[Session] token read failed")
		s.Dispatch(initializeResolved{seq: seq, message: err.Error()})
		return fmt.Errorf("initialize: %w", err)
	}
	if token == "" {
		s.Dispatch(initializeResolved{seq: seq})
		return nil
	}

	if err := s.inspector.Check(token); err != nil {
		s.logger.WithField("reason", err.Error()).Info("[Session] discarding stored token")
		if cerr := s.creds.ClearToken(ctx); cerr != nil {
			s.logger.WithError(cerr).Error("[Session] failed to clear token")
		}
		s.Dispatch(initializeResolved{seq: seq})
		return nil
	}

	s.Dispatch(initializeResolved{seq: seq, authenticated: true})
	return nil
}

// Logout always ends unauthenticated. Storage failures are logged, not returned.
func (s *Store) Logout(ctx context.Context) {
	s.credMu.Lock()
	defer s.credMu.Unlock()

	if err := s.creds.ClearToken(ctx); err != nil {
		s.logger.WithError(err).Error("[Session] failed to clear token")
	}
	s.Dispatch(loggedOut{seq: s.NextSeq()})
	s.logger.Info("[Session] signed out")
}

// Expire handles a 401 for a request that carried token. A token saved after
// that request was sent is left alone.
func (s *Store) Expire(ctx context.Context, token string) {
	s.credMu.Lock()
	defer s.credMu.Unlock()

	current, err := s.creds.Token(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("[Session] token read failed")
		return
	}
	if current == "" || current != token {
		return
	}
	if err := s.creds.ClearToken(ctx); err != nil {
		s.logger.WithError(err).Error("[Session] failed to clear token")
	}
	s.Dispatch(expired{})
	s.logger.Warn("[Session] token rejected by api, session expired")
}
