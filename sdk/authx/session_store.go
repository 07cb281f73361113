package authx

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/krancour/kurban/sdk/meta"
	"github.com/krancour/kurban/sdk/tokens"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// SessionState is the lifecycle state of a SessionStore.
type SessionState string

const (
	// SessionStateAnonymous indicates no session is held.
	SessionStateAnonymous SessionState = "anonymous"
	// SessionStateAuthenticating indicates a login is in flight.
	SessionStateAuthenticating SessionState = "authenticating"
	// SessionStateAuthenticated indicates a session is held.
	SessionStateAuthenticated SessionState = "authenticated"
	// SessionStateError indicates the most recent login failed. No session is
	// held in this state.
	SessionStateError SessionState = "error"
)

// Session is an authenticated staff member's session.
type Session struct {
	User
	// Token is the session's bearer token.
	Token string `json:"-"`
}

// SessionExpirySource publishes an event whenever the API server rejects the
// session's credentials.
type SessionExpirySource interface {
	OnSessionExpired(handler func()) (unsubscribe func())
}

// SessionStore is the single source of truth for who is logged in and what
// they are permitted to do.
//
// Concurrent calls to Login are not serialized. Whichever completes last
// determines the resulting state.
type SessionStore struct {
	sessionsClient SessionsClient
	store          tokens.Store
	logger         logrus.FieldLogger
	unsubscribe    func()

	// persistMu serializes changes to persisted credentials with the session
	// they describe, so that an expiry can tell a purged session from one
	// that has already been replaced.
	persistMu sync.Mutex

	mu       sync.RWMutex
	state    SessionState
	session  *Session
	errorMsg string
}

// NewSessionStore returns a SessionStore that logs in using the given
// SessionsClient, persists credentials to the given Store and tears the
// session down whenever the given SessionExpirySource publishes. The
// expiry source may be nil.
func NewSessionStore(
	sessionsClient SessionsClient,
	store tokens.Store,
	expiry SessionExpirySource,
	logger logrus.FieldLogger,
) *SessionStore {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &SessionStore{
		sessionsClient: sessionsClient,
		store:          store,
		logger:         logger,
		state:          SessionStateAnonymous,
	}
	if expiry != nil {
		s.unsubscribe = expiry.OnSessionExpired(s.expire)
	}
	return s
}

// Close stops listening for session expiry.
func (s *SessionStore) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Login exchanges the given credentials for a session. On failure, a
// user-facing message is made available through ErrorMessage, any held
// session is discarded and the original error is returned.
func (s *SessionStore) Login(
	ctx context.Context,
	identifier string,
	secret string,
) error {
	s.mu.Lock()
	s.state = SessionStateAuthenticating
	s.errorMsg = ""
	s.mu.Unlock()

	result, err := s.sessionsClient.Login(
		ctx,
		LoginCredentials{
			PhoneOrEmail: identifier,
			Password:     secret,
		},
	)
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err != nil {
		s.fail(ctx, err)
		return err
	}

	user := result.User
	if user.Roles == nil {
		user.Roles = Roles{RoleAdmin}
	}

	if err = tokens.SaveCredentials(
		ctx,
		s.store,
		&oauth2.Token{
			AccessToken:  result.Token,
			RefreshToken: result.RefreshToken,
		},
	); err != nil {
		err = errors.Wrap(err, "error persisting credentials")
		s.fail(ctx, err)
		return err
	}
	if err = s.saveProfile(ctx, user); err != nil {
		// The session remains usable; only rehydration will lack the profile.
		s.logger.WithError(err).Warn("error persisting session profile")
	}

	s.mu.Lock()
	s.session = &Session{
		User:  user,
		Token: result.Token,
	}
	s.state = SessionStateAuthenticated
	s.errorMsg = ""
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"user":  user.ID,
		"roles": []string(user.Roles),
	}).Info("logged in")
	return nil
}

// Logout discards the session and all persisted credentials. Logging out when
// no session is held is a no-op.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	hadSession := s.session != nil
	s.session = nil
	s.state = SessionStateAnonymous
	s.errorMsg = ""
	s.mu.Unlock()

	if err := s.store.Delete(
		ctx,
		tokens.AccessTokenKey,
		tokens.RefreshTokenKey,
		tokens.SessionKey,
	); err != nil {
		return errors.Wrap(err, "error purging persisted session")
	}
	if hadSession {
		s.logger.Info("logged out")
	}
	return nil
}

// Rehydrate restores a session from persisted credentials, if there are any.
// A persisted token whose profile is missing or unreadable still yields an
// authenticated session, but one holding no roles.
func (s *SessionStore) Rehydrate(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	token, err := tokens.LoadCredentials(ctx, s.store)
	if err != nil {
		return errors.Wrap(err, "error loading persisted credentials")
	}
	if token == nil {
		s.mu.Lock()
		s.session = nil
		s.state = SessionStateAnonymous
		s.mu.Unlock()
		return nil
	}
	user := User{}
	profileJSON, ok, err := s.store.Get(ctx, tokens.SessionKey)
	if err != nil {
		s.logger.WithError(err).Warn("error reading persisted session profile")
	} else if ok {
		if err = json.Unmarshal([]byte(profileJSON), &user); err != nil {
			s.logger.WithError(err).Warn("ignoring unreadable session profile")
			user = User{}
		}
	}
	s.mu.Lock()
	s.session = &Session{
		User:  user,
		Token: token.AccessToken,
	}
	s.state = SessionStateAuthenticated
	s.errorMsg = ""
	s.mu.Unlock()
	return nil
}

// HasRole returns true if the session holds the super-role or every one of the
// given roles. It always returns false when no session is held.
func (s *SessionStore) HasRole(roles ...string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return false
	}
	return s.session.Roles.HasAll(roles...)
}

// HasAnyRole returns true if the session holds the super-role or at least one
// of the given roles. It always returns false when no session is held.
func (s *SessionStore) HasAnyRole(roles ...string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return false
	}
	return s.session.Roles.HasAny(roles...)
}

// IsAuthenticated returns true if a session with a bearer token is held.
func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil && s.session.Token != ""
}

// Session returns a copy of the current session. The boolean return value is
// false when no session is held.
func (s *SessionStore) Session() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return Session{}, false
	}
	session := *s.session
	session.Roles = append(Roles(nil), s.session.Roles...)
	return session, true
}

// State returns the current lifecycle state.
func (s *SessionStore) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ErrorMessage returns the user-facing message describing the most recent
// login failure, if any.
func (s *SessionStore) ErrorMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errorMsg
}

// ClearError resets the error message and nothing else.
func (s *SessionStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorMsg = ""
}

// fail must be called with persistMu held.
func (s *SessionStore) fail(ctx context.Context, err error) {
	s.mu.Lock()
	s.session = nil
	s.state = SessionStateError
	s.errorMsg = loginErrorMessage(err)
	s.mu.Unlock()
	// No token may be held in the error state. The caller's context may be
	// the reason for the failure, so it is not allowed to cancel the purge.
	if purgeErr := s.store.Delete(
		context.WithoutCancel(ctx),
		tokens.AccessTokenKey,
		tokens.RefreshTokenKey,
		tokens.SessionKey,
	); purgeErr != nil {
		s.logger.WithError(purgeErr).Error(
			"error purging credentials after failed login",
		)
	}
	s.logger.WithError(err).Warn("login failed")
}

// expire is invoked after the transport has already purged the rejected
// credentials. If credentials are on record again by the time it runs, a newer
// login has replaced the rejected session and there is nothing to expire.
func (s *SessionStore) expire() {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	ctx := context.Background()
	token, err := tokens.LoadCredentials(ctx, s.store)
	if err != nil {
		s.logger.WithError(err).Error("error reading credentials after expiry")
		return
	}
	if token != nil {
		s.logger.Debug("ignoring expiry of superseded credentials")
		return
	}
	s.mu.Lock()
	s.session = nil
	s.state = SessionStateAnonymous
	s.mu.Unlock()
	if err = s.store.Delete(ctx, tokens.SessionKey); err != nil {
		s.logger.WithError(err).Error("error purging session profile")
	}
	s.logger.Info("session expired")
}

func (s *SessionStore) saveProfile(ctx context.Context, user User) error {
	profileJSON, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "error marshaling session profile")
	}
	return s.store.Set(ctx, tokens.SessionKey, string(profileJSON))
}

func loginErrorMessage(err error) string {
	var authnErr *meta.ErrAuthentication
	var badReqErr *meta.ErrBadRequest
	var timeoutErr *meta.ErrTimeout
	var malformedErr *meta.ErrMalformedResponse
	switch {
	case errors.As(err, &authnErr):
		if authnErr.Reason != "" {
			return authnErr.Reason
		}
		return "Incorrect phone number, email address or password."
	case errors.As(err, &badReqErr):
		if badReqErr.Reason != "" {
			return badReqErr.Reason
		}
		return "Please check the details you entered."
	case errors.As(err, &timeoutErr):
		return "The server took too long to respond. Please try again."
	case errors.As(err, &malformedErr):
		return "The server sent an unexpected response. Please try again later."
	}
	return "Login failed. Please try again."
}
