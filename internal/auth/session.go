package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
)

// Session holds the bearer credential the console presents on every request.
// It parses the token's exp claim (unverified; the client holds no signing
// key) so expiry can be reported before the server answers 401, and fires
// OnExpired exactly once per session when expiry is detected either way.
type Session struct {
	mu           sync.Mutex
	http         *http.Client
	baseURL      string
	logger       *zap.Logger
	token        string
	refreshToken string
	expiresAt    time.Time
	onExpired    func()
	expiredFired bool
}

// NewSession constructs a session against the auth endpoints under baseURL.
func NewSession(baseURL string, httpClient *http.Client, logger *zap.Logger) *Session {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{http: httpClient, baseURL: baseURL, logger: logger}
}

// OnExpired registers the hook invoked when the session expires. The caller
// uses it to drop back to the login flow.
func (s *Session) OnExpired(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpired = fn
}

// Token returns the current bearer token, or "" when none is held or the
// token is known to be expired. A locally detected expiry fires OnExpired.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return ""
	}
	if !s.expiresAt.IsZero() && time.Now().After(s.expiresAt) {
		s.expireLocked()
		return ""
	}
	return s.token
}

// SetToken installs a raw bearer token, reading its exp claim when the token
// is a parseable JWT.
func (s *Session) SetToken(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = raw
	s.expiredFired = false
	s.expiresAt = time.Time{}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.expiresAt = exp.Time
	}
}

// Expire marks the session expired, firing OnExpired once. The API client
// calls this when the server answers 401.
func (s *Session) Expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
}

func (s *Session) expireLocked() {
	s.token = ""
	if s.expiredFired {
		return
	}
	s.expiredFired = true
	if s.onExpired != nil {
		s.onExpired()
	}
}

// Active reports whether a usable token is held.
func (s *Session) Active() bool {
	return s.Token() != ""
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login authenticates against POST /auth/login and installs the issued
// token pair.
func (s *Session) Login(ctx context.Context, email, password string) error {
	payload, err := s.post(ctx, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	s.install(payload)
	s.logger.Info("session established", zap.String("email", email))
	return nil
}

// Refresh exchanges the held refresh token for a new access token.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	refresh := s.refreshToken
	s.mu.Unlock()
	if refresh == "" {
		return appErrors.Clone(appErrors.ErrAuthExpired, "no refresh token held")
	}
	payload, err := s.post(ctx, "/auth/refresh", map[string]string{"refresh_token": refresh})
	if err != nil {
		return err
	}
	s.install(payload)
	return nil
}

func (s *Session) install(payload tokenPayload) {
	s.SetToken(payload.AccessToken)
	s.mu.Lock()
	s.refreshToken = payload.RefreshToken
	if s.expiresAt.IsZero() && payload.ExpiresIn > 0 {
		s.expiresAt = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	}
	s.mu.Unlock()
}

func (s *Session) post(ctx context.Context, path string, body any) (tokenPayload, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return tokenPayload{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode auth payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return tokenPayload{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build auth request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return tokenPayload{}, appErrors.Wrap(err, appErrors.ErrNetwork.Code, 0, appErrors.ErrNetwork.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return tokenPayload{}, appErrors.New(appErrors.ErrServer.Code, resp.StatusCode, "authentication failed")
	}

	var envelope struct {
		Data *tokenPayload `json:"data"`
		tokenPayload
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return tokenPayload{}, appErrors.Wrap(err, appErrors.ErrDecode.Code, 0, appErrors.ErrDecode.Message)
	}
	if envelope.Data != nil {
		return *envelope.Data, nil
	}
	return envelope.tokenPayload, nil
}
