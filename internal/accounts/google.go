package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"resume-builder/internal/shared/server/respond"
)

var userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleLogin signs users in through Google OAuth and hands the session token to the UI.
type GoogleLogin struct {
	svc         *Service
	oauthConfig *oauth2.Config
	uiRedirect  string
	stateTTL    time.Duration
	states      *stateStore
}

func NewGoogleLogin(svc *Service, clientID, clientSecret, redirectURL, uiRedirect string) *GoogleLogin {
	return &GoogleLogin{
		svc: svc,
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		uiRedirect: uiRedirect,
		stateTTL:   5 * time.Minute,
		states:     newStateStore(),
	}
}

func (g *GoogleLogin) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", g.start)
	rg.GET("/auth/google/callback", g.callback)
}

func (g *GoogleLogin) configured() bool {
	return g.oauthConfig.ClientID != "" && g.oauthConfig.ClientSecret != "" && g.oauthConfig.RedirectURL != ""
}

func (g *GoogleLogin) start(c *gin.Context) {
	if !g.configured() {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google auth not configured", nil)
		return
	}
	state := uuid.NewString()
	g.states.put(state, time.Now().Add(g.stateTTL))
	c.Redirect(http.StatusFound, g.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

func (g *GoogleLogin) callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}
	if !g.states.consume(state) {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	ctx := c.Request.Context()
	token, err := g.oauthConfig.Exchange(ctx, code)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}
	info, err := g.fetchUserInfo(ctx, token)
	if err != nil || info.Sub == "" {
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch user profile", nil)
		return
	}

	user, err := g.svc.UpsertFromAuth(ctx, User{
		ID:         "google:" + info.Sub,
		Email:      info.Email,
		FullName:   info.Name,
		PictureURL: info.Picture,
		Provider:   ProviderGoogle,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store user", nil)
		return
	}
	session, err := g.svc.IssueSession(user)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	redirectURL, err := appendToken(g.uiRedirect, session.Token)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to redirect", nil)
		return
	}
	c.Redirect(http.StatusFound, redirectURL)
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (g *GoogleLogin) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	resp, err := g.oauthConfig.Client(ctx, token).Get(userInfoURL)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}
	// The v2 endpoint answers with "id" rather than "sub".
	if info.Sub == "" {
		info.Sub = info.ID
	}
	return info, nil
}

type stateStore struct {
	mu    sync.Mutex
	items map[string]time.Time
}

func newStateStore() *stateStore {
	return &stateStore{items: make(map[string]time.Time)}
}

func (s *stateStore) put(state string, exp time.Time) {
	s.mu.Lock()
	s.items[state] = exp
	s.mu.Unlock()
}

// consume reports whether state was issued and unexpired. A state is usable once.
func (s *stateStore) consume(state string) bool {
	s.mu.Lock()
	exp, ok := s.items[state]
	delete(s.items, state)
	s.mu.Unlock()
	return ok && time.Now().Before(exp)
}

func appendToken(rawURL, token string) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
