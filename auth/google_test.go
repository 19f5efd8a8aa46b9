package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestAuthURLCarriesStateAndScopes(t *testing.T) {
	g := NewGoogle("client-id", "secret", "https://example.com/callback")

	raw := g.AuthURL("state-token")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	q := u.Query()
	if q.Get("client_id") != "client-id" {
		t.Errorf("client_id = %q", q.Get("client_id"))
	}
	if q.Get("state") != "state-token" {
		t.Errorf("state = %q", q.Get("state"))
	}
	if scope := q.Get("scope"); !strings.Contains(scope, "email") {
		t.Errorf("scope = %q", scope)
	}
	if q.Get("redirect_uri") != "https://example.com/callback" {
		t.Errorf("redirect_uri = %q", q.Get("redirect_uri"))
	}
}

func TestExchangeResolvesIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "at-123",
				"token_type":   "Bearer",
			})
		case "/userinfo":
			if got := r.Header.Get("Authorization"); got != "Bearer at-123" {
				t.Errorf("authorization = %q", got)
			}
			json.NewEncoder(w).Encode(map[string]string{"email": "dev@example.com", "name": "Dev"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	g := NewGoogle("client-id", "secret", srv.URL+"/callback")
	g.cfg.Endpoint.AuthURL = srv.URL + "/auth"
	g.cfg.Endpoint.TokenURL = srv.URL + "/token"
	g.userInfoURL = srv.URL + "/userinfo"

	sess, err := g.Exchange(context.Background(), "auth-code")
	if err != nil {
		t.Fatal(err)
	}
	if sess.Email != "dev@example.com" || sess.Name != "Dev" {
		t.Errorf("session = %+v", sess)
	}
}

func TestExchangeRejectsMissingEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"access_token": "x", "token_type": "Bearer"})
		default:
			json.NewEncoder(w).Encode(map[string]string{})
		}
	}))
	defer srv.Close()

	g := NewGoogle("client-id", "secret", srv.URL+"/callback")
	g.cfg.Endpoint.TokenURL = srv.URL + "/token"
	g.userInfoURL = srv.URL + "/userinfo"

	if _, err := g.Exchange(context.Background(), "code"); err == nil {
		t.Fatal("identity without email accepted")
	}
}
