package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"propertyhub/listingsync/internal/constants"
)

func TestGuestyTokenProvider_Token_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("Failed to parse form: %v", err)
		}
		if r.Form.Get("grant_type") != "client_credentials" {
			t.Errorf("Expected client_credentials grant, got %s", r.Form.Get("grant_type"))
		}
		if r.Form.Get("client_id") != "cid" || r.Form.Get("client_secret") != "secret" {
			t.Errorf("Unexpected credentials in form: %v", r.Form)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"token_type":"Bearer","expires_in":86400,"access_token":"tok-123","scope":"open-api"}`))
	}))
	defer server.Close()

	provider := &GuestyTokenProvider{ClientID: "cid", ClientSecret: "secret", TokenURL: server.URL, Client: &http.Client{}}

	token, err := provider.Token(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if token != "tok-123" {
		t.Errorf("Expected tok-123, got %s", token)
	}
}

func TestGuestyTokenProvider_Token_MissingCredentials(t *testing.T) {
	provider := &GuestyTokenProvider{TokenURL: "http://unused", Client: &http.Client{}}

	_, err := provider.Token(context.Background())

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Expected *AuthError, got %v", err)
	}
	if authErr.Code != constants.ErrCodeMissingCredentials {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeMissingCredentials, authErr.Code)
	}
}

func TestGuestyTokenProvider_Token_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer server.Close()

	provider := &GuestyTokenProvider{ClientID: "cid", ClientSecret: "bad", TokenURL: server.URL, Client: &http.Client{}}

	_, err := provider.Token(context.Background())

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Expected *AuthError, got %v", err)
	}
	if authErr.Status != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", authErr.Status)
	}
}

func TestGuestyTokenProvider_Token_MissingAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	defer server.Close()

	provider := &GuestyTokenProvider{ClientID: "cid", ClientSecret: "secret", TokenURL: server.URL, Client: &http.Client{}}

	_, err := provider.Token(context.Background())

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Expected *AuthError, got %v", err)
	}
	if authErr.Code != constants.ErrCodeMalformedToken {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeMalformedToken, authErr.Code)
	}
}

func TestTokenExpiry_ReadsJWTClaim(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	got, ok := tokenExpiry(signed)
	if !ok {
		t.Fatal("Expected expiry to be parsed")
	}
	if !got.Equal(exp) {
		t.Errorf("Expected %s, got %s", exp, got)
	}

	if _, ok := tokenExpiry("opaque-token"); ok {
		t.Error("Expected opaque token to have no expiry")
	}
}
