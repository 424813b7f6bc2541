package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubResolver struct {
	tokens map[string]string
}

func (s *stubResolver) UserForSession(token string) (string, bool) {
	userID, ok := s.tokens[token]
	return userID, ok
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no header", "", ""},
		{"valid", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"mixed case scheme", "BeArEr abc123", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"scheme only", "Bearer", ""},
		{"extra whitespace", "Bearer   abc123", "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/library", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := BearerToken(r); got != tt.want {
				t.Errorf("BearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSessionMiddleware_ValidToken(t *testing.T) {
	resolver := &stubResolver{tokens: map[string]string{"good-token": "user-42"}}

	var seenUserID string
	handler := SessionMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserID(r)
	}))

	r := httptest.NewRequest("GET", "/library", nil)
	r.Header.Set("Authorization", "Bearer good-token")
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if seenUserID != "user-42" {
		t.Errorf("Expected user-42 in context, got %q", seenUserID)
	}
}

func TestSessionMiddleware_UnknownToken(t *testing.T) {
	resolver := &stubResolver{tokens: map[string]string{}}

	called := false
	handler := SessionMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if UserID(r) != "" {
			t.Errorf("Expected empty user ID, got %q", UserID(r))
		}
	}))

	r := httptest.NewRequest("GET", "/library", nil)
	r.Header.Set("Authorization", "Bearer unknown-token")
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if !called {
		t.Error("Expected the request to pass through unauthenticated")
	}
}

func TestSessionMiddleware_NoHeader(t *testing.T) {
	resolver := &stubResolver{tokens: map[string]string{"good-token": "user-42"}}

	called := false
	handler := SessionMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if UserID(r) != "" {
			t.Errorf("Expected empty user ID, got %q", UserID(r))
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/trending", nil))

	if !called {
		t.Error("Expected the request to pass through unauthenticated")
	}
}
