package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestJWTAuthMiddleware(t *testing.T) {
	jwtMgr := NewJWTManager()
	token, err := jwtMgr.GenerateToken("user-1", "user@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	var seenClaims *Claims
	handler := JWTAuthMiddleware(jwtMgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenClaims = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenClaims = nil
			req := httptest.NewRequest(http.MethodPost, "/api/execute", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if seenClaims == nil || seenClaims.UserID != "user-1" {
					t.Errorf("claims = %+v, want user-1 in context", seenClaims)
				}
			} else if seenClaims != nil {
				t.Error("handler ran despite rejected auth")
			}
		})
	}
}

func TestValidateToken_RejectsForeignIssuer(t *testing.T) {
	jwtMgr := NewJWTManager()
	token, err := jwtMgr.GenerateToken("user-1", "", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	claims, err := jwtMgr.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() failed: %v", err)
	}
	if claims.Issuer != tokenIssuer {
		t.Errorf("issuer = %s, want %s", claims.Issuer, tokenIssuer)
	}

	if _, err := jwtMgr.ValidateToken("eyJhbGciOiJub25lIn0.e30."); err == nil {
		t.Error("expected rejection of unsigned token")
	}
}
