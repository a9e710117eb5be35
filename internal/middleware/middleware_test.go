package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
    t.Helper()
    tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    s, err := tok.SignedString([]byte(secret))
    if err != nil {
        t.Fatalf("sign token: %v", err)
    }
    return s
}

func runProtected(t *testing.T, authHeader string, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    h := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
    for i := len(mws) - 1; i >= 0; i-- {
        h = mws[i](h)
    }
    req := httptest.NewRequest(http.MethodGet, "/v1/films", nil)
    if authHeader != "" {
        req.Header.Set("Authorization", authHeader)
    }
    rec := httptest.NewRecorder()
    if err := h(e.NewContext(req, rec)); err != nil {
        t.Fatalf("handler error: %v", err)
    }
    return rec
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
    raw := signToken(t, testSecret, jwt.MapClaims{
        "sub": 1, "role": "ADMIN", "exp": time.Now().Add(time.Hour).Unix(),
    })
    rec := runProtected(t, "Bearer "+raw, JWTAuth(testSecret))
    if rec.Code != http.StatusOK {
        t.Fatalf("code = %d, want 200", rec.Code)
    }
}

func TestJWTAuthRejectsMissingAndMalformed(t *testing.T) {
    if rec := runProtected(t, "", JWTAuth(testSecret)); rec.Code != http.StatusUnauthorized {
        t.Fatalf("no header -> %d, want 401", rec.Code)
    }
    if rec := runProtected(t, "Bearer not-a-jwt", JWTAuth(testSecret)); rec.Code != http.StatusUnauthorized {
        t.Fatalf("garbage token -> %d, want 401", rec.Code)
    }
    wrong := signToken(t, "other-secret", jwt.MapClaims{
        "sub": 1, "role": "ADMIN", "exp": time.Now().Add(time.Hour).Unix(),
    })
    if rec := runProtected(t, "Bearer "+wrong, JWTAuth(testSecret)); rec.Code != http.StatusUnauthorized {
        t.Fatalf("wrong secret -> %d, want 401", rec.Code)
    }
    expired := signToken(t, testSecret, jwt.MapClaims{
        "sub": 1, "role": "ADMIN", "exp": time.Now().Add(-time.Hour).Unix(),
    })
    if rec := runProtected(t, "Bearer "+expired, JWTAuth(testSecret)); rec.Code != http.StatusUnauthorized {
        t.Fatalf("expired token -> %d, want 401", rec.Code)
    }
}

func TestRequireRole(t *testing.T) {
    admin := signToken(t, testSecret, jwt.MapClaims{
        "sub": 1, "role": "ADMIN", "exp": time.Now().Add(time.Hour).Unix(),
    })
    viewer := signToken(t, testSecret, jwt.MapClaims{
        "sub": 2, "role": "VIEWER", "exp": time.Now().Add(time.Hour).Unix(),
    })

    rec := runProtected(t, "Bearer "+admin, JWTAuth(testSecret), RequireRole("ADMIN"))
    if rec.Code != http.StatusOK {
        t.Fatalf("admin -> %d, want 200", rec.Code)
    }
    rec = runProtected(t, "Bearer "+viewer, JWTAuth(testSecret), RequireRole("ADMIN"))
    if rec.Code != http.StatusForbidden {
        t.Fatalf("viewer -> %d, want 403", rec.Code)
    }
}

func TestRequireRoleWithoutAuthContext(t *testing.T) {
    rec := runProtected(t, "", RequireRole("ADMIN"))
    if rec.Code != http.StatusForbidden {
        t.Fatalf("missing role -> %d, want 403", rec.Code)
    }
}
