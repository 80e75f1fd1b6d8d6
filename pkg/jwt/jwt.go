package jwt

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Scopes de los tokens de servicio entre el POS y el ledger.
const (
	ScopeRead  = "ledger:read"
	ScopeWrite = "ledger:write"
)

// Claims incluye los claims estándar JWT más el terminal POS y el alcance concedido.
type Claims struct {
	jwt.RegisteredClaims
	TerminalID string `json:"terminal_id"`
	Scope      string `json:"scope"` // ledger:read | ledger:write
}

// Generate genera un token de servicio firmado (HS256) para el terminal indicado.
func Generate(secret, terminalID, scope, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   terminalID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		TerminalID: terminalID,
		Scope:      scope,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve terminalID y scope.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (terminalID, scope string, err error) {
	if secret == "" {
		return "", "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("claims inválidos")
	}
	return claims.TerminalID, claims.Scope, nil
}

// Source emite y cachea el token de servicio del terminal; lo renueva un minuto antes de expirar.
type Source struct {
	secret, terminalID, scope, issuer string
	expMinutes                       int

	mu      sync.Mutex
	token   string
	expires time.Time
	now     func() time.Time
}

// NewSource construye el emisor. expMinutes menor a 2 se eleva a 2 para que la renovación tenga margen.
func NewSource(secret, terminalID, scope, issuer string, expMinutes int) *Source {
	if expMinutes < 2 {
		expMinutes = 2
	}
	return &Source{
		secret: secret, terminalID: terminalID, scope: scope, issuer: issuer,
		expMinutes: expMinutes,
		now:        time.Now,
	}
}

// Token devuelve un token vigente.
func (s *Source) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if s.token != "" && now.Add(time.Minute).Before(s.expires) {
		return s.token, nil
	}
	tok, err := Generate(s.secret, s.terminalID, s.scope, s.issuer, s.expMinutes)
	if err != nil {
		return "", err
	}
	s.token = tok
	s.expires = now.Add(time.Duration(s.expMinutes) * time.Minute)
	return tok, nil
}
