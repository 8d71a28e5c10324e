package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens é o par de credenciais emitido pelo backend no sign-in.
// O access token vai no header Authorization; o refresh token só é usado
// pela renovação silenciosa da camada HTTP.
type Tokens struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

// Store define o contrato de armazenamento de sessão. A camada HTTP e os
// serviços dependem apenas desta interface, então os testes injetam um
// MemoryStore com tokens falsos.
type Store interface {
	Tokens() (Tokens, bool)
	SetTokens(t Tokens) error
	Clear() error
}

// MemoryStore mantém a sessão apenas em memória (some quando o processo
// termina). É o store dos testes e o fallback quando não há arquivo de
// sessão configurado.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens Tokens
	active bool
}

// NewMemoryStore cria um store vazio (sem sessão ativa).
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Tokens retorna o par atual e se há sessão ativa.
func (s *MemoryStore) Tokens() (Tokens, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens, s.active
}

// SetTokens substitui o par de tokens da sessão.
func (s *MemoryStore) SetTokens(t Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = t
	s.active = t.Access != ""
	return nil
}

// Clear descarta a sessão.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = Tokens{}
	s.active = false
	return nil
}

// ExpiresSoon informa se o access token expira dentro da janela dada.
// O parse é sem verificação de assinatura: o cliente não possui a chave do
// servidor e só precisa ler a claim exp para decidir renovar antes do 401.
// Tokens ilegíveis ou sem exp retornam false: o caminho de 401 cobre o
// resto.
func ExpiresSoon(accessToken string, within time.Duration) bool {
	if accessToken == "" {
		return false
	}

	claims := &jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(accessToken, claims)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}

	return time.Until(claims.ExpiresAt.Time) < within
}
