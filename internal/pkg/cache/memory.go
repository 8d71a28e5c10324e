package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// entry guarda o valor e o instante de expiração (zero = sem expiração).
type entry struct {
	value     string
	expiresAt time.Time
}

// MemoryClient é a implementação em memória da interface Client.
// É o padrão do cliente de terminal e dos testes; a expiração é avaliada
// na leitura (lazy), o que basta para o volume de chaves deste cliente.
type MemoryClient struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemoryClient cria um cache em memória vazio.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{entries: make(map[string]entry)}
}

// Get recupera o valor associado a uma chave, respeitando o TTL.
func (c *MemoryClient) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", ErrCacheMiss
	}
	return e.value, nil
}

// Set define um valor para uma chave com um tempo de expiração.
// Aceita os mesmos tipos de valor que o cliente Redis (string e []byte).
func (c *MemoryClient) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		s = fmt.Sprintf("%v", v)
	}

	var exp time.Time
	if expiration > 0 {
		exp = time.Now().Add(expiration)
	}

	c.mu.Lock()
	c.entries[key] = entry{value: s, expiresAt: exp}
	c.mu.Unlock()
	return nil
}

// Delete remove uma chave do cache.
func (c *MemoryClient) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}
