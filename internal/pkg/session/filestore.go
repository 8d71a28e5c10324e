package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// FileStore persiste os tokens em disco, cifrados com ChaCha20-Poly1305.
// A chave é derivada da passphrase via HKDF-SHA256, então o arquivo é
// inútil sem ela. Layout do arquivo: nonce || ciphertext.
type FileStore struct {
	mu   sync.Mutex
	path string
	key  []byte
}

const sessionKeyInfo = "gfashion-session-v1"

// NewFileStore cria um store persistente no caminho dado.
func NewFileStore(path, passphrase string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("session: file path is required")
	}

	// Deriva uma chave de 32 bytes a partir da passphrase.
	h := hkdf.New(sha256.New, []byte(passphrase), nil, []byte(sessionKeyInfo))
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, err
	}

	return &FileStore{path: path, key: key}, nil
}

// Tokens lê e decifra a sessão persistida. Arquivo ausente significa
// apenas "sem sessão", não erro.
func (s *FileStore) Tokens() (Tokens, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return Tokens{}, false
	}

	aead, err := chacha20poly1305.New(s.key)
	if err != nil {
		return Tokens{}, false
	}
	if len(raw) < aead.NonceSize() {
		return Tokens{}, false
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return Tokens{}, false
	}

	var t Tokens
	if err := json.Unmarshal(plain, &t); err != nil {
		return Tokens{}, false
	}
	return t, t.Access != ""
}

// SetTokens cifra e grava o par de tokens (arquivo 0600).
func (s *FileStore) SetTokens(t Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plain, err := json.Marshal(t)
	if err != nil {
		return err
	}

	aead, err := chacha20poly1305.New(s.key)
	if err != nil {
		return err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}

	out := append(nonce, aead.Seal(nil, nonce, plain, nil)...)

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, out, 0o600)
}

// Clear apaga o arquivo de sessão. Arquivo inexistente não é erro.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
