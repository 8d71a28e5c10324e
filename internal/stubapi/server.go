// Package stubapi é um backend GFashion de mentira, em memória, com as
// mesmas regras de negócio do servidor real: merge de add no carrinho,
// rejeição por estoque como soft failure (status "ERROR"), emissão e
// renovação de tokens. Serve os testes de integração (via httptest) e o
// cmd/mockapi para desenvolvimento local.
package stubapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/domain"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/pkg/logger"
)

type account struct {
	user     domain.User
	password string
}

// Server guarda todo o estado em memória, protegido por um único mutex
// (o volume de um backend de teste não justifica mais que isso).
type Server struct {
	mu     sync.Mutex
	logger logger.Logger
	router *mux.Router

	products      []domain.Product
	accounts      map[string]*account           // email -> conta
	carts         map[string][]domain.LineItem  // userID -> itens
	orders        map[string][]domain.Order     // userID -> pedidos
	reviews       map[string][]domain.Review    // productID -> avaliações
	accessTokens  map[string]string             // access token -> userID
	refreshTokens map[string]string             // refresh token -> userID
}

// New cria o servidor com estado vazio e as rotas montadas.
func New(log logger.Logger) *Server {
	s := &Server{
		logger:        log,
		accounts:      make(map[string]*account),
		carts:         make(map[string][]domain.LineItem),
		orders:        make(map[string][]domain.Order),
		reviews:       make(map[string][]domain.Review),
		accessTokens:  make(map[string]string),
		refreshTokens: make(map[string]string),
	}

	r := mux.NewRouter()
	r.HandleFunc("/user/sign-in", s.handleSignIn).Methods(http.MethodPost)
	r.HandleFunc("/user/sign-up", s.handleSignUp).Methods(http.MethodPost)
	r.HandleFunc("/user/refresh-token", s.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/user/sign-out", s.auth(s.handleSignOut)).Methods(http.MethodPost)
	r.HandleFunc("/user/profile", s.auth(s.handleProfile)).Methods(http.MethodGet)
	r.HandleFunc("/user/profile", s.auth(s.handleProfileUpdate)).Methods(http.MethodPut)
	r.HandleFunc("/user/get-user-cart", s.auth(s.handleGetCart)).Methods(http.MethodGet)
	r.HandleFunc("/user/handle-cart", s.auth(s.handleCart)).Methods(http.MethodPost)
	r.HandleFunc("/user/orders", s.auth(s.handleOrderHistory)).Methods(http.MethodGet)
	r.HandleFunc("/order/create", s.auth(s.handleCheckout)).Methods(http.MethodPost)
	r.HandleFunc("/order/{id}", s.auth(s.handleGetOrder)).Methods(http.MethodGet)
	r.HandleFunc("/order/{id}/cancel", s.auth(s.handleCancelOrder)).Methods(http.MethodPost)
	r.HandleFunc("/product/all", s.handleListProducts).Methods(http.MethodGet)
	r.HandleFunc("/product/{id}/reviews", s.handleListReviews).Methods(http.MethodGet)
	r.HandleFunc("/product/{id}/review", s.auth(s.handleSubmitReview)).Methods(http.MethodPost)
	r.HandleFunc("/product/{id}", s.handleGetProduct).Methods(http.MethodGet)
	s.router = r

	return s
}

// ServeHTTP implementa http.Handler delegando ao roteador.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// --- Semeadura e ganchos de teste ---

// SeedUser registra uma conta pronta para sign-in.
func (s *Server) SeedUser(email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[email] = &account{
		user: domain.User{
			ID:        uuid.New().String(),
			Email:     email,
			CreatedAt: time.Now(),
		},
		password: password,
	}
}

// SeedProduct adiciona um produto ao catálogo.
func (s *Server) SeedProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	s.products = append(s.products, p)
}

// ExpireAccessToken invalida um access token sem tocar no refresh token
// correspondente. Força o caminho de 401 + renovação nos testes.
func (s *Server) ExpireAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accessTokens, token)
}

// ExpireAllSessions invalida todos os tokens (access e refresh).
func (s *Server) ExpireAllSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessTokens = make(map[string]string)
	s.refreshTokens = make(map[string]string)
}

// --- Autenticação ---

func (s *Server) auth(next func(w http.ResponseWriter, r *http.Request, userID string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeEnvelope(w, http.StatusUnauthorized, envelope{Status: "ERROR", Message: "Missing authorization token"})
			return
		}

		s.mu.Lock()
		userID, ok := s.accessTokens[strings.TrimPrefix(header, "Bearer ")]
		s.mu.Unlock()
		if !ok {
			writeEnvelope(w, http.StatusUnauthorized, envelope{Status: "ERROR", Message: "Invalid or expired token"})
			return
		}

		next(w, r, userID)
	}
}

// --- Handlers de sessão ---

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeEnvelope(w, http.StatusBadRequest, envelope{Status: "ERROR", Message: "Invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[creds.Email]
	if !ok || acc.password != creds.Password {
		writeEnvelope(w, http.StatusOK, envelope{Status: "ERROR", Message: "Invalid email or password"})
		return
	}

	access := uuid.New().String()
	refresh := uuid.New().String()
	s.accessTokens[access] = acc.user.ID
	s.refreshTokens[refresh] = acc.user.ID

	writeEnvelope(w, http.StatusOK, envelope{
		Status:       domain.StatusOK,
		Data:         acc.user,
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeEnvelope(w, http.StatusBadRequest, envelope{Status: "ERROR", Message: "Invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[reg.Email]; exists {
		writeEnvelope(w, http.StatusOK, envelope{Status: "ERROR", Message: "Email already registered"})
		return
	}
	s.accounts[reg.Email] = &account{
		user: domain.User{
			ID:        uuid.New().String(),
			Email:     reg.Email,
			FirstName: reg.FirstName,
			LastName:  reg.LastName,
			Phone:     reg.Phone,
			CreatedAt: time.Now(),
		},
		password: reg.Password,
	}

	writeEnvelope(w, http.StatusOK, envelope{Status: domain.StatusOK})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeEnvelope(w, http.StatusBadRequest, envelope{Status: "ERROR", Message: "Invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.refreshTokens[body.RefreshToken]
	if !ok {
		writeEnvelope(w, http.StatusUnauthorized, envelope{Status: "ERROR", Message: "Invalid refresh token"})
		return
	}

	access := uuid.New().String()
	s.accessTokens[access] = userID

	writeEnvelope(w, http.StatusOK, envelope{
		Status:      domain.StatusOK,
		AccessToken: access,
	})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request, userID string) {
	s.mu.Lock()
	for token, id := range s.accessTokens {
		if id == userID {
			delete(s.accessTokens, token)
		}
	}
	for token, id := range s.refreshTokens {
		if id == userID {
			delete(s.refreshTokens, token)
		}
	}
	s.mu.Unlock()

	writeEnvelope(w, http.StatusOK, envelope{Status: domain.StatusOK})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.accounts {
		if acc.user.ID == userID {
			writeEnvelope(w, http.StatusOK, envelope{Status: domain.StatusOK, Data: acc.user})
			return
		}
	}
	writeEnvelope(w, http.StatusNotFound, envelope{Status: "ERROR", Message: "User not found"})
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request, userID string) {
	var update domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeEnvelope(w, http.StatusBadRequest, envelope{Status: "ERROR", Message: "Invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.accounts {
		if acc.user.ID != userID {
			continue
		}
		if update.FirstName != "" {
			acc.user.FirstName = update.FirstName
		}
		if update.LastName != "" {
			acc.user.LastName = update.LastName
		}
		if update.Phone != "" {
			acc.user.Phone = update.Phone
		}
		if update.Address != "" {
			acc.user.Address = update.Address
		}
		writeEnvelope(w, http.StatusOK, envelope{Status: domain.StatusOK, Data: acc.user})
		return
	}
	writeEnvelope(w, http.StatusNotFound, envelope{Status: "ERROR", Message: "User not found"})
}

// --- Envelope ---

// envelope espelha domain.Response do lado do servidor, com Data sem tipo
// para aceitar qualquer payload.
type envelope struct {
	Status       string            `json:"status"`
	Message      string            `json:"message,omitempty"`
	Data         interface{}       `json:"data,omitempty"`
	Cart         []domain.LineItem `json:"cart,omitempty"`
	AccessToken  string            `json:"access_token,omitempty"`
	RefreshToken string            `json:"refresh_token,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, statusCode int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(env)
}

func softError(w http.ResponseWriter, format string, args ...interface{}) {
	writeEnvelope(w, http.StatusOK, envelope{Status: "ERROR", Message: fmt.Sprintf(format, args...)})
}
