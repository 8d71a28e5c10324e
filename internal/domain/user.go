package domain

import "time"

// User é o perfil do usuário autenticado, como o backend o devolve.
// O cliente nunca vê a senha depois do sign-in; a sessão é mantida pelos
// tokens emitidos (ver internal/pkg/session).
type User struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Credentials é o payload de sign-in.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration é o payload de criação de conta.
type Registration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ProfileUpdate carrega apenas os campos editáveis do perfil.
type ProfileUpdate struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}
