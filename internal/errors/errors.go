package errors

import (
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros do cliente GFashion.
// Ela permite que as camadas superiores acessem a Categoria do erro e a
// mensagem apresentável ao usuário sem inspecionar tipos concretos.
type AppError interface {
	Error() string       // Implementa a interface error padrão do Go
	Category() string    // Categoria do erro (e.g., "VALIDATION", "SOFT_FAILURE")
	HTTPStatus() int     // Status HTTP associado (0 quando não houve transporte)
	UserMessage() string // Mensagem pronta para exibição na UI
	Unwrap() error       // Erro subjacente, quando houver
}

// Mensagens fixas exibidas ao usuário para falhas de transporte sem
// mensagem do servidor. São as strings do produto: não traduzir.
const (
	MsgBadRequest   = "Invalid request. Please check your input."
	MsgUnauthorized = "Please login to continue."
	MsgNotFound     = "Product or variant not found."
	MsgGeneric      = "Something went wrong. Please try again."
)

// --- Erros de validação local ---

// ValidationError representa uma falha de validação local: detectada antes
// de qualquer chamada de rede, bloqueia o commit.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string       { return e.Msg }
func (e *ValidationError) Category() string    { return "VALIDATION" }
func (e *ValidationError) HTTPStatus() int     { return 0 }
func (e *ValidationError) UserMessage() string { return e.Msg }
func (e *ValidationError) Unwrap() error       { return nil }

// NewValidationError cria um novo erro de validação local.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// --- Falhas de negócio (soft failures) ---

// SoftError representa uma falha de negócio: a chamada HTTP teve sucesso,
// mas o envelope veio com status diferente de "OK". A mensagem do servidor
// é exibida literalmente ao usuário.
type SoftError struct {
	Status string // Status do envelope (e.g., "ERROR")
	Msg    string // Mensagem enviada pelo servidor
}

func (e *SoftError) Error() string {
	return fmt.Sprintf("server rejected operation (status %s): %s", e.Status, e.Msg)
}
func (e *SoftError) Category() string { return "SOFT_FAILURE" }

// HTTPStatus é 200 de propósito: o transporte funcionou.
func (e *SoftError) HTTPStatus() int { return http.StatusOK }
func (e *SoftError) UserMessage() string {
	if e.Msg == "" {
		return MsgGeneric
	}
	return e.Msg
}
func (e *SoftError) Unwrap() error { return nil }

// NewSoftError cria uma falha de negócio a partir do envelope do servidor.
func NewSoftError(status, msg string) AppError {
	return &SoftError{Status: status, Msg: msg}
}

// --- Erros de transporte ---

// TransportError representa uma falha de rede ou um status HTTP de erro.
// StatusCode é zero quando a requisição nem chegou a obter resposta.
type TransportError struct {
	StatusCode int
	Msg        string // Mensagem do servidor, se o corpo trouxe alguma
	Err        error  // Erro original (e.g., timeout de conexão)
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("request failed with HTTP %d: %s", e.StatusCode, e.Msg)
}
func (e *TransportError) Category() string { return "TRANSPORT" }
func (e *TransportError) HTTPStatus() int  { return e.StatusCode }

// UserMessage traduz o status HTTP para a mensagem fixa correspondente.
// Quando o servidor mandou uma mensagem própria, ela tem precedência sobre
// o fallback genérico (mas não sobre as mensagens fixas de 400/401/404).
func (e *TransportError) UserMessage() string {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return MsgBadRequest
	case http.StatusUnauthorized:
		return MsgUnauthorized
	case http.StatusNotFound:
		return MsgNotFound
	}
	if e.Msg != "" {
		return e.Msg
	}
	return MsgGeneric
}
func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError cria um erro de transporte a partir de um status HTTP.
func NewTransportError(statusCode int, msg string) AppError {
	return &TransportError{StatusCode: statusCode, Msg: msg}
}

// NewNetworkError cria um erro de transporte para falhas sem resposta
// (DNS, timeout, conexão recusada).
func NewNetworkError(err error) AppError {
	return &TransportError{Err: err}
}

// --- Sessão ---

// UnauthorizedError indica sessão inválida: o refresh silencioso falhou e
// as credenciais armazenadas foram descartadas.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return e.Msg }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized }
func (e *UnauthorizedError) UserMessage() string {
	return MsgUnauthorized
}
func (e *UnauthorizedError) Unwrap() error { return nil }

// NewUnauthorizedError cria um erro de sessão inválida.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// --- Helper para a camada de apresentação ---

// UserMessage extrai a mensagem apresentável de qualquer erro. Erros não
// tipados recebem o fallback genérico.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := err.(AppError); ok {
		return appErr.UserMessage()
	}
	return MsgGeneric
}
