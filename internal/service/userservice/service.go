// Package userservice cuida de conta e sessão: sign-in/sign-up, perfil e
// sign-out. Os tokens emitidos pelo backend são guardados no session.Store
// injetado: a camada HTTP os anexa e renova sozinha a partir daí.
package userservice

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/domain"
	apperror "github.com/HiQuang210/GFashion-Frontend-sub000/internal/errors"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/pkg/logger"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/pkg/session"
)

// APIClient define o contrato que o serviço espera da camada HTTP.
type APIClient interface {
	Do(ctx context.Context, method, path string, body interface{}) (*domain.Response, error)
}

// Service implementa as operações de conta contra o backend.
type Service struct {
	api     APIClient
	session session.Store
	logger  logger.Logger
}

// NewService cria o serviço de usuário.
func NewService(api APIClient, sess session.Store, log logger.Logger) *Service {
	return &Service{api: api, session: sess, logger: log}
}

// SignIn autentica o usuário e armazena o par de tokens emitido.
func (s *Service) SignIn(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	if creds.Email == "" || creds.Password == "" {
		return domain.User{}, apperror.NewValidationError("Email and password are required")
	}

	resp, err := s.api.Do(ctx, http.MethodPost, "/user/sign-in", creds)
	if err != nil {
		return domain.User{}, err
	}
	if !resp.IsOK() {
		return domain.User{}, apperror.NewSoftError(resp.Status, resp.Message)
	}
	if resp.AccessToken == "" {
		return domain.User{}, apperror.NewSoftError(resp.Status, "sign-in response missing tokens")
	}

	if err := s.session.SetTokens(session.Tokens{
		Access:  resp.AccessToken,
		Refresh: resp.RefreshToken,
	}); err != nil {
		return domain.User{}, err
	}

	var user domain.User
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &user); err != nil {
			s.logger.Warn("Perfil do sign-in ilegível; sessão criada mesmo assim.", nil)
		}
	}

	s.logger.Info("Sessão iniciada.", map[string]interface{}{"email": creds.Email})
	return user, nil
}

// SignUp cria uma conta nova. O backend não inicia sessão aqui; o fluxo
// segue para SignIn.
func (s *Service) SignUp(ctx context.Context, reg domain.Registration) error {
	if reg.Email == "" || reg.Password == "" {
		return apperror.NewValidationError("Email and password are required")
	}

	resp, err := s.api.Do(ctx, http.MethodPost, "/user/sign-up", reg)
	if err != nil {
		return err
	}
	if !resp.IsOK() {
		return apperror.NewSoftError(resp.Status, resp.Message)
	}
	return nil
}

// SignOut encerra a sessão no servidor e descarta os tokens locais.
// A limpeza local acontece mesmo se a chamada remota falhar.
func (s *Service) SignOut(ctx context.Context) error {
	_, err := s.api.Do(ctx, http.MethodPost, "/user/sign-out", nil)
	if clearErr := s.session.Clear(); clearErr != nil {
		return clearErr
	}
	if err != nil {
		s.logger.Warn("Sign-out remoto falhou; sessão local descartada.", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return nil
}

// Profile busca o perfil do usuário autenticado.
func (s *Service) Profile(ctx context.Context) (domain.User, error) {
	resp, err := s.api.Do(ctx, http.MethodGet, "/user/profile", nil)
	if err != nil {
		return domain.User{}, err
	}
	if !resp.IsOK() {
		return domain.User{}, apperror.NewSoftError(resp.Status, resp.Message)
	}

	var user domain.User
	if err := json.Unmarshal(resp.Data, &user); err != nil {
		return domain.User{}, apperror.NewSoftError(resp.Status, "malformed profile payload")
	}
	return user, nil
}

// UpdateProfile envia os campos editáveis do perfil.
func (s *Service) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.User, error) {
	resp, err := s.api.Do(ctx, http.MethodPut, "/user/profile", update)
	if err != nil {
		return domain.User{}, err
	}
	if !resp.IsOK() {
		return domain.User{}, apperror.NewSoftError(resp.Status, resp.Message)
	}

	var user domain.User
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &user); err != nil {
			return domain.User{}, apperror.NewSoftError(resp.Status, "malformed profile payload")
		}
	}
	return user, nil
}
