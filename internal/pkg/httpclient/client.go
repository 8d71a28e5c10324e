package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/domain"
	apperror "github.com/HiQuang210/GFashion-Frontend-sub000/internal/errors"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/pkg/logger"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/pkg/session"
)

// refreshPath é o endpoint de renovação silenciosa de sessão.
const refreshPath = "/user/refresh-token"

// refreshWindow: se o access token expira dentro desta janela, tentamos
// renovar antes de enviar a requisição, evitando um 401 previsível.
const refreshWindow = 30 * time.Second

// Client encapsula toda a comunicação com o backend GFashion.
// Responsabilidades: anexar o bearer token quando houver sessão, renovar a
// sessão exatamente uma vez por requisição originadora ao receber 401 e,
// se a renovação falhar, limpar as credenciais e acionar o hook de logout.
type Client struct {
	http     *http.Client
	baseURL  string
	session  session.Store
	logger   logger.Logger
	onLogout func()
}

// New cria um cliente apontando para baseURL. onLogout é chamado quando a
// renovação de sessão falha (a UI redireciona para a tela de login); pode
// ser nil.
func New(baseURL string, timeout time.Duration, sess session.Store, log logger.Logger, onLogout func()) *Client {
	return &Client{
		http:     &http.Client{Timeout: timeout},
		baseURL:  strings.TrimRight(baseURL, "/"),
		session:  sess,
		logger:   log,
		onLogout: onLogout,
	}
}

// Do executa uma requisição JSON contra o backend e devolve o envelope.
// Um envelope com status diferente de "OK" NÃO é erro aqui: é uma falha de
// negócio que o chamador decide como tratar. Erros de transporte e de
// sessão voltam como apperror.TransportError / apperror.UnauthorizedError.
func (c *Client) Do(ctx context.Context, method, path string, body interface{}) (*domain.Response, error) {
	// Renovação proativa quando o access token está para expirar. Uma
	// falha aqui não bloqueia a requisição: o caminho de 401 cobre o resto.
	if t, ok := c.session.Tokens(); ok && t.Refresh != "" && session.ExpiresSoon(t.Access, refreshWindow) {
		if err := c.refresh(ctx, t.Refresh); err != nil {
			c.logger.Debug("Renovação proativa falhou; seguindo com o token atual.", map[string]interface{}{
				"path": path,
			})
		}
	}

	resp, status, err := c.send(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	// Exatamente uma tentativa de refresh-e-retry por requisição
	// originadora.
	if status == http.StatusUnauthorized {
		t, ok := c.session.Tokens()
		if !ok || t.Refresh == "" {
			return nil, apperror.NewUnauthorizedError("no active session")
		}

		if err := c.refresh(ctx, t.Refresh); err != nil {
			// Renovação falhou: descarta as credenciais e avisa a UI.
			c.session.Clear()
			if c.onLogout != nil {
				c.onLogout()
			}
			c.logger.Info("Sessão expirada; credenciais descartadas.", map[string]interface{}{
				"path": path,
			})
			return nil, apperror.NewUnauthorizedError("session refresh failed")
		}

		resp, status, err = c.send(ctx, method, path, body)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			// O retry também voltou 401: não insistimos.
			c.session.Clear()
			if c.onLogout != nil {
				c.onLogout()
			}
			return nil, apperror.NewUnauthorizedError("request unauthorized after refresh")
		}
	}

	if status < 200 || status > 299 {
		msg := ""
		if resp != nil {
			msg = resp.Message
		}
		return nil, apperror.NewTransportError(status, msg)
	}

	// 2xx com corpo que não decodificou (e.g. portal cativo devolvendo
	// HTML com 200): sem envelope não há resposta utilizável.
	if resp == nil {
		c.logger.Warn("Resposta 2xx sem envelope JSON decodificável.", map[string]interface{}{
			"path":   path,
			"status": status,
		})
		return nil, apperror.NewTransportError(status, "")
	}

	return resp, nil
}

// send monta, autentica e executa uma única requisição HTTP.
// Retorna o envelope decodificado (quando o corpo é JSON) e o status HTTP.
func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*domain.Response, int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("httpclient: cannot encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, apperror.NewNetworkError(err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	if t, ok := c.session.Tokens(); ok {
		req.Header.Set("Authorization", "Bearer "+t.Access)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Falha de rede na chamada ao backend.", err)
		return nil, 0, apperror.NewNetworkError(err)
	}
	defer httpResp.Body.Close()

	var envelope domain.Response
	if decodeErr := json.NewDecoder(httpResp.Body).Decode(&envelope); decodeErr != nil {
		// Corpo não-JSON (e.g., página de erro de um proxy). O status
		// HTTP ainda orienta o tratamento.
		return nil, httpResp.StatusCode, nil
	}

	return &envelope, httpResp.StatusCode, nil
}

// refresh troca o refresh token por um novo par de tokens.
// Não passa por Do de propósito: a renovação nunca dispara outra renovação.
func (c *Client) refresh(ctx context.Context, refreshToken string) error {
	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshPath, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	httpResp, err := c.http.Do(req)
	if err != nil {
		return apperror.NewNetworkError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return apperror.NewTransportError(httpResp.StatusCode, "refresh rejected")
	}

	var envelope domain.Response
	if err := json.NewDecoder(httpResp.Body).Decode(&envelope); err != nil {
		return err
	}
	if !envelope.IsOK() || envelope.AccessToken == "" {
		return apperror.NewSoftError(envelope.Status, envelope.Message)
	}

	newTokens := session.Tokens{Access: envelope.AccessToken, Refresh: envelope.RefreshToken}
	if newTokens.Refresh == "" {
		// Alguns backends não rotacionam o refresh token.
		newTokens.Refresh = refreshToken
	}

	c.logger.Debug("Sessão renovada com sucesso.", nil)
	return c.session.SetTokens(newTokens)
}
