// Package catalogservice expõe a leitura do catálogo de produtos.
package catalogservice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/domain"
	apperror "github.com/HiQuang210/GFashion-Frontend-sub000/internal/errors"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/pkg/logger"
)

// APIClient define o contrato que o serviço espera da camada HTTP.
type APIClient interface {
	Do(ctx context.Context, method, path string, body interface{}) (*domain.Response, error)
}

// Service implementa a navegação de catálogo contra o backend.
type Service struct {
	api    APIClient
	logger logger.Logger
}

// NewService cria o serviço de catálogo.
func NewService(api APIClient, log logger.Logger) *Service {
	return &Service{api: api, logger: log}
}

// List busca uma página do catálogo com o filtro dado.
func (s *Service) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	q := url.Values{}
	if filter.Page > 0 {
		q.Set("page", fmt.Sprintf("%d", filter.Page))
	}
	if filter.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", filter.Limit))
	}
	if filter.Type != "" {
		q.Set("type", filter.Type)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}

	path := "/product/all"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	resp, err := s.api.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if !resp.IsOK() {
		return nil, apperror.NewSoftError(resp.Status, resp.Message)
	}

	var products []domain.Product
	if err := json.Unmarshal(resp.Data, &products); err != nil {
		return nil, apperror.NewSoftError(resp.Status, "malformed product payload")
	}
	return products, nil
}

// Get busca o detalhe de um produto (variantes e estoque por tamanho
// inclusos).
func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	resp, err := s.api.Do(ctx, http.MethodGet, "/product/"+url.PathEscape(id), nil)
	if err != nil {
		return domain.Product{}, err
	}
	if !resp.IsOK() {
		return domain.Product{}, apperror.NewSoftError(resp.Status, resp.Message)
	}

	var product domain.Product
	if err := json.Unmarshal(resp.Data, &product); err != nil {
		return domain.Product{}, apperror.NewSoftError(resp.Status, "malformed product payload")
	}
	return product, nil
}
