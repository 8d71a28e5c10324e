// Package reviewservice cuida das avaliações de produto.
package reviewservice

import (
	"context"
	"encoding/json"
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

// Service implementa o envio e a listagem de avaliações.
type Service struct {
	api    APIClient
	logger logger.Logger
}

// NewService cria o serviço de avaliações.
func NewService(api APIClient, log logger.Logger) *Service {
	return &Service{api: api, logger: log}
}

// Submit envia uma avaliação para o produto. A nota vai de 1 a 5.
func (s *Service) Submit(ctx context.Context, productID string, req domain.ReviewRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return apperror.NewValidationError("Rating must be between 1 and 5")
	}

	resp, err := s.api.Do(ctx, http.MethodPost, "/product/"+url.PathEscape(productID)+"/review", req)
	if err != nil {
		return err
	}
	if !resp.IsOK() {
		return apperror.NewSoftError(resp.Status, resp.Message)
	}

	s.logger.Debug("Avaliação enviada.", map[string]interface{}{
		"product_id": productID,
		"rating":     req.Rating,
	})
	return nil
}

// List devolve as avaliações de um produto.
func (s *Service) List(ctx context.Context, productID string) ([]domain.Review, error) {
	resp, err := s.api.Do(ctx, http.MethodGet, "/product/"+url.PathEscape(productID)+"/reviews", nil)
	if err != nil {
		return nil, err
	}
	if !resp.IsOK() {
		return nil, apperror.NewSoftError(resp.Status, resp.Message)
	}

	var reviews []domain.Review
	if err := json.Unmarshal(resp.Data, &reviews); err != nil {
		return nil, apperror.NewSoftError(resp.Status, "malformed review payload")
	}
	return reviews, nil
}
