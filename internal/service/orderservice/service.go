// Package orderservice cuida do checkout e do histórico de pedidos.
package orderservice

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

// CartInvalidator é o pedaço do serviço de carrinho que o checkout usa:
// depois de um pedido criado, o carrinho do servidor foi esvaziado e o
// snapshot local precisa ser descartado.
type CartInvalidator interface {
	Invalidate(ctx context.Context)
}

// Service implementa as operações de pedido contra o backend.
type Service struct {
	api    APIClient
	cart   CartInvalidator
	logger logger.Logger
}

// NewService cria o serviço de pedidos.
func NewService(api APIClient, cart CartInvalidator, log logger.Logger) *Service {
	return &Service{api: api, cart: cart, logger: log}
}

// Checkout cria um pedido a partir do carrinho corrente do usuário.
// O servidor congela os subtotais (snapshot) no pedido; em caso de sucesso
// o snapshot local do carrinho é invalidado.
func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.Order, error) {
	if req.PaymentMethod == "" {
		return domain.Order{}, apperror.NewValidationError("Please select a payment method")
	}
	if req.Address == "" {
		return domain.Order{}, apperror.NewValidationError("Please provide a delivery address")
	}

	resp, err := s.api.Do(ctx, http.MethodPost, "/order/create", req)
	if err != nil {
		return domain.Order{}, err
	}
	if !resp.IsOK() {
		return domain.Order{}, apperror.NewSoftError(resp.Status, resp.Message)
	}

	var order domain.Order
	if err := json.Unmarshal(resp.Data, &order); err != nil {
		return domain.Order{}, apperror.NewSoftError(resp.Status, "malformed order payload")
	}

	if s.cart != nil {
		s.cart.Invalidate(ctx)
	}
	s.logger.Info("Pedido criado.", map[string]interface{}{
		"order_id": order.ID,
		"total":    order.Total,
	})
	return order, nil
}

// History lista os pedidos do usuário autenticado.
func (s *Service) History(ctx context.Context) ([]domain.Order, error) {
	resp, err := s.api.Do(ctx, http.MethodGet, "/user/orders", nil)
	if err != nil {
		return nil, err
	}
	if !resp.IsOK() {
		return nil, apperror.NewSoftError(resp.Status, resp.Message)
	}

	var orders []domain.Order
	if err := json.Unmarshal(resp.Data, &orders); err != nil {
		return nil, apperror.NewSoftError(resp.Status, "malformed order payload")
	}
	return orders, nil
}

// Get busca um pedido específico.
func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	resp, err := s.api.Do(ctx, http.MethodGet, "/order/"+url.PathEscape(id), nil)
	if err != nil {
		return domain.Order{}, err
	}
	if !resp.IsOK() {
		return domain.Order{}, apperror.NewSoftError(resp.Status, resp.Message)
	}

	var order domain.Order
	if err := json.Unmarshal(resp.Data, &order); err != nil {
		return domain.Order{}, apperror.NewSoftError(resp.Status, "malformed order payload")
	}
	return order, nil
}

// Cancel pede o cancelamento de um pedido ainda pendente. A decisão é do
// servidor (pedidos já enviados são recusados como soft failure).
func (s *Service) Cancel(ctx context.Context, id string) error {
	resp, err := s.api.Do(ctx, http.MethodPost, "/order/"+url.PathEscape(id)+"/cancel", nil)
	if err != nil {
		return err
	}
	if !resp.IsOK() {
		return apperror.NewSoftError(resp.Status, resp.Message)
	}
	return nil
}
