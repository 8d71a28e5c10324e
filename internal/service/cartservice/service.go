// Package cartservice expõe as operações remotas de carrinho e o snapshot
// local com janela de staleness. O servidor é a única fonte de verdade: o
// que vive aqui é um cache transiente e invalidável.
package cartservice

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/cart"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/domain"
	apperror "github.com/HiQuang210/GFashion-Frontend-sub000/internal/errors"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/pkg/cache"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/pkg/logger"
)

// Rotas do carrinho no backend. Uma única rota de mutação atende
// add/update/remove.
const (
	mutatePath = "/user/handle-cart"
	fetchPath  = "/user/get-user-cart"
)

// cartCacheKey é a chave do snapshot do carrinho no cache local.
const cartCacheKey = "gfashion:cart"

// APIClient define o contrato que o serviço espera da camada HTTP.
type APIClient interface {
	Do(ctx context.Context, method, path string, body interface{}) (*domain.Response, error)
}

// Service implementa as operações de carrinho contra o backend.
type Service struct {
	api    APIClient
	cache  cache.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewService cria o serviço de carrinho. ttl é a janela de staleness do
// snapshot local (zero desabilita o cache de leitura).
func NewService(api APIClient, cacheClient cache.Client, ttl time.Duration, log logger.Logger) *Service {
	return &Service{
		api:    api,
		cache:  cacheClient,
		ttl:    ttl,
		logger: log,
	}
}

// Fetch devolve o carrinho do usuário, servindo do snapshot local quando
// ele ainda está dentro da janela de staleness (estratégia cache-aside).
func (s *Service) Fetch(ctx context.Context) ([]domain.LineItem, error) {
	if s.ttl > 0 {
		if cached, err := s.cache.Get(ctx, cartCacheKey); err == nil {
			var items []domain.LineItem
			if json.Unmarshal([]byte(cached), &items) == nil {
				return items, nil
			}
			// Snapshot ilegível: descarta e segue para o servidor.
			s.cache.Delete(ctx, cartCacheKey)
		} else if err != cache.ErrCacheMiss {
			s.logger.Warn("Falha ao ler snapshot do carrinho do cache.", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	resp, err := s.api.Do(ctx, http.MethodGet, fetchPath, nil)
	if err != nil {
		return nil, err
	}
	if !resp.IsOK() {
		return nil, apperror.NewSoftError(resp.Status, resp.Message)
	}

	items, err := resp.CartItems()
	if err != nil {
		return nil, apperror.NewSoftError(resp.Status, "malformed cart payload")
	}

	s.storeSnapshot(ctx, items)
	return items, nil
}

// Invalidate descarta o snapshot local. É o mecanismo de rollback: depois
// de uma mutação rejeitada, a próxima leitura re-sincroniza com o servidor
// em vez de tentar reconciliar diffs.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, cartCacheKey); err != nil {
		s.logger.Warn("Falha ao invalidar snapshot do carrinho.", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// QuantityInCart devolve a quantidade já no carrinho para a tripla exata
// (productID, color, size). Usa o snapshot dentro da janela de staleness.
func (s *Service) QuantityInCart(ctx context.Context, productID, color, size string) (int, error) {
	items, err := s.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	if item, ok := cart.FindLineItem(items, productID, color, size); ok {
		return item.Quantity, nil
	}
	return 0, nil
}

// --- Wrappers de mutação remota ---
// Constroem o payload único {action, productId, color, size, quantity} e
// delegam à camada de rede. Falhas são propagadas como vieram: sem retry e
// sem rollback local: isso é responsabilidade do chamador. Em caso de
// sucesso o snapshot local é substituído pelo carrinho autoritativo que o
// servidor devolve.

// AddToCart emite a ação "add" para a tripla com a quantidade dada.
func (s *Service) AddToCart(ctx context.Context, productID, color, size string, quantity int) (*domain.Response, error) {
	return s.mutate(ctx, domain.CartMutation{
		Action:    domain.ActionAdd,
		ProductID: productID,
		Color:     color,
		Size:      size,
		Quantity:  quantity,
	})
}

// UpdateQuantity emite a ação "update" fixando a quantidade da tripla.
func (s *Service) UpdateQuantity(ctx context.Context, productID, color, size string, quantity int) (*domain.Response, error) {
	return s.mutate(ctx, domain.CartMutation{
		Action:    domain.ActionUpdate,
		ProductID: productID,
		Color:     color,
		Size:      size,
		Quantity:  quantity,
	})
}

// RemoveItem emite a ação "remove" (quantidade vai como zero).
func (s *Service) RemoveItem(ctx context.Context, productID, color, size string) (*domain.Response, error) {
	return s.mutate(ctx, domain.CartMutation{
		Action:    domain.ActionRemove,
		ProductID: productID,
		Color:     color,
		Size:      size,
		Quantity:  0,
	})
}

func (s *Service) mutate(ctx context.Context, m domain.CartMutation) (*domain.Response, error) {
	resp, err := s.api.Do(ctx, http.MethodPost, mutatePath, m)
	if err != nil {
		return nil, err
	}

	if resp.IsOK() {
		if items, itemsErr := resp.CartItems(); itemsErr == nil && items != nil {
			s.storeSnapshot(ctx, items)
		} else {
			s.Invalidate(ctx)
		}
	}
	return resp, nil
}

// --- Fluxo otimista das telas de lista ---
// A intenção é aplicada no snapshot local imediatamente; a confirmação ou
// rejeição do servidor decide entre reconciliar (carrinho autoritativo da
// resposta) e reverter (invalidação + refetch na próxima leitura).

// SetQuantity muda a quantidade de um item existente com atualização
// otimista. Devolve a coleção reconciliada.
func (s *Service) SetQuantity(ctx context.Context, item domain.LineItem, newQuantity int) ([]domain.LineItem, error) {
	return s.optimistic(ctx, item, cart.UpdateQuantity, newQuantity, func(ctx context.Context) (*domain.Response, error) {
		return s.UpdateQuantity(ctx, item.ProductID(), item.Color, item.Size, newQuantity)
	})
}

// Remove apaga um item com atualização otimista.
func (s *Service) Remove(ctx context.Context, item domain.LineItem) ([]domain.LineItem, error) {
	return s.optimistic(ctx, item, cart.UpdateRemove, 0, func(ctx context.Context) (*domain.Response, error) {
		return s.RemoveItem(ctx, item.ProductID(), item.Color, item.Size)
	})
}

func (s *Service) optimistic(ctx context.Context, item domain.LineItem, kind cart.UpdateKind, newQuantity int, op func(context.Context) (*domain.Response, error)) ([]domain.LineItem, error) {
	// 1. Mutação local imediata sobre o snapshot corrente.
	if current, err := s.Fetch(ctx); err == nil {
		s.storeSnapshot(ctx, cart.OptimisticUpdate(current, item.ID, kind, newQuantity))
	}

	// 2. Mutação remota.
	resp, err := op(ctx)
	if err != nil {
		s.Invalidate(ctx)
		return nil, err
	}
	if !resp.IsOK() {
		s.Invalidate(ctx)
		return nil, apperror.NewSoftError(resp.Status, resp.Message)
	}

	// 3. Reconciliação com a resposta autoritativa.
	items, itemsErr := resp.CartItems()
	if itemsErr != nil || items == nil {
		return s.Fetch(ctx)
	}
	return items, nil
}

func (s *Service) storeSnapshot(ctx context.Context, items []domain.LineItem) {
	if s.ttl <= 0 {
		return
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cartCacheKey, payload, s.ttl); err != nil {
		s.logger.Warn("Falha ao gravar snapshot do carrinho no cache.", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
