// Package selectionservice mantém o estado transiente do seletor de
// quantidade de UMA seleção (produto, cor, tamanho) antes do commit,
// reconciliando contra o estoque do servidor e a quantidade que o usuário
// já tem no carrinho para essa variante exata.
package selectionservice

import (
	"context"
	"fmt"
	"sync"

	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/domain"
	apperror "github.com/HiQuang210/GFashion-Frontend-sub000/internal/errors"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/pkg/logger"
)

// Mensagens exibidas ao usuário pelo seletor. São as strings do produto;
// não traduzir.
const (
	MsgOutOfStock      = "This item is currently out of stock"
	MsgProductNotFound = "Product not found"
	MsgVariantNotFound = "Product variant not found"
	MsgSelectSize      = "Please select a size"
	MsgSizeNotFound    = "Size not found in variant"
	MsgInvalidQuantity = "Please select a valid quantity"

	// Aviso não bloqueante: a quantidade já no carrinho não pôde ser
	// verificada, então o limite de estoque pode estar impreciso.
	MsgCartUnverified = "Unable to verify your cart right now"
)

// maxPerLine é o teto de unidades por item, independente do estoque.
const maxPerLine = 99

// CartGateway é o contrato que o seletor espera do serviço de carrinho.
type CartGateway interface {
	QuantityInCart(ctx context.Context, productID, color, size string) (int, error)
	AddToCart(ctx context.Context, productID, color, size string, quantity int) (*domain.Response, error)
}

// Selector gerencia a quantidade escolhida para uma seleção. Todo o estado
// fica atrás de um mutex; Increment/Decrement são locais e síncronos,
// apenas Commit faz I/O, e a flag committing garante no máximo uma mutação
// pendente por instância.
type Selector struct {
	mu     sync.Mutex
	cart   CartGateway
	logger logger.Logger

	product  *domain.Product
	color    string
	size     string
	variant  domain.ProductVariant
	hasColor bool

	quantity       int
	currentInCart  int
	errMessage     string
	warningMessage string
	committing     bool
}

// NewSelector cria um seletor sem seleção ativa (quantidade 1).
func NewSelector(cart CartGateway, log logger.Logger) *Selector {
	return &Selector{
		cart:     cart,
		logger:   log,
		quantity: 1,
	}
}

// Select troca a seleção ativa e re-sincroniza o estado: quantidade volta
// para 1, mensagens são limpas (erros de uma seleção nunca vazam para
// outra) e a quantidade já no carrinho é buscada para a tripla exata.
// size pode ser vazio enquanto o usuário ainda não escolheu.
func (s *Selector) Select(ctx context.Context, product *domain.Product, color, size string) {
	s.mu.Lock()
	s.resetLocked()
	s.product = product
	s.color = color
	s.size = size
	s.variant = domain.ProductVariant{}
	s.hasColor = false
	s.currentInCart = 0
	if product != nil {
		s.variant, s.hasColor = product.FindVariant(color)
	}
	productID := ""
	if product != nil {
		productID = product.ID
	}
	s.mu.Unlock()

	if product == nil || size == "" {
		return
	}

	// Leitura do carrinho do servidor para a tripla exata. Padrão
	// read-then-decide sem lock distribuído: se o carrinho mudar entre
	// esta leitura e o commit, o servidor continua autoritativo e a
	// rejeição dele chega como soft failure normal.
	qty, err := s.cart.QuantityInCart(ctx, productID, color, size)
	warning := ""
	if err != nil {
		s.logger.Warn("Falha ao buscar quantidade no carrinho; assumindo zero.", map[string]interface{}{
			"product_id": productID,
			"color":      color,
			"size":       size,
		})
		qty = 0
		warning = MsgCartUnverified
	}

	s.mu.Lock()
	// A seleção pode ter trocado enquanto a busca estava em voo.
	if s.product == product && s.color == color && s.size == size {
		s.currentInCart = qty
		s.warningMessage = warning
	}
	s.mu.Unlock()
}

// Reset volta a quantidade para 1 e limpa as mensagens.
func (s *Selector) Reset() {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
}

func (s *Selector) resetLocked() {
	s.quantity = 1
	s.errMessage = ""
	s.warningMessage = ""
}

// Increment tenta aumentar a quantidade escolhida em 1.
// Recusa com erro se o estoque é zero; caso contrário só permite se a nova
// quantidade fica dentro do teto E a soma com o que já está no carrinho
// respeita o estoque do servidor (o total combinado, não só a escolha).
func (s *Selector) Increment() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Seleção incompleta: nada a incrementar e nenhuma mensagem. O aviso
	// de estoque só vale quando a tripla existe e o estoque é zero mesmo.
	if s.product == nil || !s.hasColor || s.size == "" {
		return
	}

	stock := s.stockLocked()
	if stock == 0 {
		s.errMessage = MsgOutOfStock
		return
	}

	maxQty := s.maxQuantityLocked()
	next := s.quantity + 1
	if next <= maxQty && s.currentInCart+next <= stock {
		s.quantity = next
		s.errMessage = ""
		s.warningMessage = ""
		return
	}

	// Teto efetivo: o que ainda cabe considerando carrinho + limite por
	// item.
	available := stock - s.currentInCart
	if available > maxQty {
		available = maxQty
	}
	if available < 0 {
		available = 0
	}
	s.errMessage = fmt.Sprintf("Maximum quantity available: %d", available)
}

// Decrement reduz a quantidade escolhida, sem descer de 1. Sempre limpa as
// mensagens: reduzir pode resolver uma condição anterior de excesso.
func (s *Selector) Decrement() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quantity > 1 {
		s.quantity--
	}
	s.errMessage = ""
	s.warningMessage = ""
}

// Validate executa as checagens pré-commit na ordem exata:
// produto, variante, tamanho escolhido, tamanho existe na variante,
// estoque > 0, quantidade > 0, (carrinho + escolha) <= estoque.
// A primeira falha vence, define a mensagem de erro e retorna false.
func (s *Selector) Validate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked()
}

func (s *Selector) validateLocked() bool {
	if s.product == nil {
		s.errMessage = MsgProductNotFound
		return false
	}
	if !s.hasColor {
		s.errMessage = MsgVariantNotFound
		return false
	}
	if s.size == "" {
		s.errMessage = MsgSelectSize
		return false
	}
	sizeStock, ok := s.variant.FindSize(s.size)
	if !ok {
		s.errMessage = MsgSizeNotFound
		return false
	}
	if sizeStock.Stock == 0 {
		s.errMessage = MsgOutOfStock
		return false
	}
	if s.quantity <= 0 {
		s.errMessage = MsgInvalidQuantity
		return false
	}
	if s.currentInCart+s.quantity > sizeStock.Stock {
		s.errMessage = fmt.Sprintf("Only %d items in stock", sizeStock.Stock)
		return false
	}
	s.errMessage = ""
	return true
}

// Commit valida e, passando, emite o add-to-cart remoto.
// Falha de validação retorna false sem nenhuma chamada de rede. Resposta
// com status diferente de "OK" é falha de negócio: a mensagem do servidor
// é exibida e nada muda localmente. Erro de transporte vira a mensagem
// mapeada por status HTTP. No sucesso, a quantidade já no carrinho cresce
// pelo valor commitado, a escolha volta para 1 e as mensagens somem.
func (s *Selector) Commit(ctx context.Context) bool {
	s.mu.Lock()
	if s.committing {
		// Já existe uma mutação pendente desta instância.
		s.mu.Unlock()
		return false
	}
	if !s.validateLocked() {
		s.mu.Unlock()
		return false
	}
	s.committing = true
	productID := s.product.ID
	color, size, qty := s.color, s.size, s.quantity
	s.mu.Unlock()

	resp, err := s.cart.AddToCart(ctx, productID, color, size, qty)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.committing = false

	if err != nil {
		s.errMessage = apperror.UserMessage(err)
		s.logger.Error("Commit de add-to-cart falhou.", err)
		return false
	}
	if !resp.IsOK() {
		if resp.Message != "" {
			s.errMessage = resp.Message
		} else {
			s.errMessage = apperror.MsgGeneric
		}
		return false
	}

	s.currentInCart += qty
	s.quantity = 1
	s.errMessage = ""
	s.warningMessage = ""
	s.logger.Debug("Item adicionado ao carrinho.", map[string]interface{}{
		"product_id": productID,
		"color":      color,
		"size":       size,
		"quantity":   qty,
	})
	return true
}

// IsValidSelection é o gate de renderização do botão de commit. Não muta
// estado: true apenas se produto/variante/tamanho/estoque existem, não há
// erro ativo, a quantidade está em [1, max] e o total combinado respeita o
// estoque.
func (s *Selector) IsValidSelection() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.product == nil || !s.hasColor || s.size == "" {
		return false
	}
	sizeStock, ok := s.variant.FindSize(s.size)
	if !ok || sizeStock.Stock <= 0 {
		return false
	}
	if s.errMessage != "" {
		return false
	}
	if s.quantity < 1 || s.quantity > s.maxQuantityLocked() {
		return false
	}
	return s.currentInCart+s.quantity <= sizeStock.Stock
}

// --- Leitura de estado (para a camada de apresentação) ---

// Quantity devolve a quantidade escolhida no seletor.
func (s *Selector) Quantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quantity
}

// CurrentCartQuantity devolve a quantidade já no carrinho para a seleção.
func (s *Selector) CurrentCartQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentInCart
}

// AvailableStock devolve o estoque reportado pelo servidor para o tamanho
// selecionado (0 quando a seleção está incompleta).
func (s *Selector) AvailableStock() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stockLocked()
}

// MaxQuantity devolve min(estoque, 99).
func (s *Selector) MaxQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxQuantityLocked()
}

// ErrorMessage devolve a mensagem de erro ativa (vazia quando não há).
func (s *Selector) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMessage
}

// WarningMessage devolve o aviso ativo (vazio quando não há).
func (s *Selector) WarningMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warningMessage
}

func (s *Selector) stockLocked() int {
	if s.product == nil || !s.hasColor || s.size == "" {
		return 0
	}
	if sizeStock, ok := s.variant.FindSize(s.size); ok {
		return sizeStock.Stock
	}
	return 0
}

func (s *Selector) maxQuantityLocked() int {
	stock := s.stockLocked()
	if stock > maxPerLine {
		return maxPerLine
	}
	return stock
}
