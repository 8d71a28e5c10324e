package selectionservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/domain"
	apperror "github.com/HiQuang210/GFashion-Frontend-sub000/internal/errors"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/pkg/logger"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/service/selectionservice"
)

// MockCartGateway é uma implementação mock da interface CartGateway.
type MockCartGateway struct {
	mock.Mock
}

func (m *MockCartGateway) QuantityInCart(ctx context.Context, productID, color, size string) (int, error) {
	args := m.Called(ctx, productID, color, size)
	return args.Int(0), args.Error(1)
}

func (m *MockCartGateway) AddToCart(ctx context.Context, productID, color, size string, quantity int) (*domain.Response, error) {
	args := m.Called(ctx, productID, color, size, quantity)
	if resp := args.Get(0); resp != nil {
		return resp.(*domain.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func testProduct(stocks map[string]int) *domain.Product {
	sizes := make([]domain.SizeStock, 0, len(stocks))
	for _, size := range []string{"S", "M", "L"} {
		if stock, ok := stocks[size]; ok {
			sizes = append(sizes, domain.SizeStock{Size: size, Stock: stock})
		}
	}
	return &domain.Product{
		ID:    "p1",
		Name:  "Basic Cotton Tee",
		Price: 199000,
		Variants: []domain.ProductVariant{
			{Color: "White", Sizes: sizes},
		},
	}
}

func newSelector(t *testing.T, gateway *MockCartGateway, product *domain.Product, color, size string, inCart int) *selectionservice.Selector {
	t.Helper()
	if product != nil && size != "" {
		gateway.On("QuantityInCart", mock.Anything, product.ID, color, size).Return(inCart, nil).Once()
	}
	sel := selectionservice.NewSelector(gateway, logger.Nop{})
	sel.Select(context.Background(), product, color, size)
	return sel
}

// TestIncrement_CombinedTotalRespectsStock: com stock=5, já há 3
// no carrinho, o usuário tenta subir a escolha para 3 (combinado 6 > 5):
// o incremento é recusado com o teto efetivo (2) na mensagem.
func TestIncrement_CombinedTotalRespectsStock(t *testing.T) {
	gateway := new(MockCartGateway)
	sel := newSelector(t, gateway, testProduct(map[string]int{"M": 5}), "White", "M", 3)

	sel.Increment() // 1 -> 2 (combinado 5, ainda cabe)
	assert.Equal(t, 2, sel.Quantity())
	assert.Empty(t, sel.ErrorMessage())

	sel.Increment() // 2 -> 3 estouraria: combinado 6 > 5
	assert.Equal(t, 2, sel.Quantity())
	assert.Equal(t, "Maximum quantity available: 2", sel.ErrorMessage())
	gateway.AssertExpectations(t)
}

// TestIncrement_OutOfStock: estoque zero recusa qualquer
// incremento, independente da quantidade atual.
func TestIncrement_OutOfStock(t *testing.T) {
	gateway := new(MockCartGateway)
	sel := newSelector(t, gateway, testProduct(map[string]int{"M": 0}), "White", "M", 0)

	sel.Increment()
	assert.Equal(t, 1, sel.Quantity())
	assert.Equal(t, selectionservice.MsgOutOfStock, sel.ErrorMessage())
}

// TestIncrement_CappedAt99: mesmo com estoque enorme, o teto por item é 99.
func TestIncrement_CappedAt99(t *testing.T) {
	gateway := new(MockCartGateway)
	sel := newSelector(t, gateway, testProduct(map[string]int{"M": 500}), "White", "M", 0)

	for i := 0; i < 120; i++ {
		sel.Increment()
	}
	assert.Equal(t, 99, sel.Quantity())
	assert.Equal(t, "Maximum quantity available: 99", sel.ErrorMessage())
}

// TestIncrement_IncompleteSelectionIsNoOp: sem tamanho (ou sem produto)
// o incremento não faz nada e não emite mensagem; o aviso de esgotado é
// reservado para estoque zero de verdade.
func TestIncrement_IncompleteSelectionIsNoOp(t *testing.T) {
	t.Run("sem tamanho selecionado", func(t *testing.T) {
		gateway := new(MockCartGateway)
		sel := newSelector(t, gateway, testProduct(map[string]int{"M": 5}), "White", "", 0)

		sel.Increment()
		assert.Equal(t, 1, sel.Quantity())
		assert.Empty(t, sel.ErrorMessage())
	})

	t.Run("sem produto", func(t *testing.T) {
		sel := selectionservice.NewSelector(new(MockCartGateway), logger.Nop{})
		sel.Increment()
		assert.Equal(t, 1, sel.Quantity())
		assert.Empty(t, sel.ErrorMessage())
	})
}

// TestDecrement_NoOpBelowOne: decremento não desce de 1 e sempre limpa as
// mensagens (reduzir pode resolver um excesso anterior).
func TestDecrement_NoOpBelowOne(t *testing.T) {
	gateway := new(MockCartGateway)
	sel := newSelector(t, gateway, testProduct(map[string]int{"M": 5}), "White", "M", 3)

	sel.Increment()
	sel.Increment() // recusado, deixa mensagem de erro
	assert.NotEmpty(t, sel.ErrorMessage())

	sel.Decrement()
	assert.Equal(t, 1, sel.Quantity())
	assert.Empty(t, sel.ErrorMessage())

	sel.Decrement() // já em 1: no-op
	assert.Equal(t, 1, sel.Quantity())
}

// TestValidate_OrderSizeBeforeStock: com tamanho não selecionado, o erro
// reportado deve ser o de tamanho ANTES de qualquer checagem de estoque;
// o produto tem outro tamanho com estoque que tornaria uma checagem fora
// de ordem incorretamente verde.
func TestValidate_OrderSizeBeforeStock(t *testing.T) {
	gateway := new(MockCartGateway)
	// "S" tem estoque; o tamanho selecionado está vazio.
	sel := newSelector(t, gateway, testProduct(map[string]int{"S": 10}), "White", "", 0)

	assert.False(t, sel.Validate())
	assert.Equal(t, selectionservice.MsgSelectSize, sel.ErrorMessage())
}

// TestValidate_Order cobre a cadeia completa, primeira falha vence.
func TestValidate_Order(t *testing.T) {
	ctx := context.Background()

	t.Run("produto ausente", func(t *testing.T) {
		sel := selectionservice.NewSelector(new(MockCartGateway), logger.Nop{})
		sel.Select(ctx, nil, "White", "M")
		assert.False(t, sel.Validate())
		assert.Equal(t, selectionservice.MsgProductNotFound, sel.ErrorMessage())
	})

	t.Run("variante desconhecida", func(t *testing.T) {
		gateway := new(MockCartGateway)
		gateway.On("QuantityInCart", mock.Anything, "p1", "Red", "M").Return(0, nil).Once()
		sel := selectionservice.NewSelector(gateway, logger.Nop{})
		sel.Select(ctx, testProduct(map[string]int{"M": 5}), "Red", "M")
		assert.False(t, sel.Validate())
		assert.Equal(t, selectionservice.MsgVariantNotFound, sel.ErrorMessage())
	})

	t.Run("tamanho fora da variante", func(t *testing.T) {
		gateway := new(MockCartGateway)
		gateway.On("QuantityInCart", mock.Anything, "p1", "White", "XL").Return(0, nil).Once()
		sel := selectionservice.NewSelector(gateway, logger.Nop{})
		sel.Select(ctx, testProduct(map[string]int{"M": 5}), "White", "XL")
		assert.False(t, sel.Validate())
		assert.Equal(t, selectionservice.MsgSizeNotFound, sel.ErrorMessage())
	})

	t.Run("estoque esgotado", func(t *testing.T) {
		gateway := new(MockCartGateway)
		sel := newSelector(t, gateway, testProduct(map[string]int{"M": 0}), "White", "M", 0)
		assert.False(t, sel.Validate())
		assert.Equal(t, selectionservice.MsgOutOfStock, sel.ErrorMessage())
	})

	t.Run("combinado acima do estoque", func(t *testing.T) {
		gateway := new(MockCartGateway)
		sel := newSelector(t, gateway, testProduct(map[string]int{"M": 5}), "White", "M", 5)
		assert.False(t, sel.Validate())
		assert.Equal(t, "Only 5 items in stock", sel.ErrorMessage())
	})
}

// TestCommit_Success: resposta {status:"OK"} incrementa a
// quantidade no carrinho pelo valor commitado, volta a escolha para 1 e
// limpa as mensagens.
func TestCommit_Success(t *testing.T) {
	gateway := new(MockCartGateway)
	sel := newSelector(t, gateway, testProduct(map[string]int{"M": 10}), "White", "M", 2)

	sel.Increment() // escolha = 2
	gateway.On("AddToCart", mock.Anything, "p1", "White", "M", 2).
		Return(&domain.Response{Status: domain.StatusOK}, nil).Once()

	assert.True(t, sel.Commit(context.Background()))
	assert.Equal(t, 4, sel.CurrentCartQuantity())
	assert.Equal(t, 1, sel.Quantity())
	assert.Empty(t, sel.ErrorMessage())
	gateway.AssertExpectations(t)
}

// TestCommit_SoftFailure: status diferente de "OK" retorna
// false, exibe a mensagem do servidor literalmente e não muda o estado.
func TestCommit_SoftFailure(t *testing.T) {
	gateway := new(MockCartGateway)
	sel := newSelector(t, gateway, testProduct(map[string]int{"M": 10}), "White", "M", 2)

	gateway.On("AddToCart", mock.Anything, "p1", "White", "M", 1).
		Return(&domain.Response{Status: "ERROR", Message: "Out of stock"}, nil).Once()

	assert.False(t, sel.Commit(context.Background()))
	assert.Equal(t, "Out of stock", sel.ErrorMessage())
	assert.Equal(t, 2, sel.CurrentCartQuantity())
	assert.Equal(t, 1, sel.Quantity())
}

// TestCommit_ValidationBlocksNetwork: falha de validação retorna false sem
// nenhuma chamada de rede.
func TestCommit_ValidationBlocksNetwork(t *testing.T) {
	gateway := new(MockCartGateway)
	sel := newSelector(t, gateway, testProduct(map[string]int{"M": 0}), "White", "M", 0)

	assert.False(t, sel.Commit(context.Background()))
	gateway.AssertNotCalled(t, "AddToCart", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestCommit_TransportErrorMapped: erro de transporte vira a mensagem
// fixa do status HTTP correspondente.
func TestCommit_TransportErrorMapped(t *testing.T) {
	gateway := new(MockCartGateway)
	sel := newSelector(t, gateway, testProduct(map[string]int{"M": 10}), "White", "M", 0)

	gateway.On("AddToCart", mock.Anything, "p1", "White", "M", 1).
		Return(nil, apperror.NewTransportError(401, "")).Once()

	assert.False(t, sel.Commit(context.Background()))
	assert.Equal(t, apperror.MsgUnauthorized, sel.ErrorMessage())
}

// TestReset limpa quantidade e mensagens, para erros de uma seleção não
// vazarem para outra.
func TestReset(t *testing.T) {
	gateway := new(MockCartGateway)
	sel := newSelector(t, gateway, testProduct(map[string]int{"M": 2}), "White", "M", 0)

	sel.Increment()
	sel.Increment() // recusado: combinado 3 > 2
	assert.NotEmpty(t, sel.ErrorMessage())

	sel.Reset()
	assert.Equal(t, 1, sel.Quantity())
	assert.Empty(t, sel.ErrorMessage())
}

// TestIsValidSelection cobre o gate de renderização do botão de commit.
func TestIsValidSelection(t *testing.T) {
	gateway := new(MockCartGateway)
	sel := newSelector(t, gateway, testProduct(map[string]int{"M": 5}), "White", "M", 3)

	assert.True(t, sel.IsValidSelection())

	sel.Increment() // escolha = 2, combinado = 5 (ainda válido)
	assert.True(t, sel.IsValidSelection())

	sel.Increment() // recusado, erro ativo
	assert.False(t, sel.IsValidSelection())

	sel.Reset()
	assert.True(t, sel.IsValidSelection())
}

// TestIsValidSelection_IncompleteSelection: sem tamanho escolhido o gate
// fica fechado, sem mutar estado.
func TestIsValidSelection_IncompleteSelection(t *testing.T) {
	gateway := new(MockCartGateway)
	sel := newSelector(t, gateway, testProduct(map[string]int{"M": 5}), "White", "", 0)

	assert.False(t, sel.IsValidSelection())
	assert.Empty(t, sel.ErrorMessage())
}

// TestSelect_CartFetchFailure: falha ao ler o carrinho assume zero e
// registra um aviso não bloqueante.
func TestSelect_CartFetchFailure(t *testing.T) {
	gateway := new(MockCartGateway)
	gateway.On("QuantityInCart", mock.Anything, "p1", "White", "M").
		Return(0, apperror.NewNetworkError(assert.AnError)).Once()

	sel := selectionservice.NewSelector(gateway, logger.Nop{})
	sel.Select(context.Background(), testProduct(map[string]int{"M": 5}), "White", "M")

	assert.Equal(t, 0, sel.CurrentCartQuantity())
	assert.Equal(t, selectionservice.MsgCartUnverified, sel.WarningMessage())
	assert.True(t, sel.IsValidSelection())
}
