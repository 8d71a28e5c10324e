// Package cart contém as funções puras de aritmética e validação sobre a
// coleção de itens do carrinho. Nenhuma função aqui faz I/O; as mutações
// remotas ficam na camada de serviço (internal/service/cartservice).
package cart

import (
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/domain"
)

// TotalPrice soma preço × quantidade de todos os itens. Coleção vazia
// retorna 0.
func TotalPrice(items []domain.LineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

// TotalQuantity soma as quantidades de todos os itens.
func TotalQuantity(items []domain.LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// FindLineItem localiza o item que corresponde exatamente à tripla
// (productID, color, size). A comparação de Color/Size é case-sensitive;
// quem chama deve normalizar o casing na origem.
func FindLineItem(items []domain.LineItem, productID, color, size string) (domain.LineItem, bool) {
	for _, item := range items {
		if item.Matches(productID, color, size) {
			return item, true
		}
	}
	return domain.LineItem{}, false
}

// Reason identifica por que um item do carrinho é inválido.
type Reason string

const (
	ReasonMissingProduct     Reason = "MissingProduct"
	ReasonInvalidProductData Reason = "InvalidProductData"
	ReasonMissingVariant     Reason = "MissingVariant"
	ReasonInvalidQuantity    Reason = "InvalidQuantity"
)

// ItemValidity é o resultado estruturado da validação de um item.
// ValidateLineItem nunca entra em pânico: qualquer forma torta vira um
// resultado inválido com a razão correspondente.
type ItemValidity struct {
	Valid  bool
	Reason Reason
}

// ValidateLineItem verifica a forma de um item do carrinho.
func ValidateLineItem(item domain.LineItem) ItemValidity {
	if item.Product == nil {
		return ItemValidity{Reason: ReasonMissingProduct}
	}
	if item.Product.ID == "" || item.Product.Name == "" || item.Product.Price <= 0 {
		return ItemValidity{Reason: ReasonInvalidProductData}
	}
	if item.Color == "" || item.Size == "" {
		return ItemValidity{Reason: ReasonMissingVariant}
	}
	if item.Quantity <= 0 {
		return ItemValidity{Reason: ReasonInvalidQuantity}
	}
	return ItemValidity{Valid: true}
}

// CartValidity é o resultado da validação da coleção inteira.
// Index aponta o primeiro item inválido quando Valid é false.
type CartValidity struct {
	Valid bool
	// EmptyCart marca carrinho vazio: válido, mas com aviso (a UI
	// desabilita o checkout em vez de mostrar erro).
	EmptyCart bool
	Index     int
	Item      ItemValidity
}

// ValidateCart valida a coleção parando no primeiro item inválido
// (short-circuit, sem agregação).
func ValidateCart(items []domain.LineItem) CartValidity {
	if len(items) == 0 {
		return CartValidity{Valid: true, EmptyCart: true, Index: -1, Item: ItemValidity{Valid: true}}
	}
	for i, item := range items {
		if v := ValidateLineItem(item); !v.Valid {
			return CartValidity{Index: i, Item: v}
		}
	}
	return CartValidity{Valid: true, Index: -1, Item: ItemValidity{Valid: true}}
}

// Summary deriva o resumo do carrinho a partir da coleção atual.
// ItemCount e UniqueItemCount são hoje o mesmo valor (tamanho da coleção);
// os dois campos são mantidos até produto decidir sobre a visão agrupada
// por produto.
func Summary(items []domain.LineItem) domain.CartSummary {
	total := TotalPrice(items)
	return domain.CartSummary{
		ItemCount:       len(items),
		UniqueItemCount: len(items),
		TotalItems:      TotalQuantity(items),
		TotalPrice:      total,
		FormattedPrice:  FormatPrice(total),
		IsEmpty:         len(items) == 0,
	}
}

// UpdateKind identifica a mutação local aplicada por OptimisticUpdate.
type UpdateKind string

const (
	UpdateQuantity UpdateKind = "quantity"
	UpdateRemove   UpdateKind = "remove"
)

// OptimisticUpdate devolve uma nova coleção refletindo a mudança de
// quantidade ou a remoção, sem I/O: usada para atualizar o cache local
// antes da confirmação do servidor. Remover um itemID ausente devolve a
// coleção inalterada; atualizar para quantidade <= 0 remove a entrada
// (entradas com quantidade zero não devem existir).
func OptimisticUpdate(items []domain.LineItem, itemID string, kind UpdateKind, newQuantity int) []domain.LineItem {
	out := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		if item.ID != itemID {
			out = append(out, item)
			continue
		}
		switch kind {
		case UpdateRemove:
			// Omitido da nova coleção.
		case UpdateQuantity:
			if newQuantity > 0 {
				item.Quantity = newQuantity
				out = append(out, item)
			}
		default:
			out = append(out, item)
		}
	}
	return out
}
