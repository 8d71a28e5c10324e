package domain

import "time"

// Product representa um item do catálogo como o backend o devolve.
// O estoque é autoritativo no servidor: o cliente apenas lê os valores de
// SizeStock, nunca os altera diretamente: mudanças de estoque são efeito
// colateral do ack de add/update/remove no servidor.
type Product struct {
	ID          string           `json:"_id"`
	Name        string           `json:"name"`
	Type        string           `json:"type"`
	Price       int64            `json:"price"` // VND
	Description string           `json:"description,omitempty"`
	Rating      float64          `json:"rating"`
	Sold        int              `json:"sold"`
	Variants    []ProductVariant `json:"variants"`
	CreatedAt   time.Time        `json:"createdAt,omitempty"`
	UpdatedAt   time.Time        `json:"updatedAt,omitempty"`
}

// ProductVariant é a opção de cor de um produto, contendo o estoque por
// tamanho.
type ProductVariant struct {
	Color  string      `json:"color"`
	Images []string    `json:"images,omitempty"`
	Sizes  []SizeStock `json:"sizes"`
}

// SizeStock é a contagem de estoque de um tamanho dentro de uma variante.
// Invariante: Stock >= 0.
type SizeStock struct {
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

// FindVariant localiza a variante pela cor (comparação exata).
func (p Product) FindVariant(color string) (ProductVariant, bool) {
	for _, v := range p.Variants {
		if v.Color == color {
			return v, true
		}
	}
	return ProductVariant{}, false
}

// FindSize localiza a entrada de estoque de um tamanho dentro da variante.
func (v ProductVariant) FindSize(size string) (SizeStock, bool) {
	for _, s := range v.Sizes {
		if s.Size == size {
			return s, true
		}
	}
	return SizeStock{}, false
}

// ProductFilter define os parâmetros de busca e paginação do catálogo.
type ProductFilter struct {
	Page   int
	Limit  int
	Type   string
	Search string
}
