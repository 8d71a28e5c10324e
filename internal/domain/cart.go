package domain

// ProductRef é o snapshot desnormalizado do produto carregado junto com o
// item do carrinho. O backend popula esses campos no momento da inserção;
// o cliente nunca os altera localmente.
type ProductRef struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Price int64  `json:"price"` // Preço unitário em VND (inteiro, sem centavos)
	Image string `json:"image,omitempty"`
}

// LineItem representa uma entrada do carrinho. A identidade lógica é a
// tripla (ProductID, Color, Size); o campo ID é atribuído pelo backend
// apenas depois de persistido.
// Invariante: Quantity > 0: uma entrada com quantidade zero não deve
// existir (a remoção apaga a entrada em vez de zerá-la).
type LineItem struct {
	ID       string      `json:"_id,omitempty"`
	Product  *ProductRef `json:"product"`
	Color    string      `json:"color"`
	Size     string      `json:"size"`
	Quantity int         `json:"quantity"`
}

// ProductID retorna o ID do produto referenciado, ou vazio se o snapshot
// estiver ausente.
func (l LineItem) ProductID() string {
	if l.Product == nil {
		return ""
	}
	return l.Product.ID
}

// Matches verifica se o item corresponde exatamente à tripla de seleção.
// A comparação de Color/Size é case-sensitive: quem chama deve normalizar
// o casing na origem (fragilidade conhecida, mantida de propósito).
func (l LineItem) Matches(productID, color, size string) bool {
	return l.ProductID() == productID && l.Color == color && l.Size == size
}

// Subtotal calcula preço × quantidade do item. Snapshot ausente conta como
// preço zero.
func (l LineItem) Subtotal() int64 {
	if l.Product == nil {
		return 0
	}
	return l.Product.Price * int64(l.Quantity)
}

// CartSummary é o resumo derivado do carrinho. Ele é recalculado a cada
// leitura a partir da coleção de LineItems: nunca armazenado de forma
// independente, para não divergir da fonte.
type CartSummary struct {
	// ItemCount e UniqueItemCount são hoje a mesma métrica (tamanho da
	// coleção). A duplicação é intencional e aguarda decisão de produto
	// sobre uma futura visão agrupada por produto.
	ItemCount       int    `json:"itemCount"`
	UniqueItemCount int    `json:"uniqueItemCount"`
	TotalItems      int    `json:"totalItems"`
	TotalPrice      int64  `json:"totalPrice"`
	FormattedPrice  string `json:"formattedPrice"`
	IsEmpty         bool   `json:"isEmpty"`
}

// CartAction identifica a operação enviada ao endpoint único de mutação
// do carrinho (/user/handle-cart).
type CartAction string

const (
	ActionAdd    CartAction = "add"
	ActionUpdate CartAction = "update"
	ActionRemove CartAction = "remove"
)

// CartMutation é o payload único de mutação do carrinho. Para remoção a
// quantidade vai como zero.
type CartMutation struct {
	Action    CartAction `json:"action"`
	ProductID string     `json:"productId"`
	Color     string     `json:"color"`
	Size      string     `json:"size"`
	Quantity  int        `json:"quantity"`
}
