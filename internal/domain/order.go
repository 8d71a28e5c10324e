package domain

import "time"

// OrderProduct é o snapshot de uma linha do carrinho no momento do
// checkout, com o subtotal congelado. Depois de criado o pedido, mudanças
// de preço no catálogo não o afetam.
type OrderProduct struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	Subtotal  int64  `json:"subtotal"`
}

// Order é um pedido criado a partir do carrinho do usuário.
// PaymentMethod é uma string livre: a integração com gateway de pagamento
// fica fora deste cliente.
type Order struct {
	ID            string         `json:"_id"`
	Products      []OrderProduct `json:"products"`
	Total         int64          `json:"total"`
	DeliveryFee   int64          `json:"deliveryFee,omitempty"`
	Status        string         `json:"status"`
	PaymentMethod string         `json:"paymentMethod"`
	Address       string         `json:"address,omitempty"`
	Phone         string         `json:"phone,omitempty"`
	Note          string         `json:"note,omitempty"`
	CreatedAt     time.Time      `json:"createdAt,omitempty"`
}

// CheckoutRequest é o payload de criação de pedido. O backend monta o
// pedido a partir do carrinho corrente do usuário.
type CheckoutRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Note          string `json:"note,omitempty"`
}

// Status de pedido conhecidos pelo cliente (o servidor pode introduzir
// outros; o cliente os exibe como vieram).
const (
	OrderStatusPending   = "pending"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)
