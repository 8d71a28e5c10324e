package stubapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/domain"
)

// --- Carrinho ---

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request, userID string) {
	s.mu.Lock()
	items := append([]domain.LineItem(nil), s.carts[userID]...)
	s.mu.Unlock()

	writeEnvelope(w, http.StatusOK, envelope{Status: domain.StatusOK, Data: items})
}

// handleCart é a rota única de mutação: {action, productId, color, size,
// quantity}. O servidor é autoritativo sobre o estoque: um add/update que
// estoura o limite volta como status "ERROR", nunca altera o carrinho.
func (s *Server) handleCart(w http.ResponseWriter, r *http.Request, userID string) {
	var m domain.CartMutation
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeEnvelope(w, http.StatusBadRequest, envelope{Status: "ERROR", Message: "Invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.findProduct(m.ProductID)
	if !ok {
		writeEnvelope(w, http.StatusNotFound, envelope{Status: "ERROR", Message: "Product not found"})
		return
	}
	variant, ok := product.FindVariant(m.Color)
	if !ok {
		writeEnvelope(w, http.StatusNotFound, envelope{Status: "ERROR", Message: "Product variant not found"})
		return
	}
	sizeStock, ok := variant.FindSize(m.Size)
	if !ok {
		writeEnvelope(w, http.StatusNotFound, envelope{Status: "ERROR", Message: "Size not found in variant"})
		return
	}

	items := s.carts[userID]
	idx := -1
	for i, item := range items {
		if item.Matches(m.ProductID, m.Color, m.Size) {
			idx = i
			break
		}
	}

	switch m.Action {
	case domain.ActionAdd:
		if m.Quantity <= 0 {
			softError(w, "Quantity must be positive")
			return
		}
		existing := 0
		if idx >= 0 {
			existing = items[idx].Quantity
		}
		if existing+m.Quantity > sizeStock.Stock {
			softError(w, "Only %d items in stock", sizeStock.Stock)
			return
		}
		if idx >= 0 {
			items[idx].Quantity += m.Quantity
		} else {
			items = append(items, domain.LineItem{
				ID: uuid.New().String(),
				Product: &domain.ProductRef{
					ID:    product.ID,
					Name:  product.Name,
					Price: product.Price,
				},
				Color:    m.Color,
				Size:     m.Size,
				Quantity: m.Quantity,
			})
		}

	case domain.ActionUpdate:
		if idx < 0 {
			writeEnvelope(w, http.StatusNotFound, envelope{Status: "ERROR", Message: "Item not in cart"})
			return
		}
		if m.Quantity > sizeStock.Stock {
			softError(w, "Only %d items in stock", sizeStock.Stock)
			return
		}
		if m.Quantity <= 0 {
			// Quantidade zero não existe no carrinho: vira remoção.
			items = append(items[:idx], items[idx+1:]...)
		} else {
			items[idx].Quantity = m.Quantity
		}

	case domain.ActionRemove:
		// Remoção de item ausente é idempotente.
		if idx >= 0 {
			items = append(items[:idx], items[idx+1:]...)
		}

	default:
		writeEnvelope(w, http.StatusBadRequest, envelope{Status: "ERROR", Message: "Unknown cart action"})
		return
	}

	s.carts[userID] = items
	s.logger.Debug("Mutação de carrinho aplicada.", map[string]interface{}{
		"action":     string(m.Action),
		"product_id": m.ProductID,
		"items":      len(items),
	})
	writeEnvelope(w, http.StatusOK, envelope{Status: domain.StatusOK, Cart: items})
}

// --- Catálogo ---

func (s *Server) findProduct(id string) (domain.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	products := append([]domain.Product(nil), s.products...)
	s.mu.Unlock()

	writeEnvelope(w, http.StatusOK, envelope{Status: domain.StatusOK, Data: products})
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	product, ok := s.findProduct(id)
	s.mu.Unlock()

	if !ok {
		writeEnvelope(w, http.StatusNotFound, envelope{Status: "ERROR", Message: "Product not found"})
		return
	}
	writeEnvelope(w, http.StatusOK, envelope{Status: domain.StatusOK, Data: product})
}

// --- Pedidos ---

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request, userID string) {
	var req domain.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, envelope{Status: "ERROR", Message: "Invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	if len(items) == 0 {
		softError(w, "Your cart is empty")
		return
	}

	// Snapshot congelado: subtotais calculados agora, imunes a mudanças
	// futuras de preço no catálogo.
	order := domain.Order{
		ID:            uuid.New().String(),
		Status:        domain.OrderStatusPending,
		PaymentMethod: req.PaymentMethod,
		Address:       req.Address,
		Phone:         req.Phone,
		Note:          req.Note,
		CreatedAt:     time.Now(),
	}
	for _, item := range items {
		line := domain.OrderProduct{
			ProductID: item.ProductID(),
			Color:     item.Color,
			Size:      item.Size,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			line.Name = item.Product.Name
			line.Price = item.Product.Price
		}
		line.Subtotal = line.Price * int64(line.Quantity)
		order.Products = append(order.Products, line)
		order.Total += line.Subtotal
	}

	s.orders[userID] = append(s.orders[userID], order)
	s.carts[userID] = nil

	writeEnvelope(w, http.StatusOK, envelope{Status: domain.StatusOK, Data: order})
}

func (s *Server) handleOrderHistory(w http.ResponseWriter, r *http.Request, userID string) {
	s.mu.Lock()
	orders := append([]domain.Order(nil), s.orders[userID]...)
	s.mu.Unlock()

	writeEnvelope(w, http.StatusOK, envelope{Status: domain.StatusOK, Data: orders})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request, userID string) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, order := range s.orders[userID] {
		if order.ID == id {
			writeEnvelope(w, http.StatusOK, envelope{Status: domain.StatusOK, Data: order})
			return
		}
	}
	writeEnvelope(w, http.StatusNotFound, envelope{Status: "ERROR", Message: "Order not found"})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request, userID string) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.orders[userID]
	for i, order := range orders {
		if order.ID != id {
			continue
		}
		if order.Status != domain.OrderStatusPending {
			softError(w, "Order can no longer be cancelled")
			return
		}
		orders[i].Status = domain.OrderStatusCancelled
		writeEnvelope(w, http.StatusOK, envelope{Status: domain.StatusOK, Data: orders[i]})
		return
	}
	writeEnvelope(w, http.StatusNotFound, envelope{Status: "ERROR", Message: "Order not found"})
}

// --- Avaliações ---

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request, userID string) {
	productID := mux.Vars(r)["id"]

	var req domain.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, envelope{Status: "ERROR", Message: "Invalid request body"})
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		softError(w, "Rating must be between 1 and 5")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findProduct(productID); !ok {
		writeEnvelope(w, http.StatusNotFound, envelope{Status: "ERROR", Message: "Product not found"})
		return
	}

	review := domain.Review{
		ID:        uuid.New().String(),
		ProductID: productID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}
	for _, acc := range s.accounts {
		if acc.user.ID == userID {
			review.UserName = acc.user.FirstName
			break
		}
	}
	s.reviews[productID] = append(s.reviews[productID], review)

	writeEnvelope(w, http.StatusOK, envelope{Status: domain.StatusOK, Data: review})
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["id"]

	s.mu.Lock()
	reviews := append([]domain.Review(nil), s.reviews[productID]...)
	s.mu.Unlock()

	writeEnvelope(w, http.StatusOK, envelope{Status: domain.StatusOK, Data: reviews})
}
