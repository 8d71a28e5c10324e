package domain

import "encoding/json"

// StatusOK é o status de sucesso do envelope de resposta do backend.
// Qualquer outro valor é uma falha de negócio ("soft failure"): o transporte
// funcionou, mas o servidor rejeitou a operação.
const StatusOK = "OK"

// Response é o envelope padrão de toda resposta do backend GFashion.
// Quem chama deve verificar o Status antes de confiar em Cart/Data.
type Response struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Cart    []LineItem      `json:"cart,omitempty"`

	// Preenchidos apenas pelos endpoints de sessão (sign-in, refresh).
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// IsOK informa se o backend confirmou a operação.
func (r *Response) IsOK() bool {
	return r != nil && r.Status == StatusOK
}

// CartItems extrai a coleção de itens do carrinho da resposta. Os endpoints
// de mutação respondem no campo "cart" e o de leitura no campo "data";
// tratamos os dois aqui para os chamadores não se importarem.
func (r *Response) CartItems() ([]LineItem, error) {
	if r == nil {
		return nil, nil
	}
	if r.Cart != nil {
		return r.Cart, nil
	}
	if len(r.Data) == 0 {
		return nil, nil
	}
	var items []LineItem
	if err := json.Unmarshal(r.Data, &items); err != nil {
		return nil, err
	}
	return items, nil
}
