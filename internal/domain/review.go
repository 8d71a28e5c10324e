package domain

import "time"

// Review é uma avaliação de produto feita por um usuário.
type Review struct {
	ID        string    `json:"_id,omitempty"`
	ProductID string    `json:"productId"`
	UserName  string    `json:"userName,omitempty"`
	Rating    int       `json:"rating"` // 1 a 5
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// ReviewRequest é o payload de envio de avaliação.
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}
