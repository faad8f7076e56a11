package domain

import "time"

type BusinessSegment string

const (
	BusinessSegmentSalon      BusinessSegment = "salon"
	BusinessSegmentFitness    BusinessSegment = "fitness"
	BusinessSegmentRestaurant BusinessSegment = "restaurant"
	BusinessSegmentCafe       BusinessSegment = "cafe"
	BusinessSegmentOther      BusinessSegment = "other"
)

// ValidSegment informa se o segmento é um dos valores aceitos
func ValidSegment(s BusinessSegment) bool {
	switch s {
	case BusinessSegmentSalon, BusinessSegmentFitness, BusinessSegmentRestaurant, BusinessSegmentCafe, BusinessSegmentOther:
		return true
	}
	return false
}

type Business struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Segment   BusinessSegment `json:"segment"`
	OwnerID   int             `json:"owner_id"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CreateBusinessRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Segment string `json:"segment" validate:"required,oneof=salon fitness restaurant cafe other"`
}

type UpdateBusinessRequest struct {
	ID      string  `json:"id"`
	Name    *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Segment *string `json:"segment,omitempty" validate:"omitempty,oneof=salon fitness restaurant cafe other"`
	Active  *bool   `json:"active,omitempty"`
}
