package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	"github.com/m04kA/MassageStudio-BookingService/internal/service/catalog"
)

// ServiceResponse HTTP response model
type ServiceResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Description      *string   `json:"description,omitempty"`
	DurationMinutes  int       `json:"durationMinutes"`
	PriceCents       int64     `json:"priceCents"`
	DownpaymentCents int64     `json:"downpaymentCents"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        string    `json:"createdAt"`
	UpdatedAt        string    `json:"updatedAt"`
}

// CreateServiceRequest HTTP request model
type CreateServiceRequest struct {
	Name             string  `json:"name"`
	Description      *string `json:"description,omitempty"`
	DurationMinutes  int     `json:"durationMinutes"`
	PriceCents       int64   `json:"priceCents"`
	DownpaymentCents int64   `json:"downpaymentCents"`
	IsActive         *bool   `json:"isActive,omitempty"`
}

// UpdateServiceRequest HTTP request model, отсутствующие поля не меняются
type UpdateServiceRequest struct {
	Name             *string `json:"name,omitempty"`
	Description      *string `json:"description,omitempty"`
	DurationMinutes  *int    `json:"durationMinutes,omitempty"`
	PriceCents       *int64  `json:"priceCents,omitempty"`
	DownpaymentCents *int64  `json:"downpaymentCents,omitempty"`
	IsActive         *bool   `json:"isActive,omitempty"`
}

func (r *CreateServiceRequest) ToServiceInput() *catalog.ServiceInput {
	return &catalog.ServiceInput{
		Name:             r.Name,
		Description:      r.Description,
		DurationMin:      r.DurationMinutes,
		PriceCents:       r.PriceCents,
		DownpaymentCents: r.DownpaymentCents,
		IsActive:         r.IsActive,
	}
}

func (r *UpdateServiceRequest) ToServicePatch() *catalog.ServicePatch {
	return &catalog.ServicePatch{
		Name:             r.Name,
		Description:      r.Description,
		DurationMin:      r.DurationMinutes,
		PriceCents:       r.PriceCents,
		DownpaymentCents: r.DownpaymentCents,
		IsActive:         r.IsActive,
	}
}

func FromDomainService(s *domain.Service) *ServiceResponse {
	return &ServiceResponse{
		ID:               s.ID,
		Name:             s.Name,
		Description:      s.Description,
		DurationMinutes:  s.DurationMin,
		PriceCents:       s.PriceCents,
		DownpaymentCents: s.DownpaymentCents,
		IsActive:         s.IsActive,
		CreatedAt:        s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func FromDomainServices(list []*domain.Service) []*ServiceResponse {
	result := make([]*ServiceResponse, 0, len(list))
	for _, s := range list {
		result = append(result, FromDomainService(s))
	}
	return result
}
