package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rocfit/classtrack-api/internal/models"
	"gorm.io/gorm"
)

type OrganizationHandler struct {
	db *gorm.DB
}

func NewOrganizationHandler(db *gorm.DB) *OrganizationHandler {
	return &OrganizationHandler{db: db}
}

type OrganizationPayload struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ListOrganizationsRequest struct{}

type ListOrganizationsResponse struct {
	Body struct {
		Organizations []OrganizationPayload `json:"organizations"`
	}
}

func (h *OrganizationHandler) HandleList(ctx context.Context, input *ListOrganizationsRequest) (*ListOrganizationsResponse, error) {
	var orgs []models.Organization
	if err := h.db.Order("name").Find(&orgs).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list organizations: " + err.Error())
	}

	res := &ListOrganizationsResponse{}
	res.Body.Organizations = make([]OrganizationPayload, 0, len(orgs))
	for _, o := range orgs {
		res.Body.Organizations = append(res.Body.Organizations, OrganizationPayload{ID: o.ID, Name: o.Name})
	}
	return res, nil
}
