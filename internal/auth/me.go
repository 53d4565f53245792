package auth

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rocfit/classtrack-api/internal/models"
)

type MeRequest struct{}

type MeResponse struct {
	Body struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Avatar   string `json:"avatar"`
		Admin    bool   `json:"admin"`
	}
}

// HandleMe returns the authenticated staff member's profile.
func (h *AuthHandler) HandleMe(ctx context.Context, input *MeRequest) (*MeResponse, error) {
	userID, ok := UserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found")
	}

	res := &MeResponse{}
	res.Body.ID = user.ID
	res.Body.Username = user.Username
	res.Body.Email = user.Email
	res.Body.Avatar = user.Avatar
	res.Body.Admin = user.Admin
	return res, nil
}
