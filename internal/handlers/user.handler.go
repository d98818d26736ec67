package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/mkarimz/deduction-gateway/internal/model"
	xhttp "github.com/mkarimz/deduction-gateway/pkg/http"
)

type UserService interface {
	Register(ctx context.Context, p model.UserCreateRequest) (*model.User, error)
}

type UserHandler struct {
	svc UserService
}

func RegisterUserRoutes(e *router.Group, h *UserHandler) {
	e.POST("/users", h.RegisterUser)
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

type registerUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *UserHandler) RegisterUser(ctx *xhttp.RequestCtx) {
	var req registerUserRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	u, err := h.svc.Register(ctx, model.UserCreateRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, u)
}
