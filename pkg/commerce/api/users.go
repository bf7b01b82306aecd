package api

import (
	"github.com/nimburion/storefront/pkg/commerce"
	"github.com/nimburion/storefront/pkg/controller"
	"github.com/nimburion/storefront/pkg/server/router"
)

type signupResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

func (h *Handler) signup(c router.Context) error {
	var req commerce.SignupRequest
	if err := decode(c, &req); err != nil {
		return h.fail(c, err)
	}
	u, err := h.repos.Users.Signup(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Created(c, signupResponse{Message: "User created successfully", ID: u.ID.Hex()})
}

func (h *Handler) listUsers(c router.Context) error {
	users, err := h.repos.Users.List(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, users)
}

func (h *Handler) getUser(c router.Context) error {
	u, err := h.repos.Users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, u)
}
