package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bistro_back_end/internal/database"
	"bistro_back_end/internal/middleware"
	"bistro_back_end/internal/models"
	"bistro_back_end/internal/validation"
)

type createUserRequest struct {
	Name     string `json:"name" validate:"omitempty,max=120"`
	Email    string `json:"email" validate:"required,email,max=254"`
	PhotoURL string `json:"photoURL" validate:"omitempty,url"`
}

func (h *Handler) ListUsers(c *gin.Context) {
	ctx, cancel := h.callContext(c)
	defer cancel()

	users, err := h.Users.ListUsers(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser insère l'utilisateur à sa première connexion ; un email connu ne crée rien.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	id, created, err := h.Users.CreateUserIfAbsent(ctx, models.User{
		Name:     req.Name,
		Email:    req.Email,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, models.CreateUserResult{Message: "user already exists"})
		return
	}
	c.Set(middleware.AuditResourceIDKey, id.Hex())
	c.JSON(http.StatusOK, models.CreateUserResult{Acknowledged: true, InsertedID: &id})
}

// CheckAdmin ne révèle le rôle que pour l'email du token.
func (h *Handler) CheckAdmin(c *gin.Context) {
	// gin impose le même nom de segment que PATCH /users/admin/:id
	email := c.Param("id")
	if email != middleware.CallerEmail(c) {
		c.JSON(http.StatusOK, gin.H{"admin": false})
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	user, err := h.Users.FindUserByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"admin": false})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": user.IsAdmin()})
}

func (h *Handler) PromoteToAdmin(c *gin.Context) {
	id, err := validation.ObjectID("id", c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	res, err := h.Users.PromoteToAdmin(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := validation.ObjectID("id", c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	res, err := h.Users.DeleteUser(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
