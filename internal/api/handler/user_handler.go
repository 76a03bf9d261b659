package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notekeeper/notes-api/internal/core/domain"
	"github.com/notekeeper/notes-api/internal/core/ports"
)

// UserHandler handles HTTP requests for the user collection.
type UserHandler struct {
	service ports.UserService
	baseURL string
}

func NewUserHandler(service ports.UserService, baseURL string) *UserHandler {
	return &UserHandler{service: service, baseURL: baseURL}
}

// List handles GET /user.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  userCollectionResponse
// @Failure      500  {object}  ErrorBody
// @Router       /user [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserCollection(baseURL(c, h.baseURL), users))
}

// Create handles POST /user.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      userRequest  true  "User"
// @Success      201   {object}  userResponse
// @Header       201   {string}  Location  "Address of the new user"
// @Failure      400   {object}  ErrorBody
// @Failure      409   {object}  ErrorBody  "duplicate name or missing field"
// @Router       /user [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req userRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), toUserInput(req))
	if err != nil {
		return err
	}

	resp := toUserResponse(baseURL(c, h.baseURL), user)
	c.Response().Header().Set(echo.HeaderLocation, resp.Links["self"].Href)
	return c.JSON(http.StatusCreated, resp)
}

// Get handles GET /user/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  ErrorBody
// @Router       /user/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, domain.ErrUserNotFound)
	if err != nil {
		return err
	}

	user, err := h.service.Get(c.Request().Context(), domain.UserID(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(baseURL(c, h.baseURL), user))
}

// Update handles PUT /user/:id.
//
// @Summary      Replace a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int          true  "User id"
// @Param        body  body      userRequest  true  "User"
// @Success      200   {object}  userResponse
// @Failure      404   {object}  ErrorBody
// @Failure      409   {object}  ErrorBody
// @Router       /user/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	var req userRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), domain.UserID(id), toUserInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(baseURL(c, h.baseURL), user))
}

// Patch handles PATCH /user/:id.
//
// @Summary      Partially update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int          true  "User id"
// @Param        body  body      userRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      404   {object}  ErrorBody
// @Failure      409   {object}  ErrorBody
// @Router       /user/{id} [patch]
func (h *UserHandler) Patch(c echo.Context) error {
	id, err := pathID(c, domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	var req userRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.service.Patch(c.Request().Context(), domain.UserID(id), toUserPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(baseURL(c, h.baseURL), user))
}

// Delete handles DELETE /user/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Param        id   path  int  true  "User id"
// @Success      204
// @Failure      404  {object}  ErrorBody
// @Failure      409  {object}  ErrorBody  "still referenced by a note"
// @Router       /user/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), domain.UserID(id)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
