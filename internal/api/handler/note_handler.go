package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notekeeper/notes-api/internal/core/domain"
	"github.com/notekeeper/notes-api/internal/core/ports"
)

// NoteHandler handles HTTP requests for the note collection.
type NoteHandler struct {
	service ports.NoteService
	baseURL string
}

func NewNoteHandler(service ports.NoteService, baseURL string) *NoteHandler {
	return &NoteHandler{service: service, baseURL: baseURL}
}

// List handles GET /note.
//
// @Summary      List notes
// @Tags         notes
// @Produce      json
// @Success      200  {object}  noteCollectionResponse
// @Failure      500  {object}  ErrorBody
// @Router       /note [get]
func (h *NoteHandler) List(c echo.Context) error {
	notes, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoteCollection(baseURL(c, h.baseURL), notes))
}

// Create handles POST /note.
//
// @Summary      Create a note
// @Description  createdBy must be the address of an existing user. A reminder
// @Description  that is not later than created is answered with 500.
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        body  body      noteRequest  true  "Note"
// @Success      201   {object}  noteResponse
// @Header       201   {string}  Location  "Address of the new note"
// @Failure      400   {object}  ErrorBody
// @Failure      409   {object}  ErrorBody  "duplicate title, missing field or unresolved createdBy"
// @Failure      500   {object}  ErrorBody  "reminder not after created"
// @Router       /note [post]
func (h *NoteHandler) Create(c echo.Context) error {
	var req noteRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	note, err := h.service.Create(c.Request().Context(), toNoteInput(req))
	if err != nil {
		return err
	}

	resp := toNoteResponse(baseURL(c, h.baseURL), note)
	c.Response().Header().Set(echo.HeaderLocation, resp.Links["self"].Href)
	return c.JSON(http.StatusCreated, resp)
}

// Get handles GET /note/:id.
//
// @Summary      Get a note
// @Tags         notes
// @Produce      json
// @Param        id   path      int  true  "Note id"
// @Success      200  {object}  noteResponse
// @Failure      404  {object}  ErrorBody
// @Router       /note/{id} [get]
func (h *NoteHandler) Get(c echo.Context) error {
	id, err := pathID(c, domain.ErrNoteNotFound)
	if err != nil {
		return err
	}

	note, err := h.service.Get(c.Request().Context(), domain.NoteID(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoteResponse(baseURL(c, h.baseURL), note))
}

// Creator handles GET /note/:id/createdBy.
//
// @Summary      Get the user a note was created by
// @Tags         notes
// @Produce      json
// @Param        id   path      int  true  "Note id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  ErrorBody
// @Router       /note/{id}/createdBy [get]
func (h *NoteHandler) Creator(c echo.Context) error {
	id, err := pathID(c, domain.ErrNoteNotFound)
	if err != nil {
		return err
	}

	user, err := h.service.Creator(c.Request().Context(), domain.NoteID(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(baseURL(c, h.baseURL), user))
}

// Update handles PUT /note/:id.
//
// @Summary      Replace a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        id    path      int          true  "Note id"
// @Param        body  body      noteRequest  true  "Note"
// @Success      200   {object}  noteResponse
// @Failure      404   {object}  ErrorBody
// @Failure      409   {object}  ErrorBody
// @Failure      500   {object}  ErrorBody
// @Router       /note/{id} [put]
func (h *NoteHandler) Update(c echo.Context) error {
	id, err := pathID(c, domain.ErrNoteNotFound)
	if err != nil {
		return err
	}
	var req noteRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	note, err := h.service.Update(c.Request().Context(), domain.NoteID(id), toNoteInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoteResponse(baseURL(c, h.baseURL), note))
}

// Patch handles PATCH /note/:id.
//
// @Summary      Partially update a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        id    path      int          true  "Note id"
// @Param        body  body      noteRequest  true  "Fields to change"
// @Success      200   {object}  noteResponse
// @Failure      404   {object}  ErrorBody
// @Failure      409   {object}  ErrorBody
// @Failure      500   {object}  ErrorBody
// @Router       /note/{id} [patch]
func (h *NoteHandler) Patch(c echo.Context) error {
	id, err := pathID(c, domain.ErrNoteNotFound)
	if err != nil {
		return err
	}
	var req noteRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	note, err := h.service.Patch(c.Request().Context(), domain.NoteID(id), toNotePatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoteResponse(baseURL(c, h.baseURL), note))
}

// Delete handles DELETE /note/:id.
//
// @Summary      Delete a note
// @Tags         notes
// @Param        id   path  int  true  "Note id"
// @Success      204
// @Failure      404  {object}  ErrorBody
// @Router       /note/{id} [delete]
func (h *NoteHandler) Delete(c echo.Context) error {
	id, err := pathID(c, domain.ErrNoteNotFound)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), domain.NoteID(id)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
