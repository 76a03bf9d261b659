package handler

// --- Links ---

type link struct {
	Href string `json:"href"`
}

// links is a HAL _links object keyed by relation name.
type links map[string]link

// --- Request bodies ---

// userRequest is shared by POST, PUT and PATCH. Pointers distinguish an absent
// property from an empty one.
type userRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
	Email    *string `json:"email"`
}

// noteRequest is shared by POST, PUT and PATCH. CreatedBy is a user address.
type noteRequest struct {
	Title     *string    `json:"title"`
	Body      *string    `json:"body"`
	Category  *int64     `json:"category"`
	Created   *Timestamp `json:"created" swaggertype:"string" example:"2024-03-01T12:00:00.000+0000"`
	Reminder  *Timestamp `json:"reminder" swaggertype:"string" example:"2024-03-02T09:00:00.000+0000"`
	CreatedBy *string    `json:"createdBy" example:"http://localhost:8080/user/1"`
}

// --- Representations ---

type userResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Password string  `json:"password"`
	Email    *string `json:"email"`
	Links    links   `json:"_links"`
}

type noteResponse struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Body      *string    `json:"body"`
	Category  *int64     `json:"category"`
	Created   Timestamp  `json:"created" swaggertype:"string"`
	Reminder  *Timestamp `json:"reminder" swaggertype:"string"`
	CreatedBy string     `json:"createdBy" example:"http://localhost:8080/user/1"`
	Links     links      `json:"_links"`
}

type userEmbedded struct {
	Users []userResponse `json:"user"`
}

type userCollectionResponse struct {
	Embedded userEmbedded `json:"_embedded"`
	Links    links        `json:"_links"`
}

type noteEmbedded struct {
	Notes []noteResponse `json:"note"`
}

type noteCollectionResponse struct {
	Embedded noteEmbedded `json:"_embedded"`
	Links    links        `json:"_links"`
}

type rootResponse struct {
	Links links `json:"_links"`
}

// ErrorBody is the envelope every failed request is answered with. Reason
// separates failures that share a status code.
type ErrorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}
