package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/service"
)

// maxContactBodyBytes caps the request body of POST /api/contact.
const maxContactBodyBytes = 64 << 10

const (
	msgSent     = "Message sent successfully"
	msgReceived = "Message received. We'll get back to you soon."
	noteSaved   = "Email delivery not configured on server; message saved."
)

// ContactHandler handles contact form submissions.
type ContactHandler struct {
	contactService service.ContactService
	policy         config.ContactPolicy
}

// NewContactHandler creates a ContactHandler. policy decides how a failed
// notification is reported to the client.
func NewContactHandler(contactService service.ContactService, policy config.ContactPolicy) *ContactHandler {
	return &ContactHandler{contactService: contactService, policy: policy}
}

// submitRequest is the expected JSON body for POST /api/contact.
// Fields are pointers so that absent and null values can be told apart from "".
type submitRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Message *string `json:"message"`
}

// missingField returns the first required field that is absent or null.
func (req submitRequest) missingField() string {
	switch {
	case req.Name == nil:
		return "name"
	case req.Email == nil:
		return "email"
	case req.Message == nil:
		return "message"
	}
	return ""
}

type submitResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Note    string `json:"note,omitempty"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// validationDetail mirrors one entry of a FastAPI 422 body.
type validationDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type validationResponse struct {
	Detail []validationDetail `json:"detail"`
}

// Submit handles POST /api/contact.
// Validation failures return 422 before any email or database call.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBodyBytes)

	var req submitRequest
	if err := decodeSingleJSON(r.Body, &req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Detail: "Request body too large"})
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, decodeErrorResponse(err))
		return
	}
	if field := req.missingField(); field != "" {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Detail: []validationDetail{
			{Loc: []string{"body", field}, Msg: "Field required", Type: "missing"},
		}})
		return
	}

	sub, err := model.NewContactSubmission(*req.Name, *req.Email, *req.Message)
	if err != nil {
		var verr *model.ValidationError
		if !errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Detail: []validationDetail{
				{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error"},
			}})
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Detail: []validationDetail{
			{Loc: []string{"body", verr.Field}, Msg: verr.Reason, Type: "value_error"},
		}})
		return
	}

	outcome := h.contactService.Submit(r.Context(), sub)
	if outcome.Delivered {
		writeJSON(w, http.StatusOK, submitResponse{OK: true, Message: msgSent})
		return
	}

	if h.policy == config.PolicyStrict {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Failed to send email: " + outcome.Error})
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{OK: true, Message: msgReceived, Note: noteSaved})
}

// errTrailingData reports bytes after the JSON document.
var errTrailingData = errors.New("unexpected data after JSON body")

// decodeSingleJSON decodes exactly one JSON value from r. Anything other
// than whitespace after it is an error.
func decodeSingleJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return errTrailingData
	}
	return nil
}

func decodeErrorResponse(err error) validationResponse {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return validationResponse{Detail: []validationDetail{
			{Loc: []string{"body", typeErr.Field}, Msg: "Input should be a valid string", Type: "string_type"},
		}}
	}
	return validationResponse{Detail: []validationDetail{
		{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"},
	}}
}
