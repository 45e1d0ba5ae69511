package models

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/pkg/errors"
)

// AskRequest is the payload for POST /ask.
type AskRequest struct {
	Question            string  `json:"question" validate:"required,notblank"`
	ConversationID      *string `json:"conversation_id"`      // echoed back unchanged, null stays null
	ConversationHistory []Turn  `json:"conversation_history"` // oldest first; never stored
}

// AskResponse is returned by POST /ask.
type AskResponse struct {
	Answer         string    `json:"answer"`
	Sources        []Snippet `json:"sources"`
	ConversationID *string   `json:"conversation_id"`
}

// Snippet is one search hit used as grounding context.
type Snippet struct {
	Title   string `json:"title"   bson:"title"`
	Content string `json:"content" bson:"content"`
	URL     string `json:"url,omitempty" bson:"url,omitempty"`
}

// Turn is a prior message in the conversation.
// On the wire it is a two-element array: [message, is_user].
type Turn struct {
	Message string
	IsUser  bool
}

// MarshalJSON writes the turn as [message, is_user].
func (t Turn) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{t.Message, t.IsUser})
}

// UnmarshalJSON accepts exactly [string, bool].
func (t *Turn) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return errors.Wrap(err, "conversation turn must be a [message, is_user] array")
	}
	if len(pair) != 2 {
		return errors.Errorf("conversation turn must have 2 elements, got %d", len(pair))
	}
	if bytes.Equal(bytes.TrimSpace(pair[0]), []byte("null")) {
		return errors.New("conversation turn message must be a string")
	}

	var msg string
	if err := json.Unmarshal(pair[0], &msg); err != nil {
		return errors.Wrap(err, "conversation turn message must be a string")
	}
	var isUser bool
	if err := json.Unmarshal(pair[1], &isUser); err != nil {
		return errors.Wrap(err, "conversation turn is_user must be a boolean")
	}

	t.Message = msg
	t.IsUser = isUser
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the request before any downstream call is made.
func (r *AskRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return errors.Errorf("%s is required", verrs[0].Field())
	}
	return err
}
