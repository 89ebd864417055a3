package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type ActionKind string

const (
	ActionAdd      ActionKind = "add"
	ActionDelete   ActionKind = "delete"
	ActionComplete ActionKind = "complete"
	ActionSort     ActionKind = "sort"
	ActionEdit     ActionKind = "edit"
	ActionClear    ActionKind = "clear"
)

// ActionKinds lists every kind in the order the prompt presents them.
var ActionKinds = []ActionKind{ActionAdd, ActionDelete, ActionComplete, ActionSort, ActionEdit, ActionClear}

type SortOrder string

const (
	SortNewest       SortOrder = "newest"
	SortOldest       SortOrder = "oldest"
	SortAlphabetical SortOrder = "alphabetical"
	SortCompleted    SortOrder = "completed"
)

type ClearScope string

const (
	ClearAll        ClearScope = "all"
	ClearCompleted  ClearScope = "completed"
	ClearIncomplete ClearScope = "incomplete"
)

// Action is the structured operation inferred from the user's text.
type Action struct {
	Action      ActionKind `json:"action" validate:"required,oneof=add delete complete sort edit clear"`
	Text        string     `json:"text,omitempty"`
	Emoji       string     `json:"emoji,omitempty"`
	SortBy      SortOrder  `json:"sortBy,omitempty" validate:"omitempty,oneof=newest oldest alphabetical completed"`
	ListToClear ClearScope `json:"listToClear,omitempty" validate:"omitempty,oneof=all completed incomplete"`
	TargetText  string     `json:"targetText,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the action against the fixed schema.
func (a *Action) Validate() error {
	if err := validate.Struct(a); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("invalid action: field %s failed %q (got %q)", f.Field(), f.Tag(), f.Value())
		}
		return fmt.Errorf("invalid action: %w", err)
	}
	return nil
}

// Normalize trims surrounding whitespace. Case is kept: clients match
// text and targetText against their stored items verbatim.
func (a *Action) Normalize() {
	a.Text = strings.TrimSpace(a.Text)
	a.TargetText = strings.TrimSpace(a.TargetText)
	a.Emoji = strings.TrimSpace(a.Emoji)
}

// NullFields returns the keys of raw, a JSON object, whose value is an
// explicit null. Every optional field may be absent but never null.
func NullFields(raw []byte) ([]string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	var nulls []string
	for k, v := range fields {
		if string(bytes.TrimSpace(v)) == "null" {
			nulls = append(nulls, k)
		}
	}
	sort.Strings(nulls)
	return nulls, nil
}

// MissingFields reports the fields a well-formed action of this kind
// carries but this one lacks. The schema itself keeps them optional.
func (a *Action) MissingFields() []string {
	var missing []string
	need := func(name, v string) {
		if v == "" {
			missing = append(missing, name)
		}
	}
	switch a.Action {
	case ActionAdd:
		need("text", a.Text)
		need("emoji", a.Emoji)
	case ActionDelete, ActionComplete:
		need("text", a.Text)
	case ActionSort:
		need("sortBy", string(a.SortBy))
	case ActionEdit:
		need("targetText", a.TargetText)
		need("text", a.Text)
	case ActionClear:
		need("listToClear", string(a.ListToClear))
	}
	return missing
}

// TodoItem is the client's current list entry, sent only as context.
type TodoItem struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Emoji     string    `json:"emoji,omitempty"`
	Date      time.Time `json:"date"`
}

type ActionRequest struct {
	Text  string     `json:"text" binding:"required"`
	Emoji string     `json:"emoji,omitempty"`
	Todos []TodoItem `json:"todos,omitempty"`
}

type TranscriptResponse struct {
	Text string `json:"text"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
