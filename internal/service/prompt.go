package service

import (
	"fmt"
	"strings"

	"voice-todo/internal/model"
)

// actionSchema is sent with every request so JSON mode has a shape to follow.
const actionSchema = `{
  "type": "object",
  "properties": {
    "action": {"type": "string", "enum": ["add", "delete", "complete", "sort", "edit", "clear"], "description": "The action to take"},
    "text": {"type": "string", "description": "The text of the todo item"},
    "emoji": {"type": "string", "description": "The emoji of the todo item"},
    "sortBy": {"type": "string", "enum": ["newest", "oldest", "alphabetical", "completed"], "description": "The sort order"},
    "listToClear": {"type": "string", "enum": ["all", "completed", "incomplete"], "description": "The list to clear"},
    "targetText": {"type": "string", "description": "The exact given text of the todo item to edit. do not include the emoji."}
  },
  "required": ["action"],
  "additionalProperties": false
}`

func actionSystemPrompt() string {
	return "JSON schema:\n" + actionSchema +
		"\nYou MUST answer with a JSON object that matches the JSON schema above. Only return the JSON object."
}

const actionRules = `
- If the action is "add", the text and emoji should be included.
- If the action is "delete", the text should be included.
- If the action is "complete", the text should be included.
- If the action is "sort", the sortBy should be included.
- If the action is "edit", both the targetText (to identify the todo to edit) and the text (the new content) should be included.
- If the action is "clear", the user wants to clear the list of todos with the given listToClear(all, completed, incomplete).

For the add action, the text should be in the future tense. like "buy groceries", "make a post with @theo", "go for violin lesson"

Some queries will be ambiguous stating the tense of the text, which will allow you to infer the correct action to take on the todo list.
The add requests will most likely be in the future tense, while the complete requests will be in the past tense.
The emojis sent by the user should be prioritized and not changed unless they don't match the todo's intent.
The todo list is very important to understand the user's intent.
Example: "todo: 'buy groceries', user request: 'bought groceries', action: 'complete', text: 'buy groceries'"
Example: "todo: 'make a post with @theo', user request: 'i made a post with @theo', action: 'complete', text: 'make a post with @theo'"
Example: "request: 'buy groceries', action: 'add', text: 'buy groceries', emoji: '🛒'"

The edit request will mostly be ambiguous, so make the edit as close to the original as possible to maintain the user's context with the todo to edit.
Some word could be incomplete, like "meet" instead of "meeting", make sure to edit the todo based on the todo list since the todo already exists just needs a rewrite.

Example edit requests:
"original text: 'meeting w/ John', user request: 'i meant meet Jane', edit: 'meeting w/ Jane'"
"original text: 'buy groceries', user request: 'i meant buy flowers', edit: 'buy flowers'"
"original text: 'go for violin lesson', user request: 'i meant go for a walk', edit: 'go for a walk'"
"original text: 'call for bug report', user request: 'i meant call bharat for it', edit: 'call bharat for bug report'"
"original text: 'meeting with zaid', user request: 'meet is about the new product', edit: 'meeting with zaid about the new product'"
`

// BuildActionPrompt renders the user prompt. A nil todos slice omits the
// list block; an empty non-nil slice renders it empty.
func BuildActionPrompt(text, emoji string, todos []model.TodoItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The user has entered the following text: %s\n", text)
	if emoji != "" {
		fmt.Fprintf(&b, "The user has also entered the following emoji: %s\n", emoji)
	}
	b.WriteString("Determine the action to take based on the given context.\n\n")
	b.WriteString("Don't make assumptions about the user's intent, the todo list is very important to understand the user's intent.\n")
	b.WriteString("Go through the todo list and make sure to understand the user's intent based on the todo list.\n")
	b.WriteString("All the text should be in lowercase!!\n\n")

	if todos != nil {
		fmt.Fprintf(&b, "<todo_list>%s</todo_list>\n\n", renderTodos(todos))
	}

	kinds := make([]string, len(model.ActionKinds))
	for i, k := range model.ActionKinds {
		kinds[i] = string(k)
	}
	fmt.Fprintf(&b, "The action should be one of the following: %s", strings.Join(kinds, ", "))
	b.WriteString(actionRules)

	if emoji != "" {
		fmt.Fprintf(&b, "\nChange the emoji to a more appropriate based on the text. The current emoji is: %s\n", emoji)
	}
	return b.String()
}

func renderTodos(todos []model.TodoItem) string {
	parts := make([]string, len(todos))
	for i, t := range todos {
		if t.Emoji != "" {
			parts[i] = fmt.Sprintf("%s (%s)", t.Text, t.Emoji)
		} else {
			parts[i] = t.Text
		}
	}
	return strings.Join(parts, ", ")
}
