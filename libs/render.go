package libs

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/russross/blackfriday"

	"github.com/RayaSatriatama/dicoding-genai-backend/model"
)

// A message's text is either free prose or a serialized quiz payload.
// Which one is decided here, at render time, from the text alone. The
// same input always takes the same branch.

type Kind int

const (
	KindProse Kind = iota
	KindQuiz
)

type Classification struct {
	Kind Kind
	Quiz *model.QuizPayload // set only for KindQuiz
}

// Classify parses text as JSON and checks for a usable questions list.
// Anything else (invalid JSON, non-object JSON, an object without
// questions) is prose.
func Classify(text string) Classification {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return Classification{Kind: KindProse}
	}

	var payload model.QuizPayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return Classification{Kind: KindProse}
	}
	if len(payload.Questions) == 0 {
		return Classification{Kind: KindProse}
	}
	return Classification{Kind: KindQuiz, Quiz: &payload}
}

const (
	ControlRadio    = "radio"
	ControlCheckbox = "checkbox"
)

type RenderedOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type RenderedQuestion struct {
	ID          string           `json:"id"`
	Prompt      string           `json:"prompt"`
	Control     string           `json:"control"` // radio or checkbox
	Options     []RenderedOption `json:"options"`
	Answer      string           `json:"answer"`
	Explanation string           `json:"explanation"`
}

// RenderedMessage is what a message's text renders to: interactive quiz
// questions, or prose HTML.
type RenderedMessage struct {
	Kind      Kind               `json:"kind"`
	Questions []RenderedQuestion `json:"questions,omitempty"`
	HTML      string             `json:"html,omitempty"`
}

// Render classifies text and produces its rendered form.
func Render(text string) RenderedMessage {
	c := Classify(text)
	if c.Kind == KindQuiz {
		return RenderedMessage{Kind: KindQuiz, Questions: RenderQuiz(c.Quiz)}
	}
	return RenderedMessage{Kind: KindProse, HTML: RenderProse(text)}
}

// RenderQuiz renders each question by its type tag. Unknown types produce
// no output: newer quiz types must not break rendering of older chats.
func RenderQuiz(payload *model.QuizPayload) []RenderedQuestion {
	rendered := []RenderedQuestion{}
	for _, q := range payload.Questions {
		switch q.Type {
		case "multiple_choice":
			rendered = append(rendered, renderChoices(q, ControlRadio))
		case "multibox":
			rendered = append(rendered, renderChoices(q, ControlCheckbox))
		case "true_false":
			rendered = append(rendered, RenderedQuestion{
				ID:      stringify(q.ID),
				Prompt:  q.Question,
				Control: ControlRadio,
				Options: []RenderedOption{
					{ID: "true", Label: "True"},
					{ID: "false", Label: "False"},
				},
				Answer:      stringify(q.CorrectAnswer),
				Explanation: q.Explanation,
			})
		}
	}
	return rendered
}

// RenderProse renders free text as markdown HTML.
func RenderProse(text string) string {
	return string(blackfriday.MarkdownCommon([]byte(text)))
}

func renderChoices(q model.QuizQuestion, control string) RenderedQuestion {
	options := make([]RenderedOption, len(q.Options))
	for i, o := range q.Options {
		options[i] = RenderedOption{ID: stringify(o.ID), Label: o.Text}
	}
	return RenderedQuestion{
		ID:          stringify(q.ID),
		Prompt:      q.Question,
		Control:     control,
		Options:     options,
		Answer:      stringify(q.CorrectAnswer),
		Explanation: q.Explanation,
	}
}

// stringify flattens the loosely typed id/answer fields. Generators emit
// bools, numbers, strings, or arrays of those.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ", ")
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
