package libs

import "github.com/RayaSatriatama/dicoding-genai-backend/model"

// BuildTurn converts a question/answer pair into the history entries for
// one conversation turn. The optional user echo comes first, the model
// answer always follows; the two are appended as one batch so the history
// can never hold a question without its answer.
func BuildTurn(question, answer, img string) []model.Message {
	items := make([]model.Message, 0, 2)

	if question != "" {
		userMsg := model.Message{
			Role:  model.RoleUser,
			Parts: []model.Part{{Text: question}},
		}
		if img != "" {
			userMsg.Img = img
		}
		items = append(items, userMsg)
	}

	items = append(items, model.Message{
		Role:  model.RoleModel,
		Parts: []model.Part{{Text: answer}},
	})
	return items
}
