package model

// QuizPayload is the structured form some model answers take: instead of
// prose, the text is a JSON document with a list of questions. Whether a
// message is a quiz or prose is decided at render time, never stored.
type QuizPayload struct {
	Questions []QuizQuestion `json:"questions"`
}

type QuizQuestion struct {
	ID       any          `json:"id"`
	Type     string       `json:"type"` // multiple_choice, multibox, true_false
	Question string       `json:"question"`
	Options  []QuizOption `json:"options,omitempty"`
	// CorrectAnswer varies by generator: a bool for true_false, an option
	// id for multiple_choice, one or more ids for multibox.
	CorrectAnswer any    `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

type QuizOption struct {
	ID   any    `json:"id"`
	Text string `json:"text"`
}
