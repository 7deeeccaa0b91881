package driven

// PromptStore provides access to LLM prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Implementations fall back to a built-in default when the name is known.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAnswerSystem is the system instruction for answering a question.
	// Placeholders: %[1]s document name, %[2]s refusal answer.
	PromptAnswerSystem = "answer_system"

	// PromptAnswerUser carries the retrieved context and the question.
	// Placeholders: %[1]s document name, %[2]s context block, %[3]s question.
	PromptAnswerUser = "answer_user"
)
