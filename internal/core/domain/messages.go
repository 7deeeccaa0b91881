package domain

// User-facing answers. These are the only strings the RAG core ever shows
// to a chat user when something goes wrong.
const (
	// MessageUnavailable is returned when the engine cannot reach Ready.
	MessageUnavailable = "Поиск по документу временно недоступен. Попробуйте позже."

	// MessageNoRelevantInfo is returned when retrieval finds nothing.
	MessageNoRelevantInfo = "В документе не найдено информации по вашему вопросу."

	// MessageGenerationFailed is returned when the language model call fails.
	MessageGenerationFailed = "Не удалось получить ответ от сервиса. Попробуйте позже."

	// MessageEmptyQuestion is returned for blank questions.
	MessageEmptyQuestion = "Пожалуйста, введите текст вопроса."

	// RefusalAnswer is the fixed answer the model must give when context is insufficient.
	RefusalAnswer = "В тексте документа нет информации для ответа на этот вопрос."
)
