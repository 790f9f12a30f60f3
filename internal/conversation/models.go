package conversation

type Model struct {
	ID    string
	Title string
}

const DefaultModel = "gpt-3.5-turbo"

// порядок = порядок кнопок в меню
var availableModels = []Model{
	{ID: "gpt-4", Title: "GPT-4 (самая мощная)"},
	{ID: "gpt-4-turbo-preview", Title: "GPT-4 Turbo (быстрее)"},
	{ID: DefaultModel, Title: "GPT-3.5 Turbo (быстрый и дешевый)"},
}

func Models() []Model {
	out := make([]Model, len(availableModels))
	copy(out, availableModels)
	return out
}

func IsKnownModel(id string) bool {
	for _, m := range availableModels {
		if m.ID == id {
			return true
		}
	}
	return false
}
