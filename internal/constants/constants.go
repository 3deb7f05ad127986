package constants

const RandomTheme = "Random"

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

const QuestionTypeMultiple = "multiple"

const (
	TeamRed  = "red"
	TeamBlue = "blue"
)

const (
	ActionJoined = "joined"
	ActionLeft   = "left"
)

const (
	QueueGameResults = "game.results_ready"
)
