package questions

import (
	"errors"
	"slices"
	"strings"

	"trivia-service/internal/constants"
	"trivia-service/internal/models"
)

var ErrUnknownTheme = errors.New("unknown theme")

const optionCount = 4

// Random is the subset of *rand.Rand (math/rand/v2) the bank needs.
type Random interface {
	IntN(n int) int
}

type Bank struct {
	catalog map[string][]models.Question
}

func NewBank() *Bank {
	return NewBankWithCatalog(defaultCatalog)
}

func NewBankWithCatalog(catalog map[string][]models.Question) *Bank {
	c := make(map[string][]models.Question, len(catalog))
	for theme, qs := range catalog {
		tagged := make([]models.Question, 0, len(qs))
		for _, q := range qs {
			q.Theme = theme
			tagged = append(tagged, q)
		}
		c[theme] = tagged
	}
	return &Bank{catalog: c}
}

// Themes lists the catalog themes in alphabetical order, without Random.
func (b *Bank) Themes() []string {
	themes := make([]string, 0, len(b.catalog))
	for t := range b.catalog {
		themes = append(themes, t)
	}
	slices.Sort(themes)
	return themes
}

// Canonical resolves a client-supplied theme name case-insensitively.
func (b *Bank) Canonical(theme string) (string, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" || strings.EqualFold(theme, constants.RandomTheme) {
		return constants.RandomTheme, nil
	}
	for t := range b.catalog {
		if strings.EqualFold(t, theme) {
			return t, nil
		}
	}
	return "", ErrUnknownTheme
}

// Pool returns the static questions of theme merged with the approved
// community questions. Random pools every theme.
func (b *Bank) Pool(theme string, approved []models.Question) ([]models.Question, error) {
	canonical, err := b.Canonical(theme)
	if err != nil {
		return nil, err
	}

	var pool []models.Question
	if canonical == constants.RandomTheme {
		for _, t := range b.Themes() {
			pool = append(pool, b.catalog[t]...)
		}
	} else {
		pool = append(pool, b.catalog[canonical]...)
	}

	for _, q := range approved {
		if !Valid(q) {
			continue
		}
		if q.Theme == "" {
			q.Theme = canonical
		}
		pool = append(pool, q)
	}
	return pool, nil
}

func Valid(q models.Question) bool {
	if strings.TrimSpace(q.Text) == "" || len(q.Options) != optionCount {
		return false
	}
	return q.CorrectIndex >= 0 && q.CorrectIndex < optionCount
}

// Draw samples up to n distinct questions. A difficulty filter that matches
// nothing is ignored.
func Draw(pool []models.Question, n int, difficulty string, rng Random) []models.Question {
	candidates := pool
	if difficulty != "" {
		var filtered []models.Question
		for _, q := range pool {
			if strings.EqualFold(q.Difficulty, difficulty) {
				filtered = append(filtered, q)
			}
		}
		if len(filtered) > 0 {
			candidates = filtered
		}
	}

	shuffled := slices.Clone(candidates)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	if n > len(shuffled) {
		n = len(shuffled)
	}
	drawn := make([]models.Question, n)
	for i := range n {
		drawn[i] = shuffled[i]
		drawn[i].Options = slices.Clone(shuffled[i].Options)
	}
	return drawn
}

// DifficultyRank orders easy < medium < hard; unknown values sort as medium.
func DifficultyRank(difficulty string) int {
	switch strings.ToLower(difficulty) {
	case constants.DifficultyEasy:
		return 0
	case constants.DifficultyHard:
		return 2
	default:
		return 1
	}
}
