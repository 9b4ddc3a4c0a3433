// Package quiz holds the fixed route from Egypt to Canaan.
package quiz

import "kanaan-quiz-service/internal/domain"

// Locations returns the six stops of the route in play order.
func Locations() []domain.Question {
	return []domain.Question{
		{
			Name:    "Egypte",
			Image:   "egypt.jpg",
			Prompt:  "Wie leidde het volk Israël uit Egypte?",
			Options: []string{"Mozes", "David", "Abraham"},
			Answer:  "Mozes",
		},
		{
			Name:    "Rode Zee",
			Image:   "redsea.jpg",
			Prompt:  "Wat gebeurde er bij de Rode Zee?",
			Options: []string{"Ze bouwden een boot", "Ze gingen er droog doorheen", "Ze keerden terug"},
			Answer:  "Ze gingen er droog doorheen",
		},
		{
			Name:    "Woestijn",
			Image:   "desert.jpg",
			Prompt:  "Wat gaf God het volk elke ochtend te eten in de woestijn?",
			Options: []string{"Brood uit Egypte", "Manna", "Vis uit de Jordaan"},
			Answer:  "Manna",
		},
		{
			Name:    "Sinaï",
			Image:   "sinai.jpg",
			Prompt:  "Wat ontving Mozes op de berg Sinaï?",
			Options: []string{"Een gouden kalf", "De Tien Geboden", "Een staf", "Een kroon"},
			Answer:  "De Tien Geboden",
		},
		{
			Name:    "Jordaan",
			Image:   "jordan.jpg",
			Prompt:  "Wie leidde het volk door de Jordaan het beloofde land in?",
			Options: []string{"Aäron", "Jozua", "Kaleb"},
			Answer:  "Jozua",
		},
		{
			Name:    "Kanaän",
			Image:   "canaan.jpg",
			Prompt:  "Hoe werd Kanaän genoemd?",
			Options: []string{"Land van wanhoop", "Land van melk en honing", "Land van oorlog"},
			Answer:  "Land van melk en honing",
		},
	}
}

// Validate checks every question and rejects an empty set.
func Validate(questions []domain.Question) error {
	if len(questions) == 0 {
		return domain.ErrNoQuestions
	}
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}
