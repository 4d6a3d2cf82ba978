package server

// seedLessons returns the initial lesson content. Inserted once into an
// empty database; lessons are immutable afterwards.
func seedLessons() []lessonDoc {
	return []lessonDoc{
		{
			ID:    1,
			Title: "Lesson 1 - Daily Routine",
			Level: "A1",
			Topics: lessonTopics{
				Title: "Daily Routine",
				Activities: []Activity{
					{
						Type:  activityMatching,
						Title: "Match the pairs",
						Pairs: [][2]string{
							{"Wake up", "일어나다"},
							{"Breakfast", "아침밥"},
							{"Shower", "샤워"},
							{"Work", "일하다"},
						},
					},
					{
						Type:   activityOrdering,
						Title:  "Put the words in order",
						Prompt: "I eat breakfast",
						Words:  []string{"breakfast", "I", "eat"},
					},
				},
			},
		},
		{
			ID:    2,
			Title: "Lesson 2 - Favorite Food",
			Level: "A1",
			Topics: lessonTopics{
				Title: "Favorite Food",
				Activities: []Activity{
					{
						Type:  activityMatching,
						Title: "Match the foods",
						Pairs: [][2]string{
							{"Pizza", "피자"},
							{"Taco", "타코"},
							{"Sushi", "초밥"},
							{"Salad", "샐러드"},
						},
					},
					{
						Type:            activityListening,
						Title:           "Choose the correct word",
						PromptAudioText: "I like pizza",
						Options:         []string{"Taco", "Pizza", "Salad"},
						CorrectAnswer:   "Pizza",
					},
				},
			},
		},
	}
}
