package server

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Email     string             `bson:"email"`
	PassHash  []byte             `bson:"passHash"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// tokenDoc holds the one bearer token a user owns. The key is created
// on first login and reused across logins.
type tokenDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	Key       string             `bson:"key"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// lessonDoc is the read-only lesson record. Topics is the structured
// content blob; the storage layer treats it as opaque, the Activity
// schema below is enforced by application code on seed.
type lessonDoc struct {
	ID     int64        `bson:"_id" json:"id"`
	Title  string       `bson:"title" json:"title"`
	Level  string       `bson:"level" json:"level"`
	Topics lessonTopics `bson:"topics" json:"topics"`
}

type lessonTopics struct {
	Title      string     `bson:"title" json:"title"`
	Activities []Activity `bson:"activities" json:"activities"`
}

// Activity variants, discriminated by Type.
const (
	activityMatching  = "MATCHING"
	activityOrdering  = "ORDERING"
	activityListening = "LISTENING"
)

// Activity is one exercise unit within a lesson. Exactly one variant's
// fields are populated, selected by Type.
type Activity struct {
	Type  string `bson:"type" json:"type"`
	Title string `bson:"title" json:"title"`

	// MATCHING: ordered (source, target) term pairs.
	Pairs [][2]string `bson:"pairs,omitempty" json:"pairs,omitempty"`

	// ORDERING: scrambled tokens the learner reorders into the prompt.
	Prompt string   `bson:"prompt,omitempty" json:"prompt,omitempty"`
	Words  []string `bson:"words,omitempty" json:"words,omitempty"`

	// LISTENING: synthesized audio text plus candidate answers.
	PromptAudioText string   `bson:"prompt_audio_text,omitempty" json:"prompt_audio_text,omitempty"`
	Options         []string `bson:"options,omitempty" json:"options,omitempty"`
	CorrectAnswer   string   `bson:"correct_answer,omitempty" json:"correct_answer,omitempty"`
}

func (a Activity) Validate() error {
	switch a.Type {
	case activityMatching:
		if len(a.Pairs) == 0 {
			return fmt.Errorf("%s activity %q: no pairs", a.Type, a.Title)
		}
	case activityOrdering:
		if a.Prompt == "" || len(a.Words) == 0 {
			return fmt.Errorf("%s activity %q: missing prompt or words", a.Type, a.Title)
		}
	case activityListening:
		if a.PromptAudioText == "" || len(a.Options) == 0 {
			return fmt.Errorf("%s activity %q: missing prompt_audio_text or options", a.Type, a.Title)
		}
		for _, opt := range a.Options {
			if opt == a.CorrectAnswer {
				return nil
			}
		}
		return fmt.Errorf("%s activity %q: correct_answer %q is not one of the options", a.Type, a.Title, a.CorrectAnswer)
	default:
		return fmt.Errorf("activity %q: unknown type %q", a.Title, a.Type)
	}
	return nil
}

func (l lessonDoc) Validate() error {
	for _, a := range l.Topics.Activities {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("lesson %d: %w", l.ID, err)
		}
	}
	return nil
}
