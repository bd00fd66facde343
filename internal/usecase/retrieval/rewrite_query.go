package retrieval

import (
	"strings"

	"newschat/internal/domain"
)

// RewriteQuery resolves follow-up queries against prior user turns (Stage 1).
//
// With fewer than two user turns the query passes through unchanged. Otherwise
// the second-to-last user turn is treated as the previous topic; if the current
// query contains any configured reference word (pronouns, interrogatives) the
// previous topic's text is prepended so the embedding and keyword stages see
// the earlier context. No coreference resolution is attempted.
func RewriteQuery(sc *StageContext, history []domain.ConversationTurn, vocab domain.Vocabulary) {
	sc.EffectiveQuery = sc.Query
	sc.FollowUp = false

	var userTurns []domain.ConversationTurn
	for _, turn := range history {
		if turn.Role == domain.RoleUser {
			userTurns = append(userTurns, turn)
		}
	}
	if len(userTurns) < 2 {
		return
	}

	if !containsReferenceWord(sc.Query, vocab.ReferenceWords) {
		return
	}

	previousTopic := userTurns[len(userTurns)-2]
	sc.EffectiveQuery = previousTopic.Content + " " + sc.Query
	sc.FollowUp = true
}

func containsReferenceWord(query string, referenceWords []string) bool {
	for _, token := range strings.Fields(strings.ToLower(query)) {
		token = strings.Trim(token, ".,!?;:'\"()")
		for _, word := range referenceWords {
			if token == word {
				return true
			}
		}
	}
	return false
}
