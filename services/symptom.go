package services

import (
	"context"
	"strings"

	"CareDesk/llm"
	"CareDesk/models"
	"CareDesk/util"

	"github.com/rs/zerolog/log"
)

// SymptomService forwards symptom descriptions to the language model.
// A nil client means no credential is configured and the relay is off.
type SymptomService struct {
	llm llm.Client
}

func NewSymptomService(client llm.Client) *SymptomService {
	return &SymptomService{llm: client}
}

func (s *SymptomService) Enabled() bool {
	return s.llm != nil
}

/*
* System prompt first
* Then prior turns, skipping incomplete ones; anything but assistant is sent as user
* Then the new user turn
 */
func BuildConversation(previous []models.ChatTurn, symptoms string) []llm.Message {
	messages := make([]llm.Message, 0, len(previous)+2)
	messages = append(messages, llm.Message{Role: "system", Content: SymptomSystemPrompt})
	for _, m := range previous {
		if m.Role == "" || m.Content == "" {
			continue
		}
		role := "user"
		if m.Role == "assistant" {
			role = "assistant"
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Content})
	}
	return append(messages, llm.Message{Role: "user", Content: symptoms})
}

/*
* Disabled relay answers 503 before looking at the input
* Blank symptoms are rejected without calling the model
* An empty model answer is replaced with the fallback text
 */
func (s *SymptomService) Relay(ctx context.Context, req models.SymptomRequest) (string, error) {
	if !s.Enabled() {
		return "", util.Unavailable(util.AI_DISABLED)
	}
	if strings.TrimSpace(req.Symptoms) == "" {
		return "", util.BadRequest(util.SYMPTOMS_REQUIRED)
	}

	reply, err := s.llm.Chat(ctx, BuildConversation(req.PreviousMessages, req.Symptoms))
	if err != nil {
		log.Error().Err(err).Msg("AI symptoms error")
		return "", util.Internal(util.AI_ERROR, err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return util.AI_FALLBACK_REPLY, nil
	}
	return reply, nil
}
