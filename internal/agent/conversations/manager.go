package conversations

import (
	"context"
	"strings"

	"github.com/Bookline-core-poc-v1/server/internal/agent/model"

	"github.com/cloudwego/eino/schema"
)

// MessagesManager assembles conversation context for the planner and the
// responder from persisted history, and records new turns.
type MessagesManager struct {
	conversationRepo model.ConversationRepository
	contextMaxTurns  int
}

func NewMessagesManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *MessagesManager {
	return &MessagesManager{
		conversationRepo: conversationRepo,
		contextMaxTurns:  config.Context.MaxTurns,
	}
}

// RecordUserMessage persists the inbound user message and returns the tagged
// conversation context the planner prompt expects, with the new message
// highlighted separately from prior turns.
func (cm *MessagesManager) RecordUserMessage(ctx context.Context, conversationID string, query string) (string, error) {
	userMsg := schema.UserMessage(query)
	if err := cm.conversationRepo.AddMessage(ctx, conversationID, userMsg); err != nil {
		return "", err
	}

	history, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return "", err
	}

	// History now ends with the message just recorded; context covers the turns before it.
	prior := history.Messages
	if len(prior) > 0 {
		prior = prior[:len(prior)-1]
	}

	var fullContext strings.Builder
	fullContext.WriteString(cm.buildContext(prior))
	fullContext.WriteString("\n<current_message>\n")
	fullContext.WriteString("UserMessage(" + query + ")\n")
	fullContext.WriteString("</current_message>")

	return fullContext.String(), nil
}

func (cm *MessagesManager) buildContext(messages []*schema.Message) string {
	recentMessages := trimTail(messages, cm.contextMaxTurns)

	var contextBuilder strings.Builder
	contextBuilder.WriteString("<conversation_context>\n")

	for _, msg := range recentMessages {
		if msg == nil || msg.Content == "" {
			continue
		}
		switch msg.Role {
		case schema.User:
			contextBuilder.WriteString("UserMessage(" + msg.Content + ")\n")
		case schema.Assistant:
			contextBuilder.WriteString("AssistantMessage(" + msg.Content + ")\n")
		}
	}

	contextBuilder.WriteString("</conversation_context>")
	return contextBuilder.String()
}

// BuildResponseContext returns the message list for the response model: the
// rendered system prompt followed by persisted history.
func (cm *MessagesManager) BuildResponseContext(ctx context.Context, conversationID string, systemPrompt string) ([]*schema.Message, error) {
	history, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
	}

	messages = append(messages, trimTail(history.Messages, cm.contextMaxTurns)...)

	return messages, nil
}

// SaveResponse persists the final assistant response for a turn.
func (cm *MessagesManager) SaveResponse(ctx context.Context, conversationID string, content string) error {
	assistantMsg := schema.AssistantMessage(content, nil)
	return cm.conversationRepo.AddMessage(ctx, conversationID, assistantMsg)
}

// ====================== Helper function ======================
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxTurns:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
