package board

import (
	"context"
	"strings"

	"github.com/mdouchement/visionboard/pkg/libvb"
)

var planKeywords = []string{"study plan", "schedule", "cat prep"}

// SendMessage appends the user message to the chat log, asks the advisor for
// a reply and appends it. Messages mentioning a plan are answered by the study planner.
func (s *Store) SendMessage(ctx context.Context, text string) (libvb.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return libvb.ChatMessage{}, ErrEmptyContent
	}

	if err := s.AppendChat(libvb.NewChatMessage(libvb.RoleUser, text)); err != nil {
		return libvb.ChatMessage{}, err
	}

	var reply string
	if wantsPlan(text) {
		reply = s.advisor.StudyPlan(ctx, text)
	} else {
		reply = s.advisor.ChatReply(ctx, text)
	}

	message := libvb.NewChatMessage(libvb.RoleModel, reply)
	return message, s.AppendChat(message)
}

func wantsPlan(text string) bool {
	text = strings.ToLower(text)
	for _, keyword := range planKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// GenerateImage asks the advisor for an image and returns it as a data-URL.
func (s *Store) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyContent
	}

	image := s.advisor.GenerateImage(ctx, prompt)
	if image == "" {
		return "", libvb.NewError(libvb.KindGenerationFailure, "could not generate an image")
	}
	return image, nil
}
