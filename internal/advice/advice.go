// Package advice produces chat replies, study plans and images with a generative model.
// Failures never reach the caller: they are logged and degrade to fallback values.
package advice

import "context"

// Models used by the Gemini advisor.
const (
	ModelChat    = "gemini-3-flash-preview"
	ModelPlanner = "gemini-3-pro-preview"
	ModelImage   = "gemini-3-pro-image-preview"
)

// Fallback replies.
const (
	FallbackChatNoKey = "Bestie, the API key is missing! Check your settings."
	FallbackChatEmpty = "Bestie, the wifi is acting up, but you're still doing great!"
	FallbackChatError = "Oops! My crystal ball is foggy. Try again later!"
	FallbackPlanNoKey = "Cannot generate plan: API Key missing."
	FallbackPlanEmpty = "Could not generate a plan right now."
	FallbackPlanError = "Study session interrupted. Let's try that again."
)

// A Service produces chat replies, study plans and images.
type Service interface {
	// ChatReply returns a short supportive reply to the user text.
	ChatReply(ctx context.Context, text string) string
	// StudyPlan returns a Markdown study plan about topic.
	StudyPlan(ctx context.Context, topic string) string
	// GenerateImage returns a data-URL of the generated image, or an empty string.
	GenerateImage(ctx context.Context, prompt string) string
}

// Offline is the Service used when no API key is configured.
type Offline struct{}

// ChatReply implements Service.
func (Offline) ChatReply(context.Context, string) string {
	return FallbackChatNoKey
}

// StudyPlan implements Service.
func (Offline) StudyPlan(context.Context, string) string {
	return FallbackPlanNoKey
}

// GenerateImage implements Service.
func (Offline) GenerateImage(context.Context, string) string {
	return ""
}
