package actions

import (
	"encoding/json"
	"fmt"

	"github.com/genova-platform/genova_backend/internal/models"
)

// AI action names, matching the contract of the external ai-actions
// function. The backend validates and forwards; inference happens outside.
const (
	AIChatResponse        = "chat_response"
	AIMatchExperts        = "match_experts"
	AIPromptSuggestions   = "generate_prompt_suggestions"
	AIEnhancePrompt       = "enhance_prompt"
	AISummarizeReviews    = "summarize_reviews"
	AISummarizeThread     = "summarize_thread"
	AIImproveReply        = "improve_reply"
)

// AIRequest is the tagged request body for ai-actions. Only the fields
// relevant to the named action are expected to be set; Validate enforces
// the per-action required ones.
type AIRequest struct {
	Action string `json:"action"`

	// chat_response
	Message             string            `json:"message,omitempty"`
	Context             string            `json:"context,omitempty"`
	UserID              string            `json:"user_id,omitempty"`
	ConversationHistory []json.RawMessage `json:"conversation_history,omitempty"`

	// match_experts
	ProjectDescription string `json:"project_description,omitempty"`
	SearchQuery        string `json:"search_query,omitempty"`

	// generate_prompt_suggestions / enhance_prompt
	ProjectType   string `json:"project_type,omitempty"`
	Budget        string `json:"budget,omitempty"`
	Timeline      string `json:"timeline,omitempty"`
	CurrentPrompt string `json:"current_prompt,omitempty"`
	Prompt        string `json:"prompt,omitempty"`

	// summarize_reviews
	ExpertID string            `json:"expert_id,omitempty"`
	Reviews  []json.RawMessage `json:"reviews,omitempty"`

	// summarize_thread / improve_reply
	PostID  string   `json:"post_id,omitempty"`
	Content string   `json:"content,omitempty"`
	Replies []string `json:"replies,omitempty"`
}

var ErrUnknownAction = fmt.Errorf("unknown action")

// Validate checks the action name and its required parameters.
func (r *AIRequest) Validate() (models.FieldErrors, error) {
	errs := models.FieldErrors{}
	switch r.Action {
	case AIChatResponse:
		if r.Message == "" {
			errs.Add("message", "message is required")
		}
	case AIMatchExperts:
		if r.ProjectDescription == "" && r.SearchQuery == "" {
			errs.Add("project_description", "project_description or search_query is required")
		}
	case AIPromptSuggestions:
		if r.ProjectType == "" {
			errs.Add("project_type", "project_type is required")
		}
	case AIEnhancePrompt:
		if r.Prompt == "" {
			errs.Add("prompt", "prompt is required")
		}
	case AISummarizeReviews:
		if r.ExpertID == "" {
			errs.Add("expert_id", "expert_id is required")
		}
		if len(r.Reviews) == 0 {
			errs.Add("reviews", "at least one review is required")
		}
	case AISummarizeThread:
		if r.PostID == "" {
			errs.Add("post_id", "post_id is required")
		}
		if r.Content == "" {
			errs.Add("content", "content is required")
		}
	case AIImproveReply:
		if r.Content == "" {
			errs.Add("content", "content is required")
		}
	default:
		return nil, ErrUnknownAction
	}
	return errs, nil
}
