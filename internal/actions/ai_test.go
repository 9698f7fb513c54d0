package actions

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIRequestValidate(t *testing.T) {
	t.Run("unknown action", func(t *testing.T) {
		req := AIRequest{Action: "translate"}
		_, err := req.Validate()
		assert.ErrorIs(t, err, ErrUnknownAction)
	})

	t.Run("empty action", func(t *testing.T) {
		req := AIRequest{}
		_, err := req.Validate()
		assert.ErrorIs(t, err, ErrUnknownAction)
	})

	t.Run("chat_response requires message", func(t *testing.T) {
		req := AIRequest{Action: AIChatResponse}
		errs, err := req.Validate()
		require.NoError(t, err)
		assert.Contains(t, errs, "message")

		req.Message = "How do I find an expert?"
		errs, err = req.Validate()
		require.NoError(t, err)
		assert.True(t, errs.Empty())
	})

	t.Run("match_experts accepts either description or query", func(t *testing.T) {
		req := AIRequest{Action: AIMatchExperts}
		errs, err := req.Validate()
		require.NoError(t, err)
		assert.False(t, errs.Empty())

		req.SearchQuery = "fintech compliance"
		errs, err = req.Validate()
		require.NoError(t, err)
		assert.True(t, errs.Empty())

		req = AIRequest{Action: AIMatchExperts, ProjectDescription: "Build a risk model"}
		errs, err = req.Validate()
		require.NoError(t, err)
		assert.True(t, errs.Empty())
	})

	t.Run("enhance_prompt requires prompt", func(t *testing.T) {
		req := AIRequest{Action: AIEnhancePrompt}
		errs, err := req.Validate()
		require.NoError(t, err)
		assert.Contains(t, errs, "prompt")
	})

	t.Run("summarize_reviews requires expert and reviews", func(t *testing.T) {
		req := AIRequest{Action: AISummarizeReviews}
		errs, err := req.Validate()
		require.NoError(t, err)
		assert.Contains(t, errs, "expert_id")
		assert.Contains(t, errs, "reviews")

		req.ExpertID = "e1"
		req.Reviews = []json.RawMessage{json.RawMessage(`{"rating":5}`)}
		errs, err = req.Validate()
		require.NoError(t, err)
		assert.True(t, errs.Empty())
	})

	t.Run("summarize_thread requires post and content", func(t *testing.T) {
		req := AIRequest{Action: AISummarizeThread, PostID: "p1"}
		errs, err := req.Validate()
		require.NoError(t, err)
		assert.Contains(t, errs, "content")
	})

	t.Run("improve_reply requires content", func(t *testing.T) {
		req := AIRequest{Action: AIImproveReply, Content: "draft reply"}
		errs, err := req.Validate()
		require.NoError(t, err)
		assert.True(t, errs.Empty())
	})
}
