package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileCompletion(t *testing.T) {
	t.Run("empty profile is 0", func(t *testing.T) {
		var p ExpertProfile
		assert.Equal(t, 0.0, p.CompletionPercentage())
	})

	t.Run("full profile is 100", func(t *testing.T) {
		p := ExpertProfile{
			FullName:  "Ada Lovelace",
			Title:     "AI Strategist",
			Location:  "London",
			Biography: "Twenty years in applied mathematics.",
			PhotoURL:  "uploads/photos/ada.jpg",
		}
		assert.Equal(t, 100.0, p.CompletionPercentage())
	})

	t.Run("two of four items is 50", func(t *testing.T) {
		p := ExpertProfile{
			FullName: "Ada Lovelace",
			Title:    "AI Strategist",
			Location: "London",
		}
		assert.Equal(t, 50.0, p.CompletionPercentage())
	})

	t.Run("basic info needs both name and title", func(t *testing.T) {
		p := ExpertProfile{FullName: "Ada Lovelace"}
		items := p.CompletionItems()
		require.Len(t, items, 4)
		assert.Equal(t, "Basic Info", items[0].Label)
		assert.False(t, items[0].Completed)
	})
}

func TestValidLeadTime(t *testing.T) {
	assert.True(t, ValidLeadTime(LeadTimeImmediate))
	assert.True(t, ValidLeadTime(LeadTimeOneWeek))
	assert.True(t, ValidLeadTime(LeadTimeTwoWeeks))
	assert.True(t, ValidLeadTime(LeadTimeOneMonth))
	assert.False(t, ValidLeadTime(LeadTime("someday")))
	assert.False(t, ValidLeadTime(LeadTime("")))
}
