package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/muster/internal/model"
)

func TestResultCache(t *testing.T) {
	t.Run("basic operations", func(t *testing.T) {
		cache := newResultCache(5 * time.Minute)
		defer cache.Close()

		_, found := cache.get("non-existent")
		assert.False(t, found)

		result := model.ExtractionResult{
			Records:       []model.Candidate{{LabourName: "Ramesh", Day: 1}},
			Uncertainties: []string{},
		}
		cache.set("key1", result)

		retrieved, found := cache.get("key1")
		assert.True(t, found)
		assert.Equal(t, result.Records, retrieved.Records)
		assert.Equal(t, 1, cache.size())

		cache.clear()
		assert.Equal(t, 0, cache.size())
	})

	t.Run("expiration", func(t *testing.T) {
		cache := newResultCache(50 * time.Millisecond)
		defer cache.Close()

		cache.set("key2", model.ExtractionResult{})
		_, found := cache.get("key2")
		assert.True(t, found)

		time.Sleep(100 * time.Millisecond)
		_, found = cache.get("key2")
		assert.False(t, found)
	})

	t.Run("returned results are copies", func(t *testing.T) {
		cache := newResultCache(time.Minute)
		defer cache.Close()

		cache.set("k", model.ExtractionResult{Records: []model.Candidate{{LabourName: "A"}}})
		first, _ := cache.get("k")
		first.Records[0].LabourName = "changed"

		second, _ := cache.get("k")
		assert.Equal(t, "A", second.Records[0].LabourName)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		cache := newResultCache(time.Minute)
		cache.Close()
		assert.NotPanics(t, cache.Close)
	})
}

func TestPromptKey(t *testing.T) {
	base := Prompt{System: "sys", User: "user"}
	withRule := Prompt{System: "sys rule", User: "user"}
	withImage := Prompt{System: "sys", User: "user", Images: []model.Image{{MIMEType: "image/png", Data: "x"}}}

	assert.Equal(t, promptKey(base), promptKey(Prompt{System: "sys", User: "user"}))
	assert.NotEqual(t, promptKey(base), promptKey(withRule))
	assert.NotEqual(t, promptKey(base), promptKey(withImage))
}
