package chatbot

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fossouo/creche-pilou-chatbot/ingestion"
)

func newTestChatbot(t *testing.T) *Chatbot {
	t.Helper()

	bot, err := New(
		filepath.Join(t.TempDir(), "db"),
		filepath.Join(t.TempDir(), "knowledge_base.json"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { bot.Close() })

	return bot
}

func TestNewChatbotWiring(t *testing.T) {
	bot := newTestChatbot(t)

	assert.NotNil(t, bot.UnitRepository())
	assert.NotNil(t, bot.SourceLog())
	assert.NotNil(t, bot.KnowledgeBaseStore())
}

func TestSearcherBeforeFirstBuild(t *testing.T) {
	bot := newTestChatbot(t)

	searcher, err := bot.NewSearcher(context.Background())
	require.NoError(t, err)

	// Empty snapshot: results are empty without touching the embedding host.
	results, err := searcher.Search(context.Background(), "quels sont les horaires", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNewBuilderRequiresExtractor(t *testing.T) {
	bot := newTestChatbot(t)

	_, err := bot.NewBuilder(nil)
	assert.ErrorIs(t, err, ingestion.ErrExtractorRequired)
}

func TestNewReembedderFromFacade(t *testing.T) {
	bot := newTestChatbot(t)

	reembedder, err := bot.NewReembedder(nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, reembedder)
}
