package session

import (
	"sync"
	"testing"

	"github.com/fractalmind-ai/wordtok/internal/config"
	"github.com/fractalmind-ai/wordtok/internal/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRegistersExtraTokens(t *testing.T) {
	manager := NewManager(&config.TokenizerConfig{ExtraTokens: []string{"Custom", "gopher"}})

	tk, err := manager.Acquire("s1")
	require.NoError(t, err)
	require.True(t, tk.HasToken("custom"))
	require.True(t, tk.HasToken("GOPHER"))
	require.Equal(t, tokenizer.SeedSize()+2, tk.VocabularySize())

	ids, err := tk.Encode("custom")
	require.NoError(t, err)
	require.Equal(t, []int{tokenizer.SeedSize()}, ids)
}

func TestAcquireSharesTokenizerWithinSession(t *testing.T) {
	manager := NewManager(nil)

	first, err := manager.Acquire("s1")
	require.NoError(t, err)
	second, err := manager.Acquire("s1")
	require.NoError(t, err)
	other, err := manager.Acquire("s2")
	require.NoError(t, err)

	require.Same(t, first, second)
	require.NotSame(t, first, other)

	require.NoError(t, first.AddToken("shared"))
	assert.True(t, second.HasToken("shared"))
	assert.False(t, other.HasToken("shared"))
}

func TestReleaseDiscardsIdleSessions(t *testing.T) {
	manager := NewManager(nil)

	_, err := manager.Acquire("s1")
	require.NoError(t, err)
	_, err = manager.Acquire("s1")
	require.NoError(t, err)
	require.Equal(t, 1, manager.Count())

	manager.Release("s1")
	require.Equal(t, 1, manager.Count())
	manager.Release("s1")
	require.Equal(t, 0, manager.Count())

	manager.Release("missing")
	require.Equal(t, 0, manager.Count())

	tk, err := manager.Acquire("s1")
	require.NoError(t, err)
	require.Equal(t, tokenizer.SeedSize(), tk.VocabularySize())
}

func TestAcquireRejectsEmptyID(t *testing.T) {
	manager := NewManager(nil)
	_, err := manager.Acquire("")
	require.Error(t, err)
}

func TestNewTokenizerRejectsInvalidExtraToken(t *testing.T) {
	manager := NewManager(&config.TokenizerConfig{ExtraTokens: []string{"ok", ""}})

	_, err := manager.Acquire("s1")
	require.ErrorIs(t, err, tokenizer.ErrInvalidInput)
	require.Equal(t, 0, manager.Count())
}

func TestList(t *testing.T) {
	manager := NewManager(nil)

	b, err := manager.Acquire("b")
	require.NoError(t, err)
	_, err = manager.Acquire("a")
	require.NoError(t, err)
	_, err = manager.Acquire("b")
	require.NoError(t, err)
	require.NoError(t, b.AddToken("extra"))

	sessions := manager.List()
	require.Len(t, sessions, 2)
	assert.Equal(t, "a", sessions[0].ID)
	assert.Equal(t, 1, sessions[0].Clients)
	assert.Equal(t, "b", sessions[1].ID)
	assert.Equal(t, 2, sessions[1].Clients)
	assert.Equal(t, tokenizer.SeedSize()+1, sessions[1].VocabularySize)
}

func TestConcurrentAccess(t *testing.T) {
	manager := NewManager(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tk, err := manager.Acquire("shared")
			if err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			defer manager.Release("shared")
			for j := 0; j < 50; j++ {
				_ = tk.AddToken("word")
				if _, err := tk.Encode("hello word"); err != nil {
					t.Errorf("encode: %v", err)
					return
				}
				_ = tk.VocabularySize()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 0, manager.Count())
}
