package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChatTurn(t *testing.T) {
	before := time.Now().UTC()
	turn := NewChatTurn(RoleUser, "hello")
	after := time.Now().UTC()

	assert.NotEmpty(t, turn.ID)
	assert.Equal(t, RoleUser, turn.Role)
	assert.Equal(t, "hello", turn.Content)
	assert.False(t, turn.Pending)
	assert.False(t, turn.Timestamp.Before(before))
	assert.False(t, turn.Timestamp.After(after))

	other := NewChatTurn(RoleUser, "hello")
	assert.NotEqual(t, turn.ID, other.ID)
}

func TestTeamAggregateClone(t *testing.T) {
	t.Run("nil aggregate", func(t *testing.T) {
		var agg *TeamAggregate
		assert.Nil(t, agg.Clone())
	})

	t.Run("deep copies members", func(t *testing.T) {
		agg := &TeamAggregate{
			TotalMembers:       2,
			TotalContributions: 7,
			PerMember: []MemberContribution{
				{Name: "Ada", Contributions: 4},
				{Name: "Grace", Contributions: 3},
			},
		}

		clone := agg.Clone()
		require.NotNil(t, clone)
		assert.Equal(t, agg, clone)

		clone.PerMember[0].Contributions = 99
		assert.Equal(t, 4, agg.PerMember[0].Contributions)
	})
}

func TestValidateChatTurn(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid turn", func(t *testing.T) {
		turn := &ChatTurn{ID: "t1", Role: RoleAssistant, Content: "hi", Timestamp: now}
		assert.NoError(t, ValidateChatTurn(turn))
	})

	t.Run("nil turn", func(t *testing.T) {
		err := ValidateChatTurn(nil)
		assert.ErrorIs(t, err, ErrInvalidTurn)
	})

	t.Run("empty content", func(t *testing.T) {
		turn := &ChatTurn{Role: RoleUser, Timestamp: now}
		err := ValidateChatTurn(turn)
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("pending turn may be empty", func(t *testing.T) {
		turn := &ChatTurn{Role: RoleAssistant, Timestamp: now, Pending: true}
		assert.NoError(t, ValidateChatTurn(turn))
	})

	t.Run("unknown role", func(t *testing.T) {
		turn := &ChatTurn{Role: Role("system"), Content: "x", Timestamp: now}
		err := ValidateChatTurn(turn)
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("future timestamp", func(t *testing.T) {
		turn := &ChatTurn{Role: RoleUser, Content: "x", Timestamp: now.Add(time.Hour)}
		err := ValidateChatTurn(turn)
		assert.ErrorIs(t, err, ErrInvalidTimestamp)
	})
}
