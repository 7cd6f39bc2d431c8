package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
	"github.com/aura-hub/aura-levels-bot/internal/domain/shared"
	"github.com/aura-hub/aura-levels-bot/internal/infrastructure/persistence/memory"
)

func TestGetRank_UnknownMemberReadsAsDefaults(t *testing.T) {
	handler := NewGetRankHandler(memory.NewMemberStore())

	rank, err := handler.Handle(context.Background(), GetRankQuery{MemberID: 42})
	require.NoError(t, err)

	assert.Equal(t, 1, rank.Level)
	assert.Equal(t, 0, rank.XP)
	assert.Equal(t, 100, rank.XPNeeded)
	assert.Equal(t, 0, rank.ProgressPercent)
	assert.Equal(t, 0, rank.Messages)
}

func TestGetRank_Progress(t *testing.T) {
	store := memory.NewMemberStore()
	store.Put(member.Record{ID: 42, XP: 250, Level: 2, Messages: 80})
	handler := NewGetRankHandler(store)

	rank, err := handler.Handle(context.Background(), GetRankQuery{MemberID: 42})
	require.NoError(t, err)

	assert.Equal(t, 2, rank.Level)
	assert.Equal(t, 250, rank.XP)
	assert.Equal(t, 400, rank.XPNeeded)
	assert.Equal(t, 62, rank.ProgressPercent)
	assert.Equal(t, 80, rank.Messages)
	assert.Zero(t, rank.Position, "position is not computed unless requested")
}

func TestGetRank_WithPosition(t *testing.T) {
	store := memory.NewMemberStore()
	store.Put(member.Record{ID: 1, XP: 900, Level: 3, Messages: 10})
	store.Put(member.Record{ID: 2, XP: 250, Level: 2, Messages: 10})
	store.Put(member.Record{ID: 3, XP: 5, Level: 1, Messages: 10})
	handler := NewGetRankHandler(store)

	rank, err := handler.Handle(context.Background(), GetRankQuery{MemberID: 2, IncludePosition: true})
	require.NoError(t, err)

	assert.Equal(t, 2, rank.Position)
	assert.Equal(t, 3, rank.TotalMembers)
}

func TestGetRank_Validation(t *testing.T) {
	handler := NewGetRankHandler(memory.NewMemberStore())

	_, err := handler.Handle(context.Background(), GetRankQuery{MemberID: 0})
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}
