package chat

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDirectRoom(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	room, err := NewDirectRoom(a, b)
	require.NoError(t, err)
	assert.Equal(t, RoomTypeDirect, room.Type)
	assert.Len(t, room.Participants, 2)
	assert.True(t, room.HasParticipant(a))
	assert.True(t, room.HasParticipant(b))

	_, err = NewDirectRoom(a, a)
	assert.Error(t, err)
}

func TestNewGroupRoom(t *testing.T) {
	creator := uuid.New()

	room, err := NewGroupRoom(creator, "주문 문의방")
	require.NoError(t, err)
	assert.Equal(t, RoomTypeGroup, room.Type)
	assert.Len(t, room.Participants, 1)

	_, err = NewGroupRoom(creator, "  ")
	assert.Error(t, err)
}

func TestRoom_JoinAndLeave(t *testing.T) {
	creator := uuid.New()
	member := uuid.New()
	room, err := NewGroupRoom(creator, "공구방")
	require.NoError(t, err)

	require.NoError(t, room.Join(member))
	assert.True(t, room.HasParticipant(member))

	// joining twice is an error
	assert.Error(t, room.Join(member))

	require.NoError(t, room.Leave(member))
	assert.False(t, room.HasParticipant(member))

	// leaving when absent is an error
	assert.Error(t, room.Leave(member))
}

func TestRoom_DirectRoomMembershipIsFixed(t *testing.T) {
	room, err := NewDirectRoom(uuid.New(), uuid.New())
	require.NoError(t, err)

	assert.Error(t, room.Join(uuid.New()))
	assert.Error(t, room.Leave(room.Participants[0].UserID))
}

func TestRoom_RecordActivity(t *testing.T) {
	room, err := NewGroupRoom(uuid.New(), "잡담방")
	require.NoError(t, err)

	room.RecordActivity("새 메시지")
	assert.Equal(t, "새 메시지", room.LastMessage)
	require.NotNil(t, room.LastActivity)

	long := strings.Repeat("가", 150)
	room.RecordActivity(long)
	assert.Len(t, []rune(room.LastMessage), 100)
}
