package support

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPost(t *testing.T) *Post {
	p, err := NewPost(uuid.New(), PostTypeInquiry, "배송 문의", "주문한 상품이 아직 안 왔어요")
	require.NoError(t, err)
	return p
}

func TestNewPost(t *testing.T) {
	p := createTestPost(t)
	assert.Equal(t, PostStatusPending, p.Status)
	assert.Equal(t, PostTypeInquiry, p.Type)

	_, err := NewPost(uuid.New(), PostType("spam"), "제목", "내용")
	assert.Error(t, err)

	_, err = NewPost(uuid.New(), PostTypeInquiry, "", "내용")
	assert.Error(t, err)
}

func TestPost_AddReply(t *testing.T) {
	p := createTestPost(t)
	staff := uuid.New()

	t.Run("first reply moves post to in_progress", func(t *testing.T) {
		_, err := p.AddReply(staff, "확인 중입니다", false)
		require.NoError(t, err)
		assert.Equal(t, PostStatusInProgress, p.Status)

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeReplyAdded, events[0].EventType())
		p.ClearDomainEvents()
	})

	t.Run("resolving reply completes the post", func(t *testing.T) {
		_, err := p.AddReply(staff, "오늘 출고되었습니다", true)
		require.NoError(t, err)
		assert.Equal(t, PostStatusCompleted, p.Status)
		assert.Len(t, p.Replies, 2)
	})

	t.Run("closed post rejects replies", func(t *testing.T) {
		require.NoError(t, p.Close())
		_, err := p.AddReply(staff, "늦은 답변", false)
		assert.Error(t, err)
	})
}

func TestPost_Update(t *testing.T) {
	p := createTestPost(t)
	require.NoError(t, p.Update("배송 문의 (수정)", "내용 수정"))

	_, err := p.AddReply(uuid.New(), "답변", false)
	require.NoError(t, err)
	assert.Error(t, p.Update("또 수정", "불가"), "post is frozen once handled")
}

func TestNewFAQ(t *testing.T) {
	f, err := NewFAQ("배송", "배송은 얼마나 걸리나요?", "보통 2-3일 소요됩니다", 1)
	require.NoError(t, err)
	assert.True(t, f.Published)

	_, err = NewFAQ("", "질문", "답변", 0)
	assert.Error(t, err)
}

func TestNewNotice(t *testing.T) {
	n, err := NewNotice("점검 안내", "금일 02시부터 서버 점검이 있습니다", true)
	require.NoError(t, err)
	assert.True(t, n.IsImportant)
	assert.Zero(t, n.ViewCount)

	_, err = NewNotice("", "내용", false)
	assert.Error(t, err)
}
