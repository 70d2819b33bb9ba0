package blog

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Spotting 101: Where to Look  ", "spotting-101-where-to-look"},
		{"Ça va — Property!", "a-va-property"},
		{"---", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.title), tc.title)
	}
}

func TestReadingMinutesFor(t *testing.T) {
	assert.Equal(t, 0, ReadingMinutesFor(""))
	assert.Equal(t, 1, ReadingMinutesFor("a few words only"))
	assert.Equal(t, 2, ReadingMinutesFor(strings.Repeat("word ", 460)))
}

func TestNewPost(t *testing.T) {
	authorID := uuid.New()

	t.Run("creates draft with derived slug", func(t *testing.T) {
		p, err := NewPost(authorID, "How Spotting Works", "Some body text here.")

		require.NoError(t, err)
		assert.Equal(t, StatusDraft, p.Status)
		assert.Equal(t, "how-spotting-works", p.Slug)
		assert.Equal(t, 1, p.ReadingMinutes)
	})

	t.Run("rejects title without alphanumerics", func(t *testing.T) {
		_, err := NewPost(authorID, "???", "body")
		assert.Error(t, err)
	})
}

func TestPostPublish(t *testing.T) {
	authorID := uuid.New()

	t.Run("requires rendered html", func(t *testing.T) {
		p, err := NewPost(authorID, "Title", "body")
		require.NoError(t, err)

		assert.Error(t, p.Publish())

		p.SetRenderedHTML("<p>body</p>")
		require.NoError(t, p.Publish())
		assert.Equal(t, StatusPublished, p.Status)
		assert.NotNil(t, p.PublishedAt)
	})

	t.Run("first publish timestamp survives republish", func(t *testing.T) {
		p, err := NewPost(authorID, "Title", "body")
		require.NoError(t, err)
		p.SetRenderedHTML("<p>body</p>")
		require.NoError(t, p.Publish())
		first := *p.PublishedAt

		require.NoError(t, p.Archive())
		require.NoError(t, p.Publish())
		assert.Equal(t, first, *p.PublishedAt)
	})

	t.Run("editing clears the rendering", func(t *testing.T) {
		p, err := NewPost(authorID, "Title", "body")
		require.NoError(t, err)
		p.SetRenderedHTML("<p>body</p>")

		require.NoError(t, p.UpdateContent("Title", "", "new body"))
		assert.Empty(t, p.ContentHTML)
	})
}

func TestPostTags(t *testing.T) {
	p, err := NewPost(uuid.New(), "Title", "body")
	require.NoError(t, err)

	p.SetTags([]string{"Tips", " tips ", "", "Gauteng"})
	assert.Equal(t, []string{"tips", "gauteng"}, p.Tags)
}

func TestComment(t *testing.T) {
	postID := uuid.New()

	t.Run("starts pending", func(t *testing.T) {
		c, err := NewComment(postID, "Sipho", "Sipho@Example.com", "Great read!")

		require.NoError(t, err)
		assert.Equal(t, CommentPending, c.Status)
		assert.Equal(t, "sipho@example.com", c.AuthorEmail)
	})

	t.Run("moderation is single shot", func(t *testing.T) {
		c, err := NewComment(postID, "Sipho", "s@example.com", "Great read!")
		require.NoError(t, err)

		require.NoError(t, c.Approve())
		assert.Error(t, c.Approve())
		assert.Error(t, c.Reject())
	})
}

func TestSubscriber(t *testing.T) {
	s, err := NewSubscriber("Reader@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", s.Email)
	assert.True(t, s.Active())

	s.Unsubscribe()
	assert.False(t, s.Active())

	s.Resubscribe()
	assert.True(t, s.Active())

	_, err = NewSubscriber("nope")
	assert.Error(t, err)
}
