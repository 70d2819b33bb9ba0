package blog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propertyspotter/backend/internal/domain/blog"
	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/infrastructure/markdown"
)

// MockPostRepository is a mock implementation of blog.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*blog.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blog.Post), args.Error(1)
}

func (m *MockPostRepository) FindBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blog.Post), args.Error(1)
}

func (m *MockPostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) FindPublished(ctx context.Context, filter shared.Filter) (*shared.Paginated[blog.Post], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[blog.Post]), args.Error(1)
}

func (m *MockPostRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[blog.Post], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[blog.Post]), args.Error(1)
}

func (m *MockPostRepository) Save(ctx context.Context, post *blog.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCommentRepository is a mock implementation of blog.CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*blog.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blog.Comment), args.Error(1)
}

func (m *MockCommentRepository) FindByPost(ctx context.Context, postID uuid.UUID, status blog.CommentStatus) ([]blog.Comment, error) {
	args := m.Called(ctx, postID, status)
	return args.Get(0).([]blog.Comment), args.Error(1)
}

func (m *MockCommentRepository) FindPending(ctx context.Context, filter shared.Filter) (*shared.Paginated[blog.Comment], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[blog.Comment]), args.Error(1)
}

func (m *MockCommentRepository) Save(ctx context.Context, comment *blog.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSubscriberRepository is a mock implementation of blog.SubscriberRepository
type MockSubscriberRepository struct {
	mock.Mock
}

func (m *MockSubscriberRepository) FindByEmail(ctx context.Context, email string) (*blog.Subscriber, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blog.Subscriber), args.Error(1)
}

func (m *MockSubscriberRepository) FindActive(ctx context.Context) ([]blog.Subscriber, error) {
	args := m.Called(ctx)
	return args.Get(0).([]blog.Subscriber), args.Error(1)
}

func (m *MockSubscriberRepository) Save(ctx context.Context, subscriber *blog.Subscriber) error {
	args := m.Called(ctx, subscriber)
	return args.Error(0)
}

func (m *MockSubscriberRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type blogFixture struct {
	posts       *MockPostRepository
	comments    *MockCommentRepository
	subscribers *MockSubscriberRepository
	service     *Service
}

func newBlogFixture() *blogFixture {
	f := &blogFixture{
		posts:       new(MockPostRepository),
		comments:    new(MockCommentRepository),
		subscribers: new(MockSubscriberRepository),
	}
	f.service = NewService(f.posts, f.comments, f.subscribers, markdown.NewRenderer(), zap.NewNop())
	return f
}

func adminActor() identity.Actor {
	return identity.Actor{ID: uuid.New(), Role: identity.RoleAdmin}
}

func TestService_CreatePost_Success(t *testing.T) {
	ctx := context.Background()
	f := newBlogFixture()

	f.posts.On("SlugExists", ctx, "how-spotting-works").Return(false, nil)
	f.posts.On("Save", ctx, mock.Anything).Return(nil)

	p, err := f.service.CreatePost(ctx, CreatePostInput{
		Actor:     adminActor(),
		Title:     "How Spotting Works",
		Summary:   "A walkthrough of the referral process",
		ContentMD: "## Step one\n\nSpot a property.",
		Tags:      []string{"Guide", "guide", "Spotting"},
	})

	require.NoError(t, err)
	assert.Equal(t, "how-spotting-works", p.Slug)
	assert.Equal(t, blog.StatusDraft, p.Status)
	assert.Equal(t, []string{"guide", "spotting"}, p.Tags)
	f.posts.AssertExpectations(t)
}

func TestService_CreatePost_SlugCollision(t *testing.T) {
	ctx := context.Background()
	f := newBlogFixture()

	f.posts.On("SlugExists", ctx, "market-update").Return(true, nil)
	f.posts.On("SlugExists", ctx, "market-update-2").Return(true, nil)
	f.posts.On("SlugExists", ctx, "market-update-3").Return(false, nil)
	f.posts.On("Save", ctx, mock.Anything).Return(nil)

	p, err := f.service.CreatePost(ctx, CreatePostInput{
		Actor:     adminActor(),
		Title:     "Market Update",
		ContentMD: "Prices are up.",
	})

	require.NoError(t, err)
	assert.Equal(t, "market-update-3", p.Slug)
}

func TestService_CreatePost_NonAdmin(t *testing.T) {
	f := newBlogFixture()

	_, err := f.service.CreatePost(context.Background(), CreatePostInput{
		Actor:     identity.Actor{ID: uuid.New(), Role: identity.RoleSpotter},
		Title:     "Market Update",
		ContentMD: "Prices are up.",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestService_PublishPost_RendersMarkdown(t *testing.T) {
	ctx := context.Background()
	f := newBlogFixture()

	p, err := blog.NewPost(uuid.New(), "Market Update", "## Heading\n\nBody text.")
	require.NoError(t, err)

	f.posts.On("FindByID", ctx, p.ID).Return(p, nil)
	f.posts.On("Save", ctx, p).Return(nil)

	result, err := f.service.PublishPost(ctx, ChangePostInput{Actor: adminActor(), PostID: p.ID})

	require.NoError(t, err)
	assert.Equal(t, blog.StatusPublished, result.Status)
	assert.Contains(t, result.ContentHTML, "<h2")
	assert.NotNil(t, result.PublishedAt)
}

func TestService_PublishPost_SanitisesHTML(t *testing.T) {
	ctx := context.Background()
	f := newBlogFixture()

	p, err := blog.NewPost(uuid.New(), "Market Update", "Hello <script>alert(1)</script> world")
	require.NoError(t, err)

	f.posts.On("FindByID", ctx, p.ID).Return(p, nil)
	f.posts.On("Save", ctx, p).Return(nil)

	result, err := f.service.PublishPost(ctx, ChangePostInput{Actor: adminActor(), PostID: p.ID})

	require.NoError(t, err)
	assert.False(t, strings.Contains(result.ContentHTML, "<script"))
}

func TestService_PublicGetBySlug_DraftHidden(t *testing.T) {
	ctx := context.Background()
	f := newBlogFixture()

	p, err := blog.NewPost(uuid.New(), "Market Update", "Body.")
	require.NoError(t, err)

	f.posts.On("FindBySlug", ctx, p.Slug).Return(p, nil)

	_, err = f.service.PublicGetBySlug(ctx, p.Slug)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestService_SubmitComment_Pending(t *testing.T) {
	ctx := context.Background()
	f := newBlogFixture()

	p, err := blog.NewPost(uuid.New(), "Market Update", "Body.")
	require.NoError(t, err)
	p.SetRenderedHTML("<p>Body.</p>")
	require.NoError(t, p.Publish())

	f.posts.On("FindBySlug", ctx, p.Slug).Return(p, nil)
	f.comments.On("Save", ctx, mock.Anything).Return(nil)

	c, err := f.service.SubmitComment(ctx, SubmitCommentInput{
		PostSlug:    p.Slug,
		AuthorName:  "Thandi",
		AuthorEmail: "thandi@example.com",
		Content:     "Great overview, thanks.",
	})

	require.NoError(t, err)
	assert.Equal(t, blog.CommentPending, c.Status)
	assert.Equal(t, p.ID, c.PostID)
}

func TestService_ApproveComment_Success(t *testing.T) {
	ctx := context.Background()
	f := newBlogFixture()

	c, err := blog.NewComment(uuid.New(), "Thandi", "thandi@example.com", "Great overview.")
	require.NoError(t, err)

	f.comments.On("FindByID", ctx, c.ID).Return(c, nil)
	f.comments.On("Save", ctx, c).Return(nil)

	result, err := f.service.ApproveComment(ctx, ModerateCommentInput{Actor: adminActor(), CommentID: c.ID})

	require.NoError(t, err)
	assert.Equal(t, blog.CommentApproved, result.Status)
}

func TestService_Subscribe_ReactivatesExisting(t *testing.T) {
	ctx := context.Background()
	f := newBlogFixture()

	sub, err := blog.NewSubscriber("reader@example.com")
	require.NoError(t, err)
	sub.Unsubscribe()
	require.False(t, sub.Active())

	f.subscribers.On("FindByEmail", ctx, "reader@example.com").Return(sub, nil)
	f.subscribers.On("Save", ctx, sub).Return(nil)

	result, err := f.service.Subscribe(ctx, SubscribeInput{Email: "reader@example.com"})

	require.NoError(t, err)
	assert.True(t, result.Active())
}

func TestService_Subscribe_NewEmail(t *testing.T) {
	ctx := context.Background()
	f := newBlogFixture()

	f.subscribers.On("FindByEmail", ctx, "reader@example.com").Return(nil, shared.ErrNotFound)
	f.subscribers.On("Save", ctx, mock.Anything).Return(nil)

	result, err := f.service.Subscribe(ctx, SubscribeInput{Email: "reader@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", result.Email)
	assert.True(t, result.Active())
}

func TestService_Unsubscribe_UnknownEmailSucceeds(t *testing.T) {
	ctx := context.Background()
	f := newBlogFixture()

	f.subscribers.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.ErrNotFound)

	err := f.service.Unsubscribe(ctx, UnsubscribeInput{Email: "ghost@example.com"})

	require.NoError(t, err)
	f.subscribers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
