package e2e_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

// In-memory stores implementing the repository interfaces the services
// consume. They reproduce the constraints the schema enforces: unique
// usernames, emails, category and tag names, one vote per user and post.

type memUsers struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[int64]domain.User)}
}

func (s *memUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (s *memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memUsers) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Username == user.Username || existing.Email == user.Email {
			return nil, domain.ErrAlreadyExists
		}
	}
	s.seq++
	created := *user
	created.ID = s.seq
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.byID[created.ID] = created
	return &created, nil
}

func (s *memUsers) List(_ context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]domain.User, 0, len(s.byID))
	for _, u := range s.byID {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (s *memUsers) Update(_ context.Context, id int64, email, bio *string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if email != nil {
		u.Email = *email
	}
	if bio != nil {
		u.Bio = bio
	}
	u.UpdatedAt = time.Now()
	s.byID[id] = u
	return &u, nil
}

func (s *memUsers) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

type memSessions struct {
	mu     sync.Mutex
	byHash map[string]domain.Session
}

func newMemSessions() *memSessions {
	return &memSessions{byHash: make(map[string]domain.Session)}
}

func (s *memSessions) Create(_ context.Context, sess *domain.Session) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byHash[sess.TokenHash] = *sess
	created := *sess
	return &created, nil
}

func (s *memSessions) GetByTokenHash(_ context.Context, tokenHash string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byHash[tokenHash]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sess, nil
}

func (s *memSessions) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byHash, tokenHash)
	return nil
}

type memTags struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]domain.Tag
}

func newMemTags() *memTags {
	return &memTags{byID: make(map[int64]domain.Tag)}
}

func (s *memTags) GetByID(_ context.Context, id int64) (*domain.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (s *memTags) List(_ context.Context) ([]domain.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tags := make([]domain.Tag, 0, len(s.byID))
	for _, t := range s.byID {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

func (s *memTags) Create(_ context.Context, t *domain.Tag) (*domain.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Name == t.Name {
			return nil, domain.ErrAlreadyExists
		}
	}
	s.seq++
	created := domain.Tag{ID: s.seq, Name: t.Name}
	s.byID[created.ID] = created
	return &created, nil
}

func (s *memTags) Update(_ context.Context, id int64, name string) (*domain.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	t.Name = name
	s.byID[id] = t
	return &t, nil
}

func (s *memTags) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *memTags) EnsureByNames(_ context.Context, names []string) ([]domain.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tags := make([]domain.Tag, 0, len(names))
	for _, name := range names {
		var found *domain.Tag
		for _, existing := range s.byID {
			if existing.Name == name {
				existing := existing
				found = &existing
				break
			}
		}
		if found == nil {
			s.seq++
			created := domain.Tag{ID: s.seq, Name: name}
			s.byID[created.ID] = created
			found = &created
		}
		tags = append(tags, *found)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

type memVotes struct {
	mu     sync.Mutex
	values map[[2]int64]int // (userID, postID) -> value
}

func newMemVotes() *memVotes {
	return &memVotes{values: make(map[[2]int64]int)}
}

func (s *memVotes) Upsert(_ context.Context, v *domain.Vote) (*domain.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[[2]int64{v.UserID, v.PostID}] = v.Value
	stored := *v
	return &stored, nil
}

func (s *memVotes) Delete(_ context.Context, userID, postID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, [2]int64{userID, postID})
	return nil
}

func (s *memVotes) SumByPost(_ context.Context, postID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := 0
	for key, value := range s.values {
		if key[1] == postID {
			sum += value
		}
	}
	return sum, nil
}

type memPosts struct {
	mu       sync.Mutex
	seq      int64
	byID     map[int64]domain.Post
	bindings map[int64][]int64 // postID -> tagIDs
	tags     *memTags
	votes    *memVotes
}

func newMemPosts(tags *memTags, votes *memVotes) *memPosts {
	return &memPosts{
		byID:     make(map[int64]domain.Post),
		bindings: make(map[int64][]int64),
		tags:     tags,
		votes:    votes,
	}
}

func (s *memPosts) decorate(p domain.Post) domain.Post {
	tags := make([]domain.Tag, 0)
	for _, tagID := range s.bindings[p.ID] {
		if t, err := s.tags.GetByID(context.Background(), tagID); err == nil {
			tags = append(tags, *t)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	p.Tags = tags
	score, _ := s.votes.SumByPost(context.Background(), p.ID)
	p.Votes = score
	return p
}

func (s *memPosts) GetByID(_ context.Context, id int64) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	decorated := s.decorate(p)
	return &decorated, nil
}

func (s *memPosts) List(_ context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	posts := make([]domain.Post, 0)
	for _, id := range ids {
		p := s.byID[id]
		if filter.PublishedOnly && !p.Published {
			continue
		}
		if filter.AuthorID != 0 && p.AuthorID != filter.AuthorID {
			continue
		}
		if filter.CategoryID != 0 && (p.CategoryID == nil || *p.CategoryID != filter.CategoryID) {
			continue
		}
		if filter.TagID != 0 {
			bound := false
			for _, tagID := range s.bindings[p.ID] {
				if tagID == filter.TagID {
					bound = true
					break
				}
			}
			if !bound {
				continue
			}
		}
		posts = append(posts, s.decorate(p))
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(posts) {
			return []domain.Post{}, nil
		}
		posts = posts[filter.Offset:]
	}
	if filter.Limit > 0 && len(posts) > filter.Limit {
		posts = posts[:filter.Limit]
	}
	return posts, nil
}

func (s *memPosts) Create(_ context.Context, p *domain.Post) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	created := *p
	created.ID = s.seq
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.byID[created.ID] = created
	created.Tags = []domain.Tag{}
	return &created, nil
}

func (s *memPosts) Update(_ context.Context, id int64, title, content *string, categoryID *int64, published *bool) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if title != nil {
		p.Title = *title
	}
	if content != nil {
		p.Content = *content
	}
	if categoryID != nil {
		p.CategoryID = categoryID
	}
	if published != nil {
		p.Published = *published
	}
	p.UpdatedAt = time.Now()
	s.byID[id] = p
	decorated := s.decorate(p)
	return &decorated, nil
}

func (s *memPosts) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.byID, id)
	delete(s.bindings, id)
	return nil
}

func (s *memPosts) SetTags(_ context.Context, postID int64, tagIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(tagIDs) == 0 {
		delete(s.bindings, postID)
		return nil
	}
	s.bindings[postID] = append([]int64(nil), tagIDs...)
	return nil
}

type memComments struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]domain.Comment
}

func newMemComments() *memComments {
	return &memComments{byID: make(map[int64]domain.Comment)}
}

func (s *memComments) GetByID(_ context.Context, id int64) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (s *memComments) ListByPost(_ context.Context, postID int64) ([]domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comments := make([]domain.Comment, 0)
	for _, c := range s.byID {
		if c.PostID == postID {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (s *memComments) Create(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	created := *c
	created.ID = s.seq
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.byID[created.ID] = created
	return &created, nil
}

func (s *memComments) Update(_ context.Context, id int64, content string) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.Content = content
	c.UpdatedAt = time.Now()
	s.byID[id] = c
	return &c, nil
}

func (s *memComments) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

type memCategories struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]domain.Category
}

func newMemCategories() *memCategories {
	return &memCategories{byID: make(map[int64]domain.Category)}
}

func (s *memCategories) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (s *memCategories) List(_ context.Context) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	categories := make([]domain.Category, 0, len(s.byID))
	for _, c := range s.byID {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (s *memCategories) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Name == c.Name {
			return nil, domain.ErrAlreadyExists
		}
	}
	s.seq++
	created := *c
	created.ID = s.seq
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.byID[created.ID] = created
	return &created, nil
}

func (s *memCategories) Update(_ context.Context, id int64, name, description *string) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if name != nil {
		c.Name = *name
	}
	if description != nil {
		c.Description = description
	}
	c.UpdatedAt = time.Now()
	s.byID[id] = c
	return &c, nil
}

func (s *memCategories) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

type memFollows struct {
	mu    sync.Mutex
	edges map[[2]int64]struct{} // (followerID, followeeID)
	users *memUsers
}

func newMemFollows(users *memUsers) *memFollows {
	return &memFollows{edges: make(map[[2]int64]struct{}), users: users}
}

func (s *memFollows) Create(_ context.Context, followerID, followeeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges[[2]int64{followerID, followeeID}] = struct{}{}
	return nil
}

func (s *memFollows) Delete(_ context.Context, followerID, followeeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.edges, [2]int64{followerID, followeeID})
	return nil
}

func (s *memFollows) Followers(ctx context.Context, userID int64) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]domain.User, 0)
	for edge := range s.edges {
		if edge[1] == userID {
			if u, err := s.users.GetByID(ctx, edge[0]); err == nil {
				users = append(users, *u)
			}
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (s *memFollows) Following(ctx context.Context, userID int64) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]domain.User, 0)
	for edge := range s.edges {
		if edge[0] == userID {
			if u, err := s.users.GetByID(ctx, edge[1]); err == nil {
				users = append(users, *u)
			}
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

type memBlocklist struct {
	mu    sync.Mutex
	words map[string]struct{}
}

func newMemBlocklist(seed ...string) *memBlocklist {
	words := make(map[string]struct{}, len(seed))
	for _, w := range seed {
		words[strings.ToLower(w)] = struct{}{}
	}
	return &memBlocklist{words: words}
}

func (s *memBlocklist) ContainsAny(_ context.Context, words []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var hits []string
	for _, w := range words {
		if _, ok := s.words[w]; ok {
			hits = append(hits, w)
		}
	}
	return hits, nil
}

func (s *memBlocklist) Add(_ context.Context, words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range words {
		s.words[w] = struct{}{}
	}
	return nil
}

// cleanClassifier passes everything. Rejections in these tests come from the
// seeded blocklist, which exercises the short-circuit path.
type cleanClassifier struct{}

func (cleanClassifier) Classify(_ context.Context, _ string) (*domain.Verdict, error) {
	return &domain.Verdict{Inappropriate: false}, nil
}

func (cleanClassifier) Generate(_ context.Context, _ string) (string, error) {
	return "once upon a time", nil
}

// passthroughTx runs the function without a real transaction.
type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
