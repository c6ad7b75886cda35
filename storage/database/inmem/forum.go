package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/forum"
)

type forumRepository struct {
	db *DB
}

var _ forum.Repository = (*forumRepository)(nil)

func NewForumRepository(db *DB) *forumRepository {
	return &forumRepository{db: db}
}

func (repo *forumRepository) CreateForum(_ context.Context, frm forum.Forum) (forum.Forum, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	frm.ID = uuid.New().String()
	frm.Posts = nil
	repo.db.forums[frm.ID] = &frm

	frm.Posts = []forum.Post{}
	return frm, nil
}

func (repo *forumRepository) QueryForums(_ context.Context, ordering ...core.DBOrdering) ([]forum.Forum, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	forums := make([]forum.Forum, 0, len(repo.db.forums))
	for _, frm := range repo.db.forums {
		forums = append(forums, repo.loadPosts(*frm))
	}
	sortForums(forums, ordering)
	return forums, nil
}

func (repo *forumRepository) GetForumByID(_ context.Context, id string) (forum.Forum, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if frm, ok := repo.db.forums[id]; ok {
		return repo.loadPosts(*frm), nil
	}
	return forum.Forum{}, forum.ErrNotFound
}

func (repo *forumRepository) DeleteForum(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.forums[id]; !ok {
		return forum.ErrNotFound
	}
	delete(repo.db.forums, id)
	for pid, post := range repo.db.posts {
		if post.ForumID != id {
			continue
		}
		for rid, rep := range repo.db.replies {
			if rep.PostID == pid {
				delete(repo.db.replies, rid)
			}
		}
		delete(repo.db.posts, pid)
	}
	return nil
}

func (repo *forumRepository) AppendPost(_ context.Context, post forum.Post) (forum.Post, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.forums[post.ForumID]; !ok {
		return forum.Post{}, forum.ErrNotFound
	}
	post.ID = uuid.New().String()
	post.Replies = nil
	repo.db.posts[post.ID] = &post

	post.Replies = []forum.Reply{}
	return post, nil
}

func (repo *forumRepository) AppendReply(_ context.Context, forumID string, rep forum.Reply) (forum.Reply, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.forums[forumID]; !ok {
		return forum.Reply{}, forum.ErrNotFound
	}
	post, ok := repo.db.posts[rep.PostID]
	if !ok || post.ForumID != forumID {
		return forum.Reply{}, forum.ErrPostNotFound
	}
	rep.ID = uuid.New().String()
	repo.db.replies[rep.ID] = &rep
	return rep, nil
}

func (repo *forumRepository) QueryCourseStats(_ context.Context, courseID string) ([]forum.Stats, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	forums := make([]forum.Forum, 0)
	for _, frm := range repo.db.forums {
		if frm.CourseID == courseID {
			forums = append(forums, *frm)
		}
	}
	sortForums(forums, nil)

	stats := make([]forum.Stats, 0, len(forums))
	for _, frm := range forums {
		st := forum.Stats{ForumID: frm.ID, Title: frm.Title}
		for pid, post := range repo.db.posts {
			if post.ForumID != frm.ID {
				continue
			}
			st.TotalPosts++
			for _, rep := range repo.db.replies {
				if rep.PostID == pid {
					st.TotalReplies++
				}
			}
		}
		stats = append(stats, st)
	}
	return stats, nil
}

// loadPosts attaches the forum's posts and their replies in creation order.
// Callers must hold at least a read lock.
func (repo *forumRepository) loadPosts(frm forum.Forum) forum.Forum {
	posts := make([]forum.Post, 0)
	for _, post := range repo.db.posts {
		if post.ForumID != frm.ID {
			continue
		}
		p := *post
		p.Replies = make([]forum.Reply, 0)
		for _, rep := range repo.db.replies {
			if rep.PostID == p.ID {
				p.Replies = append(p.Replies, *rep)
			}
		}
		sort.Slice(p.Replies, func(i, j int) bool {
			if p.Replies[i].CreatedAt.Equal(p.Replies[j].CreatedAt) {
				return p.Replies[i].ID < p.Replies[j].ID
			}
			return p.Replies[i].CreatedAt.Before(p.Replies[j].CreatedAt)
		})
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID < posts[j].ID
		}
		return posts[i].CreatedAt.Before(posts[j].CreatedAt)
	})
	frm.Posts = posts
	return frm
}

func sortForums(forums []forum.Forum, ordering []core.DBOrdering) {
	less := func(i, j forum.Forum) bool {
		if i.CreatedAt.Equal(j.CreatedAt) {
			return i.ID < j.ID
		}
		return i.CreatedAt.Before(j.CreatedAt)
	}
	if len(ordering) > 0 {
		ord := ordering[0]
		switch ord.Field {
		case "title":
			less = func(i, j forum.Forum) bool { return (i.Title < j.Title) == ord.Ascending }
		case "created_at":
			less = func(i, j forum.Forum) bool { return i.CreatedAt.Before(j.CreatedAt) == ord.Ascending }
		}
	}
	sort.Slice(forums, func(i, j int) bool { return less(forums[i], forums[j]) })
}
