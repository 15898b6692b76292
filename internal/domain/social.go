package domain

import "time"

// Vote values. A user has at most one vote per post.
const (
	VoteUp   = 1
	VoteDown = -1
)

// Vote is one user's vote on one post.
type Vote struct {
	UserID    int64
	PostID    int64
	Value     int
	CreatedAt time.Time
}

// Follow is a directed follower → followee edge. Self-follows are rejected
// at the service layer; the pair is unique.
type Follow struct {
	FollowerID int64
	FolloweeID int64
	CreatedAt  time.Time
}
