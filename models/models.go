package models

// All returns every entity in migration-safe order (parents before children),
// for AutoMigrate at boot and for per-test in-memory stores.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Project{},
		&Comment{},
		&CommentLike{},
		&Vote{},
		&Consultation{},
		&Post{},
		&PostComment{},
		&PostCommentLike{},
		&PostVote{},
		&NewsArticle{},
		&UserFollow{},
	}
}
