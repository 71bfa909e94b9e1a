package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/wrose11/StadsSurr-prod/models"
)

func TestProjectVoteToggle(t *testing.T) {
	r, db := newTestServer(t)
	token, userID := registerUser(t, r, "Ida", "ida@example.com")
	project := createProject(t, db, "Slussen ombyggnad", 0)

	vote := func(voteType string) (int, string) {
		w := doJSON(t, r, http.MethodPost, "/api/votes", token, gin.H{
			"project_id": project.ID,
			"vote_type":  voteType,
		})
		var data struct {
			Action string `json:"action"`
		}
		if w.Code == http.StatusOK {
			decodeData(t, w, &data)
		}
		return w.Code, data.Action
	}
	rowCount := func() int64 {
		var n int64
		db.Model(&models.Vote{}).Where("project_id = ? AND user_id = ?", project.ID, userID).Count(&n)
		return n
	}

	if code, action := vote("upvote"); code != http.StatusOK || action != "created" {
		t.Fatalf("first upvote: got %d/%q, want 200/created", code, action)
	}
	if n := rowCount(); n != 1 {
		t.Fatalf("after create: %d vote rows, want 1", n)
	}

	// Same type toggles the vote off.
	if code, action := vote("upvote"); code != http.StatusOK || action != "removed" {
		t.Fatalf("repeat upvote: got %d/%q, want 200/removed", code, action)
	}
	if n := rowCount(); n != 0 {
		t.Fatalf("after toggle-off: %d vote rows, want 0", n)
	}

	// A third identical call re-creates it.
	if code, action := vote("upvote"); code != http.StatusOK || action != "created" {
		t.Fatalf("third upvote: got %d/%q, want 200/created", code, action)
	}

	// A different type overwrites in place, never adds a row.
	if code, action := vote("downvote"); code != http.StatusOK || action != "changed" {
		t.Fatalf("downvote after upvote: got %d/%q, want 200/changed", code, action)
	}
	if n := rowCount(); n != 1 {
		t.Fatalf("after change: %d vote rows, want 1", n)
	}

	var stored models.Vote
	if err := db.Where("project_id = ? AND user_id = ?", project.ID, userID).First(&stored).Error; err != nil {
		t.Fatalf("load stored vote: %v", err)
	}
	if stored.VoteType != models.VoteTypeDown {
		t.Fatalf("stored vote type %q, want downvote", stored.VoteType)
	}
}

func TestProjectVoteValidation(t *testing.T) {
	r, db := newTestServer(t)
	token, _ := registerUser(t, r, "Jon", "jon@example.com")
	project := createProject(t, db, "Norra länken", 0)

	w := doJSON(t, r, http.MethodPost, "/api/votes", token, gin.H{
		"project_id": project.ID,
		"vote_type":  "sidevote",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid vote type: got status %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/votes", token, gin.H{
		"project_id": project.ID + 999,
		"vote_type":  "upvote",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("vote on missing project: got status %d, want 404", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/votes", "", gin.H{
		"project_id": project.ID,
		"vote_type":  "upvote",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous vote: got status %d, want 401", w.Code)
	}
}

func TestProjectCountsComeFromLedger(t *testing.T) {
	r, db := newTestServer(t)
	tokenA, _ := registerUser(t, r, "Karin", "karin@example.com")
	tokenB, _ := registerUser(t, r, "Lars", "lars@example.com")
	// Seeded counters must never leak into live counts.
	project := createProject(t, db, "Västra City", 500)

	doJSON(t, r, http.MethodPost, "/api/votes", tokenA, gin.H{"project_id": project.ID, "vote_type": "upvote"})
	doJSON(t, r, http.MethodPost, "/api/votes", tokenB, gin.H{"project_id": project.ID, "vote_type": "downvote"})

	w := doJSON(t, r, http.MethodGet, "/api/projects/"+itoa(project.ID), tokenA, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get project: got status %d", w.Code)
	}
	var view struct {
		Upvotes   int64  `json:"upvotes"`
		Downvotes int64  `json:"downvotes"`
		UserVote  string `json:"user_vote"`
	}
	decodeData(t, w, &view)
	if view.Upvotes != 1 || view.Downvotes != 1 {
		t.Fatalf("live counts: got %d/%d, want 1/1", view.Upvotes, view.Downvotes)
	}
	if view.UserVote != "upvote" {
		t.Fatalf("caller's own vote: got %q, want upvote", view.UserVote)
	}
}

func TestPostVoteToggle(t *testing.T) {
	r, _ := newTestServer(t)
	tokenA, _ := registerUser(t, r, "Maja", "maja@example.com")
	tokenB, _ := registerUser(t, r, "Nils", "nils@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/posts", tokenA, gin.H{
		"title":   "Ny cykelbana",
		"content": "Förslag på cykelbana längs kajen",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create post: got status %d, body %s", w.Code, w.Body.String())
	}
	var post struct {
		ID uint `json:"id"`
	}
	decodeData(t, w, &post)

	votePath := "/api/posts/" + itoa(post.ID) + "/vote"
	w = doJSON(t, r, http.MethodPost, votePath, tokenB, gin.H{"vote_type": "upvote"})
	if w.Code != http.StatusOK {
		t.Fatalf("post vote: got status %d", w.Code)
	}
	var action struct {
		Action string `json:"action"`
	}
	decodeData(t, w, &action)
	if action.Action != "created" {
		t.Fatalf("post vote action: got %q, want created", action.Action)
	}

	w = doJSON(t, r, http.MethodPost, votePath, tokenB, gin.H{"vote_type": "downvote"})
	decodeData(t, w, &action)
	if action.Action != "changed" {
		t.Fatalf("post vote overwrite: got %q, want changed", action.Action)
	}
}

func TestCommentLikeToggleAndSelfLike(t *testing.T) {
	r, db := newTestServer(t)
	tokenA, _ := registerUser(t, r, "Oskar", "oskar@example.com")
	tokenB, _ := registerUser(t, r, "Petra", "petra@example.com")
	project := createProject(t, db, "Hagastaden etapp 3", 0)

	w := doJSON(t, r, http.MethodPost, "/api/comments", tokenA, gin.H{
		"project_id": project.ID,
		"content":    "Det här behövs verkligen",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create comment: got status %d, body %s", w.Code, w.Body.String())
	}
	var comment struct {
		ID uint `json:"id"`
	}
	decodeData(t, w, &comment)

	likePath := "/api/comments/" + itoa(comment.ID) + "/like"

	// Authors cannot like their own comments.
	if w := doJSON(t, r, http.MethodPost, likePath, tokenA, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("self-like: got status %d, want 400", w.Code)
	}

	var state struct {
		Liked bool  `json:"liked"`
		Likes int64 `json:"likes"`
	}
	w = doJSON(t, r, http.MethodPost, likePath, tokenB, nil)
	decodeData(t, w, &state)
	if !state.Liked || state.Likes != 1 {
		t.Fatalf("like: got liked=%v likes=%d, want true/1", state.Liked, state.Likes)
	}

	w = doJSON(t, r, http.MethodPost, likePath, tokenB, nil)
	decodeData(t, w, &state)
	if state.Liked || state.Likes != 0 {
		t.Fatalf("unlike: got liked=%v likes=%d, want false/0", state.Liked, state.Likes)
	}
}

func TestFollowGraphRules(t *testing.T) {
	r, _ := newTestServer(t)
	tokenA, idA := registerUser(t, r, "Rut", "rut@example.com")
	_, idB := registerUser(t, r, "Sven", "sven@example.com")

	followPath := "/api/users/" + itoa(idB) + "/follow"

	if w := doJSON(t, r, http.MethodPost, followPath, tokenA, nil); w.Code != http.StatusOK {
		t.Fatalf("follow: got status %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, followPath, tokenA, nil); w.Code != http.StatusConflict {
		t.Fatalf("duplicate follow: got status %d, want 409", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/api/users/"+itoa(idA)+"/follow", tokenA, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("self-follow: got status %d, want 400", w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/users/"+itoa(idB)+"/is-following", tokenA, nil)
	var check struct {
		IsFollowing bool `json:"is_following"`
	}
	decodeData(t, w, &check)
	if !check.IsFollowing {
		t.Fatal("is-following after follow: got false, want true")
	}

	if w := doJSON(t, r, http.MethodDelete, followPath, tokenA, nil); w.Code != http.StatusOK {
		t.Fatalf("unfollow: got status %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, followPath, tokenA, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("unfollow absent edge: got status %d, want 400", w.Code)
	}
}
