package collections

import (
	"context"
	"strconv"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/mindtreelog/collectibles/internal/metadata"
)

type fakeVideoFetcher struct {
	title string
	err   error
	calls int
}

func (f *fakeVideoFetcher) VideoTitle(ctx context.Context, videoID string) (string, error) {
	f.calls++
	return f.title, f.err
}

type fakePostFetcher struct {
	info  metadata.PostMetadata
	err   error
	calls int
}

func (f *fakePostFetcher) PostInfo(ctx context.Context, postID, authorHandle string) (metadata.PostMetadata, error) {
	f.calls++
	return f.info, f.err
}

type fakePaperFetcher struct {
	info  metadata.PaperMetadata
	err   error
	calls int
}

func (f *fakePaperFetcher) PaperInfo(ctx context.Context, arxivID string) (metadata.PaperMetadata, error) {
	f.calls++
	return f.info, f.err
}

type fakeRepoFetcher struct {
	info  metadata.RepoMetadata
	err   error
	calls int
}

func (f *fakeRepoFetcher) RepoInfo(ctx context.Context, owner, repo string) (metadata.RepoMetadata, error) {
	f.calls++
	return f.info, f.err
}

type testFetchers struct {
	videos *fakeVideoFetcher
	posts  *fakePostFetcher
	papers *fakePaperFetcher
	repos  *fakeRepoFetcher
}

type sequentialIDGenerator struct {
	next int
}

func (g *sequentialIDGenerator) NewID() (string, error) {
	g.next++
	return "change-" + strconv.Itoa(g.next), nil
}

func newTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&Video{}, &Post{}, &Paper{}, &Repo{}, &ChangeRecord{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *testFetchers) {
	t.Helper()
	db := newTestDatabase(t)
	fetchers := &testFetchers{
		videos: &fakeVideoFetcher{title: "Test Video"},
		posts:  &fakePostFetcher{info: metadata.PostMetadata{Text: "hello", AuthorName: "Some One"}},
		papers: &fakePaperFetcher{info: metadata.PaperMetadata{Title: "Test Paper", Summary: "summary", Authors: "A, B"}},
		repos:  &fakeRepoFetcher{info: metadata.RepoMetadata{FullName: "owner/repo", Description: "desc", Stars: 7, Language: "Go"}},
	}
	service, err := NewService(ServiceConfig{
		Database:   db,
		Videos:     fetchers.videos,
		Posts:      fetchers.posts,
		Papers:     fetchers.papers,
		Repos:      fetchers.repos,
		Clock:      func() time.Time { return time.Unix(1700000000, 0) },
		IDProvider: &sequentialIDGenerator{},
	})
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}
	return service, db, fetchers
}
