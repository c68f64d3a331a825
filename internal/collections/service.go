package collections

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mindtreelog/collectibles/internal/metadata"
	"github.com/mindtreelog/collectibles/internal/refparse"
)

var (
	errMissingDatabase   = errors.New("database handle is required")
	errMissingFetcher    = errors.New("metadata fetcher is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()
)

// ServiceError is a coded error surfaced to operators; the code carries the
// operation and failure reason in dotted form.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Code() string {
	return e.code
}

const (
	opServiceNew = "collections.service.new"
	opAdd        = "collections.add"
	opDelete     = "collections.delete"
	opResync     = "collections.resync"
	opList       = "collections.list"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

// OperationType enumerates the audited operations.
type OperationType string

const (
	// OperationAdd records a created item.
	OperationAdd OperationType = "add"
	// OperationDelete records a removed item.
	OperationDelete OperationType = "delete"
	// OperationResync records a refreshed item.
	OperationResync OperationType = "resync"
)

// VideoFetcher fetches YouTube video metadata.
type VideoFetcher interface {
	VideoTitle(ctx context.Context, videoID string) (string, error)
}

// PostFetcher fetches X/Twitter post metadata.
type PostFetcher interface {
	PostInfo(ctx context.Context, postID, authorHandle string) (metadata.PostMetadata, error)
}

// PaperFetcher fetches arXiv paper metadata.
type PaperFetcher interface {
	PaperInfo(ctx context.Context, arxivID string) (metadata.PaperMetadata, error)
}

// RepoFetcher fetches GitHub repository metadata.
type RepoFetcher interface {
	RepoInfo(ctx context.Context, owner, repo string) (metadata.RepoMetadata, error)
}

// IDProvider issues identifiers for audit change records.
type IDProvider interface {
	NewID() (string, error)
}

// ServiceConfig describes the dependencies of the reconciliation service.
type ServiceConfig struct {
	Database   *gorm.DB
	Videos     VideoFetcher
	Posts      PostFetcher
	Papers     PaperFetcher
	Repos      RepoFetcher
	Clock      func() time.Time
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Service reconciles user references against the record store and the
// upstream metadata sources. It holds no state of its own beyond what it
// reads and writes through the store.
type Service struct {
	db         *gorm.DB
	videos     VideoFetcher
	posts      PostFetcher
	papers     PaperFetcher
	repos      RepoFetcher
	clock      func() time.Time
	idProvider IDProvider
	logger     *zap.Logger
}

// placeholderOnFetchFailure is the per-kind fallback policy: only twitter
// posts are persisted with placeholder data when the initial fetch fails.
// The asymmetry is carried deliberately; unifying it would change observed
// behavior.
var placeholderOnFetchFailure = map[Kind]bool{
	KindYouTube: false,
	KindTwitter: true,
	KindArxiv:   false,
	KindGitHub:  false,
}

// NewService constructs the reconciliation service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opServiceNew, "missing_database", errMissingDatabase)
	}
	if cfg.Videos == nil || cfg.Posts == nil || cfg.Papers == nil || cfg.Repos == nil {
		return nil, newServiceError(opServiceNew, "missing_fetcher", errMissingFetcher)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Service{
		db:         cfg.Database,
		videos:     cfg.Videos,
		posts:      cfg.Posts,
		papers:     cfg.Papers,
		repos:      cfg.Repos,
		clock:      clock,
		idProvider: cfg.IDProvider,
		logger:     logger,
	}, nil
}

// Add parses the raw reference, rejects duplicates, fetches metadata, and
// persists the record. The returned error is reserved for store failures;
// user-level failures (bad input, duplicate, fetch miss) come back as
// outcomes.
func (s *Service) Add(ctx context.Context, kind Kind, rawInput string) (Outcome, error) {
	switch kind {
	case KindYouTube:
		return s.addVideo(ctx, rawInput)
	case KindTwitter:
		return s.addPost(ctx, rawInput)
	case KindArxiv:
		return s.addPaper(ctx, rawInput)
	case KindGitHub:
		return s.addRepo(ctx, rawInput)
	default:
		return Outcome{}, newServiceError(opAdd, "unknown_kind", fmt.Errorf("%w: %q", ErrUnknownKind, kind))
	}
}

func (s *Service) addVideo(ctx context.Context, rawInput string) (Outcome, error) {
	videoID, err := refparse.Video(rawInput)
	if err != nil {
		return errorOutcome("Invalid YouTube URL"), nil
	}

	exists, err := s.exists(ctx, &Video{}, "video_id = ?", videoID)
	if err != nil {
		return Outcome{}, newServiceError(opAdd, "uniqueness_check_failed", err)
	}
	if exists {
		return warningOutcome("This video is already in your list"), nil
	}

	title, err := s.videos.VideoTitle(ctx, videoID)
	if err != nil {
		s.logFetchFailure(opAdd, KindYouTube, videoID, err)
		return errorOutcome("Could not fetch video information"), nil
	}

	record := Video{VideoID: videoID, Title: title}
	if err := s.createWithAudit(ctx, KindYouTube, videoID, NoticeSuccess, &record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return warningOutcome("This video is already in your list"), nil
		}
		return Outcome{}, newServiceError(opAdd, "create_failed", err)
	}

	return successOutcome("Added: " + title), nil
}

func (s *Service) addPost(ctx context.Context, rawInput string) (Outcome, error) {
	ref, err := refparse.SocialPost(rawInput)
	if err != nil {
		return errorOutcome("Invalid Twitter/X URL"), nil
	}

	exists, err := s.exists(ctx, &Post{}, "post_id = ?", ref.PostID)
	if err != nil {
		return Outcome{}, newServiceError(opAdd, "uniqueness_check_failed", err)
	}
	if exists {
		return warningOutcome("This post is already in your list"), nil
	}

	record := Post{PostID: ref.PostID, AuthorHandle: ref.Handle}
	outcome := successOutcome("Added post from @" + ref.Handle)
	info, fetchErr := s.posts.PostInfo(ctx, ref.PostID, ref.Handle)
	if fetchErr != nil {
		s.logFetchFailure(opAdd, KindTwitter, ref.PostID, fetchErr)
		if !placeholderOnFetchFailure[KindTwitter] {
			return errorOutcome("Could not fetch post information"), nil
		}
		record.Text = placeholderPostText(ref.PostID)
		record.AuthorName = ref.Handle
		outcome = warningOutcome(fmt.Sprintf(
			"Added post from @%s (info fetch failed - post saved with placeholder)", ref.Handle))
	} else {
		record.Text = info.Text
		record.AuthorName = info.AuthorName
	}

	if err := s.createWithAudit(ctx, KindTwitter, ref.PostID, outcome.Level, &record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return warningOutcome("This post is already in your list"), nil
		}
		return Outcome{}, newServiceError(opAdd, "create_failed", err)
	}

	return outcome, nil
}

func (s *Service) addPaper(ctx context.Context, rawInput string) (Outcome, error) {
	arxivID, err := refparse.Preprint(rawInput)
	if err != nil {
		return errorOutcome("Invalid arXiv ID or URL"), nil
	}

	exists, err := s.exists(ctx, &Paper{}, "arxiv_id = ?", arxivID)
	if err != nil {
		return Outcome{}, newServiceError(opAdd, "uniqueness_check_failed", err)
	}
	if exists {
		return warningOutcome("This paper is already in your list"), nil
	}

	info, err := s.papers.PaperInfo(ctx, arxivID)
	if err != nil {
		s.logFetchFailure(opAdd, KindArxiv, arxivID, err)
		return errorOutcome("Could not fetch paper information"), nil
	}

	record := Paper{ArxivID: arxivID, Title: info.Title, Summary: info.Summary, Authors: info.Authors}
	if err := s.createWithAudit(ctx, KindArxiv, arxivID, NoticeSuccess, &record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return warningOutcome("This paper is already in your list"), nil
		}
		return Outcome{}, newServiceError(opAdd, "create_failed", err)
	}

	return successOutcome("Added: " + info.Title), nil
}

func (s *Service) addRepo(ctx context.Context, rawInput string) (Outcome, error) {
	ref, err := refparse.Repo(rawInput)
	if err != nil {
		return errorOutcome("Invalid GitHub repository URL"), nil
	}

	// full_name carries COLLATE NOCASE, so equality here is case-insensitive.
	exists, err := s.exists(ctx, &Repo{}, "full_name = ?", ref.FullName())
	if err != nil {
		return Outcome{}, newServiceError(opAdd, "uniqueness_check_failed", err)
	}
	if exists {
		return warningOutcome("This repository is already in your list"), nil
	}

	info, err := s.repos.RepoInfo(ctx, ref.Owner, ref.Name)
	if err != nil {
		s.logFetchFailure(opAdd, KindGitHub, ref.FullName(), err)
		return errorOutcome("Could not fetch repository information"), nil
	}

	record := Repo{
		FullName:    info.FullName,
		Description: info.Description,
		Stars:       clampStars(info.Stars),
		Language:    info.Language,
		Homepage:    info.Homepage,
	}
	if err := s.createWithAudit(ctx, KindGitHub, info.FullName, NoticeSuccess, &record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return warningOutcome("This repository is already in your list"), nil
		}
		return Outcome{}, newServiceError(opAdd, "create_failed", err)
	}

	return successOutcome("Added: " + info.FullName), nil
}

// Delete removes the record with the given row id. A missing record is a
// user-level not-found outcome, not an error.
func (s *Service) Delete(ctx context.Context, kind Kind, recordID uint) (Outcome, error) {
	switch kind {
	case KindYouTube:
		var record Video
		found, err := s.lookup(ctx, &record, recordID)
		if err != nil {
			return Outcome{}, newServiceError(opDelete, "lookup_failed", err)
		}
		if !found {
			return errorOutcome("Video not found"), nil
		}
		if err := s.deleteWithAudit(ctx, kind, record.VideoID, &record); err != nil {
			return Outcome{}, newServiceError(opDelete, "delete_failed", err)
		}
		return successOutcome("Deleted: " + record.Title), nil

	case KindTwitter:
		var record Post
		found, err := s.lookup(ctx, &record, recordID)
		if err != nil {
			return Outcome{}, newServiceError(opDelete, "lookup_failed", err)
		}
		if !found {
			return errorOutcome("Post not found"), nil
		}
		if err := s.deleteWithAudit(ctx, kind, record.PostID, &record); err != nil {
			return Outcome{}, newServiceError(opDelete, "delete_failed", err)
		}
		return successOutcome("Deleted post from @" + record.AuthorHandle), nil

	case KindArxiv:
		var record Paper
		found, err := s.lookup(ctx, &record, recordID)
		if err != nil {
			return Outcome{}, newServiceError(opDelete, "lookup_failed", err)
		}
		if !found {
			return errorOutcome("Paper not found"), nil
		}
		if err := s.deleteWithAudit(ctx, kind, record.ArxivID, &record); err != nil {
			return Outcome{}, newServiceError(opDelete, "delete_failed", err)
		}
		return successOutcome("Deleted: " + record.Title), nil

	case KindGitHub:
		var record Repo
		found, err := s.lookup(ctx, &record, recordID)
		if err != nil {
			return Outcome{}, newServiceError(opDelete, "lookup_failed", err)
		}
		if !found {
			return errorOutcome("Repository not found"), nil
		}
		if err := s.deleteWithAudit(ctx, kind, record.FullName, &record); err != nil {
			return Outcome{}, newServiceError(opDelete, "delete_failed", err)
		}
		return successOutcome("Deleted: " + record.FullName), nil

	default:
		return Outcome{}, newServiceError(opDelete, "unknown_kind", fmt.Errorf("%w: %q", ErrUnknownKind, kind))
	}
}

// Resync re-fetches enrichment fields for an existing record. The identity
// key never changes, and a failed fetch leaves the record untouched.
func (s *Service) Resync(ctx context.Context, kind Kind, recordID uint) (Outcome, error) {
	switch kind {
	case KindYouTube:
		var record Video
		found, err := s.lookup(ctx, &record, recordID)
		if err != nil {
			return Outcome{}, newServiceError(opResync, "lookup_failed", err)
		}
		if !found {
			return errorOutcome("Video not found"), nil
		}
		title, err := s.videos.VideoTitle(ctx, record.VideoID)
		if err != nil {
			s.logFetchFailure(opResync, kind, record.VideoID, err)
			return errorOutcome("Could not fetch updated video information"), nil
		}
		updates := map[string]any{"title": title}
		if err := s.updateWithAudit(ctx, kind, record.VideoID, &record, updates); err != nil {
			return Outcome{}, newServiceError(opResync, "update_failed", err)
		}
		return successOutcome("Resynced: " + title), nil

	case KindTwitter:
		var record Post
		found, err := s.lookup(ctx, &record, recordID)
		if err != nil {
			return Outcome{}, newServiceError(opResync, "lookup_failed", err)
		}
		if !found {
			return errorOutcome("Post not found"), nil
		}
		info, err := s.posts.PostInfo(ctx, record.PostID, record.AuthorHandle)
		if err != nil {
			s.logFetchFailure(opResync, kind, record.PostID, err)
			return errorOutcome("Could not resync post from @" + record.AuthorHandle), nil
		}
		updates := map[string]any{"text": info.Text, "author_name": info.AuthorName}
		if err := s.updateWithAudit(ctx, kind, record.PostID, &record, updates); err != nil {
			return Outcome{}, newServiceError(opResync, "update_failed", err)
		}
		return successOutcome("Resynced post from @" + record.AuthorHandle), nil

	case KindArxiv:
		var record Paper
		found, err := s.lookup(ctx, &record, recordID)
		if err != nil {
			return Outcome{}, newServiceError(opResync, "lookup_failed", err)
		}
		if !found {
			return errorOutcome("Paper not found"), nil
		}
		info, err := s.papers.PaperInfo(ctx, record.ArxivID)
		if err != nil {
			s.logFetchFailure(opResync, kind, record.ArxivID, err)
			return errorOutcome("Could not fetch updated paper information"), nil
		}
		updates := map[string]any{"title": info.Title, "summary": info.Summary, "authors": info.Authors}
		if err := s.updateWithAudit(ctx, kind, record.ArxivID, &record, updates); err != nil {
			return Outcome{}, newServiceError(opResync, "update_failed", err)
		}
		return successOutcome("Resynced: " + info.Title), nil

	case KindGitHub:
		var record Repo
		found, err := s.lookup(ctx, &record, recordID)
		if err != nil {
			return Outcome{}, newServiceError(opResync, "lookup_failed", err)
		}
		if !found {
			return errorOutcome("Repository not found"), nil
		}
		owner, name, ok := splitFullName(record.FullName)
		if !ok {
			return Outcome{}, newServiceError(opResync, "malformed_full_name", fmt.Errorf("stored full name %q", record.FullName))
		}
		info, err := s.repos.RepoInfo(ctx, owner, name)
		if err != nil {
			s.logFetchFailure(opResync, kind, record.FullName, err)
			return errorOutcome("Could not fetch updated repository information"), nil
		}
		// full_name is identity and stays as stored even if the platform
		// reports different casing.
		updates := map[string]any{
			"description": info.Description,
			"stars":       clampStars(info.Stars),
			"language":    info.Language,
			"homepage":    info.Homepage,
		}
		if err := s.updateWithAudit(ctx, kind, record.FullName, &record, updates); err != nil {
			return Outcome{}, newServiceError(opResync, "update_failed", err)
		}
		return successOutcome("Resynced: " + record.FullName), nil

	default:
		return Outcome{}, newServiceError(opResync, "unknown_kind", fmt.Errorf("%w: %q", ErrUnknownKind, kind))
	}
}

// ListVideos returns all videos, newest first.
func (s *Service) ListVideos(ctx context.Context) ([]Video, error) {
	records := make([]Video, 0)
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&records).Error; err != nil {
		return nil, newServiceError(opList, "query_failed", err)
	}
	return records, nil
}

// ListPosts returns all posts, newest first.
func (s *Service) ListPosts(ctx context.Context) ([]Post, error) {
	records := make([]Post, 0)
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&records).Error; err != nil {
		return nil, newServiceError(opList, "query_failed", err)
	}
	return records, nil
}

// ListPapers returns all papers, newest first.
func (s *Service) ListPapers(ctx context.Context) ([]Paper, error) {
	records := make([]Paper, 0)
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&records).Error; err != nil {
		return nil, newServiceError(opList, "query_failed", err)
	}
	return records, nil
}

// ListRepos returns all repositories, newest first.
func (s *Service) ListRepos(ctx context.Context) ([]Repo, error) {
	records := make([]Repo, 0)
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&records).Error; err != nil {
		return nil, newServiceError(opList, "query_failed", err)
	}
	return records, nil
}

func (s *Service) exists(ctx context.Context, model any, query string, args ...any) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Service) lookup(ctx context.Context, record any, recordID uint) (bool, error) {
	err := s.db.WithContext(ctx).Where("id = ?", recordID).Take(record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// createWithAudit persists a new record and its change record in one
// transaction. A uniqueness violation surfaces as gorm.ErrDuplicatedKey so
// callers can report the check-then-insert race as an ordinary duplicate.
func (s *Service) createWithAudit(ctx context.Context, kind Kind, naturalKey string, level NoticeLevel, record any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		return s.appendChange(tx, kind, naturalKey, OperationAdd, level)
	})
}

func (s *Service) deleteWithAudit(ctx context.Context, kind Kind, naturalKey string, record any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(record).Error; err != nil {
			return err
		}
		return s.appendChange(tx, kind, naturalKey, OperationDelete, NoticeSuccess)
	})
}

func (s *Service) updateWithAudit(ctx context.Context, kind Kind, naturalKey string, record any, updates map[string]any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(record).Updates(updates).Error; err != nil {
			return err
		}
		return s.appendChange(tx, kind, naturalKey, OperationResync, NoticeSuccess)
	})
}

func (s *Service) appendChange(tx *gorm.DB, kind Kind, naturalKey string, op OperationType, level NoticeLevel) error {
	changeID, err := s.idProvider.NewID()
	if err != nil {
		return err
	}
	return tx.Create(&ChangeRecord{
		ChangeID:         changeID,
		Kind:             kind.String(),
		NaturalKey:       naturalKey,
		Operation:        string(op),
		NoticeLevel:      string(level),
		AppliedAtSeconds: s.clock().UTC().Unix(),
	}).Error
}

func (s *Service) logFetchFailure(operation string, kind Kind, naturalKey string, err error) {
	s.logger.Warn("metadata fetch failed",
		zap.String("operation", operation),
		zap.String("kind", kind.String()),
		zap.String("key", naturalKey),
		zap.Error(err))
}

// placeholderPostText is the stored text for a post whose fetch failed.
func placeholderPostText(postID string) string {
	prefix := postID
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return "Post " + prefix + "..."
}

func clampStars(stars int) int {
	if stars < 0 {
		return 0
	}
	return stars
}

func splitFullName(fullName string) (owner, name string, ok bool) {
	for i := 0; i < len(fullName); i++ {
		if fullName[i] == '/' {
			owner, name = fullName[:i], fullName[i+1:]
			return owner, name, owner != "" && name != ""
		}
	}
	return "", "", false
}
