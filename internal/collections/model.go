package collections

import "fmt"

// Video is a collected YouTube video. VideoID is the identity key and never
// changes after creation; Title is overwritten on resync.
type Video struct {
	ID      uint   `gorm:"column:id;primaryKey" json:"id"`
	VideoID string `gorm:"column:video_id;size:20;not null;uniqueIndex" json:"video_id"`
	Title   string `gorm:"column:title;size:200;not null" json:"title"`
}

// TableName provides the explicit table binding for GORM.
func (Video) TableName() string {
	return "youtube_videos"
}

// WatchURL returns the canonical watch page for the video.
func (v Video) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + v.VideoID
}

// ThumbnailURL returns the high-quality thumbnail for the video.
func (v Video) ThumbnailURL() string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", v.VideoID)
}

// Post is a collected X/Twitter post. PostID and AuthorHandle are identity
// fields; Text and AuthorName are overwritten on resync.
type Post struct {
	ID           uint   `gorm:"column:id;primaryKey" json:"id"`
	PostID       string `gorm:"column:post_id;size:30;not null;uniqueIndex" json:"post_id"`
	Text         string `gorm:"column:text;size:500;not null" json:"text"`
	AuthorName   string `gorm:"column:author_name;size:100;not null" json:"author_name"`
	AuthorHandle string `gorm:"column:author_handle;size:50;not null" json:"author_handle"`
}

// TableName provides the explicit table binding for GORM.
func (Post) TableName() string {
	return "twitter_posts"
}

// PostURL returns the canonical x.com URL for the post.
func (p Post) PostURL() string {
	return fmt.Sprintf("https://x.com/%s/status/%s", p.AuthorHandle, p.PostID)
}

// EmbedURL returns the URL format required for Twitter embed widgets.
func (p Post) EmbedURL() string {
	return fmt.Sprintf("https://twitter.com/%s/status/%s?ref_src=twsrc%%5Etfw", p.AuthorHandle, p.PostID)
}

// Paper is a collected arXiv paper. ArxivID is the identity key; Title,
// Summary, and Authors are overwritten on resync.
type Paper struct {
	ID      uint   `gorm:"column:id;primaryKey" json:"id"`
	ArxivID string `gorm:"column:arxiv_id;size:50;not null;uniqueIndex" json:"arxiv_id"`
	Title   string `gorm:"column:title;size:300;not null" json:"title"`
	Summary string `gorm:"column:summary;type:text" json:"summary"`
	Authors string `gorm:"column:authors;size:300" json:"authors"`
}

// TableName provides the explicit table binding for GORM.
func (Paper) TableName() string {
	return "arxiv_papers"
}

// AbsURL returns the abstract page for the paper.
func (p Paper) AbsURL() string {
	return "https://arxiv.org/abs/" + p.ArxivID
}

// Repo is a collected GitHub repository. FullName is the identity key,
// unique case-insensitively (COLLATE NOCASE); the enrichment fields are
// overwritten on resync.
type Repo struct {
	ID          uint   `gorm:"column:id;primaryKey" json:"id"`
	FullName    string `gorm:"column:full_name;type:TEXT COLLATE NOCASE;not null;uniqueIndex" json:"full_name"`
	Description string `gorm:"column:description;size:500" json:"description"`
	Stars       int    `gorm:"column:stars;not null;default:0" json:"stars"`
	Language    string `gorm:"column:language;size:50" json:"language"`
	Homepage    string `gorm:"column:homepage;size:512" json:"homepage"`
}

// TableName provides the explicit table binding for GORM.
func (Repo) TableName() string {
	return "github_repos"
}

// RepoURL returns the repository page.
func (r Repo) RepoURL() string {
	return "https://github.com/" + r.FullName
}

// ChangeRecord is the append-only audit trail for completed add, delete,
// and resync operations.
type ChangeRecord struct {
	ChangeID         string `gorm:"column:change_id;primaryKey;size:190;not null"`
	Kind             string `gorm:"column:kind;size:20;not null;index:idx_changes_kind_time,priority:1"`
	NaturalKey       string `gorm:"column:natural_key;size:190;not null"`
	Operation        string `gorm:"column:op;size:20;not null"`
	NoticeLevel      string `gorm:"column:notice_level;size:20;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null;index:idx_changes_kind_time,priority:2"`
}

// TableName provides the explicit table binding for GORM.
func (ChangeRecord) TableName() string {
	return "collection_changes"
}
