package model

import (
	"fmt"
	"strings"
	"time"
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusPaused    ProjectStatus = "paused"
)

// ProjectStatuses lists the closed set of project statuses in display order.
func ProjectStatuses() []ProjectStatus {
	return []ProjectStatus{ProjectStatusActive, ProjectStatusPaused, ProjectStatusCompleted}
}

func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch ProjectStatus(strings.ToLower(strings.TrimSpace(s))) {
	case ProjectStatusActive:
		return ProjectStatusActive, nil
	case ProjectStatusCompleted:
		return ProjectStatusCompleted, nil
	case ProjectStatusPaused:
		return ProjectStatusPaused, nil
	default:
		return "", fmt.Errorf("invalid project status: %q (expected active|completed|paused)", s)
	}
}

type Project struct {
	ID          int           `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Status      ProjectStatus `json:"status,omitempty" yaml:"status,omitempty"`
	ImageCount  int           `json:"imageCount" yaml:"imageCount"`
	Description *string       `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   *time.Time    `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt   *time.Time    `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// DisplayStatus returns the project status, treating a missing status as active.
func (p Project) DisplayStatus() ProjectStatus {
	if p.Status == "" {
		return ProjectStatusActive
	}
	return p.Status
}

func (p Project) DescriptionText() string {
	if p.Description == nil {
		return ""
	}
	return strings.TrimSpace(*p.Description)
}

type ProjectCreate struct {
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Status      ProjectStatus `json:"status,omitempty"`
}

type ProjectUpdate struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Status      *ProjectStatus `json:"status,omitempty"`
}

type Tag struct {
	ID         int        `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Color      string     `json:"color,omitempty" yaml:"color,omitempty"`
	Category   *string    `json:"category,omitempty" yaml:"category,omitempty"`
	ImageCount *int       `json:"imageCount,omitempty" yaml:"imageCount,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

func (t Tag) CategoryName() string {
	if t.Category == nil {
		return ""
	}
	return strings.TrimSpace(*t.Category)
}

type TagCreate struct {
	Name     string  `json:"name"`
	Color    *string `json:"color,omitempty"`
	Category *string `json:"category,omitempty"`
}

type TagUpdate struct {
	Name     *string `json:"name,omitempty"`
	Color    *string `json:"color,omitempty"`
	Category *string `json:"category,omitempty"`
}

// TagSearch holds optional filters for listing tags. Empty fields are not sent.
type TagSearch struct {
	Name      string
	Color     string
	Category  string
	TagType   string
	ProjectID int
}

type Image struct {
	ID            int        `json:"id" yaml:"id"`
	ProjectID     int        `json:"projectId" yaml:"projectId"`
	URL           string     `json:"url,omitempty" yaml:"url,omitempty"`
	ThumbnailURL  *string    `json:"thumbnailUrl,omitempty" yaml:"thumbnailUrl,omitempty"`
	Filename      string     `json:"filename,omitempty" yaml:"filename,omitempty"`
	FilePath      string     `json:"filePath,omitempty" yaml:"filePath,omitempty"`
	ThumbnailPath *string    `json:"thumbnailPath,omitempty" yaml:"thumbnailPath,omitempty"`
	FileSize      *int64     `json:"fileSize,omitempty" yaml:"fileSize,omitempty"`
	Width         *int       `json:"width,omitempty" yaml:"width,omitempty"`
	Height        *int       `json:"height,omitempty" yaml:"height,omitempty"`
	Tags          []Tag      `json:"tags" yaml:"tags"`
	CreatedAt     *time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// Key is the identifier used by the visibility tracker and thumbnail cache.
func (i Image) Key() string {
	return fmt.Sprintf("img-%d", i.ID)
}

func (i Image) DisplayName() string {
	if n := strings.TrimSpace(i.Filename); n != "" {
		return n
	}
	return fmt.Sprintf("image %d", i.ID)
}

func (i Image) TagIDs() []int {
	out := make([]int, 0, len(i.Tags))
	for _, t := range i.Tags {
		out = append(out, t.ID)
	}
	return out
}

type ImageListParams struct {
	Skip  int
	Limit int
}

// ImagePage is one page of a project's images plus the server-side total.
type ImagePage struct {
	Images []Image `json:"images" yaml:"images"`
	Total  int     `json:"total" yaml:"total"`
}

type ImageURL struct {
	URL string `json:"url" yaml:"url"`
}

type TreeNodeType string

const (
	TreeNodeTag   TreeNodeType = "tag"
	TreeNodeImage TreeNodeType = "image"
)

type TreeNode struct {
	Name      string         `json:"name" yaml:"name"`
	Category  *string        `json:"category,omitempty" yaml:"category,omitempty"`
	Type      TreeNodeType   `json:"type" yaml:"type"`
	Children  []TreeNode     `json:"children" yaml:"children"`
	ImageData map[string]any `json:"imageData,omitempty" yaml:"imageData,omitempty"`
}

// Count returns the number of image leaves under n (including n itself).
func (n TreeNode) Count() int {
	c := 0
	if n.Type == TreeNodeImage {
		c++
	}
	for _, ch := range n.Children {
		c += ch.Count()
	}
	return c
}

// TreeBuildRequest is sent with the backend's snake_case keys.
type TreeBuildRequest struct {
	SelectedTags []int    `json:"selected_tags"`
	TagOrder     []string `json:"tag_order"`
}

type TreeStats struct {
	ProjectID       int            `json:"projectId" yaml:"projectId"`
	TotalImages     int            `json:"totalImages" yaml:"totalImages"`
	TotalCategories int            `json:"totalCategories" yaml:"totalCategories"`
	Categories      []string       `json:"categories" yaml:"categories"`
	CategoryStats   map[string]int `json:"categoryStats" yaml:"categoryStats"`
}

type FileInfo struct {
	URL         string  `json:"url" yaml:"url"`
	FileType    string  `json:"fileType" yaml:"fileType"`
	FilePath    string  `json:"filePath" yaml:"filePath"`
	ContentType *string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	FileSize    *int64  `json:"fileSize,omitempty" yaml:"fileSize,omitempty"`
}

type UserInfo struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (u UserInfo) IsZero() bool {
	return u == UserInfo{}
}
