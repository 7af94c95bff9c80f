package model

import (
	"encoding/json"
	"time"
)

// The catalogue backend serializes some resources with camelCase keys and others with
// snake_case keys. Decoding accepts both; encoding always produces camelCase.

func (p *Project) UnmarshalJSON(b []byte) error {
	type plain Project
	var w struct {
		plain
		ImageCountSnake *int       `json:"image_count"`
		CreatedAtSnake  *time.Time `json:"created_at"`
		UpdatedAtSnake  *time.Time `json:"updated_at"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*p = Project(w.plain)
	if w.ImageCountSnake != nil && p.ImageCount == 0 {
		p.ImageCount = *w.ImageCountSnake
	}
	if p.CreatedAt == nil {
		p.CreatedAt = w.CreatedAtSnake
	}
	if p.UpdatedAt == nil {
		p.UpdatedAt = w.UpdatedAtSnake
	}
	return nil
}

func (t *Tag) UnmarshalJSON(b []byte) error {
	type plain Tag
	var w struct {
		plain
		ImageCountSnake *int       `json:"image_count"`
		CreatedAtSnake  *time.Time `json:"created_at"`
		UpdatedAtSnake  *time.Time `json:"updated_at"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*t = Tag(w.plain)
	if t.ImageCount == nil {
		t.ImageCount = w.ImageCountSnake
	}
	if t.CreatedAt == nil {
		t.CreatedAt = w.CreatedAtSnake
	}
	if t.UpdatedAt == nil {
		t.UpdatedAt = w.UpdatedAtSnake
	}
	return nil
}

func (s *TreeStats) UnmarshalJSON(b []byte) error {
	type plain TreeStats
	var w struct {
		plain
		ProjectIDSnake       *int           `json:"project_id"`
		TotalImagesSnake     *int           `json:"total_images"`
		TotalCategoriesSnake *int           `json:"total_categories"`
		CategoryStatsSnake   map[string]int `json:"category_stats"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*s = TreeStats(w.plain)
	if w.ProjectIDSnake != nil && s.ProjectID == 0 {
		s.ProjectID = *w.ProjectIDSnake
	}
	if w.TotalImagesSnake != nil && s.TotalImages == 0 {
		s.TotalImages = *w.TotalImagesSnake
	}
	if w.TotalCategoriesSnake != nil && s.TotalCategories == 0 {
		s.TotalCategories = *w.TotalCategoriesSnake
	}
	if s.CategoryStats == nil {
		s.CategoryStats = w.CategoryStatsSnake
	}
	return nil
}

func (n *TreeNode) UnmarshalJSON(b []byte) error {
	type plain TreeNode
	var w struct {
		plain
		ImageDataSnake map[string]any `json:"image_data"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*n = TreeNode(w.plain)
	if n.ImageData == nil {
		n.ImageData = w.ImageDataSnake
	}
	return nil
}
