package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// KnowledgeBase is one text chunk of the assistant's reference material.
// Rows are written by the seeding command and only read by the chat endpoint.
type KnowledgeBase struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Content   string          `gorm:"type:text;not null" json:"content"`
	Source    string          `gorm:"type:text" json:"source"`
	Category  string          `gorm:"type:text;index" json:"category"`
	Embedding pgvector.Vector `gorm:"type:vector(384);not null" json:"-"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName keeps the singular table name used by the seed scripts.
func (KnowledgeBase) TableName() string {
	return "knowledge_base"
}

// KnowledgeMatch is a knowledge chunk returned by a nearest-neighbour query.
type KnowledgeMatch struct {
	ID         uint    `json:"id"`
	Content    string  `json:"content"`
	Source     string  `json:"source"`
	Similarity float64 `json:"similarity"`
}
