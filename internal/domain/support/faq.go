package support

import (
	"strings"
	"time"

	"github.com/agoramall/backend/internal/domain/shared"
)

// FAQ is a staff-managed frequently-asked question
type FAQ struct {
	shared.BaseAggregateRoot
	Category  string `gorm:"not null;size:50;index"`
	Question  string `gorm:"not null;size:300"`
	Answer    string `gorm:"not null;size:5000"`
	SortOrder int    `gorm:"not null;default:0;index"`
	Published bool   `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (FAQ) TableName() string {
	return "faqs"
}

// NewFAQ creates a published FAQ entry
func NewFAQ(category, question, answer string, sortOrder int) (*FAQ, error) {
	category = strings.TrimSpace(category)
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if category == "" || question == "" || answer == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "category, question and answer are required")
	}
	return &FAQ{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Category:          category,
		Question:          question,
		Answer:            answer,
		SortOrder:         sortOrder,
		Published:         true,
	}, nil
}

// Update replaces the FAQ content
func (f *FAQ) Update(category, question, answer string, sortOrder int, published bool) error {
	category = strings.TrimSpace(category)
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if category == "" || question == "" || answer == "" {
		return shared.NewDomainError("INVALID_INPUT", "category, question and answer are required")
	}
	f.Category = category
	f.Question = question
	f.Answer = answer
	f.SortOrder = sortOrder
	f.Published = published
	f.UpdatedAt = time.Now()
	return nil
}
