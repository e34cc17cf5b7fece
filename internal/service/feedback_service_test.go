package service

import (
	"errors"
	"testing"

	"github.com/weibaohui/readmegen/internal/model"
	"github.com/weibaohui/readmegen/internal/repository"
)

type mockFeedbackRepo struct {
	CreateFunc func(fb *model.Feedback) error
}

func (m *mockFeedbackRepo) Create(fb *model.Feedback) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(fb)
	}
	return nil
}

func (m *mockFeedbackRepo) List(limit int) ([]model.Feedback, error) {
	return nil, nil
}

func (m *mockFeedbackRepo) GetByEntry(entryID string) ([]model.Feedback, error) {
	return nil, nil
}

func (m *mockFeedbackRepo) Stats() (*model.FeedbackStats, error) {
	return &model.FeedbackStats{}, nil
}

func TestFeedbackServiceCreate(t *testing.T) {
	var saved *model.Feedback
	feedbacks := &mockFeedbackRepo{
		CreateFunc: func(fb *model.Feedback) error {
			saved = fb
			return nil
		},
	}
	histories := &mockHistoryRepo{
		GetFunc: func(entryID string) (*model.HistoryEntry, error) {
			return &model.HistoryEntry{EntryID: entryID}, nil
		},
	}

	svc := NewFeedbackService(feedbacks, histories)
	fb, err := svc.Create(&FeedbackRequest{
		EntryID:         "e-1",
		Rating:          "good",
		HelpfulSections: []string{"Usage", "Installation"},
		Comments:        "solid",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if fb.FeedbackID == "" {
		t.Error("expected feedback id assigned")
	}
	if saved == nil || saved.HelpfulSections != `["Usage","Installation"]` {
		t.Errorf("unexpected saved feedback: %+v", saved)
	}
	if saved.ProblematicSections != "" {
		t.Errorf("expected empty problematic sections, got %q", saved.ProblematicSections)
	}
}

func TestFeedbackServiceCreateInvalidRating(t *testing.T) {
	svc := NewFeedbackService(&mockFeedbackRepo{}, &mockHistoryRepo{})

	_, err := svc.Create(&FeedbackRequest{Rating: "amazing"})
	if err == nil {
		t.Fatal("expected error for invalid rating")
	}
}

func TestFeedbackServiceCreateUnknownEntry(t *testing.T) {
	svc := NewFeedbackService(&mockFeedbackRepo{}, &mockHistoryRepo{})

	_, err := svc.Create(&FeedbackRequest{EntryID: "missing", Rating: "good"})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFeedbackServiceCreateWithoutEntry(t *testing.T) {
	// 不带 entry_id 的反馈也允许提交
	svc := NewFeedbackService(&mockFeedbackRepo{}, &mockHistoryRepo{})

	fb, err := svc.Create(&FeedbackRequest{Rating: "terrible", Suggestions: "start over"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if fb.Rating != "terrible" {
		t.Errorf("unexpected rating: %s", fb.Rating)
	}
}
