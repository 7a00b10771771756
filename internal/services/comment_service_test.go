package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aquarela/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestCreateCommentForPainting(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	painting := seedPainting(t, db, "mar")

	comment, err := svc.Create(&painting.ID, "Maria", "Que cores lindas!")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if comment.PaintingID == nil || *comment.PaintingID != painting.ID {
		t.Errorf("comment not attached to painting")
	}
	if !comment.IsApproved {
		t.Errorf("new comments must start approved")
	}
}

func TestCreateGeneralComment(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)

	comment, err := svc.Create(nil, "João", "Adoro o site!")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if comment.PaintingID != nil {
		t.Errorf("general comment must have nil painting id")
	}

	general, err := svc.ListGeneral()
	if err != nil {
		t.Fatalf("ListGeneral failed: %v", err)
	}
	if len(general) != 1 {
		t.Fatalf("expected 1 general comment, got %d", len(general))
	}
}

func TestCreateCommentValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	painting := seedPainting(t, db, "mar")

	if _, err := svc.Create(&painting.ID, "", "texto"); err == nil {
		t.Errorf("expected error for empty name")
	}
	if _, err := svc.Create(&painting.ID, "Maria", "   "); err == nil {
		t.Errorf("expected error for blank content")
	}
	if _, err := svc.Create(&painting.ID, "Maria", strings.Repeat("a", maxCommentLength+1)); err == nil {
		t.Errorf("expected error for oversized content")
	}

	unknown := uuid.New()
	if _, err := svc.Create(&unknown, "Maria", "texto"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for unknown painting, got %v", err)
	}
}

func TestCreateCommentStripsMarkup(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)

	comment, err := svc.Create(nil, "Maria", `olá <script>alert("x")</script> mundo`)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if strings.Contains(comment.Content, "<script>") {
		t.Errorf("markup survived sanitization: %q", comment.Content)
	}
}

func TestListForPaintingNewestFirstApprovedOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	painting := seedPainting(t, db, "mar")

	first, err := svc.Create(&painting.ID, "Maria", "primeiro")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// Force distinct timestamps; sqlite time resolution is coarse.
	db.Model(first).Update("created_at", time.Now().Add(-time.Hour))

	second, err := svc.Create(&painting.ID, "João", "segundo")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	hidden, _ := svc.Create(&painting.ID, "Troll", "escondido")
	if err := svc.SetApproved(hidden.ID, false); err != nil {
		t.Fatalf("SetApproved failed: %v", err)
	}

	comments, err := svc.ListForPainting(painting.ID)
	if err != nil {
		t.Fatalf("ListForPainting failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 visible comments, got %d", len(comments))
	}
	if comments[0].ID != second.ID || comments[1].ID != first.ID {
		t.Errorf("comments not in newest-first order")
	}
}

func TestSetReplyAndClear(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	painting := seedPainting(t, db, "mar")

	comment, _ := svc.Create(&painting.ID, "Maria", "texto")

	updated, err := svc.SetReply(comment.ID, "Obrigada!")
	if err != nil {
		t.Fatalf("SetReply failed: %v", err)
	}
	if updated.Reply == nil || *updated.Reply != "Obrigada!" {
		t.Errorf("reply not stored: %v", updated.Reply)
	}

	cleared, err := svc.SetReply(comment.ID, "  ")
	if err != nil {
		t.Fatalf("SetReply clear failed: %v", err)
	}
	if cleared.Reply != nil {
		t.Errorf("blank reply must clear the stored reply")
	}

	var stored models.Comment
	if err := db.First(&stored, "id = ?", comment.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.Reply != nil {
		t.Errorf("cleared reply persisted: %v", *stored.Reply)
	}
}

func TestDeleteComment(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	painting := seedPainting(t, db, "mar")

	comment, _ := svc.Create(&painting.ID, "Maria", "texto")
	if err := svc.Delete(comment.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.Delete(comment.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound on repeat delete, got %v", err)
	}
}

func TestListAllIncludesHidden(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	painting := seedPainting(t, db, "mar")

	visible, _ := svc.Create(&painting.ID, "Maria", "visível")
	hidden, _ := svc.Create(&painting.ID, "Troll", "escondido")
	_ = visible
	if err := svc.SetApproved(hidden.ID, false); err != nil {
		t.Fatalf("SetApproved failed: %v", err)
	}

	comments, total, err := svc.ListAll(10, 0)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if total != 2 || len(comments) != 2 {
		t.Errorf("moderation list must include hidden comments, got %d/%d", len(comments), total)
	}
}
