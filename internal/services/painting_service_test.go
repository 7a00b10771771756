package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/aquarela/backend/internal/config"
	"github.com/aquarela/backend/internal/models"
	"github.com/google/uuid"
)

func paintingTestService(t *testing.T) *PaintingService {
	t.Helper()
	cfg := &config.Config{UploadMaxImageSize: 1024 * 1024}
	return NewPaintingService(newTestDB(t), cfg, nil, nil, nil)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{R: 90, G: 140, B: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestTitleFromFilename(t *testing.T) {
	svc := paintingTestService(t)

	cases := map[string]string{
		"mar-de-inverno.jpg":      "Mar De Inverno",
		"barcos_ao_amanhecer.png": "Barcos Ao Amanhecer",
		"IMG  0042.webp":          "Img 0042",
		".jpg":                    "Sem título",
	}
	for in, want := range cases {
		if got := svc.TitleFromFilename(in); got != want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateImage(t *testing.T) {
	svc := paintingTestService(t)
	data := pngBytes(t)

	mime, ext, err := svc.validateImage("obra.png", data)
	if err != nil {
		t.Fatalf("validateImage failed: %v", err)
	}
	if mime != "image/png" || ext != ".png" {
		t.Errorf("got mime=%q ext=%q", mime, ext)
	}

	if _, _, err := svc.validateImage("obra.pdf", data); err == nil {
		t.Errorf("expected error for disallowed extension")
	}
	if _, _, err := svc.validateImage("obra.png", []byte("not an image at all")); err == nil {
		t.Errorf("expected error for non-image content")
	}

	svc.cfg.UploadMaxImageSize = 8
	if _, _, err := svc.validateImage("obra.png", data); err == nil {
		t.Errorf("expected error for oversized image")
	}
}

func TestReorderRewritesDisplayOrder(t *testing.T) {
	svc := paintingTestService(t)
	db := svc.GetDB()

	a := seedPainting(t, db, "a")
	b := seedPainting(t, db, "b")
	c := seedPainting(t, db, "c")
	db.Model(a).Update("display_order", 0)
	db.Model(b).Update("display_order", 1)
	db.Model(c).Update("display_order", 2)

	if err := svc.Reorder([]uuid.UUID{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	paintings, err := svc.ListPaintings()
	if err != nil {
		t.Fatalf("ListPaintings failed: %v", err)
	}
	got := []string{paintings[0].Title, paintings[1].Title, paintings[2].Title}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order after reorder = %v, want %v", got, want)
		}
	}
}

func TestReorderUnknownID(t *testing.T) {
	svc := paintingTestService(t)
	db := svc.GetDB()
	a := seedPainting(t, db, "a")

	if err := svc.Reorder([]uuid.UUID{a.ID, uuid.New()}); err == nil {
		t.Fatal("expected error for unknown painting id")
	}

	// The transaction must roll back entirely.
	var reloaded models.Painting
	if err := db.First(&reloaded, "id = ?", a.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.DisplayOrder != a.DisplayOrder {
		t.Errorf("partial reorder persisted: %d", reloaded.DisplayOrder)
	}
}

func TestUpdatePaintingValidation(t *testing.T) {
	svc := paintingTestService(t)
	db := svc.GetDB()
	p := seedPainting(t, db, "a")

	if _, err := svc.UpdatePainting(p.ID, PaintingForm{Title: " ", Category: models.Categories[0]}); err == nil {
		t.Errorf("expected error for blank title")
	}
	if _, err := svc.UpdatePainting(p.ID, PaintingForm{Title: "ok", Category: "inexistente"}); err == nil {
		t.Errorf("expected error for unknown category")
	}

	year := 2024
	updated, err := svc.UpdatePainting(p.ID, PaintingForm{
		Title:    "Novo Título",
		Category: models.Categories[1],
		Year:     &year,
	})
	if err != nil {
		t.Fatalf("UpdatePainting failed: %v", err)
	}
	if updated.Title != "Novo Título" || updated.Year == nil || *updated.Year != 2024 {
		t.Errorf("update not applied: %+v", updated)
	}
}
