package gallery

import (
	"testing"

	"github.com/aquarela/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewerCollection() []models.Painting {
	paintings := testCollection()
	paintings[0].ImageURL = "https://cdn.example/primary-0.jpg"
	paintings[0].GalleryImages = []models.GalleryImage{
		{ID: uuid.New(), PaintingID: paintings[0].ID, ImageURL: "https://cdn.example/detail-0a.jpg"},
		{ID: uuid.New(), PaintingID: paintings[0].ID, ImageURL: "https://cdn.example/detail-0b.jpg"},
	}
	return paintings
}

func TestViewerStartsClosed(t *testing.T) {
	v := NewViewer(viewerCollection())

	assert.Equal(t, StateClosed, v.State())
	assert.Equal(t, -1, v.Index())
	_, ok := v.Current()
	assert.False(t, ok)
}

func TestViewerOpenAndClose(t *testing.T) {
	v := NewViewer(viewerCollection())

	require.NoError(t, v.Open(2))
	assert.Equal(t, StateOpen, v.State())
	assert.Equal(t, 2, v.Index())

	current, ok := v.Current()
	require.True(t, ok)
	assert.Equal(t, "Retrato da Avó", current.Title)

	v.Close()
	assert.Equal(t, StateClosed, v.State())
}

func TestViewerOpenOutOfRange(t *testing.T) {
	v := NewViewer(viewerCollection())

	assert.ErrorIs(t, v.Open(-1), ErrIndexOutOfRange)
	assert.ErrorIs(t, v.Open(4), ErrIndexOutOfRange)
	assert.Equal(t, StateClosed, v.State())
}

func TestViewerNavigationClampsAtBounds(t *testing.T) {
	v := NewViewer(viewerCollection())
	require.NoError(t, v.Open(0))

	// Already at the first item: no wrap-around.
	assert.False(t, v.Prev())
	assert.Equal(t, 0, v.Index())

	assert.True(t, v.Next())
	assert.True(t, v.Next())
	assert.True(t, v.Next())
	assert.Equal(t, 3, v.Index())

	assert.False(t, v.Next())
	assert.Equal(t, 3, v.Index())
}

func TestViewerNavigationWhenClosed(t *testing.T) {
	v := NewViewer(viewerCollection())

	assert.False(t, v.Next())
	assert.False(t, v.Prev())
}

func TestViewerFullscreenTransitions(t *testing.T) {
	v := NewViewer(viewerCollection())

	assert.ErrorIs(t, v.EnterFullscreen(), ErrViewerClosed)

	require.NoError(t, v.Open(0))
	require.NoError(t, v.EnterFullscreen())
	assert.Equal(t, StateOpenFullscreen, v.State())

	require.NoError(t, v.ExitFullscreen())
	assert.Equal(t, StateOpen, v.State())
}

func TestViewerCloseFromFullscreen(t *testing.T) {
	v := NewViewer(viewerCollection())
	require.NoError(t, v.Open(0))
	require.NoError(t, v.EnterFullscreen())

	v.Close()
	assert.Equal(t, StateClosed, v.State())
}

func TestViewerSelectImage(t *testing.T) {
	view := viewerCollection()
	v := NewViewer(view)
	require.NoError(t, v.Open(0))

	assert.Equal(t, "https://cdn.example/primary-0.jpg", v.ActiveImageURL())

	detail := view[0].GalleryImages[1]
	require.NoError(t, v.SelectImage(detail.ID))
	assert.Equal(t, "https://cdn.example/detail-0b.jpg", v.ActiveImageURL())

	// uuid.Nil selects the primary image again.
	require.NoError(t, v.SelectImage(uuid.Nil))
	assert.Equal(t, "https://cdn.example/primary-0.jpg", v.ActiveImageURL())
}

func TestViewerSelectImageNotOwned(t *testing.T) {
	v := NewViewer(viewerCollection())
	require.NoError(t, v.Open(1))

	assert.ErrorIs(t, v.SelectImage(uuid.New()), ErrImageNotOwned)
}

func TestViewerNavigationResetsActiveImage(t *testing.T) {
	view := viewerCollection()
	v := NewViewer(view)
	require.NoError(t, v.Open(0))
	require.NoError(t, v.SelectImage(view[0].GalleryImages[0].ID))

	require.True(t, v.Next())
	require.True(t, v.Prev())

	assert.Equal(t, "https://cdn.example/primary-0.jpg", v.ActiveImageURL())
}

func TestViewerRatedGuardPerSession(t *testing.T) {
	v := NewViewer(viewerCollection())
	require.NoError(t, v.Open(0))

	assert.False(t, v.HasRated())
	v.MarkRated()
	assert.True(t, v.HasRated())

	// Navigating to another painting clears the guard.
	require.True(t, v.Next())
	assert.False(t, v.HasRated())

	// So does reopening.
	v.MarkRated()
	v.Close()
	require.NoError(t, v.Open(1))
	assert.False(t, v.HasRated())
}

func TestViewerSetViewKeepsCurrentByID(t *testing.T) {
	view := viewerCollection()
	v := NewViewer(view)
	require.NoError(t, v.Open(2))
	current, _ := v.Current()

	// Reorder the view: the painting moves but stays present.
	reordered := []models.Painting{view[2], view[0], view[1], view[3]}
	v.SetView(reordered)

	assert.Equal(t, StateOpen, v.State())
	assert.Equal(t, 0, v.Index())
	after, ok := v.Current()
	require.True(t, ok)
	assert.Equal(t, current.ID, after.ID)
}

func TestViewerSetViewClosesWhenCurrentVanishes(t *testing.T) {
	view := viewerCollection()
	v := NewViewer(view)
	require.NoError(t, v.Open(2))

	v.SetView([]models.Painting{view[0], view[1]})

	assert.Equal(t, StateClosed, v.State())
}
