package gallery

import (
	"errors"

	"github.com/aquarela/backend/internal/models"
	"github.com/google/uuid"
)

// ViewerState is the lightbox state.
type ViewerState int

const (
	StateClosed ViewerState = iota
	StateOpen
	StateOpenFullscreen
)

func (s ViewerState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateOpenFullscreen:
		return "open-fullscreen"
	default:
		return "closed"
	}
}

var (
	ErrViewerClosed    = errors.New("viewer is closed")
	ErrIndexOutOfRange = errors.New("index outside current view")
	ErrImageNotOwned   = errors.New("image does not belong to the current painting")
)

// Viewer is the modal lightbox state machine over one gallery view.
//
// The current painting is identified by its stable id, not its slice
// position: when the view changes underneath an open viewer, SetView
// re-derives the index (and closes if the painting dropped out of the view)
// instead of silently pointing at whatever now occupies the old index.
type Viewer struct {
	view []models.Painting

	state     ViewerState
	currentID uuid.UUID

	// activeImage selects the gallery image shown in zoom/fullscreen;
	// uuid.Nil means the primary image.
	activeImage uuid.UUID

	// rated guards repeat rating submissions within one open session.
	rated bool
}

func NewViewer(view []models.Painting) *Viewer {
	return &Viewer{view: view, state: StateClosed}
}

// State returns the current lightbox state.
func (v *Viewer) State() ViewerState {
	return v.state
}

// Index returns the position of the current painting inside the view,
// or -1 when closed.
func (v *Viewer) Index() int {
	if v.state == StateClosed {
		return -1
	}
	return v.indexOf(v.currentID)
}

func (v *Viewer) indexOf(id uuid.UUID) int {
	for i := range v.view {
		if v.view[i].ID == id {
			return i
		}
	}
	return -1
}

// Current returns the painting on display.
func (v *Viewer) Current() (*models.Painting, bool) {
	if v.state == StateClosed {
		return nil, false
	}
	if i := v.indexOf(v.currentID); i >= 0 {
		return &v.view[i], true
	}
	return nil, false
}

// Open selects item i of the view and opens the lightbox. Opening resets the
// per-session rated guard and the active gallery image.
func (v *Viewer) Open(i int) error {
	if i < 0 || i >= len(v.view) {
		return ErrIndexOutOfRange
	}
	v.state = StateOpen
	v.currentID = v.view[i].ID
	v.activeImage = uuid.Nil
	v.rated = false
	return nil
}

// Close dismisses the lightbox from any open state.
func (v *Viewer) Close() {
	v.state = StateClosed
	v.currentID = uuid.Nil
	v.activeImage = uuid.Nil
	v.rated = false
}

// Prev moves to the previous item. At the first position it is a no-op and
// reports false; bounds clamp, they do not wrap.
func (v *Viewer) Prev() bool {
	return v.step(-1)
}

// Next moves to the next item, clamped at the end of the view.
func (v *Viewer) Next() bool {
	return v.step(+1)
}

func (v *Viewer) step(delta int) bool {
	if v.state == StateClosed {
		return false
	}
	i := v.indexOf(v.currentID)
	if i < 0 {
		return false
	}
	j := i + delta
	if j < 0 || j >= len(v.view) {
		return false
	}
	v.currentID = v.view[j].ID
	v.activeImage = uuid.Nil
	v.rated = false
	return true
}

// EnterFullscreen switches to the pan-zoom display of the active image.
func (v *Viewer) EnterFullscreen() error {
	if v.state != StateOpen {
		return ErrViewerClosed
	}
	v.state = StateOpenFullscreen
	return nil
}

// ExitFullscreen returns to the regular open state.
func (v *Viewer) ExitFullscreen() error {
	if v.state != StateOpenFullscreen {
		return ErrViewerClosed
	}
	v.state = StateOpen
	return nil
}

// SelectImage picks which of the current painting's images is shown in
// zoom/fullscreen. uuid.Nil selects the primary image. Navigation between
// paintings resets the selection to the primary image.
func (v *Viewer) SelectImage(imageID uuid.UUID) error {
	current, ok := v.Current()
	if !ok {
		return ErrViewerClosed
	}
	if imageID == uuid.Nil {
		v.activeImage = uuid.Nil
		return nil
	}
	for _, g := range current.GalleryImages {
		if g.ID == imageID {
			v.activeImage = imageID
			return nil
		}
	}
	return ErrImageNotOwned
}

// ActiveImageURL returns the URL of the image selected for zoom/fullscreen,
// falling back to the painting's primary image.
func (v *Viewer) ActiveImageURL() string {
	current, ok := v.Current()
	if !ok {
		return ""
	}
	if v.activeImage != uuid.Nil {
		for _, g := range current.GalleryImages {
			if g.ID == v.activeImage {
				return g.ImageURL
			}
		}
	}
	return current.ImageURL
}

// MarkRated records that the viewer rated the current painting in this open
// session. Navigation and reopening clear it.
func (v *Viewer) MarkRated() {
	if v.state != StateClosed {
		v.rated = true
	}
}

// HasRated reports whether a rating was already submitted for the current
// open session.
func (v *Viewer) HasRated() bool {
	return v.state != StateClosed && v.rated
}

// SetView swaps in a new gallery view (e.g. after a refetch). If the current
// painting is still present the viewer stays on it; if it vanished the
// viewer closes rather than pointing at an arbitrary index.
func (v *Viewer) SetView(view []models.Painting) {
	v.view = view
	if v.state == StateClosed {
		return
	}
	if v.indexOf(v.currentID) < 0 {
		v.Close()
	}
}
