package drag

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/hotspot/internal/core/residue"
	"github.com/colonyops/hotspot/internal/core/seqmap"
)

// harness plays the application: it owns the selection and replaces it
// whenever the controller emits.
type harness struct {
	selection residue.Selection
	emitted   int
	ctrl      *Controller
}

func newHarness(r Resolver, initial ...string) *harness {
	h := &harness{selection: residue.SelectionFromStrings(initial)}
	h.ctrl = New(r, func() residue.Selection { return h.selection }, ListenerFunc(func(next residue.Selection) {
		h.emitted++
		h.selection = next
	}))
	return h
}

func acdeMapper() seqmap.Mapper {
	return seqmap.NewMapper(seqmap.LocalWindow{ChainID: "A", Sequence: "ACDE", StartNumber: 1}, nil, seqmap.ModeLocal)
}

func TestController_DragCommitAddsRange(t *testing.T) {
	h := newHarness(acdeMapper(), "B:9")

	require.True(t, h.ctrl.PointerDown(2))
	require.True(t, h.ctrl.PointerEnter(3))
	require.True(t, h.ctrl.PointerEnter(4))

	next, ok := h.ctrl.PointerUp()
	require.True(t, ok)

	assert.Equal(t, 1, h.emitted)
	assert.Equal(t, []string{"B:9", "A:2", "A:3", "A:4"}, h.selection.Strings())
	assert.True(t, next.Equal(h.selection))
	assert.Equal(t, StateIdle, h.ctrl.State())
}

func TestController_DragBackwards(t *testing.T) {
	h := newHarness(acdeMapper())

	h.ctrl.PointerDown(4)
	h.ctrl.PointerEnter(2)
	h.ctrl.PointerUp()

	assert.Equal(t, []string{"A:2", "A:3", "A:4"}, h.selection.Strings())
}

func TestController_DragNeverRemoves(t *testing.T) {
	h := newHarness(acdeMapper(), "A:3")

	h.ctrl.PointerDown(2)
	h.ctrl.PointerEnter(4)
	h.ctrl.PointerUp()

	assert.Equal(t, []string{"A:3", "A:2", "A:4"}, h.selection.Strings())
}

func TestController_ClickToggles(t *testing.T) {
	h := newHarness(acdeMapper())

	h.ctrl.PointerDown(2)
	h.ctrl.PointerUp()
	assert.Equal(t, []string{"A:2"}, h.selection.Strings())

	h.ctrl.PointerDown(2)
	h.ctrl.PointerUp()
	assert.Empty(t, h.selection.Strings())
	assert.Equal(t, 2, h.emitted)
}

func TestController_ReturnToAnchorToggles(t *testing.T) {
	h := newHarness(acdeMapper(), "A:2")

	h.ctrl.PointerDown(2)
	h.ctrl.PointerEnter(3)
	h.ctrl.PointerEnter(2)
	h.ctrl.PointerUp()

	assert.Empty(t, h.selection.Strings())
}

func TestController_LeaveCancels(t *testing.T) {
	h := newHarness(acdeMapper(), "A:1")

	h.ctrl.PointerDown(2)
	h.ctrl.PointerEnter(3)
	require.True(t, h.ctrl.PointerLeave())

	assert.Equal(t, StateIdle, h.ctrl.State())
	assert.Equal(t, 0, h.emitted)
	assert.Equal(t, []string{"A:1"}, h.selection.Strings())

	_, ok := h.ctrl.PointerUp()
	assert.False(t, ok, "release after cancel is ignored")
	assert.False(t, h.ctrl.PointerLeave(), "leave while idle is ignored")
}

func TestController_Preview(t *testing.T) {
	h := newHarness(acdeMapper())

	_, _, ok := h.ctrl.Preview()
	assert.False(t, ok)

	h.ctrl.PointerDown(3)
	h.ctrl.PointerEnter(1)

	lo, hi, ok := h.ctrl.Preview()
	require.True(t, ok)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 3, hi)
	assert.True(t, h.ctrl.InPreview(2))
	assert.False(t, h.ctrl.InPreview(4))

	s, ok := h.ctrl.Session()
	require.True(t, ok)
	assert.Equal(t, Session{Anchor: 3, Current: 1}, s)

	assert.Equal(t, 0, h.emitted, "preview never touches the selection")
}

func TestController_IgnoresEventsOutOfOrder(t *testing.T) {
	h := newHarness(acdeMapper())

	assert.False(t, h.ctrl.PointerEnter(2), "enter while idle")
	_, ok := h.ctrl.PointerUp()
	assert.False(t, ok, "release while idle")

	h.ctrl.PointerDown(1)
	assert.False(t, h.ctrl.PointerDown(3), "second down while dragging")
	s, _ := h.ctrl.Session()
	assert.Equal(t, 1, s.Anchor)
}

func TestController_CanonicalModeRejectsUnmapped(t *testing.T) {
	// canonical MMACDEKK holds ACDE at 3-6
	m := seqmap.NewMapper(
		seqmap.LocalWindow{ChainID: "A", Sequence: "ACDE", StartNumber: 10},
		&seqmap.CanonicalSequence{ID: "P1", Sequence: "MMACDEKK"},
		seqmap.ModeCanonical,
	)
	h := newHarness(m)

	t.Run("down outside range does not start", func(t *testing.T) {
		assert.False(t, h.ctrl.PointerDown(1))
		assert.Equal(t, StateIdle, h.ctrl.State())
	})

	t.Run("enter outside range keeps previous extent", func(t *testing.T) {
		require.True(t, h.ctrl.PointerDown(4))
		h.ctrl.PointerEnter(5)
		assert.False(t, h.ctrl.PointerEnter(8))

		s, _ := h.ctrl.Session()
		assert.Equal(t, 5, s.Current)

		h.ctrl.PointerUp()
		assert.Equal(t, []string{"A:11", "A:12"}, h.selection.Strings())
	})
}

func TestController_SetResolverCancels(t *testing.T) {
	h := newHarness(acdeMapper())
	h.ctrl.PointerDown(1)

	h.ctrl.SetResolver(acdeMapper())

	assert.Equal(t, StateIdle, h.ctrl.State())
	_, ok := h.ctrl.PointerUp()
	assert.False(t, ok)
}

// Property: events at positions outside the mapped range never change the
// selection.
func TestController_OutOfRangeProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("out of range gestures emit nothing", prop.ForAll(
		func(prefix, suffix, a, b int) bool {
			window := seqmap.LocalWindow{ChainID: "A", Sequence: "ACDE", StartNumber: 1}
			canonical := &seqmap.CanonicalSequence{
				Sequence: repeat("W", prefix) + "ACDE" + repeat("Y", suffix),
			}
			m := seqmap.NewMapper(window, canonical, seqmap.ModeCanonical)
			r := m.MappedRange()
			if r == nil {
				return false
			}
			if r.Contains(a) {
				return true
			}

			h := newHarness(m, "A:1")
			h.ctrl.PointerDown(a)
			h.ctrl.PointerEnter(b)
			h.ctrl.PointerUp()

			return h.emitted == 0 && h.selection.Equal(residue.SelectionFromStrings([]string{"A:1"}))
		},
		gen.IntRange(0, 20),
		gen.IntRange(0, 20),
		gen.IntRange(-5, 50),
		gen.IntRange(-5, 50),
	))

	properties.TestingRun(t)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
