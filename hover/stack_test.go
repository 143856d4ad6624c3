package hover_test

import (
	"testing"

	secondbrain "github.com/rizkyilhampra/second-brain"
	"github.com/rizkyilhampra/second-brain/hover"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack(t *testing.T) {
	t.Parallel()

	t.Run("set_assigns_depth_and_z_index", func(t *testing.T) {
		t.Parallel()

		st := hover.NewStack()
		p := &secondbrain.Popover{ID: "p0"}

		cleared, effective := st.Set(0, p)

		assert.Empty(t, cleared)
		assert.Equal(t, 0, effective)
		assert.Equal(t, 0, p.Depth)
		assert.Equal(t, secondbrain.ZIndexFor(0), p.ZIndex)
		assert.True(t, p.Active)
		assert.Equal(t, 1, st.Len())
	})

	t.Run("deeper_popovers_stack_above_parents", func(t *testing.T) {
		t.Parallel()

		st := hover.NewStack()
		p0 := &secondbrain.Popover{ID: "p0"}
		p1 := &secondbrain.Popover{ID: "p1"}

		st.Set(0, p0)
		st.Set(1, p1)

		assert.Equal(t, 2, st.Len())
		assert.Greater(t, p1.ZIndex, p0.ZIndex)
	})

	t.Run("set_at_occupied_depth_clears_that_depth_and_deeper", func(t *testing.T) {
		t.Parallel()

		st := hover.NewStack()
		p0 := &secondbrain.Popover{ID: "p0"}
		p1 := &secondbrain.Popover{ID: "p1"}
		p2 := &secondbrain.Popover{ID: "p2"}
		st.Set(0, p0)
		st.Set(1, p1)
		st.Set(2, p2)

		replacement := &secondbrain.Popover{ID: "p1b"}
		cleared, effective := st.Set(1, replacement)

		assert.Equal(t, 1, effective)
		require.Len(t, cleared, 2)
		assert.Equal(t, "p1", cleared[0].ID)
		assert.Equal(t, "p2", cleared[1].ID)
		assert.False(t, p1.Active)
		assert.False(t, p2.Active)
		assert.True(t, p0.Active)
		assert.Equal(t, 2, st.Len())
	})

	t.Run("set_beyond_stack_end_clamps_to_next_free_slot", func(t *testing.T) {
		t.Parallel()

		st := hover.NewStack()
		p := &secondbrain.Popover{ID: "p"}

		cleared, effective := st.Set(5, p)

		assert.Empty(t, cleared)
		assert.Equal(t, 0, effective)
		assert.Equal(t, 0, p.Depth)
	})

	t.Run("clear_from_never_touches_shallower", func(t *testing.T) {
		t.Parallel()

		st := hover.NewStack()
		p0 := &secondbrain.Popover{ID: "p0"}
		p1 := &secondbrain.Popover{ID: "p1"}
		st.Set(0, p0)
		st.Set(1, p1)

		cleared := st.ClearFrom(1)

		require.Len(t, cleared, 1)
		assert.Equal(t, "p1", cleared[0].ID)
		assert.True(t, p0.Active)
		assert.Equal(t, 1, st.Len())
	})

	t.Run("clear_from_past_end_is_noop", func(t *testing.T) {
		t.Parallel()

		st := hover.NewStack()
		st.Set(0, &secondbrain.Popover{ID: "p0"})

		assert.Empty(t, st.ClearFrom(3))
		assert.Equal(t, 1, st.Len())
	})

	t.Run("clear_all_empties_the_stack", func(t *testing.T) {
		t.Parallel()

		st := hover.NewStack()
		p0 := &secondbrain.Popover{ID: "p0"}
		p1 := &secondbrain.Popover{ID: "p1"}
		st.Set(0, p0)
		st.Set(1, p1)

		cleared := st.ClearAll()

		assert.Len(t, cleared, 2)
		assert.Equal(t, 0, st.Len())
		assert.False(t, p0.Active)
		assert.False(t, p1.Active)
	})

	t.Run("at_reports_missing_depths", func(t *testing.T) {
		t.Parallel()

		st := hover.NewStack()
		st.Set(0, &secondbrain.Popover{ID: "p0"})

		p, ok := st.At(0)
		require.True(t, ok)
		assert.Equal(t, "p0", p.ID)

		_, ok = st.At(1)
		assert.False(t, ok)
		_, ok = st.At(-1)
		assert.False(t, ok)
	})
}
