package beacon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		want    string
		wantErr bool
	}{
		{name: "hello", data: `{"type":"hello"}`, want: "hello"},
		{name: "not json", data: `type=hello`, wantErr: true},
		{name: "missing type", data: `{"path":"/"}`, wantErr: true},
		{name: "numeric type", data: `{"type":3}`, wantErr: true},
		{name: "empty type", data: `{"type":""}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := messageType([]byte(tt.data))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedMessage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeClick(t *testing.T) {
	t.Parallel()

	ev, err := decodeClick([]byte(`{"type":"click","target":{"tag":"span","parent":{"tag":"button","id":"add","class":"btn"}}}`))
	require.NoError(t, err)
	require.NotNil(t, ev.Target.Parent)
	assert.Equal(t, "button", ev.Target.Parent.Tag)
	assert.Equal(t, "add", ev.Target.Parent.ID)

	_, err = decodeClick([]byte(`{"type":"click"}`))
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestDecodeClick_BoundsAncestors(t *testing.T) {
	t.Parallel()

	raw := strings.Repeat(`{"tag":"div","parent":`, 100) + `null` + strings.Repeat(`}`, 100)
	ev, err := decodeClick([]byte(`{"type":"click","target":` + raw + `}`))
	require.NoError(t, err)

	depth := 0
	for el := ev.Target; el != nil; el = el.Parent {
		depth++
	}
	assert.Equal(t, maxElementDepth, depth)
}

func TestDecodeEvent(t *testing.T) {
	t.Parallel()

	typ, name, meta, err := decodeEvent([]byte(`{"type":"event","eventType":"search","eventName":"search_query","metadata":{"query":"pizza","results":4}}`))
	require.NoError(t, err)
	assert.Equal(t, "search", typ)
	assert.Equal(t, "search_query", name)
	assert.Equal(t, "pizza", meta["query"])
	assert.EqualValues(t, 4, meta["results"])

	_, _, meta, err = decodeEvent([]byte(`{"eventType":"a","eventName":"b","metadata":[1]}`))
	require.NoError(t, err)
	assert.Nil(t, meta)

	_, _, _, err = decodeEvent([]byte(`{"eventType":"a"}`))
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestDecodeScroll(t *testing.T) {
	t.Parallel()

	pos := decodeScroll([]byte(`{"top":250.5,"documentHeight":3000,"viewportHeight":800}`))
	assert.InDelta(t, 250.5, pos.Top, 0.001)
	assert.InDelta(t, 3000, pos.DocumentHeight, 0.001)
	assert.InDelta(t, 800, pos.ViewportHeight, 0.001)
}
