package restapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeListEnvelope(t *testing.T) {
	res, err := NormalizeList([]byte(`{"items":[{"id":"a"},{"id":"b"}],"totalResults":42}`))
	require.NoError(t, err)
	assert.True(t, res.Enveloped)
	assert.Equal(t, 42, res.TotalResults)
	assert.Len(t, res.Items, 2)
}

func TestNormalizeListBareArray(t *testing.T) {
	res, err := NormalizeList([]byte(`[{"id":"a"}]`))
	require.NoError(t, err)
	assert.False(t, res.Enveloped)
	assert.Equal(t, 0, res.TotalResults)
	assert.Len(t, res.Items, 1)
}

func TestNormalizeListUnexpectedShape(t *testing.T) {
	for _, body := range []string{`"nope"`, `123`, `null`, ``, `{"message":"hi"}`} {
		res, err := NormalizeList([]byte(body))
		require.NoError(t, err, body)
		assert.Empty(t, res.Items, body)
		assert.Equal(t, 0, res.TotalResults, body)
	}
}

func TestNormalizeListMalformed(t *testing.T) {
	_, err := NormalizeList([]byte(`[{"id":`))
	assert.Error(t, err)
}

func TestDecodeItemsSkipsBadRows(t *testing.T) {
	type row struct {
		ID string `json:"id"`
	}
	res, err := NormalizeList([]byte(`[{"id":"a"},{"id":5},{"id":"c"}]`))
	require.NoError(t, err)
	rows := DecodeItems[row](res)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].ID)
	assert.Equal(t, "c", rows[1].ID)
}
