package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMap_Value(t *testing.T) {
	v, err := JSONMap(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = JSONMap{"platform": "ios"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"platform":"ios"}`, string(v.([]byte)))
}

func TestJSONMap_Scan(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    JSONMap
		wantErr error
	}{
		{name: "null", in: nil, want: nil},
		{name: "bytes", in: []byte(`{"app_version":"1.2.0"}`), want: JSONMap{"app_version": "1.2.0"}},
		{name: "string", in: `{"model":"pixel"}`, want: JSONMap{"model": "pixel"}},
		{name: "decoded map", in: map[string]any{"a": true}, want: JSONMap{"a": true}},
		{name: "unsupported", in: 42, wantErr: ErrUnsupportedScanType},
		{name: "empty bytes", in: []byte{}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got JSONMap
			err := got.Scan(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	var bad JSONMap
	assert.Error(t, bad.Scan([]byte(`{`)))
}

func TestJSONMap_GetString(t *testing.T) {
	m := JSONMap{"platform": "android", "build": 12.0}
	assert.Equal(t, "android", m.GetString("platform"))
	assert.Empty(t, m.GetString("build"))
	assert.Empty(t, m.GetString("missing"))
}
