package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/imamik/vmpool/internal/platform/ovirt"
	"github.com/imamik/vmpool/internal/util/ptr"
	"github.com/imamik/vmpool/internal/vmpool"
)

func sampleResult() *vmpool.Result {
	return &vmpool.Result{
		Changed: true,
		ID:      "123e4567-e89b-12d3-a456-426614174000",
		VMPool: &ovirt.Pool{
			ID:            "123e4567-e89b-12d3-a456-426614174000",
			Name:          "pool1",
			Cluster:       &ovirt.Ref{ID: "c-1", Name: "c1"},
			Template:      &ovirt.Ref{ID: "t-1"},
			Size:          ptr.To[int64](2),
			PrestartedVMs: ptr.To[int64](1),
		},
	}
}

func TestResolveFormat(t *testing.T) {
	saveAndRestoreFactories(t)

	tests := []struct {
		name      string
		requested string
		terminal  bool
		want      outputFormat
		wantErr   bool
	}{
		{name: "explicit json", requested: "json", want: formatJSON},
		{name: "explicit yaml", requested: "yaml", terminal: true, want: formatYAML},
		{name: "explicit text", requested: "text", want: formatText},
		{name: "auto on terminal", terminal: true, want: formatText},
		{name: "auto when piped", want: formatJSON},
		{name: "unknown", requested: "table", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			isTerminal = func() bool { return tt.terminal }
			got, err := resolveFormat(tt.requested)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_JSON(t *testing.T) {
	t.Parallel()

	out, err := render(sampleResult(), "pool1", formatJSON)
	require.NoError(t, err)

	var got struct {
		Changed bool        `json:"changed"`
		ID      string      `json:"id"`
		VMPool  *ovirt.Pool `json:"vmpool"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Changed)
	assert.Equal(t, "pool1", got.VMPool.Name)
	assert.Equal(t, ptr.To[int64](2), got.VMPool.Size)
}

func TestRender_YAML(t *testing.T) {
	t.Parallel()

	out, err := render(sampleResult(), "pool1", formatYAML)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, true, got["changed"])
	assert.Equal(t, "123e4567-e89b-12d3-a456-426614174000", got["id"])
}

func TestRender_Text(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		res      *vmpool.Result
		contains []string
	}{
		{
			name:     "created pool",
			res:      sampleResult(),
			contains: []string{"vmpool: pool1", "changed", "123e4567", "c1", "t-1", "size:", "2"},
		},
		{
			name:     "check mode create",
			res:      &vmpool.Result{Changed: true},
			contains: []string{"changed", "not created in check mode"},
		},
		{
			name:     "nothing to remove",
			res:      &vmpool.Result{},
			contains: []string{"unchanged", "(none)"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := render(tt.res, "pool1", formatText)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestOutputFormat_ContentType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "application/json", formatJSON.contentType())
	assert.Equal(t, "application/yaml", formatYAML.contentType())
	assert.Equal(t, "text/plain", formatText.contentType())
}
