package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "1024", want: 1024 * 1024},
		{in: "1 KiB", want: 1024},
		{in: "512MiB", want: 512 << 20},
		{in: "4 GiB", want: 4 << 30},
		{in: "4gib", want: 4 << 30},
		{in: " 2 TiB ", want: 2 << 40},
		{in: "1PiB", want: 1 << 50},
		{in: "", wantErr: true},
		{in: "4 GB", wantErr: true},
		{in: "4G", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "many GiB", wantErr: true},
		{in: "1.5GiB", wantErr: true},
		{in: "0.5 MiB", wantErr: true},
		{in: "9223372036854775807", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseSize(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
