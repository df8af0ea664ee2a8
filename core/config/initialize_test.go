package config

import (
	"io"
	"io/fs"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	memFs := afero.NewMemMapFs()
	logger := log.New(io.Discard)

	require.NoError(t, Initialize(memFs, "/etc/lsh", logger))

	// Check that the config is valid
	cfg, err := Load(memFs, "/etc/lsh")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	t.Run("LoadFilePath", func(t *testing.T) {
		cfg, err := Load(memFs, "/etc/lsh/config.yaml")
		assert.Nil(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("NoOverwrite", func(t *testing.T) {
		err := Initialize(memFs, "/etc/lsh", logger)
		assert.ErrorIs(t, err, fs.ErrExist)
	})
}

func TestLoad(t *testing.T) {
	cases := map[string]struct {
		contents string
		want     func(*Configuration)
		wantErr  bool
	}{
		"partial-keeps-defaults": {
			contents: "color: never\n",
			want:     func(c *Configuration) { c.Color = ColorNever },
		},
		"all-fields": {
			contents: "prompt: '$ '\ncolor: always\ntokenizer: posix\nlog_level: debug\n",
			want: func(c *Configuration) {
				c.Prompt = "$ "
				c.Color = ColorAlways
				c.Tokenizer = "posix"
				c.LogLevel = "debug"
			},
		},
		"unknown-field": {
			contents: "history: true\n",
			wantErr:  true,
		},
		"invalid-value": {
			contents: "tokenizer: regex\n",
			wantErr:  true,
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			memFs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(memFs, "/cfg/config.yaml", []byte(tc.contents), 0644))

			cfg, err := Load(memFs, "/cfg")
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := Default()
			tc.want(want)
			assert.Equal(t, want, cfg)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/nowhere")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
