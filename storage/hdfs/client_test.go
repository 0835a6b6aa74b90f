package hdfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeName(t *testing.T) {
	cases := map[string]string{
		"song.mp3":             "song.mp3",
		"../../etc/passwd":     "passwd",
		`C:\music\My Song.mp3`: "My_Song.mp3",
		"...":                  "track",
		"":                     "track",
		"a b/c d.flac":         "c_d.flac",
	}
	for in, want := range cases {
		assert.Equal(t, want, SafeName(in), in)
	}
}
