package util

import "testing"

func TestExtFromFilenameOrMime(t *testing.T) {
	cases := []struct {
		filename string
		mime     string
		want     string
	}{
		{"song.MP3", "audio/mpeg", ".mp3"},
		{"clip", "video/mp4", ".mp4"},
		{"photo", "image/jpeg", ".jpg"},
		{"slip", "application/pdf", ".pdf"},
		{"mystery", "application/octet-stream", ".bin"},
		{"archive.tar.gz", "", ".gz"},
	}
	for _, tc := range cases {
		if got := ExtFromFilenameOrMime(tc.filename, tc.mime); got != tc.want {
			t.Errorf("ExtFromFilenameOrMime(%q, %q) = %q, want %q", tc.filename, tc.mime, got, tc.want)
		}
	}
}
