package audio

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/handiism/trimtofit/internal/config"
)

func writeTaggedMP3(t *testing.T, path, artist, title string) {
	t.Helper()
	if err := os.WriteFile(path, []byte{}, 0644); err != nil {
		t.Fatal(err)
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	tag.SetArtist(artist)
	tag.SetTitle(title)
	if err := tag.Save(); err != nil {
		t.Fatal(err)
	}
	tag.Close()
}

func TestTagCopier_Copy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mp3")
	dst := filepath.Join(dir, "dst.mp3")

	writeTaggedMP3(t, src, "Some Artist", "Some Title")
	writeTaggedMP3(t, dst, "Stale Artist", "Stale Title")

	copier := NewTagCopier(config.DefaultSettings())
	if err := copier.Copy(src, dst); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	tag, err := id3v2.Open(dst, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	defer tag.Close()

	if got := tag.Artist(); got != "Some Artist" {
		t.Errorf("Artist = %q, want %q", got, "Some Artist")
	}
	if got := tag.Title(); got != "Some Title" {
		t.Errorf("Title = %q, want %q", got, "Some Title")
	}
}

func TestTagCopier_CopyMissingSource(t *testing.T) {
	copier := NewTagCopier(config.DefaultSettings())
	if err := copier.Copy(filepath.Join(t.TempDir(), "nope.mp3"), "dst.mp3"); err == nil {
		t.Error("Copy from missing source should fail")
	}
}

func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestTagCopier_ProcessArtworkResizes(t *testing.T) {
	settings := config.DefaultSettings()
	settings.CoverArtResize = true
	settings.CoverArtMaxSize = 100
	copier := NewTagCopier(settings)

	pic := id3v2.PictureFrame{
		MimeType: "image/png",
		Picture:  testJPEG(t, 400, 200),
	}

	got := copier.processArtwork(context.Background(), pic)
	if got.MimeType != "image/jpeg" {
		t.Errorf("MimeType = %q, want image/jpeg", got.MimeType)
	}

	img, _, err := image.Decode(bytes.NewReader(got.Picture))
	if err != nil {
		t.Fatalf("processed artwork not decodable: %v", err)
	}
	if img.Bounds().Dx() > 100 || img.Bounds().Dy() > 100 {
		t.Errorf("artwork not resized: %v", img.Bounds())
	}
}

func TestTagCopier_ProcessArtworkKeepsBadDataIntact(t *testing.T) {
	copier := NewTagCopier(config.DefaultSettings())

	pic := id3v2.PictureFrame{
		MimeType: "image/png",
		Picture:  []byte("not an image"),
	}

	got := copier.processArtwork(context.Background(), pic)
	if string(got.Picture) != "not an image" {
		t.Error("undecodable artwork should pass through unchanged")
	}
}
