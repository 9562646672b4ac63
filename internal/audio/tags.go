package audio

import (
	"context"
	"fmt"

	"github.com/bogem/id3v2"
	"github.com/handiism/trimtofit/internal/config"
	ioutils "github.com/handiism/trimtofit/internal/io"
)

// TagCopier transfers ID3v2 tags from a source MP3 onto a processed output.
//
// FFmpeg drops or mangles ID3 frames depending on the operation, so the
// processor re-applies the source's tags after encoding. Embedded cover art
// can be downscaled and normalized to JPEG on the way through.
//
// Example:
//
//	copier := NewTagCopier(settings)
//	err := copier.Copy("original.mp3", "original_trimmed.mp3")
type TagCopier struct {
	images     *ioutils.ImageService
	resize     bool
	maxSize    int
	convertJPG bool
}

// NewTagCopier creates a TagCopier from settings.
func NewTagCopier(settings *config.Settings) *TagCopier {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	return &TagCopier{
		images:     ioutils.NewImageService(),
		resize:     settings.CoverArtResize,
		maxSize:    settings.CoverArtMaxSize,
		convertJPG: settings.ConvertCoverArtJPG,
	}
}

// Copy replaces dst's ID3v2 frames with src's.
//
// All frames are carried over verbatim except attached pictures, which pass
// through artwork processing. dst's existing frames are dropped first so
// stale FFmpeg-written metadata does not linger.
func (t *TagCopier) Copy(src, dst string) error {
	srcTag, err := id3v2.Open(src, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("read tags from %s: %w", src, err)
	}

	frames := make(map[string][]id3v2.Framer)
	for id, fs := range srcTag.AllFrames() {
		frames[id] = append([]id3v2.Framer(nil), fs...)
	}
	if err := srcTag.Close(); err != nil {
		return fmt.Errorf("close %s: %w", src, err)
	}

	dstTag, err := id3v2.Open(dst, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tags on %s: %w", dst, err)
	}
	defer dstTag.Close()

	dstTag.DeleteAllFrames()

	ctx := context.Background()
	for id, fs := range frames {
		for _, frame := range fs {
			if pic, ok := frame.(id3v2.PictureFrame); ok {
				dstTag.AddFrame(id, t.processArtwork(ctx, pic))
				continue
			}
			dstTag.AddFrame(id, frame)
		}
	}

	if err := dstTag.Save(); err != nil {
		return fmt.Errorf("save tags to %s: %w", dst, err)
	}
	return nil
}

// processArtwork applies the configured resize/convert steps to an attached
// picture. Processing failures fall back to the original bytes; bad artwork
// should never block a tag copy.
func (t *TagCopier) processArtwork(ctx context.Context, pic id3v2.PictureFrame) id3v2.PictureFrame {
	if t.resize && t.maxSize > 0 {
		if resized, err := t.images.ResizeImage(ctx, pic.Picture, t.maxSize, t.maxSize); err == nil {
			pic.Picture = resized
			pic.MimeType = "image/jpeg"
			return pic
		}
	}
	if t.convertJPG {
		if jpg, err := t.images.ConvertToJPEG(ctx, pic.Picture); err == nil {
			pic.Picture = jpg
			pic.MimeType = "image/jpeg"
		}
	}
	return pic
}
