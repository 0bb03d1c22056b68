// Package ytdlp wraps github.com/lrstanley/go-ytdlp for the video intake
// and transcript acquisition stages: metadata lookup, caption listing and
// download, and scoped audio extraction for the speech-to-text fallback.
package ytdlp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	goytdlp "github.com/lrstanley/go-ytdlp"

	"github.com/videolearn/backend/internal/logger"
)

// Metadata mirrors the subset of yt-dlp's extracted info the intake stage
// needs to populate a Video row.
type Metadata struct {
	VideoID     string
	Title       string
	Duration    float64
	URL         string
	Thumbnail   string
	Description string
	Language    string
}

// Caption is one subtitle track offered for a video, keyed by language code.
type Caption struct {
	Language string
	URL      string
	Ext      string
}

type Client struct {
	log            *logger.Logger
	socketTimeout  time.Duration
	tempDir        string
	installChecked bool
}

func NewClient(log *logger.Logger, socketTimeoutSeconds int, tempDir string) *Client {
	if socketTimeoutSeconds <= 0 {
		socketTimeoutSeconds = 3
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Client{
		log:           log.With("client", "ytdlp"),
		socketTimeout: time.Duration(socketTimeoutSeconds) * time.Second,
		tempDir:       tempDir,
	}
}

// ensureInstalled installs yt-dlp into the local cache on first use, mirroring
// the pattern of every go-ytdlp example program.
func (c *Client) ensureInstalled(ctx context.Context) error {
	if c.installChecked {
		return nil
	}
	if _, err := goytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("install yt-dlp: %w", err)
	}
	c.installChecked = true
	return nil
}

// FetchMetadata extracts id/title/duration/thumbnail/description without
// downloading media, equivalent to the reference implementation's
// VideoProcessor.extract_video_info_async. Metadata.Language is not
// populated; it is always returned empty.
func (c *Client) FetchMetadata(ctx context.Context, url string) (*Metadata, error) {
	if err := c.ensureInstalled(ctx); err != nil {
		return nil, err
	}

	dl := goytdlp.New().
		SkipDownload().
		PrintJSON().
		NoProgress().
		NoPlaylist().
		NoWarnings().
		Quiet().
		GeoBypass().
		NoCheckCertificates().
		SocketTimeout(int(c.socketTimeout.Seconds()))

	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp metadata extraction: %w", err)
	}

	infos, err := result.GetExtractedInfo()
	if err != nil || len(infos) == 0 {
		return nil, fmt.Errorf("yt-dlp returned no extracted info for %s", url)
	}
	info := infos[0]

	meta := &Metadata{URL: url}
	if info.ID != "" {
		meta.VideoID = info.ID
	}
	if info.Title != nil {
		meta.Title = *info.Title
	}
	if info.Duration != nil {
		meta.Duration = *info.Duration
	}
	if info.Thumbnail != nil {
		meta.Thumbnail = *info.Thumbnail
	}
	if info.Description != nil {
		meta.Description = *info.Description
	}
	return meta, nil
}

// ListCaptions returns the manual (writtenCaptions) or automatic captions
// yt-dlp knows about for url, automatic captions reported only when manual
// ones don't exist for the requested language.
func (c *Client) ListCaptions(ctx context.Context, url, language string) ([]Caption, error) {
	if err := c.ensureInstalled(ctx); err != nil {
		return nil, err
	}

	dl := goytdlp.New().
		SkipDownload().
		PrintJSON().
		NoProgress().
		NoPlaylist().
		NoWarnings().
		Quiet().
		WriteSubs().
		WriteAutoSubs().
		SubFormat("vtt").
		SubLangs(language)

	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp caption listing: %w", err)
	}

	infos, err := result.GetExtractedInfo()
	if err != nil || len(infos) == 0 {
		return nil, fmt.Errorf("yt-dlp returned no extracted info for %s", url)
	}
	info := infos[0]

	var captions []Caption
	for _, track := range info.Subtitles[language] {
		captions = append(captions, Caption{Language: language, URL: track.URL, Ext: "vtt"})
	}
	if len(captions) == 0 {
		for _, track := range info.AutomaticCaptions[language] {
			captions = append(captions, Caption{Language: language, URL: track.URL, Ext: "vtt"})
		}
	}
	return captions, nil
}

// ExtractAudio downloads bestaudio and transcodes to mp3 in a per-call scoped
// temp file, returning its path. The caller must remove the returned path;
// cleanup is not automatic here because the caller streams the file to the
// transcription client before discarding it.
func (c *Client) ExtractAudio(ctx context.Context, url string) (path string, cleanup func(), err error) {
	if err := c.ensureInstalled(ctx); err != nil {
		return "", nil, err
	}

	outTmpl := filepath.Join(c.tempDir, fmt.Sprintf("videolearn-audio-%s.%%(ext)s", uuid.New().String()))

	dl := goytdlp.New().
		Format("bestaudio/best").
		ExtractAudio().
		AudioFormat("mp3").
		NoPlaylist().
		NoProgress().
		NoWarnings().
		Quiet().
		Output(outTmpl)

	_, runErr := dl.Run(ctx, url)
	if runErr != nil {
		return "", nil, fmt.Errorf("yt-dlp audio extraction: %w", runErr)
	}

	finalPath := outTmpl[:len(outTmpl)-len("%(ext)s")] + "mp3"
	if _, statErr := os.Stat(finalPath); statErr != nil {
		return "", nil, fmt.Errorf("expected audio file not found at %s: %w", finalPath, statErr)
	}

	cleanup = func() {
		if rmErr := os.Remove(finalPath); rmErr != nil && !os.IsNotExist(rmErr) {
			c.log.Warn("failed to remove temp audio file", "path", finalPath, "error", rmErr)
		}
	}
	return finalPath, cleanup, nil
}
