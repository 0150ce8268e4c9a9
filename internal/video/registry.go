package video

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tobi-oke/clipchat-backend/internal/shared"
)

// Upload carries the raw bytes plus the metadata the upload layer declares.
// Duration probing and transcoding stay outside the core; the caller tells
// us what it decoded.
type Upload struct {
	Data            []byte
	Filename        string
	Format          string
	DurationSeconds float64
}

// Sampler pre-samples still frames from a video payload. Decoding is an
// external concern; when no sampler is configured the raw container bytes
// are stored as a single segment.
type Sampler interface {
	Sample(ctx context.Context, data []byte, format Format, maxFrames int) ([][]byte, error)
}

type Config struct {
	MaxDurationSeconds float64
	MaxSizeBytes       int64
	MaxFrames          int
}

// Registry validates uploads and stores their payloads. All checks run
// before a handle is created or a byte is stored, so a rejected upload
// never consumes external-model quota or leaves residue.
type Registry struct {
	store   *Store
	sampler Sampler
	cfg     Config
	logger  *slog.Logger
}

func NewRegistry(store *Store, sampler Sampler, cfg Config, logger *slog.Logger) *Registry {
	if cfg.MaxDurationSeconds == 0 {
		cfg.MaxDurationSeconds = 120
	}
	if cfg.MaxFrames == 0 {
		cfg.MaxFrames = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		store:   store,
		sampler: sampler,
		cfg:     cfg,
		logger:  logger.With("component", "video-registry"),
	}
}

// Ingest validates an upload and, on success, stores its payload under a
// fresh handle and returns the artifact. Any failure returns a
// ValidationError with nothing stored.
func (r *Registry) Ingest(ctx context.Context, up Upload) (*Artifact, error) {
	if len(up.Data) == 0 {
		return nil, shared.NewValidationError("file", "empty payload")
	}

	format, ok := ParseFormat(up.Format)
	if !ok {
		return nil, shared.NewValidationError("format", fmt.Sprintf("unsupported format %q (supported: mp4, mov, avi)", up.Format))
	}

	if !sniffContainer(up.Data, format) {
		return nil, shared.NewValidationError("file", "payload unreadable: content does not match declared format")
	}

	if up.DurationSeconds <= 0 {
		return nil, shared.NewValidationError("duration_seconds", "must be positive")
	}
	if up.DurationSeconds > r.cfg.MaxDurationSeconds {
		return nil, shared.NewValidationError("duration_seconds",
			fmt.Sprintf("%.1fs exceeds the %.0fs limit", up.DurationSeconds, r.cfg.MaxDurationSeconds))
	}

	if r.cfg.MaxSizeBytes > 0 && int64(len(up.Data)) > r.cfg.MaxSizeBytes {
		return nil, shared.NewValidationError("file", fmt.Sprintf("size exceeds %d bytes", r.cfg.MaxSizeBytes))
	}

	segments := [][]byte{up.Data}
	if r.sampler != nil {
		sampled, err := r.sampler.Sample(ctx, up.Data, format, r.cfg.MaxFrames)
		if err != nil {
			return nil, shared.NewValidationError("file", "payload unreadable: "+err.Error())
		}
		if len(sampled) == 0 {
			return nil, shared.NewValidationError("file", "payload unreadable: no frames could be sampled")
		}
		segments = sampled
	}

	artifact := &Artifact{
		ID:              shared.NewID("vid_"),
		Handle:          shared.NewID("vh_"),
		Filename:        up.Filename,
		Format:          format,
		DurationSeconds: up.DurationSeconds,
		SizeBytes:       int64(len(up.Data)),
		UploadedAt:      time.Now().UTC(),
	}

	if err := r.store.Put(ctx, artifact.Handle, segments); err != nil {
		return nil, fmt.Errorf("store payload: %w", err)
	}

	r.logger.Debug("video ingested",
		"artifact_id", artifact.ID,
		"format", artifact.Format,
		"duration_s", artifact.DurationSeconds,
		"segments", len(segments))

	return artifact, nil
}

// Remove deletes the stored payload for a replaced or torn-down artifact.
func (r *Registry) Remove(ctx context.Context, handle string) error {
	if handle == "" {
		return nil
	}
	return r.store.Delete(ctx, handle)
}

// sniffContainer checks the container signature so an upload with a lying
// extension fails before a handle exists.
func sniffContainer(data []byte, format Format) bool {
	if len(data) < 12 {
		return false
	}
	switch format {
	case FormatMP4, FormatMOV:
		return string(data[4:8]) == "ftyp"
	case FormatAVI:
		return string(data[:4]) == "RIFF" && string(data[8:12]) == "AVI "
	}
	return false
}
