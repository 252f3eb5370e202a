package mediastore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"amphomeus/internal/domain"
)

// File is one upload as received from a client.
type File struct {
	Name string
	Size int64
	Body io.Reader
}

type UploadResult struct {
	URL              string           `json:"url"`
	PublicID         string           `json:"publicId"`
	MediaType        domain.MediaType `json:"mediaType"`
	Format           string           `json:"format"`
	Width            *int             `json:"width,omitempty"`
	Height           *int             `json:"height,omitempty"`
	Bytes            int64            `json:"bytes"`
	ContentType      string           `json:"contentType"`
	OriginalFilename string           `json:"originalFilename"`
	CreatedAt        time.Time        `json:"createdAt"`
}

type DeleteResult struct {
	Result string `json:"result"`
}

// Object is a stored object as reported by List.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

type Client struct {
	s3  *s3.Client
	cfg Config
	log *zap.Logger
	now func() time.Time
}

func New(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
		// S3-compatible stores (MinIO, R2) reject the default trailing checksums
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	return &Client{s3: client, cfg: cfg, log: log, now: time.Now}, nil
}

func (c *Client) MaxUploadBytes() int64 {
	return c.cfg.maxUploadBytes()
}

// Upload stores f under a fresh key and reports what was stored. Oversized
// and empty files are rejected before any network call.
func (c *Client) Upload(ctx context.Context, f File) (*UploadResult, error) {
	limit := c.cfg.maxUploadBytes()
	if f.Size > limit {
		return nil, ErrPayloadTooLarge
	}
	if f.Size == 0 {
		return nil, ErrEmptyFile
	}

	data, err := io.ReadAll(io.LimitReader(f.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrPayloadTooLarge
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	mt := mimetype.Detect(data)
	mediaType, ok := classify(mt.String())
	if !ok {
		return nil, ErrUnsupportedMediaType
	}

	ext := mt.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(f.Name))
	}

	now := c.now().UTC()
	key := path.Join(c.cfg.folder(), now.Format("2006/01/02"), uuid.NewString()+ext)
	contentType := strings.SplitN(mt.String(), ";", 2)[0]

	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		c.log.Error("media upload failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	res := &UploadResult{
		URL:              c.cfg.publicURL(key),
		PublicID:         key,
		MediaType:        mediaType,
		Format:           strings.TrimPrefix(ext, "."),
		Bytes:            int64(len(data)),
		ContentType:      contentType,
		OriginalFilename: strings.TrimSuffix(filepath.Base(f.Name), filepath.Ext(f.Name)),
		CreatedAt:        now,
	}
	if mediaType == domain.MediaImage {
		if ic, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			res.Width, res.Height = &ic.Width, &ic.Height
		}
	}

	c.log.Info("media uploaded",
		zap.String("public_id", key),
		zap.String("content_type", contentType),
		zap.Int64("bytes", res.Bytes),
	)
	return res, nil
}

// Delete removes the object behind publicID. A key that is already gone
// reports "not found" rather than an error.
func (c *Client) Delete(ctx context.Context, publicID string) (*DeleteResult, error) {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return nil, ErrMissingPublicID
	}

	_, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return &DeleteResult{Result: "not found"}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}

	_, err = c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		c.log.Error("media delete failed", zap.String("public_id", publicID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}

	c.log.Info("media deleted", zap.String("public_id", publicID))
	return &DeleteResult{Result: "ok"}, nil
}

// List returns every object under the configured folder.
func (c *Client) List(ctx context.Context) ([]Object, error) {
	p := s3.NewListObjectsV2Paginator(c.s3, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.cfg.Bucket),
		Prefix: aws.String(c.cfg.folder() + "/"),
	})

	var out []Object
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, o := range page.Contents {
			out = append(out, Object{
				Key:          aws.ToString(o.Key),
				Size:         aws.ToInt64(o.Size),
				LastModified: aws.ToTime(o.LastModified),
			})
		}
	}
	return out, nil
}

func classify(contentType string) (domain.MediaType, bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return domain.MediaImage, true
	case strings.HasPrefix(contentType, "video/"):
		return domain.MediaVideo, true
	}
	return "", false
}
