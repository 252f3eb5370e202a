package mediastore

import "strings"

const DefaultMaxUploadBytes int64 = 10 << 20

// Config describes an S3-compatible bucket whose objects are served publicly
// under PublicBaseURL.
type Config struct {
	Endpoint       string
	Region         string
	Bucket         string
	AccessKey      string
	SecretKey      string
	PublicBaseURL  string
	Folder         string
	UsePathStyle   bool
	MaxUploadBytes int64
}

func (c Config) maxUploadBytes() int64 {
	if c.MaxUploadBytes <= 0 {
		return DefaultMaxUploadBytes
	}
	return c.MaxUploadBytes
}

func (c Config) folder() string {
	f := strings.Trim(c.Folder, "/")
	if f == "" {
		return "amphomeus"
	}
	return f
}

// publicURL joins the public base and an object key.
func (c Config) publicURL(key string) string {
	base := strings.TrimRight(c.PublicBaseURL, "/")
	if base == "" {
		base = strings.TrimRight(c.Endpoint, "/") + "/" + c.Bucket
	}
	return base + "/" + key
}
