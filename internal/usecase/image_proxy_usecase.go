package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/storage"
	"go.uber.org/zap"
)

const (
	PlaceholderImage  = "/placeholder.jpg"
	ImageCacheControl = "public, max-age=31536000, immutable"
	defaultProxyLimit = 10 << 20
	proxyKeyPrefix    = "proxy/"
)

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ProxyConfig struct {
	MaxBytes  int64
	Timeout   time.Duration
	UserAgent string
}

// ProxyResult describes the response the proxy endpoint should send.
type ProxyResult struct {
	Status      int
	ContentType string
	Body        []byte
	// Redirect is set when the client should be sent elsewhere instead.
	Redirect string
	// Message is the plain-text body of an error response.
	Message string
	Cached  bool
}

type ImageProxyUseCase struct {
	client  HTTPDoer
	store   storage.ObjectStore
	metrics *metrics.MetricsManager
	cfg     ProxyConfig
	logger  *zap.Logger
}

func NewImageProxyUseCase(client HTTPDoer, store storage.ObjectStore, m *metrics.MetricsManager, cfg ProxyConfig, log *zap.Logger) *ImageProxyUseCase {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultProxyLimit
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &ImageProxyUseCase{client: client, store: store, metrics: m, cfg: cfg, logger: log}
}

func proxyKey(imageURL string) string {
	sum := sha256.Sum256([]byte(imageURL))
	return proxyKeyPrefix + hex.EncodeToString(sum[:])
}

func (uc *ImageProxyUseCase) Fetch(ctx context.Context, imageURL string) *ProxyResult {
	res := uc.fetch(ctx, imageURL)
	if uc.metrics != nil {
		uc.metrics.ImageProxyResponses.WithLabelValues(outcome(res)).Inc()
	}
	return res
}

func outcome(res *ProxyResult) string {
	switch {
	case res.Cached:
		return "cache_hit"
	case res.Redirect != "":
		return "placeholder"
	case res.Status == http.StatusOK:
		return "fetched"
	default:
		return "rejected"
	}
}

func (uc *ImageProxyUseCase) fetch(ctx context.Context, imageURL string) *ProxyResult {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return &ProxyResult{Status: http.StatusBadRequest, Message: "Missing image URL"}
	}
	parsed, err := url.Parse(imageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return &ProxyResult{Status: http.StatusBadRequest, Message: "Invalid image URL"}
	}

	key := proxyKey(imageURL)
	if uc.store != nil {
		obj, err := uc.store.Get(ctx, key)
		if err == nil {
			return &ProxyResult{Status: http.StatusOK, ContentType: obj.ContentType, Body: obj.Data, Cached: true}
		}
		if !errors.Is(err, storage.ErrObjectNotFound) {
			uc.logger.Warn("Failed to read proxied image from object store", zap.String("key", key), zap.Error(err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return &ProxyResult{Status: http.StatusBadRequest, Message: "Invalid image URL"}
	}
	req.Header.Set("User-Agent", uc.cfg.UserAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := uc.client.Do(req)
	if err != nil {
		uc.logger.Warn("Image proxy upstream request failed", zap.String("url", imageURL), zap.Error(err))
		return &ProxyResult{Status: http.StatusTemporaryRedirect, Redirect: PlaceholderImage}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ProxyResult{Status: resp.StatusCode, Message: "Failed to fetch image"}
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "text/html" {
		return &ProxyResult{Status: http.StatusTemporaryRedirect, Redirect: PlaceholderImage}
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return &ProxyResult{Status: http.StatusBadRequest, Message: "Invalid image content type"}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, uc.cfg.MaxBytes+1))
	if err != nil {
		uc.logger.Warn("Failed to read upstream image", zap.String("url", imageURL), zap.Error(err))
		return &ProxyResult{Status: http.StatusTemporaryRedirect, Redirect: PlaceholderImage}
	}
	if int64(len(body)) > uc.cfg.MaxBytes {
		return &ProxyResult{Status: http.StatusRequestEntityTooLarge, Message: fmt.Sprintf("Image larger than %d bytes", uc.cfg.MaxBytes)}
	}

	if uc.store != nil {
		if err := uc.store.Put(ctx, key, &storage.Object{ContentType: contentType, Data: body}); err != nil {
			uc.logger.Warn("Failed to store proxied image", zap.String("key", key), zap.Error(err))
		}
	}
	return &ProxyResult{Status: http.StatusOK, ContentType: contentType, Body: body}
}
