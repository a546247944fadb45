package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"smite-parser/internal/constants"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// Source opens combat logs from the local filesystem or over http(s).
type Source struct {
	client *fasthttp.Client
	logger zerolog.Logger
}

func New(logger zerolog.Logger) *Source {
	return &Source{
		client: &fasthttp.Client{
			MaxConnsPerHost:     4,
			ReadTimeout:         constants.RemoteSourceTimeout,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
			MaxResponseBodySize: 512 * 1024 * 1024,
		},
		logger: logger,
	}
}

func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Name is the base name of the location without its extension.
func Name(location string) string {
	base := filepath.Base(location)
	if IsRemote(location) {
		if u, err := url.Parse(location); err == nil {
			base = path.Base(u.Path)
		}
	}
	if base == "" || base == "/" || base == "." {
		return "remote"
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// Open returns a reader over the log at location. The caller closes it.
func (s *Source) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !IsRemote(location) {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return f, nil
	}
	body, err := s.fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

func (s *Source) fetch(ctx context.Context, location string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RemoteSourceTimeout)
	defer cancel()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(location)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline, _ := ctx.Deadline()
	if err := s.client.DoDeadline(req, resp, deadline); err != nil {
		s.logger.Error().Err(err).Str("url", location).Msg("failed to fetch remote log")
		return nil, fmt.Errorf("failed to fetch remote log: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("failed to fetch remote log: status %d", resp.StatusCode())
	}

	// resp is released on return
	body := append([]byte(nil), resp.Body()...)
	s.logger.Debug().Str("url", location).Int("bytes", len(body)).Msg("remote log fetched")
	return body, nil
}
