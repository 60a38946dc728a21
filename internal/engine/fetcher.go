package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/tartampluch/go-patro/internal/config"
)

// AddressBook locates a remote vCard collection.
type AddressBook struct {
	URL  string
	User string
	Pass string
}

// VCardFetcher retrieves the vCards of a remote address book.
type VCardFetcher interface {
	Fetch(ctx context.Context, book AddressBook) (io.ReadCloser, error)
}

// HTTPFetcher downloads address books from CardDAV servers or plain .vcf URLs.
type HTTPFetcher struct {
	Client *http.Client

	// MaxBytes bounds the body; a larger address book is an error, not a
	// truncated one.
	MaxBytes int64
}

// NewHTTPFetcher returns a fetcher with the default timeout and size cap.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client:   &http.Client{Timeout: config.HTTPTimeout},
		MaxBytes: config.MaxHTTPResponseSize,
	}
}

// Fetch downloads book. A collection URL (ending in "/") is asked for its
// export, which CardDAV servers answer with every card in one stream.
func (f *HTTPFetcher) Fetch(ctx context.Context, book AddressBook) (io.ReadCloser, error) {
	u, err := exportURL(book.URL)
	if err != nil {
		return nil, err
	}

	log := slog.With(
		config.LogKeyComponent, config.CompFetcher,
		config.LogKeyURL, logURL(u),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRequestBuild, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.MimeVCard)
	if book.User != "" || book.Pass != "" {
		req.SetBasicAuth(book.User, book.Pass)
	}

	log.Debug(config.MsgFetchStart, config.LogKeyUser, book.User)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchNetwork, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn(config.MsgFetchRejected, config.LogKeyStatus, resp.StatusCode)
		return nil, fmt.Errorf("%s: %s", config.ErrFetchStatus, resp.Status)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = config.MaxHTTPResponseSize
	}
	if resp.ContentLength > limit {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s: %d > %d", config.ErrFetchTooLarge, resp.ContentLength, limit)
	}

	log.Info(config.MsgFetchOK, config.LogKeySizeBytes, resp.ContentLength)
	return &cappedBody{body: resp.Body, left: limit}, nil
}

// exportURL validates raw and adds the export query to collection URLs.
func exportURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New(config.ErrInvalidURL)
	}

	if strings.HasSuffix(u.Path, "/") {
		q := u.Query()
		if !q.Has(config.QueryExport) {
			q.Set(config.QueryExport, "")
			u.RawQuery = q.Encode()
		}
	}
	return u, nil
}

// logURL drops credentials and the query, which may carry tokens.
func logURL(u *url.URL) string {
	return u.Scheme + "://" + u.Host + u.Path
}

// cappedBody reads at most left bytes and fails past that, so a huge
// address book never decodes as a silently truncated one.
type cappedBody struct {
	body io.ReadCloser
	left int64
}

func (c *cappedBody) Read(p []byte) (int, error) {
	if c.left <= 0 {
		// One more byte tells a body of exactly the limit from a longer one.
		var extra [1]byte
		if n, _ := io.ReadFull(c.body, extra[:]); n > 0 {
			return 0, errors.New(config.ErrFetchTooLarge)
		}
		return 0, io.EOF
	}
	if int64(len(p)) > c.left {
		p = p[:c.left]
	}
	n, err := c.body.Read(p)
	c.left -= int64(n)
	return n, err
}

func (c *cappedBody) Close() error {
	return c.body.Close()
}
