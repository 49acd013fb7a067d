package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/elimu-ai/elimu/pkg/processing"
)

const DefaultMaxSize int64 = 50 * 1024 * 1024

var ErrPrivateAddress = errors.New("address is not publicly routable")

type Document struct {
	URI  string
	Name string

	Size    int64
	Content []byte
}

type Source struct {
	client  *http.Client
	maxSize int64

	publicOnly bool
}

type Option func(*Source)

func WithClient(client *http.Client) Option {
	return func(s *Source) {
		s.client = client
	}
}

func WithMaxSize(size int64) Option {
	return func(s *Source) {
		s.maxSize = size
	}
}

// WithPublicOnly refuses to fetch documents from loopback, private and
// link-local addresses, including after redirects.
func WithPublicOnly() Option {
	return func(s *Source) {
		s.publicOnly = true
	}
}

func New(options ...Option) *Source {
	s := &Source{
		client:  http.DefaultClient,
		maxSize: DefaultMaxSize,
	}

	for _, option := range options {
		option(s)
	}

	if s.publicOnly {
		s.client = publicClient(s.client)
	}

	return s
}

func (s *Source) MaxSize() int64 {
	return s.maxSize
}

// Open resolves a file:// URI, a bare path or an http(s) URL.
func (s *Source) Open(ctx context.Context, ref string) (*Document, error) {
	ref = strings.TrimSpace(ref)

	if ref == "" {
		return nil, processing.Errorf(processing.KindInvalidInput, "document", "invalid uri provided for text extraction")
	}

	u, err := url.Parse(ref)

	if err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return s.fetch(ctx, ref, u)

		case "file":
			p := u.Path

			if u.Host != "" && u.Host != "localhost" {
				p = "//" + u.Host + p
			}

			return s.read(ref, p)
		}
	}

	return s.read(ref, ref)
}

func (s *Source) read(ref, name string) (*Document, error) {
	info, err := os.Stat(name)

	if err != nil {
		if os.IsNotExist(err) {
			return nil, processing.NewError(processing.KindInvalidInput, "document", "file not found", err)
		}

		return nil, processing.NewError(processing.KindInvalidInput, "document", "file not accessible", err)
	}

	if info.IsDir() {
		return nil, processing.Errorf(processing.KindInvalidInput, "document", "%s is a directory", name)
	}

	if err := s.checkSize(info.Size()); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(name)

	if err != nil {
		return nil, processing.NewError(processing.KindExtractionFailed, "document", "failed to read file", err)
	}

	return &Document{
		URI:  ref,
		Name: filepath.Base(name),

		Size:    int64(len(data)),
		Content: data,
	}, nil
}

func (s *Source) fetch(ctx context.Context, ref string, u *url.URL) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)

	if err != nil {
		return nil, processing.NewError(processing.KindInvalidInput, "document", "invalid url", err)
	}

	resp, err := s.client.Do(req)

	if errors.Is(err, ErrPrivateAddress) {
		return nil, processing.NewError(processing.KindInvalidInput, "document", "document host is not allowed", err)
	}

	if err != nil {
		return nil, processing.NewError(processing.KindNetworkError, "document", "failed to fetch document", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, processing.Errorf(processing.KindInvalidInput, "document", "document not found")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, processing.Errorf(processing.KindNetworkError, "document", "unexpected status %d", resp.StatusCode)
	}

	if resp.ContentLength > 0 {
		if err := s.checkSize(resp.ContentLength); err != nil {
			return nil, err
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxSize+1))

	if err != nil {
		return nil, processing.NewError(processing.KindNetworkError, "document", "failed to read document", err)
	}

	if err := s.checkSize(int64(len(data))); err != nil {
		return nil, err
	}

	return &Document{
		URI:  ref,
		Name: path.Base(u.Path),

		Size:    int64(len(data)),
		Content: data,
	}, nil
}

func (s *Source) checkSize(size int64) error {
	if s.maxSize > 0 && size > s.maxSize {
		return &processing.Error{
			Kind: processing.KindInvalidInput,
			Op:   "document",

			Message: fmt.Sprintf("file too large (%d bytes, limit %d bytes)", size, s.maxSize),
		}
	}

	return nil
}

func publicClient(client *http.Client) *http.Client {
	var tr *http.Transport

	switch t := client.Transport.(type) {
	case nil:
		tr = http.DefaultTransport.(*http.Transport).Clone()
	case *http.Transport:
		tr = t.Clone()
	default:
		return client
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,

		Control: checkAddress,
	}

	tr.DialContext = dialer.DialContext

	c := *client
	c.Transport = tr

	return &c
}

// checkAddress runs after name resolution, so it sees the address actually dialed.
func checkAddress(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)

	if err != nil {
		return err
	}

	ip, err := netip.ParseAddr(host)

	if err != nil {
		return err
	}

	if !isPublic(ip) {
		return fmt.Errorf("%w: %s", ErrPrivateAddress, ip)
	}

	return nil
}

func isPublic(ip netip.Addr) bool {
	ip = ip.Unmap()

	return ip.IsGlobalUnicast() && !ip.IsPrivate()
}
