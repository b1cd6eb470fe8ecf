package fileproxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"

// ErrPDFNotFound means neither the target nor its .pdf sibling is a PDF.
var ErrPDFNotFound = errors.New("PDF not found for the requested resource")

// UpstreamError is a non-2xx answer from the file host.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("file not found on the source server (status %d)", e.StatusCode)
}

// Download is an open PDF stream. The caller must close Body.
type Download struct {
	Body        io.ReadCloser
	ContentType string
	Filename    string
	Source      string
}

// CheckResult is the JSON answer of an availability check.
type CheckResult struct {
	Success   bool   `json:"success"`
	Candidate string `json:"candidate,omitempty"`
	Challenge bool   `json:"challenge,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Proxy fetches allow-listed files.
type Proxy struct {
	http   *resty.Client
	allow  AllowList
	logger *logging.ChanneledLogger
}

// NewProxy creates a proxy for files on allow's host.
func NewProxy(allow AllowList, timeout time.Duration, logger *logging.ChanneledLogger) *Proxy {
	return &Proxy{
		http:   resty.New().SetTimeout(timeout),
		allow:  allow,
		logger: logger,
	}
}

// AllowList returns the host rules in effect.
func (p *Proxy) AllowList() AllowList { return p.allow }

// Open returns a stream for target, or for its .pdf sibling when target is
// an image. Callers validate target with AllowStream first.
func (p *Proxy) Open(ctx context.Context, target *url.URL) (*Download, error) {
	resp, err := p.http.R().SetContext(ctx).SetDoNotParseResponse(true).Get(target.String())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target.Host, err)
	}
	body := resp.RawBody()
	if !resp.IsSuccess() || body == nil {
		closeQuietly(body)
		return nil, &UpstreamError{StatusCode: resp.StatusCode()}
	}

	ct := resp.Header().Get("Content-Type")
	if isPDF(ct) {
		return &Download{Body: body, ContentType: ct, Filename: AttachmentName(target), Source: "remote"}, nil
	}
	closeQuietly(body)

	candidate := PDFCandidate(target)
	if candidate == "" {
		return nil, ErrPDFNotFound
	}
	p.logger.Proxy().Debug("Target is not a PDF, trying sibling", "candidate", candidate)

	resp, err = p.http.R().SetContext(ctx).SetDoNotParseResponse(true).Get(candidate)
	if err != nil {
		return nil, ErrPDFNotFound
	}
	body = resp.RawBody()
	ct = resp.Header().Get("Content-Type")
	if !resp.IsSuccess() || body == nil || !isPDF(ct) {
		closeQuietly(body)
		return nil, ErrPDFNotFound
	}

	cu, _ := url.Parse(candidate)
	return &Download{Body: body, ContentType: ct, Filename: AttachmentName(cu), Source: "remote-pdf-candidate"}, nil
}

type checkResponse struct {
	pdf       bool
	challenge bool
}

// Check reports whether target resolves to a PDF, trying progressively
// more browser-like requests. It returns the result and the HTTP status
// to answer with.
func (p *Proxy) Check(ctx context.Context, target *url.URL) (CheckResult, int) {
	src := target.String()
	browser := map[string]string{
		"User-Agent": browserUserAgent,
		"Referer":    target.Scheme + "://" + target.Host,
	}

	head := p.inspect(ctx, http.MethodHead, src, nil)
	if head.pdf {
		return CheckResult{Success: true}, http.StatusOK
	}
	head2 := p.inspect(ctx, http.MethodHead, src, browser)
	if head2.pdf {
		return CheckResult{Success: true}, http.StatusOK
	}
	if head.challenge || head2.challenge {
		return challenged(), http.StatusOK
	}

	get := p.inspect(ctx, http.MethodGet, src, nil)
	if get.pdf {
		return CheckResult{Success: true}, http.StatusOK
	}
	get2 := p.inspect(ctx, http.MethodGet, src, browser)
	if get2.pdf {
		return CheckResult{Success: true}, http.StatusOK
	}
	if get.challenge || get2.challenge {
		return challenged(), http.StatusOK
	}

	if candidate := PDFCandidate(target); candidate != "" {
		if p.inspect(ctx, http.MethodHead, candidate, nil).pdf || p.inspect(ctx, http.MethodHead, candidate, browser).pdf {
			return CheckResult{Success: true, Candidate: candidate}, http.StatusOK
		}
	}

	return CheckResult{Success: false, Message: "PDF not found"}, http.StatusNotFound
}

func challenged() CheckResult {
	return CheckResult{Success: false, Challenge: true, Message: "Remote host requires browser challenge"}
}

func (p *Proxy) inspect(ctx context.Context, method, target string, headers map[string]string) checkResponse {
	req := p.http.R().SetContext(ctx).SetDoNotParseResponse(true)
	if headers != nil {
		req.SetHeaders(headers)
	}
	resp, err := req.Execute(method, target)
	if err != nil {
		p.logger.Proxy().Debug("Download check request failed", "method", method, "error", err.Error())
		return checkResponse{}
	}
	closeQuietly(resp.RawBody())

	h := resp.Header()
	return checkResponse{
		pdf:       resp.IsSuccess() && isPDF(h.Get("Content-Type")),
		challenge: h.Get("x-vercel-mitigated") != "" || h.Get("x-vercel-challenge-token") != "",
	}
}

func isPDF(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "pdf")
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
