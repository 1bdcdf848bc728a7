package http

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/bft-labs/mediaship/internal/domain"
	"github.com/bft-labs/mediaship/internal/ports"
)

// Negotiator implements ports.Negotiator against the service's start
// endpoint.
type Negotiator struct {
	client   ports.HTTPClient
	endpoint Endpoint
	logger   ports.Logger
}

// NewNegotiator creates a Negotiator.
func NewNegotiator(client ports.HTTPClient, endpoint Endpoint, logger ports.Logger) *Negotiator {
	return &Negotiator{client: client, endpoint: endpoint, logger: logger}
}

// startResponse is the negotiation document; only the root's putURL
// attribute matters.
type startResponse struct {
	XMLName xml.Name
	PutURL  string `xml:"putURL,attr"`
}

// Negotiate posts the file metadata and returns the session URL.
func (n *Negotiator) Negotiate(ctx context.Context, params domain.UploadRequestParams, filename string) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	form := startForm(params, filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint.StartURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Close = true

	n.logger.Debug("negotiating upload session",
		ports.String("url", req.URL.String()),
		ports.String("filename", form.Get("filename")),
		ports.Bool("public", params.Public),
	)

	resp, err := n.client.Do(req)
	if err != nil {
		return "", &domain.TransportError{Op: "post start", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.TransportError{Op: "read start response", Err: err}
	}

	if resp.StatusCode/100 != 2 {
		return "", &domain.ServerError{
			Code:    strconv.Itoa(resp.StatusCode),
			Message: statusMessage(resp, body),
		}
	}

	putURL, err := parsePutURL(body)
	if err != nil {
		return "", domain.NewWrongResponse(err)
	}

	n.logger.Debug("upload session issued", ports.String("session_url", putURL))
	return putURL, nil
}

// startForm builds the negotiation form. The public flag uses the
// capitalized literals the service expects.
func startForm(params domain.UploadRequestParams, filename string) url.Values {
	form := url.Values{}
	form.Set("filename", filepath.Base(filename))
	form.Set("key", params.DeveloperKey)
	if params.Cookie != "" {
		form.Set("cookie", params.Cookie)
	}
	if len(params.Tags) > 0 {
		form.Set("tags", strings.Join(params.Tags, ","))
	}
	if params.Public {
		form.Set("public", "True")
	} else {
		form.Set("public", "False")
	}
	if c := params.Credentials; c != nil {
		form.Set("a_username", c.Username)
		form.Set("a_password", c.Password)
	}
	return form
}

// parsePutURL decodes a well-formed document and returns its root element's
// putURL attribute.
func parsePutURL(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charset.NewReaderLabel

	var doc startResponse
	if err := dec.Decode(&doc); err != nil {
		return "", fmt.Errorf("decode xml: %w", err)
	}

	// Anything other than whitespace, comments or processing instructions
	// after the root element makes the document malformed.
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return "", fmt.Errorf("unexpected element <%s> after root", t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return "", errors.New("unexpected text after root element")
			}
		}
	}

	if doc.PutURL == "" {
		return "", fmt.Errorf("root element <%s> has no putURL attribute", doc.XMLName.Local)
	}
	return doc.PutURL, nil
}

// statusMessage prefers the server's own text over the generic reason.
func statusMessage(resp *http.Response, body []byte) string {
	if msg := strings.TrimSpace(string(body)); msg != "" {
		if len(msg) > 512 {
			msg = msg[:512]
		}
		return msg
	}
	return reasonPhrase(resp)
}

// reasonPhrase returns the status line without its code.
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
