package comppare

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// requestBody is the closed set of body shapes a call can send. Each
// operation picks its variant explicitly.
type requestBody interface {
	apply(req *resty.Request)
}

// noBody sends no request body.
type noBody struct{}

func (noBody) apply(*resty.Request) {}

// jsonBody sends payload encoded as JSON.
type jsonBody struct {
	payload any
}

func (b jsonBody) apply(req *resty.Request) {
	req.SetHeader("Content-Type", "application/json")
	req.SetBody(b.payload)
}

// filePart is a single file carried by a multipart body.
type filePart struct {
	field       string
	fileName    string
	contentType string
	reader      io.Reader
}

// multipartBody sends form fields together with one file. The body is
// written through a pipe while the request is in flight, so the file is
// never held in memory.
type multipartBody struct {
	fields map[string]string
	file   filePart
}

func (b multipartBody) apply(req *resty.Request) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(b.write(mw))
	}()

	req.SetHeader("Content-Type", mw.FormDataContentType())
	req.SetBody(pr)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (b multipartBody) write(mw *multipart.Writer) error {
	for name, value := range b.fields {
		if err := mw.WriteField(name, value); err != nil {
			return err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(b.file.field), quoteEscaper.Replace(b.file.fileName)))
	h.Set("Content-Type", b.file.contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, b.file.reader); err != nil {
		return err
	}

	return mw.Close()
}

// do executes a single request against path, carrying the session token
// when one is set, and decodes a successful body
// into out (when out is non-nil). The raw body is returned so callers can
// inspect responses that decode but are semantically invalid.
func (c *Client) do(ctx context.Context, method, path string, body requestBody, out any) ([]byte, error) {
	req := c.rest.R().SetContext(ctx)
	if token := c.Token(); token != "" {
		req.SetAuthToken(token)
	}
	body.apply(req)
	// Unblocks a streaming body writer when the request ends before the
	// body is consumed
	defer func() {
		if closer, ok := req.Body.(io.Closer); ok {
			closer.Close()
		}
	}()

	log := c.logger.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
	})
	log.Debug("sending request")

	resp, err := req.Execute(method, c.baseURL+path)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return nil, &NetworkError{Method: method, Path: path, Err: err}
	}

	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode(),
		"duration": resp.Time(),
	}).Debug("received response")

	raw := resp.Body()
	if !resp.IsSuccess() {
		return raw, newHTTPError(resp.StatusCode(), raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return raw, &DecodeError{Path: path, Err: err}
		}
	}

	return raw, nil
}
