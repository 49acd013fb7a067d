package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/elimu-ai/elimu/pkg/processing"
)

const maxMemory = 32 << 20

func valueURI(r *http.Request) string {
	if val := r.FormValue("uri"); val != "" {
		return val
	}

	if val := r.FormValue("url"); val != "" {
		return val
	}

	return ""
}

func valueSubject(r *http.Request) string {
	return r.URL.Query().Get("subject")
}

func valueDocument(r *http.Request) string {
	return r.URL.Query().Get("document")
}

func valueConfig(r *http.Request, defaults processing.Config) (*processing.Config, error) {
	config := defaults

	val := r.FormValue("config")

	if val == "" {
		return &config, nil
	}

	if err := json.Unmarshal([]byte(val), &config); err != nil {
		return nil, processing.Wrap(err, processing.KindInvalidInput, "process", "invalid config")
	}

	return &config, nil
}

func readJson(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return processing.Wrap(err, processing.KindInvalidInput, "decode", "invalid request body")
	}

	return nil
}

type upload struct {
	Name string
	Path string

	ContentType string
}

// readDocument resolves the document of a process request. Remote documents
// are passed by uri, everything else is staged in a temporary directory.
func readDocument(r *http.Request) (*upload, func(), error) {
	cleanup := func() {}

	if ref := valueURI(r); ref != "" {
		u, err := url.Parse(ref)

		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return nil, cleanup, processing.Errorf(processing.KindInvalidInput, "process", "unsupported document uri: %s", ref)
		}

		return &upload{
			Name: filepath.Base(u.Path),
			Path: ref,
		}, cleanup, nil
	}

	name, contentType, body, err := readFile(r)

	if err != nil {
		return nil, cleanup, err
	}

	defer body.Close()

	name = filepath.Base(name)

	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, cleanup, processing.Errorf(processing.KindInvalidInput, "process", "document file name is required")
	}

	dir, err := os.MkdirTemp("", "elimu-*")

	if err != nil {
		return nil, cleanup, err
	}

	cleanup = func() { os.RemoveAll(dir) }

	path := filepath.Join(dir, name)

	f, err := os.Create(path)

	if err != nil {
		return nil, cleanup, err
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return nil, cleanup, uploadError(err)
	}

	if err := f.Close(); err != nil {
		return nil, cleanup, err
	}

	return &upload{
		Name: name,
		Path: path,

		ContentType: contentType,
	}, cleanup, nil
}

func parseForm(r *http.Request) error {
	var err error

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		err = r.ParseMultipartForm(maxMemory)
	} else {
		err = r.ParseForm()
	}

	if err != nil {
		return uploadError(err)
	}

	return nil
}

func uploadError(err error) error {
	var maxErr *http.MaxBytesError

	if errors.As(err, &maxErr) {
		return processing.NewError(processing.KindInvalidInput, "process", fmt.Sprintf("file too large (limit %d bytes)", maxErr.Limit), err)
	}

	return processing.Wrap(err, processing.KindInvalidInput, "process", "invalid request body")
}

func readFile(r *http.Request) (string, string, io.ReadCloser, error) {
	if file, header, err := r.FormFile("file"); err == nil {
		return header.Filename, header.Header.Get("Content-Type"), file, nil
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return "", "", nil, processing.Errorf(processing.KindInvalidInput, "process", "file or uri is required")
	}

	contentType := r.Header.Get("Content-Type")
	contentDisposition := r.Header.Get("Content-Disposition")

	_, params, _ := mime.ParseMediaType(contentDisposition)

	filename := params["filename*"]
	filename = strings.TrimPrefix(filename, "UTF-8''")
	filename = strings.TrimPrefix(filename, "utf-8''")

	if filename == "" {
		filename = params["filename"]
	}

	if r.Body == nil {
		return "", "", nil, errors.New("empty request body")
	}

	return filename, contentType, r.Body, nil
}
