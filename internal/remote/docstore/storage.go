package docstore

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"regexp"
)

var objectPathRe = regexp.MustCompile(`/o/(.+?)\?`)

var ErrNotStorageURL = errors.New("docstore: not a storage url")

// Upload grava o blob em path e devolve a URL pública
func (c *Client) Upload(ctx context.Context, path, contentType string, data []byte) (string, error) {
	u := c.cfg.StorageURL + "/o?uploadType=media&name=" + url.QueryEscape(path)
	if _, err := c.send(ctx, http.MethodPost, c.withAuth(u), contentType, data); err != nil {
		return "", err
	}
	return c.PublicURL(path), nil
}

func (c *Client) PublicURL(path string) string {
	return c.cfg.StorageURL + "/o/" + url.PathEscape(path) + "?alt=media"
}

func (c *Client) DeleteFile(ctx context.Context, path string) error {
	_, err := c.send(ctx, http.MethodDelete, c.withAuth(c.cfg.StorageURL+"/o/"+url.PathEscape(path)), "", nil)
	return err
}

// PathFromURL extrai o caminho do objeto de uma URL devolvida por PublicURL
func PathFromURL(publicURL string) (string, error) {
	m := objectPathRe.FindStringSubmatch(publicURL)
	if m == nil {
		return "", ErrNotStorageURL
	}
	return url.PathUnescape(m[1])
}
