package hdfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/colinmarc/hdfs/v2"
)

const locatorScheme = "hdfs://"

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Client stores track files under a base directory on HDFS.
type Client struct {
	client  *hdfs.Client
	baseDir string
}

func NewClient(namenodeAddr, baseDir string) (*Client, error) {
	client, err := hdfs.New(namenodeAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to HDFS namenode: %w", err)
	}

	c := &Client{client: client, baseDir: baseDir}
	if err := c.ensureBaseDir(); err != nil {
		client.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) ensureBaseDir() error {
	err := c.client.MkdirAll(c.baseDir, 0755)
	if err != nil && !os.IsExist(err) {
		return fmt.Errorf("failed to create base directory: %w", err)
	}
	return nil
}

// Put writes the file and returns an hdfs:// locator. An existing file of the
// same name is rejected so a locator never points at different content.
func (c *Client) Put(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p := path.Join(c.baseDir, SafeName(name))
	if _, err := c.client.Stat(p); err == nil {
		return "", fmt.Errorf("file already exists: %s", p)
	}

	writer, err := c.client.Create(p)
	if err != nil {
		return "", fmt.Errorf("failed to create file in HDFS: %w", err)
	}

	written, err := io.Copy(writer, r)
	if err != nil {
		writer.Close()
		c.client.Remove(p)
		return "", fmt.Errorf("failed to write to HDFS: %w", err)
	}
	if err := writer.Close(); err != nil {
		c.client.Remove(p)
		return "", fmt.Errorf("failed to close HDFS file: %w", err)
	}

	if size > 0 && written != size {
		c.client.Remove(p)
		return "", fmt.Errorf("size mismatch: expected %d, got %d", size, written)
	}

	return locatorScheme + p, nil
}

func (c *Client) Delete(ctx context.Context, locator string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, ok := strings.CutPrefix(locator, locatorScheme)
	if !ok || !strings.HasPrefix(p, c.baseDir+"/") {
		return fmt.Errorf("locator outside track storage: %s", locator)
	}
	if err := c.client.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete track file: %w", err)
	}
	return nil
}

// SafeName strips path separators and anything outside a conservative
// character set from an uploaded file name.
func SafeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeName.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "track"
	}
	return name
}
