// Package drive wraps the Drive API surface the sweeps need: normalized
// get-or-create folder resolution, existence checks, and file upload.
package drive

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// Scopes required by the client; drive.file limits access to files this app
// creates or opens.
var Scopes = []string{drivev3.DriveFileScope}

type Client struct {
	svc    *drivev3.Service
	logger *log.Logger
}

func New(ctx context.Context, httpClient *http.Client, logger *log.Logger) (*Client, error) {
	svc, err := drivev3.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Client{svc: svc, logger: logger}, nil
}

// EnsureFolder returns the ID of the named child folder of parentID, creating
// it when no existing child matches under name normalization. parentID "" is
// the Drive root.
func (c *Client) EnsureFolder(ctx context.Context, parentID, name string) (string, error) {
	if parentID == "" {
		parentID = "root"
	}

	ix, err := c.listChildFolders(ctx, parentID)
	if err != nil {
		return "", err
	}
	if id, ok := ix.find(name); ok {
		return id, nil
	}

	created, err := c.svc.Files.Create(&drivev3.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{parentID},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create folder %q: %w", name, err)
	}
	c.logger.Info("created folder", "name", name, "id", created.Id)
	return created.Id, nil
}

func (c *Client) listChildFolders(ctx context.Context, parentID string) (*folderIndex, error) {
	ix := newFolderIndex()
	q := fmt.Sprintf("'%s' in parents and mimeType = '%s' and trashed = false", parentID, folderMimeType)

	pageToken := ""
	for {
		call := c.svc.Files.List().Q(q).
			Fields("nextPageToken, files(id, name)").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list folders under %s: %w", parentID, err)
		}
		for _, f := range resp.Files {
			ix.add(f.Name, f.Id)
		}
		if resp.NextPageToken == "" {
			return ix, nil
		}
		pageToken = resp.NextPageToken
	}
}

// FileExists reports whether a file with exactly this name lives in folderID.
func (c *Client) FileExists(ctx context.Context, folderID, name string) (bool, error) {
	q := fmt.Sprintf("'%s' in parents and name = '%s' and trashed = false", folderID, escapeQuery(name))
	resp, err := c.svc.Files.List().Q(q).Fields("files(id)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("check file %q: %w", name, err)
	}
	return len(resp.Files) > 0, nil
}

// CreateFile uploads data as a new file in folderID and returns its ID.
func (c *Client) CreateFile(ctx context.Context, folderID, name string, data []byte) (string, error) {
	created, err := c.svc.Files.Create(&drivev3.File{
		Name:    name,
		Parents: []string{folderID},
	}).Media(bytes.NewReader(data)).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create file %q: %w", name, err)
	}
	return created.Id, nil
}

// escapeQuery escapes a file name for a Drive q expression.
func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
