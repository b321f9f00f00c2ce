package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// BlobStore keeps objects as block blobs in a single container.
type BlobStore struct {
	client    *azblob.Client
	container string
	prefix    string
}

// BlobOptions selects how a BlobStore authenticates. ConnectionString wins
// when set; otherwise AccountURL is used with DefaultAzureCredential.
type BlobOptions struct {
	ConnectionString string
	AccountURL       string
	Container        string
	// Prefix is prepended to every object name, acting as a virtual folder.
	Prefix string
}

// NewBlobStore connects to the container described by opts.
func NewBlobStore(opts BlobOptions) (*BlobStore, error) {
	if opts.Container == "" {
		return nil, fmt.Errorf("blob storage requires a container name")
	}

	var (
		client *azblob.Client
		err    error
	)

	switch {
	case opts.ConnectionString != "":
		client, err = azblob.NewClientFromConnectionString(opts.ConnectionString, nil)
	case opts.AccountURL != "":
		var cred azcore.TokenCredential
		cred, err = azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("creating Azure credential: %w", err)
		}
		client, err = azblob.NewClient(opts.AccountURL, cred, nil)
	default:
		return nil, fmt.Errorf("blob storage requires a connection string or an account URL")
	}
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}

	return &BlobStore{client: client, container: opts.Container, prefix: opts.Prefix}, nil
}

func (s *BlobStore) blobName(name string) string {
	return s.prefix + strings.TrimPrefix(name, "/")
}

func (s *BlobStore) Read(ctx context.Context, name string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, s.blobName(name), nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, fmt.Errorf("%s: %w", s.Location(name), ErrNotFound)
		}
		return nil, fmt.Errorf("downloading %s: %w", s.Location(name), err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Location(name), err)
	}
	return buf.Bytes(), nil
}

func (s *BlobStore) Write(ctx context.Context, name string, data []byte) error {
	if _, err := s.client.UploadBuffer(ctx, s.container, s.blobName(name), data, nil); err != nil {
		return fmt.Errorf("uploading %s: %w", s.Location(name), err)
	}
	slog.Debug("Uploaded blob", "container", s.container, "name", s.blobName(name), "bytes", len(data))
	return nil
}

// List returns object names with the store prefix stripped.
func (s *BlobStore) List(ctx context.Context, prefix string) ([]string, error) {
	full := s.blobName(prefix)
	pager := s.client.NewListBlobsFlatPager(s.container, &azblob.ListBlobsFlatOptions{
		Prefix: &full,
	})

	var names []string
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing blobs in %s: %w", s.container, err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			names = append(names, strings.TrimPrefix(*item.Name, s.prefix))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *BlobStore) Location(name string) string {
	return strings.TrimSuffix(s.client.URL(), "/") + "/" + s.container + "/" + s.blobName(name)
}
