package domain

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Asset is one schedulable piece of signage content from the local catalog.
type Asset struct {
	// ID is unique and doubles as the public path segment for locally hosted content.
	ID string

	// Name is the display title.
	Name string

	// URI is either a path under local asset storage or a remote URL.
	URI string

	// StartDate and EndDate bound the scheduling window (UTC). Either may be nil.
	StartDate *time.Time
	EndDate   *time.Time

	// Passthrough metadata, not interpreted by the migration.
	Duration     string
	MimeType     string
	NoCache      bool
	IsProcessing bool

	IsEnabled bool
	PlayOrder int

	// Active is derived when the asset is read; see IsActiveAt.
	Active bool
}

// IsActiveAt reports whether the asset is enabled and now lies strictly
// inside its scheduling window.
func (a Asset) IsActiveAt(now time.Time) bool {
	if !a.IsEnabled || a.StartDate == nil || a.EndDate == nil {
		return false
	}
	now = now.UTC()
	return a.StartDate.Before(now) && now.Before(*a.EndDate)
}

// ActiveFlag returns Active as the catalog's 0/1 integer flag.
func (a Asset) ActiveFlag() int {
	if a.Active {
		return 1
	}
	return 0
}

// IsLocal reports whether the asset URI is rooted under storageRoot.
func (a Asset) IsLocal(storageRoot string) bool {
	if storageRoot == "" || a.URI == "" {
		return false
	}
	root := filepath.Clean(storageRoot)
	uri := filepath.Clean(a.URI)
	return uri == root || strings.HasPrefix(uri, root+string(filepath.Separator))
}

// EffectiveSourceURL returns the URL the remote API should fetch the asset from.
// Local assets are rewritten to {publicURL}/{assetID}; http(s) URIs are kept.
// Anything else is rejected with ErrInvalidAssetURI.
func EffectiveSourceURL(a Asset, storageRoot, publicURL string) (string, error) {
	if a.IsLocal(storageRoot) {
		if publicURL == "" {
			return "", fmt.Errorf("%w: no public url for local asset %s", ErrInvalidAssetURI, a.ID)
		}
		return strings.TrimRight(publicURL, "/") + "/" + url.PathEscape(a.ID), nil
	}

	u, err := url.Parse(a.URI)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidAssetURI, a.URI, err)
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return a.URI, nil
	}
	return "", fmt.Errorf("%w: %q is neither under %s nor a remote url", ErrInvalidAssetURI, a.URI, storageRoot)
}

// RemoteAsset is the payload sent to the remote asset-creation endpoint.
type RemoteAsset struct {
	Title     string
	SourceURL string
}
