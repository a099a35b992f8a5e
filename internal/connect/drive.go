package connect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// DriveProvider fetches transcript files from Google Drive.
// It lists plain-text files and Google Docs, exporting the latter as text.
type DriveProvider struct{}

// DriveConfig holds Google Drive connection settings.
type DriveConfig struct {
	// AccessToken is an OAuth2 access token with drive.readonly scope.
	// Falls back to the GOOGLE_ACCESS_TOKEN env var when empty.
	AccessToken string `json:"access_token"`

	// FolderID restricts the listing to one folder. Empty means all of Drive.
	FolderID string `json:"folder_id,omitempty"`

	// MaxDocs caps how many documents to fetch (default 100).
	MaxDocs int `json:"max_docs,omitempty"`
}

const (
	docMimeType = "application/vnd.google-apps.document"
	txtMimeType = "text/plain"

	// maxTranscriptBytes caps a single downloaded transcript at 16MB.
	maxTranscriptBytes = 16 << 20
)

// driveBaseURL is a package var so tests can point at a local server.
var driveBaseURL = "https://www.googleapis.com/drive/v3"

func init() {
	DefaultRegistry.Register(&DriveProvider{})
}

func (p *DriveProvider) Name() string        { return "gdrive" }
func (p *DriveProvider) DisplayName() string { return "Google Drive" }

func (p *DriveProvider) DefaultConfig() json.RawMessage {
	return json.RawMessage(`{
  "access_token": "",
  "folder_id": "",
  "max_docs": 100
}`)
}

func (p *DriveProvider) ValidateConfig(config json.RawMessage) error {
	var cfg DriveConfig
	if err := json.Unmarshal(config, &cfg); err != nil {
		return fmt.Errorf("invalid config JSON: %w", err)
	}
	if cfg.AccessToken == "" && os.Getenv("GOOGLE_ACCESS_TOKEN") == "" {
		return fmt.Errorf("access_token is required (or set GOOGLE_ACCESS_TOKEN env var)")
	}
	return nil
}

// Fetch lists transcript candidates from Drive and downloads their content.
// Plain-text files are downloaded directly; Google Docs are exported as text.
func (p *DriveProvider) Fetch(ctx context.Context, config json.RawMessage) ([]Document, error) {
	var cfg DriveConfig
	if err := json.Unmarshal(config, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	token := cfg.AccessToken
	if token == "" {
		token = os.Getenv("GOOGLE_ACCESS_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("no access token provided: set in config or GOOGLE_ACCESS_TOKEN env var")
	}

	maxDocs := cfg.MaxDocs
	if maxDocs <= 0 {
		maxDocs = 100
	}

	client := newGoogleClient(token)

	queryParts := []string{
		"trashed = false",
		fmt.Sprintf("(mimeType = '%s' or mimeType = '%s')", txtMimeType, docMimeType),
	}
	if cfg.FolderID != "" {
		queryParts = append(queryParts, fmt.Sprintf("'%s' in parents", cfg.FolderID))
	}

	var docs []Document
	pageToken := ""
	pages := 0
	for {
		params := url.Values{}
		params.Set("q", strings.Join(queryParts, " and "))
		params.Set("fields", "nextPageToken,files(id,name,mimeType,modifiedTime)")
		params.Set("orderBy", "modifiedTime desc")
		params.Set("pageSize", "100")
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var list driveFileList
		if err := client.get(ctx, driveBaseURL+"/files?"+params.Encode(), &list); err != nil {
			return nil, fmt.Errorf("listing files: %w", err)
		}

		for _, f := range list.Files {
			content, err := p.download(ctx, client, f)
			if err != nil {
				return nil, fmt.Errorf("downloading %s: %w", f.Name, err)
			}
			docs = append(docs, Document{
				ID:       f.ID,
				Name:     f.Name,
				MimeType: f.MimeType,
				Content:  content,
				Modified: parseGoogleTime(f.ModifiedTime),
			})
			if len(docs) >= maxDocs {
				return docs, nil
			}
		}

		pageToken = list.NextPageToken
		pages++
		if pageToken == "" || pages > 10 {
			break
		}
	}

	return docs, nil
}

func (p *DriveProvider) download(ctx context.Context, client *googleClient, f driveFile) (string, error) {
	var u string
	if f.MimeType == docMimeType {
		u = fmt.Sprintf("%s/files/%s/export?mimeType=%s",
			driveBaseURL, url.PathEscape(f.ID), url.QueryEscape(txtMimeType))
	} else {
		u = fmt.Sprintf("%s/files/%s?alt=media", driveBaseURL, url.PathEscape(f.ID))
	}
	data, err := client.getRaw(ctx, u, maxTranscriptBytes)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FileInfo looks up one Drive file's metadata by ID, exporting a content
// excerpt when the file is a Google Doc. Used by the URL report to describe
// Drive links found in transcripts.
func (p *DriveProvider) FileInfo(ctx context.Context, accessToken, fileID string) (Document, error) {
	if accessToken == "" {
		accessToken = os.Getenv("GOOGLE_ACCESS_TOKEN")
	}
	if accessToken == "" {
		return Document{}, fmt.Errorf("no access token provided: set in config or GOOGLE_ACCESS_TOKEN env var")
	}

	client := newGoogleClient(accessToken)

	params := url.Values{}
	params.Set("fields", "id,name,mimeType,modifiedTime")

	var f driveFile
	u := fmt.Sprintf("%s/files/%s?%s", driveBaseURL, url.PathEscape(fileID), params.Encode())
	if err := client.get(ctx, u, &f); err != nil {
		return Document{}, fmt.Errorf("looking up file %s: %w", fileID, err)
	}

	doc := Document{
		ID:       f.ID,
		Name:     f.Name,
		MimeType: f.MimeType,
		Modified: parseGoogleTime(f.ModifiedTime),
	}

	if f.MimeType == docMimeType {
		// Content excerpt is best-effort; metadata alone is still useful.
		exportURL := fmt.Sprintf("%s/files/%s/export?mimeType=%s",
			driveBaseURL, url.PathEscape(f.ID), url.QueryEscape(txtMimeType))
		if data, err := client.getRaw(ctx, exportURL, maxTranscriptBytes); err == nil {
			doc.Content = string(data)
		}
	}

	return doc, nil
}

// driveFileList is the Drive v3 files.list response.
type driveFileList struct {
	Files         []driveFile `json:"files"`
	NextPageToken string      `json:"nextPageToken"`
}

type driveFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime"`
}
