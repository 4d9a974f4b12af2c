package upload

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Defaults applied when metadata fields are empty
const (
	DefaultCategoryID = "22" // People & Blogs
	DefaultPrivacy    = "public"
)

// Metadata describes the video being published
type Metadata struct {
	Title       string
	Description string
	CategoryID  string
	Privacy     string
}

// Service publishes a finished video to YouTube via the Data API
type Service struct {
	secretsFile string
	tokenFile   string
}

// NewService creates an upload service using OAuth client secrets and a
// cached token file.
func NewService(secretsFile, tokenFile string) *Service {
	return &Service{
		secretsFile: secretsFile,
		tokenFile:   tokenFile,
	}
}

// Upload publishes the file and returns the new video ID
func (s *Service) Upload(ctx context.Context, path string, meta Metadata) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open video file: %w", err)
	}
	defer f.Close()

	client, err := s.httpClient(ctx)
	if err != nil {
		return "", err
	}

	service, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", fmt.Errorf("failed to create youtube service: %w", err)
	}

	video := BuildVideo(path, meta)
	log.Infof("Uploading %s as %q (%s)", path, video.Snippet.Title, video.Status.PrivacyStatus)

	call := service.Videos.Insert([]string{"snippet", "status"}, video)
	resp, err := call.Media(f).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	log.Infof("Video uploaded successfully! Video ID: %s", resp.Id)
	return resp.Id, nil
}

// BuildVideo constructs the API request body, applying defaults for any
// empty metadata fields.
func BuildVideo(path string, meta Metadata) *youtube.Video {
	title := meta.Title
	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	categoryID := meta.CategoryID
	if categoryID == "" {
		categoryID = DefaultCategoryID
	}

	privacy := meta.Privacy
	if privacy == "" {
		privacy = DefaultPrivacy
	}

	return &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       title,
			Description: meta.Description,
			CategoryId:  categoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus: privacy,
		},
	}
}

// httpClient builds an authenticated HTTP client from the client secrets
// and the cached token. A missing or unreadable token triggers the console
// auth flow, and the fresh token is cached for the next run.
func (s *Service) httpClient(ctx context.Context) (*http.Client, error) {
	data, err := os.ReadFile(s.secretsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read client secrets %s: %w", s.secretsFile, err)
	}

	cfg, err := google.ConfigFromJSON(data, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secrets: %w", err)
	}

	token, err := tokenFromFile(s.tokenFile)
	if err != nil {
		token, err = tokenFromConsole(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if saveErr := saveToken(s.tokenFile, token); saveErr != nil {
			log.Warnf("Failed to cache oauth token: %v", saveErr)
		}
	}

	return cfg.Client(ctx, token), nil
}

// tokenFromFile reads a cached oauth token
func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("failed to decode token file %s: %w", path, err)
	}
	return token, nil
}

// saveToken caches an oauth token for the next run
func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// tokenFromConsole walks the user through the out-of-band auth flow
func tokenFromConsole(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open the following link in your browser, then paste the authorization code:\n%s\n", authURL)
	fmt.Print("Authorization code: ")

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read authorization code: %w", err)
	}

	token, err := cfg.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token, nil
}
