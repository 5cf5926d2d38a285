package distribution

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestSocialClient_Post_Instagram_AttachesImage(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusOK, `{"status":"success","id":"post-1"}`)
	collector := &recordingCollector{}
	client := NewSocialClient(server.Client(), "ayr-key", server.URL+"/api/post", collector)

	resp, err := client.Post(context.Background(), SocialPost{
		Content:    "New wallets are here!",
		Platform:   "instagram",
		ImageQuery: "Leather Wallet",
	})
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if string(resp.Body) != `{"status":"success","id":"post-1"}` {
		t.Errorf("Body = %s", resp.Body)
	}

	if captured.Method != http.MethodPost || captured.Path != "/api/post" {
		t.Errorf("request = %s %s", captured.Method, captured.Path)
	}
	if got := captured.Header.Get("Authorization"); got != "Bearer ayr-key" {
		t.Errorf("Authorization = %q", got)
	}
	if captured.Body["post"] != "New wallets are here!" {
		t.Errorf("post = %v", captured.Body["post"])
	}
	platforms, _ := captured.Body["platforms"].([]any)
	if len(platforms) != 1 || platforms[0] != "instagram" {
		t.Errorf("platforms = %v", captured.Body["platforms"])
	}
	media, _ := captured.Body["mediaUrls"].([]any)
	if len(media) != 1 || media[0] != "https://source.unsplash.com/1080x1080/?leather+wallet,product,professional" {
		t.Errorf("mediaUrls = %v", captured.Body["mediaUrls"])
	}

	if len(collector.distributions) != 1 || collector.distributions[0] != "social/200" {
		t.Errorf("metrics = %v", collector.distributions)
	}
}

func TestSocialClient_Post_LinkedIn_NoImage(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusOK, `{"status":"success"}`)
	client := NewSocialClient(server.Client(), "ayr-key", server.URL, nil)

	if _, err := client.Post(context.Background(), SocialPost{Content: "Hello", Platform: "linkedin"}); err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if _, ok := captured.Body["mediaUrls"]; ok {
		t.Errorf("mediaUrls should be omitted for linkedin: %v", captured.Body)
	}
}

func TestSocialClient_Post_RelaysErrorStatus(t *testing.T) {
	server, _ := newCaptureServer(t, http.StatusBadRequest, `{"status":"error","message":"Invalid platform"}`)
	client := NewSocialClient(server.Client(), "ayr-key", server.URL, nil)

	resp, err := client.Post(context.Background(), SocialPost{Content: "Hello", Platform: "myspace"})
	if err != nil {
		t.Fatalf("non-200 responses should not be errors: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", resp.StatusCode)
	}
	if !strings.Contains(string(resp.Body), "Invalid platform") {
		t.Errorf("Body = %s", resp.Body)
	}
}

func TestSocialClient_Post_InvalidJSON(t *testing.T) {
	server, _ := newCaptureServer(t, http.StatusBadGateway, `<html>Bad Gateway</html>`)
	collector := &recordingCollector{}
	client := NewSocialClient(server.Client(), "ayr-key", server.URL, collector)

	_, err := client.Post(context.Background(), SocialPost{Content: "Hello", Platform: "linkedin"})
	if err == nil {
		t.Fatal("expected error for non-JSON response")
	}
	if len(collector.distributions) != 1 || collector.distributions[0] != "social/0" {
		t.Errorf("metrics = %v", collector.distributions)
	}
}

func TestSocialClient_Post_NotConfigured(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusOK, `{}`)
	client := NewSocialClient(server.Client(), "", server.URL, nil)

	_, err := client.Post(context.Background(), SocialPost{Content: "Hello", Platform: "linkedin"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if captured.Method != "" {
		t.Error("remote API should not be called without API key")
	}
}

func TestSocialClient_Post_ConnectionError(t *testing.T) {
	server, _ := newCaptureServer(t, http.StatusOK, `{}`)
	url := server.URL
	server.Close()

	client := NewSocialClient(http.DefaultClient, "ayr-key", url, nil)
	if _, err := client.Post(context.Background(), SocialPost{Content: "Hello", Platform: "linkedin"}); err == nil {
		t.Fatal("expected connection error")
	}
}

func TestInstagramImageURL(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"Leather Wallet", "https://source.unsplash.com/1080x1080/?leather+wallet,product,professional"},
		{"", "https://source.unsplash.com/1080x1080/?product,product,professional"},
		{"Gaming  Laptop", "https://source.unsplash.com/1080x1080/?gaming++laptop,product,professional"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := InstagramImageURL(tt.query); got != tt.want {
				t.Errorf("InstagramImageURL(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestNewSocialClient_DefaultEndpoint(t *testing.T) {
	client := NewSocialClient(http.DefaultClient, "k", "", nil)
	if client.endpoint != DefaultSocialEndpoint {
		t.Errorf("endpoint = %q, want %q", client.endpoint, DefaultSocialEndpoint)
	}
}
