package channels

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

const channelFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns="http://www.w3.org/2005/Atom">
  <title>Gopher Academy</title>
  <entry>
    <yt:videoId>older</yt:videoId>
    <title>Older talk</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=older"/>
    <author><name>Gopher Academy</name></author>
    <published>2024-01-01T10:00:00+00:00</published>
  </entry>
  <entry>
    <yt:videoId>newest</yt:videoId>
    <title>Newest talk</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=newest"/>
    <author><name>Gopher Academy</name></author>
    <published>2024-03-01T10:00:00+00:00</published>
  </entry>
  <entry>
    <yt:videoId>middle</yt:videoId>
    <title>Middle talk</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=middle"/>
    <published>2024-02-01T10:00:00+00:00</published>
  </entry>
</feed>`

func TestParseUploads(t *testing.T) {
	ch, err := ParseUploads(channelFeed, 2)
	if err != nil {
		t.Fatalf("ParseUploads() error = %v", err)
	}

	if ch.Title != "Gopher Academy" {
		t.Errorf("title = %q", ch.Title)
	}
	want := []string{
		"https://www.youtube.com/watch?v=newest",
		"https://www.youtube.com/watch?v=middle",
	}
	if got := ch.Links(); !reflect.DeepEqual(got, want) {
		t.Errorf("Links() = %v, want %v", got, want)
	}
	if ch.Uploads[0].VideoID != "newest" || ch.Uploads[0].Author != "Gopher Academy" {
		t.Errorf("unexpected first upload %+v", ch.Uploads[0])
	}
}

func TestParseUploadsDefaultLimit(t *testing.T) {
	ch, err := ParseUploads(channelFeed, 0)
	if err != nil {
		t.Fatalf("ParseUploads() error = %v", err)
	}
	if len(ch.Uploads) != 3 {
		t.Errorf("expected all 3 uploads, got %d", len(ch.Uploads))
	}
}

func TestParseUploadsEmpty(t *testing.T) {
	_, err := ParseUploads(`<feed xmlns="http://www.w3.org/2005/Atom"><title>Empty</title></feed>`, 5)
	if !errors.Is(err, ErrNoUploads) {
		t.Errorf("expected ErrNoUploads, got %v", err)
	}

	if _, err := ParseUploads("not xml at all", 5); err == nil {
		t.Error("expected parse error")
	}
}

func TestImport(t *testing.T) {
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/@gophers", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><link rel="alternate" type="application/rss+xml" href="` + server.URL + `/feeds/videos.xml"></head></html>`))
	})
	mux.HandleFunc("/feeds/videos.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(channelFeed))
	})
	mux.HandleFunc("/broken.xml", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	importer := NewImporterWithClient(server.Client())

	ch, err := importer.Import(context.Background(), server.URL+"/@gophers", 1)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if ch.FeedURL != server.URL+"/feeds/videos.xml" {
		t.Errorf("FeedURL = %q", ch.FeedURL)
	}
	if len(ch.Uploads) != 1 || ch.Uploads[0].VideoID != "newest" {
		t.Errorf("unexpected uploads %+v", ch.Uploads)
	}

	if _, err := importer.RecentUploads(context.Background(), server.URL+"/broken.xml", 1); err == nil {
		t.Error("expected HTTP error")
	}
}
