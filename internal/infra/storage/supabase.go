package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Supabase talks to the Storage REST API with the service role key.
type Supabase struct {
	BaseURL string
	Key     string
	Bucket  string
	HTTP    *http.Client
}

func NewSupabase(baseURL, key, bucket string) *Supabase {
	return &Supabase{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Key:     key,
		Bucket:  bucket,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *Supabase) objectURL(name string) string {
	return s.BaseURL + "/storage/v1/object/" + url.PathEscape(s.Bucket) + "/" + url.PathEscape(name)
}

// PublicURL assumes the bucket is public.
func (s *Supabase) PublicURL(name string) string {
	return s.BaseURL + "/storage/v1/object/public/" + url.PathEscape(s.Bucket) + "/" + url.PathEscape(name)
}

func (s *Supabase) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.Key)
	req.Header.Set("apikey", s.Key)
}

func (s *Supabase) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.objectURL(name), bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	s.authorize(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", statusErr(resp)
	}
	return s.PublicURL(name), nil
}

func (s *Supabase) Get(ctx context.Context, name string) ([]byte, string, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.objectURL(name), nil)
	if err != nil {
		return nil, "", err
	}
	s.authorize(req)
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest {
		return nil, "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", statusErr(resp)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (s *Supabase) Delete(ctx context.Context, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(name), nil)
	if err != nil {
		return err
	}
	s.authorize(req)
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return statusErr(resp)
	}
	return nil
}

func statusErr(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("storage status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
}
