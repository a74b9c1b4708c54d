// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestServeImage(t *testing.T) {
	s := New(&Opts{W: 8, H: 6})
	if err := s.Draw(image.Rect(0, 0, 1, 1), &image.Uniform{color.RGBA{0, 255, 0, 255}}, image.Point{}); err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		target   string
		wantType string
		decode   func(io.Reader) (image.Image, error)
	}{
		{"/preview.png", "image/png", png.Decode},
		{"/preview.png?format=jpeg", "image/jpeg", jpeg.Decode},
	} {
		t.Run(tc.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.target, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status %d", rec.Code)
			}
			if got := rec.Header().Get("Content-Type"); got != tc.wantType {
				t.Errorf("Content-Type = %q, want %q", got, tc.wantType)
			}
			if got, want := rec.Header().Get("Content-Length"), strconv.Itoa(rec.Body.Len()); got != want {
				t.Errorf("Content-Length = %s, want %s", got, want)
			}
			img, err := tc.decode(rec.Body)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(img.Bounds(), image.Rect(0, 0, 8, 6)); diff != "" {
				t.Errorf("bounds (-got +want):\n%s", diff)
			}
		})
	}
}

func TestServeImageContent(t *testing.T) {
	s := New(&Opts{W: 2, H: 1})
	if err := s.Draw(image.Rect(1, 0, 2, 1), &image.Uniform{color.RGBA{10, 20, 30, 255}}, image.Point{}); err != nil {
		t.Fatal(err)
	}
	get := func() color.RGBA {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		img, err := png.Decode(rec.Body)
		if err != nil {
			t.Fatal(err)
		}
		return color.RGBAModel.Convert(img.At(1, 0)).(color.RGBA)
	}
	if diff := cmp.Diff(get(), color.RGBA{10, 20, 30, 255}); diff != "" {
		t.Errorf("pixel (-got +want):\n%s", diff)
	}
	// The cached encoding is dropped on change.
	if err := s.Backlight(0); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(get(), color.RGBA{0, 0, 0, 255}); diff != "" {
		t.Errorf("pixel with backlight off (-got +want):\n%s", diff)
	}
}

func TestRequestStatus(t *testing.T) {
	for _, tc := range []struct {
		method     string
		target     string
		wantStatus int
	}{
		{http.MethodGet, "/?format=", http.StatusOK},
		{http.MethodHead, "/", http.StatusOK},
		{http.MethodGet, "/?format=bmp", http.StatusBadRequest},
		{http.MethodPost, "/", http.StatusMethodNotAllowed},
	} {
		t.Run(fmt.Sprint(tc.method, tc.target), func(t *testing.T) {
			rec := httptest.NewRecorder()
			New(&Opts{W: 16, H: 16}).ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))
			if rec.Code != tc.wantStatus {
				t.Errorf("status %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestServeStream(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)

	s := New(&Opts{W: 12, H: 12, Format: JPEG})
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/?stream=1", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		t.Fatal(err)
	}
	if mediaType != "multipart/x-mixed-replace" {
		t.Fatalf("Content-Type is %q", mediaType)
	}
	mr := multipart.NewReader(resp.Body, params["boundary"])

	readPart := func() {
		t.Helper()
		part, err := mr.NextPart()
		if err != nil {
			t.Fatalf("NextPart() failed: %v", err)
		}
		if got := part.Header.Get("Content-Type"); got != "image/jpeg" {
			t.Errorf("part Content-Type = %q", got)
		}
		body, err := io.ReadAll(part)
		if err != nil {
			t.Fatal(err)
		}
		if got := part.Header.Get("Content-Length"); got != strconv.Itoa(len(body)) {
			t.Errorf("Content-Length = %s, body is %d bytes", got, len(body))
		}
		if _, err := jpeg.Decode(bytes.NewReader(body)); err != nil {
			t.Errorf("Decode() failed: %v", err)
		}
	}

	readPart()
	if err := s.Draw(s.Bounds(), image.White, image.Point{}); err != nil {
		t.Fatal(err)
	}
	readPart()

	if err := s.Halt(); err != nil {
		t.Fatal(err)
	}
	if _, err := mr.NextPart(); err == nil {
		t.Error("stream continued after Halt()")
	}
}

func TestBoundary(t *testing.T) {
	var buf bytes.Buffer
	pw := newPartWriter(&buf)
	if len(pw.boundary) != 60 {
		t.Errorf("boundary %q", pw.boundary)
	}
	if err := pw.writePart(map[string][]string{"Content-Type": {"image/png"}}, []byte("ab")); err != nil {
		t.Fatal(err)
	}
	want := "--" + pw.boundary + "\r\nContent-Length: 2\r\nContent-Type: image/png\r\n\r\nab\r\n--" + pw.boundary + "\r\n"
	if diff := cmp.Diff(buf.String(), want); diff != "" {
		t.Errorf("writePart() (-got +want):\n%s", diff)
	}
}
