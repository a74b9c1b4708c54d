// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"image"
	"net/http"
	"sync"
	"time"

	"github.com/GermanBionicSystems/usermods/simhost"
	"github.com/GermanBionicSystems/usermods/usermod"
	"github.com/goccy/go-json"
	"github.com/hashicorp/go-hclog"
	"periph.io/x/conn/v3/display"
)

// runner runs the usermods. The modules are single threaded so every call into
// the registry holds mu.
type runner struct {
	logger hclog.Logger
	state  *simhost.Host
	// strip is optional.
	strip display.Drawer

	mu  sync.Mutex
	reg *usermod.Registry
}

// tick advances the simulation and runs one iteration of the main loop.
func (h *runner) tick(now time.Time) {
	h.state.Render(now)
	h.mu.Lock()
	h.reg.Loop(h.state)
	h.mu.Unlock()
	if h.strip != nil {
		if err := h.strip.Draw(h.strip.Bounds(), h.state.Image(), image.Point{}); err != nil {
			h.logger.Warn("strip draw failed", "error", err)
		}
	}
}

func (h *runner) readConfig(cfg usermod.Object) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reg.ReadFromConfig(cfg)
}

func (h *runner) config() usermod.Object {
	h.mu.Lock()
	defer h.mu.Unlock()
	cfg := usermod.Object{}
	h.reg.AddToConfig(cfg)
	return cfg
}

func (h *runner) info() usermod.Object {
	h.mu.Lock()
	defer h.mu.Unlock()
	info := usermod.Object{}
	h.reg.AddToJSONInfo(info)
	return info
}

// stateRequest is the subset of the LED controller JSON state API the
// simulation supports.
type stateRequest struct {
	Brightness *uint8  `json:"bri"`
	Effect     *int    `json:"fx"`
	Playlist   *int    `json:"pl"`
	Color      *uint32 `json:"col"`
	WiFi       *bool   `json:"wifi"`
	// Update simulates the start of a firmware update.
	Update bool `json:"update"`
}

func (h *runner) applyState(req *stateRequest) error {
	if req.Effect != nil {
		if err := h.state.SetMode(*req.Effect); err != nil {
			return err
		}
	}
	if req.Brightness != nil {
		h.state.SetBrightness(*req.Brightness)
	}
	if req.Playlist != nil {
		h.state.SetPlaylist(*req.Playlist)
	}
	if req.Color != nil {
		h.state.SetColor(*req.Color)
	}
	if req.WiFi != nil {
		h.state.SetWiFi(*req.WiFi)
		if *req.WiFi {
			h.mu.Lock()
			h.reg.Connected()
			h.mu.Unlock()
		}
	}
	if req.Update {
		h.mu.Lock()
		h.reg.OnUpdateBegin(false)
		h.mu.Unlock()
	}
	return nil
}

// handler returns the JSON API. previewImage is mounted at /preview.png when
// not nil.
func (h *runner) handler(previewImage http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/json/info", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, h.info())
	})
	mux.HandleFunc("/json/cfg", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, h.config())
		case http.MethodPost:
			cfg := usermod.Object{}
			if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			writeJSON(w, map[string]bool{"success": h.readConfig(cfg)})
		default:
			http.Error(w, "", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/json/state", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "", http.StatusMethodNotAllowed)
			return
		}
		var req stateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.applyState(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]bool{"success": true})
	})
	if previewImage != nil {
		mux.Handle("/preview.png", previewImage)
	}
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
