/*
 * Copyright (c) 2026 frozensunq contributors
 *
 * API endpoints for notifyd management
 */
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/frozensunq/notifyout/notify"
)

// NotifyPost is the request body for POST /api/v1/notify: trigger a
// NOTIFY cycle for one zone.
type NotifyPost struct {
	Zone  string `json:"zone"`
	Class string `json:"class,omitempty"`
}

// NotifyResponse mirrors the teacher's "time + error + error_msg"
// response envelope (tdns/krs/api.go's KrsQueryResponse and friends).
type NotifyResponse struct {
	Time     time.Time `json:"time"`
	Error    bool      `json:"error,omitempty"`
	ErrorMsg string    `json:"error_msg,omitempty"`
	Accepted bool      `json:"accepted"`
}

// StatusResponse reports the dispatcher's current admitted/waiting
// state, the supplemented introspection feature from SPEC_FULL.md §9.
type StatusResponse struct {
	Time    time.Time              `json:"time"`
	Waiting int                    `json:"waiting"`
	Zones   []notify.ZoneSnapshot  `json:"zones"`
}

func sendJSONError(w http.ResponseWriter, statusCode int, errorMsg string) {
	resp := NotifyResponse{Time: time.Now(), Error: true, ErrorMsg: errorMsg}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// APInotify handles POST /api/v1/notify.
func APInotify(d *notify.Dispatcher) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var post NotifyPost
		if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
			sendJSONError(w, http.StatusBadRequest, "failed to parse request body: "+err.Error())
			return
		}
		accepted := d.SendNotify(post.Zone, post.Class)
		resp := NotifyResponse{Time: time.Now(), Accepted: accepted}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

// APIstatus handles POST /api/v1/status.
func APIstatus(d *notify.Dispatcher) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := StatusResponse{
			Time:    time.Now(),
			Waiting: d.WaitingCount(),
			Zones:   d.Snapshot(),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

// SetupRouter builds the API router, grounded on
// tdns/apihandler_funcs.go's TdnsSetupRouter.
func SetupRouter(conf *Config, d *notify.Dispatcher) *mux.Router {
	r := mux.NewRouter().StrictSlash(true)
	sr := r.PathPrefix("/api/v1").Subrouter()
	if conf.ApiServer.Key != "" {
		sr = sr.Headers("X-API-Key", conf.ApiServer.Key).Subrouter()
	}

	sr.HandleFunc("/notify", APInotify(d)).Methods("POST")
	sr.HandleFunc("/status", APIstatus(d)).Methods("POST")
	return r
}

// APIdispatcher starts the HTTP API server in the background, mirroring
// tdns/apihandler_funcs.go's APIdispatcher.
func APIdispatcher(conf *Config, d *notify.Dispatcher) {
	router := SetupRouter(conf, d)
	address := conf.ApiServer.Address
	if address == "" {
		address = "127.0.0.1:8053"
	}

	go func() {
		log.Println("Starting notifyd API dispatcher. Listening on", address)
		log.Fatal(http.ListenAndServe(address, router))
	}()
}
