package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/keel-framework/go-keel/aggregates"
	"github.com/keel-framework/go-keel/events"
	"github.com/keel-framework/go-keel/framework/keel"
	"github.com/keel-framework/go-keel/framework/repository"
)

type listingServer struct {
	repo keel.Repo
}

type listingParams struct {
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

func newListing() keel.Aggregate { return &aggregates.Listing{} }

func (s listingServer) create(w http.ResponseWriter, req *http.Request) {
	var params listingParams
	if err := json.NewDecoder(req.Body).Decode(&params); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h, err := s.repo.Create(req.Context(), newListing)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer h.Release()

	if err := h.Apply(req.Context(), &events.SetListingDisplayName{DisplayName: params.DisplayName}); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if params.Description != "" {
		if err := h.Apply(req.Context(), &events.SetListingDescription{Description: params.Description}); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
	}

	if err := s.repo.Save(req.Context(), h); err != nil {
		writeRepoError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"name": h.Name().String()})
}

func (s listingServer) show(w http.ResponseWriter, req *http.Request) {
	name := keel.Ident("listing/" + mux.Vars(req)["id"])

	h, err := s.repo.Load(req.Context(), name, keel.VersionNone)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	defer h.Release()

	json.NewEncoder(w).Encode(struct {
		Name    string              `json:"name"`
		Version string              `json:"version"`
		State   *aggregates.Listing `json:"state"`
	}{h.Name().String(), h.Version().String(), h.Root().(*aggregates.Listing)})
}

func (s listingServer) publish(w http.ResponseWriter, req *http.Request) {
	name := keel.Ident("listing/" + mux.Vars(req)["id"])

	h, err := s.repo.Load(req.Context(), name, keel.VersionNone)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	defer h.Release()

	if err := h.Apply(req.Context(), &events.PublishListing{}); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err := s.repo.Save(req.Context(), h); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s listingServer) remove(w http.ResponseWriter, req *http.Request) {
	name := keel.Ident("listing/" + mux.Vars(req)["id"])

	h, err := s.repo.Load(req.Context(), name, keel.VersionNone)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	defer h.Release()

	if err := s.repo.Delete(req.Context(), h); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeRepoError(w http.ResponseWriter, err error) {
	switch err.(type) {
	case repository.ErrAggregateNotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
	case repository.ErrConflictingVersion:
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
