package server

import (
	"log"
	"net/http"
)

// rssHandler serves announcements history of a tracked company
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	c, history, err := s.service.History(r.Context(), r.PathValue("query"))
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	rss, err := s.feeds.CompanyRSS(c, history)
	if err != nil {
		log.Printf("[ERROR] can't make feed for %s: %v", c.Label(), err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderXML(w, "application/rss+xml; charset=utf-8", rss)
}

// opmlHandler serves subscription list with feeds of all tracked companies
func (s *Server) opmlHandler(w http.ResponseWriter, r *http.Request) {
	list, err := s.service.List(r.Context())
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	opml, err := s.feeds.OPML(list)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderXML(w, "text/x-opml; charset=utf-8", opml)
}

func renderXML(w http.ResponseWriter, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Printf("[WARN] can't write response: %v", err)
	}
}
