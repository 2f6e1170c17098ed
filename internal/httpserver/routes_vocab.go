// internal/httpserver/routes_vocab.go
//
// Read-only vocabulary endpoints. Each handler is a thin adapter:
// snapshot from the cache → pure view from internal/vocab → JSON envelope.
//
//   GET /levels[?topics=true]        (alias /api/vocabulary/list-levels)
//   GET /topics?level=A1             (alias /api/vocabulary/list-topics)
//   GET /lesson/{level}/{topic...}   (alias /api/lesson/...)
//   GET /stats                       (alias /api/stats)
//   GET /dashboard                   (alias /api/data-viewer, see routes_dashboard.go)
//
// ?refresh=true on any of them bypasses the freshness check.

package httpserver

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/gumballz/internal/store"
	"github.com/robalobadob/gumballz/internal/vocab"
)

// mountVocab registers the vocabulary routes under both path schemes.
func (s *Server) mountVocab(r chi.Router) {
	r.Get("/levels", s.handleLevels)
	r.Get("/topics", s.handleTopics)
	r.Get("/lesson", s.handleLesson("/lesson"))
	r.Get("/lesson/*", s.handleLesson("/lesson"))
	r.Get("/stats", s.handleStats)

	r.Route("/api", func(r chi.Router) {
		r.Get("/vocabulary/list-levels", s.handleLevels)
		r.Get("/vocabulary/list-topics", s.handleTopics)
		r.Get("/lesson", s.handleLesson("/api/lesson"))
		r.Get("/lesson/*", s.handleLesson("/api/lesson"))
		r.Get("/stats", s.handleStats)
		r.Get("/data-viewer", s.handleDashboard)
	})
}

// snapshot reads the cache, honouring ?refresh=true.
func (s *Server) snapshot(r *http.Request) (store.Snapshot, error) {
	return s.cache.Get(r.Context(), queryBool(r, "refresh"))
}

// queryBool reports whether a query flag is set to a true value.
func queryBool(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		writeError(w, r, err, "Lỗi Server nội bộ khi xử lý Level.", []any{})
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Danh sách Levels được đồng bộ từ Google Sheet.",
		Stale:   snap.Stale,
		Data:    vocab.Levels(snap.Records, queryBool(r, "topics")),
	})
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	level := vocab.NormalizeLevel(r.URL.Query().Get("level"))
	if level == "" {
		writeError(w, r, &vocab.ValidationError{Field: "level"}, "", []any{})
		return
	}
	snap, err := s.snapshot(r)
	if err != nil {
		writeError(w, r, err, "Lỗi Server nội bộ khi xử lý Topic.", []any{})
		return
	}
	topics, err := vocab.Topics(snap.Records, level)
	if err != nil {
		writeError(w, r, err, "Lỗi Server nội bộ khi xử lý Topic.", []any{})
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: fmt.Sprintf("Danh sách Topics cho Level %s được đồng bộ.", level),
		Stale:   snap.Stale,
		Data:    topics,
	})
}

// handleLesson serves /<prefix>/{level}/{topic...}. The path is read escaped
// so topics containing "/" (sent as %2F or as extra segments) survive.
func (s *Server) handleLesson(prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.EscapedPath(), prefix)
		level, topic, err := parseLessonPath(rest)
		if err != nil {
			writeError(w, r, err, "", []any{})
			return
		}
		snap, err := s.snapshot(r)
		if err != nil {
			writeError(w, r, err, "Lỗi Server nội bộ khi xử lý bài học.", []any{})
			return
		}
		words, err := vocab.Lesson(snap.Records, level, topic)
		if err != nil {
			writeError(w, r, err, "Lỗi Server nội bộ khi xử lý bài học.", []any{})
			return
		}
		writeJSON(w, http.StatusOK, envelope{
			Success: true,
			Message: fmt.Sprintf("Nội dung bài học cho %s - %s được đồng bộ.",
				vocab.NormalizeLevel(level), vocab.NormalizeTopic(topic)),
			Stale: snap.Stale,
			Data:  words,
		})
	}
}

// parseLessonPath splits an escaped "/A1/Hello%20and%20Goodbye" into its level
// and topic. Segments after the first are re-joined with "/" before decoding.
func parseLessonPath(escaped string) (level, topic string, err error) {
	var segs []string
	for _, seg := range strings.Split(escaped, "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	missing := &vocab.ValidationError{Field: "slug", Message: "Thiếu Level và Topic trong đường dẫn."}
	if len(segs) < 2 {
		return "", "", missing
	}
	level, err = url.PathUnescape(segs[0])
	if err != nil {
		return "", "", &vocab.ValidationError{Field: "level", Message: "Level không hợp lệ trong đường dẫn."}
	}
	topic, err = url.PathUnescape(strings.Join(segs[1:], "/"))
	if err != nil {
		return "", "", &vocab.ValidationError{Field: "topic", Message: "Topic không hợp lệ trong đường dẫn."}
	}
	level, topic = vocab.NormalizeLevel(level), vocab.NormalizeTopic(topic)
	if level == "" || topic == "" {
		return "", "", missing
	}
	return level, topic, nil
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		writeError(w, r, err, "Lỗi Server nội bộ khi tính toán thống kê.", nil)
		return
	}
	writeJSON(w, http.StatusOK, s.statsEnvelope(snap))
}

func (s *Server) statsEnvelope(snap store.Snapshot) envelope {
	return envelope{
		Success:     true,
		Message:     "Thống kê dữ liệu tổng thể từ CSV.",
		Stale:       snap.Stale,
		LastUpdated: formatLastUpdated(snap.FetchedAt, s.opts.Location),
		Data:        vocab.Stats(snap.Records),
	}
}
