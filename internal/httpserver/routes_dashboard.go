// internal/httpserver/routes_dashboard.go
//
// GET /dashboard[?refresh=true]: server-rendered overview of the same views
// the JSON endpoints expose: totals, levels, topics per level and a short
// sample of each lesson.

package httpserver

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/gumballz/internal/vocab"
)

type dashboardPage struct {
	LastUpdated string
	Stale       bool
	Error       string
	SampleSize  int
	Stats       vocab.GlobalStats
	Levels      []dashboardLevel
}

type dashboardLevel struct {
	Level      string
	WordCount  int
	TopicCount int
	Topics     []dashboardTopic
}

type dashboardTopic struct {
	Topic     string
	WordCount int
	LessonURL string
	Sample    []vocab.Record
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	page := dashboardPage{SampleSize: s.opts.SampleSize}
	status := http.StatusOK

	snap, err := s.snapshot(r)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("dashboard data unavailable")
		status = statusFor(err)
		page.Error = err.Error()
		page.LastUpdated = noUpdateYet
	} else {
		page.LastUpdated = formatLastUpdated(snap.FetchedAt, s.opts.Location)
		page.Stale = snap.Stale
		page.Stats = vocab.Stats(snap.Records)
		page.Levels = s.dashboardLevels(snap.Records)
	}

	var buf bytes.Buffer
	if err := s.dashboard.Execute(&buf, page); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render dashboard")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) dashboardLevels(records []vocab.Record) []dashboardLevel {
	levels := vocab.Levels(records, false)
	out := make([]dashboardLevel, 0, len(levels))
	for _, l := range levels {
		dl := dashboardLevel{Level: l.Level, WordCount: l.WordCount, TopicCount: l.TopicCount}
		topics, err := vocab.Topics(records, l.Level)
		if err != nil {
			continue
		}
		for _, t := range topics {
			words, err := vocab.Lesson(records, l.Level, t.Topic)
			if err != nil {
				continue
			}
			dl.Topics = append(dl.Topics, dashboardTopic{
				Topic:     t.Topic,
				WordCount: t.WordCount,
				LessonURL: "/lesson/" + url.PathEscape(l.Level) + "/" + url.PathEscape(t.Topic),
				Sample:    vocab.Sample(words, s.opts.SampleSize),
			})
		}
		out = append(out, dl)
	}
	return out
}
