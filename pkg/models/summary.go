package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// MessageReport collects what happened to one message during a sweep. It is
// the typed replacement for an ad hoc string-keyed log map.
type MessageReport struct {
	MessageID string    `yaml:"message_id"`
	Subject   string    `yaml:"subject"`
	Date      time.Time `yaml:"date"`
	Saved     []string  `yaml:"saved,omitempty"`
	Skipped   []string  `yaml:"skipped,omitempty"`
}

// RunSummary is the end-of-run accounting for a sweep. Skip reasons and
// message reports keep insertion order so the rendered log reads in
// processing order.
type RunSummary struct {
	Mode              string `yaml:"mode"`
	ThreadsScanned    int    `yaml:"threads_scanned"`
	MessagesScanned   int    `yaml:"messages_scanned"`
	FilesSaved        int    `yaml:"files_saved"`
	DuplicatesRenamed int    `yaml:"duplicates_renamed"`

	SkipReasons []string       `yaml:"-"`
	SkipCounts  map[string]int `yaml:"skips,omitempty"`

	Messages []*MessageReport `yaml:"messages,omitempty"`

	byMessage map[string]*MessageReport
}

func NewRunSummary(mode string) *RunSummary {
	return &RunSummary{
		Mode:       mode,
		SkipCounts: make(map[string]int),
		byMessage:  make(map[string]*MessageReport),
	}
}

// Report returns the report for a message, creating it on first use.
func (s *RunSummary) Report(m Message) *MessageReport {
	if r, ok := s.byMessage[m.ID]; ok {
		return r
	}
	r := &MessageReport{MessageID: m.ID, Subject: m.Subject, Date: m.ReceivedAt}
	s.byMessage[m.ID] = r
	s.Messages = append(s.Messages, r)
	return r
}

// Skip records a skip against both the per-reason breakdown and, when a
// message is given, that message's report.
func (s *RunSummary) Skip(reason string, m *Message, detail string) {
	if _, ok := s.SkipCounts[reason]; !ok {
		s.SkipReasons = append(s.SkipReasons, reason)
	}
	s.SkipCounts[reason]++
	if m != nil {
		r := s.Report(*m)
		if detail == "" {
			detail = reason
		}
		r.Skipped = append(r.Skipped, detail)
	}
}

// Saved records a stored file against a message report.
func (s *RunSummary) Saved(m Message, name string, renamed bool) {
	s.FilesSaved++
	if renamed {
		s.DuplicatesRenamed++
	}
	r := s.Report(m)
	r.Saved = append(r.Saved, name)
}

// WriteYAML writes the summary to path.
func (s *RunSummary) WriteYAML(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
