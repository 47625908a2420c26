package lsp

import (
	"time"

	"gocst/internal/driver"
)

// document is an open editor buffer. result is the latest analysis and may
// lag behind text until the pending refresh runs.
type document struct {
	uri     string
	version int32
	text    string
	result  *driver.ParseResult
	// resultVersion is the version result was computed from
	resultVersion int32
	timer         *time.Timer
}

func (d *document) fresh() bool {
	return d.result != nil && d.resultVersion == d.version
}

func (s *Server) openDocument(uri string, version int32, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.docs[uri]; ok && old.timer != nil {
		old.timer.Stop()
	}
	s.docs[uri] = &document{uri: uri, version: version, text: text}
}

// updateDocument applies edits and returns false for unknown documents.
func (s *Server) updateDocument(uri string, version int32, changes []any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok {
		return false
	}
	doc.text = applyChanges(doc.text, changes)
	doc.version = version
	return true
}

func (s *Server) replaceDocumentText(uri, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok {
		return false
	}
	if doc.text != text {
		doc.text = text
		doc.version++
	}
	return true
}

func (s *Server) closeDocument(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.docs[uri]; ok {
		if doc.timer != nil {
			doc.timer.Stop()
		}
		delete(s.docs, uri)
	}
}

// snapshot returns the text and version of uri.
func (s *Server) snapshot(uri string) (text string, version int32, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok {
		return "", 0, false
	}
	return doc.text, doc.version, true
}

// storeResult records res unless the document moved on in the meantime.
func (s *Server) storeResult(uri string, version int32, res *driver.ParseResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok || doc.version != version {
		return false
	}
	doc.result = res
	doc.resultVersion = version
	return true
}

// currentResult returns the analysis of the current version, if any.
func (s *Server) currentResult(uri string) *driver.ParseResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok || !doc.fresh() {
		return nil
	}
	return doc.result
}

func (s *Server) openCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}
