package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/doctree/internal/doctree"
	"github.com/dgallion1/doctree/internal/ingest"
)

type messageJSON struct {
	Level  int    `json:"level"`
	Type   string `json:"type"`
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
	Line   int    `json:"line,omitempty"`
}

type convertResponse struct {
	Filename string        `json:"filename"`
	Tree     string        `json:"tree"`
	Valid    bool          `json:"valid"`
	Problems []string      `json:"problems,omitempty"`
	Messages []messageJSON `json:"messages,omitempty"`
}

// handleConvert parses an uploaded document and returns the resulting
// tree as pseudo-XML, together with validity information and system
// messages.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	s.runConversion(w, r, true)
}

// handleValidate runs the same pipeline but returns only the verdict.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	s.runConversion(w, r, false)
}

func (s *Server) runConversion(w http.ResponseWriter, r *http.Request, includeTree bool) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	result, err := ingest.Convert(bytes.NewReader(data), filename, s.cfg.Doc(), s.log)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	resp := convertResponse{
		Filename: filename,
		Valid:    result.ValidationErr == nil,
	}
	if includeTree {
		resp.Tree = result.Doc.PFormat("    ", 0)
	}
	var verr *doctree.ValidationError
	if errors.As(result.ValidationErr, &verr) {
		resp.Problems = verr.Problems
	} else if result.ValidationErr != nil {
		resp.Problems = []string{result.ValidationErr.Error()}
	}
	for _, msg := range result.Messages {
		resp.Messages = append(resp.Messages, messageJSON{
			Level:  msg.GetInt("level"),
			Type:   msg.GetString("type"),
			Text:   msg.AsText(),
			Source: msg.GetString("source"),
			Line:   msg.GetInt("line"),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// readUpload accepts either a multipart form with a "file" field or a
// raw body with a filename query parameter.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	var filename string
	var file io.Reader

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(ct, "multipart/") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
			return "", nil, false
		}
		defer r.MultipartForm.RemoveAll()

		f, header, err := r.FormFile("file")
		if err != nil {
			jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
			return "", nil, false
		}
		defer f.Close()
		filename = header.Filename
		file = f
	} else {
		filename = r.URL.Query().Get("filename")
		if filename == "" {
			jsonError(w, "filename query parameter is required", http.StatusBadRequest)
			return "", nil, false
		}
		file = r.Body
	}

	filename = sanitizeFilename(filename)
	if !ingest.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return "", nil, false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return "", nil, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return "", nil, false
	}

	return filename, data, true
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
