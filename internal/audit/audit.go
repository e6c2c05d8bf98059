package audit

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ResourceType names what an entry refers to.
type ResourceType string

const (
	ResourceMalfunction     ResourceType = "malfunction"
	ResourceMalfunctionList ResourceType = "malfunction_list"
)

// Action names a recorded change on the maintenance page.
type Action string

const (
	ActionMalfunctionReport Action = "malfunction.report"
	ActionMalfunctionUpdate Action = "malfunction.update"
	ActionMalfunctionDelete Action = "malfunction.delete"
	ActionMalfunctionExport Action = "malfunction.export"
)

// Entry represents an audit log entry.
type Entry struct {
	ID            string
	Actor         string
	Role          string
	Action        Action
	ResourceType  ResourceType
	ResourceID    string
	Metadata      json.RawMessage
	PayloadDigest string
	IP            string
	UserAgent     string
	CreatedAt     time.Time
}

// MalfunctionEntry builds an entry for one malfunction row. Non-positive ids
// leave ResourceID empty.
func MalfunctionEntry(action Action, malfunctionID int64, meta map[string]any) Entry {
	entry := Entry{
		Action:       action,
		ResourceType: ResourceMalfunction,
		Metadata:     encodeMetadata(meta),
	}
	if malfunctionID > 0 {
		entry.ResourceID = strconv.FormatInt(malfunctionID, 10)
	}
	return entry
}

// ListEntry builds an entry for the malfunction list as a whole, such as an export.
func ListEntry(action Action, meta map[string]any) Entry {
	return Entry{
		Action:       action,
		ResourceType: ResourceMalfunctionList,
		Metadata:     encodeMetadata(meta),
	}
}

func encodeMetadata(meta map[string]any) json.RawMessage {
	if len(meta) == 0 {
		return nil
	}
	payload, err := json.Marshal(meta)
	if err != nil {
		return nil
	}
	return payload
}

// Logger writes audit entries.
type Logger interface {
	Log(ctx context.Context, entry Entry) error
}

// NewID generates a random audit id.
func NewID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return "audit-" + hex.EncodeToString(buf)
}

// DigestJSON computes a SHA256 hex digest for metadata payloads.
func DigestJSON(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ClientIP extracts client ip from common headers or RemoteAddr.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
