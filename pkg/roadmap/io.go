package roadmap

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/yolcu/mindmap/pkg/errors"
)

// Decode parses roadmap JSON. It accepts either bare Content or the Roadmap
// envelope returned by the roadmap API; in the envelope, content may also be
// a JSON-encoded string.
func Decode(data []byte) (*Roadmap, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidContent, "roadmap document is empty")
	}

	var probe struct {
		ID      int64           `json:"id"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidContent, err, "decode roadmap")
	}

	if len(probe.Content) == 0 || string(probe.Content) == "null" {
		var c Content
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidContent, err, "decode roadmap content")
		}
		return &Roadmap{Content: c}, nil
	}

	var r Roadmap
	raw := probe.Content
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidContent, err, "decode roadmap content string")
		}
		raw = []byte(s)
	}
	if err := json.Unmarshal(raw, &r.Content); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidContent, err, "decode roadmap content")
	}

	// Everything but content decodes directly from the envelope.
	var meta struct {
		ID        int64  `json:"id"`
		UserID    int64  `json:"user_id"`
		CreatedAt string `json:"created_at"`
		UpdatedAt string `json:"updated_at"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidContent, err, "decode roadmap envelope")
	}
	r.ID, r.UserID, r.CreatedAt, r.UpdatedAt = meta.ID, meta.UserID, meta.CreatedAt, meta.UpdatedAt
	return &r, nil
}

// Read decodes a roadmap from r.
func Read(r io.Reader) (*Roadmap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read roadmap")
	}
	return Decode(data)
}

// ReadFile decodes a roadmap from the file at path.
func ReadFile(path string) (*Roadmap, error) {
	if err := errors.ValidateFilePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "roadmap file %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return Decode(data)
}

// Marshal serializes content as pretty-printed JSON.
func Marshal(c Content) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Write serializes content to w as pretty-printed JSON.
func Write(w io.Writer, c Content) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
