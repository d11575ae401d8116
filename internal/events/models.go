package events

import (
	"bytes"
	"encoding/json"
	"io"
)

// ConversionMessage is the body of the lifecycle events emitted when a
// conversion reaches a terminal status.
type ConversionMessage struct {
	ConversionID string `json:"conversion_id"`
	UserID       string `json:"user_id"`
	Status       string `json:"status"`
	CadFileURL   string `json:"cad_file_url,omitempty"`
	StlFileURL   string `json:"stl_file_url,omitempty"`
	ObjFileURL   string `json:"obj_file_url,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Reader returns the JSON encoding of the message, ready to hand to the
// producer.
func (m ConversionMessage) Reader() (io.Reader, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
