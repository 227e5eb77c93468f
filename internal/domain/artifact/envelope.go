package artifact

import (
	"encoding/json"
	"fmt"
	"os"
)

// FormatVersion is the artifact file layout understood by this build.
const FormatVersion = 1

// Artifact kinds.
const (
	KindMinMaxScaler = "minmax_scaler"
	KindSVC          = "svc"
	KindLabelEncoder = "label_encoder"
)

const artifactFilePermission = 0o600

// Header starts every artifact file.
type Header struct {
	FormatVersion int    `json:"format_version"`
	Kind          string `json:"kind"`
}

func (h Header) check(kind string) error {
	if h.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: got %d, want %d", ErrFormatVersion, h.FormatVersion, FormatVersion)
	}
	if h.Kind != kind {
		return fmt.Errorf("%w: got %q, want %q", ErrKind, h.Kind, kind)
	}
	return nil
}

// readHeader returns the raw file and its header.
func readHeader(path string) ([]byte, Header, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, Header{}, err
	}
	var h Header
	if err := json.Unmarshal(payload, &h); err != nil {
		return nil, Header{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return payload, h, nil
}

// readEnvelope decodes path into v after checking version and kind.
func readEnvelope(path, kind string, v any) error {
	payload, h, err := readHeader(path)
	if err != nil {
		return err
	}
	if err := h.check(kind); err != nil {
		return err
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeEnvelope(path string, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, artifactFilePermission)
}
