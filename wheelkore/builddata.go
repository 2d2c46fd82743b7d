package wheelkore

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// Keys of the build data the hook sets. Other keys set by the frontend are
// passed through unchanged.
const (
	KeyForceInclude = "force_include"
	KeyPurePython   = "pure_python"
	KeyTag          = "tag"
	KeyInferTag     = "infer_tag"
)

// BuildData is the mutable registration structure of the packaging frontend.
// A nil BuildData is valid for reading.
type BuildData map[string]any

// ReadBuildData decodes a JSON object. Empty input yields an empty BuildData.
func ReadBuildData(r io.Reader) (BuildData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read build data: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return make(BuildData), nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var bd BuildData
	if err := dec.Decode(&bd); err != nil {
		return nil, fmt.Errorf("decode build data: %w", err)
	}
	if bd == nil {
		bd = make(BuildData)
	}
	return bd, nil
}

func (bd BuildData) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bd); err != nil {
		return fmt.Errorf("encode build data: %w", err)
	}
	return nil
}

// Include maps the local file src to dst inside the package archive.
func (bd BuildData) Include(src, dst string) {
	switch fi := bd[KeyForceInclude].(type) {
	case map[string]any:
		fi[src] = dst
	case map[string]string:
		fi[src] = dst
	default:
		bd[KeyForceInclude] = map[string]any{src: dst}
	}
}

// ForceInclude returns a copy of the forced inclusions that have string
// values.
func (bd BuildData) ForceInclude() map[string]string {
	res := make(map[string]string)
	switch fi := bd[KeyForceInclude].(type) {
	case map[string]any:
		for k, v := range fi {
			if s, ok := v.(string); ok {
				res[k] = s
			}
		}
	case map[string]string:
		for k, v := range fi {
			res[k] = v
		}
	}
	return res
}

func (bd BuildData) SetPure(pure bool) { bd[KeyPurePython] = pure }

// Pure reports the pure flag. Unset means pure.
func (bd BuildData) Pure() bool {
	if p, ok := bd[KeyPurePython].(bool); ok {
		return p
	}
	return true
}

func (bd BuildData) SetTag(tag string) { bd[KeyTag] = tag }

func (bd BuildData) Tag() (string, bool) {
	tag, ok := bd[KeyTag].(string)
	return tag, ok
}

func (bd BuildData) SetInferTag() { bd[KeyInferTag] = true }

func (bd BuildData) InferTag() bool {
	infer, _ := bd[KeyInferTag].(bool)
	return infer
}
