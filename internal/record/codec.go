package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format names a record file encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatTOML    Format = "toml"
	FormatMsgpack Format = "msgpack"
)

// ErrUnsupportedFormat is returned for file extensions with no codec.
var ErrUnsupportedFormat = errors.New("unsupported record format")

type codec struct {
	marshal   func(Record) ([]byte, error)
	unmarshal func([]byte, *Record) error
}

var codecs = map[Format]codec{
	FormatJSON: {
		marshal: func(r Record) ([]byte, error) {
			data, err := json.MarshalIndent(r, "", "  ")
			if err != nil {
				return nil, err
			}
			return append(data, '\n'), nil
		},
		unmarshal: func(data []byte, r *Record) error { return json.Unmarshal(data, r) },
	},
	FormatYAML: {
		marshal:   func(r Record) ([]byte, error) { return yaml.Marshal(r) },
		unmarshal: func(data []byte, r *Record) error { return yaml.Unmarshal(data, r) },
	},
	FormatTOML: {
		// TOML has no null, so nil params are left out.
		marshal: func(r Record) ([]byte, error) {
			r.Params = withoutNil(r.Params)
			return toml.Marshal(r)
		},
		unmarshal: func(data []byte, r *Record) error { return toml.Unmarshal(data, r) },
	},
	FormatMsgpack: {
		marshal:   func(r Record) ([]byte, error) { return msgpack.Marshal(r) },
		unmarshal: func(data []byte, r *Record) error { return msgpack.Unmarshal(data, r) },
	},
}

// FormatFor picks the codec from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	}
	return "", goerr.Wrap(ErrUnsupportedFormat, "unknown record file extension", goerr.V("path", path))
}

// Encode serializes a record.
func Encode(format Format, r Record) ([]byte, error) {
	c, ok := codecs[format]
	if !ok {
		return nil, goerr.Wrap(ErrUnsupportedFormat, "no encoder", goerr.V("format", format))
	}
	if r.Params == nil {
		r.Params = Params{}
	}
	data, err := c.marshal(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode record", goerr.V("format", format), goerr.V("id", r.ID))
	}
	return data, nil
}

// Decode parses a record. Missing params decode as an empty map.
func Decode(format Format, data []byte) (Record, error) {
	c, ok := codecs[format]
	if !ok {
		return Record{}, goerr.Wrap(ErrUnsupportedFormat, "no decoder", goerr.V("format", format))
	}
	var r Record
	if err := c.unmarshal(data, &r); err != nil {
		return Record{}, goerr.Wrap(err, "failed to decode record", goerr.V("format", format))
	}
	if r.Params == nil {
		r.Params = Params{}
	}
	for key, value := range r.Params {
		r.Params[key] = plainValue(value)
	}
	return r, nil
}

// plainValue rewrites decoder-specific containers (yaml decodes nested maps
// as Params, msgpack may yield map[any]any) into map[string]any and []any,
// the only container types flattening descends into.
func plainValue(value any) any {
	switch typed := value.(type) {
	case Params:
		return plainMap(typed)
	case map[string]any:
		return plainMap(typed)
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[fmt.Sprint(k)] = plainValue(v)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = plainValue(v)
		}
		return out
	default:
		return value
	}
}

func plainMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plainValue(v)
	}
	return out
}

// Load reads a record file.
func Load(path string) (Record, error) {
	format, err := FormatFor(path)
	if err != nil {
		return Record{}, err
	}
	// #nosec G304 - path comes from the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, goerr.Wrap(err, "failed to read record", goerr.V("path", path))
	}
	r, err := Decode(format, data)
	if err != nil {
		return Record{}, goerr.Wrap(err, "failed to load record", goerr.V("path", path))
	}
	return r, nil
}

// Save writes a record file, replacing it atomically.
func Save(path string, r Record) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Encode(format, r)
	if err != nil {
		return goerr.Wrap(err, "failed to save record", goerr.V("path", path))
	}
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, mode); err != nil {
		return goerr.Wrap(err, "failed to write record", goerr.V("path", tmp))
	}
	// WriteFile applies the umask; the replaced file keeps its exact mode.
	if err := os.Chmod(tmp, mode); err != nil {
		_ = os.Remove(tmp)
		return goerr.Wrap(err, "failed to set record mode", goerr.V("path", tmp))
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return goerr.Wrap(err, "failed to replace record", goerr.V("path", path))
	}
	return nil
}

func withoutNil(p Params) Params {
	out := make(Params, len(p))
	for k, v := range p {
		if v != nil {
			out[k] = v
		}
	}
	return out
}
