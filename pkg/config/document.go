package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/cmsctl/pkg/config/status"
	"github.com/spf13/afero"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LoadDocument reads a file holding a single JSON object, such as a query or node data.
//
// Files with a .yaml or .yml extension are converted to JSON first.
func LoadDocument(fs afero.Fs, path string) (map[string]interface{}, error) {
	if path == "" {
		return nil, status.ErrMissingPath
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, status.ErrFileNotFound.Wrapf("%s", path)
		}
		return nil, status.ErrReadFile.Wrap(err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if data, err = yaml.YAMLToJSON(data); err != nil {
			return nil, status.ErrInvalidDocument.Wrapf("%s: %v", path, err)
		}
	}

	var doc map[string]interface{}
	if err = json.Unmarshal(data, &doc); err != nil {
		return nil, status.ErrInvalidDocument.Wrapf("%s: %v", path, err)
	}
	if doc == nil {
		return nil, status.ErrInvalidDocument.Wrapf("%s: expected a JSON object", path)
	}
	return doc, nil
}
