package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// projectConfig is the optional quill.yaml project file, SPEC_FULL.md
// §2.3's thin config collaborator — grounded on adest-aes-scripts/
// go-tools/cmd/devshell's config.go/dslyaml.go pairing (env/XDG-style
// resolution backing a yaml.v3-decoded document), scaled down to the
// handful of fields a static-site build actually needs.
type projectConfig struct {
	SrcRoot  string `yaml:"src_root"`
	DistRoot string `yaml:"dist_root"`
	RootURL  string `yaml:"root_url"`
}

// defaultConfig matches the conventional layout of a quill project when
// no quill.yaml is present or a field is left blank.
func defaultConfig() projectConfig {
	return projectConfig{SrcRoot: "src", DistRoot: "dist", RootURL: "/"}
}

// loadConfig reads path if it exists, overlaying onto the defaults; a
// missing file is not an error (falling back to flags/cwd discovery is
// out of core scope per spec.md §1, same as project discovery itself).
func loadConfig(path string) (projectConfig, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
