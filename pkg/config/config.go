package config

import (
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/wheelforge/wheelforge/pkg/buildparams"
	"github.com/wheelforge/wheelforge/pkg/errors"
	"github.com/wheelforge/wheelforge/pkg/global"
)

// Project names the source checkout the wheels are built from.
type Project struct {
	Repo string `json:"repo" yaml:"repo"`
	Tag  string `json:"tag" yaml:"tag"`
	// Manifest is the build requirements file inside the checkout that gets
	// rewritten with pinned versions before the build.
	Manifest string `json:"manifest,omitempty" yaml:"manifest"`
}

type Torch struct {
	Minor   string `json:"minor" yaml:"minor"`
	Patch   string `json:"patch" yaml:"patch"`
	Nightly bool   `json:"nightly,omitempty" yaml:"nightly"`
}

type CUDA struct {
	Minor string `json:"minor" yaml:"minor"`
	Patch string `json:"patch" yaml:"patch"`
}

type Build struct {
	Verbosity int `json:"verbosity,omitempty" yaml:"verbosity"`
	// ArchList and PythonABITags override the resolved matrix when set.
	ArchList      []string `json:"arch_list,omitempty" yaml:"arch_list"`
	PythonABITags []string `json:"python_abi_tags,omitempty" yaml:"python_abi_tags"`
	Wheelhouse    string   `json:"wheelhouse,omitempty" yaml:"wheelhouse"`
	OutputDir     string   `json:"output_dir,omitempty" yaml:"output_dir"`
	IndexPort     int      `json:"index_port,omitempty" yaml:"index_port"`
	// Prefetch lists wheel URLs to download into the wheelhouse before the
	// build, so the big torch wheels are served locally.
	Prefetch []string `json:"prefetch,omitempty" yaml:"prefetch"`
	// LegacyCompare reproduces the old string comparison of version minors.
	LegacyCompare bool `json:"legacy_compare,omitempty" yaml:"legacy_compare"`
}

type Config struct {
	Project *Project `json:"project" yaml:"project"`
	Torch   *Torch   `json:"torch" yaml:"torch"`
	CUDA    *CUDA    `json:"cuda" yaml:"cuda"`
	Build   *Build   `json:"build,omitempty" yaml:"build"`
}

func DefaultConfig() *Config {
	return &Config{
		Build: &Build{
			Verbosity:  1,
			Wheelhouse: "wheelhouse",
			OutputDir:  "wheelhouse",
			IndexPort:  global.DefaultIndexPort,
		},
	}
}

func FromYAML(contents []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(contents, config); err != nil {
		return nil, fmt.Errorf("Failed to parse %s: %w", global.ConfigFilename, err)
	}
	return config, nil
}

// ValidateAndComplete checks the config against the embedded schema and fills
// in defaults. It must be called before the config is used.
func (c *Config) ValidateAndComplete() error {
	if c.Project == nil || c.Torch == nil || c.CUDA == nil {
		return errors.InvalidInput(fmt.Sprintf("%s must define project, torch and cuda sections", global.ConfigFilename))
	}
	if err := ValidateConfig(c, defaultVersion); err != nil {
		return err
	}
	if c.Build == nil {
		c.Build = DefaultConfig().Build
	}
	if c.Build.Verbosity == 0 {
		c.Build.Verbosity = 1
	}
	if c.Build.Wheelhouse == "" {
		c.Build.Wheelhouse = "wheelhouse"
	}
	if c.Build.OutputDir == "" {
		c.Build.OutputDir = c.Build.Wheelhouse
	}
	if c.Build.IndexPort == 0 {
		c.Build.IndexPort = global.DefaultIndexPort
	}

	// resolve eagerly so a bad version fails at load time, not mid-build
	_, err := buildparams.Resolve(c.BuildRequest(), c.CompareMode())
	return err
}

// BuildRequest maps the config onto a resolver request.
func (c *Config) BuildRequest() buildparams.Request {
	nightly := "0"
	if c.Torch.Nightly {
		nightly = "1"
	}
	return buildparams.Request{
		GitTag:         c.Project.Tag,
		TorchMinor:     c.Torch.Minor,
		TorchPatch:     c.Torch.Patch,
		TorchIsNightly: nightly,
		CUDAMinor:      c.CUDA.Minor,
		CUDAPatch:      c.CUDA.Patch,
	}
}

func (c *Config) CompareMode() buildparams.CompareMode {
	if c.Build != nil && c.Build.LegacyCompare {
		return buildparams.CompareLexicographic
	}
	return buildparams.CompareNumeric
}

// Resolve returns the build matrix for this config, with any overrides from
// the build section applied.
func (c *Config) Resolve() (*buildparams.Resolved, error) {
	resolved, err := buildparams.Resolve(c.BuildRequest(), c.CompareMode())
	if err != nil {
		return nil, err
	}
	if len(c.Build.ArchList) > 0 {
		resolved.CUDAArchList = c.Build.ArchList
	}
	if len(c.Build.PythonABITags) > 0 {
		resolved.PythonABITags = c.Build.PythonABITags
	}
	return resolved, nil
}

// ManifestPath returns the manifest path inside the checkout.
func (c *Config) ManifestPath() string {
	if c.Project.Manifest != "" {
		return c.Project.Manifest
	}
	return "requirements.txt"
}
