package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fulmenhq/coursekit/pkg/safeio"
	"github.com/spf13/viper"
)

// Config holds all configuration for coursekit
type Config struct {
	Layout   LayoutConfig   `mapstructure:"layout" yaml:"layout" toml:"layout" json:"layout"`
	Files    FilesConfig    `mapstructure:"files" yaml:"files" toml:"files" json:"files"`
	Classify ClassifyConfig `mapstructure:"classify" yaml:"classify" toml:"classify" json:"classify"`
	Meta     MetaConfig     `mapstructure:"meta" yaml:"meta" toml:"meta" json:"meta"`
}

// LayoutConfig names the directories of the canonical course layout
type LayoutConfig struct {
	ContentDir     string   `mapstructure:"content_dir" yaml:"content_dir" toml:"content_dir" json:"content_dir"`
	LessonsDir     string   `mapstructure:"lessons_dir" yaml:"lessons_dir" toml:"lessons_dir" json:"lessons_dir"`
	AssessmentsDir string   `mapstructure:"assessments_dir" yaml:"assessments_dir" toml:"assessments_dir" json:"assessments_dir"`
	ResourcesDir   string   `mapstructure:"resources_dir" yaml:"resources_dir" toml:"resources_dir" json:"resources_dir"`
	LegacyDirs     []string `mapstructure:"legacy_dirs" yaml:"legacy_dirs" toml:"legacy_dirs" json:"legacy_dirs"`
	IgnoreFile     string   `mapstructure:"ignore_file" yaml:"ignore_file" toml:"ignore_file" json:"ignore_file"`
}

// FilesConfig names the four reserved files of an addressable folder
type FilesConfig struct {
	Header  string `mapstructure:"header" yaml:"header" toml:"header" json:"header"`
	Autogen string `mapstructure:"autogen" yaml:"autogen" toml:"autogen" json:"autogen"`
	Readme  string `mapstructure:"readme" yaml:"readme" toml:"readme" json:"readme"`
	Meta    string `mapstructure:"meta" yaml:"meta" toml:"meta" json:"meta"`
}

// ClassifyConfig holds the keyword and extension tables used for routing
type ClassifyConfig struct {
	NotebookExt        string   `mapstructure:"notebook_ext" yaml:"notebook_ext" toml:"notebook_ext" json:"notebook_ext"`
	AssessmentKeywords []string `mapstructure:"assessment_keywords" yaml:"assessment_keywords" toml:"assessment_keywords" json:"assessment_keywords"`
	ResourceKeywords   []string `mapstructure:"resource_keywords" yaml:"resource_keywords" toml:"resource_keywords" json:"resource_keywords"`
	ResourceExtensions []string `mapstructure:"resource_extensions" yaml:"resource_extensions" toml:"resource_extensions" json:"resource_extensions"`
	// ResourceGlobs are doublestar patterns matched against a file's base name.
	ResourceGlobs []string `mapstructure:"resource_globs" yaml:"resource_globs" toml:"resource_globs" json:"resource_globs"`
}

// MetaConfig holds metadata record defaults
type MetaConfig struct {
	SchemaVersion int    `mapstructure:"schema_version" yaml:"schema_version" toml:"schema_version" json:"schema_version"`
	DefaultStatus string `mapstructure:"default_status" yaml:"default_status" toml:"default_status" json:"default_status"`
	Timezone      string `mapstructure:"timezone" yaml:"timezone" toml:"timezone" json:"timezone"`
}

var defaultConfig = Config{
	Layout: LayoutConfig{
		ContentDir:     "Assignments",
		LessonsDir:     "Lessons",
		AssessmentsDir: "Assessments",
		ResourcesDir:   "Resources",
		LegacyDirs:     []string{"notebooks"},
		IgnoreFile:     ".courseignore",
	},
	Files: FilesConfig{
		Header:  "_header.md",
		Autogen: "_autogen.md",
		Readme:  "README.md",
		Meta:    "meta.yaml",
	},
	Classify: ClassifyConfig{
		NotebookExt: ".ipynb",
		AssessmentKeywords: []string{
			"quiz", "mini_quiz", "miniquiz", "worksheet", "exam", "test", "assessment",
		},
		ResourceKeywords: []string{
			"glossary", "resource", "resources", "helper", "helpers", "reference", "video", "videos",
		},
		ResourceExtensions: []string{
			".md", ".pdf", ".csv", ".tsv", ".json", ".geojson", ".gpkg", ".shp",
			".tif", ".tiff", ".png", ".jpg", ".jpeg", ".zip",
		},
		ResourceGlobs: []string{},
	},
	Meta: MetaConfig{
		SchemaVersion: 1,
		DefaultStatus: "draft",
		Timezone:      "America/Chicago",
	},
}

// Default returns a copy of the built-in configuration
func Default() *Config {
	c := defaultConfig
	c.Layout.LegacyDirs = cloneStrings(defaultConfig.Layout.LegacyDirs)
	c.Classify.AssessmentKeywords = cloneStrings(defaultConfig.Classify.AssessmentKeywords)
	c.Classify.ResourceKeywords = cloneStrings(defaultConfig.Classify.ResourceKeywords)
	c.Classify.ResourceExtensions = cloneStrings(defaultConfig.Classify.ResourceExtensions)
	c.Classify.ResourceGlobs = cloneStrings(defaultConfig.Classify.ResourceGlobs)
	return &c
}

// ConfigFileNames are the project-level config files searched for, in order
var ConfigFileNames = []string{
	".coursekit.yaml",
	".coursekit.yml",
	".coursekit.toml",
	".coursekit.json",
}

// LoadOptions controls where LoadConfig looks
type LoadOptions struct {
	// ConfigFile is an explicit path; when set it must exist and parse.
	ConfigFile string
	// SearchDirs are checked in order for one of ConfigFileNames.
	SearchDirs []string
}

// LoadConfig loads configuration from defaults, an optional file and COURSEKIT_* env vars
func LoadConfig(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("COURSEKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", opts.ConfigFile, err)
		}
	} else if path := findConfigFile(opts.SearchDirs); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	d := defaultConfig
	v.SetDefault("layout.content_dir", d.Layout.ContentDir)
	v.SetDefault("layout.lessons_dir", d.Layout.LessonsDir)
	v.SetDefault("layout.assessments_dir", d.Layout.AssessmentsDir)
	v.SetDefault("layout.resources_dir", d.Layout.ResourcesDir)
	v.SetDefault("layout.legacy_dirs", d.Layout.LegacyDirs)
	v.SetDefault("layout.ignore_file", d.Layout.IgnoreFile)

	v.SetDefault("files.header", d.Files.Header)
	v.SetDefault("files.autogen", d.Files.Autogen)
	v.SetDefault("files.readme", d.Files.Readme)
	v.SetDefault("files.meta", d.Files.Meta)

	v.SetDefault("classify.notebook_ext", d.Classify.NotebookExt)
	v.SetDefault("classify.assessment_keywords", d.Classify.AssessmentKeywords)
	v.SetDefault("classify.resource_keywords", d.Classify.ResourceKeywords)
	v.SetDefault("classify.resource_extensions", d.Classify.ResourceExtensions)
	v.SetDefault("classify.resource_globs", d.Classify.ResourceGlobs)

	v.SetDefault("meta.schema_version", d.Meta.SchemaVersion)
	v.SetDefault("meta.default_status", d.Meta.DefaultStatus)
	v.SetDefault("meta.timezone", d.Meta.Timezone)
}

func findConfigFile(dirs []string) string {
	candidates := append([]string{}, dirs...)
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".coursekit"))
	}
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		for _, name := range ConfigFileNames {
			p := filepath.Join(dir, name)
			if st, err := os.Stat(p); err == nil && !st.IsDir() {
				return p
			}
		}
	}
	return ""
}

// Validate rejects configurations the engine cannot operate with
func (c *Config) Validate() error {
	var problems []string
	required := map[string]string{
		"layout.content_dir":     c.Layout.ContentDir,
		"layout.lessons_dir":     c.Layout.LessonsDir,
		"layout.assessments_dir": c.Layout.AssessmentsDir,
		"layout.resources_dir":   c.Layout.ResourcesDir,
		"files.header":           c.Files.Header,
		"files.autogen":          c.Files.Autogen,
		"files.readme":           c.Files.Readme,
		"files.meta":             c.Files.Meta,
		"classify.notebook_ext":  c.Classify.NotebookExt,
	}
	for _, key := range sortedKeys(required) {
		val := required[key]
		if strings.TrimSpace(val) == "" {
			problems = append(problems, key+" must not be empty")
			continue
		}
		if strings.ContainsAny(val, `/\`) {
			problems = append(problems, key+" must be a plain name")
		}
	}
	if c.Layout.IgnoreFile != "" {
		if _, err := safeio.CleanUserPath(c.Layout.IgnoreFile); err != nil {
			problems = append(problems, "layout.ignore_file must stay inside the repository")
		}
	}
	if c.Meta.SchemaVersion <= 0 {
		problems = append(problems, "meta.schema_version must be positive")
	}
	if strings.TrimSpace(c.Meta.DefaultStatus) == "" {
		problems = append(problems, "meta.default_status must not be empty")
	}
	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
