package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/tailscale/hujson"

	"github.com/sonvt1710/coc-java/internal/jdk"
	"github.com/sonvt1710/coc-java/internal/utils"
)

// Setting keys, as written in coc-settings.json.
const (
	KeyJavaHome       = "java.jdt.ls.java.home"
	KeyLegacyJavaHome = "java.home"
	KeyRuntimes       = "java.configuration.runtimes"
	KeyVMArgs         = "java.jdt.ls.vmargs"
	KeyLombokSupport  = "java.jdt.ls.lombokSupport.enabled"
	KeyJavacEnabled   = "java.jdt.ls.javac.enabled"
)

// RuntimeSetting is one entry of java.configuration.runtimes.
type RuntimeSetting struct {
	Name    string `json:"name" toml:"name" validate:"required,runtimename"`
	Path    string `json:"path" toml:"path" validate:"required"`
	Default bool   `json:"default,omitempty" toml:"default"`
}

// Settings holds the Java settings the resolvers read.
type Settings struct {
	// JavaHome pins the JDK that runs the language server.
	JavaHome string `json:"java.jdt.ls.java.home,omitempty" toml:"java.jdt.ls.java.home"`

	// LegacyJavaHome is the deprecated java.home setting, used only when
	// JavaHome is empty.
	LegacyJavaHome string `json:"java.home,omitempty" toml:"java.home"`

	Runtimes []RuntimeSetting `json:"java.configuration.runtimes,omitempty" toml:"java.configuration.runtimes" validate:"dive"`

	// VMArgs are extra JVM arguments for the language server, space separated.
	VMArgs string `json:"java.jdt.ls.vmargs,omitempty" toml:"java.jdt.ls.vmargs"`

	// LombokSupport defaults to enabled when unset.
	LombokSupport *bool `json:"java.jdt.ls.lombokSupport.enabled,omitempty" toml:"java.jdt.ls.lombokSupport.enabled"`

	// JavacEnabled switches the language server to javac-based compilation,
	// which needs Java 23 to run.
	JavacEnabled bool `json:"java.jdt.ls.javac.enabled,omitempty" toml:"java.jdt.ls.javac.enabled"`
}

var (
	runtimeNameRegex = regexp.MustCompile(`^JavaSE-(1\.[5-8]|[1-9][0-9]*)$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("runtimename", func(fl validator.FieldLevel) bool {
		return runtimeNameRegex.MatchString(fl.Field().String())
	})
	return v
}

// Load reads settings from the default location. A missing file yields
// default settings.
func Load() (*Settings, error) {
	path, err := utils.GetSettingsFile()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings file path: %w", err)
	}
	return LoadFile(path)
}

// LoadFile reads settings from path. Files ending in .toml are parsed as
// TOML; anything else as JSON with comments and trailing commas allowed.
func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Settings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var s Settings
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &s); err != nil {
			return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	} else {
		standard, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
		if err := json.Unmarshal(standard, &s); err != nil {
			return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks runtime declarations.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: field %s failed %q validation (value %q)", KeyRuntimes, fe.Field(), fe.Tag(), fe.Value())
		}
		return err
	}

	defaults := 0
	for _, rt := range s.Runtimes {
		if rt.Default {
			defaults++
		}
	}
	if defaults > 1 {
		return fmt.Errorf("%s: only one runtime can be marked default, found %d", KeyRuntimes, defaults)
	}
	return nil
}

// Home returns the configured tooling JDK. deprecated is true when the value
// came from java.home.
func (s *Settings) Home() (home string, deprecated bool) {
	if s.JavaHome != "" {
		return s.JavaHome, false
	}
	if s.LegacyJavaHome != "" {
		return s.LegacyJavaHome, true
	}
	return "", false
}

// LombokEnabled reports whether the Lombok agent should be injected.
func (s *Settings) LombokEnabled() bool {
	return s.LombokSupport == nil || *s.LombokSupport
}

// RequiredVersion is the minimum Java release for the tooling JDK.
func (s *Settings) RequiredVersion() int {
	return jdk.RequiredVersion(s.JavacEnabled)
}

// JDKRuntimes converts the declared runtimes for the resolver.
func (s *Settings) JDKRuntimes() []jdk.Runtime {
	runtimes := make([]jdk.Runtime, 0, len(s.Runtimes))
	for _, rt := range s.Runtimes {
		runtimes = append(runtimes, jdk.Runtime{Path: rt.Path, Name: rt.Name, Default: rt.Default})
	}
	return runtimes
}

// VMArgList splits VMArgs into arguments. Double quotes group words and are
// removed, so -Dfoo="a b" becomes -Dfoo=a b.
func (s *Settings) VMArgList() []string {
	return ParseVMArgs(s.VMArgs)
}

// ParseVMArgs splits a JVM argument string on whitespace outside quotes.
func ParseVMArgs(raw string) []string {
	var (
		args    []string
		current strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range raw {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if started {
		args = append(args, current.String())
	}
	return args
}
