// Package config loads and validates a project's flat config.txt file.
package config

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Config is the immutable, fully-resolved project configuration.
type Config struct {
	AppName      string
	SourceDir    string
	OutputDir    string
	TempDir      string
	CFlags       []string
	CxxFlags     []string
	LdFlags      []string
	IncludeDirs  []string
	LinkLibs     []string
	CStandard    string
	CxxStandard  string
	Incremental  bool
	ParallelJobs int
	PreserveTemp bool
	UseProcessGroups bool
	GCCPath      string
	GPPPath      string
}

// ParseError reports a config.txt problem together with its source line.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

var mandatoryKeys = []string{"app_name", "source_dir", "output_dir", "temp_dir"}

var recognizedKeys = map[string]bool{
	"app_name": true, "source_dir": true, "output_dir": true, "temp_dir": true,
	"c_flags": true, "cxx_flags": true, "ld_flags": true,
	"include_dirs": true, "link_libs": true,
	"c_standard": true, "cxx_standard": true,
	"incremental": true, "parallel_jobs": true,
	"preserve_temp": true, "use_process_groups": true,
	"gcc_path": true, "gpp_path": true,
}

// Load reads and validates path, returning a fully-resolved Config.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Msg: fmt.Sprintf("cannot read config: %v", err)}
	}
	defer f.Close()

	cfg := &Config{
		Incremental:  true,
		PreserveTemp: true,
		GCCPath:      envOr("CC", "gcc"),
		GPPPath:      envOr("CXX", "g++"),
		ParallelJobs: runtime.NumCPU(),
	}

	seen := make(map[string]bool)
	lineNo := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return nil, &ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("expected 'key = value', got %q", line)}
		}
		key := strings.TrimSpace(line[:eq])
		rawValue := strings.TrimSpace(line[eq+1:])

		if !recognizedKeys[key] {
			return nil, &ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("unknown config key %q", key)}
		}
		seen[key] = true

		tokens, err := tokenize(rawValue)
		if err != nil {
			return nil, &ParseError{Path: path, Line: lineNo, Msg: err.Error()}
		}
		first := ""
		if len(tokens) > 0 {
			first = tokens[0]
		}

		switch key {
		case "app_name":
			cfg.AppName = first
		case "source_dir":
			cfg.SourceDir = first
		case "output_dir":
			cfg.OutputDir = first
		case "temp_dir":
			cfg.TempDir = first
		case "c_flags":
			cfg.CFlags = tokens
		case "cxx_flags":
			cfg.CxxFlags = tokens
		case "ld_flags":
			cfg.LdFlags = tokens
		case "include_dirs":
			cfg.IncludeDirs = tokens
		case "link_libs":
			cfg.LinkLibs = tokens
		case "c_standard":
			cfg.CStandard = first
		case "cxx_standard":
			cfg.CxxStandard = first
		case "incremental":
			b, err := parseBool(first)
			if err != nil {
				return nil, &ParseError{Path: path, Line: lineNo, Msg: err.Error()}
			}
			cfg.Incremental = b
		case "preserve_temp":
			b, err := parseBool(first)
			if err != nil {
				return nil, &ParseError{Path: path, Line: lineNo, Msg: err.Error()}
			}
			cfg.PreserveTemp = b
		case "use_process_groups":
			b, err := parseBool(first)
			if err != nil {
				return nil, &ParseError{Path: path, Line: lineNo, Msg: err.Error()}
			}
			cfg.UseProcessGroups = b
		case "gcc_path":
			cfg.GCCPath = first
		case "gpp_path":
			cfg.GPPPath = first
		case "parallel_jobs":
			n, err := parseParallelJobs(first)
			if err != nil {
				return nil, &ParseError{Path: path, Line: lineNo, Msg: err.Error()}
			}
			cfg.ParallelJobs = n
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Path: path, Msg: fmt.Sprintf("cannot read config: %v", err)}
	}

	for _, k := range mandatoryKeys {
		if !seen[k] {
			return nil, &ParseError{Path: path, Msg: fmt.Sprintf("missing mandatory key %q", k)}
		}
	}
	if cfg.AppName == "" {
		return nil, &ParseError{Path: path, Msg: "app_name must not be empty"}
	}
	if strings.ContainsAny(cfg.AppName, "/\\") {
		return nil, &ParseError{Path: path, Msg: fmt.Sprintf("app_name %q must not contain path separators", cfg.AppName)}
	}

	return cfg, nil
}

// envOr returns the named environment variable, falling back to def when
// unset. gcc_path/gpp_path in config.txt, if present, take precedence over
// both.
func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no", "":
		return false, nil
	default:
		return false, fmt.Errorf("expected bool (true/false), got %q", s)
	}
}

func parseParallelJobs(s string) (int, error) {
	if strings.EqualFold(s, "auto") {
		return runtime.NumCPU(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("expected a positive integer or 'auto' for parallel_jobs, got %q", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("parallel_jobs must be positive, got %d", n)
	}
	return n, nil
}

// tokenize splits a raw config value into argv-style tokens. Tokens are
// separated by unquoted whitespace; a double-quoted span makes whitespace
// literal within it; backslash escapes the following character. Commas are
// ordinary characters and never split a token.
func tokenize(s string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inToken := false
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch c {
		case '\\':
			i++
			if i >= len(runes) {
				return nil, fmt.Errorf("trailing backslash in value")
			}
			inToken = true
			cur.WriteRune(runes[i])
		case '"':
			inToken = true
			i++
			closed := false
			for i < len(runes) {
				if runes[i] == '"' {
					closed = true
					break
				}
				if runes[i] == '\\' && i+1 < len(runes) {
					i++
					cur.WriteRune(runes[i])
				} else {
					cur.WriteRune(runes[i])
				}
				i++
			}
			if !closed {
				return nil, fmt.Errorf("unterminated quote in value")
			}
		case ' ', '\t':
			if inToken {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			inToken = true
			cur.WriteRune(c)
		}
	}

	if inToken {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}
