// Package ecosystem derives toolchain metadata files for new worktrees.
package ecosystem

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// JavaVersionFile is the file read by jenv, asdf and similar version managers.
const JavaVersionFile = ".java-version"

// Outcome reports what DeriveJavaVersion did.
type Outcome string

const (
	Written Outcome = "written"
	Skipped Outcome = "skipped"
)

// Result describes the outcome for one worktree.
type Result struct {
	Outcome Outcome
	Version string // the version written, if any
	Source  string // build file the version came from
	Reason  string // why it was skipped
}

// DeriveJavaVersion writes .java-version in dir from the Java release declared
// in pom.xml or build.gradle(.kts). An existing .java-version is never touched.
func DeriveJavaVersion(dir string) (Result, error) {
	target := filepath.Join(dir, JavaVersionFile)
	if _, err := os.Stat(target); err == nil {
		return Result{Outcome: Skipped, Reason: JavaVersionFile + " already exists"}, nil
	}

	version, source, err := detect(dir)
	if err != nil {
		return Result{}, err
	}
	if version == "" {
		return Result{Outcome: Skipped, Reason: "no Java version declared"}, nil
	}

	if err := os.WriteFile(target, []byte(version+"\n"), 0o644); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", JavaVersionFile, err)
	}
	return Result{Outcome: Written, Version: version, Source: source}, nil
}

func detect(dir string) (version, source string, err error) {
	pom := filepath.Join(dir, "pom.xml")
	if data, err := os.ReadFile(pom); err == nil {
		v, err := fromPOM(data)
		if err != nil {
			return "", "", fmt.Errorf("parse pom.xml: %w", err)
		}
		if v != "" {
			return v, "pom.xml", nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", "", err
	}

	for _, name := range []string{"build.gradle.kts", "build.gradle"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", "", err
		}
		if v := fromGradle(string(data)); v != "" {
			return v, name, nil
		}
	}
	return "", "", nil
}

type pomProject struct {
	Properties struct {
		Entries []pomProperty `xml:",any"`
	} `xml:"properties"`
	Build struct {
		Plugins []struct {
			ArtifactID    string `xml:"artifactId"`
			Configuration struct {
				Release string `xml:"release"`
				Source  string `xml:"source"`
			} `xml:"configuration"`
		} `xml:"plugins>plugin"`
	} `xml:"build"`
}

type pomProperty struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// pomKeys are checked in order; release beats source.
var pomKeys = []string{"maven.compiler.release", "maven.compiler.source", "java.version"}

func fromPOM(data []byte) (string, error) {
	var p pomProject
	if err := xml.Unmarshal(data, &p); err != nil {
		return "", err
	}

	props := make(map[string]string, len(p.Properties.Entries))
	for _, e := range p.Properties.Entries {
		props[e.XMLName.Local] = strings.TrimSpace(e.Value)
	}

	for _, key := range pomKeys {
		if v := resolveProperty(props[key], props); v != "" {
			return v, nil
		}
	}

	for _, pl := range p.Build.Plugins {
		if pl.ArtifactID != "maven-compiler-plugin" {
			continue
		}
		for _, v := range []string{pl.Configuration.Release, pl.Configuration.Source} {
			if v := resolveProperty(strings.TrimSpace(v), props); v != "" {
				return v, nil
			}
		}
	}
	return "", nil
}

var propertyRef = regexp.MustCompile(`^\$\{([^}]+)\}$`)

// resolveProperty expands a single ${name} reference, one level deep.
func resolveProperty(v string, props map[string]string) string {
	if m := propertyRef.FindStringSubmatch(v); m != nil {
		v = props[m[1]]
		if propertyRef.MatchString(v) {
			return ""
		}
	}
	return v
}

var gradlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`JavaLanguageVersion\.of\(\s*"?(\d+)"?\s*\)`),
	regexp.MustCompile(`(?m)^\s*(?:java\.)?sourceCompatibility\s*=\s*JavaVersion\.VERSION_(\d+(?:_\d+)?)`),
	regexp.MustCompile(`(?m)^\s*(?:java\.)?sourceCompatibility\s*=\s*['"]?(\d+(?:\.\d+)?)['"]?`),
}

func fromGradle(content string) string {
	for _, re := range gradlePatterns {
		if m := re.FindStringSubmatch(content); m != nil {
			return strings.ReplaceAll(m[1], "_", ".")
		}
	}
	return ""
}
